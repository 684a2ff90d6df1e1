package classifier

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"food-checker/internal/core/food"
	"food-checker/internal/pkg/common"
)

const (
	maxIngredientNameLength = 100
	maxCalories             = 2000

	defaultFoodReason  = "The AI says this counts as food."
	defaultTrashReason = "The AI says this is definitely not food."
)

var digitsPattern = regexp.MustCompile(`\d+`)

// parseClassification 解析類型判定的回覆
// 任何畸形內容都退回 whole：單項判定流程本身就是保守路徑
func parseClassification(content string) *food.Classification {
	whole := &food.Classification{Type: food.TypeWhole}

	jsonStr, ok := common.ExtractJSONObject(content)
	if !ok {
		return whole
	}

	var raw struct {
		Type        string          `json:"type"`
		Ingredients []rawIngredient `json:"ingredients"`
	}
	if err := common.ParseJSON(jsonStr, &raw); err != nil {
		return whole
	}

	switch strings.ToLower(strings.TrimSpace(raw.Type)) {
	case "processed":
		return &food.Classification{Type: food.TypeProcessed}
	case "combination":
		ingredients := sanitizeIngredients(raw.Ingredients)
		if len(ingredients) < 2 {
			return whole
		}
		return &food.Classification{
			Type:        food.TypeCombination,
			Ingredients: ingredients,
		}
	default:
		return whole
	}
}

// rawIngredient 模型回覆中的成分條目
type rawIngredient struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
}

// sanitizeIngredients 清洗成分清單：去空名、截長度、夾權重、重新正規化
func sanitizeIngredients(raw []rawIngredient) []food.DeclaredIngredient {
	ingredients := make([]food.DeclaredIngredient, 0, len(raw))
	for _, ing := range raw {
		name := strings.ToLower(strings.TrimSpace(ing.Name))
		if name == "" {
			continue
		}
		if len(name) > maxIngredientNameLength {
			name = name[:maxIngredientNameLength]
		}

		weight := ing.Weight
		if weight < 0 || math.IsNaN(weight) {
			weight = 0
		} else if weight > 1 {
			weight = 1
		}

		ingredients = append(ingredients, food.DeclaredIngredient{
			Name:   name,
			Weight: weight,
		})
		if len(ingredients) == food.MaxIngredients {
			break
		}
	}

	if len(ingredients) < 2 {
		return ingredients
	}

	// 權重重新正規化，總和歸一；全零時均分
	total := 0.0
	for _, ing := range ingredients {
		total += ing.Weight
	}
	for i := range ingredients {
		if total > 0 {
			ingredients[i].Weight = round3(ingredients[i].Weight / total)
		} else {
			ingredients[i].Weight = round3(1.0 / float64(len(ingredients)))
		}
	}
	return ingredients
}

// parseVerdict 解析四行格式的判定回覆
// 每一行都獨立容錯：缺行或格式不符時落到該行的預設值
func parseVerdict(content string) *food.VerdictResult {
	lines := nonEmptyLines(content)

	isFood := len(lines) > 0 && strings.HasPrefix(strings.ToLower(lines[0]), "yes")

	score := food.FailSafeScore
	reason := defaultTrashReason
	if isFood {
		score = food.DefaultFoodScore
		reason = defaultFoodReason
	}

	if len(lines) > 1 {
		if n, ok := firstNumber(lines[1]); ok && n >= 0 && n <= 100 {
			score = n
		}
	}

	var calories *int
	caloriesLineUsed := false
	if len(lines) > 2 {
		if n, ok := firstNumber(lines[2]); ok && n >= 0 && n <= maxCalories {
			calories = &n
			caloriesLineUsed = true
		}
	}

	// 理由取第四行起；第三行不是卡路里數字時當作理由的開頭
	switch {
	case len(lines) > 3:
		reason = strings.Join(lines[3:], " ")
	case len(lines) > 2 && !caloriesLineUsed:
		reason = lines[2]
	}

	return &food.VerdictResult{
		IsFood:   isFood,
		Score:    score,
		Calories: calories,
		Reason:   reason,
	}
}

var (
	identifyChatterPattern = regexp.MustCompile(`(?i)^(it('s| is| looks like)|this is|i see|the (main )?(food|dish) (in the image )?is)\s*`)
	identifyArticlePattern = regexp.MustCompile(`(?i)^(a|an|the)\s+`)
	trailingPunctPattern   = regexp.MustCompile(`[.!,"']+$`)
)

// cleanIdentifiedName 清洗圖片辨識回覆，只留下食物名稱本身
func cleanIdentifiedName(content string) string {
	name := strings.TrimSpace(content)
	name = strings.SplitN(name, "\n", 2)[0]
	name = identifyChatterPattern.ReplaceAllString(name, "")
	name = identifyArticlePattern.ReplaceAllString(name, "")
	name = trailingPunctPattern.ReplaceAllString(name, "")
	return strings.ToLower(strings.TrimSpace(name))
}

func nonEmptyLines(content string) []string {
	var lines []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func firstNumber(line string) (int, bool) {
	match := digitsPattern.FindString(line)
	if match == "" {
		return 0, false
	}
	n, err := strconv.Atoi(match)
	if err != nil {
		return 0, false
	}
	return n, true
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
