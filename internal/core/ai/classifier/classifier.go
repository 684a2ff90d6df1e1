package classifier

import (
	"context"
	"fmt"

	"food-checker/internal/core/ai/service"
	"food-checker/internal/core/food"
	"food-checker/internal/infrastructure/config"
	"food-checker/internal/pkg/common"

	"go.uber.org/zap"
)

// typeSystemPrompt 類型判定的指示詞
const typeSystemPrompt = `You classify food inputs into exactly one of three categories.

WHOLE - A single whole food or traditional ingredient eaten on its own.
Examples: salmon, avocado, blueberries, bone broth, ghee, dark chocolate 90%, kombucha.

COMBINATION - A dish or meal made by combining multiple whole foods with minimal processing. The kind of thing you'd cook at home from real ingredients.
Examples: grilled salmon with asparagus, steak and eggs, chicken salad (homemade), vegetable stir-fry with olive oil.

PROCESSED - Anything involving industrial processing, seed oils, refined flour, refined sugar, artificial ingredients, deep frying in seed oil, or mass-produced packaged food. If it comes from a fast food chain, a deli counter, a factory, or a freezer aisle, it is processed.
Examples: french fries, chicken nuggets, store-bought lasagne, pizza, kebab, instant ramen, mayonnaise, breakfast cereal, protein bars, any fast food item.

IMPORTANT RULES:
- Deep frying = PROCESSED (always, even if the base ingredient is whole food)
- Fast food / takeaway / deli counter = PROCESSED
- Contains seed oils, refined flour, or refined sugar = PROCESSED
- Restaurant dishes with sauces are usually PROCESSED (commercial sauces use seed oils)
- "Homemade" or "with olive oil" qualifiers can make something COMBINATION
- When in doubt between COMBINATION and PROCESSED, choose PROCESSED

For COMBINATION items, also decompose into ingredients with prominence weights.

Reply with ONLY valid JSON, no markdown fences, in one of these formats:

For WHOLE: {"type": "whole"}
For PROCESSED: {"type": "processed"}
For COMBINATION: {"type": "combination", "ingredients": [{"name": "ingredient", "weight": 0.5}, ...]}

Ingredient rules (COMBINATION only):
- Use simple names a food database would recognize
- Include cooking fats/oils as ingredients (e.g. "olive oil", "butter")
- Weights must sum to 1.0, maximum 8 ingredients
- No explanations, just the JSON`

// verdictSystemPrompt 單項判定的指示詞，要求固定四行格式
const verdictSystemPrompt = `You are a strict whole-food evaluator. FOOD means: whole, unprocessed foods that humans evolved to eat - meat, fish, eggs, vegetables, fruits, nuts, seeds, traditional fats (butter, ghee, tallow, lard, olive oil, coconut oil, avocado oil). TRASH means: anything containing seed oils (canola, soybean, corn, sunflower, safflower, cottonseed, grapeseed oil), ultra-processed foods, artificial ingredients, refined sugars, or industrially produced ingredients. Reply with exactly four lines:
Line 1: Yes (it is real food) or No (it is trash)
Line 2: A score from 0 to 100 (0 = pure trash, 100 = pure whole food)
Line 3: Estimated calories per 100g (just the number)
Line 4: One punchy sentence explaining why.
Be opinionated and direct.`

// identifyPrompt 圖片辨識的指示詞
const identifyPrompt = `What is the main food or dish in this image? Reply with ONLY the name (e.g. "omelette", "grilled salmon", "caesar salad"). Just the name, nothing else.`

// Classifier 外部分類器配接器
// 所有模型回覆在這裡嚴格解碼成型別化的值，畸形回覆一律退到最保守解讀
type Classifier struct {
	config    *config.Config
	aiService *service.Service
}

var _ food.Classifier = (*Classifier)(nil)

// New 創建分類器配接器
func New(cfg *config.Config, aiService *service.Service) *Classifier {
	return &Classifier{
		config:    cfg,
		aiService: aiService,
	}
}

// DetectType 判定查詢類型
// 傳輸層錯誤回傳 error；回覆內容畸形不算錯誤，解讀為 whole
func (c *Classifier) DetectType(ctx context.Context, query string) (*food.Classification, error) {
	prompt := fmt.Sprintf("%s\n\nClassify: %q", typeSystemPrompt, query)

	resp, err := c.aiService.ProcessRequest(ctx, prompt, "", c.config.Classifier.ClassifyMaxTokens)
	if err != nil {
		return nil, fmt.Errorf("type detection failed: %w", err)
	}

	classification := parseClassification(resp.Content)
	common.LogInfo("類型判定完成",
		zap.String("query", query),
		zap.String("type", string(classification.Type)),
		zap.Int("ingredients", len(classification.Ingredients)),
	)
	return classification, nil
}

// Verdict 對單一品項做 food/trash 判定
func (c *Classifier) Verdict(ctx context.Context, query string) (*food.VerdictResult, error) {
	prompt := fmt.Sprintf("%s\n\nIs %q real food or trash?", verdictSystemPrompt, query)

	resp, err := c.aiService.ProcessRequest(ctx, prompt, "", c.config.Classifier.VerdictMaxTokens)
	if err != nil {
		return nil, fmt.Errorf("verdict call failed: %w", err)
	}

	verdict := parseVerdict(resp.Content)
	common.LogInfo("單項判定完成",
		zap.String("query", query),
		zap.Bool("is_food", verdict.IsFood),
		zap.Int("score", verdict.Score),
	)
	return verdict, nil
}

// IdentifyImage 辨識圖片中的主要食物名稱
func (c *Classifier) IdentifyImage(ctx context.Context, imageData string) (string, error) {
	resp, err := c.aiService.ProcessRequest(ctx, identifyPrompt, imageData, c.config.Classifier.IdentifyMaxTokens)
	if err != nil {
		return "", fmt.Errorf("image identification failed: %w", err)
	}

	name := cleanIdentifiedName(resp.Content)
	common.LogInfo("圖片辨識完成", zap.String("name", name))
	return name, nil
}
