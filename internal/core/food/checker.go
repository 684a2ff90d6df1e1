package food

import (
	"context"
	"fmt"

	"food-checker/internal/pkg/common"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	failSafeReason       = "Couldn't verify this one. When in doubt... trash."
	ingredientFailReason = "Could not verify this ingredient."
	identifyFailReason   = "Couldn't identify what's in this image."
)

// Checker 查詢協調器
// 依序嘗試：本地解析 → 類型判定 → 單項判定或拆解加權，所有失敗路徑
// 都終結在一個完整的結果物件，不會把外部呼叫的錯誤丟給呼叫端
type Checker struct {
	resolver   *Resolver
	classifier Classifier
}

// NewChecker 創建協調器
func NewChecker(db *Database, classifier Classifier) *Checker {
	return &Checker{
		resolver:   NewResolver(db),
		classifier: classifier,
	}
}

// Check 處理一次查詢，保證回傳非 nil 的結果
func (c *Checker) Check(ctx context.Context, rawQuery string) *CheckResult {
	query := NormalizeQuery(rawQuery)
	if query == "" {
		return singleResult(query, failSafeLookup(failSafeReason))
	}

	// 第一層：本地資料庫，零網路成本
	if result, ok := c.resolver.Resolve(query); ok {
		common.LogInfo("本地解析命中",
			zap.String("query", query),
			zap.String("verdict", string(result.Verdict)),
		)
		return singleResult(query, result)
	}

	// 第二層：分類器類型判定
	classification, err := c.classifier.DetectType(ctx, query)
	if err != nil {
		// 類型判定失敗直接退回單項判定
		common.LogWarn("類型判定失敗，改走單項判定",
			zap.String("query", query),
			zap.Error(err),
		)
		return singleResult(query, c.verdictLookup(ctx, query, failSafeReason))
	}

	// 組合料理走拆解加權路徑
	if classification.Type == TypeCombination && len(classification.Ingredients) >= 2 {
		return c.checkCombination(ctx, query, classification.Ingredients)
	}

	// whole / processed（以及其他任何類型）都用單項判定收尾
	return singleResult(query, c.verdictLookup(ctx, query, failSafeReason))
}

// checkCombination 拆解路徑：本地優先，未命中的食材併發丟給分類器，
// 全部結束後依宣告順序組合（成分在派發前就帶著序號，不需要事後搜尋）
func (c *Checker) checkCombination(ctx context.Context, query string, ingredients []DeclaredIngredient) *CheckResult {
	components := make([]ComponentResult, len(ingredients))
	var unresolved []int

	for i, ing := range ingredients {
		components[i] = ComponentResult{Name: ing.Name, Weight: ing.Weight}
		if result, ok := c.resolver.ResolveIngredient(ing.Name); ok {
			components[i].Lookup = *result
		} else {
			unresolved = append(unresolved, i)
		}
	}

	common.LogInfo("拆解組合料理",
		zap.String("query", query),
		zap.Int("食材總數", len(ingredients)),
		zap.Int("本地命中", len(ingredients)-len(unresolved)),
	)

	// 未命中的食材併發判定；單一食材失敗只降級該成分，不中斷整體
	var g errgroup.Group
	for _, idx := range unresolved {
		idx := idx
		g.Go(func() error {
			components[idx].Lookup = *c.verdictLookup(ctx, components[idx].Name, ingredientFailReason)
			return nil
		})
	}
	_ = g.Wait()

	return &CheckResult{
		Query:       query,
		IsComposite: true,
		Composite:   Compose(components),
	}
}

// Identify 處理圖片辨識：先認出名稱，再走本地優先的單項解析
func (c *Checker) Identify(ctx context.Context, imageData string) *IdentifyResult {
	name, err := c.classifier.IdentifyImage(ctx, imageData)
	if err != nil || name == "" {
		common.LogWarn("圖片辨識失敗", zap.Error(err))
		return &IdentifyResult{
			Name:   "unknown",
			Lookup: *failSafeLookup(identifyFailReason),
		}
	}

	if result, ok := c.resolver.ResolveIngredient(name); ok {
		return &IdentifyResult{Name: name, Lookup: *result}
	}

	fallback := fmt.Sprintf("Identified as %q but couldn't verify. When in doubt... trash.", name)
	return &IdentifyResult{
		Name:   name,
		Lookup: *c.verdictLookup(ctx, name, fallback),
	}
}

// verdictLookup 單項判定，失敗時以保底結果代替
func (c *Checker) verdictLookup(ctx context.Context, query, fallbackReason string) *LookupResult {
	verdict, err := c.classifier.Verdict(ctx, query)
	if err != nil {
		common.LogWarn("單項判定失敗，使用保底結果",
			zap.String("query", query),
			zap.Error(err),
		)
		return failSafeLookup(fallbackReason)
	}

	result := &LookupResult{
		Found:    verdict.IsFood,
		Source:   SourceAI,
		Verdict:  VerdictTrash,
		Score:    verdict.Score,
		Calories: verdict.Calories,
		Reason:   verdict.Reason,
	}
	if verdict.IsFood {
		result.Verdict = VerdictFood
	}
	return result
}

// failSafeLookup 系統保證的最壞情況結果
func failSafeLookup(reason string) *LookupResult {
	return &LookupResult{
		Found:   false,
		Source:  SourceAI,
		Verdict: VerdictTrash,
		Score:   FailSafeScore,
		Reason:  reason,
	}
}

func singleResult(query string, lookup *LookupResult) *CheckResult {
	return &CheckResult{
		Query:  query,
		Lookup: lookup,
	}
}
