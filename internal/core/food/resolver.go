package food

import "strings"

// Resolver 分層解析策略：先全等、再模糊，都沒有就回報未解析
// 無狀態，可併發使用
type Resolver struct {
	db *Database
}

// NewResolver 創建解析器
func NewResolver(db *Database) *Resolver {
	return &Resolver{db: db}
}

// NormalizeQuery 查詢正規化：去空白、截斷長度、轉小寫
func NormalizeQuery(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if len(trimmed) > MaxQueryLength {
		trimmed = trimmed[:MaxQueryLength]
	}
	return strings.ToLower(trimmed)
}

// Resolve 解析一般查詢
// 多字查詢只做全等比對：模糊比對容易把 "chicken roll" 誤判成不相干的
// "chicken"，寧可放給分類器處理；單字查詢走完整分層（容忍打錯字）
func (r *Resolver) Resolve(query string) (*LookupResult, bool) {
	query = NormalizeQuery(query)
	if query == "" {
		return nil, false
	}

	if strings.Contains(query, " ") {
		return r.resolveExact(query)
	}
	return r.resolveTiered(query)
}

// ResolveIngredient 解析拆解後的食材名稱
// 分類器給的食材名是短的標準詞彙，一律走完整分層比對
func (r *Resolver) ResolveIngredient(name string) (*LookupResult, bool) {
	name = NormalizeQuery(name)
	if name == "" {
		return nil, false
	}
	return r.resolveTiered(name)
}

// ResolveExact 只做全等比對，不退到模糊層，供條目查詢端點使用
func (r *Resolver) ResolveExact(query string) (*LookupResult, bool) {
	query = NormalizeQuery(query)
	if query == "" {
		return nil, false
	}
	return r.resolveExact(query)
}

// resolveExact 全等比對，垃圾集合先查
func (r *Resolver) resolveExact(query string) (*LookupResult, bool) {
	if pos, ok := r.db.trashIndex.Exact(query); ok {
		return r.trashResult(pos), true
	}
	if pos, ok := r.db.foodIndex.Exact(query); ok {
		return r.foodResult(pos), true
	}
	return nil, false
}

// resolveTiered 全等優先，其次模糊
// 兩個集合同時有模糊候選時取距離較小者，同距離時垃圾優先
func (r *Resolver) resolveTiered(query string) (*LookupResult, bool) {
	if result, ok := r.resolveExact(query); ok {
		return result, true
	}

	bestTrash, okTrash := r.db.trashIndex.Fuzzy(query)
	bestFood, okFood := r.db.foodIndex.Fuzzy(query)

	if okTrash {
		if okFood && bestFood.Distance < bestTrash.Distance {
			return r.foodResult(bestFood.Pos), true
		}
		return r.trashResult(bestTrash.Pos), true
	}
	if okFood {
		return r.foodResult(bestFood.Pos), true
	}

	// 沒有本地結果，呼叫端應回退到分類器
	return nil, false
}

func (r *Resolver) foodResult(pos int) *LookupResult {
	item := r.db.FoodAt(pos)
	calories := item.Calories
	return &LookupResult{
		Found:    true,
		Item:     item,
		Source:   SourceLocal,
		Verdict:  VerdictFood,
		Score:    item.Score,
		Calories: &calories,
	}
}

func (r *Resolver) trashResult(pos int) *LookupResult {
	item := r.db.TrashAt(pos)
	calories := item.Calories
	return &LookupResult{
		Found:     true,
		TrashItem: item,
		Source:    SourceLocal,
		Verdict:   VerdictTrash,
		Score:     item.Score,
		Calories:  &calories,
	}
}
