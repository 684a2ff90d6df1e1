package food

import "context"

// Verdict 二元判定結果
type Verdict string

const (
	VerdictFood  Verdict = "food"
	VerdictTrash Verdict = "trash"
)

// Source 判定來源
type Source string

const (
	SourceLocal Source = "local" // 本地資料庫
	SourceAI    Source = "ai"    // 外部分類器
)

const (
	// MaxQueryLength 查詢字串長度上限
	MaxQueryLength = 200
	// MaxIngredients 組合料理拆解後的食材數量上限
	MaxIngredients = 8
	// ScoreMidpoint 全系統唯一的 food/trash 分界線
	ScoreMidpoint = 50
	// DefaultFoodScore 分類器無法解析分數時的 food 預設值
	DefaultFoodScore = 75
	// FailSafeScore 所有失敗路徑的保底分數（寧可錯殺）
	FailSafeScore = 25
)

// FoodItem 真食物條目
type FoodItem struct {
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Aliases     []string `json:"aliases"`
	FunFact     string   `json:"fun_fact"`
	Score       int      `json:"score"`
	Calories    int      `json:"calories"`
	Explanation string   `json:"explanation,omitempty"`
}

// DocName 實現 Document 介面
func (f *FoodItem) DocName() string { return f.Name }

// DocAliases 實現 Document 介面
func (f *FoodItem) DocAliases() []string { return f.Aliases }

// TrashItem 垃圾食物條目
type TrashItem struct {
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Aliases     []string `json:"aliases"`
	Reason      string   `json:"reason"`
	Score       int      `json:"score"`
	Calories    int      `json:"calories"`
	Explanation string   `json:"explanation,omitempty"`
	Swap        string   `json:"swap,omitempty"`
}

// DocName 實現 Document 介面
func (t *TrashItem) DocName() string { return t.Name }

// DocAliases 實現 Document 介面
func (t *TrashItem) DocAliases() []string { return t.Aliases }

// LookupResult 單一查詢（或食材）的判定結果
// Item 與 TrashItem 最多只會有一個非 nil；Reason 只有 AI 來源才會有值
type LookupResult struct {
	Found     bool       `json:"found"`
	Item      *FoodItem  `json:"item,omitempty"`
	TrashItem *TrashItem `json:"trash_item,omitempty"`
	Source    Source     `json:"source"`
	Verdict   Verdict    `json:"verdict"`
	Score     int        `json:"score"`
	Calories  *int       `json:"calories,omitempty"`
	Reason    string     `json:"reason,omitempty"`
}

// ComponentResult 組合料理拆解後的單一食材結果
type ComponentResult struct {
	Name   string       `json:"name"`
	Lookup LookupResult `json:"lookup"`
	Weight float64      `json:"weight"`
}

// CompositeResult 組合料理的加權總結果
// Components 順序 = 分類器宣告的食材順序，與解析路徑無關
type CompositeResult struct {
	Components        []ComponentResult `json:"components"`
	CompositeScore    int               `json:"composite_score"`
	CompositeVerdict  Verdict           `json:"composite_verdict"`
	CompositeCalories int               `json:"composite_calories"`
}

// CheckResult 一次查詢的最終結果
// 消費端必須先看 IsComposite 再讀 Lookup 或 Composite
type CheckResult struct {
	Query       string           `json:"query"`
	IsComposite bool             `json:"is_composite"`
	Lookup      *LookupResult    `json:"lookup,omitempty"`
	Composite   *CompositeResult `json:"composite,omitempty"`
}

// IdentifyResult 圖片辨識的最終結果
type IdentifyResult struct {
	Name   string       `json:"name"`
	Lookup LookupResult `json:"lookup"`
}

// ClassificationType 分類器的查詢類型判定
type ClassificationType string

const (
	TypeWhole       ClassificationType = "whole"       // 單一原型食物
	TypeProcessed   ClassificationType = "processed"   // 單一加工食品
	TypeCombination ClassificationType = "combination" // 多食材組合料理
)

// DeclaredIngredient 分類器宣告的食材與其佔比
type DeclaredIngredient struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
}

// Classification 分類器的類型判定結果
// Type 為 combination 時 Ingredients 保證有 2..MaxIngredients 項且權重總和為 1.0
type Classification struct {
	Type        ClassificationType   `json:"type"`
	Ingredients []DeclaredIngredient `json:"ingredients,omitempty"`
}

// VerdictResult 分類器的單項判定結果
type VerdictResult struct {
	IsFood   bool   `json:"is_food"`
	Score    int    `json:"score"`
	Calories *int   `json:"calories,omitempty"`
	Reason   string `json:"reason"`
}

// Classifier 外部分類器的邊界契約
// 實作負責把模型回覆嚴格解碼成上述型別；核心永遠看不到原始回覆
type Classifier interface {
	// DetectType 判定查詢屬於 whole / processed / combination
	DetectType(ctx context.Context, query string) (*Classification, error)

	// Verdict 對單一品項做 food/trash 判定
	Verdict(ctx context.Context, query string) (*VerdictResult, error)

	// IdentifyImage 辨識圖片中的主要食物名稱
	IdentifyImage(ctx context.Context, imageData string) (string, error)
}
