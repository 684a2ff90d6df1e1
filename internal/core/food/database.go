package food

import (
	"fmt"
	"os"
	"sort"

	"food-checker/internal/pkg/common"

	"go.uber.org/zap"
)

// Database 兩個不可變的食物集合與其搜尋索引
// 啟動時載入一次，之後只讀，可安全併發使用
type Database struct {
	Foods []FoodItem
	Trash []TrashItem

	foodIndex  *Index
	trashIndex *Index
}

// NewDatabase 從已載入的集合建立資料庫與索引
func NewDatabase(foods []FoodItem, trash []TrashItem, threshold float64) *Database {
	foodDocs := make([]Document, len(foods))
	for i := range foods {
		foodDocs[i] = &foods[i]
	}
	trashDocs := make([]Document, len(trash))
	for i := range trash {
		trashDocs[i] = &trash[i]
	}

	return &Database{
		Foods:      foods,
		Trash:      trash,
		foodIndex:  BuildIndex(foodDocs, threshold),
		trashIndex: BuildIndex(trashDocs, threshold),
	}
}

// Load 從 JSON 檔載入兩個集合並建立索引
func Load(foodsPath, trashPath string, threshold float64) (*Database, error) {
	var foods []FoodItem
	if err := loadCollection(foodsPath, &foods); err != nil {
		return nil, fmt.Errorf("failed to load foods collection: %w", err)
	}

	var trash []TrashItem
	if err := loadCollection(trashPath, &trash); err != nil {
		return nil, fmt.Errorf("failed to load trash collection: %w", err)
	}

	db := NewDatabase(foods, trash, threshold)

	common.LogInfo("食物資料庫已載入",
		zap.Int("食物條目", len(foods)),
		zap.Int("垃圾條目", len(trash)),
		zap.Float64("模糊閾值", threshold),
	)

	return db, nil
}

func loadCollection(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return common.ParseJSONBytes(data, v)
}

// FoodAt 依序號取食物條目
func (db *Database) FoodAt(pos int) *FoodItem { return &db.Foods[pos] }

// TrashAt 依序號取垃圾條目
func (db *Database) TrashAt(pos int) *TrashItem { return &db.Trash[pos] }

// Categories 回傳兩個集合中出現過的分類與條目數
func (db *Database) Categories() map[string]int {
	counts := make(map[string]int)
	for i := range db.Foods {
		counts[db.Foods[i].Category]++
	}
	for i := range db.Trash {
		counts[db.Trash[i].Category]++
	}
	return counts
}

// CategoryEntry 分類瀏覽用的統一條目
type CategoryEntry struct {
	Name     string  `json:"name"`
	Verdict  Verdict `json:"verdict"`
	Score    int     `json:"score"`
	Calories int     `json:"calories"`
}

// ByCategory 回傳指定分類下的所有條目，依分數由高到低排序
func (db *Database) ByCategory(category string) []CategoryEntry {
	var entries []CategoryEntry
	for i := range db.Foods {
		if db.Foods[i].Category == category {
			entries = append(entries, CategoryEntry{
				Name:     db.Foods[i].Name,
				Verdict:  VerdictFood,
				Score:    db.Foods[i].Score,
				Calories: db.Foods[i].Calories,
			})
		}
	}
	for i := range db.Trash {
		if db.Trash[i].Category == category {
			entries = append(entries, CategoryEntry{
				Name:     db.Trash[i].Name,
				Verdict:  VerdictTrash,
				Score:    db.Trash[i].Score,
				Calories: db.Trash[i].Calories,
			})
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})
	return entries
}
