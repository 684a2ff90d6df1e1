package food

import (
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// 鍵值權重：正式名稱的比重是別名的兩倍
const (
	nameWeight  = 2.0
	aliasWeight = 1.0
)

// Document 可被索引的條目
type Document interface {
	DocName() string
	DocAliases() []string
}

// indexKey 單一可比對的鍵值，pos 指回來源集合中的條目序號
type indexKey struct {
	text   string
	weight float64
	pos    int
}

// Match 模糊比對命中
type Match struct {
	Pos      int     // 條目在來源集合中的序號
	Distance float64 // 0 = 完全吻合
}

// Index 不可變的搜尋索引，啟動時由資料庫建好一次，之後可併發讀取
type Index struct {
	keys      []indexKey
	size      int
	threshold float64
}

// BuildIndex 從條目集合建立索引
// 鍵值按集合順序展開（每個條目先名稱後別名），Exact 依此順序取第一個命中
func BuildIndex(docs []Document, threshold float64) *Index {
	var keys []indexKey
	for i, doc := range docs {
		keys = append(keys, indexKey{
			text:   strings.ToLower(doc.DocName()),
			weight: nameWeight,
			pos:    i,
		})
		for _, alias := range doc.DocAliases() {
			keys = append(keys, indexKey{
				text:   strings.ToLower(alias),
				weight: aliasWeight,
				pos:    i,
			})
		}
	}
	return &Index{
		keys:      keys,
		size:      len(docs),
		threshold: threshold,
	}
}

// Size 索引涵蓋的條目數
func (ix *Index) Size() int { return ix.size }

// Exact 大小寫不敏感的全等比對，回傳集合順序上第一個命中的條目序號
// query 必須已經正規化為小寫
func (ix *Index) Exact(query string) (int, bool) {
	for _, key := range ix.keys {
		if key.text == query {
			return key.pos, true
		}
	}
	return 0, false
}

// Fuzzy 模糊比對，回傳有效距離最小且嚴格低於閾值的條目
// 距離剛好等於閾值視為未命中；同距離時保留較早出現的鍵值
func (ix *Index) Fuzzy(query string) (Match, bool) {
	best := Match{Distance: 1.0}
	found := false

	for _, key := range ix.keys {
		d := ix.distance(query, key)
		if d >= ix.threshold {
			continue
		}
		if !found || d < best.Distance {
			best = Match{Pos: key.pos, Distance: d}
			found = true
		}
	}

	return best, found
}

// distance 正規化編輯距離除以鍵值權重，落在 [0,1]
func (ix *Index) distance(query string, key indexKey) float64 {
	edits := levenshtein.ComputeDistance(query, key.text)
	longest := utf8.RuneCountInString(query)
	if l := utf8.RuneCountInString(key.text); l > longest {
		longest = l
	}
	if longest == 0 {
		return 0
	}
	return float64(edits) / float64(longest) / key.weight
}
