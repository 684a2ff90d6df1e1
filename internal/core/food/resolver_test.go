package food

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDatabase(t *testing.T) *Database {
	t.Helper()

	foods := []FoodItem{
		{Name: "apple", Category: "fruit", Aliases: []string{"apples", "red apple", "green apple"}, Score: 95, Calories: 52},
		{Name: "chicken breast", Category: "poultry", Aliases: []string{"chicken fillet"}, Score: 90, Calories: 165},
		{Name: "chicken", Category: "poultry", Aliases: []string{"roast chicken"}, Score: 88, Calories: 239},
		{Name: "olive oil", Category: "oil", Aliases: []string{"evoo"}, Score: 92, Calories: 884},
		{Name: "bread", Category: "grain", Score: 60, Calories: 265},
	}
	trash := []TrashItem{
		{Name: "french fries", Category: "deep fried", Aliases: []string{"fries"}, Score: 15, Calories: 312},
		{Name: "soda", Category: "ultra-processed", Aliases: []string{"cola"}, Score: 2, Calories: 42},
		{Name: "breed", Category: "ultra-processed", Score: 20, Calories: 100},
	}
	return NewDatabase(foods, trash, 0.3)
}

func TestNormalizeQuery(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercase", "APPLE", "apple"},
		{"trim", "  apple  ", "apple"},
		{"already normal", "apple", "apple"},
		{"empty", "   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeQuery(tt.in))
		})
	}
}

func TestNormalizeQueryTruncates(t *testing.T) {
	long := make([]byte, MaxQueryLength*2)
	for i := range long {
		long[i] = 'a'
	}
	assert.Len(t, NormalizeQuery(string(long)), MaxQueryLength)
}

func TestResolveLocalHit(t *testing.T) {
	r := NewResolver(newTestDatabase(t))

	result, ok := r.Resolve("Apple")
	require.True(t, ok)
	assert.True(t, result.Found)
	assert.Equal(t, SourceLocal, result.Source)
	assert.Equal(t, VerdictFood, result.Verdict)
	assert.Equal(t, 95, result.Score)
	require.NotNil(t, result.Calories)
	assert.Equal(t, 52, *result.Calories)
	require.NotNil(t, result.Item)
	assert.Equal(t, "apple", result.Item.Name)
}

func TestResolveTrashHit(t *testing.T) {
	r := NewResolver(newTestDatabase(t))

	result, ok := r.Resolve("cola")
	require.True(t, ok)
	assert.Equal(t, VerdictTrash, result.Verdict)
	assert.Equal(t, 2, result.Score)
	require.NotNil(t, result.TrashItem)
	assert.Equal(t, "soda", result.TrashItem.Name)
	assert.Nil(t, result.Item)
}

func TestResolveFuzzyTypo(t *testing.T) {
	r := NewResolver(newTestDatabase(t))

	result, ok := r.Resolve("appel")
	require.True(t, ok)
	assert.Equal(t, VerdictFood, result.Verdict)
	assert.Equal(t, "apple", result.Item.Name)
}

func TestResolveMultiWordIsExactOnly(t *testing.T) {
	r := NewResolver(newTestDatabase(t))

	// 多字查詢全等命中
	result, ok := r.Resolve("chicken breast")
	require.True(t, ok)
	assert.Equal(t, "chicken breast", result.Item.Name)

	// 多字查詢不做模糊比對："chicken roll" 不該被拉到 "chicken"
	_, ok = r.Resolve("chicken roll")
	assert.False(t, ok)

	// 多字的垃圾條目也能全等命中
	result, ok = r.Resolve("french fries")
	require.True(t, ok)
	assert.Equal(t, VerdictTrash, result.Verdict)
}

func TestResolveFuzzyTieFavorsTrash(t *testing.T) {
	r := NewResolver(newTestDatabase(t))

	// "bredd" 與食物 "bread"、垃圾 "breed" 的有效距離相同 (0.1)
	result, ok := r.Resolve("bredd")
	require.True(t, ok)
	assert.Equal(t, VerdictTrash, result.Verdict)
	assert.Equal(t, "breed", result.TrashItem.Name)
}

func TestResolveFuzzyCloserFoodWins(t *testing.T) {
	foods := []FoodItem{{Name: "salmon", Score: 95, Calories: 208}}
	trash := []TrashItem{{Name: "salame", Score: 20, Calories: 336}}
	r := NewResolver(NewDatabase(foods, trash, 0.5))

	// "salmonn" 距 "salmon" 1 步，距 "salame" 3 步，較近的食物勝出
	result, ok := r.Resolve("salmonn")
	require.True(t, ok)
	assert.Equal(t, VerdictFood, result.Verdict)
	assert.Equal(t, "salmon", result.Item.Name)
}

func TestResolveExactSkipsFuzzy(t *testing.T) {
	r := NewResolver(newTestDatabase(t))

	_, ok := r.ResolveExact("appel")
	assert.False(t, ok)

	result, ok := r.ResolveExact("Apple")
	require.True(t, ok)
	assert.Equal(t, "apple", result.Item.Name)
}

func TestResolveIngredientAlwaysTiered(t *testing.T) {
	r := NewResolver(newTestDatabase(t))

	// 食材解析對多字名稱也允許全等命中
	result, ok := r.ResolveIngredient("olive oil")
	require.True(t, ok)
	assert.Equal(t, "olive oil", result.Item.Name)

	_, ok = r.ResolveIngredient("mayonnaise")
	assert.False(t, ok)
}

func TestResolveIsIdempotent(t *testing.T) {
	r := NewResolver(newTestDatabase(t))

	first, ok := r.Resolve("appel")
	require.True(t, ok)
	second, ok := r.Resolve("appel")
	require.True(t, ok)

	assert.Equal(t, first, second)
}

func TestResolveEmptyQuery(t *testing.T) {
	r := NewResolver(newTestDatabase(t))

	_, ok := r.Resolve("   ")
	assert.False(t, ok)
}
