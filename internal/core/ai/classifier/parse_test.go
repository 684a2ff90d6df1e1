package classifier

import (
	"testing"

	"food-checker/internal/core/food"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVerdict(t *testing.T) {
	tests := []struct {
		name         string
		content      string
		wantIsFood   bool
		wantScore    int
		wantCalories *int
		wantReason   string
	}{
		{
			name:         "complete four lines",
			content:      "Yes\n88\n150\nReal food, eat it.",
			wantIsFood:   true,
			wantScore:    88,
			wantCalories: intPtr(150),
			wantReason:   "Real food, eat it.",
		},
		{
			name:       "trash verdict",
			content:    "No\n12\n450\nDeep fried seed oil sponge.",
			wantIsFood: false,
			wantScore:  12, wantCalories: intPtr(450),
			wantReason: "Deep fried seed oil sponge.",
		},
		{
			name:       "single line yes gets defaults",
			content:    "Yes",
			wantIsFood: true,
			wantScore:  75,
			wantReason: defaultFoodReason,
		},
		{
			name:       "single line no gets defaults",
			content:    "No",
			wantIsFood: false,
			wantScore:  25,
			wantReason: defaultTrashReason,
		},
		{
			name:       "score out of range keeps default",
			content:    "Yes\n150\n100\nSuspiciously enthusiastic.",
			wantIsFood: true,
			wantScore:  75,
			wantCalories: intPtr(100),
			wantReason:   "Suspiciously enthusiastic.",
		},
		{
			name:       "calories out of range dropped",
			content:    "Yes\n80\n5000\nDense stuff.",
			wantIsFood: true,
			wantScore:  80,
			wantReason: "Dense stuff.",
		},
		{
			name:       "non numeric third line becomes reason",
			content:    "No\n20\nJust trash honestly",
			wantIsFood: false,
			wantScore:  20,
			wantReason: "Just trash honestly",
		},
		{
			name:       "score line with prose",
			content:    "Yes\nScore: 91\n52\nCrisp and clean.",
			wantIsFood: true,
			wantScore:  91,
			wantCalories: intPtr(52),
			wantReason:   "Crisp and clean.",
		},
		{
			name:       "blank lines are skipped",
			content:    "\nYes\n\n70\n\n200\n\nFine.",
			wantIsFood: true,
			wantScore:  70,
			wantCalories: intPtr(200),
			wantReason:   "Fine.",
		},
		{
			name:       "empty content is trash",
			content:    "",
			wantIsFood: false,
			wantScore:  25,
			wantReason: defaultTrashReason,
		},
		{
			name:       "multi line reason joined",
			content:    "No\n10\n300\nSeed oils everywhere.\nAvoid at all costs.",
			wantIsFood: false,
			wantScore:  10,
			wantCalories: intPtr(300),
			wantReason:   "Seed oils everywhere. Avoid at all costs.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := parseVerdict(tt.content)
			assert.Equal(t, tt.wantIsFood, v.IsFood)
			assert.Equal(t, tt.wantScore, v.Score)
			assert.Equal(t, tt.wantReason, v.Reason)
			if tt.wantCalories == nil {
				assert.Nil(t, v.Calories)
			} else {
				require.NotNil(t, v.Calories)
				assert.Equal(t, *tt.wantCalories, *v.Calories)
			}
		})
	}
}

func TestParseClassification(t *testing.T) {
	t.Run("whole", func(t *testing.T) {
		c := parseClassification(`{"type": "whole"}`)
		assert.Equal(t, food.TypeWhole, c.Type)
		assert.Empty(t, c.Ingredients)
	})

	t.Run("processed", func(t *testing.T) {
		c := parseClassification(`{"type": "processed"}`)
		assert.Equal(t, food.TypeProcessed, c.Type)
	})

	t.Run("combination with normalization", func(t *testing.T) {
		c := parseClassification(`{"type": "combination", "ingredients": [
			{"name": "Chicken Breast", "weight": 0.2},
			{"name": "olive oil", "weight": 0.2},
			{"name": "spinach", "weight": 0.2}
		]}`)

		require.Equal(t, food.TypeCombination, c.Type)
		require.Len(t, c.Ingredients, 3)
		assert.Equal(t, "chicken breast", c.Ingredients[0].Name)
		// 權重重新正規化到總和 1.0
		assert.InDelta(t, 0.333, c.Ingredients[0].Weight, 1e-9)
		assert.InDelta(t, 0.333, c.Ingredients[1].Weight, 1e-9)
		assert.InDelta(t, 0.333, c.Ingredients[2].Weight, 1e-9)
	})

	t.Run("json wrapped in prose and fences", func(t *testing.T) {
		c := parseClassification("Sure! Here you go:\n```json\n{\"type\": \"combination\", \"ingredients\": [{\"name\": \"rice\", \"weight\": 0.5}, {\"name\": \"eggs\", \"weight\": 0.5}]}\n```")
		require.Equal(t, food.TypeCombination, c.Type)
		assert.Len(t, c.Ingredients, 2)
	})

	t.Run("garbage falls back to whole", func(t *testing.T) {
		assert.Equal(t, food.TypeWhole, parseClassification("I cannot classify that.").Type)
		assert.Equal(t, food.TypeWhole, parseClassification("{not valid json}").Type)
		assert.Equal(t, food.TypeWhole, parseClassification("").Type)
	})

	t.Run("unknown type falls back to whole", func(t *testing.T) {
		assert.Equal(t, food.TypeWhole, parseClassification(`{"type": "beverage"}`).Type)
	})

	t.Run("combination with one ingredient falls back to whole", func(t *testing.T) {
		c := parseClassification(`{"type": "combination", "ingredients": [{"name": "rice", "weight": 1.0}]}`)
		assert.Equal(t, food.TypeWhole, c.Type)
	})

	t.Run("empty names are dropped", func(t *testing.T) {
		c := parseClassification(`{"type": "combination", "ingredients": [
			{"name": "  ", "weight": 0.5},
			{"name": "rice", "weight": 0.25},
			{"name": "eggs", "weight": 0.25}
		]}`)
		require.Equal(t, food.TypeCombination, c.Type)
		require.Len(t, c.Ingredients, 2)
		assert.InDelta(t, 0.5, c.Ingredients[0].Weight, 1e-9)
	})

	t.Run("ingredient list truncated", func(t *testing.T) {
		content := `{"type": "combination", "ingredients": [
			{"name": "a", "weight": 0.1}, {"name": "b", "weight": 0.1},
			{"name": "c", "weight": 0.1}, {"name": "d", "weight": 0.1},
			{"name": "e", "weight": 0.1}, {"name": "f", "weight": 0.1},
			{"name": "g", "weight": 0.1}, {"name": "h", "weight": 0.1},
			{"name": "i", "weight": 0.1}, {"name": "j", "weight": 0.1}
		]}`
		c := parseClassification(content)
		require.Equal(t, food.TypeCombination, c.Type)
		assert.Len(t, c.Ingredients, food.MaxIngredients)
	})

	t.Run("negative weights clamped then normalized", func(t *testing.T) {
		c := parseClassification(`{"type": "combination", "ingredients": [
			{"name": "rice", "weight": -0.5},
			{"name": "eggs", "weight": 0.5}
		]}`)
		require.Equal(t, food.TypeCombination, c.Type)
		assert.InDelta(t, 0.0, c.Ingredients[0].Weight, 1e-9)
		assert.InDelta(t, 1.0, c.Ingredients[1].Weight, 1e-9)
	})

	t.Run("all zero weights split evenly", func(t *testing.T) {
		c := parseClassification(`{"type": "combination", "ingredients": [
			{"name": "rice", "weight": 0},
			{"name": "eggs", "weight": 0}
		]}`)
		require.Equal(t, food.TypeCombination, c.Type)
		assert.InDelta(t, 0.5, c.Ingredients[0].Weight, 1e-9)
		assert.InDelta(t, 0.5, c.Ingredients[1].Weight, 1e-9)
	})
}

func TestCleanIdentifiedName(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"bare name", "omelette", "omelette"},
		{"chatter prefix", "It's a grilled salmon.", "grilled salmon"},
		{"this is prefix", "This is an omelette!", "omelette"},
		{"i see prefix", "I see a caesar salad", "caesar salad"},
		{"food is prefix", "The food in the image is a burger.", "burger"},
		{"leading article", "An apple", "apple"},
		{"trailing punctuation", `"Pancakes!"`, `"pancakes`},
		{"multi line keeps first", "steak\nwith some vegetables on the side", "steak"},
		{"uppercase normalized", "GRILLED CHICKEN", "grilled chicken"},
		{"whitespace trimmed", "  ramen  ", "ramen"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanIdentifiedName(tt.content))
		})
	}
}

func intPtr(v int) *int { return &v }
