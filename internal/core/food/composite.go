package food

import "math"

// Compose 計算組合料理的加權總結果
// 呼叫端負責保證權重總和為 1.0（分類器邊界已做正規化），這裡不再調整；
// 缺少熱量資料的成分以 0 計入，不從權重總和中剔除
func Compose(components []ComponentResult) *CompositeResult {
	var scoreSum, calorieSum float64
	for _, c := range components {
		scoreSum += float64(c.Lookup.Score) * c.Weight
		if c.Lookup.Calories != nil {
			calorieSum += float64(*c.Lookup.Calories) * c.Weight
		}
	}

	score := int(math.Round(scoreSum))
	verdict := VerdictTrash
	if score >= ScoreMidpoint {
		verdict = VerdictFood
	}

	return &CompositeResult{
		Components:        components,
		CompositeScore:    score,
		CompositeVerdict:  verdict,
		CompositeCalories: int(math.Round(calorieSum)),
	}
}
