package nutrition

import (
	"math"
	"time"

	"dog-nutrition-api/internal/core/safety"
	"dog-nutrition-api/internal/pkg/common"
)

// 能量在營養素向量中的鍵
const energyKey = "kcal"

// 配方失敗原因
const (
	ReasonOK             = "ok"
	ReasonNoSafeFoods    = "no safe foods available"
	ReasonNoFeasiblePlan = "no feasible solution"
)

// CandidateFood 候選食材（營養素以每 100g 計，必含 kcal 鍵才可參與計算）
type CandidateFood struct {
	ID        int64
	Name      string
	Nutrients map[string]float64
}

// Optimizer 貪婪配方求解器
// 有界迭代的啟發式，不保證全域最佳或必然可行；失敗時明確回報
type Optimizer struct {
	calc          *Calculator
	toxic         *safety.ToxicityFilter
	maxIterations int
	minGrams      float64
}

// NewOptimizer 創建配方求解器
func NewOptimizer(calc *Calculator, toxic *safety.ToxicityFilter, maxIterations int, minGrams float64) *Optimizer {
	return &Optimizer{
		calc:          calc,
		toxic:         toxic,
		maxIterations: maxIterations,
		minGrams:      minGrams,
	}
}

// Optimize 為候選食材分配克數以滿足每日營養需求
// 同一組輸入必得同一組輸出：密度相同時取候選順序在前者
func (o *Optimizer) Optimize(profile DogProfile, candidates []CandidateFood) common.FormulaResult {
	start := time.Now()

	// 過濾毒性名稱與無能量值的食材
	var eligible []CandidateFood
	for _, cand := range candidates {
		if o.toxic.IsToxicName(cand.Name) {
			continue
		}
		if cand.Nutrients[energyKey] <= 0 {
			continue
		}
		eligible = append(eligible, cand)
	}

	if len(eligible) == 0 {
		return common.FormulaResult{
			Feasible: false,
			Reason:   ReasonNoSafeFoods,
			Items:    []common.FormulaItem{},
			NrcRows:  []common.NrcRow{},
		}
	}

	mer, reqs := o.calc.Requirements(profile)

	// 初始克數：MER 均分給每個候選
	n := len(eligible)
	grams := make([]float64, n)
	for i, cand := range eligible {
		grams[i] = (mer / float64(n)) / (cand.Nutrients[energyKey] / 100.0)
	}

	var rows []common.NrcRow
	for iter := 0; iter < o.maxIterations; iter++ {
		var done bool
		grams, rows, done = o.step(grams, reqs, eligible)
		if done {
			common.LogOptimize(true, iter+1, time.Since(start))
			return common.FormulaResult{
				Feasible: true,
				Reason:   ReasonOK,
				Items:    buildItems(eligible, grams, o.minGrams),
				NrcRows:  rows,
			}
		}
	}

	// 迭代上限耗盡，以最終克數重算診斷列供呼叫端判讀
	common.LogOptimize(false, o.maxIterations, time.Since(start))
	return common.FormulaResult{
		Feasible: false,
		Reason:   ReasonNoFeasiblePlan,
		Items:    []common.FormulaItem{},
		NrcRows:  makeNrcRows(reqs, computeTotals(grams, eligible)),
	}
}

// step 單次迭代：計算總量與診斷列，無違規即完成，否則回傳調整後的新克數向量
// 輸入向量不被修改，每輪各自獨立
func (o *Optimizer) step(grams []float64, reqs []common.NutrientRequirement, foods []CandidateFood) ([]float64, []common.NrcRow, bool) {
	totals := computeTotals(grams, foods)
	rows := makeNrcRows(reqs, totals)

	var violations []common.NrcRow
	for _, row := range rows {
		if row.Status != common.NrcStatusOK {
			violations = append(violations, row)
		}
	}
	if len(violations) == 0 {
		return grams, rows, true
	}

	next := make([]float64, len(grams))
	copy(next, grams)

	for _, row := range violations {
		idx, density := argmaxDensity(foods, row.NutrientKey)
		// 所有候選都不含此營養素時跳過，屬預期的退化情況
		if density <= 0 {
			continue
		}
		switch row.Status {
		case common.NrcStatusLow:
			next[idx] += (row.Minimum - row.Actual) / density * 100.0
		case common.NrcStatusHigh:
			if row.Maximum != nil {
				next[idx] = math.Max(0.0, next[idx]-(row.Actual-*row.Maximum)/density*100.0)
			}
		}
	}

	return next, rows, false
}

// computeTotals 依目前克數彙總所有營養素
func computeTotals(grams []float64, foods []CandidateFood) map[string]float64 {
	totals := make(map[string]float64)
	for i, g := range grams {
		for key, amountPer100g := range foods[i].Nutrients {
			totals[key] += amountPer100g * g / 100.0
		}
	}
	return totals
}

// makeNrcRows 依需求產生診斷列
func makeNrcRows(reqs []common.NutrientRequirement, totals map[string]float64) []common.NrcRow {
	rows := make([]common.NrcRow, 0, len(reqs))
	for _, req := range reqs {
		actual := totals[req.NutrientKey]
		rows = append(rows, common.NrcRow{
			NutrientKey: req.NutrientKey,
			Minimum:     req.MinPerDay,
			Suggest:     req.SuggestPerDay,
			Maximum:     req.MaxPerDay,
			Actual:      actual,
			Status:      NrcStatus(actual, req.MinPerDay, req.MaxPerDay),
		})
	}
	return rows
}

// argmaxDensity 找出指定營養素密度最高的候選，平手取順序在前者
func argmaxDensity(foods []CandidateFood, nutrientKey string) (int, float64) {
	bestIdx := 0
	bestDensity := foods[0].Nutrients[nutrientKey]
	for i := 1; i < len(foods); i++ {
		if d := foods[i].Nutrients[nutrientKey]; d > bestDensity {
			bestIdx = i
			bestDensity = d
		}
	}
	return bestIdx, bestDensity
}

// buildItems 保留克數超過門檻的項目並四捨五入至一位小數
// 門檻以未取整的克數判斷，恰等於門檻者捨去
func buildItems(foods []CandidateFood, grams []float64, minGrams float64) []common.FormulaItem {
	items := make([]common.FormulaItem, 0, len(foods))
	for i, cand := range foods {
		if grams[i] <= minGrams {
			continue
		}
		items = append(items, common.FormulaItem{
			FoodID:   cand.ID,
			FoodName: cand.Name,
			Grams:    math.Round(grams[i]*10) / 10,
		})
	}
	return items
}
