package nutrition

import (
	"dog-nutrition-api/internal/pkg/common"
)

// ReferenceEntry NRC 參考值（以每 1000 kcal 計）
// 不變量：Min <= Suggest，且有上限時 Suggest <= Max
type ReferenceEntry struct {
	NutrientKey string
	Min         float64
	Suggest     float64
	Max         *float64 // nil 表示無上限
}

func maxOf(v float64) *float64 {
	return &v
}

// DefaultNrcReference 預設 NRC 參考表
// 以切片維持固定順序，需求列表與診斷列的輸出順序都跟著它
func DefaultNrcReference() []ReferenceEntry {
	return []ReferenceEntry{
		{NutrientKey: "protein_g", Min: 45.0, Suggest: 52.0, Max: nil},
		{NutrientKey: "fat_g", Min: 13.8, Suggest: 16.0, Max: nil},
		{NutrientKey: "ca_mg", Min: 1250.0, Suggest: 1500.0, Max: maxOf(6250.0)},
		{NutrientKey: "p_mg", Min: 1000.0, Suggest: 1200.0, Max: maxOf(4000.0)},
		{NutrientKey: "k_mg", Min: 1500.0, Suggest: 1700.0, Max: nil},
		{NutrientKey: "na_mg", Min: 200.0, Suggest: 300.0, Max: maxOf(3200.0)},
		{NutrientKey: "mg_mg", Min: 150.0, Suggest: 170.0, Max: nil},
		{NutrientKey: "fe_mg", Min: 7.5, Suggest: 10.0, Max: maxOf(75.0)},
		{NutrientKey: "zn_mg", Min: 15.0, Suggest: 20.0, Max: maxOf(300.0)},
		{NutrientKey: "cu_mg", Min: 1.5, Suggest: 1.8, Max: maxOf(30.0)},
		{NutrientKey: "mn_mg", Min: 1.2, Suggest: 1.6, Max: maxOf(24.0)},
		{NutrientKey: "se_ug", Min: 90.0, Suggest: 100.0, Max: maxOf(900.0)},
		{NutrientKey: "iodine_ug", Min: 220.0, Suggest: 300.0, Max: maxOf(2200.0)},
		{NutrientKey: "vit_a_ug", Min: 379.0, Suggest: 500.0, Max: maxOf(18750.0)},
		{NutrientKey: "vit_d_ug", Min: 3.4, Suggest: 5.0, Max: maxOf(80.0)},
		{NutrientKey: "vit_e_mg", Min: 7.5, Suggest: 10.0, Max: nil},
	}
}

// Calculator 營養需求計算器
// 參考表在建構時注入，之後視為不可變
type Calculator struct {
	reference []ReferenceEntry
}

// NewCalculator 創建需求計算器
func NewCalculator(reference []ReferenceEntry) *Calculator {
	return &Calculator{reference: reference}
}

// Requirements 依狗狗參數推導每日營養需求
// 回傳 MER 與參考表中所有營養素的需求列（不管目前食材集合是否涵蓋）
func (c *Calculator) Requirements(profile DogProfile) (float64, []common.NutrientRequirement) {
	mer := CalculateMER(profile)
	scale := mer / 1000.0

	reqs := make([]common.NutrientRequirement, 0, len(c.reference))
	for _, entry := range c.reference {
		req := common.NutrientRequirement{
			NutrientKey:   entry.NutrientKey,
			MinPerDay:     entry.Min * scale,
			SuggestPerDay: entry.Suggest * scale,
		}
		if entry.Max != nil {
			req.MaxPerDay = maxOf(*entry.Max * scale)
		}
		reqs = append(reqs, req)
	}
	return mer, reqs
}

// NrcStatus 單一營養素的狀態判定
func NrcStatus(actual, minimum float64, maximum *float64) string {
	if actual < minimum {
		return common.NrcStatusLow
	}
	if maximum != nil && actual > *maximum {
		return common.NrcStatusHigh
	}
	return common.NrcStatusOK
}
