package common

// Food 食材紀錄（熱量以每 100g 計）
type Food struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	KcalPer100g float64 `json:"kcal_per_100g"`
	Source      string  `json:"source"`
	FdcID       *int64  `json:"fdc_id,omitempty"`
}

// AliasHit 別名查詢命中結果
// Weight 僅作排序用，不影響正確性
type AliasHit struct {
	Food   Food   `json:"food"`
	Alias  string `json:"alias"`
	Lang   string `json:"lang"`
	Weight int    `json:"weight"`
}

// AliasRecord 別名管理列表項目
type AliasRecord struct {
	ID       int64  `json:"id"`
	FoodID   int64  `json:"food_id"`
	FoodName string `json:"food_name"`
	Lang     string `json:"lang"`
	Alias    string `json:"alias"`
	Weight   int    `json:"weight"`
}

// NutrientRequirement 每日營養需求（由 NRC 參考值依 MER 線性縮放）
type NutrientRequirement struct {
	NutrientKey   string   `json:"nutrient_key"`
	MinPerDay     float64  `json:"min_per_day"`
	SuggestPerDay float64  `json:"suggest_per_day"`
	MaxPerDay     *float64 `json:"max_per_day"` // nil 表示無上限
}

// NRC 狀態值
const (
	NrcStatusLow  = "LOW"
	NrcStatusOK   = "OK"
	NrcStatusHigh = "HIGH"
)

// NrcRow 營養診斷列（成功與失敗都會產生）
type NrcRow struct {
	NutrientKey string   `json:"nutrient_key"`
	Minimum     float64  `json:"minimum"`
	Suggest     float64  `json:"suggest"`
	Maximum     *float64 `json:"maximum"`
	Actual      float64  `json:"actual"`
	Status      string   `json:"status"`
}

// FormulaItem 配方項目（克數四捨五入至一位小數）
type FormulaItem struct {
	FoodID   int64   `json:"food_id"`
	FoodName string  `json:"food_name"`
	Grams    float64 `json:"grams"`
}

// FormulaResult 配方結果
// 呼叫端必須先檢查 Feasible 再讀取 Items
type FormulaResult struct {
	Feasible bool          `json:"feasible"`
	Reason   string        `json:"reason"`
	Items    []FormulaItem `json:"items"`
	NrcRows  []NrcRow      `json:"nrc_rows"`
}
