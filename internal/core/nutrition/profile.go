package nutrition

import (
	"fmt"

	"dog-nutrition-api/internal/pkg/common"
)

// ActivityLevel 活動水平
type ActivityLevel string

const (
	ActivityLow    ActivityLevel = "low"
	ActivityNormal ActivityLevel = "normal"
	ActivityHigh   ActivityLevel = "high"
)

// ActivityFactors 各活動水平的 MER 係數
// low：低日常活動；normal：一般家庭活動；high：高活動量 / 工作犬
var ActivityFactors = map[ActivityLevel]float64{
	ActivityLow:    1.4,
	ActivityNormal: 1.6,
	ActivityHigh:   2.0,
}

// DogProfile 狗狗參數，建構後不可變
type DogProfile struct {
	WeightKg float64       `json:"weight_kg"`
	Neutered bool          `json:"neutered"`
	Activity ActivityLevel `json:"activity"`
}

// NewDogProfile 建構並驗證狗狗參數
// 體重必須大於 0，活動水平必須是 low/normal/high
func NewDogProfile(weightKg float64, neutered bool, activity ActivityLevel) (DogProfile, error) {
	if weightKg <= 0 {
		return DogProfile{}, common.NewValidationError("weight_kg must be greater than 0")
	}
	if _, ok := ActivityFactors[activity]; !ok {
		return DogProfile{}, common.NewValidationError(
			fmt.Sprintf("activity must be one of: low, normal, high (got %q)", activity))
	}
	return DogProfile{
		WeightKg: weightKg,
		Neutered: neutered,
		Activity: activity,
	}, nil
}
