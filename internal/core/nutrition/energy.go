package nutrition

import (
	"math"
)

// CalculateRER 計算靜止能量需求（kcal/day），僅與體重相關
func CalculateRER(weightKg float64) float64 {
	return 70 * math.Pow(weightKg, 0.75)
}

// CalculateMER 計算維持能量需求（kcal/day）
func CalculateMER(profile DogProfile) float64 {
	return CalculateRER(profile.WeightKg) * ActivityFactors[profile.Activity]
}
