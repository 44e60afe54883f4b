package fdc

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// CSV 套件模式：FDC 官方全量匯出的三個關聯檔
const (
	foodCsvName         = "food.csv"
	nutrientCsvName     = "nutrient.csv"
	foodNutrientCsvName = "food_nutrient.csv"
)

func hasCsvPackage(dir string) bool {
	for _, name := range []string{foodCsvName, nutrientCsvName, foodNutrientCsvName} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			return false
		}
	}
	return true
}

// importCsvPackage 匯入 FDC CSV 套件
// nutrient.csv 給出營養素 id 對編號的對照，food_nutrient.csv 給出每食材含量，
// 缺能量值的食材整筆略過
func (im *Importer) importCsvPackage(ctx context.Context, dir, source string, report *Report) error {
	numberByNutrientID, err := loadNutrientNumbers(filepath.Join(dir, nutrientCsvName))
	if err != nil {
		return err
	}

	amountsByFood, err := loadFoodNutrients(filepath.Join(dir, foodNutrientCsvName), numberByNutrientID)
	if err != nil {
		return err
	}

	file, err := os.Open(filepath.Join(dir, foodCsvName))
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", foodCsvName, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("failed to read %s header: %w", foodCsvName, err)
	}

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read %s row: %w", foodCsvName, err)
		}

		fields := rowMap(header, row)
		fdcRaw := fields["fdc_id"]
		name := fields["description"]
		if fdcRaw == "" || name == "" {
			report.skip("missing_id_or_name")
			continue
		}

		dataset := strings.ToLower(fields["data_type"])
		if dataset == "" {
			dataset = "unknown"
		}

		amounts := amountsByFood[fdcRaw]
		kcal, hasEnergy := amounts["energy"]
		if !hasEnergy {
			report.skip("missing_energy_in_food_nutrient")
			continue
		}

		var fdcID *int64
		if id, err := strconv.ParseInt(fdcRaw, 10, 64); err == nil {
			fdcID = &id
		}

		nutrients := make(map[string]float64, len(amounts))
		for key, amount := range amounts {
			if key != "energy" {
				nutrients[key] = amount
			}
		}

		rec := record{name: name, kcal: kcal, fdcID: fdcID, nutrients: nutrients}
		if err := im.writeRecord(ctx, rec, source+":"+dataset); err != nil {
			return err
		}
		report.Imported++
		report.ByDataset[dataset]++
	}
	return nil
}

// loadNutrientNumbers 讀取營養素 id 對 FDC 編號（或名稱）的對照
func loadNutrientNumbers(path string) (map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", nutrientCsvName, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s header: %w", nutrientCsvName, err)
	}

	numbers := make(map[string]string)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s row: %w", nutrientCsvName, err)
		}

		fields := rowMap(header, row)
		id := fields["id"]
		if id == "" {
			continue
		}
		number := fields["nutrient_nbr"]
		if number == "" {
			number = fields["number"]
		}
		if number == "" {
			number = fields["name"]
		}
		numbers[id] = number
	}
	return numbers, nil
}

// loadFoodNutrients 彙總每食材的營養素含量，鍵為內部營養素鍵（能量記為 "energy"）
func loadFoodNutrients(path string, numberByNutrientID map[string]string) (map[string]map[string]float64, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", foodNutrientCsvName, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s header: %w", foodNutrientCsvName, err)
	}

	amounts := make(map[string]map[string]float64)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s row: %w", foodNutrientCsvName, err)
		}

		fields := rowMap(header, row)
		foodID := fields["fdc_id"]
		nutrientID := fields["nutrient_id"]
		amount, parseErr := strconv.ParseFloat(fields["amount"], 64)
		if foodID == "" || nutrientID == "" || parseErr != nil {
			continue
		}

		marker := numberByNutrientID[nutrientID]
		var key string
		switch {
		case energyNutrientNumbers[marker] || energyNutrientNames[marker]:
			key = "energy"
		default:
			mapped, ok := nutrientKeyByNumber[marker]
			if !ok {
				continue
			}
			key = mapped
		}

		if amounts[foodID] == nil {
			amounts[foodID] = make(map[string]float64)
		}
		amounts[foodID][key] = amount
	}
	return amounts, nil
}
