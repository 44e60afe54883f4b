package fdc

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"dog-nutrition-api/internal/pkg/common"
)

// 能量營養素的 FDC 編號與名稱
var (
	energyNutrientNumbers = map[string]bool{"1008": true}
	energyNutrientNames   = map[string]bool{
		"Energy":                           true,
		"Energy (Atwater General Factors)": true,
		"Energy (Atwater Specific Factors)": true,
		"Energy (kcal)":                    true,
	}
)

// nutrientKeyByNumber FDC 營養素編號對內部鍵的對照表
var nutrientKeyByNumber = map[string]string{
	"203": "protein_g",
	"204": "fat_g",
	"301": "ca_mg",
	"303": "fe_mg",
	"304": "mg_mg",
	"305": "p_mg",
	"306": "k_mg",
	"307": "na_mg",
	"309": "zn_mg",
	"312": "cu_mg",
	"315": "mn_mg",
	"317": "se_ug",
	"320": "vit_a_ug",
	"323": "vit_e_mg",
	"328": "vit_d_ug",
}

// JSON 檔頂層可能的食材列表鍵
var jsonFoodListKeys = []string{
	"foods",
	"FoundationFoods",
	"SRLegacyFoods",
	"SurveyFoods",
	"BrandedFoods",
}

// FoodWriter 匯入目的地介面
type FoodWriter interface {
	UpsertFood(ctx context.Context, name string, kcalPer100g float64, source string, fdcID *int64) (int64, error)
	UpsertNutrient(ctx context.Context, foodID int64, nutrientKey string, amountPer100g float64) error
}

// Report 匯入結果統計
type Report struct {
	Imported    int            `json:"imported"`
	Skipped     int            `json:"skipped"`
	ByDataset   map[string]int `json:"by_dataset"`
	SkipReasons map[string]int `json:"skip_reasons"`
}

func newReport() *Report {
	return &Report{
		ByDataset:   make(map[string]int),
		SkipReasons: make(map[string]int),
	}
}

func (r *Report) skip(reason string) {
	r.Skipped++
	r.SkipReasons[reason]++
}

// Importer 將 FDC 資料匯入食材目錄
type Importer struct {
	store   FoodWriter
	client  *Client // 遠端匯入用，可為 nil
	workers int
}

// NewImporter 創建匯入器
func NewImporter(store FoodWriter, client *Client, workers int) *Importer {
	if workers <= 0 {
		workers = 1
	}
	return &Importer{
		store:   store,
		client:  client,
		workers: workers,
	}
}

// record 正規化後的匯入紀錄
type record struct {
	name      string
	kcal      float64
	fdcID     *int64
	nutrients map[string]float64
}

// jsonFoodRecord 本地 JSON 檔的食材項目
// 除了 API 格式外也接受精簡格式（name / kcal_per_100g 直接給值）
type jsonFoodRecord struct {
	FoodItem
	Name        string   `json:"name"`
	KcalPer100g *float64 `json:"kcal_per_100g"`
	EnergyKcal  *float64 `json:"energy_kcal"`
	Energy      *float64 `json:"energy"`
}

// ImportPath 匯入本地 FDC 檔案或目錄
// 目錄含 food.csv + nutrient.csv + food_nutrient.csv 時走 CSV 套件模式，
// 否則逐一處理目錄內的 .json 與 .csv 檔
func (im *Importer) ImportPath(ctx context.Context, inputPath, source string) (*Report, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, fmt.Errorf("input path not found: %w", err)
	}

	report := newReport()

	if info.IsDir() {
		if hasCsvPackage(inputPath) {
			if err := im.importCsvPackage(ctx, inputPath, source, report); err != nil {
				return nil, err
			}
			return report, nil
		}

		entries, err := os.ReadDir(inputPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read input directory: %w", err)
		}
		names := make([]string, 0, len(entries))
		for _, entry := range entries {
			if !entry.IsDir() {
				names = append(names, entry.Name())
			}
		}
		sort.Strings(names)

		for _, name := range names {
			if err := im.importFile(ctx, filepath.Join(inputPath, name), source, report); err != nil {
				return nil, err
			}
		}
		return report, nil
	}

	if err := im.importFile(ctx, inputPath, source, report); err != nil {
		return nil, err
	}
	return report, nil
}

func (im *Importer) importFile(ctx context.Context, path, source string, report *Report) error {
	dataset := strings.ToLower(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return im.importJSON(ctx, path, source, dataset, report)
	case ".csv":
		return im.importCSV(ctx, path, source, dataset, report)
	default:
		return nil
	}
}

func (im *Importer) importJSON(ctx context.Context, path, source, dataset string, report *Report) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}

	items, err := extractFoodList(data)
	if err != nil {
		return fmt.Errorf("%s: %w", path, common.ErrImportSourceBad)
	}

	for _, item := range items {
		rec, ok := recordFromJSON(item)
		if !ok {
			report.skip("missing_energy_or_name")
			continue
		}
		if err := im.writeRecord(ctx, rec, source+":"+dataset); err != nil {
			return err
		}
		report.Imported++
		report.ByDataset[dataset]++
	}
	return nil
}

func (im *Importer) importCSV(ctx context.Context, path, source, dataset string, report *Report) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("%s: %w", path, common.ErrImportSourceBad)
	}

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read CSV row: %w", err)
		}

		fields := rowMap(header, row)
		rec, ok := recordFromCSV(fields)
		if !ok {
			report.skip("missing_energy_or_name")
			continue
		}
		if err := im.writeRecord(ctx, rec, source+":"+dataset); err != nil {
			return err
		}
		report.Imported++
		report.ByDataset[dataset]++
	}
	return nil
}

// ImportRemote 從 FDC API 搜尋並匯入食材
// 工作協程並行抓頁，寫入由單一迴圈序列化（SQLite 單寫者）
func (im *Importer) ImportRemote(ctx context.Context, query string, maxPages int) (*Report, error) {
	if im.client == nil {
		return nil, fmt.Errorf("remote import requires an FDC client")
	}

	first, err := im.client.SearchFoods(ctx, query, 1)
	if err != nil {
		return nil, err
	}

	pages := first.TotalPages
	if maxPages > 0 && pages > maxPages {
		pages = maxPages
	}

	items := make(chan FoodItem, im.client.config.PageSize)
	pageCh := make(chan int)
	done := make(chan struct{})

	// 首個錯誤中止整輪匯入：關閉 done 讓所有發送端收尾
	var runErr error
	var abortOnce sync.Once
	abort := func(err error) {
		abortOnce.Do(func() {
			runErr = err
			close(done)
		})
	}

	var wg sync.WaitGroup
	for w := 0; w < im.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for page := range pageCh {
				result, err := im.client.SearchFoods(ctx, query, page)
				if err != nil {
					abort(fmt.Errorf("failed to fetch page %d: %w", page, err))
					return
				}
				for _, item := range result.Foods {
					select {
					case items <- item:
					case <-done:
						return
					}
				}
			}
		}()
	}

	go func() {
		defer close(items)
		for _, item := range first.Foods {
			select {
			case items <- item:
			case <-done:
			}
		}
		for page := 2; page <= pages; page++ {
			select {
			case pageCh <- page:
			case <-done:
			}
		}
		close(pageCh)
		wg.Wait()
	}()

	// 單一寫入迴圈把 items 讀到關閉為止，中止後只排空不再寫入
	report := newReport()
	for item := range items {
		select {
		case <-done:
			continue
		default:
		}
		rec, ok := recordFromJSON(jsonFoodRecord{FoodItem: item})
		if !ok {
			report.skip("missing_energy_or_name")
			continue
		}
		dataset := strings.ToLower(item.DataType)
		if dataset == "" {
			dataset = "unknown"
		}
		if err := im.writeRecord(ctx, rec, "fdc:"+dataset); err != nil {
			abort(err)
			continue
		}
		report.Imported++
		report.ByDataset[dataset]++
	}

	if runErr != nil {
		return nil, runErr
	}
	return report, nil
}

func (im *Importer) writeRecord(ctx context.Context, rec record, source string) error {
	foodID, err := im.store.UpsertFood(ctx, rec.name, rec.kcal, source, rec.fdcID)
	if err != nil {
		return fmt.Errorf("failed to upsert %q: %w", rec.name, err)
	}
	for key, amount := range rec.nutrients {
		if err := im.store.UpsertNutrient(ctx, foodID, key, amount); err != nil {
			return fmt.Errorf("failed to upsert nutrient %s for %q: %w", key, rec.name, err)
		}
	}
	return nil
}

func extractFoodList(data []byte) ([]jsonFoodRecord, error) {
	var items []jsonFoodRecord
	if err := common.ParseJSONBytes(data, &items); err == nil {
		return items, nil
	}

	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return nil, fmt.Errorf("unsupported JSON structure")
	}
	for _, key := range jsonFoodListKeys {
		raw, ok := wrapper[key]
		if !ok {
			continue
		}
		if err := common.ParseJSONBytes(raw, &items); err != nil {
			return nil, fmt.Errorf("invalid foods list under %q: %w", key, err)
		}
		return items, nil
	}
	return nil, fmt.Errorf("JSON file must contain a top-level foods list")
}

func recordFromJSON(item jsonFoodRecord) (record, bool) {
	name := strings.TrimSpace(item.Description)
	if name == "" {
		name = strings.TrimSpace(item.Name)
	}
	if name == "" {
		return record{}, false
	}

	var fdcID *int64
	if item.FdcID > 0 {
		id := item.FdcID
		fdcID = &id
	}

	nutrients := make(map[string]float64)
	var kcal *float64
	switch {
	case item.KcalPer100g != nil:
		kcal = item.KcalPer100g
	case item.EnergyKcal != nil:
		kcal = item.EnergyKcal
	case item.Energy != nil:
		kcal = item.Energy
	}

	for _, nutrient := range item.FoodNutrients {
		amount, ok := nutrient.AmountOf()
		if !ok {
			continue
		}
		number := strings.TrimSpace(nutrient.NutrientNumber)
		if kcal == nil && (energyNutrientNumbers[number] || energyNutrientNames[strings.TrimSpace(nutrient.NutrientName)]) {
			v := amount
			kcal = &v
			continue
		}
		if key, ok := nutrientKeyByNumber[number]; ok {
			nutrients[key] = amount
		}
	}

	if kcal == nil {
		return record{}, false
	}
	return record{name: name, kcal: *kcal, fdcID: fdcID, nutrients: nutrients}, true
}

func rowMap(header, row []string) map[string]string {
	fields := make(map[string]string, len(header))
	for i, col := range header {
		if i < len(row) {
			fields[strings.TrimSpace(col)] = strings.TrimSpace(row[i])
		}
	}
	return fields
}

func recordFromCSV(fields map[string]string) (record, bool) {
	name := fields["description"]
	if name == "" {
		name = fields["name"]
	}
	if name == "" {
		return record{}, false
	}

	var fdcID *int64
	fdcRaw := fields["fdc_id"]
	if fdcRaw == "" {
		fdcRaw = fields["fdcId"]
	}
	if id, err := strconv.ParseInt(fdcRaw, 10, 64); err == nil {
		fdcID = &id
	}

	var kcal *float64
	for _, col := range []string{"kcal_per_100g", "energy_kcal", "energy", "Energy"} {
		if raw, ok := fields[col]; ok && raw != "" {
			if v, err := strconv.ParseFloat(raw, 64); err == nil {
				kcal = &v
				break
			}
		}
	}
	if kcal == nil {
		return record{}, false
	}

	return record{name: name, kcal: *kcal, fdcID: fdcID, nutrients: map[string]float64{}}, true
}
