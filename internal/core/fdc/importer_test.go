package fdc

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dog-nutrition-api/internal/core/catalog"
	"dog-nutrition-api/internal/infrastructure/config"
	"dog-nutrition-api/internal/pkg/common"
)

func newTestImporter(t *testing.T) (*Importer, *catalog.Store) {
	t.Helper()
	store, err := catalog.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return NewImporter(store, nil, 1), store
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestImportJSONSearchFormat(t *testing.T) {
	importer, store := newTestImporter(t)
	ctx := context.Background()

	content := `{
		"foods": [
			{
				"fdcId": 171077,
				"description": "Chicken, broilers or fryers, breast, meat only, raw",
				"foodNutrients": [
					{"nutrientNumber": "1008", "nutrientName": "Energy", "value": 120},
					{"nutrientNumber": "203", "nutrientName": "Protein", "value": 22.5},
					{"nutrientNumber": "301", "nutrientName": "Calcium, Ca", "value": 5}
				]
			},
			{
				"fdcId": 999,
				"description": "No energy food",
				"foodNutrients": [
					{"nutrientNumber": "203", "nutrientName": "Protein", "value": 10}
				]
			}
		]
	}`
	path := writeFile(t, t.TempDir(), "foundation.json", content)

	report, err := importer.ImportPath(ctx, path, "fdc")
	require.NoError(t, err)
	assert.Equal(t, 1, report.Imported)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, 1, report.ByDataset["foundation"])
	assert.Equal(t, 1, report.SkipReasons["missing_energy_or_name"])

	foods, err := store.SearchByTokens(ctx, []string{"breast"}, true, 10)
	require.NoError(t, err)
	require.Len(t, foods, 1)
	assert.Equal(t, 120.0, foods[0].KcalPer100g)
	assert.Equal(t, "fdc:foundation", foods[0].Source)
	require.NotNil(t, foods[0].FdcID)
	assert.Equal(t, int64(171077), *foods[0].FdcID)

	nutrients, err := store.Nutrients(ctx, foods[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 22.5, nutrients["protein_g"])
	assert.Equal(t, 5.0, nutrients["ca_mg"])
}

func TestImportJSONCompactFormat(t *testing.T) {
	importer, store := newTestImporter(t)
	ctx := context.Background()

	// 精簡格式：頂層陣列、name 與 kcal_per_100g 直接給值
	content := `[
		{"name": "Sweet potato, raw", "kcal_per_100g": 86},
		{"name": "Pumpkin, raw", "energy_kcal": 26}
	]`
	path := writeFile(t, t.TempDir(), "veggies.json", content)

	report, err := importer.ImportPath(ctx, path, "manual")
	require.NoError(t, err)
	assert.Equal(t, 2, report.Imported)
	assert.Equal(t, 0, report.Skipped)

	foods, nutrients, err := store.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), foods)
	assert.Equal(t, int64(0), nutrients)
}

func TestImportCSV(t *testing.T) {
	importer, store := newTestImporter(t)
	ctx := context.Background()

	content := "fdc_id,description,energy\n171077,Chicken breast raw,120\n,Missing energy food,\n"
	path := writeFile(t, t.TempDir(), "legacy.csv", content)

	report, err := importer.ImportPath(ctx, path, "fdc")
	require.NoError(t, err)
	assert.Equal(t, 1, report.Imported)
	assert.Equal(t, 1, report.Skipped)

	foods, err := store.SearchByTokens(ctx, []string{"chicken"}, true, 10)
	require.NoError(t, err)
	require.Len(t, foods, 1)
	assert.Equal(t, "fdc:legacy", foods[0].Source)
}

func TestImportDirectoryMixedFiles(t *testing.T) {
	importer, _ := newTestImporter(t)
	ctx := context.Background()

	dir := t.TempDir()
	writeFile(t, dir, "a.json", `[{"name": "Salmon, raw", "energy": 208}]`)
	writeFile(t, dir, "b.csv", "description,energy\nBeef round raw,135\n")
	writeFile(t, dir, "notes.txt", "ignored")

	report, err := importer.ImportPath(ctx, dir, "fdc")
	require.NoError(t, err)
	assert.Equal(t, 2, report.Imported)
	assert.Equal(t, 1, report.ByDataset["a"])
	assert.Equal(t, 1, report.ByDataset["b"])
}

func TestImportCsvPackage(t *testing.T) {
	importer, store := newTestImporter(t)
	ctx := context.Background()

	dir := t.TempDir()
	writeFile(t, dir, "food.csv",
		"fdc_id,data_type,description\n100,foundation,Chicken breast raw\n200,foundation,No energy food\n")
	writeFile(t, dir, "nutrient.csv",
		"id,name,nutrient_nbr\n1,Energy,1008\n2,Protein,203\n")
	writeFile(t, dir, "food_nutrient.csv",
		"id,fdc_id,nutrient_id,amount\n1,100,1,120\n2,100,2,22.5\n3,200,2,10\n")

	report, err := importer.ImportPath(ctx, dir, "fdc")
	require.NoError(t, err)
	assert.Equal(t, 1, report.Imported)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, 1, report.SkipReasons["missing_energy_in_food_nutrient"])
	assert.Equal(t, 1, report.ByDataset["foundation"])

	foods, err := store.SearchByTokens(ctx, []string{"chicken"}, true, 10)
	require.NoError(t, err)
	require.Len(t, foods, 1)
	assert.Equal(t, 120.0, foods[0].KcalPer100g)

	nutrients, err := store.Nutrients(ctx, foods[0].ID)
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"protein_g": 22.5}, nutrients)
}

func TestImportReimportUpdatesInPlace(t *testing.T) {
	importer, store := newTestImporter(t)
	ctx := context.Background()

	dir := t.TempDir()
	first := writeFile(t, dir, "v1.json", `[{"fdcId": 100, "name": "Chicken breast", "energy": 120}]`)

	_, err := importer.ImportPath(ctx, first, "fdc")
	require.NoError(t, err)

	// 同名檔案重匯：dataset 相同，(source, fdc_id) 不變
	updated := writeFile(t, dir, "v1.json", `[{"fdcId": 100, "name": "Chicken breast, raw", "energy": 121}]`)

	_, err = importer.ImportPath(ctx, updated, "fdc")
	require.NoError(t, err)

	foods, _, err := store.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), foods, "同 (source, fdc_id) 更新而非重複插入")
}

func TestRecordFromJSONNameFallbacks(t *testing.T) {
	_, ok := recordFromJSON(jsonFoodRecord{})
	assert.False(t, ok)

	rec, ok := recordFromJSON(jsonFoodRecord{
		FoodItem: FoodItem{Description: "Chicken"},
		Energy:   floatPtr(100),
	})
	require.True(t, ok)
	assert.Equal(t, "Chicken", rec.name)
	assert.Nil(t, rec.fdcID)
}

func floatPtr(v float64) *float64 {
	return &v
}

func newRemoteImporter(t *testing.T, baseURL string) (*Importer, *catalog.Store) {
	t.Helper()
	store, err := catalog.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	client := NewClient(&config.FDCConfig{
		BaseURL:  baseURL,
		APIKey:   "test-key",
		Timeout:  5 * time.Second,
		PageSize: 5,
	})
	return NewImporter(store, client, 2), store
}

func remoteFood(fdcID int64, name string, kcal float64) FoodItem {
	return FoodItem{
		FdcID:       fdcID,
		Description: name,
		DataType:    "Foundation",
		FoodNutrients: []FoodNutrient{
			{NutrientNumber: "1008", NutrientName: "Energy", Value: floatPtr(kcal)},
		},
	}
}

func TestImportRemote(t *testing.T) {
	pages := map[string]SearchResult{
		"1": {TotalPages: 2, CurrentPage: 1, Foods: []FoodItem{remoteFood(100, "Chicken breast, raw", 120)}},
		"2": {TotalPages: 2, CurrentPage: 2, Foods: []FoodItem{remoteFood(200, "Egg, whole, raw", 143)}},
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		result, ok := pages[r.URL.Query().Get("pageNumber")]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(result)
	}))
	defer srv.Close()

	importer, store := newRemoteImporter(t, srv.URL)
	report, err := importer.ImportRemote(context.Background(), "chicken", 0)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Imported)
	assert.Equal(t, 2, report.ByDataset["foundation"])

	foods, _, err := store.Counts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), foods)
}

func TestImportRemotePageErrorAborts(t *testing.T) {
	// 第一頁正常，其餘頁回 500：匯入中止並回報錯誤，不得卡住
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("pageNumber") != "1" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		result := SearchResult{TotalPages: 3, CurrentPage: 1, Foods: []FoodItem{remoteFood(100, "Chicken breast, raw", 120)}}
		_ = json.NewEncoder(w).Encode(result)
	}))
	defer srv.Close()

	importer, _ := newRemoteImporter(t, srv.URL)
	_, err := importer.ImportRemote(context.Background(), "chicken", 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrFdcServiceError)
}
