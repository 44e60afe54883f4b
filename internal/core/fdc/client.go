package fdc

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-resty/resty/v2"

	"dog-nutrition-api/internal/infrastructure/config"
	"dog-nutrition-api/internal/pkg/common"
)

// FoodNutrient FDC 回傳的單項營養素
// 不同資料集金額欄位不一致，value 與 amount 擇一有值
type FoodNutrient struct {
	NutrientNumber string   `json:"nutrientNumber"`
	NutrientName   string   `json:"nutrientName"`
	Value          *float64 `json:"value"`
	Amount         *float64 `json:"amount"`
}

// AmountOf 取出營養素數值，兩個欄位都空時回傳 false
func (n FoodNutrient) AmountOf() (float64, bool) {
	if n.Value != nil {
		return *n.Value, true
	}
	if n.Amount != nil {
		return *n.Amount, true
	}
	return 0, false
}

// FoodItem FDC 食材項目
type FoodItem struct {
	FdcID         int64          `json:"fdcId"`
	Description   string         `json:"description"`
	DataType      string         `json:"dataType"`
	FoodNutrients []FoodNutrient `json:"foodNutrients"`
}

// SearchResult FDC 搜尋結果頁
type SearchResult struct {
	TotalHits   int        `json:"totalHits"`
	CurrentPage int        `json:"currentPage"`
	TotalPages  int        `json:"totalPages"`
	Foods       []FoodItem `json:"foods"`
}

// Client USDA FoodData Central API 客戶端
type Client struct {
	config *config.FDCConfig
	client *resty.Client
}

// NewClient 創建 FDC 客戶端
func NewClient(cfg *config.FDCConfig) *Client {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetQueryParam("api_key", cfg.APIKey)

	return &Client{
		config: cfg,
		client: client,
	}
}

// SearchFoods 以關鍵字搜尋 FDC 食材（分頁）
func (c *Client) SearchFoods(ctx context.Context, query string, pageNumber int) (*SearchResult, error) {
	var result SearchResult
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"query":      query,
			"pageSize":   strconv.Itoa(c.config.PageSize),
			"pageNumber": strconv.Itoa(pageNumber),
		}).
		SetResult(&result).
		Get("/v1/foods/search")

	if err != nil {
		return nil, fmt.Errorf("failed to search FDC foods: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, common.ErrFdcServiceError
	}

	return &result, nil
}

// FetchFood 依 FDC ID 取得單一食材
func (c *Client) FetchFood(ctx context.Context, fdcID int64) (*FoodItem, error) {
	var item FoodItem
	resp, err := c.client.R().
		SetContext(ctx).
		SetResult(&item).
		Get(fmt.Sprintf("/v1/food/%d", fdcID))

	if err != nil {
		return nil, fmt.Errorf("failed to fetch FDC food %d: %w", fdcID, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, common.ErrFdcServiceError
	}

	return &item, nil
}
