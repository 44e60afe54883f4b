package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"dog-nutrition-api/internal/pkg/common"
)

// ErrFoodNotFound 食材不存在
var ErrFoodNotFound = errors.New("food not found")

// Store 食材目錄存儲（SQLite）
type Store struct {
	db *sql.DB
}

// NewStore 開啟食材資料庫並初始化結構
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// Close 關閉資料庫
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS foods (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        name TEXT NOT NULL,
        kcal_per_100g REAL NOT NULL,
        source TEXT NOT NULL,
        fdc_id INTEGER,
        UNIQUE(source, fdc_id)
    );

    CREATE TABLE IF NOT EXISTS food_nutrients (
        food_id INTEGER NOT NULL,
        nutrient_key TEXT NOT NULL,
        amount_per_100g REAL NOT NULL,
        PRIMARY KEY (food_id, nutrient_key),
        FOREIGN KEY (food_id) REFERENCES foods(id) ON DELETE CASCADE
    );

    CREATE TABLE IF NOT EXISTS food_aliases (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        food_id INTEGER NOT NULL,
        lang TEXT NOT NULL,
        alias TEXT NOT NULL,
        weight INTEGER NOT NULL DEFAULT 0,
        created_at TEXT NOT NULL DEFAULT (datetime('now')),
        FOREIGN KEY (food_id) REFERENCES foods(id) ON DELETE CASCADE,
        UNIQUE(lang, alias, food_id)
    );

    CREATE INDEX IF NOT EXISTS idx_foods_name ON foods(name);
    CREATE INDEX IF NOT EXISTS idx_food_aliases_lang_alias ON food_aliases(lang, alias);
    `

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// UpsertFood 新增或更新食材
// 有 fdc_id 時以 (source, fdc_id) 為鍵更新名稱與熱量
func (s *Store) UpsertFood(ctx context.Context, name string, kcalPer100g float64, source string, fdcID *int64) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, fmt.Errorf("food name cannot be empty")
	}
	if kcalPer100g < 0 {
		return 0, fmt.Errorf("kcal_per_100g must be >= 0")
	}

	if fdcID == nil {
		res, err := s.db.ExecContext(ctx,
			"INSERT INTO foods(name, kcal_per_100g, source, fdc_id) VALUES (?, ?, ?, NULL)",
			name, kcalPer100g, source,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to insert food: %w", err)
		}
		return res.LastInsertId()
	}

	_, err := s.db.ExecContext(ctx, `
        INSERT INTO foods(name, kcal_per_100g, source, fdc_id)
        VALUES (?, ?, ?, ?)
        ON CONFLICT(source, fdc_id)
        DO UPDATE SET
            name = excluded.name,
            kcal_per_100g = excluded.kcal_per_100g
        `,
		name, kcalPer100g, source, *fdcID,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert food: %w", err)
	}

	var id int64
	err = s.db.QueryRowContext(ctx,
		"SELECT id FROM foods WHERE source = ? AND fdc_id = ?",
		source, *fdcID,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to resolve food id: %w", err)
	}
	return id, nil
}

// GetFood 依 ID 查詢食材
func (s *Store) GetFood(ctx context.Context, id int64) (*common.Food, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, name, kcal_per_100g, source, fdc_id FROM foods WHERE id = ?", id)

	food, err := scanFood(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFoodNotFound
		}
		return nil, fmt.Errorf("failed to get food: %w", err)
	}
	return food, nil
}

// SearchByTokens 以名稱 token 查詢食材
// matchAll 為 true 時所有 token 都必須是名稱子字串，否則任一即可
// 結果依名稱字母序排列，上限 limit 筆
func (s *Store) SearchByTokens(ctx context.Context, tokens []string, matchAll bool, limit int) ([]common.Food, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be > 0")
	}
	if len(tokens) == 0 {
		return nil, nil
	}

	conds := make([]string, len(tokens))
	args := make([]interface{}, 0, len(tokens)+1)
	for i, token := range tokens {
		conds[i] = "lower(name) LIKE ?"
		args = append(args, "%"+strings.ToLower(token)+"%")
	}
	joiner := " OR "
	if matchAll {
		joiner = " AND "
	}
	args = append(args, limit)

	query := fmt.Sprintf(`
        SELECT id, name, kcal_per_100g, source, fdc_id
        FROM foods
        WHERE %s
        ORDER BY name ASC
        LIMIT ?`, strings.Join(conds, joiner))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search foods: %w", err)
	}
	defer rows.Close()

	return scanFoods(rows)
}

// UpsertNutrient 設定食材的單項營養素（每 100g）
func (s *Store) UpsertNutrient(ctx context.Context, foodID int64, nutrientKey string, amountPer100g float64) error {
	nutrientKey = strings.TrimSpace(nutrientKey)
	if nutrientKey == "" {
		return fmt.Errorf("nutrient key cannot be empty")
	}
	if amountPer100g < 0 {
		return fmt.Errorf("amount_per_100g must be >= 0")
	}

	_, err := s.db.ExecContext(ctx, `
        INSERT INTO food_nutrients(food_id, nutrient_key, amount_per_100g)
        VALUES (?, ?, ?)
        ON CONFLICT(food_id, nutrient_key)
        DO UPDATE SET amount_per_100g = excluded.amount_per_100g`,
		foodID, nutrientKey, amountPer100g,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert nutrient: %w", err)
	}
	return nil
}

// Nutrients 查詢食材的營養素向量（每 100g）
func (s *Store) Nutrients(ctx context.Context, foodID int64) (map[string]float64, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT nutrient_key, amount_per_100g FROM food_nutrients WHERE food_id = ?", foodID)
	if err != nil {
		return nil, fmt.Errorf("failed to query nutrients: %w", err)
	}
	defer rows.Close()

	nutrients := make(map[string]float64)
	for rows.Next() {
		var key string
		var amount float64
		if err := rows.Scan(&key, &amount); err != nil {
			return nil, fmt.Errorf("failed to scan nutrient: %w", err)
		}
		nutrients[key] = amount
	}
	return nutrients, rows.Err()
}

// Counts 回傳食材與營養素筆數（健康檢查用）
func (s *Store) Counts(ctx context.Context) (foods int64, nutrients int64, err error) {
	if err = s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM foods").Scan(&foods); err != nil {
		return 0, 0, fmt.Errorf("failed to count foods: %w", err)
	}
	if err = s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM food_nutrients").Scan(&nutrients); err != nil {
		return 0, 0, fmt.Errorf("failed to count nutrients: %w", err)
	}
	return foods, nutrients, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanFood(row rowScanner) (*common.Food, error) {
	var food common.Food
	var fdcID sql.NullInt64
	if err := row.Scan(&food.ID, &food.Name, &food.KcalPer100g, &food.Source, &fdcID); err != nil {
		return nil, err
	}
	if fdcID.Valid {
		food.FdcID = &fdcID.Int64
	}
	return &food, nil
}

func scanFoods(rows *sql.Rows) ([]common.Food, error) {
	var foods []common.Food
	for rows.Next() {
		food, err := scanFood(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan food: %w", err)
		}
		foods = append(foods, *food)
	}
	return foods, rows.Err()
}
