package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"dog-nutrition-api/internal/pkg/common"
)

// AddAlias 為食材新增跨語言別名
// (lang, alias, food_id) 重複時靜默忽略
func (s *Store) AddAlias(ctx context.Context, foodID int64, lang, alias string, weight int) error {
	alias = strings.TrimSpace(alias)
	lang = strings.ToLower(strings.TrimSpace(lang))
	if alias == "" {
		return fmt.Errorf("alias cannot be empty")
	}
	if lang == "" {
		return fmt.Errorf("lang cannot be empty")
	}
	if weight < 0 {
		return fmt.Errorf("weight must be >= 0")
	}

	_, err := s.db.ExecContext(ctx, `
        INSERT OR IGNORE INTO food_aliases(food_id, lang, alias, weight)
        VALUES (?, ?, ?, ?)`,
		foodID, lang, alias, weight,
	)
	if err != nil {
		return fmt.Errorf("failed to add alias: %w", err)
	}
	return nil
}

// DeleteAlias 刪除別名
func (s *Store) DeleteAlias(ctx context.Context, aliasID int64) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM food_aliases WHERE id = ?", aliasID); err != nil {
		return fmt.Errorf("failed to delete alias: %w", err)
	}
	return nil
}

// GetFoodAliases 查詢單一食材在指定語言下的別名
func (s *Store) GetFoodAliases(ctx context.Context, foodID int64, lang string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT alias FROM food_aliases WHERE food_id = ? AND lang = ? ORDER BY alias ASC",
		foodID, strings.ToLower(strings.TrimSpace(lang)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query aliases: %w", err)
	}
	defer rows.Close()

	var aliases []string
	for rows.Next() {
		var alias string
		if err := rows.Scan(&alias); err != nil {
			return nil, fmt.Errorf("failed to scan alias: %w", err)
		}
		aliases = append(aliases, alias)
	}
	return aliases, rows.Err()
}

// ListAliases 列出指定語言的所有別名（管理用途）
func (s *Store) ListAliases(ctx context.Context, lang string) ([]common.AliasRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT a.id, a.food_id, a.lang, a.alias, a.weight, f.name AS food_name
        FROM food_aliases AS a
        JOIN foods AS f ON f.id = a.food_id
        WHERE a.lang = ?
        ORDER BY a.food_id ASC, a.alias ASC`,
		strings.ToLower(strings.TrimSpace(lang)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list aliases: %w", err)
	}
	defer rows.Close()

	var records []common.AliasRecord
	for rows.Next() {
		var rec common.AliasRecord
		if err := rows.Scan(&rec.ID, &rec.FoodID, &rec.Lang, &rec.Alias, &rec.Weight, &rec.FoodName); err != nil {
			return nil, fmt.Errorf("failed to scan alias record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// SearchByAlias 以別名子字串查詢食材
// 依權重降冪、別名字母序升冪排列
func (s *Store) SearchByAlias(ctx context.Context, query, lang string, limit int) ([]common.AliasHit, error) {
	normalized := strings.ToLower(strings.TrimSpace(query))
	if normalized == "" {
		return nil, nil
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be > 0")
	}

	rows, err := s.db.QueryContext(ctx, `
        SELECT f.id, f.name, f.kcal_per_100g, f.source, f.fdc_id, a.alias, a.lang, a.weight
        FROM food_aliases AS a
        JOIN foods AS f ON f.id = a.food_id
        WHERE a.lang = ? AND lower(a.alias) LIKE ?
        ORDER BY a.weight DESC, a.alias ASC, f.name ASC
        LIMIT ?`,
		strings.ToLower(strings.TrimSpace(lang)), "%"+normalized+"%", limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search by alias: %w", err)
	}
	defer rows.Close()

	var hits []common.AliasHit
	for rows.Next() {
		var hit common.AliasHit
		var fdcID sql.NullInt64
		if err := rows.Scan(&hit.Food.ID, &hit.Food.Name, &hit.Food.KcalPer100g, &hit.Food.Source,
			&fdcID, &hit.Alias, &hit.Lang, &hit.Weight); err != nil {
			return nil, fmt.Errorf("failed to scan alias hit: %w", err)
		}
		if fdcID.Valid {
			hit.Food.FdcID = &fdcID.Int64
		}
		hits = append(hits, hit)
	}
	return hits, rows.Err()
}
