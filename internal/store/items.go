package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aerislabs/aeris/internal/apperr"
	"github.com/aerislabs/aeris/internal/scoring"
)

// UpsertItem inserts or replaces a restoration item.
func (db *DB) UpsertItem(item scoring.Item) error {
	damageJSON, _ := json.Marshal(item.DamageTypes)

	var age sql.NullFloat64
	if item.AgeYears != nil {
		age = sql.NullFloat64{Float64: *item.AgeYears, Valid: true}
	}

	_, err := db.conn.Exec(`
		INSERT INTO items (
			id, claim_id, category, material, age_years,
			original_value, current_value, restoration_cost, replacement_cost,
			damage_types, damage_extent, sentimental,
			risk_further, risk_health, risk_structural,
			restoration_days, replacement_days, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			claim_id         = excluded.claim_id,
			category         = excluded.category,
			material         = excluded.material,
			age_years        = excluded.age_years,
			original_value   = excluded.original_value,
			current_value    = excluded.current_value,
			restoration_cost = excluded.restoration_cost,
			replacement_cost = excluded.replacement_cost,
			damage_types     = excluded.damage_types,
			damage_extent    = excluded.damage_extent,
			sentimental      = excluded.sentimental,
			risk_further     = excluded.risk_further,
			risk_health      = excluded.risk_health,
			risk_structural  = excluded.risk_structural,
			restoration_days = excluded.restoration_days,
			replacement_days = excluded.replacement_days,
			updated_at       = excluded.updated_at
	`, item.ID, item.ClaimID, string(item.Category), item.Material, age,
		item.OriginalValue, item.CurrentValue, item.RestorationCost, item.ReplacementCost,
		string(damageJSON), string(item.DamageExtent), string(item.Sentimental),
		string(item.Risks.FurtherDamage), string(item.Risks.HealthConcerns), string(item.Risks.StructuralImpact),
		item.Timeline.RestorationDays, item.Timeline.ReplacementDays, time.Now())
	if err != nil {
		return fmt.Errorf("store: upsert item: %w", err)
	}
	return nil
}

const itemColumns = `id, claim_id, category, material, age_years,
	original_value, current_value, restoration_cost, replacement_cost,
	damage_types, damage_extent, sentimental,
	risk_further, risk_health, risk_structural,
	restoration_days, replacement_days`

func scanItem(row interface{ Scan(...any) error }) (*scoring.Item, error) {
	var item scoring.Item
	var age sql.NullFloat64
	var damageJSON string
	var category, extent, sentimental, riskFurther, riskHealth, riskStructural string

	err := row.Scan(&item.ID, &item.ClaimID, &category, &item.Material, &age,
		&item.OriginalValue, &item.CurrentValue, &item.RestorationCost, &item.ReplacementCost,
		&damageJSON, &extent, &sentimental,
		&riskFurther, &riskHealth, &riskStructural,
		&item.Timeline.RestorationDays, &item.Timeline.ReplacementDays)
	if err != nil {
		return nil, err
	}

	if age.Valid {
		v := age.Float64
		item.AgeYears = &v
	}
	_ = json.Unmarshal([]byte(damageJSON), &item.DamageTypes)
	item.Category = scoring.Category(category)
	item.DamageExtent = scoring.DamageExtent(extent)
	item.Sentimental = scoring.SentimentalValue(sentimental)
	item.Risks = scoring.RiskFactors{
		FurtherDamage:    scoring.RiskLevel(riskFurther),
		HealthConcerns:   scoring.RiskLevel(riskHealth),
		StructuralImpact: scoring.RiskLevel(riskStructural),
	}
	return &item, nil
}

// GetItem returns one item by id, or apperr.ErrNotFound.
func (db *DB) GetItem(id string) (*scoring.Item, error) {
	row := db.conn.QueryRow(`SELECT `+itemColumns+` FROM items WHERE id = ?`, id)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get item: %w", err)
	}
	return item, nil
}

// DeleteItem removes one item. Deleting an unknown id returns ErrNotFound.
func (db *DB) DeleteItem(id string) error {
	res, err := db.conn.Exec(`DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: delete item: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// ListItems returns all items, oldest first, optionally filtered by claim.
// Per-claim item counts are small; pagination and recommendation filtering
// happen in the service layer where derived fields exist.
func (db *DB) ListItems(claimID string) ([]scoring.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items`
	args := []any{}
	if claimID != "" {
		query += ` WHERE claim_id = ?`
		args = append(args, claimID)
	}
	query += ` ORDER BY created_at, id`

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: list items: %w", err)
	}
	defer rows.Close()

	var out []scoring.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("store: scan item: %w", err)
		}
		out = append(out, *item)
	}
	return out, rows.Err()
}
