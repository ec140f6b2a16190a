package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aerislabs/aeris/internal/apperr"
	"github.com/aerislabs/aeris/internal/hvac"
)

// UpsertZone inserts or replaces an HVAC zone. Rooms and vents are stored
// as JSON columns; the zone is a self-contained aggregate.
func (db *DB) UpsertZone(z hvac.Zone) error {
	roomsJSON, _ := json.Marshal(z.Rooms)
	ventsJSON, _ := json.Marshal(z.SupplyVents)

	_, err := db.conn.Exec(`
		INSERT INTO zones (
			id, claim_id, name, rooms, return_air_location,
			supply_vents, contamination_level, airflow_direction, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			claim_id            = excluded.claim_id,
			name                = excluded.name,
			rooms               = excluded.rooms,
			return_air_location = excluded.return_air_location,
			supply_vents        = excluded.supply_vents,
			contamination_level = excluded.contamination_level,
			airflow_direction   = excluded.airflow_direction,
			updated_at          = excluded.updated_at
	`, z.ID, z.ClaimID, z.Name, string(roomsJSON), z.ReturnAirLocation,
		string(ventsJSON), string(z.ContaminationLevel), string(z.AirflowDirection), time.Now())
	if err != nil {
		return fmt.Errorf("store: upsert zone: %w", err)
	}
	return nil
}

const zoneColumns = `id, claim_id, name, rooms, return_air_location,
	supply_vents, contamination_level, airflow_direction`

func scanZone(row interface{ Scan(...any) error }) (*hvac.Zone, error) {
	var z hvac.Zone
	var roomsJSON, ventsJSON, level, direction string

	err := row.Scan(&z.ID, &z.ClaimID, &z.Name, &roomsJSON, &z.ReturnAirLocation,
		&ventsJSON, &level, &direction)
	if err != nil {
		return nil, err
	}

	_ = json.Unmarshal([]byte(roomsJSON), &z.Rooms)
	_ = json.Unmarshal([]byte(ventsJSON), &z.SupplyVents)
	z.ContaminationLevel = hvac.ContaminationLevel(level)
	z.AirflowDirection = hvac.AirflowDirection(direction)
	return &z, nil
}

// GetZone returns one zone by id, or apperr.ErrNotFound.
func (db *DB) GetZone(id string) (*hvac.Zone, error) {
	row := db.conn.QueryRow(`SELECT `+zoneColumns+` FROM zones WHERE id = ?`, id)
	z, err := scanZone(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get zone: %w", err)
	}
	return z, nil
}

// DeleteZone removes one zone. Deleting an unknown id returns ErrNotFound.
func (db *DB) DeleteZone(id string) error {
	res, err := db.conn.Exec(`DELETE FROM zones WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: delete zone: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// ListZones returns all zones, optionally filtered by claim, in insertion
// order so propagation output is stable across runs.
func (db *DB) ListZones(claimID string) ([]hvac.Zone, error) {
	query := `SELECT ` + zoneColumns + ` FROM zones`
	args := []any{}
	if claimID != "" {
		query += ` WHERE claim_id = ?`
		args = append(args, claimID)
	}
	query += ` ORDER BY rowid`

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: list zones: %w", err)
	}
	defer rows.Close()

	var out []hvac.Zone
	for rows.Next() {
		z, err := scanZone(rows)
		if err != nil {
			return nil, fmt.Errorf("store: scan zone: %w", err)
		}
		out = append(out, *z)
	}
	return out, rows.Err()
}

// UpdateZoneLevels persists recomputed contamination levels and vent flags
// for a batch of zones within one transaction, so a propagation run lands
// atomically.
func (db *DB) UpdateZoneLevels(zones []hvac.Zone) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	stmt, err := tx.Prepare(`
		UPDATE zones SET supply_vents = ?, contamination_level = ?, updated_at = ?
		WHERE id = ?
	`)
	if err != nil {
		return fmt.Errorf("store: prepare level update: %w", err)
	}
	defer stmt.Close()

	now := time.Now()
	for _, z := range zones {
		ventsJSON, _ := json.Marshal(z.SupplyVents)
		if _, err := stmt.Exec(string(ventsJSON), string(z.ContaminationLevel), now, z.ID); err != nil {
			return fmt.Errorf("store: update zone %s: %w", z.ID, err)
		}
	}
	return tx.Commit()
}

// IntakeChecksums returns the checksum of every ingested intake file.
func (db *DB) IntakeChecksums() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT path, checksum FROM intake_files`)
	if err != nil {
		return nil, fmt.Errorf("store: intake checksums: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var path, cs string
		if err := rows.Scan(&path, &cs); err != nil {
			return nil, err
		}
		out[path] = cs
	}
	return out, rows.Err()
}

// SetIntakeChecksum records the checksum of an ingested intake file.
func (db *DB) SetIntakeChecksum(path, checksum string) error {
	_, err := db.conn.Exec(`
		INSERT INTO intake_files (path, checksum) VALUES (?, ?)
		ON CONFLICT(path) DO UPDATE SET checksum = excluded.checksum
	`, path, checksum)
	if err != nil {
		return fmt.Errorf("store: set intake checksum: %w", err)
	}
	return nil
}

// DeleteIntakeFile forgets an ingested intake file.
func (db *DB) DeleteIntakeFile(path string) error {
	_, err := db.conn.Exec(`DELETE FROM intake_files WHERE path = ?`, path)
	if err != nil {
		return fmt.Errorf("store: delete intake file: %w", err)
	}
	return nil
}
