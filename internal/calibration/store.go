package calibration

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"

	"github.com/aquasense/aquanode/internal/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS calibration (
	key TEXT PRIMARY KEY,
	value REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS system (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	power_save_enabled BOOLEAN NOT NULL DEFAULT FALSE
);

INSERT OR IGNORE INTO system (id, power_save_enabled) VALUES (1, FALSE);
`

const (
	keyPHSlope       = "ph_slope"
	keyPHIntercept   = "ph_intercept"
	keyTurbSlope     = "turb_slope"
	keyTurbIntercept = "turb_intercept"
	keyTDSK          = "tds_k"
)

// Store persists calibration coefficients and the power-save flag across
// restarts. Missing coefficient rows fall back to factory defaults.
type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Load returns the stored calibration profile, substituting defaults for
// any coefficient not yet written.
func (s *Store) Load() (model.CalibrationProfile, error) {
	profile := model.DefaultCalibration()

	rows, err := s.db.Query(`SELECT key, value FROM calibration`)
	if err != nil {
		return profile, fmt.Errorf("failed to query calibration: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var value float64
		if err := rows.Scan(&key, &value); err != nil {
			return profile, fmt.Errorf("failed to scan calibration row: %w", err)
		}

		switch key {
		case keyPHSlope:
			profile.PHSlope = value
		case keyPHIntercept:
			profile.PHIntercept = value
		case keyTurbSlope:
			profile.TurbSlope = value
		case keyTurbIntercept:
			profile.TurbIntercept = value
		case keyTDSK:
			profile.TDSK = value
		default:
			log.Warn().Str("key", key).Msg("Ignoring unknown calibration key")
		}
	}
	return profile, rows.Err()
}

// Save writes the full profile in one transaction so a partial update
// can never be observed.
func (s *Store) Save(profile model.CalibrationProfile) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO calibration (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`)
	if err != nil {
		return fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close()

	for key, value := range map[string]float64{
		keyPHSlope:       profile.PHSlope,
		keyPHIntercept:   profile.PHIntercept,
		keyTurbSlope:     profile.TurbSlope,
		keyTurbIntercept: profile.TurbIntercept,
		keyTDSK:          profile.TDSK,
	} {
		if _, err := stmt.Exec(key, value); err != nil {
			return fmt.Errorf("failed to write coefficient %s: %w", key, err)
		}
	}

	return tx.Commit()
}

func (s *Store) LoadPowerSave() (bool, error) {
	var enabled bool
	err := s.db.QueryRow(`SELECT power_save_enabled FROM system WHERE id = 1`).Scan(&enabled)
	if err != nil {
		return false, fmt.Errorf("failed to load power-save flag: %w", err)
	}
	return enabled, nil
}

func (s *Store) SetPowerSave(enabled bool) error {
	_, err := s.db.Exec(`UPDATE system SET power_save_enabled = ? WHERE id = 1`, enabled)
	if err != nil {
		return fmt.Errorf("failed to store power-save flag: %w", err)
	}
	return nil
}
