package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mr1hm/go-travel-safety/internal/geo"
	"github.com/mr1hm/go-travel-safety/internal/models"
)

const (
	detailPrevention = "prevention"
	detailSymptom    = "symptom"
	detailContact    = "contact"
)

var _ HazardStore = (*SQLiteDB)(nil)

type SQLiteDB struct {
	db *sql.DB
}

func NewSQLiteDB(path string) (*SQLiteDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}
	// :memory: databases are per-connection
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error while pinging database: %w", err)
	}

	s := &SQLiteDB{
		db: db,
	}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("error while migrating database: %w", err)
	}

	return s, nil
}

func (s *SQLiteDB) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS hazards (
			id TEXT PRIMARY KEY,
			position INTEGER NOT NULL,
			type TEXT NOT NULL,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			severity TEXT NOT NULL,
			latitude REAL NOT NULL,
			longitude REAL NOT NULL,
			address TEXT NOT NULL DEFAULT '',
			last_updated TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS hazard_details (
			hazard_id TEXT NOT NULL,
			kind TEXT NOT NULL,
			position INTEGER NOT NULL,
			body TEXT NOT NULL,
			PRIMARY KEY (hazard_id, kind, position),
			FOREIGN KEY (hazard_id) REFERENCES hazards(id) ON DELETE CASCADE
		);

		CREATE INDEX IF NOT EXISTS idx_hazards_position ON hazards(position);
		CREATE INDEX IF NOT EXISTS idx_hazards_severity ON hazards(severity);
	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteDB) ImportHazards(ctx context.Context, hazards []models.Hazard) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM hazard_details`); err != nil {
		return fmt.Errorf("error clearing hazard details: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM hazards`); err != nil {
		return fmt.Errorf("error clearing hazards: %w", err)
	}

	for i, h := range hazards {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO hazards (id, position, type, title, description, severity, latitude, longitude, address, last_updated)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			h.ID, i, string(h.Category), h.Title, h.Description, h.Severity.String(),
			h.Location.Latitude, h.Location.Longitude, h.Location.Address,
			h.LastUpdated.UTC().Format(time.RFC3339Nano),
		)
		if err != nil {
			return fmt.Errorf("error inserting hazard %q: %w", h.ID, err)
		}

		details := map[string][]string{
			detailPrevention: h.Prevention,
			detailSymptom:    h.Symptoms,
			detailContact:    h.EmergencyContacts,
		}
		for kind, lines := range details {
			for pos, body := range lines {
				if _, err := tx.ExecContext(ctx,
					`INSERT INTO hazard_details (hazard_id, kind, position, body) VALUES (?, ?, ?, ?)`,
					h.ID, kind, pos, body,
				); err != nil {
					return fmt.Errorf("error inserting %s for hazard %q: %w", kind, h.ID, err)
				}
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing import: %w", err)
	}
	return nil
}

func (s *SQLiteDB) ListHazards(ctx context.Context) ([]models.Hazard, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, type, title, description, severity, latitude, longitude, address, last_updated
		FROM hazards
		ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("error querying hazards: %w", err)
	}
	defer rows.Close()

	var (
		hazards []models.Hazard
		index   = make(map[string]int)
	)
	for rows.Next() {
		var (
			h                  models.Hazard
			category, severity string
			lat, lon           float64
			lastUpdated        string
		)
		if err := rows.Scan(&h.ID, &category, &h.Title, &h.Description, &severity, &lat, &lon, &h.Location.Address, &lastUpdated); err != nil {
			return nil, fmt.Errorf("error scanning hazard: %w", err)
		}

		if h.Category, err = models.ParseCategory(category); err != nil {
			return nil, fmt.Errorf("hazard %q: %w", h.ID, err)
		}
		if h.Severity, err = models.ParseSeverity(severity); err != nil {
			return nil, fmt.Errorf("hazard %q: %w", h.ID, err)
		}
		if h.LastUpdated, err = time.Parse(time.RFC3339Nano, lastUpdated); err != nil {
			return nil, fmt.Errorf("hazard %q: bad last_updated: %w", h.ID, err)
		}
		h.Location.Point = geo.Point{Latitude: lat, Longitude: lon}

		index[h.ID] = len(hazards)
		hazards = append(hazards, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating hazards: %w", err)
	}

	if err := s.loadDetails(ctx, hazards, index); err != nil {
		return nil, err
	}
	return hazards, nil
}

func (s *SQLiteDB) loadDetails(ctx context.Context, hazards []models.Hazard, index map[string]int) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT hazard_id, kind, body
		FROM hazard_details
		ORDER BY hazard_id, kind, position`)
	if err != nil {
		return fmt.Errorf("error querying hazard details: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, kind, body string
		if err := rows.Scan(&id, &kind, &body); err != nil {
			return fmt.Errorf("error scanning hazard detail: %w", err)
		}
		i, ok := index[id]
		if !ok {
			continue
		}
		h := &hazards[i]
		switch kind {
		case detailPrevention:
			h.Prevention = append(h.Prevention, body)
		case detailSymptom:
			h.Symptoms = append(h.Symptoms, body)
		case detailContact:
			h.EmergencyContacts = append(h.EmergencyContacts, body)
		}
	}
	return rows.Err()
}

func (s *SQLiteDB) CountHazards(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM hazards`).Scan(&n); err != nil {
		return 0, fmt.Errorf("error counting hazards: %w", err)
	}
	return n, nil
}

func (s *SQLiteDB) Close() error {
	return s.db.Close()
}
