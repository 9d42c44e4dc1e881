package catalog

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rgehrsitz/tcogo/internal/db"
	"github.com/rgehrsitz/tcogo/internal/domain"
	"github.com/rgehrsitz/tcogo/internal/migrations"
	"github.com/rgehrsitz/tcogo/internal/vendor"
	"github.com/shopspring/decimal"
)

// Store is a SQLite-backed catalog
type Store struct {
	db *sql.DB
}

// ImportStats counts the rows written by an import.
type ImportStats struct {
	Inserts int
	Updates int
}

// OpenStore opens (creating if needed) the database at path and migrates it.
func OpenStore(path string) (*Store, error) {
	database, err := db.Open(path)
	if err != nil {
		return nil, err
	}
	if err := migrations.Up(database); err != nil {
		database.Close()
		return nil, err
	}
	return &Store{db: database}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Import writes the dataset in one transaction. Existing rows are updated only
// when their content changed, so importing the same dataset twice writes nothing.
// Rows absent from ds are left in place.
func (s *Store) Import(ds *Dataset) (ImportStats, error) {
	if err := ds.Validate(); err != nil {
		return ImportStats{}, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return ImportStats{}, fmt.Errorf("begin import transaction: %w", err)
	}

	stats := ImportStats{}
	if err := importVendors(tx, ds.Vendors, &stats); err != nil {
		_ = tx.Rollback()
		return ImportStats{}, err
	}
	if err := importIndustries(tx, ds.Industries, &stats); err != nil {
		_ = tx.Rollback()
		return ImportStats{}, err
	}
	if err := importViolationCosts(tx, ds.ViolationCosts, &stats); err != nil {
		_ = tx.Rollback()
		return ImportStats{}, err
	}
	if stats.Inserts+stats.Updates > 0 {
		if _, err := tx.Exec(`INSERT INTO catalog_imports (inserts, updates) VALUES (?, ?)`, stats.Inserts, stats.Updates); err != nil {
			_ = tx.Rollback()
			return ImportStats{}, fmt.Errorf("record import: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return ImportStats{}, fmt.Errorf("commit import transaction: %w", err)
	}
	return stats, nil
}

func importVendors(tx *sql.Tx, vendors []vendor.RawVendor, stats *ImportStats) error {
	for _, v := range vendors {
		record, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode vendor %s: %w", v.ID, err)
		}

		var existing string
		err = tx.QueryRow(`SELECT record FROM vendors WHERE id = ?`, v.ID).Scan(&existing)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			if _, err := tx.Exec(`INSERT INTO vendors (id, name, record) VALUES (?, ?, ?)`, v.ID, v.Name, string(record)); err != nil {
				return fmt.Errorf("insert vendor %s: %w", v.ID, err)
			}
			stats.Inserts++
		case err != nil:
			return fmt.Errorf("query vendor %s: %w", v.ID, err)
		case existing != string(record):
			if _, err := tx.Exec(`UPDATE vendors SET name = ?, record = ? WHERE id = ?`, v.Name, string(record), v.ID); err != nil {
				return fmt.Errorf("update vendor %s: %w", v.ID, err)
			}
			stats.Updates++
		}
	}
	return nil
}

func importIndustries(tx *sql.Tx, industries map[string][]domain.FrameworkID, stats *ImportStats) error {
	for industry, frameworks := range industries {
		for pos, fw := range frameworks {
			var existing int
			err := tx.QueryRow(`SELECT position FROM industry_frameworks WHERE industry = ? AND framework = ?`, industry, string(fw)).Scan(&existing)
			switch {
			case errors.Is(err, sql.ErrNoRows):
				if _, err := tx.Exec(`INSERT INTO industry_frameworks (industry, framework, position) VALUES (?, ?, ?)`, industry, string(fw), pos); err != nil {
					return fmt.Errorf("insert framework %s for %s: %w", fw, industry, err)
				}
				stats.Inserts++
			case err != nil:
				return fmt.Errorf("query framework %s for %s: %w", fw, industry, err)
			case existing != pos:
				if _, err := tx.Exec(`UPDATE industry_frameworks SET position = ? WHERE industry = ? AND framework = ?`, pos, industry, string(fw)); err != nil {
					return fmt.Errorf("update framework %s for %s: %w", fw, industry, err)
				}
				stats.Updates++
			}
		}
	}
	return nil
}

func importViolationCosts(tx *sql.Tx, costs map[domain.FrameworkID]decimal.Decimal, stats *ImportStats) error {
	for fw, cost := range costs {
		var existing string
		err := tx.QueryRow(`SELECT cost FROM violation_costs WHERE framework = ?`, string(fw)).Scan(&existing)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			if _, err := tx.Exec(`INSERT INTO violation_costs (framework, cost) VALUES (?, ?)`, string(fw), cost.String()); err != nil {
				return fmt.Errorf("insert violation cost %s: %w", fw, err)
			}
			stats.Inserts++
		case err != nil:
			return fmt.Errorf("query violation cost %s: %w", fw, err)
		case existing != cost.String():
			if _, err := tx.Exec(`UPDATE violation_costs SET cost = ? WHERE framework = ?`, cost.String(), string(fw)); err != nil {
				return fmt.Errorf("update violation cost %s: %w", fw, err)
			}
			stats.Updates++
		}
	}
	return nil
}

// Load reads the whole catalog back into a Dataset.
func (s *Store) Load() (*Dataset, error) {
	ds := &Dataset{
		Industries:     make(map[string][]domain.FrameworkID),
		ViolationCosts: make(map[domain.FrameworkID]decimal.Decimal),
	}

	rows, err := s.db.Query(`SELECT id, record FROM vendors ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query vendors: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id, record string
		if err := rows.Scan(&id, &record); err != nil {
			return nil, fmt.Errorf("scan vendor: %w", err)
		}
		var v vendor.RawVendor
		if err := json.Unmarshal([]byte(record), &v); err != nil {
			return nil, fmt.Errorf("decode vendor %s: %w", id, err)
		}
		ds.Vendors = append(ds.Vendors, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate vendors: %w", err)
	}

	fwRows, err := s.db.Query(`SELECT industry, framework FROM industry_frameworks ORDER BY industry, position, framework`)
	if err != nil {
		return nil, fmt.Errorf("query industry frameworks: %w", err)
	}
	defer fwRows.Close()
	for fwRows.Next() {
		var industry, fw string
		if err := fwRows.Scan(&industry, &fw); err != nil {
			return nil, fmt.Errorf("scan industry framework: %w", err)
		}
		ds.Industries[industry] = append(ds.Industries[industry], domain.FrameworkID(fw))
	}
	if err := fwRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate industry frameworks: %w", err)
	}

	costRows, err := s.db.Query(`SELECT framework, cost FROM violation_costs`)
	if err != nil {
		return nil, fmt.Errorf("query violation costs: %w", err)
	}
	defer costRows.Close()
	for costRows.Next() {
		var fw, raw string
		if err := costRows.Scan(&fw, &raw); err != nil {
			return nil, fmt.Errorf("scan violation cost: %w", err)
		}
		cost, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("violation cost %s: %w", fw, err)
		}
		ds.ViolationCosts[domain.FrameworkID(fw)] = cost
	}
	if err := costRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate violation costs: %w", err)
	}

	ds.normalize()
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	return ds, nil
}

// ImportCount returns how many imports changed the catalog.
func (s *Store) ImportCount() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM catalog_imports`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count imports: %w", err)
	}
	return n, nil
}
