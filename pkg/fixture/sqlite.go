package fixture

import (
	"database/sql"
	"fmt"

	"fakenode/pkg/common"
	"fakenode/pkg/log"

	_ "modernc.org/sqlite"
)

var schema = []string{`
	CREATE TABLE IF NOT EXISTS lookups (
		region BLOB NOT NULL,
		row    BLOB NOT NULL,
		result BLOB,
		PRIMARY KEY (region, row)
	);`, `
	CREATE TABLE IF NOT EXISTS scans (
		region BLOB NOT NULL,
		seq    INTEGER NOT NULL,
		result BLOB,
		PRIMARY KEY (region, seq)
	);`,
}

func openDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open fixture db %s: %w", path, err)
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("init fixture schema: %w", err)
		}
	}
	return db, nil
}

// LoadSQLite seeds s from a fixture file. Rows are applied on top of whatever
// s already holds; scan sequences of regions present in the file replace the
// existing ones.
func LoadSQLite(s *Store, path string) error {
	db, err := openDB(path)
	if err != nil {
		return err
	}
	defer db.Close()

	rows, err := db.Query("SELECT region, row, result FROM lookups ORDER BY region, row")
	if err != nil {
		return fmt.Errorf("query lookups: %w", err)
	}
	lookups := 0
	for rows.Next() {
		var region, row, result []byte
		if err := rows.Scan(&region, &row, &result); err != nil {
			rows.Close()
			return fmt.Errorf("scan lookup row: %w", err)
		}
		s.SetLookupResult(region, row, result)
		lookups++
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("iterate lookups: %w", err)
	}
	rows.Close()

	rows, err = db.Query("SELECT region, result FROM scans ORDER BY region, seq")
	if err != nil {
		return fmt.Errorf("query scans: %w", err)
	}
	defer rows.Close()

	var (
		current common.RegionKey
		seq     []common.Result
		started bool
	)
	flush := func() {
		if started {
			s.SetScanResults(current, seq)
		}
	}
	scans := 0
	for rows.Next() {
		var region, result []byte
		if err := rows.Scan(&region, &result); err != nil {
			return fmt.Errorf("scan sequence row: %w", err)
		}
		if !started || common.RegionKey(region).Compare(current) != 0 {
			flush()
			current, seq, started = region, nil, true
		}
		seq = append(seq, result)
		scans++
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate scans: %w", err)
	}
	flush()

	log.Fixture.Info().Str("path", path).Int("lookups", lookups).Int("scan_results", scans).Msg("loaded fixtures")
	return nil
}

// DumpSQLite writes every fixture in s to path, replacing the file's contents.
func DumpSQLite(s *Store, path string) error {
	db, err := openDB(path)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	for _, table := range []string{"lookups", "scans"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			tx.Rollback()
			return fmt.Errorf("truncate %s: %w", table, err)
		}
	}

	lookupStmt, err := tx.Prepare("INSERT INTO lookups (region, row, result) VALUES (?, ?, ?)")
	if err != nil {
		tx.Rollback()
		return err
	}
	defer lookupStmt.Close()

	var execErr error
	s.Walk(func(region common.RegionKey, row common.RowKey, result common.Result) bool {
		_, execErr = lookupStmt.Exec([]byte(region), []byte(row), []byte(result))
		return execErr == nil
	})
	if execErr != nil {
		tx.Rollback()
		return fmt.Errorf("insert lookup: %w", execErr)
	}

	scanStmt, err := tx.Prepare("INSERT INTO scans (region, seq, result) VALUES (?, ?, ?)")
	if err != nil {
		tx.Rollback()
		return err
	}
	defer scanStmt.Close()

	s.WalkScans(func(region common.RegionKey, results []common.Result) bool {
		for i, r := range results {
			if _, execErr = scanStmt.Exec([]byte(region), i, []byte(r)); execErr != nil {
				return false
			}
		}
		return true
	})
	if execErr != nil {
		tx.Rollback()
		return fmt.Errorf("insert scan result: %w", execErr)
	}

	return tx.Commit()
}
