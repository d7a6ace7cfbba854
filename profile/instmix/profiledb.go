package instmix

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"
	// Your main or test packages require this import so the sql package is properly initialized.
	_ "github.com/mattn/go-sqlite3"
)

const (
	// bufferSize of the in-memory buffer for storing records
	bufferSize = 1000

	// SQL statement for inserting the instruction mix of a function
	insertMixSQL = `
INSERT INTO instMix (
	module, function, dynops, ialu, fpalu, mem, biased, unbiased, other
) VALUES (
	?, ?, ?, ?, ?, ?, ?, ?, ?
)
`

	// SQL statement for creating the profiling table
	createSQL = `
PRAGMA journal_mode = MEMORY;
CREATE TABLE IF NOT EXISTS instMix (
	module TEXT,
	function TEXT,
	dynops FLOAT,
	ialu FLOAT,
	fpalu FLOAT,
	mem FLOAT,
	biased FLOAT,
	unbiased FLOAT,
	other FLOAT
);
`

	selectAllSQL = `
SELECT module, function, dynops, ialu, fpalu, mem, biased, unbiased, other
FROM instMix ORDER BY module, function
`

	selectModuleSQL = `
SELECT module, function, dynops, ialu, fpalu, mem, biased, unbiased, other
FROM instMix WHERE module = ? ORDER BY function
`
)

// ModuleRecord is a record together with the name of the module of its function.
type ModuleRecord struct {
	Module string
	Record
}

// ProfileDB is a profiling database for instruction mixes.
type ProfileDB struct {
	sql     *sql.DB        // Sqlite3 database
	mixStmt *sql.Stmt      // Prepared insert statement for a function
	buffer  []ModuleRecord // record buffer
}

// NewProfileDB constructs a new profiling database.
func NewProfileDB(dbFile string) (*ProfileDB, error) {
	if _, err := os.Stat(dbFile); err != nil {
		file, err := os.Create(dbFile)
		if err != nil {
			return nil, fmt.Errorf("cannot create file for database %v; %v", dbFile, err)
		}
		err = file.Close()
		if err != nil {
			return nil, fmt.Errorf("cannot close db file; %v", err)
		}
	}
	sqlDB, err := sql.Open("sqlite3", dbFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %v; %v", dbFile, err)
	}
	if _, err = sqlDB.Exec(createSQL); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("cannot create profile schema; %v", err)
	}
	mixStmt, err := sqlDB.Prepare(insertMixSQL)
	if err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to prepare a SQL statement for instruction mix; %v", err)
	}

	return &ProfileDB{
		sql:     sqlDB,
		mixStmt: mixStmt,
		buffer:  make([]ModuleRecord, 0, bufferSize),
	}, nil
}

// Close flushes buffers of profiling database and closes the profiling database.
func (db *ProfileDB) Close() error {
	defer func() {
		db.mixStmt.Close()
		db.sql.Close()
	}()
	return db.Flush()
}

// Add a record of a function of the given module to the profiling database.
func (db *ProfileDB) Add(module string, record *Record) error {
	db.buffer = append(db.buffer, ModuleRecord{Module: module, Record: *record})
	if len(db.buffer) == cap(db.buffer) {
		if err := db.Flush(); err != nil {
			return fmt.Errorf("unable to flush records: %w", err)
		}
	}
	return nil
}

// Flush the buffered records into the database. Records stay buffered
// if the transaction fails.
func (db *ProfileDB) Flush() error {
	if len(db.buffer) == 0 {
		return nil
	}
	tx, err := db.sql.Begin()
	if err != nil {
		return err
	}
	stmt := tx.Stmt(db.mixStmt)
	for _, r := range db.buffer {
		w := r.Weighted
		_, err := stmt.Exec(r.Module, r.Function, r.DynOps,
			w[IntegerALU], w[FloatingPointALU], w[Memory], w[BiasedBranch], w[UnbiasedBranch], w[Other])
		if err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	db.buffer = db.buffer[:0]
	return nil
}

// DeleteByModule deletes all records of a module; used prior insertion.
func (db *ProfileDB) DeleteByModule(module string) (int64, error) {
	res, err := db.sql.Exec("DELETE FROM instMix WHERE module = ?;", module)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// mixRow is the database representation of a ModuleRecord.
type mixRow struct {
	Module   string  `db:"module"`
	Function string  `db:"function"`
	DynOps   float64 `db:"dynops"`
	IALU     float64 `db:"ialu"`
	FPALU    float64 `db:"fpalu"`
	Mem      float64 `db:"mem"`
	Biased   float64 `db:"biased"`
	Unbiased float64 `db:"unbiased"`
	Other    float64 `db:"other"`
}

func (r *mixRow) record() ModuleRecord {
	res := ModuleRecord{Module: r.Module}
	res.Function = r.Function
	res.DynOps = r.DynOps
	res.Weighted[IntegerALU] = r.IALU
	res.Weighted[FloatingPointALU] = r.FPALU
	res.Weighted[Memory] = r.Mem
	res.Weighted[BiasedBranch] = r.Biased
	res.Weighted[UnbiasedBranch] = r.Unbiased
	res.Weighted[Other] = r.Other
	return res
}

// ReadRecords loads the records stored in a profiling database ordered by
// module and function. If module is empty, records of all modules are returned.
func ReadRecords(dbFile string, module string) ([]ModuleRecord, error) {
	if _, err := os.Stat(dbFile); err != nil {
		return nil, fmt.Errorf("cannot find profile database %v; %v", dbFile, err)
	}
	db, err := sqlx.Open("sqlite3", dbFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %v; %v", dbFile, err)
	}
	defer db.Close()

	var rows []mixRow
	if module == "" {
		err = db.Select(&rows, selectAllSQL)
	} else {
		err = db.Select(&rows, selectModuleSQL, module)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read records from %v; %v", dbFile, err)
	}

	res := make([]ModuleRecord, 0, len(rows))
	for i := range rows {
		res = append(res, rows[i].record())
	}
	return res, nil
}
