// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package store exports parsed sweep results to a SQL database for
// ad hoc analysis. The sweep itself never reads an export back; the
// result directories stay the source of truth.
package store

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"strings"
	"text/template"

	"github.com/pkg/errors"

	"golang.org/x/benchsweep/matrix"
	"golang.org/x/benchsweep/resultfmt"
)

// Families of a ResultFields row.
const (
	FamilyConfig = "config"
	FamilyMetric = "metric"
)

// DB is a database of exported results. It's safe for concurrent use
// by multiple goroutines.
type DB struct {
	sql *sql.DB
	// prepared statements
	insertExport *sql.Stmt
	insertResult *sql.Stmt
}

// OpenSQL creates a DB backed by a SQL database. The parameters are
// the same as the parameters for sql.Open. Only mysql and sqlite3 are
// explicitly supported; other database engines will receive MySQL
// query syntax which may or may not be compatible.
//
// The caller must import the driver.
func OpenSQL(driverName, dataSourceName string) (*DB, error) {
	db, err := sql.Open(driverName, dataSourceName)
	if err != nil {
		return nil, err
	}
	if driverName == "sqlite3" {
		// Every connection to ":memory:" is a new database.
		db.SetMaxOpenConns(1)
	}
	d := &DB{sql: db}
	if err := d.createTables(driverName); err != nil {
		db.Close()
		return nil, err
	}
	if err := d.prepareStatements(driverName); err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

// createTmpl is the template used to prepare the CREATE statements
// for the database. It is evaluated with . as a map containing one
// entry whose key is the driver name.
var createTmpl = template.Must(template.New("create").Parse(`
CREATE TABLE IF NOT EXISTS Exports (
	ExportID {{if .sqlite3}}INTEGER PRIMARY KEY AUTOINCREMENT{{else}}SERIAL PRIMARY KEY AUTO_INCREMENT{{end}},
	Experiment VARCHAR(255)
);
CREATE TABLE IF NOT EXISTS Results (
	ExportID BIGINT UNSIGNED,
	Job VARCHAR(255),
	PRIMARY KEY (ExportID, Job),
	FOREIGN KEY (ExportID) REFERENCES Exports(ExportID) ON UPDATE CASCADE ON DELETE CASCADE
);
CREATE TABLE IF NOT EXISTS ResultFields (
	ExportID BIGINT UNSIGNED,
	Job VARCHAR(255),
	Family VARCHAR(16),
	Name VARCHAR(255),
	Kind VARCHAR(16),
	Value VARCHAR(8192),
{{if not .sqlite3}}
	Index (Name(100), Value(100)),
{{end}}
	FOREIGN KEY (ExportID, Job) REFERENCES Results(ExportID, Job) ON UPDATE CASCADE ON DELETE CASCADE
);
{{if .sqlite3}}
CREATE INDEX IF NOT EXISTS ResultFieldsNameValue ON ResultFields(Name, Value);
{{end}}
`))

// createTables creates any missing tables on the connection in
// db.sql. driverName is the same driver name passed to sql.Open and
// is used to select the correct syntax.
func (db *DB) createTables(driverName string) error {
	var buf bytes.Buffer
	if err := createTmpl.Execute(&buf, map[string]bool{driverName: true}); err != nil {
		return err
	}
	for _, q := range strings.Split(buf.String(), ";") {
		if strings.TrimSpace(q) == "" {
			continue
		}
		if _, err := db.sql.Exec(q); err != nil {
			return errors.Wrap(err, "create table")
		}
	}
	return nil
}

// prepareStatements calls db.sql.Prepare on reusable SQL statements.
func (db *DB) prepareStatements(driverName string) error {
	var err error
	db.insertExport, err = db.sql.Prepare("INSERT INTO Exports(Experiment) VALUES (?)")
	if err != nil {
		return err
	}
	db.insertResult, err = db.sql.Prepare("INSERT INTO Results(ExportID, Job) VALUES (?, ?)")
	if err != nil {
		return err
	}
	return nil
}

// An Export is one experiment's results as written in a single
// export. Exporting the same experiment again creates a new Export.
type Export struct {
	ID         int64
	Experiment string

	db *DB
}

// NewExport returns an Export for the results of experiment.
func (db *DB) NewExport(ctx context.Context, experiment string) (*Export, error) {
	res, err := db.insertExport.ExecContext(ctx, experiment)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &Export{ID: id, Experiment: experiment, db: db}, nil
}

// InsertResult inserts one result and all its fields.
func (e *Export) InsertResult(ctx context.Context, r *resultfmt.Result) (err error) {
	tx, err := e.db.sql.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()
	if _, err = tx.StmtContext(ctx, e.db.insertResult).ExecContext(ctx, e.ID, r.Job); err != nil {
		return errors.Wrapf(err, "inserting job %s", r.Job)
	}
	var args []interface{}
	add := func(family, name string, v matrix.Value) {
		args = append(args, e.ID, r.Job, family, name, v.Kind().String(), v.String())
	}
	for _, p := range r.Config {
		add(FamilyConfig, p.Name, p.Value)
	}
	for _, m := range r.Metrics {
		add(FamilyMetric, m.Key, m.Value)
	}
	if len(args) > 0 {
		query := "INSERT INTO ResultFields VALUES " + strings.Repeat("(?, ?, ?, ?, ?, ?), ", len(args)/6)
		query = strings.TrimSuffix(query, ", ")
		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			return errors.Wrapf(err, "inserting fields of job %s", r.Job)
		}
	}
	return nil
}

// ExportResults writes results as a new Export of experiment.
func (db *DB) ExportResults(ctx context.Context, experiment string, results []*resultfmt.Result) (*Export, error) {
	e, err := db.NewExport(ctx, experiment)
	if err != nil {
		return nil, errors.Wrapf(err, "exporting %s", experiment)
	}
	for _, r := range results {
		if err := e.InsertResult(ctx, r); err != nil {
			return nil, errors.Wrapf(err, "exporting %s", experiment)
		}
	}
	return e, nil
}

// CountExports returns the number of exports in the database.
func (db *DB) CountExports() (int, error) {
	var n int
	err := db.sql.QueryRow("SELECT COUNT(*) FROM Exports").Scan(&n)
	return n, err
}

// Field is one exported field of a result.
type Field struct {
	Family string
	Name   string
	Kind   string
	Value  string
}

func (f Field) String() string {
	return fmt.Sprintf("%s %s=%s (%s)", f.Family, f.Name, f.Value, f.Kind)
}

// Fields returns the exported fields of job in export id, ordered by
// family and name.
func (db *DB) Fields(ctx context.Context, id int64, job string) ([]Field, error) {
	rows, err := db.sql.QueryContext(ctx, "SELECT Family, Name, Kind, Value FROM ResultFields WHERE ExportID = ? AND Job = ? ORDER BY Family, Name", id, job)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var fields []Field
	for rows.Next() {
		var f Field
		if err := rows.Scan(&f.Family, &f.Name, &f.Kind, &f.Value); err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
	return fields, rows.Err()
}

// Close closes the database connections, releasing any open resources.
func (db *DB) Close() error {
	if err := db.insertExport.Close(); err != nil {
		return err
	}
	if err := db.insertResult.Close(); err != nil {
		return err
	}
	return db.sql.Close()
}
