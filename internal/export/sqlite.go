package export

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"

	"structscan/internal/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS records (
    name TEXT PRIMARY KEY,
    keyword TEXT NOT NULL,
    parent TEXT,
    position INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS fields (
    record TEXT NOT NULL REFERENCES records(name) ON DELETE CASCADE,
    position INTEGER NOT NULL,
    name TEXT NOT NULL,
    type TEXT NOT NULL,
    is_primitive INTEGER NOT NULL,
    is_parameterized INTEGER NOT NULL,
    parameter TEXT,
    PRIMARY KEY (record, name)
);
`

// SQLite writes reg to the database at dbPath, replacing any records a
// previous export left there. The whole write is one transaction.
func SQLite(ctx context.Context, dbPath string, reg *model.Registry) error {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM fields"); err != nil {
		return fmt.Errorf("clear fields: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM records"); err != nil {
		return fmt.Errorf("clear records: %w", err)
	}

	for i, rec := range reg.Records() {
		if err := insertRecord(ctx, tx, i, rec); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func insertRecord(ctx context.Context, tx *sql.Tx, position int, rec *model.Record) error {
	_, err := sq.Insert("records").
		Columns("name", "keyword", "parent", "position").
		Values(rec.Name, rec.Keyword, nullString(rec.Parent), position).
		RunWith(tx).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("insert record %s: %w", rec.Name, err)
	}

	for i, f := range rec.Fields() {
		_, err := sq.Insert("fields").
			Columns("record", "position", "name", "type", "is_primitive", "is_parameterized", "parameter").
			Values(
				rec.Name, i, f.Name, f.Type.Raw,
				boolToInt(f.Type.IsPrimitive), boolToInt(f.Type.IsParameterized),
				nullString(f.Type.Parameter),
			).
			RunWith(tx).
			ExecContext(ctx)
		if err != nil {
			return fmt.Errorf("insert field %s.%s: %w", rec.Name, f.Name, err)
		}
	}
	return nil
}

// LoadSQLite reads a registry back from a database written by SQLite.
func LoadSQLite(ctx context.Context, dbPath string) (*model.Registry, error) {
	db, err := sql.Open("sqlite3", "file:"+dbPath+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	reg := model.NewRegistry()

	query, args, err := sq.Select("name", "keyword", "parent").
		From("records").
		OrderBy("position").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build records query: %w", err)
	}
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	for rows.Next() {
		var (
			name, keyword string
			parent        sql.NullString
		)
		if err := rows.Scan(&name, &keyword, &parent); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan record: %w", err)
		}
		rec := model.NewRecord(name, keyword)
		rec.Parent = parent.String
		reg.Add(rec)
	}
	if err := closeRows(rows); err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}

	query, args, err = sq.Select("record", "name", "type", "is_primitive", "is_parameterized", "parameter").
		From("fields").
		OrderBy("record", "position").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build fields query: %w", err)
	}
	rows, err = db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query fields: %w", err)
	}
	for rows.Next() {
		var (
			record string
			f      model.Field
			param  sql.NullString
		)
		if err := rows.Scan(&record, &f.Name, &f.Type.Raw, &f.Type.IsPrimitive, &f.Type.IsParameterized, &param); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan field: %w", err)
		}
		f.Type.Parameter = param.String
		rec, ok := reg.Lookup(record)
		if !ok {
			rows.Close()
			return nil, fmt.Errorf("field %s.%s: unknown record", record, f.Name)
		}
		rec.AddField(f)
	}
	if err := closeRows(rows); err != nil {
		return nil, fmt.Errorf("read fields: %w", err)
	}

	return reg, nil
}

func closeRows(rows *sql.Rows) error {
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	return rows.Close()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
