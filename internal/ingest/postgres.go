package ingest

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/company-match/internal/model"
)

// querier is the minimal pool surface used here; pgxpool.Pool and the
// pgxmock pool both satisfy it.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PGSource reads a reference corpus from a Postgres table. Reference
// corpora that outgrow flat files live in tables shaped like the fed_data
// extracts: one row per business with name and phone columns.
type PGSource struct {
	pool   querier
	Source model.Source
	Table  string
	// NameCol and PhoneCol are column names, not guesses — the schema is
	// known when a table source is configured. PhoneCol may be empty.
	NameCol  string
	PhoneCol string
}

// NewPGSource connects a table source to a pool.
func NewPGSource(pool *pgxpool.Pool, source model.Source, table, nameCol, phoneCol string) *PGSource {
	return &PGSource{pool: pool, Source: source, Table: table, NameCol: nameCol, PhoneCol: phoneCol}
}

// Read loads every row of the table into raw records.
func (s *PGSource) Read(ctx context.Context) ([]model.RawRecord, error) {
	sql := fmt.Sprintf("SELECT %s, %s FROM %s", s.NameCol, s.phoneExpr(), s.Table)

	rows, err := s.pool.Query(ctx, sql)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: query %s", s.Table)
	}
	defer rows.Close()

	var records []model.RawRecord
	for rows.Next() {
		var name, phone *string
		if err := rows.Scan(&name, &phone); err != nil {
			return nil, eris.Wrapf(err, "ingest: scan %s", s.Table)
		}
		records = append(records, model.RawRecord{
			Source: s.Source,
			Name:   deref(name),
			Phone:  deref(phone),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrapf(err, "ingest: iterate %s", s.Table)
	}
	return records, nil
}

func (s *PGSource) phoneExpr() string {
	if s.PhoneCol == "" {
		return "NULL::text"
	}
	return s.PhoneCol
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
