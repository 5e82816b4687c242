package patient

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Schema is the SQL DDL for the patient_visits table. Execute it via
// [PostgresStore.Migrate] or apply it manually during deployment.
//
// The table is an append-only visit log. The expression index mirrors the
// normalized-phone predicate used by the identity queries.
const Schema = `
CREATE TABLE IF NOT EXISTS patient_visits (
    id           BIGSERIAL PRIMARY KEY,
    first_name   TEXT NOT NULL DEFAULT '',
    last_name    TEXT NOT NULL DEFAULT '',
    phone_number TEXT,
    address      TEXT NOT NULL DEFAULT '',
    new_patient  BOOLEAN NOT NULL DEFAULT FALSE,
    created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_patient_visits_norm_phone
    ON patient_visits (regexp_replace(phone_number, '[^0-9]', '', 'g'));
`

// normPhoneExpr is the SQL counterpart of [NormalizePhone]. NULL phones stay
// NULL, so the = comparisons below never match them — a nil phone is its own
// identity in SQL just as in the memstore.
const normPhoneExpr = `regexp_replace(phone_number, '[^0-9]', '', 'g')`

// DB is the database interface used by [PostgresStore]. Both *pgxpool.Pool
// and *pgx.Conn satisfy this interface.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresStore is a [Store] backed by a PostgreSQL database.
type PostgresStore struct {
	db DB
}

// Compile-time interface check.
var _ Store = (*PostgresStore)(nil)

// NewPostgresStore creates a new [PostgresStore] that uses the given database
// connection or pool. The caller is responsible for calling
// [PostgresStore.Migrate] to ensure the schema exists before issuing queries.
func NewPostgresStore(db DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate executes the [Schema] DDL against the database, creating the
// patient_visits table and index if they do not already exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("patient: migrate: %w", err)
	}
	return nil
}

const recordColumns = `id, first_name, last_name, phone_number, address, new_patient`

// FindAll implements [Store.FindAll].
func (s *PostgresStore) FindAll(ctx context.Context) ([]VisitRecord, error) {
	rows, err := s.db.Query(ctx, `SELECT `+recordColumns+` FROM patient_visits ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("patient: find all: %w", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

// Save implements [Store.Save]. The database assigns the ID via BIGSERIAL,
// which guarantees the monotonic ordering the latest-per-identity projection
// relies on.
func (s *PostgresStore) Save(ctx context.Context, rec VisitRecord) (VisitRecord, error) {
	const query = `
		INSERT INTO patient_visits (first_name, last_name, phone_number, address, new_patient)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	err := s.db.QueryRow(ctx, query,
		rec.FirstName, rec.LastName, rec.PhoneNumber, rec.Address, rec.NewPatient,
	).Scan(&rec.ID)
	if err != nil {
		return VisitRecord{}, fmt.Errorf("patient: save: %w", err)
	}
	return rec, nil
}

// Get implements [Store.Get].
func (s *PostgresStore) Get(ctx context.Context, id int64) (VisitRecord, error) {
	var rec VisitRecord
	err := s.db.QueryRow(ctx,
		`SELECT `+recordColumns+` FROM patient_visits WHERE id = $1`, id,
	).Scan(&rec.ID, &rec.FirstName, &rec.LastName, &rec.PhoneNumber, &rec.Address, &rec.NewPatient)
	if errors.Is(err, pgx.ErrNoRows) {
		return VisitRecord{}, ErrNotFound
	}
	if err != nil {
		return VisitRecord{}, fmt.Errorf("patient: get %d: %w", id, err)
	}
	return rec, nil
}

// ExistsByNormalizedPhone implements [Store.ExistsByNormalizedPhone].
func (s *PostgresStore) ExistsByNormalizedPhone(ctx context.Context, norm string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM patient_visits WHERE `+normPhoneExpr+` = $1)`, norm,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("patient: exists by phone: %w", err)
	}
	return exists, nil
}

// CountByNormalizedPhone implements [Store.CountByNormalizedPhone].
func (s *PostgresStore) CountByNormalizedPhone(ctx context.Context, norm string) (int, error) {
	var n int
	err := s.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM patient_visits WHERE `+normPhoneExpr+` = $1`, norm,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("patient: count by phone: %w", err)
	}
	return n, nil
}

// LatestPerIdentity implements [Store.LatestPerIdentity]. Rows are
// partitioned by normalized phone and only the highest-ID row of each
// partition survives. NULL phones get a per-row partition key so each
// phoneless record remains its own identity.
func (s *PostgresStore) LatestPerIdentity(ctx context.Context) ([]VisitRecord, error) {
	const query = `
		SELECT ` + recordColumns + ` FROM (
			SELECT v.*,
			       ROW_NUMBER() OVER (
			           PARTITION BY COALESCE(` + normPhoneExpr + `, 'record:' || v.id::text)
			           ORDER BY v.id DESC
			       ) rn
			FROM patient_visits v
		) x
		WHERE x.rn = 1
		ORDER BY x.id DESC`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("patient: latest per identity: %w", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

func scanRecords(rows pgx.Rows) ([]VisitRecord, error) {
	var out []VisitRecord
	for rows.Next() {
		var rec VisitRecord
		if err := rows.Scan(&rec.ID, &rec.FirstName, &rec.LastName, &rec.PhoneNumber, &rec.Address, &rec.NewPatient); err != nil {
			return nil, fmt.Errorf("patient: scan record: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("patient: iterate records: %w", err)
	}
	return out, nil
}
