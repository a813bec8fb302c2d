package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

type Scheme struct {
	Index       int
	Description string
	Query       string
}

var scheme = []Scheme{
	{
		Index:       1,
		Description: "Create table: onboarding_records.",
		Query: `
        CREATE TABLE IF NOT EXISTS onboarding_records (
            id bigserial primary key,
            emp_id varchar(50) not null,
            full_name varchar(255) not null,
            email varchar(255) not null,
            phone varchar(50) not null,
            dob date not null,
            street_address text not null,
            city varchar(100) not null,
            state varchar(100) not null,
            zip_code varchar(20) not null,
            department varchar(100) not null,
            job_role varchar(100) not null,
            job_start_date date not null,
            ssc_institution varchar(255),
            ssc_year int,
            inter_institution varchar(255),
            inter_year int,
            degree varchar(255),
            institution varchar(255),
            graduation_year int,
            bank_name varchar(255),
            mobile_number varchar(50),
            account_number varchar(50),
            ifsc_number varchar(20),
            prev_company_name varchar(255),
            prev_job_role varchar(255),
            prev_employment_start date,
            prev_employment_end date,
            emergency_contact_name varchar(255) not null,
            emergency_contact_relationship varchar(100) not null,
            emergency_contact_phone varchar(50) not null,
            emergency_contact_address text not null,
            profile_pic_name text,
            profile_pic_path text,
            id_proof_name text,
            id_proof_path text,
            ssc_certificate_name text,
            ssc_certificate_path text,
            inter_certificate_name text,
            inter_certificate_path text,
            degree_certificate_name text,
            degree_certificate_path text,
            experience_letter_name text,
            experience_letter_path text,
            status varchar(20) not null default 'Pending',
            created_at timestamptz not null default now(),
            updated_at timestamptz not null default now(),
            CONSTRAINT onboarding_records_emp_id_key UNIQUE (emp_id),
            CONSTRAINT onboarding_records_email_key UNIQUE (email),
            CONSTRAINT onboarding_records_status_check CHECK (status IN ('Pending', 'Active', 'Rejected'))
        );`,
	},
	{
		Index:       2,
		Description: "Index onboarding_records by created_at.",
		Query: `
        CREATE INDEX IF NOT EXISTS onboarding_records_created_at_idx
            ON onboarding_records (created_at DESC, id DESC);`,
	},
	{
		Index:       3,
		Description: "Create table: offboarding_records.",
		Query: `
        CREATE TABLE IF NOT EXISTS offboarding_records (
            id bigserial primary key,
            name varchar(255) not null,
            emp_id varchar(50) not null,
            position varchar(255) not null,
            department varchar(255) not null,
            feedback text,
            final_salary numeric(12,2) not null default 0,
            bonus numeric(12,2) not null default 0,
            acknowledged boolean not null default false,
            status varchar(20) not null default 'Pending',
            created_at timestamptz not null default now(),
            CONSTRAINT offboarding_records_status_check CHECK (status IN ('Pending', 'Active', 'Rejected'))
        );`,
	},
}

// Migrator is the part of pgxpool.Pool migrations need.
type Migrator interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// MigrateUP applies every scheme entry above the recorded version, each in its
// own transaction.
func MigrateUP(ctx context.Context, db Migrator) error {
	return migrate(ctx, db, scheme)
}

func migrate(ctx context.Context, db Migrator, steps []Scheme) error {
	if _, err := db.Exec(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (version int not null)`); err != nil {
		return errors.Wrap(err, "create schema_migrations")
	}

	var version int
	err := db.QueryRow(ctx, `SELECT version FROM schema_migrations LIMIT 1`).Scan(&version)
	if errors.Is(err, pgx.ErrNoRows) {
		if _, err = db.Exec(ctx, `INSERT INTO schema_migrations (version) VALUES (0)`); err != nil {
			return errors.Wrap(err, "init schema_migrations")
		}
	} else if err != nil {
		return errors.Wrap(err, "read schema version")
	}

	for _, s := range steps {
		if s.Index <= version {
			continue
		}
		if err := apply(ctx, db, s); err != nil {
			return errors.Wrapf(err, "migrate version %d (%s)", s.Index, s.Description)
		}
		log.Info().Int("version", s.Index).Str("description", s.Description).Msg("migration applied")
	}
	return nil
}

func apply(ctx context.Context, db Migrator, s Scheme) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, "begin")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, s.Query); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `UPDATE schema_migrations SET version = $1`, s.Index); err != nil {
		return errors.Wrap(err, "record version")
	}
	return tx.Commit(ctx)
}
