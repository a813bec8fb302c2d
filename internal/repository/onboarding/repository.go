package onboarding

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/sync/errgroup"

	"hr-onboarding/internal/models"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrInvalidStatus = errors.New("invalid status")
	ErrUnknownSlot   = errors.New("unknown file field")
	ErrDuplicate     = errors.New("duplicate record")
)

// DuplicateError reports a unique constraint violation on insert.
type DuplicateError struct {
	Field      string
	Constraint string
}

func (e *DuplicateError) Error() string { return e.Field + " already exists" }

func (e *DuplicateError) Is(target error) bool { return target == ErrDuplicate }

type PgxPoolIface interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

type Repository struct {
	pool  PgxPoolIface
	codes Allocator
}

func NewRepository(pool PgxPoolIface, codes Allocator) *Repository {
	return &Repository{pool: pool, codes: codes}
}

const selectColumns = `
	id, emp_id,
	full_name, email, phone, to_char(dob,'YYYY-MM-DD'),
	street_address, city, state, zip_code,
	department, job_role, to_char(job_start_date,'YYYY-MM-DD'),
	ssc_institution, ssc_year, inter_institution, inter_year,
	degree, institution, graduation_year,
	bank_name, mobile_number, account_number, ifsc_number,
	prev_company_name, prev_job_role,
	to_char(prev_employment_start,'YYYY-MM-DD'), to_char(prev_employment_end,'YYYY-MM-DD'),
	emergency_contact_name, emergency_contact_relationship,
	emergency_contact_phone, emergency_contact_address,
	profile_pic_name, profile_pic_path,
	id_proof_name, id_proof_path,
	ssc_certificate_name, ssc_certificate_path,
	inter_certificate_name, inter_certificate_path,
	degree_certificate_name, degree_certificate_path,
	experience_letter_name, experience_letter_path,
	status, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (models.OnboardingRecord, error) {
	var rec models.OnboardingRecord
	err := row.Scan(
		&rec.ID, &rec.EmpID,
		&rec.FullName, &rec.Email, &rec.Phone, &rec.DOB,
		&rec.StreetAddress, &rec.City, &rec.State, &rec.ZipCode,
		&rec.Department, &rec.JobRole, &rec.JobStartDate,
		&rec.SSCInstitution, &rec.SSCYear, &rec.InterInstitution, &rec.InterYear,
		&rec.Degree, &rec.Institution, &rec.GraduationYear,
		&rec.BankName, &rec.MobileNumber, &rec.AccountNumber, &rec.IFSCNumber,
		&rec.PrevCompanyName, &rec.PrevJobRole,
		&rec.PrevEmploymentStart, &rec.PrevEmploymentEnd,
		&rec.EmergencyContactName, &rec.EmergencyContactRelationship,
		&rec.EmergencyContactPhone, &rec.EmergencyContactAddress,
		&rec.ProfilePicName, &rec.ProfilePicPath,
		&rec.IDProofName, &rec.IDProofPath,
		&rec.SSCCertificateName, &rec.SSCCertificatePath,
		&rec.InterCertificateName, &rec.InterCertificatePath,
		&rec.DegreeCertificateName, &rec.DegreeCertificatePath,
		&rec.ExperienceLetterName, &rec.ExperienceLetterPath,
		&rec.Status, &rec.CreatedAt, &rec.UpdatedAt,
	)
	return rec, err
}

const insertRecord = `
INSERT INTO onboarding_records (
	emp_id, full_name, email, phone, dob,
	street_address, city, state, zip_code,
	department, job_role, job_start_date,
	ssc_institution, ssc_year, inter_institution, inter_year,
	degree, institution, graduation_year,
	bank_name, mobile_number, account_number, ifsc_number,
	prev_company_name, prev_job_role, prev_employment_start, prev_employment_end,
	emergency_contact_name, emergency_contact_relationship,
	emergency_contact_phone, emergency_contact_address,
	profile_pic_name, profile_pic_path,
	id_proof_name, id_proof_path,
	ssc_certificate_name, ssc_certificate_path,
	inter_certificate_name, inter_certificate_path,
	degree_certificate_name, degree_certificate_path,
	experience_letter_name, experience_letter_path,
	status
) VALUES (
	@emp_id, @full_name, @email, @phone, @dob::date,
	@street_address, @city, @state, @zip_code,
	@department, @job_role, @job_start_date::date,
	@ssc_institution, @ssc_year, @inter_institution, @inter_year,
	@degree, @institution, @graduation_year,
	@bank_name, @mobile_number, @account_number, @ifsc_number,
	@prev_company_name, @prev_job_role, @prev_employment_start::date, @prev_employment_end::date,
	@emergency_contact_name, @emergency_contact_relationship,
	@emergency_contact_phone, @emergency_contact_address,
	@profile_pic_name, @profile_pic_path,
	@id_proof_name, @id_proof_path,
	@ssc_certificate_name, @ssc_certificate_path,
	@inter_certificate_name, @inter_certificate_path,
	@degree_certificate_name, @degree_certificate_path,
	@experience_letter_name, @experience_letter_path,
	@status
)
RETURNING id, status, created_at, updated_at`

func insertArgs(rec *models.OnboardingRecord) pgx.NamedArgs {
	return pgx.NamedArgs{
		"emp_id":                         rec.EmpID,
		"full_name":                      rec.FullName,
		"email":                          rec.Email,
		"phone":                          rec.Phone,
		"dob":                            rec.DOB,
		"street_address":                 rec.StreetAddress,
		"city":                           rec.City,
		"state":                          rec.State,
		"zip_code":                       rec.ZipCode,
		"department":                     rec.Department,
		"job_role":                       rec.JobRole,
		"job_start_date":                 rec.JobStartDate,
		"ssc_institution":                rec.SSCInstitution,
		"ssc_year":                       rec.SSCYear,
		"inter_institution":              rec.InterInstitution,
		"inter_year":                     rec.InterYear,
		"degree":                         rec.Degree,
		"institution":                    rec.Institution,
		"graduation_year":                rec.GraduationYear,
		"bank_name":                      rec.BankName,
		"mobile_number":                  rec.MobileNumber,
		"account_number":                 rec.AccountNumber,
		"ifsc_number":                    rec.IFSCNumber,
		"prev_company_name":              rec.PrevCompanyName,
		"prev_job_role":                  rec.PrevJobRole,
		"prev_employment_start":          rec.PrevEmploymentStart,
		"prev_employment_end":            rec.PrevEmploymentEnd,
		"emergency_contact_name":         rec.EmergencyContactName,
		"emergency_contact_relationship": rec.EmergencyContactRelationship,
		"emergency_contact_phone":        rec.EmergencyContactPhone,
		"emergency_contact_address":      rec.EmergencyContactAddress,
		"profile_pic_name":               rec.ProfilePicName,
		"profile_pic_path":               rec.ProfilePicPath,
		"id_proof_name":                  rec.IDProofName,
		"id_proof_path":                  rec.IDProofPath,
		"ssc_certificate_name":           rec.SSCCertificateName,
		"ssc_certificate_path":           rec.SSCCertificatePath,
		"inter_certificate_name":         rec.InterCertificateName,
		"inter_certificate_path":         rec.InterCertificatePath,
		"degree_certificate_name":        rec.DegreeCertificateName,
		"degree_certificate_path":        rec.DegreeCertificatePath,
		"experience_letter_name":         rec.ExperienceLetterName,
		"experience_letter_path":         rec.ExperienceLetterPath,
		"status":                         string(rec.Status),
	}
}

// Create inserts rec in one transaction, allocating an employee code when
// rec.EmpID is empty. beforeCommit runs after the insert succeeds and its error
// aborts the transaction. On success rec carries the generated fields.
func (r *Repository) Create(ctx context.Context, rec *models.OnboardingRecord, beforeCommit func() error) error {
	if rec.Status == "" {
		rec.Status = models.StatusPending
	}
	if !rec.Status.Valid() {
		return ErrInvalidStatus
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if rec.EmpID == "" {
		code, err := r.codes.Next(ctx, tx)
		if err != nil {
			return err
		}
		rec.EmpID = code
	}

	err = tx.QueryRow(ctx, insertRecord, insertArgs(rec)).
		Scan(&rec.ID, &rec.Status, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert onboarding record: %w", mapError(err))
	}

	if beforeCommit != nil {
		if err := beforeCommit(); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", mapError(err))
	}
	return nil
}

// List returns one page of records matching f and the total match count.
func (r *Repository) List(ctx context.Context, f Filter) ([]models.OnboardingRecord, int, error) {
	f = f.Normalize()
	where, args := f.where()

	var (
		out   []models.OnboardingRecord
		total int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n := len(args)
		q := `SELECT ` + selectColumns + ` FROM onboarding_records` + where +
			fmt.Sprintf(` ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`, n+1, n+2)
		recs, err := r.query(gctx, q, append(args[:n:n], f.Limit, f.Offset())...)
		out = recs
		return err
	})
	g.Go(func() error {
		q := `SELECT count(*) FROM onboarding_records` + where
		if err := r.pool.QueryRow(gctx, q, args...).Scan(&total); err != nil {
			return fmt.Errorf("count onboarding records: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// ListAll returns every record matching the status and search of f, newest first.
func (r *Repository) ListAll(ctx context.Context, f Filter) ([]models.OnboardingRecord, error) {
	where, args := f.where()
	q := `SELECT ` + selectColumns + ` FROM onboarding_records` + where + ` ORDER BY created_at DESC, id DESC`
	return r.query(ctx, q, args...)
}

func (r *Repository) query(ctx context.Context, q string, args ...any) ([]models.OnboardingRecord, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query onboarding records: %w", err)
	}
	defer rows.Close()

	out := []models.OnboardingRecord{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan onboarding record: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *Repository) Get(ctx context.Context, id int64) (models.OnboardingRecord, error) {
	q := `SELECT ` + selectColumns + ` FROM onboarding_records WHERE id = $1`
	rec, err := scanRecord(r.pool.QueryRow(ctx, q, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return rec, ErrNotFound
	}
	if err != nil {
		return rec, fmt.Errorf("get onboarding record %d: %w", id, err)
	}
	return rec, nil
}

func (r *Repository) UpdateStatus(ctx context.Context, id int64, status models.Status) (models.OnboardingRecord, error) {
	if !status.Valid() {
		return models.OnboardingRecord{}, ErrInvalidStatus
	}
	q := `
UPDATE onboarding_records
SET status = $2, updated_at = now()
WHERE id = $1
RETURNING ` + selectColumns
	rec, err := scanRecord(r.pool.QueryRow(ctx, q, id, string(status)))
	if errors.Is(err, pgx.ErrNoRows) {
		return rec, ErrNotFound
	}
	if err != nil {
		return rec, fmt.Errorf("update status %d: %w", id, err)
	}
	return rec, nil
}

// FileReference returns the stored file for one document slot of a record.
func (r *Repository) FileReference(ctx context.Context, id int64, slot models.Slot) (models.StoredFile, error) {
	col := slot.Column()
	if col == "" {
		return models.StoredFile{}, ErrUnknownSlot
	}

	q := fmt.Sprintf(`SELECT %[1]s_name, %[1]s_path FROM onboarding_records WHERE id = $1`, col)
	var name, path *string
	err := r.pool.QueryRow(ctx, q, id).Scan(&name, &path)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.StoredFile{}, ErrNotFound
	}
	if err != nil {
		return models.StoredFile{}, fmt.Errorf("file reference %d/%s: %w", id, slot, err)
	}
	if path == nil || *path == "" {
		return models.StoredFile{}, ErrNotFound
	}

	f := models.StoredFile{Path: *path}
	if name != nil {
		f.Name = *name
	}
	return f, nil
}

var duplicateFields = map[string]string{
	"onboarding_records_email_key":  "email",
	"onboarding_records_emp_id_key": "employee id",
}

func mapError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		field, ok := duplicateFields[pgErr.ConstraintName]
		if !ok {
			field = "record"
		}
		return &DuplicateError{Field: field, Constraint: pgErr.ConstraintName}
	}
	return err
}
