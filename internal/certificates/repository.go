package certificates

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shubhamshk/fraudBusters-App/internal/platform/httpx"
	"github.com/shubhamshk/fraudBusters-App/internal/users"
)

// Repository defines persistence operations for the certificate domain.
type Repository interface {
	CreateCertificate(ctx context.Context, cert *Certificate) error
	RevokeCertificate(ctx context.Context, id string) error
	CreateBlacklistEntry(ctx context.Context, entry *BlacklistEntry) error
	CreateVerification(ctx context.Context, rec *VerificationRecord) error
	ListVerificationsByUser(ctx context.Context, userID uuid.UUID, limit int) ([]VerificationRecord, error)
	DeleteVerificationsBefore(ctx context.Context, cutoff time.Time) (int64, error)

	CountVerifications(ctx context.Context) (int64, error)
	CountVerificationsByStatus(ctx context.Context, status string) (int64, error)
	CountCertificatesByStatus(ctx context.Context, status Status) (int64, error)
	CountInstitutions(ctx context.Context) (int64, error)
	CountBlacklistEntries(ctx context.Context) (int64, error)
	TopInstitutions(ctx context.Context, limit int) ([]InstitutionCount, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// CreateCertificate persists a newly issued certificate.
func (r *PGRepository) CreateCertificate(ctx context.Context, cert *Certificate) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO certificates (id, student_name, certificate_type, student_id, issue_date, institution_id, status, created_at)
		 VALUES ($1, $2, $3, $4, $5::date, $6, $7, $8)`,
		cert.ID, cert.StudentName, cert.CertificateType, cert.StudentID, cert.IssueDate,
		cert.InstitutionID, cert.Status, cert.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("certificates: insert: %w", err)
	}
	return nil
}

// RevokeCertificate marks a certificate revoked. An unknown id yields
// httpx.ErrNotFound.
func (r *PGRepository) RevokeCertificate(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE certificates SET status = $1 WHERE id = $2`, StatusRevoked, id)
	if err != nil {
		return fmt.Errorf("certificates: revoke: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

// CreateBlacklistEntry persists a blacklist entry.
func (r *PGRepository) CreateBlacklistEntry(ctx context.Context, entry *BlacklistEntry) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO blacklist_entries (name, entity_type, reason, added_by, created_at)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		entry.Name, entry.EntityType, entry.Reason, entry.AddedBy, entry.CreatedAt,
	).Scan(&entry.ID)
	if err != nil {
		return fmt.Errorf("certificates: insert blacklist entry: %w", err)
	}
	return nil
}

// CreateVerification appends a verification-history row.
func (r *PGRepository) CreateVerification(ctx context.Context, rec *VerificationRecord) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO verification_records (user_id, file_name, status, confidence, verified_at)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		rec.UserID, rec.FileName, rec.Status, rec.Confidence, rec.VerifiedAt,
	).Scan(&rec.ID)
	if err != nil {
		return fmt.Errorf("certificates: insert verification: %w", err)
	}
	return nil
}

// ListVerificationsByUser returns a user's verification history, most
// recent first.
func (r *PGRepository) ListVerificationsByUser(ctx context.Context, userID uuid.UUID, limit int) ([]VerificationRecord, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, file_name, status, confidence, verified_at
		 FROM verification_records
		 WHERE user_id = $1
		 ORDER BY verified_at DESC
		 LIMIT $2`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("certificates: list verifications: %w", err)
	}
	defer rows.Close()

	var records []VerificationRecord
	for rows.Next() {
		var rec VerificationRecord
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.FileName, &rec.Status, &rec.Confidence, &rec.VerifiedAt); err != nil {
			return nil, fmt.Errorf("certificates: scan verification: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("certificates: iterate verifications: %w", err)
	}
	return records, nil
}

// DeleteVerificationsBefore removes history rows older than the cutoff and
// reports how many were dropped.
func (r *PGRepository) DeleteVerificationsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM verification_records WHERE verified_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("certificates: prune verifications: %w", err)
	}
	return tag.RowsAffected(), nil
}

// CountVerifications returns the total number of verification records.
func (r *PGRepository) CountVerifications(ctx context.Context) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM verification_records`)
}

// CountVerificationsByStatus counts verification records with a given outcome.
func (r *PGRepository) CountVerificationsByStatus(ctx context.Context, status string) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM verification_records WHERE status = $1`, status)
}

// CountCertificatesByStatus counts issued certificates in a lifecycle state.
func (r *PGRepository) CountCertificatesByStatus(ctx context.Context, status Status) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM certificates WHERE status = $1`, status)
}

// CountInstitutions counts onboarded institution accounts.
func (r *PGRepository) CountInstitutions(ctx context.Context) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM users WHERE role = $1`, users.RoleInstitution)
}

// CountBlacklistEntries counts blacklist entries.
func (r *PGRepository) CountBlacklistEntries(ctx context.Context) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM blacklist_entries`)
}

// TopInstitutions lists institutions by issued-certificate volume.
func (r *PGRepository) TopInstitutions(ctx context.Context, limit int) ([]InstitutionCount, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT u.name, COUNT(c.id) AS issued
		 FROM certificates c
		 JOIN users u ON u.id = c.institution_id
		 GROUP BY u.name
		 ORDER BY issued DESC
		 LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("certificates: top institutions: %w", err)
	}
	defer rows.Close()

	var counts []InstitutionCount
	for rows.Next() {
		var ic InstitutionCount
		if err := rows.Scan(&ic.Name, &ic.Certificates); err != nil {
			return nil, fmt.Errorf("certificates: scan institution count: %w", err)
		}
		counts = append(counts, ic)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("certificates: iterate institution counts: %w", err)
	}
	return counts, nil
}

func (r *PGRepository) count(ctx context.Context, query string, args ...any) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("certificates: count: %w", err)
	}
	return n, nil
}

var _ Repository = (*PGRepository)(nil)
