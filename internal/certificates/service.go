package certificates

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/shubhamshk/fraudBusters-App/internal/users"
)

// AnalyticsCacheKey is where the warmed analytics snapshot lives in Redis.
const AnalyticsCacheKey = "analytics:snapshot"

// analyticsCacheTTL bounds staleness between warmup runs.
const analyticsCacheTTL = time.Hour

const (
	historyLimit        = 100
	topInstitutionLimit = 5
)

// IssueInput carries a validated issuance request.
type IssueInput struct {
	StudentName     string
	CertificateType string
	StudentID       string
	IssueDate       string
}

// BlacklistInput carries a validated blacklist request.
type BlacklistInput struct {
	Name       string
	EntityType string
	Reason     string
}

// BulkResult is one row of a bulk verification response.
type BulkResult struct {
	FileName   string  `json:"fileName"`
	Status     string  `json:"status"`
	Confidence float64 `json:"confidence"`
}

// Service implements the certificate-domain operations. The verification
// decision is delegated to the Verifier; everything else is owned here.
type Service struct {
	repo     Repository
	verifier Verifier
	cache    *redis.Client
	logger   *slog.Logger
}

// NewService constructs a Service. cache may be nil, in which case analytics
// are always computed live.
func NewService(repo Repository, verifier Verifier, cache *redis.Client, logger *slog.Logger) *Service {
	return &Service{repo: repo, verifier: verifier, cache: cache, logger: logger}
}

// Issue registers a certificate on behalf of an institution. IssueDate
// defaults to today when omitted.
func (s *Service) Issue(ctx context.Context, institution *users.User, in IssueInput) (*Certificate, error) {
	issueDate := in.IssueDate
	if issueDate == "" {
		issueDate = time.Now().UTC().Format("2006-01-02")
	}

	cert := &Certificate{
		ID:              "CERT-" + uuid.NewString(),
		StudentName:     in.StudentName,
		CertificateType: in.CertificateType,
		StudentID:       in.StudentID,
		IssueDate:       issueDate,
		InstitutionID:   institution.ID,
		Status:          StatusActive,
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.repo.CreateCertificate(ctx, cert); err != nil {
		return nil, err
	}
	return cert, nil
}

// Revoke marks a certificate revoked.
func (s *Service) Revoke(ctx context.Context, id string) error {
	return s.repo.RevokeCertificate(ctx, id)
}

// Blacklist records a barred entity on behalf of a government admin.
func (s *Service) Blacklist(ctx context.Context, admin *users.User, in BlacklistInput) (*BlacklistEntry, error) {
	entry := &BlacklistEntry{
		Name:       in.Name,
		EntityType: in.EntityType,
		Reason:     in.Reason,
		AddedBy:    admin.ID,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.repo.CreateBlacklistEntry(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// Verify runs one document through the pipeline and records the outcome in
// the caller's history. A history write failure is logged, not surfaced;
// the verification result is still valid.
func (s *Service) Verify(ctx context.Context, caller *users.User, ref FileRef) (Result, error) {
	result, err := s.verifier.Verify(ctx, ref)
	if err != nil {
		return Result{}, fmt.Errorf("certificates: verify: %w", err)
	}
	s.record(ctx, caller, ref, result)
	return result, nil
}

// BulkVerify runs a batch of documents through the pipeline.
func (s *Service) BulkVerify(ctx context.Context, caller *users.User, refs []FileRef) ([]BulkResult, error) {
	results := make([]BulkResult, 0, len(refs))
	for _, ref := range refs {
		result, err := s.verifier.Verify(ctx, ref)
		if err != nil {
			return nil, fmt.Errorf("certificates: bulk verify %q: %w", ref.FileName, err)
		}
		s.record(ctx, caller, ref, result)
		results = append(results, BulkResult{
			FileName:   ref.FileName,
			Status:     result.Status,
			Confidence: result.Confidence,
		})
	}
	return results, nil
}

// History returns the caller's verification history.
func (s *Service) History(ctx context.Context, caller *users.User) ([]VerificationRecord, error) {
	return s.repo.ListVerificationsByUser(ctx, caller.ID, historyLimit)
}

// Analytics serves the system-wide snapshot, preferring the warmed cache.
func (s *Service) Analytics(ctx context.Context) (*Analytics, error) {
	if s.cache != nil {
		payload, err := s.cache.Get(ctx, AnalyticsCacheKey).Bytes()
		if err == nil {
			var snapshot Analytics
			if err := json.Unmarshal(payload, &snapshot); err == nil {
				return &snapshot, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.logWarn("analytics cache read", err)
		}
	}
	return s.ComputeAnalytics(ctx)
}

// ComputeAnalytics aggregates the snapshot live. The independent counts fan
// out concurrently.
func (s *Service) ComputeAnalytics(ctx context.Context) (*Analytics, error) {
	snapshot := &Analytics{GeneratedAt: time.Now().UTC()}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		snapshot.TotalVerifications, err = s.repo.CountVerifications(ctx)
		return err
	})
	g.Go(func() (err error) {
		snapshot.GenuineCertificates, err = s.repo.CountVerificationsByStatus(ctx, ResultGenuine)
		return err
	})
	g.Go(func() (err error) {
		snapshot.SuspiciousCertificates, err = s.repo.CountVerificationsByStatus(ctx, ResultSuspicious)
		return err
	})
	g.Go(func() (err error) {
		snapshot.FakeCertificates, err = s.repo.CountVerificationsByStatus(ctx, ResultFake)
		return err
	})
	g.Go(func() (err error) {
		snapshot.ActiveCertificates, err = s.repo.CountCertificatesByStatus(ctx, StatusActive)
		return err
	})
	g.Go(func() (err error) {
		snapshot.RevokedCertificates, err = s.repo.CountCertificatesByStatus(ctx, StatusRevoked)
		return err
	})
	g.Go(func() (err error) {
		snapshot.InstitutionsOnboarded, err = s.repo.CountInstitutions(ctx)
		return err
	})
	g.Go(func() (err error) {
		snapshot.BlacklistedEntities, err = s.repo.CountBlacklistEntries(ctx)
		return err
	})
	g.Go(func() (err error) {
		snapshot.TopInstitutions, err = s.repo.TopInstitutions(ctx, topInstitutionLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snapshot, nil
}

// WarmAnalytics recomputes the snapshot and stores it in the cache. Used by
// the background worker.
func (s *Service) WarmAnalytics(ctx context.Context) error {
	snapshot, err := s.ComputeAnalytics(ctx)
	if err != nil {
		return err
	}
	if s.cache == nil {
		return nil
	}
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("certificates: marshal analytics: %w", err)
	}
	return s.cache.Set(ctx, AnalyticsCacheKey, payload, analyticsCacheTTL).Err()
}

// PruneHistory drops verification records older than the retention window.
func (s *Service) PruneHistory(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-retention)
	return s.repo.DeleteVerificationsBefore(ctx, cutoff)
}

func (s *Service) record(ctx context.Context, caller *users.User, ref FileRef, result Result) {
	rec := &VerificationRecord{
		UserID:     caller.ID,
		FileName:   ref.FileName,
		Status:     result.Status,
		Confidence: result.Confidence,
		VerifiedAt: time.Now().UTC(),
	}
	if err := s.repo.CreateVerification(ctx, rec); err != nil {
		s.logWarn("record verification", err)
	}
}

func (s *Service) logWarn(msg string, err error) {
	if s.logger != nil {
		s.logger.Warn(msg, slog.Any("error", err))
	}
}
