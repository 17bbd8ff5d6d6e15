package jobs_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shubhamshk/fraudBusters-App/internal/certificates"
	"github.com/shubhamshk/fraudBusters-App/jobs"
	_ "github.com/shubhamshk/fraudBusters-App/testing"
)

type countingRepo struct {
	verifications []certificates.VerificationRecord
	pruned        int64
}

func (r *countingRepo) CreateCertificate(ctx context.Context, cert *certificates.Certificate) error {
	return nil
}

func (r *countingRepo) RevokeCertificate(ctx context.Context, id string) error { return nil }

func (r *countingRepo) CreateBlacklistEntry(ctx context.Context, entry *certificates.BlacklistEntry) error {
	return nil
}

func (r *countingRepo) CreateVerification(ctx context.Context, rec *certificates.VerificationRecord) error {
	r.verifications = append(r.verifications, *rec)
	return nil
}

func (r *countingRepo) ListVerificationsByUser(ctx context.Context, userID uuid.UUID, limit int) ([]certificates.VerificationRecord, error) {
	return nil, nil
}

func (r *countingRepo) DeleteVerificationsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	var kept []certificates.VerificationRecord
	for _, rec := range r.verifications {
		if rec.VerifiedAt.Before(cutoff) {
			r.pruned++
			continue
		}
		kept = append(kept, rec)
	}
	r.verifications = kept
	return r.pruned, nil
}

func (r *countingRepo) CountVerifications(ctx context.Context) (int64, error) {
	return int64(len(r.verifications)), nil
}

func (r *countingRepo) CountVerificationsByStatus(ctx context.Context, status string) (int64, error) {
	var n int64
	for _, rec := range r.verifications {
		if rec.Status == status {
			n++
		}
	}
	return n, nil
}

func (r *countingRepo) CountCertificatesByStatus(ctx context.Context, status certificates.Status) (int64, error) {
	return 0, nil
}

func (r *countingRepo) CountInstitutions(ctx context.Context) (int64, error) { return 7, nil }

func (r *countingRepo) CountBlacklistEntries(ctx context.Context) (int64, error) { return 0, nil }

func (r *countingRepo) TopInstitutions(ctx context.Context, limit int) ([]certificates.InstitutionCount, error) {
	return nil, nil
}

var _ certificates.Repository = (*countingRepo)(nil)

func newJobService(t *testing.T) (*certificates.Service, *countingRepo, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	repo := &countingRepo{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return certificates.NewService(repo, certificates.StaticVerifier{}, client, logger), repo, client
}

func TestAnalyticsWarmupHandlerCachesSnapshot(t *testing.T) {
	svc, _, client := newJobService(t)
	handler := jobs.NewAnalyticsWarmupHandler(svc, slog.New(slog.NewTextHandler(io.Discard, nil)))

	err := handler(t.Context(), jobs.NewAnalyticsWarmupTask())
	require.NoError(t, err)

	payload, err := client.Get(t.Context(), certificates.AnalyticsCacheKey).Bytes()
	require.NoError(t, err)
	var snapshot certificates.Analytics
	require.NoError(t, json.Unmarshal(payload, &snapshot))
	assert.Equal(t, int64(7), snapshot.InstitutionsOnboarded)
}

func TestHistoryPruneHandler(t *testing.T) {
	svc, repo, _ := newJobService(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := jobs.NewHistoryPruneHandler(svc, logger)

	repo.verifications = []certificates.VerificationRecord{
		{FileName: "old.pdf", VerifiedAt: time.Now().Add(-100 * 24 * time.Hour)},
		{FileName: "fresh.pdf", VerifiedAt: time.Now()},
	}

	task, err := jobs.NewHistoryPruneTask(jobs.HistoryPrunePayload{RetentionHours: 90 * 24})
	require.NoError(t, err)
	require.NoError(t, handler(t.Context(), task))

	require.Len(t, repo.verifications, 1)
	assert.Equal(t, "fresh.pdf", repo.verifications[0].FileName)
}

func TestHistoryPruneHandlerSkipsBadPayload(t *testing.T) {
	svc, _, _ := newJobService(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := jobs.NewHistoryPruneHandler(svc, logger)

	err := handler(t.Context(), asynq.NewTask(jobs.TaskHistoryPrune, []byte("not json")))
	assert.ErrorIs(t, err, asynq.SkipRetry)

	task, err := jobs.NewHistoryPruneTask(jobs.HistoryPrunePayload{RetentionHours: 0})
	require.NoError(t, err)
	err = handler(t.Context(), task)
	assert.ErrorIs(t, err, asynq.SkipRetry)
}
