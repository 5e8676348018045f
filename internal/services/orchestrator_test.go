package services

import (
	"context"
	"errors"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vigilo/internal/config"
	"vigilo/internal/helpers"
	"vigilo/internal/models"
	"vigilo/internal/repositories"
)

type mockBackend struct {
	latestID  string
	latestErr error
	result    *models.ComplianceCheckResult
	checkErr  error

	// When set, CheckCompliance blocks until the channel is closed.
	block chan struct{}

	checkCalls int32
}

func (m *mockBackend) LatestCompanyID(ctx context.Context) (string, error) {
	if m.latestErr != nil {
		return "", m.latestErr
	}
	return m.latestID, nil
}

func (m *mockBackend) CheckCompliance(ctx context.Context, companyID string) (*models.ComplianceCheckResult, error) {
	atomic.AddInt32(&m.checkCalls, 1)
	if m.block != nil {
		<-m.block
	}
	if m.checkErr != nil {
		return nil, m.checkErr
	}
	return m.result, nil
}

func goodResult() *models.ComplianceCheckResult {
	return &models.ComplianceCheckResult{
		AnalysisSteps:   map[string][]string{"Stage 1": {"scanned 12 documents"}},
		AmendmentsCount: 12,
		FinalReport: models.FinalReport{
			ComplianceReport: &models.RawReport{
				ByAmendment: []models.RawFinding{
					{Title: "Labelling amendment", Status: "non_compliant", Urgency: "High"},
				},
				PrioritizedActions: []models.RawAction{
					{Department: "QA", Task: "Update labels", Urgency: "High"},
					{Department: "Legal", Task: "Review declaration", Urgency: "Critical"},
				},
				OverallStatus: "partially_compliant",
				Summary:       "Two gaps found",
			},
		},
	}
}

func newTestOrchestrator(t *testing.T, backend Backend) (*Orchestrator, *NotificationQueue, *repositories.CompanyStore) {
	t.Helper()

	store := repositories.NewCompanyStore(t.TempDir())
	queue := NewNotificationQueue(time.Hour)
	cfg := &config.AnalysisConfig{
		ProgressIntervalSeconds: 1,
		Stages:                  []string{"stage one", "stage two"},
	}
	runLog := helpers.NewRunLog(filepath.Join(t.TempDir(), "runs.log"))
	t.Cleanup(func() { runLog.Close() })

	return NewOrchestrator(backend, store, queue, cfg, runLog), queue, store
}

func notificationKinds(queue *NotificationQueue) []models.NotificationKind {
	var kinds []models.NotificationKind
	for _, n := range queue.List() {
		kinds = append(kinds, n.Kind)
	}
	return kinds
}

func TestRunAnalysisSuccess(t *testing.T) {
	backend := &mockBackend{result: goodResult()}
	orchestrator, queue, _ := newTestOrchestrator(t, backend)

	analysis, err := orchestrator.RunAnalysis(context.Background(), "company-1")

	require.NoError(t, err)
	require.NotNil(t, analysis)
	assert.Equal(t, 12, analysis.InitialAmendmentCount)
	assert.Equal(t, 1, analysis.RelevantAmendmentCount)
	assert.Equal(t, 2, analysis.CompliancePlan.Summary.TotalActions)
	assert.False(t, analysis.CompletedAt.IsZero())

	// Backend step logs survive into the merged snapshot.
	assert.Contains(t, analysis.AnalysisSteps["Stage 1"], "scanned 12 documents")

	assert.Same(t, analysis, orchestrator.Current())
	assert.False(t, orchestrator.IsRunning())
	assert.NoError(t, orchestrator.Err())

	notifications := queue.List()
	require.Len(t, notifications, 1)
	assert.Equal(t, models.NotificationUpdate, notifications[0].Kind)
	assert.Contains(t, notifications[0].Message, "2 actions required")
}

func TestRunAnalysisResolvesAndCachesCompanyID(t *testing.T) {
	backend := &mockBackend{latestID: "company-7", result: goodResult()}
	orchestrator, _, store := newTestOrchestrator(t, backend)

	_, err := orchestrator.RunAnalysis(context.Background(), "")

	require.NoError(t, err)
	assert.Equal(t, "company-7", store.Load())
}

func TestRunAnalysisUsesCachedCompanyID(t *testing.T) {
	backend := &mockBackend{latestErr: errors.New("should not be called"), result: goodResult()}
	orchestrator, _, store := newTestOrchestrator(t, backend)
	require.NoError(t, store.Save("cached-co"))

	_, err := orchestrator.RunAnalysis(context.Background(), "")

	require.NoError(t, err)
}

func TestRunAnalysisNoCompanyID(t *testing.T) {
	backend := &mockBackend{latestErr: repositories.ErrNoCompany}
	orchestrator, queue, _ := newTestOrchestrator(t, backend)

	_, err := orchestrator.RunAnalysis(context.Background(), "")

	require.ErrorIs(t, err, ErrNoCompanyID)
	assert.False(t, orchestrator.IsRunning())
	assert.NotContains(t, notificationKinds(queue), models.NotificationUpdate)
	assert.Contains(t, notificationKinds(queue), models.NotificationAlert)
	assert.Zero(t, atomic.LoadInt32(&backend.checkCalls))
}

func TestRunAnalysisBackendFailureCleansUp(t *testing.T) {
	backend := &mockBackend{checkErr: errors.New("connection refused")}
	orchestrator, queue, _ := newTestOrchestrator(t, backend)

	var stageEvents int32
	orchestrator.OnStage = func(index, total int, stage string) {
		atomic.AddInt32(&stageEvents, 1)
	}

	_, err := orchestrator.RunAnalysis(context.Background(), "company-1")

	require.Error(t, err)
	assert.False(t, orchestrator.IsRunning())
	assert.Error(t, orchestrator.Err())
	assert.Nil(t, orchestrator.Current(), "no snapshot is stored on failure")
	assert.Contains(t, notificationKinds(queue), models.NotificationAlert)
	assert.NotContains(t, notificationKinds(queue), models.NotificationUpdate)

	// The ticker is torn down with the run: no stage events after failure.
	settled := atomic.LoadInt32(&stageEvents)
	time.Sleep(1200 * time.Millisecond)
	assert.Equal(t, settled, atomic.LoadInt32(&stageEvents))
}

func TestRunAnalysisFailureKeepsPreviousSnapshot(t *testing.T) {
	backend := &mockBackend{result: goodResult()}
	orchestrator, _, _ := newTestOrchestrator(t, backend)

	first, err := orchestrator.RunAnalysis(context.Background(), "company-1")
	require.NoError(t, err)

	backend.checkErr = errors.New("backend exploded")
	_, err = orchestrator.RunAnalysis(context.Background(), "company-1")
	require.Error(t, err)

	assert.Same(t, first, orchestrator.Current())
}

func TestRunAnalysisMalformedReport(t *testing.T) {
	backend := &mockBackend{result: &models.ComplianceCheckResult{}}
	orchestrator, queue, _ := newTestOrchestrator(t, backend)

	_, err := orchestrator.RunAnalysis(context.Background(), "company-1")

	require.ErrorIs(t, err, ErrMalformedReport)
	assert.Contains(t, notificationKinds(queue), models.NotificationAlert)
	assert.Nil(t, orchestrator.Current())
}

func TestRunAnalysisRejectsConcurrentRun(t *testing.T) {
	backend := &mockBackend{result: goodResult(), block: make(chan struct{})}
	orchestrator, _, _ := newTestOrchestrator(t, backend)

	done := make(chan error, 1)
	go func() {
		_, err := orchestrator.RunAnalysis(context.Background(), "company-1")
		done <- err
	}()

	require.Eventually(t, func() bool {
		return orchestrator.IsRunning()
	}, time.Second, 5*time.Millisecond)

	_, err := orchestrator.RunAnalysis(context.Background(), "company-1")
	assert.ErrorIs(t, err, ErrAnalysisRunning)

	close(backend.block)
	require.NoError(t, <-done)
	assert.False(t, orchestrator.IsRunning())
	assert.Equal(t, int32(1), atomic.LoadInt32(&backend.checkCalls))
}
