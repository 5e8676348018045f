package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"vigilo/internal/config"
	"vigilo/internal/helpers"
	"vigilo/internal/models"
	"vigilo/internal/repositories"
)

var (
	// ErrNoCompanyID means no company id is cached and none could be
	// resolved from the backend.
	ErrNoCompanyID = errors.New("no company identifier available; register a company first")

	// ErrAnalysisRunning rejects a run while another is still in flight.
	ErrAnalysisRunning = errors.New("an analysis is already running")
)

// Backend is the slice of the compliance service the orchestrator needs.
type Backend interface {
	LatestCompanyID(ctx context.Context) (string, error)
	CheckCompliance(ctx context.Context, companyID string) (*models.ComplianceCheckResult, error)
}

// Orchestrator runs at most one compliance analysis at a time and owns the
// current Analysis snapshot. A run resolves the company id, drives the
// progress ticker, calls the backend once, and synthesizes the result.
type Orchestrator struct {
	backend     Backend
	store       *repositories.CompanyStore
	synthesizer *Synthesizer
	queue       *NotificationQueue
	cfg         *config.AnalysisConfig
	runLog      *helpers.RunLog

	// OnStage, when set, receives each cosmetic progress stage as it fires.
	OnStage func(index, total int, stage string)

	mu       sync.Mutex
	running  bool
	progress string
	lastErr  error
	current  *models.Analysis
}

// NewOrchestrator wires an orchestrator from its collaborators
func NewOrchestrator(backend Backend, store *repositories.CompanyStore, queue *NotificationQueue, cfg *config.AnalysisConfig, runLog *helpers.RunLog) *Orchestrator {
	return &Orchestrator{
		backend:     backend,
		store:       store,
		synthesizer: NewSynthesizer(),
		queue:       queue,
		cfg:         cfg,
		runLog:      runLog,
	}
}

// RunAnalysis executes one full analysis workflow. companyID overrides the
// cached id when non-empty. A failed run leaves the previous Analysis
// snapshot untouched; there are no automatic retries.
func (o *Orchestrator) RunAnalysis(ctx context.Context, companyID string) (*models.Analysis, error) {
	o.mu.Lock()
	if o.running {
		o.mu.Unlock()
		return nil, ErrAnalysisRunning
	}
	o.running = true
	o.lastErr = nil
	o.progress = ""
	o.mu.Unlock()

	stageLogs := newStageLogs()
	ticker := NewProgressTicker(o.cfg.Stages, time.Duration(o.cfg.ProgressIntervalSeconds)*time.Second, func(index int, stage string) {
		o.setProgress(stage)
		stageLogs.record(fmt.Sprintf("Stage %d", index+1), stage)
		o.runLog.Write(fmt.Sprintf("stage %d/%d", index+1, len(o.cfg.Stages)), stage)
		if o.OnStage != nil {
			o.OnStage(index, len(o.cfg.Stages), stage)
		}
	})

	// The ticker must die with the run on every exit path.
	defer func() {
		ticker.Stop()
		o.mu.Lock()
		o.running = false
		o.mu.Unlock()
	}()

	resolved, err := o.resolveCompanyID(ctx, companyID)
	if err != nil {
		return nil, o.fail(err)
	}

	o.runLog.Write("run", fmt.Sprintf("starting analysis for company %s", resolved))
	ticker.Start()

	result, err := o.backend.CheckCompliance(ctx, resolved)
	if err != nil {
		return nil, o.fail(err)
	}

	if result == nil || result.FinalReport.ComplianceReport == nil {
		return nil, o.fail(ErrMalformedReport)
	}

	plan, findings, err := o.synthesizer.Synthesize(result.FinalReport.ComplianceReport)
	if err != nil {
		return nil, o.fail(err)
	}

	analysis := &models.Analysis{
		AnalysisSteps:          stageLogs.merge(result.AnalysisSteps),
		InitialAmendmentCount:  result.AmendmentsCount,
		RelevantAmendmentCount: len(findings),
		CompliancePlan:         plan,
		Findings:               findings,
		CompletedAt:            time.Now(),
	}

	o.mu.Lock()
	o.current = analysis
	o.mu.Unlock()

	o.runLog.Write("run", fmt.Sprintf("analysis complete: %d actions required", plan.Summary.TotalActions))
	o.queue.Enqueue(fmt.Sprintf("Compliance analysis completed! %d actions required", plan.Summary.TotalActions), models.NotificationUpdate)

	return analysis, nil
}

// resolveCompanyID picks the override, then the cached id, then asks the
// backend. A remotely resolved id is cached for later runs.
func (o *Orchestrator) resolveCompanyID(ctx context.Context, override string) (string, error) {
	if override != "" {
		return override, nil
	}

	if cached := o.store.Load(); cached != "" {
		return cached, nil
	}

	latest, err := o.backend.LatestCompanyID(ctx)
	if err != nil {
		if errors.Is(err, repositories.ErrNoCompany) {
			return "", ErrNoCompanyID
		}
		return "", fmt.Errorf("failed to resolve company id: %w", err)
	}

	if err := o.store.Save(latest); err != nil {
		o.runLog.Write("run", fmt.Sprintf("could not cache company id: %v", err))
	}

	return latest, nil
}

func (o *Orchestrator) fail(err error) error {
	o.mu.Lock()
	o.lastErr = err
	o.mu.Unlock()

	o.runLog.Write("run", fmt.Sprintf("analysis failed: %v", err))
	o.queue.Enqueue(fmt.Sprintf("Analysis failed: %v", err), models.NotificationAlert)

	return err
}

func (o *Orchestrator) setProgress(stage string) {
	o.mu.Lock()
	o.progress = stage
	o.mu.Unlock()
}

// IsRunning reports whether an analysis is currently in flight
func (o *Orchestrator) IsRunning() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.running
}

// Progress returns the most recent cosmetic stage description
func (o *Orchestrator) Progress() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.progress
}

// Err returns the error of the last run, nil after a successful one
func (o *Orchestrator) Err() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.lastErr
}

// Current returns the latest completed Analysis snapshot, or nil when no
// run has succeeded yet. Snapshots are replaced wholesale, never mutated.
func (o *Orchestrator) Current() *models.Analysis {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.current
}

// stageLogs collects timestamped log lines per stage while the ticker and
// the run itself write concurrently.
type stageLogs struct {
	mu    sync.Mutex
	order []string
	lines map[string][]string
}

func newStageLogs() *stageLogs {
	return &stageLogs{lines: make(map[string][]string)}
}

func (s *stageLogs) record(stage, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.lines[stage]; !ok {
		s.order = append(s.order, stage)
	}
	line := fmt.Sprintf("[%s] %s", time.Now().Format("2006-01-02 15:04:05"), message)
	s.lines[stage] = append(s.lines[stage], line)
}

// merge folds the backend's own analysis step logs into the local ones,
// appending remote lines after local ones for shared stage names.
func (s *stageLogs) merge(remote map[string][]string) map[string][]string {
	s.mu.Lock()
	defer s.mu.Unlock()

	merged := make(map[string][]string, len(s.lines)+len(remote))
	for stage, lines := range s.lines {
		merged[stage] = append([]string(nil), lines...)
	}
	for stage, lines := range remote {
		merged[stage] = append(merged[stage], lines...)
	}
	return merged
}
