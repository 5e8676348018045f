package services

import (
	"errors"
	"strings"

	"vigilo/internal/models"
)

// ErrMalformedReport is returned when the backend response carries no usable
// compliance report. The orchestrator treats it like a network failure.
var ErrMalformedReport = errors.New("compliance report is missing or malformed")

// TitleClassifier flags amendment titles that warrant an immediate critical
// labeling action even when the backend produced no structured timeline.
type TitleClassifier func(title string) bool

// defaultClassifier matches the labeling regulations that always require an
// immediate remediation action (case-insensitive substring match).
func defaultClassifier(title string) bool {
	lower := strings.ToLower(title)
	return strings.Contains(lower, "chicory") || strings.Contains(lower, "coffee")
}

// Synthesizer turns raw backend compliance reports into presentation-ready
// plans. It performs no network or timer work and is deterministic for a
// given input.
type Synthesizer struct {
	isHighSalience TitleClassifier
}

// NewSynthesizer creates a synthesizer with the default title classifier
func NewSynthesizer() *Synthesizer {
	return &Synthesizer{isHighSalience: defaultClassifier}
}

// NewSynthesizerWithClassifier creates a synthesizer with a custom title
// classifier, used for testing the fallback partitioning in isolation
func NewSynthesizerWithClassifier(classifier TitleClassifier) *Synthesizer {
	return &Synthesizer{isHighSalience: classifier}
}

// Synthesize converts a raw report into a canonical plan plus the
// per-amendment findings
func (s *Synthesizer) Synthesize(report *models.RawReport) (*models.CompliancePlan, []models.Finding, error) {
	if report == nil {
		return nil, nil, ErrMalformedReport
	}

	findings := s.buildFindings(report)

	var timeline []models.TimelineSlot
	if len(report.Timeline) > 0 {
		timeline = s.mapTimeline(report.Timeline)
	} else {
		timeline = s.fallbackTimeline(report.PrioritizedActions, findings)
	}

	plan := &models.CompliancePlan{
		Timeline: timeline,
		Summary:  summarize(timeline, report.OverallStatus),
		Status:   planStatus(report.OverallStatus),
		Notes:    report.Notes,
	}
	if report.Summary != "" {
		plan.NextSteps = []string{report.Summary}
	}

	return plan, findings, nil
}

func (s *Synthesizer) buildFindings(report *models.RawReport) []models.Finding {
	findings := make([]models.Finding, 0, len(report.ByAmendment))
	for _, raw := range report.ByAmendment {
		findings = append(findings, models.Finding{
			AmendmentTitle: raw.Title,
			Status:         raw.Status,
			CurrentState:   raw.CurrentState,
			Evidence:       raw.Evidence,
			Gaps:           raw.Gaps,
			Actions:        raw.Actions,
			Deadline:       firstNonEmpty(raw.Deadline, raw.LastDate),
			Urgency:        models.ParseUrgency(raw.Urgency),
			DocumentID:     raw.DocumentID,
			PDFURL:         raw.PDFURL,
		})
	}
	return findings
}

// mapTimeline maps a structured backend timeline directly, dropping any slot
// that ends up with no actions.
func (s *Synthesizer) mapTimeline(slots []models.RawSlot) []models.TimelineSlot {
	timeline := make([]models.TimelineSlot, 0, len(slots))
	for _, slot := range slots {
		actions := make([]models.ActionItem, 0, len(slot.Actions))
		for _, raw := range slot.Actions {
			actions = append(actions, mapAction(raw))
		}
		if len(actions) == 0 {
			continue
		}
		timeline = append(timeline, models.TimelineSlot{
			Timeframe: slot.Timeframe,
			Actions:   actions,
		})
	}
	return timeline
}

// fallbackTimeline fabricates a three-slot timeline from the flat
// prioritized-action list: the first 3 actions are Immediate, the next 3
// Short-term, and everything after that Ongoing. A high-salience finding
// title prepends a synthetic Critical labeling action before partitioning so
// it always lands in the Immediate slot.
func (s *Synthesizer) fallbackTimeline(prioritized []models.RawAction, findings []models.Finding) []models.TimelineSlot {
	flat := make([]models.ActionItem, 0, len(prioritized)+1)

	if s.matchesHighSalience(findings) {
		flat = append(flat, models.ActionItem{
			Department: "Packaging & Labelling",
			Task:       "Revise product labels to meet the updated mixture declaration requirements",
			Urgency:    models.UrgencyCritical,
			Deadline:   "Unknown",
		})
	}

	for _, raw := range prioritized {
		flat = append(flat, mapAction(raw))
	}

	buckets := []struct {
		timeframe string
		size      int
	}{
		{"Immediate (1-2 weeks)", 3},
		{"Short-term (3-4 weeks)", 3},
		{"Ongoing", len(flat)},
	}

	timeline := make([]models.TimelineSlot, 0, len(buckets))
	for _, bucket := range buckets {
		take := bucket.size
		if take > len(flat) {
			take = len(flat)
		}
		if take == 0 {
			continue
		}
		timeline = append(timeline, models.TimelineSlot{
			Timeframe: bucket.timeframe,
			Actions:   flat[:take],
		})
		flat = flat[take:]
	}

	return timeline
}

func (s *Synthesizer) matchesHighSalience(findings []models.Finding) bool {
	if s.isHighSalience == nil {
		return false
	}
	for _, finding := range findings {
		if s.isHighSalience(finding.AmendmentTitle) {
			return true
		}
	}
	return false
}

func mapAction(raw models.RawAction) models.ActionItem {
	return models.ActionItem{
		Department:        raw.Department,
		Task:              raw.Task,
		Steps:             raw.Steps,
		Urgency:           models.ParseUrgency(raw.Urgency),
		RelatedAmendments: raw.RelatedAmendments,
		Deadline:          firstNonEmpty(raw.Due, raw.Deadline, raw.LastDate),
		CurrentLabel:      raw.CurrentLabel,
		RequiredLabel:     raw.RequiredLabel,
		LabelRequirements: raw.LabelRequirements,
		CurrentIssues:     raw.CurrentIssues,
		CompositionNote:   raw.CompositionNote,
	}
}

// summarize recomputes the counts from the produced slots so they can never
// drift from the actions, and derives the score from the backend's own
// overall status.
func summarize(timeline []models.TimelineSlot, overallStatus string) models.PlanSummary {
	summary := models.PlanSummary{
		ComplianceScore: complianceScore(overallStatus),
	}
	for _, slot := range timeline {
		summary.TotalActions += len(slot.Actions)
		for _, action := range slot.Actions {
			switch action.Urgency {
			case models.UrgencyHigh:
				summary.HighPriority++
			case models.UrgencyCritical:
				summary.CriticalItems++
			}
		}
	}
	return summary
}

func complianceScore(overallStatus string) int {
	switch overallStatus {
	case "compliant":
		return 95
	case "partially_compliant":
		return 75
	case "unclear":
		return 60
	default:
		return 50
	}
}

func planStatus(overallStatus string) models.PlanStatus {
	if overallStatus == "compliant" {
		return models.StatusCompliant
	}
	return models.StatusRequiresAction
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return "Unknown"
}
