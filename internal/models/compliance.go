package models

import "time"

// Urgency classifies how quickly an action or finding must be addressed.
type Urgency string

const (
	UrgencyCritical Urgency = "Critical"
	UrgencyHigh     Urgency = "High"
	UrgencyMedium   Urgency = "Medium"
)

// ParseUrgency maps a backend urgency string onto the closed set,
// defaulting anything unknown or empty to Medium.
func ParseUrgency(value string) Urgency {
	switch value {
	case string(UrgencyCritical):
		return UrgencyCritical
	case string(UrgencyHigh):
		return UrgencyHigh
	default:
		return UrgencyMedium
	}
}

// PlanStatus is the overall compliance verdict attached to a plan.
type PlanStatus string

const (
	StatusCompliant      PlanStatus = "compliant"
	StatusRequiresAction PlanStatus = "requires_action"
	StatusInReview       PlanStatus = "in_review"
)

// Finding is the per-amendment result of a compliance analysis run.
type Finding struct {
	AmendmentTitle string   `json:"amendment_title"`
	Status         string   `json:"status"`
	CurrentState   string   `json:"current_state"`
	Evidence       []string `json:"evidence"`
	Gaps           []string `json:"gaps"`
	Actions        []string `json:"actions"`
	Deadline       string   `json:"deadline"`
	Urgency        Urgency  `json:"urgency"`
	DocumentID     string   `json:"document_id,omitempty"`
	PDFURL         string   `json:"pdf_url,omitempty"`
}

// ActionItem is a single task inside a timeline slot.
type ActionItem struct {
	Department        string   `json:"department"`
	Task              string   `json:"task"`
	Steps             []string `json:"steps,omitempty"`
	Urgency           Urgency  `json:"urgency"`
	RelatedAmendments []string `json:"related_amendments,omitempty"`
	Deadline          string   `json:"deadline"`
	CurrentLabel      string   `json:"current_label,omitempty"`
	RequiredLabel     string   `json:"required_label,omitempty"`
	LabelRequirements []string `json:"label_requirements,omitempty"`
	CurrentIssues     []string `json:"current_issues,omitempty"`
	CompositionNote   string   `json:"composition_note,omitempty"`
}

// TimelineSlot groups actions under a named time bucket. Slot order is
// meaningful (Immediate → Short-term → Ongoing) and slots are never empty.
type TimelineSlot struct {
	Timeframe string       `json:"timeframe"`
	Actions   []ActionItem `json:"actions"`
}

// PlanSummary carries the derived counts plus the backend-reported score.
type PlanSummary struct {
	TotalActions    int `json:"total_actions"`
	HighPriority    int `json:"high_priority"`
	CriticalItems   int `json:"critical_items"`
	ComplianceScore int `json:"compliance_score"`
}

// CompliancePlan is the canonical, presentation-ready plan derived from a
// raw backend report. It is recomputed in full on every analysis run.
type CompliancePlan struct {
	Timeline  []TimelineSlot `json:"timeline"`
	Summary   PlanSummary    `json:"summary"`
	Status    PlanStatus     `json:"status"`
	Notes     string         `json:"notes,omitempty"`
	NextSteps []string       `json:"next_steps,omitempty"`
}

// Analysis is the complete snapshot of one analysis run. A new run replaces
// the previous snapshot atomically; readers never see a partial one.
type Analysis struct {
	AnalysisSteps          map[string][]string `json:"analysis_steps"`
	InitialAmendmentCount  int                 `json:"initial_amendment_count"`
	RelevantAmendmentCount int                 `json:"relevant_amendment_count"`
	CompliancePlan         *CompliancePlan     `json:"compliance_plan"`
	Findings               []Finding           `json:"findings"`
	CompletedAt            time.Time           `json:"completed_at"`
}

// NotificationKind distinguishes alerts from informational updates.
type NotificationKind string

const (
	NotificationAlert  NotificationKind = "alert"
	NotificationUpdate NotificationKind = "update"
)

// Notification is an ephemeral UI message living in the queue.
type Notification struct {
	ID      string           `json:"id"`
	Message string           `json:"message"`
	Kind    NotificationKind `json:"kind"`
}
