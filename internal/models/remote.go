package models

// AmendmentMeta is one entry of the backend's amendment listing endpoints.
// It is display/input data only and never mutated after fetch.
type AmendmentMeta struct {
	Title      string `json:"title"`
	Date       string `json:"date"`
	Source     string `json:"source,omitempty"`
	Excerpt    string `json:"excerpt,omitempty"`
	DocumentID string `json:"document_id,omitempty"`
	PDFURL     string `json:"pdf_url,omitempty"`
}

// LatestCompanyResponse is the body of GET /company/latest.
type LatestCompanyResponse struct {
	CompanyID   string                 `json:"company_id"`
	CompanyInfo map[string]interface{} `json:"company_info,omitempty"`
}

// ComplianceCheckResponse is the body of GET /compliance/check.
type ComplianceCheckResponse struct {
	Status string                `json:"status"`
	Result ComplianceCheckResult `json:"result"`
}

// ComplianceCheckResult wraps the backend's analysis output.
type ComplianceCheckResult struct {
	AnalysisSteps   map[string][]string `json:"analysis_steps"`
	AmendmentsCount int                 `json:"amendments_count"`
	FinalReport     FinalReport         `json:"final_report"`
}

// FinalReport nests the raw compliance report inside the check result.
type FinalReport struct {
	ComplianceReport *RawReport `json:"compliance_report"`
}

// RawReport is the backend's compliance report as it arrives on the wire.
// The synthesizer turns it into a CompliancePlan plus Findings.
type RawReport struct {
	ByAmendment        []RawFinding `json:"by_amendment"`
	PrioritizedActions []RawAction  `json:"prioritized_actions"`
	Timeline           []RawSlot    `json:"timeline"`
	OverallStatus      string       `json:"overall_status"`
	Summary            string       `json:"summary"`
	Notes              string       `json:"notes"`
}

// RawFinding is one per-amendment verdict inside a raw report.
type RawFinding struct {
	Title        string   `json:"title"`
	Status       string   `json:"status"`
	CurrentState string   `json:"current_state"`
	Evidence     []string `json:"evidence"`
	Gaps         []string `json:"gaps"`
	Actions      []string `json:"actions"`
	LastDate     string   `json:"last_date"`
	Deadline     string   `json:"deadline"`
	Urgency      string   `json:"urgency"`
	DocumentID   string   `json:"document_id"`
	PDFURL       string   `json:"pdf_url"`
}

// RawAction is a backend action entry, either inside a structured timeline
// slot or in the flat prioritized_actions list. The three deadline aliases
// are normalized by the synthesizer in the order due > deadline > last_date.
type RawAction struct {
	Department        string   `json:"department"`
	Task              string   `json:"task"`
	Steps             []string `json:"steps"`
	Urgency           string   `json:"urgency"`
	RelatedAmendments []string `json:"amendments"`
	Due               string   `json:"due"`
	Deadline          string   `json:"deadline"`
	LastDate          string   `json:"last_date"`
	CurrentLabel      string   `json:"current_label"`
	RequiredLabel     string   `json:"required_label"`
	LabelRequirements []string `json:"label_requirements"`
	CurrentIssues     []string `json:"current_issues"`
	CompositionNote   string   `json:"composition_note"`
}

// RawSlot is a structured timeline bucket inside a raw report.
type RawSlot struct {
	Timeframe string      `json:"timeframe"`
	Actions   []RawAction `json:"actions"`
}
