package services

import (
	"strings"
	"time"

	"vigilo/internal/helpers"
	"vigilo/internal/models"
)

// DisplayAnalysis renders a completed analysis snapshot in a formatted way
func DisplayAnalysis(analysis *models.Analysis) {
	plan := analysis.CompliancePlan

	helpers.PrintTitle("Compliance Analysis")
	helpers.PrintInfo("Status: %s | Score: %d/100", plan.Status, plan.Summary.ComplianceScore)
	helpers.PrintInfo("Amendments scanned: %d | Relevant: %d", analysis.InitialAmendmentCount, analysis.RelevantAmendmentCount)
	helpers.PrintInfo("Completed: %s", analysis.CompletedAt.Format(time.RFC1123))
	helpers.PrintSeparator()

	for _, finding := range analysis.Findings {
		helpers.UrgencyColor(finding.Urgency).Printf("▶ [%s] %s\n", finding.Urgency, finding.AmendmentTitle)
		helpers.PrintInfo("  Status: %s | Deadline: %s", finding.Status, finding.Deadline)
		if finding.CurrentState != "" {
			helpers.PrintInfo("  Current state: %s", finding.CurrentState)
		}
		for _, gap := range finding.Gaps {
			helpers.PrintWarning("  Gap: %s", gap)
		}
		for _, action := range finding.Actions {
			helpers.PrintInfo("  • %s", action)
		}
		if finding.PDFURL != "" {
			helpers.PrintInfo("  Document: %s", finding.PDFURL)
		}
		helpers.PrintSeparator()
	}

	for _, slot := range plan.Timeline {
		helpers.PrintTitle("%s", slot.Timeframe)
		for _, action := range slot.Actions {
			helpers.UrgencyColor(action.Urgency).Printf("  [%s] %s: %s\n", action.Urgency, action.Department, action.Task)
			helpers.PrintInfo("    Deadline: %s", action.Deadline)
			for _, step := range action.Steps {
				helpers.PrintInfo("    • %s", step)
			}
			if len(action.RelatedAmendments) > 0 {
				helpers.PrintInfo("    Amendments: %s", strings.Join(action.RelatedAmendments, ", "))
			}
			if action.RequiredLabel != "" {
				helpers.PrintWarning("    Required label: %s", action.RequiredLabel)
			}
		}
		helpers.PrintSeparator()
	}

	helpers.PrintInfo("Summary: %d actions, %d high priority, %d critical",
		plan.Summary.TotalActions, plan.Summary.HighPriority, plan.Summary.CriticalItems)

	if plan.Notes != "" {
		helpers.PrintInfo("Notes: %s", plan.Notes)
	}
	for _, step := range plan.NextSteps {
		helpers.PrintInfo("Next: %s", step)
	}
}

// DisplayAmendments renders an amendment listing
func DisplayAmendments(amendments []models.AmendmentMeta, limit int) {
	if limit > 0 && limit < len(amendments) {
		amendments = amendments[:limit]
	}

	helpers.PrintTitle("Regulatory Amendments (%d)", len(amendments))
	helpers.PrintSeparator()

	for _, amendment := range amendments {
		helpers.PrintInfo("%s", amendment.Title)
		helpers.PrintInfo("  Date: %s", displayDate(amendment.Date))
		if amendment.Source != "" {
			helpers.PrintInfo("  Source: %s", amendment.Source)
		}
		if amendment.Excerpt != "" {
			helpers.PrintInfo("  %s", amendment.Excerpt)
		}
		if amendment.PDFURL != "" {
			helpers.PrintInfo("  Document: %s", amendment.PDFURL)
		}
		helpers.PrintSeparator()
	}
}

// DisplayNotifications renders the pending notification queue
func DisplayNotifications(notifications []models.Notification) {
	for _, notification := range notifications {
		helpers.PrintNotification(notification)
	}
}

func displayDate(date string) string {
	if date == "" {
		return "Unknown"
	}
	return date
}
