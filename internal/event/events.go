// Package event defines the in-process event bus topics.
package event

const (
	// ReportCreated fires when a new report row is created.
	// Fields: "report_id", "listing_id", "actor", "priority"
	ReportCreated = "report.created"
	// ReportEscalated fires on an escalate disposition.
	// Fields: "report_id", "listing_id", "actor"
	ReportEscalated = "report.escalated"
	// ReportResolved fires on a resolve disposition.
	// Fields: "report_id", "listing_id", "actor", "remediation"
	ReportResolved = "report.resolved"
)
