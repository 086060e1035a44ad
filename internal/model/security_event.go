package model

import "time"

// EventKind classifies a security event.
type EventKind string

const (
	EventTokenIssued           EventKind = "token_issued"
	EventTokenValidationFailed EventKind = "token_validation_failed"
	EventTokenConsumed         EventKind = "token_consumed"
	EventTokenRevoked          EventKind = "token_revoked"
	EventLoginFailed           EventKind = "login_failed"
	EventLoginSucceeded        EventKind = "login_succeeded"
)

// Severity ranks how alarming an event is.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// SecurityEvent is an immutable audit fact. Events are appended by the core
// and never mutated or deleted; retention is an operational concern.
type SecurityEvent struct {
	ID         int       `json:"id"`
	Kind       EventKind `json:"kind"`
	Subject    string    `json:"subject"` // email or token id
	Origin     string    `json:"origin"`  // network origin, stored already redacted
	Severity   Severity  `json:"severity"`
	OccurredAt time.Time `json:"occurred_at"`
}

// SystemHealth is the derived classification of recent security activity.
type SystemHealth string

const (
	HealthHealthy  SystemHealth = "HEALTHY"
	HealthWarning  SystemHealth = "WARNING"
	HealthCritical SystemHealth = "CRITICAL"
)

// SecurityAlert is an unresolved threshold-rule hit derived from the event
// stream. Alerts are computed, never persisted.
type SecurityAlert struct {
	Rule     string    `json:"rule"`
	Subject  string    `json:"subject"`
	Count    int       `json:"count"`
	Severity Severity  `json:"severity"`
	LastSeen time.Time `json:"last_seen"`
}

// SecurityDashboard is the monitoring rollup over a trailing window. It is
// recomputed on every request as a pure function of the event stream and the
// latency samples.
type SecurityDashboard struct {
	ActiveAlerts      int             `json:"active_alerts"`
	Alerts            []SecurityAlert `json:"alerts"`
	RecentEvents      int             `json:"recent_events"`
	FailedLoginsToday int             `json:"failed_logins_today"`
	UniqueIPsToday    int             `json:"unique_ips_today"`
	AvgResponseTime   float64         `json:"avg_response_time_ms"`
	SystemHealth      SystemHealth    `json:"system_health"`
}
