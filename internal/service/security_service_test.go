package service

import (
	"reflect"
	"testing"
	"time"

	"github.com/escolacentral/escola-backend/internal/model"
)

var dashboardThresholds = Thresholds{
	FailedLoginWarn:  10,
	BruteForce:       5,
	BruteForceWindow: 15 * time.Minute,
}

func eventAt(kind model.EventKind, subject, origin string, at time.Time) model.SecurityEvent {
	return model.SecurityEvent{Kind: kind, Subject: subject, Origin: origin, Severity: model.SeverityMedium, OccurredAt: at}
}

func TestBuildDashboardDeterministic(t *testing.T) {
	now := time.Date(2026, 3, 1, 14, 0, 0, 0, time.UTC)
	events := []model.SecurityEvent{
		eventAt(model.EventLoginFailed, "ana@escola.pt", "10.0.0.x", now.Add(-5*time.Minute)),
		eventAt(model.EventTokenIssued, "rui@escola.pt", "10.0.1.x", now.Add(-30*time.Minute)),
		eventAt(model.EventTokenValidationFailed, "tok-1", "10.0.2.x", now.Add(-time.Minute)),
	}
	latencies := []float64{10, 20, 30}

	first := BuildDashboard(events, latencies, time.Hour, now, dashboardThresholds)
	second := BuildDashboard(events, latencies, time.Hour, now, dashboardThresholds)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("identical inputs produced different dashboards:\n%+v\n%+v", first, second)
	}
}

func TestBuildDashboardCounters(t *testing.T) {
	now := time.Date(2026, 3, 1, 14, 0, 0, 0, time.UTC)
	events := []model.SecurityEvent{
		// Inside the one-hour window.
		eventAt(model.EventLoginFailed, "ana@escola.pt", "10.0.0.x", now.Add(-5*time.Minute)),
		eventAt(model.EventLoginSucceeded, "rui@escola.pt", "10.0.1.x", now.Add(-10*time.Minute)),
		// Outside the window but still today: counts for failed logins and IPs.
		eventAt(model.EventLoginFailed, "ana@escola.pt", "10.0.0.x", now.Add(-3*time.Hour)),
		// Yesterday: counts for nothing.
		eventAt(model.EventLoginFailed, "ana@escola.pt", "10.0.9.x", now.Add(-20*time.Hour)),
	}

	d := BuildDashboard(events, nil, time.Hour, now, dashboardThresholds)

	if d.RecentEvents != 2 {
		t.Errorf("RecentEvents = %d, want 2", d.RecentEvents)
	}
	if d.FailedLoginsToday != 2 {
		t.Errorf("FailedLoginsToday = %d, want 2", d.FailedLoginsToday)
	}
	if d.UniqueIPsToday != 2 {
		t.Errorf("UniqueIPsToday = %d, want 2", d.UniqueIPsToday)
	}
	if d.AvgResponseTime != 0 {
		t.Errorf("AvgResponseTime = %f, want 0 with no samples", d.AvgResponseTime)
	}
	if d.SystemHealth != model.HealthHealthy {
		t.Errorf("SystemHealth = %s, want HEALTHY", d.SystemHealth)
	}
}

func TestBuildDashboardBruteForceAlert(t *testing.T) {
	now := time.Date(2026, 3, 1, 14, 0, 0, 0, time.UTC)

	var events []model.SecurityEvent
	for i := 0; i < 5; i++ {
		events = append(events, eventAt(model.EventTokenValidationFailed, "tok-1", "10.0.0.x", now.Add(-time.Duration(i)*time.Minute)))
	}
	// Below threshold for a second subject.
	events = append(events, eventAt(model.EventTokenValidationFailed, "tok-2", "10.0.0.x", now.Add(-time.Minute)))
	// Stale failures outside the brute-force window do not count.
	events = append(events, eventAt(model.EventTokenValidationFailed, "tok-3", "10.0.0.x", now.Add(-time.Hour)))

	d := BuildDashboard(events, nil, 2*time.Hour, now, dashboardThresholds)

	if d.ActiveAlerts != 1 || len(d.Alerts) != 1 {
		t.Fatalf("alerts = %+v, want exactly one", d.Alerts)
	}
	a := d.Alerts[0]
	if a.Subject != "tok-1" || a.Count != 5 || a.Severity != model.SeverityMedium {
		t.Errorf("alert = %+v", a)
	}
	if a.LastSeen != now {
		t.Errorf("LastSeen = %s, want the newest failure", a.LastSeen)
	}
	if d.SystemHealth != model.HealthHealthy {
		t.Errorf("SystemHealth = %s, a Medium alert alone must not degrade health", d.SystemHealth)
	}
}

func TestBuildDashboardHighSeverityIsCritical(t *testing.T) {
	now := time.Date(2026, 3, 1, 14, 0, 0, 0, time.UTC)

	var events []model.SecurityEvent
	for i := 0; i < 10; i++ {
		events = append(events, eventAt(model.EventTokenValidationFailed, "tok-1", "10.0.0.x", now.Add(-time.Duration(i)*time.Second)))
	}

	d := BuildDashboard(events, nil, time.Hour, now, dashboardThresholds)

	if len(d.Alerts) != 1 || d.Alerts[0].Severity != model.SeverityHigh {
		t.Fatalf("alerts = %+v, want one High alert at double the threshold", d.Alerts)
	}
	if d.SystemHealth != model.HealthCritical {
		t.Errorf("SystemHealth = %s, want CRITICAL", d.SystemHealth)
	}
}

func TestBuildDashboardFailedLoginWarning(t *testing.T) {
	now := time.Date(2026, 3, 1, 14, 0, 0, 0, time.UTC)

	var events []model.SecurityEvent
	for i := 0; i < 11; i++ {
		events = append(events, eventAt(model.EventLoginFailed, "ana@escola.pt", "10.0.0.x", now.Add(-time.Duration(i)*time.Minute)))
	}

	d := BuildDashboard(events, nil, time.Hour, now, dashboardThresholds)

	if d.SystemHealth != model.HealthWarning {
		t.Errorf("SystemHealth = %s, want WARNING above the failed-login threshold", d.SystemHealth)
	}
}

func TestBuildDashboardAveragesLatency(t *testing.T) {
	now := time.Date(2026, 3, 1, 14, 0, 0, 0, time.UTC)

	d := BuildDashboard(nil, []float64{5, 15, 40}, time.Hour, now, dashboardThresholds)

	if d.AvgResponseTime != 20 {
		t.Errorf("AvgResponseTime = %f, want 20", d.AvgResponseTime)
	}
}

func TestBuildDashboardAlertsSorted(t *testing.T) {
	now := time.Date(2026, 3, 1, 14, 0, 0, 0, time.UTC)

	var events []model.SecurityEvent
	for _, subject := range []string{"tok-b", "tok-a"} {
		for i := 0; i < 5; i++ {
			events = append(events, eventAt(model.EventTokenValidationFailed, subject, "10.0.0.x", now.Add(-time.Duration(i)*time.Second)))
		}
	}

	d := BuildDashboard(events, nil, time.Hour, now, dashboardThresholds)

	if len(d.Alerts) != 2 {
		t.Fatalf("alerts = %+v, want two", d.Alerts)
	}
	if d.Alerts[0].Subject != "tok-a" || d.Alerts[1].Subject != "tok-b" {
		t.Errorf("alerts out of order: %s, %s", d.Alerts[0].Subject, d.Alerts[1].Subject)
	}
}
