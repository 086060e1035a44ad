package service

import (
	"context"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/escolacentral/escola-backend/internal/config"
	"github.com/escolacentral/escola-backend/internal/model"
)

// EventStore is the append-only security event log.
type EventStore interface {
	Insert(ctx context.Context, e *model.SecurityEvent) error
	ListSince(ctx context.Context, since time.Time) ([]model.SecurityEvent, error)
}

// Thresholds parameterizes the dashboard's derived classifications.
type Thresholds struct {
	// FailedLoginWarn is the count of failed logins today that degrades
	// system health to WARNING.
	FailedLoginWarn int
	// BruteForce is the count of validation failures for one subject within
	// BruteForceWindow that raises an alert; twice the count raises it to
	// High severity.
	BruteForce       int
	BruteForceWindow time.Duration
}

// SecurityService records security events and computes the monitoring
// dashboard. The rollup itself is a pure function (BuildDashboard); this
// service only gathers its inputs.
type SecurityService struct {
	events     EventStore
	rdb        *redis.Client
	thresholds Thresholds
	log        zerolog.Logger
	now        func() time.Time
}

// NewSecurityService creates a new SecurityService.
func NewSecurityService(cfg *config.Config, events EventStore, rdb *redis.Client, log zerolog.Logger) *SecurityService {
	return &SecurityService{
		events: events,
		rdb:    rdb,
		thresholds: Thresholds{
			FailedLoginWarn:  cfg.FailedLoginWarnThreshold,
			BruteForce:       cfg.BruteForceThreshold,
			BruteForceWindow: cfg.BruteForceWindow,
		},
		log: log.With().Str("component", "security_service").Logger(),
		now: time.Now,
	}
}

// Record appends a security event. Failures are logged and swallowed: the
// event log must never fail the operation that produced the event.
func (s *SecurityService) Record(ctx context.Context, kind model.EventKind, subject, origin string, severity model.Severity) {
	e := &model.SecurityEvent{
		Kind:       kind,
		Subject:    subject,
		Origin:     origin,
		Severity:   severity,
		OccurredAt: s.now(),
	}
	if err := s.events.Insert(ctx, e); err != nil {
		s.log.Error().Err(err).Str("kind", string(kind)).Msg("Security event insert failed")
	}
}

// Summarize computes the dashboard over a trailing window. It fetches the
// event stream and the latency samples, then delegates to BuildDashboard;
// identical inputs always yield identical output.
func (s *SecurityService) Summarize(ctx context.Context, window time.Duration) (model.SecurityDashboard, error) {
	now := s.now()

	// Fetch back to whichever input reaches furthest: the caller's window,
	// today's midnight (failed logins, unique IPs) or the brute-force rule.
	since := now.Add(-window)
	if midnight := localMidnight(now); midnight.Before(since) {
		since = midnight
	}
	if bf := now.Add(-s.thresholds.BruteForceWindow); bf.Before(since) {
		since = bf
	}

	events, err := s.events.ListSince(ctx, since)
	if err != nil {
		return model.SecurityDashboard{}, err
	}

	samples, err := s.latencySamples(ctx)
	if err != nil {
		// Latency is auxiliary; degrade to zero rather than failing the page.
		s.log.Warn().Err(err).Msg("Latency samples unavailable")
		samples = nil
	}

	return BuildDashboard(events, samples, window, now, s.thresholds), nil
}

func (s *SecurityService) latencySamples(ctx context.Context) ([]float64, error) {
	raw, err := s.rdb.LRange(ctx, config.CacheKey.LatencySamplesKey(), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	samples := make([]float64, 0, len(raw))
	for _, v := range raw {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			continue
		}
		samples = append(samples, f)
	}
	return samples, nil
}

// BuildDashboard computes the security rollup as a pure function of the
// event stream, the latency samples, the window and the clock reading.
func BuildDashboard(events []model.SecurityEvent, latencies []float64, window time.Duration, now time.Time, th Thresholds) model.SecurityDashboard {
	d := model.SecurityDashboard{Alerts: []model.SecurityAlert{}}

	windowStart := now.Add(-window)
	midnight := localMidnight(now)
	bruteStart := now.Add(-th.BruteForceWindow)

	failuresBySubject := map[string]*model.SecurityAlert{}
	ipsToday := map[string]struct{}{}

	for _, e := range events {
		if e.OccurredAt.After(now) {
			continue
		}
		if !e.OccurredAt.Before(windowStart) {
			d.RecentEvents++
		}
		if !e.OccurredAt.Before(midnight) {
			if e.Kind == model.EventLoginFailed {
				d.FailedLoginsToday++
			}
			if e.Origin != "" {
				ipsToday[e.Origin] = struct{}{}
			}
		}
		if e.Kind == model.EventTokenValidationFailed && !e.OccurredAt.Before(bruteStart) {
			a := failuresBySubject[e.Subject]
			if a == nil {
				a = &model.SecurityAlert{Rule: "token_brute_force", Subject: e.Subject}
				failuresBySubject[e.Subject] = a
			}
			a.Count++
			if e.OccurredAt.After(a.LastSeen) {
				a.LastSeen = e.OccurredAt
			}
		}
	}
	d.UniqueIPsToday = len(ipsToday)

	for _, a := range failuresBySubject {
		if a.Count < th.BruteForce {
			continue
		}
		a.Severity = model.SeverityMedium
		if a.Count >= 2*th.BruteForce {
			a.Severity = model.SeverityHigh
		}
		d.Alerts = append(d.Alerts, *a)
	}
	sort.Slice(d.Alerts, func(i, j int) bool { return d.Alerts[i].Subject < d.Alerts[j].Subject })
	d.ActiveAlerts = len(d.Alerts)

	if len(latencies) > 0 {
		var sum float64
		for _, v := range latencies {
			sum += v
		}
		d.AvgResponseTime = sum / float64(len(latencies))
	}

	d.SystemHealth = model.HealthHealthy
	if d.FailedLoginsToday > th.FailedLoginWarn {
		d.SystemHealth = model.HealthWarning
	}
	for _, a := range d.Alerts {
		if a.Severity == model.SeverityHigh {
			d.SystemHealth = model.HealthCritical
			break
		}
	}

	return d
}

// localMidnight returns the start of t's day in t's location.
func localMidnight(t time.Time) time.Time {
	y, m, day := t.Date()
	return time.Date(y, m, day, 0, 0, 0, 0, t.Location())
}
