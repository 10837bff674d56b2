package internaldefs

import (
	goSSO "github.com/MrEthical07/goSSO"
)

// CounterDef names one engine counter for exporters.
type CounterDef struct {
	ID   goSSO.MetricID
	Name string
	Help string
}

// HistogramDef names one engine latency histogram for exporters.
type HistogramDef struct {
	ID   goSSO.MetricID
	Name string
	Help string
}

var CounterDefs = []CounterDef{
	{ID: goSSO.MetricTicketCreated, Name: "gosso_ticket_created_total", Help: "Tickets created."},
	{ID: goSSO.MetricTicketRejected, Name: "gosso_ticket_rejected_total", Help: "CreateTicket requests rejected."},
	{ID: goSSO.MetricRegisterSuccess, Name: "gosso_register_success_total", Help: "Accounts registered."},
	{ID: goSSO.MetricRegisterConflict, Name: "gosso_register_conflict_total", Help: "Registrations rejected for a taken email or username."},
	{ID: goSSO.MetricLoginSuccess, Name: "gosso_login_success_total", Help: "Successful logins."},
	{ID: goSSO.MetricLoginFailure, Name: "gosso_login_failure_total", Help: "Failed logins."},
	{ID: goSSO.MetricClaimSuccess, Name: "gosso_claim_success_total", Help: "Successful session claims."},
	{ID: goSSO.MetricClaimFailure, Name: "gosso_claim_failure_total", Help: "Failed session claims."},
	{ID: goSSO.MetricTokenBurned, Name: "gosso_token_burned_total", Help: "Bearer tokens cleared by a failed claim."},
	{ID: goSSO.MetricRefreshSuccess, Name: "gosso_refresh_success_total", Help: "Successful session refreshes."},
	{ID: goSSO.MetricRefreshFailure, Name: "gosso_refresh_failure_total", Help: "Failed session refreshes."},
	{ID: goSSO.MetricSessionCreated, Name: "gosso_session_created_total", Help: "Sessions created by login."},
	{ID: goSSO.MetricSessionInvalidated, Name: "gosso_session_invalidated_total", Help: "Previous sessions dropped by a new login."},
	{ID: goSSO.MetricPasswordUpgraded, Name: "gosso_password_upgraded_total", Help: "Password hashes upgraded on login."},
	{ID: goSSO.MetricBackendError, Name: "gosso_backend_error_total", Help: "Operations failed by the store or hasher."},
}

var HistogramDefs = []HistogramDef{
	{ID: goSSO.MetricLoginLatency, Name: "gosso_login_latency_seconds", Help: "Login latency."},
	{ID: goSSO.MetricClaimLatency, Name: "gosso_claim_latency_seconds", Help: "ClaimSession latency."},
	{ID: goSSO.MetricRefreshLatency, Name: "gosso_refresh_latency_seconds", Help: "RefreshSession latency."},
}

// HistogramBounds are the finite upper bounds in seconds of the engine's
// eight buckets; the last bucket is +Inf.
var HistogramBounds = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5}

// HistogramBoundSuffix names every bucket, +Inf included, for exporters that
// flatten buckets into gauges.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets copies raw into a fixed eight-bucket array. Missing
// buckets read as zero.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets turns per-bucket counts into running totals.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
