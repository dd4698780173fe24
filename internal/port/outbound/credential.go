package outbound

import "time"

// CredentialMetricsPort records credential issuance outcomes.
type CredentialMetricsPort interface {
	// RecordCredentialIssued records one request. presign is zero when no URL was signed.
	RecordCredentialIssued(app, status string, presign time.Duration)
}
