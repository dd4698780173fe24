package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestMetrics creates metrics with a custom registry for testing.
// This avoids conflicts with the default registry.
func createTestMetrics(namespace string) *Metrics {
	return NewWithRegistry(namespace, prometheus.NewRegistry())
}

func TestNewWithRegistry(t *testing.T) {
	t.Run("registers all collectors", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		m := NewWithRegistry("", reg)
		assert.NotNil(t, m.HTTPRequestsTotal)
		assert.NotNil(t, m.HTTPRequestDuration)
		assert.NotNil(t, m.HTTPRequestsInFlight)
		assert.NotNil(t, m.CredentialsIssuedTotal)
		assert.NotNil(t, m.PresignDuration)
		assert.NotNil(t, m.RateLimitedTotal)
		assert.NotNil(t, m.DBQueryDuration)

		m.RecordCredentialIssued("question", "success", time.Millisecond)
		families, err := reg.Gather()
		require.NoError(t, err)

		var names []string
		for _, f := range families {
			names = append(names, f.GetName())
		}
		assert.Contains(t, names, "uploader_broker_credentials_issued_total")
		assert.Contains(t, names, "uploader_broker_presign_duration_seconds")
	})

	t.Run("duplicate registration panics", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		NewWithRegistry("dup", reg)
		assert.Panics(t, func() { NewWithRegistry("dup", reg) })
	})
}

func TestMetrics_RecordHTTPRequest(t *testing.T) {
	m := createTestMetrics("http_test")

	t.Run("records request with 2xx status", func(t *testing.T) {
		m.RecordHTTPRequest("POST", "/generate-upload-url", 200, 100*time.Millisecond)

		count := testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("POST", "/generate-upload-url", "2xx"))
		assert.Equal(t, float64(1), count)
	})

	t.Run("records request with 4xx status", func(t *testing.T) {
		m.RecordHTTPRequest("POST", "/generate-upload-url", 401, 50*time.Millisecond)

		count := testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("POST", "/generate-upload-url", "4xx"))
		assert.Equal(t, float64(1), count)
	})

	t.Run("records request with 5xx status", func(t *testing.T) {
		m.RecordHTTPRequest("GET", "/health", 503, 10*time.Millisecond)

		count := testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/health", "5xx"))
		assert.Equal(t, float64(1), count)
	})
}

func TestMetrics_RecordCredentialIssued(t *testing.T) {
	m := createTestMetrics("credential_test")

	t.Run("records success with presign duration", func(t *testing.T) {
		m.RecordCredentialIssued("question", "success", 20*time.Millisecond)

		assert.Equal(t, float64(1), testutil.ToFloat64(m.CredentialsIssuedTotal.WithLabelValues("question", "success")))
		assert.Equal(t, 1, testutil.CollectAndCount(m.PresignDuration))
	})

	t.Run("skips duration for rejected requests", func(t *testing.T) {
		m.RecordCredentialIssued("billing", "rejected", 0)

		assert.Equal(t, float64(1), testutil.ToFloat64(m.CredentialsIssuedTotal.WithLabelValues("billing", "rejected")))
		assert.Equal(t, 1, testutil.CollectAndCount(m.PresignDuration))
	})
}

func TestMetrics_RecordRateLimited(t *testing.T) {
	m := createTestMetrics("ratelimit_test")

	m.RecordRateLimited("/generate-upload-url")
	m.RecordRateLimited("/generate-upload-url")

	assert.Equal(t, float64(2), testutil.ToFloat64(m.RateLimitedTotal.WithLabelValues("/generate-upload-url")))
}

func TestMetrics_RecordDBQuery(t *testing.T) {
	m := createTestMetrics("db_test")

	t.Run("records insert query", func(t *testing.T) {
		m.RecordDBQuery("insert", 5*time.Millisecond)
		assert.Equal(t, 1, testutil.CollectAndCount(m.DBQueryDuration))
	})
}

func TestStatusCodeToString(t *testing.T) {
	tests := []struct {
		code     int
		expected string
	}{
		{200, "2xx"},
		{201, "2xx"},
		{299, "2xx"},
		{300, "3xx"},
		{301, "3xx"},
		{399, "3xx"},
		{400, "4xx"},
		{404, "4xx"},
		{499, "4xx"},
		{500, "5xx"},
		{502, "5xx"},
		{599, "5xx"},
		{100, "unknown"},
		{0, "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			result := statusCodeToString(tt.code)
			assert.Equal(t, tt.expected, result)
		})
	}
}
