package minio

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresigner(t *testing.T) {
	p, err := NewPresigner(&Config{
		Endpoint:        "http://localhost:9000",
		AccessKeyID:     "minioadmin",
		SecretAccessKey: "minioadmin",
		Bucket:          "uploads",
	})
	require.NoError(t, err)

	t.Run("presign_put", func(t *testing.T) {
		signed, err := p.PresignPut(context.Background(), "document/abc-report.pdf", "application/pdf", 10*time.Minute)
		require.NoError(t, err)

		u, err := url.Parse(signed.URL)
		require.NoError(t, err)
		assert.Equal(t, "localhost:9000", u.Host)
		assert.Equal(t, "/uploads/document/abc-report.pdf", u.Path)
		assert.Equal(t, "600", u.Query().Get("X-Amz-Expires"))
		assert.Equal(t, "PUT", signed.Method)
		assert.Equal(t, "document/abc-report.pdf", signed.Key)
	})

	t.Run("object_url", func(t *testing.T) {
		assert.Equal(t, "http://localhost:9000/uploads/document/abc-report.pdf", p.ObjectURL("document/abc-report.pdf"))
	})
}

func TestSplitEndpoint(t *testing.T) {
	tests := []struct {
		in     string
		host   string
		secure bool
	}{
		{"localhost:9000", "localhost:9000", false},
		{"http://minio:9000", "minio:9000", false},
		{"https://files.example.com", "files.example.com", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			host, secure, err := splitEndpoint(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.host, host)
			assert.Equal(t, tt.secure, secure)
		})
	}
}

func TestNewPresigner_Incomplete(t *testing.T) {
	_, err := NewPresigner(&Config{Endpoint: "localhost:9000"})
	assert.ErrorIs(t, err, ErrIncompleteConfig)
}
