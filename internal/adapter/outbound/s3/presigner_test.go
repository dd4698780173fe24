package s3

import (
	"context"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPresigner(t *testing.T, endpoint string) *Presigner {
	t.Helper()
	p, err := NewPresigner(context.Background(), &Config{
		Endpoint:        endpoint,
		Region:          "us-east-1",
		AccessKeyID:     "AKIDEXAMPLE",
		SecretAccessKey: "secret",
		Bucket:          "uploads",
	})
	require.NoError(t, err)
	return p
}

func TestPresigner_PresignPut(t *testing.T) {
	t.Run("custom_endpoint", func(t *testing.T) {
		p := newTestPresigner(t, "http://localhost:9000")

		signed, err := p.PresignPut(context.Background(), "question/abc-photo.png", "image/png", 15*time.Minute)

		require.NoError(t, err)
		assert.Equal(t, http.MethodPut, signed.Method)
		assert.Equal(t, "uploads", signed.Bucket)
		assert.Equal(t, "question/abc-photo.png", signed.Key)
		assert.WithinDuration(t, time.Now().Add(15*time.Minute), signed.ExpiresAt, 5*time.Second)

		u, err := url.Parse(signed.URL)
		require.NoError(t, err)
		assert.Equal(t, "localhost:9000", u.Host)
		assert.Equal(t, "/uploads/question/abc-photo.png", u.Path)
		assert.Equal(t, "900", u.Query().Get("X-Amz-Expires"))
		assert.NotEmpty(t, u.Query().Get("X-Amz-Signature"))
		assert.Contains(t, u.Query().Get("X-Amz-SignedHeaders"), "content-type")
	})
}

func TestPresigner_ObjectURL(t *testing.T) {
	t.Run("custom_endpoint", func(t *testing.T) {
		p := newTestPresigner(t, "http://localhost:9000/")
		assert.Equal(t, "http://localhost:9000/uploads/user/a b.png", mustUnescape(t, p.ObjectURL("user/a b.png")))
		assert.Equal(t, "http://localhost:9000/uploads/user/a%20b.png", p.ObjectURL("user/a b.png"))
	})

	t.Run("aws_virtual_hosted", func(t *testing.T) {
		p := newTestPresigner(t, "")
		assert.Equal(t, "https://uploads.s3.us-east-1.amazonaws.com/user/x.png", p.ObjectURL("user/x.png"))
	})
}

func TestNewPresigner(t *testing.T) {
	t.Run("incomplete_config", func(t *testing.T) {
		_, err := NewPresigner(context.Background(), &Config{Bucket: "uploads"})
		assert.ErrorIs(t, err, ErrIncompleteConfig)
	})
}

func mustUnescape(t *testing.T, s string) string {
	t.Helper()
	out, err := url.PathUnescape(s)
	require.NoError(t, err)
	return out
}
