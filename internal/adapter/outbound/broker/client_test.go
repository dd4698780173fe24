package broker

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/uniedit/uploader/internal/adapter/outbound/authfetch"
	"github.com/uniedit/uploader/internal/domain/upload"
	"github.com/uniedit/uploader/internal/model"
)

func newTestClient(t *testing.T, server *httptest.Server, threshold uint32) *Client {
	t.Helper()
	fetch := authfetch.NewClient(server.Client(), oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "token"}), nil)
	client, err := NewClient(fetch, &Config{
		BaseURL:          server.URL + "/api/",
		FailureThreshold: threshold,
		OpenTimeout:      time.Minute,
	}, nil)
	require.NoError(t, err)
	return client
}

func testRequest() *model.UploadCredentialRequest {
	return &model.UploadCredentialRequest{
		FileName: "photo.png",
		FileType: "image/png",
		AppName:  "question",
		Folder:   "uploads",
	}
}

func TestClient_AcquireCredential(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/api/generate-upload-url", r.URL.Path)
			assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))

			var req model.UploadCredentialRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, *testRequest(), req)

			_ = json.NewEncoder(w).Encode(model.UploadCredential{
				UploadURL:  "https://storage.example/put?sig=1",
				FileKey:    "question/uploads/abc-photo.png",
				BucketName: "bucket",
				FileURL:    "https://cdn.example/question/uploads/abc-photo.png",
				AppName:    "question",
			})
		}))
		defer server.Close()

		cred, err := newTestClient(t, server, 5).AcquireCredential(context.Background(), testRequest())

		require.NoError(t, err)
		assert.Equal(t, "https://storage.example/put?sig=1", cred.UploadURL)
		assert.Equal(t, "https://cdn.example/question/uploads/abc-photo.png", cred.FileURL)
	})

	t.Run("missing_fields", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"uploadURL":"https://storage.example/put"}`))
		}))
		defer server.Close()

		_, err := newTestClient(t, server, 5).AcquireCredential(context.Background(), testRequest())

		assert.ErrorIs(t, err, upload.ErrCredential)
	})

	t.Run("server_error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"code":"internal_error","message":"presign failed"}`))
		}))
		defer server.Close()

		_, err := newTestClient(t, server, 5).AcquireCredential(context.Background(), testRequest())

		require.ErrorIs(t, err, upload.ErrCredential)
		var apiErr *authfetch.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
		assert.Contains(t, err.Error(), "API Error: 500 - presign failed")
	})

	t.Run("unreachable", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		client := newTestClient(t, server, 5)
		server.Close()

		_, err := client.AcquireCredential(context.Background(), testRequest())

		assert.ErrorIs(t, err, upload.ErrCredential)
	})

	t.Run("undecodable_body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`not json`))
		}))
		defer server.Close()

		_, err := newTestClient(t, server, 5).AcquireCredential(context.Background(), testRequest())

		assert.ErrorIs(t, err, upload.ErrCredential)
	})
}

func TestClient_CircuitBreaker(t *testing.T) {
	t.Run("opens_after_consecutive_failures", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		client := newTestClient(t, server, 2)
		for i := 0; i < 2; i++ {
			_, err := client.AcquireCredential(context.Background(), testRequest())
			require.Error(t, err)
		}
		assert.Equal(t, gobreaker.StateOpen, client.State())

		_, err := client.AcquireCredential(context.Background(), testRequest())

		assert.ErrorIs(t, err, upload.ErrCredential)
		assert.ErrorIs(t, err, gobreaker.ErrOpenState)
		assert.Equal(t, int32(2), calls.Load())
	})

	t.Run("client_errors_do_not_trip", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
		}))
		defer server.Close()

		client := newTestClient(t, server, 1)
		for i := 0; i < 3; i++ {
			_, err := client.AcquireCredential(context.Background(), testRequest())
			require.ErrorIs(t, err, upload.ErrCredential)
		}

		assert.Equal(t, gobreaker.StateClosed, client.State())
	})
}

func TestNewClient(t *testing.T) {
	t.Run("requires_base_url", func(t *testing.T) {
		_, err := NewClient(authfetch.NewClient(nil, nil, nil), &Config{}, nil)
		assert.ErrorIs(t, err, ErrNoBaseURL)
	})
}
