package backend

import (
	"context"
	"errors"
	"io"
	"launchpad/internal/models"
	"launchpad/internal/providers"
	"launchpad/internal/testutil"
	"net/http"
	"sync/atomic"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenSubmitter_Submit_Success(t *testing.T) {
	var got tokenRequest
	var method, path, contentType, auth string
	client, metrics := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path
		contentType = r.Header.Get("Content-Type")
		auth = r.Header.Get("Authorization")
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &got)
		w.WriteHeader(http.StatusNoContent)
	})

	err := NewTokenSubmitter(client, &testutil.MockLogger{}, metrics).Submit(context.Background(), "0a1b2c")
	require.NoError(t, err)

	assert.Equal(t, http.MethodPatch, method)
	assert.Equal(t, "/apns/update-token", path)
	assert.Equal(t, "application/json", contentType)
	assert.Equal(t, "Token s3cret", auth)
	assert.Equal(t, tokenRequest{Target: "iphone", Token: "0a1b2c"}, got)
	assert.Equal(t, 1, metrics.TokenSubmissions[providers.OutcomeSuccess])
}

func TestTokenSubmitter_Submit_OnlyNoContentSucceeds(t *testing.T) {
	for _, status := range []int{http.StatusOK, http.StatusBadRequest, http.StatusInternalServerError} {
		var calls atomic.Int32
		client, metrics := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(status)
		})

		err := NewTokenSubmitter(client, &testutil.MockLogger{}, metrics).Submit(context.Background(), "ff")
		require.Error(t, err, "status %d", status)
		assert.True(t, errors.Is(err, models.ErrFetchFailed))
		assert.Equal(t, int32(1), calls.Load(), "no retry expected")
		assert.Equal(t, 1, metrics.TokenSubmissions[providers.OutcomeFailure])
	}
}
