package ratelim

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
)

func ok(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	w.WriteHeader(http.StatusOK)
}

func hit(h httprouter.Handle, addr string) int {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = addr
	rec := httptest.NewRecorder()
	h(rec, req, nil)
	return rec.Code
}

func TestLimitPerClient(t *testing.T) {
	rl := NewRateLimiter(1, 2)
	frozen := time.Now()
	rl.now = func() time.Time { return frozen }
	h := rl.Limit(ok)

	assert.Equal(t, http.StatusOK, hit(h, "10.0.0.1:1000"))
	assert.Equal(t, http.StatusOK, hit(h, "10.0.0.1:1001"))
	assert.Equal(t, http.StatusTooManyRequests, hit(h, "10.0.0.1:1002"))
	assert.Equal(t, http.StatusOK, hit(h, "10.0.0.2:1000"), "other clients have their own bucket")

	frozen = frozen.Add(time.Second)
	assert.Equal(t, http.StatusOK, hit(h, "10.0.0.1:1003"), "bucket refills")
}

func TestCleanupForgetsIdleClients(t *testing.T) {
	rl := NewRateLimiter(0, 0)
	now := time.Now()
	rl.now = func() time.Time { return now }
	rl.allow("10.0.0.1")

	now = now.Add(time.Hour)
	rl.Cleanup()
	assert.Empty(t, rl.visitors)
}
