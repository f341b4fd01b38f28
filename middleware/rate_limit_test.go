package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkpost/comments/utils"
)

func TestOpLimiterWindowBoundary(t *testing.T) {
	limiter := NewOpLimiter(10, 15*time.Minute)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 10; i++ {
		assert.True(t, limiter.AllowAt("10.0.0.1", now), "request %d should pass", i+1)
	}
	// The 11th request inside the window is rejected.
	assert.False(t, limiter.AllowAt("10.0.0.1", now))

	// A different address is unaffected.
	assert.True(t, limiter.AllowAt("10.0.0.2", now))
}

func TestOpLimiterRecoversAfterWindow(t *testing.T) {
	limiter := NewOpLimiter(10, 15*time.Minute)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 10; i++ {
		require.True(t, limiter.AllowAt("10.0.0.1", now))
	}
	require.False(t, limiter.AllowAt("10.0.0.1", now))

	// Budget trickles back as the window slides.
	assert.True(t, limiter.AllowAt("10.0.0.1", now.Add(2*time.Minute)))

	// A full quiet window restores the whole budget.
	later := now.Add(30 * time.Minute)
	for i := 0; i < 9; i++ {
		assert.True(t, limiter.AllowAt("10.0.0.1", later), "request %d after quiet window", i+1)
	}
}

func TestOpLimiterKindsAreIndependent(t *testing.T) {
	creates := NewOpLimiter(2, 15*time.Minute)
	deletes := NewOpLimiter(3, 15*time.Minute)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	require.True(t, creates.AllowAt("10.0.0.1", now))
	require.True(t, creates.AllowAt("10.0.0.1", now))
	require.False(t, creates.AllowAt("10.0.0.1", now))

	// Exhausting the creation budget leaves deletions untouched.
	assert.True(t, deletes.AllowAt("10.0.0.1", now))
}

func TestOpLimiterSweepsIdleEntries(t *testing.T) {
	limiter := NewOpLimiter(10, 15*time.Minute)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	limiter.AllowAt("10.0.0.1", now)
	limiter.AllowAt("10.0.0.2", now)
	require.Len(t, limiter.entries, 2)

	limiter.AllowAt("10.0.0.3", now.Add(entryTTL+time.Minute))
	assert.Len(t, limiter.entries, 1)
}

func TestRateGatePerRouteBudgets(t *testing.T) {
	gin.SetMode(gin.TestMode)

	// Each gated route carries its own limiter, so traffic against one
	// route never drains another route's budget for the same address.
	r := gin.New()
	r.POST("/comments", RateGate(NewOpLimiter(10, 15*time.Minute), "slow down"), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})
	r.POST("/guestbook", RateGate(NewOpLimiter(10, 15*time.Minute), "slow down"), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	do := func(path string) int {
		req := httptest.NewRequest(http.MethodPost, path, nil)
		req.RemoteAddr = "10.0.0.1:4000"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	for i := 0; i < 5; i++ {
		require.Equal(t, http.StatusCreated, do("/guestbook"), "guestbook post %d", i+1)
	}
	// The full comment budget is still available afterwards.
	for i := 0; i < 10; i++ {
		assert.Equal(t, http.StatusCreated, do("/comments"), "comment post %d", i+1)
	}
	assert.Equal(t, http.StatusTooManyRequests, do("/comments"))
}

func TestRateGateRejectsWithRateLimited(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.POST("/comments", RateGate(NewOpLimiter(2, 15*time.Minute), "slow down"), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	do := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/comments", nil)
		req.RemoteAddr = "10.0.0.1:4000"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusCreated, do().Code)
	assert.Equal(t, http.StatusCreated, do().Code)

	w := do()
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	var resp utils.JSONResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, utils.KindRateLimited, resp.Error)
	assert.Equal(t, "slow down", resp.Message)
}
