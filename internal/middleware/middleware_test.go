package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/table-reservation/internal/config"
	"github.com/iliyamo/table-reservation/internal/utils"
)

const secret = "s3cret"

func token(t *testing.T, role string) string {
	t.Helper()
	tok, err := utils.NewAccessToken(secret, utils.Claims{Subject: "u1", Email: "host@example.com", Role: role}, time.Minute)
	require.NoError(t, err)
	return tok.Token
}

func serve(e *echo.Echo, method, path, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestJWTAuthAndRoles(t *testing.T) {
	t.Parallel()

	e := echo.New()
	g := e.Group("", JWTAuth(secret))
	g.GET("/view", func(c echo.Context) error { return c.String(http.StatusOK, Actor(c)) }, RequireRole(ViewRoles...))
	g.POST("/edit", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }, RequireRole(EditRoles...))

	tests := map[string]struct {
		method, bearer string
		want           int
	}{
		"no token":      {http.MethodGet, "", http.StatusUnauthorized},
		"garbage token": {http.MethodGet, "abc.def.ghi", http.StatusUnauthorized},
		"reader views":  {http.MethodGet, token(t, RoleReader), http.StatusOK},
		"reader edits":  {http.MethodPost, token(t, RoleReader), http.StatusForbidden},
		"editor edits":  {http.MethodPost, token(t, RoleEditor), http.StatusNoContent},
		"unknown role":  {http.MethodGet, token(t, "guest"), http.StatusForbidden},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			path := "/view"
			if tc.method == http.MethodPost {
				path = "/edit"
			}
			rec := serve(e, tc.method, path, tc.bearer)
			assert.Equal(t, tc.want, rec.Code, rec.Body.String())
		})
	}

	rec := serve(e, http.MethodGet, "/view", token(t, RoleAdmin))
	assert.Equal(t, "host@example.com", rec.Body.String())
}

func newRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestTokenBucketBlocksAfterCapacity(t *testing.T) {
	t.Parallel()

	cfg := config.RateLimitConfig{
		Enabled: true, Capacity: 2, RefillTokens: 1, RefillInterval: time.Hour,
		TTL: 2 * time.Hour, KeyStrategy: "ip_route", Prefix: "rl",
	}
	e := echo.New()
	e.GET("/r/:code", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, NewTokenBucket(cfg, newRedis(t)))

	assert.Equal(t, http.StatusOK, serve(e, http.MethodGet, "/r/AAAAAA", "").Code)
	rec := serve(e, http.MethodGet, "/r/BBBBBB", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))

	rec = serve(e, http.MethodGet, "/r/CCCCCC", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestTokenBucketDisabledWithoutRedis(t *testing.T) {
	t.Parallel()

	cfg := config.RateLimitConfig{Enabled: true, Capacity: 1}
	e := echo.New()
	e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, NewTokenBucket(cfg, nil))
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, serve(e, http.MethodGet, "/", "").Code)
	}
}

func TestRedisCache(t *testing.T) {
	t.Parallel()

	cfg := config.CacheConfig{Enabled: true, Methods: map[string]bool{"GET": true}, TTL: time.Minute, Prefix: "cache", MaxBodyBytes: 1 << 10}
	calls := 0
	e := echo.New()
	e.GET("/rooms", func(c echo.Context) error {
		calls++
		return c.JSON(http.StatusOK, echo.Map{"rooms": 5})
	}, NewRedisCache(cfg, newRedis(t)))

	first := serve(e, http.MethodGet, "/rooms", "")
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))
	second := serve(e, http.MethodGet, "/rooms", "")
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, http.StatusOK, second.Code)
	assert.JSONEq(t, first.Body.String(), second.Body.String())
	assert.Equal(t, echo.MIMEApplicationJSON, second.Header().Get(echo.HeaderContentType))
	assert.Equal(t, 1, calls)
}

func TestPayloadRoundTrip(t *testing.T) {
	t.Parallel()

	h := http.Header{"Content-Type": {"application/json"}}
	bs, err := encodePayload(http.StatusOK, h, []byte(`{"a":1}`))
	require.NoError(t, err)
	status, got, body, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, h, got)
	assert.Equal(t, `{"a":1}`, string(body))

	_, _, _, ok = decodePayload([]byte{0, 1})
	assert.False(t, ok)
}
