package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jatinsharma1322660/Bit-Coin-Prediction/internal/session"
)

const testCookie = "btcdash_session"

func sessionHandler(store *session.Store, seen *[]*session.Session) http.Handler {
	return Sessions(store, SessionConfig{CookieName: testCookie, Logger: discardLogger()})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, ok := SessionFromContext(r.Context())
			if ok {
				*seen = append(*seen, sess)
			}
		}))
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == testCookie {
			return c
		}
	}
	t.Fatalf("no %s cookie set", testCookie)
	return nil
}

func TestSessions_CreatesAndReuses(t *testing.T) {
	store := session.NewStore(30 * time.Minute)
	var seen []*session.Session
	handler := sessionHandler(store, &seen)

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/api/views", nil))
	cookie := sessionCookie(t, first)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, 1800, cookie.MaxAge)
	assert.Equal(t, 1, store.Len())

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard/overview", nil)
	req.AddCookie(&http.Cookie{Name: testCookie, Value: cookie.Value})
	handler.ServeHTTP(httptest.NewRecorder(), req)

	require.Len(t, seen, 2)
	assert.Same(t, seen[0], seen[1])
	assert.Equal(t, cookie.Value, seen[0].ID)
	assert.Equal(t, 1, store.Len())
}

func TestSessions_UnknownCookie(t *testing.T) {
	store := session.NewStore(time.Minute)
	var seen []*session.Session
	handler := sessionHandler(store, &seen)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: testCookie, Value: "stale-id"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Len(t, seen, 1)
	assert.NotEqual(t, "stale-id", seen[0].ID)
	assert.Equal(t, seen[0].ID, sessionCookie(t, rec).Value)
}

func TestSessions_IsolatedPerCookie(t *testing.T) {
	store := session.NewStore(time.Minute)
	var seen []*session.Session
	handler := sessionHandler(store, &seen)

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	require.Len(t, seen, 2)
	assert.NotEqual(t, seen[0].ID, seen[1].ID)
	assert.Equal(t, 2, store.Len())
}

func TestSessionFromContext_Missing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := SessionFromContext(req.Context())
	assert.False(t, ok)
}
