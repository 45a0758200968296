package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager() *Manager {
	return NewManager(Config{
		Secret:     "0123456789abcdef0123456789abcdef",
		CookieName: "sid",
		TTL:        time.Hour,
	})
}

func TestIssueAndRead(t *testing.T) {
	m := newTestManager()
	want := Session{UserID: "u1", UserName: "김학생", StudentID: "20240001", Email: "kim@example.com"}

	rec := httptest.NewRecorder()
	require.NoError(t, m.Issue(rec, want))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "sid", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])

	got, err := m.Read(req)
	require.NoError(t, err)
	assert.Equal(t, want, *got)
}

func TestRead_NoCookie(t *testing.T) {
	m := newTestManager()
	_, err := m.Read(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestParse_Expired(t *testing.T) {
	m := newTestManager()
	issued := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return issued }

	token, err := m.Sign(Session{UserID: "u1"})
	require.NoError(t, err)

	m.now = func() time.Time { return issued.Add(2 * time.Hour) }
	_, err = m.Parse(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestParse_WrongSecret(t *testing.T) {
	token, err := newTestManager().Sign(Session{UserID: "u1", IsAdmin: true})
	require.NoError(t, err)

	other := NewManager(Config{Secret: "ffffffffffffffffffffffffffffffff", CookieName: "sid", TTL: time.Hour})
	_, err = other.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParse_RejectsUnsignedToken(t *testing.T) {
	claims := Claims{Session: Session{UserID: "u1", IsAdmin: true}}
	claims.Issuer = issuer
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = newTestManager().Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestClear(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestManager().Clear(rec)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "", cookies[0].Value)
	assert.True(t, cookies[0].MaxAge < 0)
}

func TestContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := FromContext(req.Context())
	assert.False(t, ok)

	ctx := WithSession(req.Context(), &Session{UserID: "u1"})
	s, ok := FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "u1", s.UserID)
}
