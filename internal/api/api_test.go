package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chirpylabs/chirpy/internal/auth"
	domainauth "github.com/chirpylabs/chirpy/internal/domain/auth"
	"github.com/chirpylabs/chirpy/internal/domain/chirp"
	"github.com/chirpylabs/chirpy/internal/domain/user"
	"github.com/chirpylabs/chirpy/internal/obs"
	pg "github.com/chirpylabs/chirpy/internal/repository/postgres"
	chirpsvc "github.com/chirpylabs/chirpy/internal/services/chirp"
	"github.com/chirpylabs/chirpy/internal/services/session"
	usersvc "github.com/chirpylabs/chirpy/internal/services/user"
)

const (
	testEmail    = "a@b.com"
	testPassword = "Secr3t!"
	testSecret   = "secret"
	testPolkaKey = "f271c81ff7084ee5b99a5091b42d486e"
)

type memUsers struct {
	rows map[uuid.UUID]*user.User
}

func (m *memUsers) Create(_ context.Context, u *user.User) error {
	for _, r := range m.rows {
		if r.Email == u.Email {
			return pg.ErrConflict
		}
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	m.rows[u.ID] = &cp
	return nil
}

func (m *memUsers) GetByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	u, ok := m.rows[id]
	if !ok {
		return nil, pg.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*user.User, error) {
	for _, u := range m.rows {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, pg.ErrNotFound
}

func (m *memUsers) Update(_ context.Context, u *user.User) error {
	if _, ok := m.rows[u.ID]; !ok {
		return pg.ErrNotFound
	}
	u.UpdatedAt = time.Now().UTC()
	cp := *u
	m.rows[u.ID] = &cp
	return nil
}

func (m *memUsers) UpgradeToRed(_ context.Context, id uuid.UUID) (*user.User, error) {
	u, ok := m.rows[id]
	if !ok {
		return nil, pg.ErrNotFound
	}
	u.IsChirpyRed = true
	cp := *u
	return &cp, nil
}

func (m *memUsers) DeleteAll(context.Context) error {
	m.rows = make(map[uuid.UUID]*user.User)
	return nil
}

type memTokens struct {
	rows map[string]*domainauth.RefreshToken
}

func (m *memTokens) Insert(_ context.Context, t *domainauth.RefreshToken) error {
	cp := *t
	m.rows[t.Token] = &cp
	return nil
}

func (m *memTokens) GetByToken(_ context.Context, token string) (*domainauth.RefreshToken, error) {
	t, ok := m.rows[token]
	if !ok {
		return nil, domainauth.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *memTokens) SetRevoked(_ context.Context, token string, at time.Time) error {
	if t, ok := m.rows[token]; ok && t.RevokedAt == nil {
		t.RevokedAt = &at
	}
	return nil
}

type memChirps struct {
	rows map[uuid.UUID]*chirp.Chirp
}

func (m *memChirps) Create(_ context.Context, c *chirp.Chirp) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.CreatedAt = time.Now().UTC()
	c.UpdatedAt = c.CreatedAt
	cp := *c
	m.rows[c.ID] = &cp
	return nil
}

func (m *memChirps) GetByID(_ context.Context, id uuid.UUID) (*chirp.Chirp, error) {
	c, ok := m.rows[id]
	if !ok {
		return nil, pg.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *memChirps) List(_ context.Context, authorID *uuid.UUID) ([]*chirp.Chirp, error) {
	var out []*chirp.Chirp
	for _, c := range m.rows {
		if authorID == nil || c.UserID == *authorID {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memChirps) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.rows[id]; !ok {
		return pg.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

type fixture struct {
	api     *API
	handler http.Handler
	users   *memUsers
	tokens  *memTokens
	metrics *obs.Metrics
	userID  uuid.UUID
}

func newFixture(t *testing.T, platform string) *fixture {
	t.Helper()

	hash, err := auth.HashPassword(testPassword)
	require.NoError(t, err)

	users := &memUsers{rows: make(map[uuid.UUID]*user.User)}
	u := &user.User{Email: testEmail, HashedPassword: hash}
	require.NoError(t, users.Create(context.Background(), u))

	tokens := &memTokens{rows: make(map[string]*domainauth.RefreshToken)}
	chirps := &memChirps{rows: make(map[uuid.UUID]*chirp.Chirp)}

	store := auth.NewRefreshTokenStore(tokens, nil)
	sessions := session.New(users, store, session.Config{
		JWTSecret:  []byte(testSecret),
		AccessTTL:  time.Hour,
		RefreshTTL: 60 * 24 * time.Hour,
	}, nil)

	metrics := obs.NewMetrics(prometheus.NewRegistry())

	a := New(sessions, usersvc.New(users), chirpsvc.New(chirps), metrics, Opts{
		JWTSecret: []byte(testSecret),
		Platform:  platform,
		PolkaKey:  testPolkaKey,
		StaticDir: t.TempDir(),
	})
	return &fixture{
		api:     a,
		handler: a.Routes(),
		users:   users,
		tokens:  tokens,
		metrics: metrics,
		userID:  u.ID,
	}
}

func (f *fixture) do(t *testing.T, method, path, body string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func bearer(token string) http.Header {
	return http.Header{"Authorization": []string{"Bearer " + token}}
}

func (f *fixture) login(t *testing.T) (access, refresh string) {
	t.Helper()
	rec := f.do(t, http.MethodPost, "/api/login",
		`{"email":"`+testEmail+`","password":"`+testPassword+`"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Token        string `json:"token"`
		RefreshToken string `json:"refreshToken"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Token, resp.RefreshToken
}

func TestLoginHandler(t *testing.T) {
	f := newFixture(t, "dev")

	rec := f.do(t, http.MethodPost, "/api/login",
		`{"email":"`+testEmail+`","password":"`+testPassword+`"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, testEmail, resp["email"])
	assert.NotEmpty(t, resp["token"])
	assert.Regexp(t, `^[0-9a-f]{64}$`, resp["refreshToken"])
	assert.NotContains(t, resp, "hashedPassword")

	sub, err := auth.ValidateJWT(resp["token"].(string), []byte(testSecret))
	require.NoError(t, err)
	assert.Equal(t, f.userID.String(), sub)

	row, ok := f.tokens.rows[resp["refreshToken"].(string)]
	require.True(t, ok)
	assert.Nil(t, row.RevokedAt)
}

func TestLoginHandler_BadCredentials(t *testing.T) {
	f := newFixture(t, "dev")

	wrongPass := f.do(t, http.MethodPost, "/api/login",
		`{"email":"`+testEmail+`","password":"nope"}`, nil)
	unknown := f.do(t, http.MethodPost, "/api/login",
		`{"email":"nobody@b.com","password":"nope"}`, nil)

	assert.Equal(t, http.StatusUnauthorized, wrongPass.Code)
	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	// Unknown email and wrong password are indistinguishable.
	assert.Equal(t, wrongPass.Body.String(), unknown.Body.String())
}

func TestLoginHandler_MissingFields(t *testing.T) {
	f := newFixture(t, "dev")

	rec := f.do(t, http.MethodPost, "/api/login", `{"email":"`+testEmail+`"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRefreshHandler(t *testing.T) {
	f := newFixture(t, "dev")
	_, refresh := f.login(t)

	rec := f.do(t, http.MethodPost, "/api/refresh", "", bearer(refresh))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	sub, err := auth.ValidateJWT(resp.Token, []byte(testSecret))
	require.NoError(t, err)
	assert.Equal(t, f.userID.String(), sub)
}

func TestRefreshHandler_UniformFailures(t *testing.T) {
	f := newFixture(t, "dev")
	_, refresh := f.login(t)

	// Revoked, expired and never-issued tokens produce the exact same
	// response; the caller cannot tell which case it hit.
	f.do(t, http.MethodPost, "/api/revoke", "", bearer(refresh))
	revoked := f.do(t, http.MethodPost, "/api/refresh", "", bearer(refresh))

	_, expired := f.login(t)
	f.tokens.rows[expired].ExpiresAt = time.Now().UTC().Add(-time.Second)
	expiredRec := f.do(t, http.MethodPost, "/api/refresh", "", bearer(expired))

	unknownRec := f.do(t, http.MethodPost, "/api/refresh", "",
		bearer("deadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeef"))
	missingRec := f.do(t, http.MethodPost, "/api/refresh", "", nil)

	for _, rec := range []*httptest.ResponseRecorder{revoked, expiredRec, unknownRec, missingRec} {
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, revoked.Body.String(), rec.Body.String())
	}
}

func TestRevokeHandler(t *testing.T) {
	f := newFixture(t, "dev")
	_, refresh := f.login(t)

	rec := f.do(t, http.MethodPost, "/api/revoke", "", bearer(refresh))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	require.NotNil(t, f.tokens.rows[refresh].RevokedAt)

	// Second revoke and revoking a never-issued token both succeed.
	rec = f.do(t, http.MethodPost, "/api/revoke", "", bearer(refresh))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = f.do(t, http.MethodPost, "/api/revoke", "",
		bearer("0000000000000000000000000000000000000000000000000000000000000000"))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Len(t, f.tokens.rows, 1)
}

func TestCreateChirpHandler(t *testing.T) {
	f := newFixture(t, "dev")
	access, _ := f.login(t)

	rec := f.do(t, http.MethodPost, "/api/chirps",
		`{"body":"I hear Mastodon is better than Chirpy. sharbert I need to migrate"}`, bearer(access))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp chirpResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "I hear Mastodon is better than Chirpy. **** I need to migrate", resp.Body)
	assert.Equal(t, f.userID, resp.UserID)
}

func TestCreateChirpHandler_Unauthenticated(t *testing.T) {
	f := newFixture(t, "dev")

	noHeader := f.do(t, http.MethodPost, "/api/chirps", `{"body":"hi"}`, nil)
	badToken := f.do(t, http.MethodPost, "/api/chirps", `{"body":"hi"}`, bearer("garbage"))
	wrongScheme := f.do(t, http.MethodPost, "/api/chirps", `{"body":"hi"}`,
		http.Header{"Authorization": []string{"Basic abc"}})

	for _, rec := range []*httptest.ResponseRecorder{noHeader, badToken, wrongScheme} {
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	}
}

func TestCreateChirpHandler_TooLong(t *testing.T) {
	f := newFixture(t, "dev")
	access, _ := f.login(t)

	rec := f.do(t, http.MethodPost, "/api/chirps",
		`{"body":"`+strings.Repeat("a", 141)+`"}`, bearer(access))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetChirpHandler_NotFound(t *testing.T) {
	f := newFixture(t, "dev")

	rec := f.do(t, http.MethodGet, "/api/chirps/"+uuid.NewString(), "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteChirpHandler_Forbidden(t *testing.T) {
	f := newFixture(t, "dev")
	access, _ := f.login(t)

	rec := f.do(t, http.MethodPost, "/api/chirps", `{"body":"mine"}`, bearer(access))
	require.Equal(t, http.StatusCreated, rec.Code)
	var created chirpResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	// A different user cannot delete it.
	other := f.do(t, http.MethodPost, "/api/users", `{"email":"x@y.com","password":"pw123456"}`, nil)
	require.Equal(t, http.StatusCreated, other.Code)
	otherLogin := f.do(t, http.MethodPost, "/api/login", `{"email":"x@y.com","password":"pw123456"}`, nil)
	require.Equal(t, http.StatusOK, otherLogin.Code)
	var ol struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(otherLogin.Body.Bytes(), &ol))

	rec = f.do(t, http.MethodDelete, "/api/chirps/"+created.ID.String(), "", bearer(ol.Token))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(t, http.MethodDelete, "/api/chirps/"+created.ID.String(), "", bearer(access))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestCreateUserHandler(t *testing.T) {
	f := newFixture(t, "dev")

	rec := f.do(t, http.MethodPost, "/api/users", `{"email":"new@b.com","password":"pw123456"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "new@b.com", resp["email"])
	assert.Equal(t, false, resp["isChirpyRed"])
	assert.NotContains(t, resp, "hashedPassword")

	// Duplicate email conflicts.
	rec = f.do(t, http.MethodPost, "/api/users", `{"email":"new@b.com","password":"pw123456"}`, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestPolkaWebhook(t *testing.T) {
	f := newFixture(t, "dev")

	body := `{"event":"user.upgraded","data":{"userId":"` + f.userID.String() + `"}}`
	key := http.Header{"Authorization": []string{"ApiKey " + testPolkaKey}}

	// Wrong key is rejected before any side effect.
	rec := f.do(t, http.MethodPost, "/api/polka/webhooks", body,
		http.Header{"Authorization": []string{"ApiKey wrong"}})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, f.users.rows[f.userID].IsChirpyRed)

	// Unknown events are acknowledged and ignored.
	rec = f.do(t, http.MethodPost, "/api/polka/webhooks",
		`{"event":"user.downgraded","data":{"userId":"`+f.userID.String()+`"}}`, key)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.False(t, f.users.rows[f.userID].IsChirpyRed)

	rec = f.do(t, http.MethodPost, "/api/polka/webhooks", body, key)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.True(t, f.users.rows[f.userID].IsChirpyRed)

	// Unknown user.
	rec = f.do(t, http.MethodPost, "/api/polka/webhooks",
		`{"event":"user.upgraded","data":{"userId":"`+uuid.NewString()+`"}}`, key)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminReset_PlatformGate(t *testing.T) {
	f := newFixture(t, "prod")

	rec := f.do(t, http.MethodPost, "/admin/reset", "", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.NotEmpty(t, f.users.rows)
}

func TestAdminMetrics(t *testing.T) {
	f := newFixture(t, "dev")

	f.metrics.IncFileserverHits()
	f.metrics.IncFileserverHits()

	rec := f.do(t, http.MethodGet, "/admin/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "visited 2 times")

	reset := f.do(t, http.MethodPost, "/admin/reset", "", nil)
	require.Equal(t, http.StatusOK, reset.Code)

	rec = f.do(t, http.MethodGet, "/admin/metrics", "", nil)
	assert.Contains(t, rec.Body.String(), "visited 0 times")
}

func TestReadiness(t *testing.T) {
	f := newFixture(t, "dev")

	rec := f.do(t, http.MethodGet, "/api/healthz", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}
