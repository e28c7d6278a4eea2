// AngelaMos | 2026
// auth_test.go

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/carterperez-dev/templates/tiered-events/internal/config"
	"github.com/carterperez-dev/templates/tiered-events/internal/core"
	"github.com/carterperez-dev/templates/tiered-events/internal/middleware"
)

func newTestManager(t *testing.T) *JWTManager {
	t.Helper()

	dir := t.TempDir()
	priv := filepath.Join(dir, "private.pem")
	pub := filepath.Join(dir, "public.pem")
	if err := GenerateKeyPair(priv, pub); err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}

	m, err := NewJWTManager(config.JWTConfig{
		PrivateKeyPath:     priv,
		PublicKeyPath:      pub,
		AccessTokenExpire:  15 * time.Minute,
		RefreshTokenExpire: 24 * time.Hour,
		Issuer:             "tiered-events-test",
		Audience:           "tiered-events-test",
	})
	if err != nil {
		t.Fatalf("NewJWTManager: %v", err)
	}
	return m
}

func TestAccessTokenRoundTrip(t *testing.T) {
	m := newTestManager(t)

	access, err := m.CreateAccessToken(&UserInfo{
		ID:           "user_1",
		Tier:         "gold",
		TokenVersion: 3,
	})
	if err != nil {
		t.Fatalf("CreateAccessToken: %v", err)
	}

	claims, err := m.ParseAccessToken(access.Token)
	if err != nil {
		t.Fatalf("ParseAccessToken: %v", err)
	}

	if claims.UserID != "user_1" || claims.Tier != "gold" || claims.TokenVersion != 3 {
		t.Errorf("claims = %+v", claims)
	}
	if claims.TokenID != access.ID {
		t.Errorf("TokenID = %q, want %q", claims.TokenID, access.ID)
	}
}

func TestParseAccessTokenExpired(t *testing.T) {
	m := newTestManager(t)

	issued := time.Now().Add(-time.Hour)
	m.now = func() time.Time { return issued }
	access, err := m.CreateAccessToken(&UserInfo{ID: "user_1", Tier: "free"})
	if err != nil {
		t.Fatalf("CreateAccessToken: %v", err)
	}

	m.now = time.Now
	_, err = m.ParseAccessToken(access.Token)
	if !errors.Is(err, core.ErrTokenExpired) {
		t.Fatalf("err = %v, want ErrTokenExpired", err)
	}
}

func TestParseAccessTokenRejectsForeignKey(t *testing.T) {
	signer := newTestManager(t)
	other := newTestManager(t)

	access, err := signer.CreateAccessToken(&UserInfo{ID: "user_1"})
	if err != nil {
		t.Fatalf("CreateAccessToken: %v", err)
	}

	if _, err := other.ParseAccessToken(access.Token); !errors.Is(err, core.ErrTokenInvalid) {
		t.Fatalf("err = %v, want ErrTokenInvalid", err)
	}
}

func publishedKeyIDs(t *testing.T, m *JWTManager) []string {
	t.Helper()

	rec := httptest.NewRecorder()
	m.JWKSHandler()(rec, httptest.NewRequest(http.MethodGet, "/.well-known/jwks.json", nil))

	var set struct {
		Keys []struct {
			Kid string `json:"kid"`
		} `json:"keys"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &set); err != nil {
		t.Fatalf("decode jwks: %v", err)
	}

	ids := make([]string, 0, len(set.Keys))
	for _, k := range set.Keys {
		ids = append(ids, k.Kid)
	}
	return ids
}

func TestKeyIDStableAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	priv := filepath.Join(dir, "private.pem")
	if err := GenerateKeyPair(priv, filepath.Join(dir, "public.pem")); err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}

	cfg := config.JWTConfig{PrivateKeyPath: priv, Issuer: "i", Audience: "a"}
	first, err := NewJWTManager(cfg)
	if err != nil {
		t.Fatalf("NewJWTManager: %v", err)
	}
	second, err := NewJWTManager(cfg)
	if err != nil {
		t.Fatalf("NewJWTManager: %v", err)
	}

	a, b := publishedKeyIDs(t, first), publishedKeyIDs(t, second)
	if len(a) != 1 || len(b) != 1 || a[0] == "" || a[0] != b[0] {
		t.Fatalf("kids differ for the same key: %v vs %v", a, b)
	}

	if other := publishedKeyIDs(t, newTestManager(t)); other[0] == a[0] {
		t.Errorf("different keys share kid %s", a[0])
	}
}

type memBlacklist map[string]bool

func (b memBlacklist) Add(_ context.Context, jti string, ttl time.Duration) error {
	if ttl > 0 {
		b[jti] = true
	}
	return nil
}

func (b memBlacklist) Contains(_ context.Context, jti string) (bool, error) {
	return b[jti], nil
}

type stubUsers struct {
	users map[string]*UserInfo
}

func (s *stubUsers) GetByEmail(_ context.Context, email string) (*UserInfo, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, core.ErrNotFound
}

func (s *stubUsers) GetByID(_ context.Context, id string) (*UserInfo, error) {
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, core.ErrNotFound
}

func (s *stubUsers) Create(_ context.Context, email, hash, name string) (*UserInfo, error) {
	u := &UserInfo{ID: "user_new", Email: email, PasswordHash: hash, Name: name, Tier: "free"}
	s.users[u.ID] = u
	return u, nil
}

func (s *stubUsers) IncrementTokenVersion(_ context.Context, id string) error {
	s.users[id].TokenVersion++
	return nil
}

func (s *stubUsers) UpdatePassword(_ context.Context, id, hash string) error {
	s.users[id].PasswordHash = hash
	return nil
}

func TestVerifier(t *testing.T) {
	m := newTestManager(t)
	users := &stubUsers{users: map[string]*UserInfo{
		"user_1": {ID: "user_1", Tier: "silver", TokenVersion: 1},
	}}

	issue := func(version int) *AccessToken {
		t.Helper()
		a, err := m.CreateAccessToken(&UserInfo{ID: "user_1", TokenVersion: version})
		if err != nil {
			t.Fatalf("CreateAccessToken: %v", err)
		}
		return a
	}

	t.Run("valid", func(t *testing.T) {
		v := NewVerifier(m, memBlacklist{}, users)
		if _, err := v.VerifyAccessToken(context.Background(), issue(1).Token); err != nil {
			t.Fatalf("VerifyAccessToken: %v", err)
		}
	})

	t.Run("blacklisted", func(t *testing.T) {
		a := issue(1)
		v := NewVerifier(m, memBlacklist{a.ID: true}, users)
		_, err := v.VerifyAccessToken(context.Background(), a.Token)
		if !errors.Is(err, core.ErrTokenRevoked) {
			t.Fatalf("err = %v, want ErrTokenRevoked", err)
		}
	})

	t.Run("stale token version", func(t *testing.T) {
		v := NewVerifier(m, memBlacklist{}, users)
		_, err := v.VerifyAccessToken(context.Background(), issue(0).Token)
		if !errors.Is(err, core.ErrTokenRevoked) {
			t.Fatalf("err = %v, want ErrTokenRevoked", err)
		}
	})

	t.Run("unknown account", func(t *testing.T) {
		v := NewVerifier(m, memBlacklist{}, &stubUsers{users: map[string]*UserInfo{}})
		_, err := v.VerifyAccessToken(context.Background(), issue(1).Token)
		if !errors.Is(err, core.ErrTokenInvalid) {
			t.Fatalf("err = %v, want ErrTokenInvalid", err)
		}
	})
}

type memRepo struct {
	byHash        map[string]*RefreshToken
	revokedFamily string
}

func newMemRepo() *memRepo {
	return &memRepo{byHash: map[string]*RefreshToken{}}
}

func (r *memRepo) Create(_ context.Context, token *RefreshToken) error {
	token.CreatedAt = time.Now()
	r.byHash[token.TokenHash] = token
	return nil
}

func (r *memRepo) FindByHash(_ context.Context, hash string) (*RefreshToken, error) {
	if t, ok := r.byHash[hash]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, core.ErrNotFound
}

func (r *memRepo) LockByHash(ctx context.Context, hash string) (*RefreshToken, error) {
	return r.FindByHash(ctx, hash)
}

func (r *memRepo) MarkAsUsed(_ context.Context, id, replacedByID string) error {
	for _, t := range r.byHash {
		if t.ID == id && !t.IsUsed {
			t.IsUsed = true
			t.ReplacedByID = &replacedByID
			return nil
		}
	}
	return core.ErrNotFound
}

func (r *memRepo) RevokeByID(_ context.Context, id string) error {
	for _, t := range r.byHash {
		if t.ID == id {
			now := time.Now()
			t.RevokedAt = &now
			return nil
		}
	}
	return core.ErrNotFound
}

func (r *memRepo) RevokeByFamilyID(_ context.Context, familyID string) error {
	r.revokedFamily = familyID
	return nil
}

func (r *memRepo) DeleteExpired(context.Context, time.Time) (int64, error) {
	return 0, nil
}

func newTestService(t *testing.T) (*Service, *memRepo, memBlacklist, *stubUsers) {
	t.Helper()

	hash, err := core.HashPassword("correct horse battery")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	repo := newMemRepo()
	blacklist := memBlacklist{}
	users := &stubUsers{users: map[string]*UserInfo{
		"user_1": {ID: "user_1", Email: "a@example.com", PasswordHash: hash, Tier: "gold"},
	}}
	inTx := func(_ context.Context, fn func(Repository) error) error {
		return fn(repo)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return NewService(repo, inTx, newTestManager(t), users, blacklist, logger), repo, blacklist, users
}

func TestLogin(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	resp, err := svc.Login(ctx, LoginRequest{
		Email:    "a@example.com",
		Password: "correct horse battery",
	}, ClientInfo{})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.User.Tier != "gold" || resp.Tokens.ExpiresIn != 900 {
		t.Errorf("resp = %+v", resp)
	}

	_, err = svc.Login(ctx, LoginRequest{Email: "a@example.com", Password: "wrong password"}, ClientInfo{})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password err = %v", err)
	}

	_, err = svc.Login(ctx, LoginRequest{Email: "nobody@example.com", Password: "whatever1"}, ClientInfo{})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email err = %v", err)
	}
}

func TestRefreshRotatesAndDetectsReuse(t *testing.T) {
	svc, repo, _, users := newTestService(t)
	ctx := context.Background()

	first, err := svc.Login(ctx, LoginRequest{
		Email:    "a@example.com",
		Password: "correct horse battery",
	}, ClientInfo{})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	second, err := svc.Refresh(ctx, first.Tokens.RefreshToken, ClientInfo{})
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if second.Tokens.RefreshToken == first.Tokens.RefreshToken {
		t.Fatal("refresh token was not rotated")
	}

	_, err = svc.Refresh(ctx, first.Tokens.RefreshToken, ClientInfo{})
	if !errors.Is(err, ErrTokenReuse) {
		t.Fatalf("reuse err = %v, want ErrTokenReuse", err)
	}
	if repo.revokedFamily == "" {
		t.Error("token family was not revoked")
	}
	if users.users["user_1"].TokenVersion != 1 {
		t.Errorf("token version = %d, want 1", users.users["user_1"].TokenVersion)
	}

	_, err = svc.Refresh(ctx, "never-issued", ClientInfo{})
	if !errors.Is(err, core.ErrTokenInvalid) {
		t.Errorf("unknown token err = %v, want ErrTokenInvalid", err)
	}
}

func TestLogoutBlacklistsAccessToken(t *testing.T) {
	svc, _, blacklist, _ := newTestService(t)
	ctx := context.Background()

	resp, err := svc.Login(ctx, LoginRequest{
		Email:    "a@example.com",
		Password: "correct horse battery",
	}, ClientInfo{})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	claims, err := svc.jwt.ParseAccessToken(resp.Tokens.AccessToken)
	if err != nil {
		t.Fatalf("ParseAccessToken: %v", err)
	}

	if err := svc.Logout(ctx, resp.Tokens.RefreshToken, claims); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if !blacklist[claims.TokenID] {
		t.Error("access token not blacklisted")
	}

	other := &middleware.AccessTokenClaims{UserID: "user_2", TokenID: "x", ExpiresAt: time.Now().Add(time.Minute)}
	second, err := svc.Login(ctx, LoginRequest{
		Email:    "a@example.com",
		Password: "correct horse battery",
	}, ClientInfo{})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if err := svc.Logout(ctx, second.Tokens.RefreshToken, other); !errors.Is(err, core.ErrForbidden) {
		t.Errorf("foreign logout err = %v, want ErrForbidden", err)
	}
}
