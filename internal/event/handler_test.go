// AngelaMos | 2026
// handler_test.go

package event

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/templates/tiered-events/internal/core"
	"github.com/carterperez-dev/templates/tiered-events/internal/middleware"
	"github.com/carterperez-dev/templates/tiered-events/internal/tier"
)

type tierResolverFunc func(ctx context.Context, id string) (tier.Tier, error)

func (f tierResolverFunc) EffectiveTier(ctx context.Context, id string) (tier.Tier, error) {
	return f(ctx, id)
}

type stubVerifier struct{}

func (stubVerifier) VerifyAccessToken(_ context.Context, token string) (*middleware.AccessTokenClaims, error) {
	if token != "good" {
		return nil, core.ErrTokenInvalid
	}
	// The claim says platinum; access must follow the resolver, not this.
	return &middleware.AccessTokenClaims{UserID: "user_1", Tier: "platinum"}, nil
}

func newTestHandler(repo Repository, resolver TierResolver) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	fetcher := NewFetcher(repo, DefaultRetryPolicy(),
		WithSleeper(func(context.Context, time.Duration) error { return nil }),
		WithLogger(logger),
	)

	r := chi.NewRouter()
	NewHandler(NewService(fetcher, resolver), logger).
		RegisterRoutes(r, middleware.Authenticator(stubVerifier{}))
	return r
}

func TestListEventsUnauthenticated(t *testing.T) {
	repo := &mockRepository{listFn: failThen(0, nil, nil)}
	resolved := false
	resolver := tierResolverFunc(func(context.Context, string) (tier.Tier, error) {
		resolved = true
		return tier.Free, nil
	})

	for _, token := range []string{"", "forged"} {
		req := httptest.NewRequest(http.MethodGet, "/events", nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		newTestHandler(repo, resolver).ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("token %q: status = %d, want 401", token, rec.Code)
		}
	}

	if repo.calls != 0 || resolved {
		t.Error("store reached without a verified session")
	}
}

func TestListEvents(t *testing.T) {
	day := time.Date(2026, 5, 1, 18, 0, 0, 0, time.UTC)
	events := []Event{
		{ID: "1", Title: "Gala", Tier: tier.Gold, EventDate: day},
		{ID: "2", Title: "Meetup", Tier: tier.Free, EventDate: day.AddDate(0, 0, 1)},
		{ID: "3", Title: "Workshop", Tier: tier.Silver, EventDate: day.AddDate(0, 0, 2)},
	}
	repo := &mockRepository{listFn: failThen(0, nil, events)}
	resolver := tierResolverFunc(func(_ context.Context, id string) (tier.Tier, error) {
		if id != "user_1" {
			t.Errorf("resolved id = %q", id)
		}
		return tier.Silver, nil
	})

	req := httptest.NewRequest(http.MethodGet, "/events", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: "good"})
	rec := httptest.NewRecorder()
	newTestHandler(repo, resolver).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}

	var resp ListingResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if resp.UserTier != tier.Silver || resp.TotalEvents != 3 {
		t.Errorf("userTier = %q totalEvents = %d", resp.UserTier, resp.TotalEvents)
	}
	if len(resp.Accessible) != 2 || resp.Accessible[0].ID != "2" || resp.Accessible[1].ID != "3" {
		t.Errorf("accessible = %+v", resp.Accessible)
	}
	if len(resp.NonAccessible) != 1 || resp.NonAccessible[0].ID != "1" {
		t.Fatalf("nonAccessible = %+v", resp.NonAccessible)
	}
	if resp.NonAccessible[0].UpgradeMessage != "Upgrade to Gold to access this event" {
		t.Errorf("upgrade message = %q", resp.NonAccessible[0].UpgradeMessage)
	}
}

func TestListEventsStoreFailure(t *testing.T) {
	repo := &mockRepository{listFn: failThen(100, errors.New("dial tcp 10.1.2.3:5432: refused"), nil)}
	resolver := tierResolverFunc(func(context.Context, string) (tier.Tier, error) {
		return tier.Free, nil
	})

	req := httptest.NewRequest(http.MethodGet, "/events", nil)
	req.Header.Set("Authorization", "Bearer good")
	rec := httptest.NewRecorder()
	newTestHandler(repo, resolver).ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if repo.calls != DefaultMaxAttempts {
		t.Errorf("calls = %d, want %d", repo.calls, DefaultMaxAttempts)
	}
	if strings.Contains(rec.Body.String(), "10.1.2.3") {
		t.Error("internal detail leaked")
	}
	if !strings.Contains(rec.Body.String(), "trouble loading events") {
		t.Errorf("body = %s", rec.Body)
	}
}

func TestListEventsUnknownEventTier(t *testing.T) {
	repo := &mockRepository{listFn: failThen(0, nil, []Event{{ID: "x", Tier: "bronze"}})}
	resolver := tierResolverFunc(func(context.Context, string) (tier.Tier, error) {
		return tier.Gold, nil
	})

	req := httptest.NewRequest(http.MethodGet, "/events", nil)
	req.Header.Set("Authorization", "Bearer good")
	rec := httptest.NewRecorder()
	newTestHandler(repo, resolver).ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
}

func TestRepositoryListOrdered(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	repo := NewRepository(sqlx.NewDb(db, "sqlmock"))
	now := time.Now()

	cols := []string{"id", "title", "description", "event_date", "image_url", "tier", "created_at", "updated_at"}
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY event_date ASC")).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("a", "First", "", now, "", "free", now, now).
			AddRow("b", "Second", "", now.Add(time.Hour), "", "gold", now, now))

	got, err := repo.ListOrdered(context.Background())
	if err != nil {
		t.Fatalf("ListOrdered: %v", err)
	}
	if len(got) != 2 || got[0].ID != "a" || got[1].Tier != tier.Gold {
		t.Errorf("events = %+v", got)
	}

	mock.ExpectQuery(regexp.QuoteMeta("FROM events")).
		WillReturnRows(sqlmock.NewRows(cols))

	empty, err := repo.ListOrdered(context.Background())
	if err != nil || empty == nil || len(empty) != 0 {
		t.Errorf("empty catalog = %v, %v", empty, err)
	}

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM events")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	if n, err := repo.Count(context.Background()); err != nil || n != 7 {
		t.Errorf("Count = %d, %v", n, err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}
