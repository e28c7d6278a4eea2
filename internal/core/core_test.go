// AngelaMos | 2026
// core_test.go

package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery")
	if err != nil {
		t.Fatalf("HashPassword() error: %v", err)
	}

	valid, stale, err := VerifyPassword("correct horse battery", hash)
	if err != nil || !valid || stale {
		t.Fatalf("VerifyPassword(match) = %v, %v, %v", valid, stale, err)
	}

	valid, _, err = VerifyPassword("wrong", hash)
	if err != nil || valid {
		t.Fatalf("VerifyPassword(mismatch) = %v, %v", valid, err)
	}

	if _, _, err := VerifyPassword("x", "$bcrypt$nope"); !errors.Is(err, errMalformedHash) {
		t.Errorf("malformed hash error = %v", err)
	}
}

func TestVerifyPasswordTimingSafeMissingHash(t *testing.T) {
	valid, rehash, err := VerifyPasswordTimingSafe("anything", nil)
	if valid || rehash != "" || err != nil {
		t.Errorf("nil hash = %v, %q, %v", valid, rehash, err)
	}
}

func TestTokenHash(t *testing.T) {
	token, err := GenerateSecureToken(32)
	if err != nil {
		t.Fatal(err)
	}

	if HashToken(token) != HashToken(token) {
		t.Error("hash is not deterministic")
	}
	if HashToken(token+"x") == HashToken(token) {
		t.Error("different tokens hash equal")
	}
	if len(HashToken(token)) != 64 {
		t.Errorf("hash length = %d", len(HashToken(token)))
	}
}

func TestJSONErrorEnvelope(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"unauthorized", UnauthorizedError(""), http.StatusUnauthorized, "UNAUTHORIZED"},
		{"validation", ValidationError("INVALID_TIER", "bad tier"), http.StatusBadRequest, "INVALID_TIER"},
		{"wrapped app error", fmt.Errorf("ctx: %w", NotFoundError("user")), http.StatusNotFound, "NOT_FOUND"},
		{"plain error", errors.New("pq: connection refused"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			JSONError(rec, tt.err)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			var body ErrorResponse
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Success {
				t.Error("success should be false")
			}
			if body.Error.Code != tt.wantCode {
				t.Errorf("code = %s, want %s", body.Error.Code, tt.wantCode)
			}
		})
	}
}

func TestInternalServerErrorDoesNotLeak(t *testing.T) {
	rec := httptest.NewRecorder()
	InternalServerError(rec, errors.New("dial tcp 10.0.0.5:5432: secret detail"))

	if strings.Contains(rec.Body.String(), "10.0.0.5") {
		t.Errorf("internal detail leaked: %s", rec.Body.String())
	}
}

func TestTierValidationTag(t *testing.T) {
	type body struct {
		NewTier string `validate:"required,tier"`
	}

	v := NewValidator()

	if err := v.Struct(body{NewTier: "gold"}); err != nil {
		t.Errorf("gold should validate: %v", err)
	}

	err := v.Struct(body{NewTier: "bronze"})
	if err == nil {
		t.Fatal("bronze should fail validation")
	}

	msg := FormatValidationError(err)
	if !strings.Contains(msg, "free, silver, gold, platinum") {
		t.Errorf("message = %q", msg)
	}
}
