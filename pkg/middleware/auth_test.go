package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const testSecret = "test-jwt-secret"

func signToken(t *testing.T, claims jwt.RegisteredClaims, secret string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}

func TestAuth(t *testing.T) {
	userID := uuid.New()

	validClaims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		Audience:  jwt.ClaimStrings{"authenticated"},
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
		wantUserID bool
	}{
		{
			name:       "valid token",
			authHeader: "Bearer " + signToken(t, validClaims, testSecret),
			wantStatus: http.StatusOK,
			wantUserID: true,
		},
		{
			name:       "missing header",
			authHeader: "",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "malformed header",
			authHeader: "NotBearer abc",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong secret",
			authHeader: "Bearer " + signToken(t, validClaims, "other-secret"),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "expired token",
			authHeader: "Bearer " + signToken(t, jwt.RegisteredClaims{
				Subject:   userID.String(),
				Audience:  jwt.ClaimStrings{"authenticated"},
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			}, testSecret),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "wrong audience",
			authHeader: "Bearer " + signToken(t, jwt.RegisteredClaims{
				Subject:   userID.String(),
				Audience:  jwt.ClaimStrings{"anon"},
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			}, testSecret),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "subject is not a UUID",
			authHeader: "Bearer " + signToken(t, jwt.RegisteredClaims{
				Subject:   "not-a-uuid",
				Audience:  jwt.ClaimStrings{"authenticated"},
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			}, testSecret),
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotUserID uuid.UUID
			var gotOK bool
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUserID, gotOK = GetUserID(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest("GET", "/api/v1/groups", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			w := httptest.NewRecorder()

			Auth(testSecret)(next).ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if tt.wantUserID {
				if !gotOK || gotUserID != userID {
					t.Errorf("context user ID = %v (ok=%v), want %v", gotUserID, gotOK, userID)
				}
			}
		})
	}
}
