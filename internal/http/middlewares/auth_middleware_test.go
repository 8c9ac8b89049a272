package middlewares_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/helpdeskhq/ticketdesk/internal/auth"
	"github.com/helpdeskhq/ticketdesk/internal/http/middlewares"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeVerifier struct {
	verifyFn func(token string) (*auth.Claims, error)
}

func (f *fakeVerifier) Verify(token string) (*auth.Claims, error) {
	if f.verifyFn != nil {
		return f.verifyFn(token)
	}

	return nil, errors.New("no verifier configured")
}

func setupProtectedRoute(v middlewares.TokenVerifier) *gin.Engine {
	r := gin.New()

	mw := middlewares.NewAuthMiddleware(v)

	r.GET("/protected", mw.RequireAuth(), func(c *gin.Context) {
		userID, _ := middlewares.UserIDFromContext(c)
		email, _ := middlewares.EmailFromContext(c)

		c.JSON(http.StatusOK, gin.H{"userId": userID, "email": email})
	})

	return r
}

func TestRequireAuth(t *testing.T) {
	validClaims := &auth.Claims{UserID: "user-1", Email: "sam@example.com"}

	tests := []struct {
		name           string
		header         string
		verifyFn       func(token string) (*auth.Claims, error)
		wantStatusCode int
		wantError      string
	}{
		{
			name:           "missing_header",
			header:         "",
			wantStatusCode: http.StatusUnauthorized,
			wantError:      "Unauthorized",
		},
		{
			name:           "wrong_scheme",
			header:         "Basic abc123",
			wantStatusCode: http.StatusUnauthorized,
			wantError:      "Unauthorized",
		},
		{
			name:           "empty_token",
			header:         "Bearer ",
			wantStatusCode: http.StatusUnauthorized,
			wantError:      "Unauthorized",
		},
		{
			name:   "invalid_token",
			header: "Bearer bad-token",
			verifyFn: func(token string) (*auth.Claims, error) {
				return nil, errors.New("signature mismatch")
			},
			wantStatusCode: http.StatusUnauthorized,
			wantError:      "Invalid token",
		},
		{
			name:   "valid_token",
			header: "Bearer good-token",
			verifyFn: func(token string) (*auth.Claims, error) {
				if token != "good-token" {
					t.Errorf("verifier got token %q, want %q", token, "good-token")
				}
				return validClaims, nil
			},
			wantStatusCode: http.StatusOK,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			r := setupProtectedRoute(&fakeVerifier{verifyFn: tt.verifyFn})

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)

			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}

			var body map[string]string

			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("failed to unmarshal body: %v", err)
			}

			if tt.wantError != "" {
				if body["error"] != tt.wantError {
					t.Errorf("got error %q, want %q", body["error"], tt.wantError)
				}
				return
			}

			if body["userId"] != validClaims.UserID || body["email"] != validClaims.Email {
				t.Errorf("identity not attached to context, body=%s", w.Body.String())
			}
		})
	}
}
