package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/kongbun/internal/auth"
)

func TestRequireAdmin(t *testing.T) {
	tests := []struct {
		name    string
		ctx     context.Context
		wantErr error
	}{
		{name: "Admin", ctx: auth.WithContext(context.Background(), auth.Context{Subject: "a", Role: auth.RoleAdmin})},
		{name: "User", ctx: auth.WithContext(context.Background(), auth.Context{Subject: "u", Role: auth.RoleUser}), wantErr: auth.ErrForbidden},
		{name: "Anonymous", ctx: context.Background(), wantErr: auth.ErrUnauthenticated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := auth.RequireAdmin(tt.ctx)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestVerifier(t *testing.T) {
	v := auth.NewVerifier("secret", "kongbun")

	token, err := v.Issue("admin-1", auth.RoleAdmin, time.Hour)
	require.NoError(t, err)

	c, err := v.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, auth.Context{Subject: "admin-1", Role: auth.RoleAdmin}, c)

	t.Run("WrongSecret", func(t *testing.T) {
		_, err := auth.NewVerifier("other", "kongbun").Verify(token)
		assert.ErrorIs(t, err, auth.ErrUnauthenticated)
	})

	t.Run("WrongIssuer", func(t *testing.T) {
		_, err := auth.NewVerifier("secret", "elsewhere").Verify(token)
		assert.ErrorIs(t, err, auth.ErrUnauthenticated)
	})

	t.Run("Expired", func(t *testing.T) {
		expired, err := v.Issue("admin-1", auth.RoleAdmin, -time.Minute)
		require.NoError(t, err)

		_, err = v.Verify(expired)
		assert.ErrorIs(t, err, auth.ErrUnauthenticated)
	})

	t.Run("UnknownRole", func(t *testing.T) {
		claims := auth.Claims{
			Role: "owner",
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
				Issuer:    "kongbun",
			},
		}
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
		require.NoError(t, err)

		_, err = v.Verify(signed)
		assert.ErrorIs(t, err, auth.ErrUnauthenticated)
	})
}

func TestMiddleware(t *testing.T) {
	v := auth.NewVerifier("secret", "")
	token, err := v.Issue("user-1", auth.RoleUser, time.Hour)
	require.NoError(t, err)

	var got auth.Context

	h := auth.Middleware(v)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = auth.FromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{name: "Valid", header: "Bearer " + token, want: http.StatusNoContent},
		{name: "Missing", header: "", want: http.StatusUnauthorized},
		{name: "Garbage", header: "Bearer nope", want: http.StatusUnauthorized},
		{name: "WrongScheme", header: "Basic " + token, want: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
		})
	}

	assert.Equal(t, auth.Context{Subject: "user-1", Role: auth.RoleUser}, got)
}
