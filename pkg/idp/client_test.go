package idp_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stainley/CareerLaunch/pkg/idp"
)

func newClient(t *testing.T, handler http.HandlerFunc) *idp.HTTPClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return idp.New(idp.Config{BaseURL: srv.URL})
}

func TestHTTPClient_Login(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("enrollment shape", func(t *testing.T) {
		t.Parallel()
		client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/auth/login", r.URL.Path)

			var creds idp.Credentials
			require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
			assert.Equal(t, "bob", creds.Username)

			_ = json.NewEncoder(w).Encode(map[string]string{
				"userId": "u1",
				"qrCode": "otpauth://totp/Career%20Launch:bob@example.com?secret=ABC",
			})
		})

		result, err := client.Login(ctx, idp.Credentials{Username: "bob", Password: "pw"})
		require.NoError(t, err)
		assert.Equal(t, idp.LoginEnrollment, result.Kind)
		assert.Equal(t, "u1", result.UserID)
		assert.Contains(t, result.ProvisioningURI, "otpauth://totp/")
	})

	t.Run("2fa required shape", func(t *testing.T) {
		t.Parallel()
		client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]string{"status": "2fa_required", "userId": "u1"})
		})

		result, err := client.Login(ctx, idp.Credentials{Username: "bob", Password: "pw"})
		require.NoError(t, err)
		assert.Equal(t, idp.LoginTwoFactorRequired, result.Kind)
		assert.Equal(t, "u1", result.UserID)
	})

	t.Run("reserved direct token shape", func(t *testing.T) {
		t.Parallel()
		client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]string{"token": "T1"})
		})

		result, err := client.Login(ctx, idp.Credentials{Username: "bob", Password: "pw"})
		require.NoError(t, err)
		assert.Equal(t, idp.LoginDirect, result.Kind)
		assert.Equal(t, "T1", result.Token)
	})

	t.Run("unrecognized 200 shape is a protocol violation", func(t *testing.T) {
		t.Parallel()
		client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]string{"surprise": "yes"})
		})

		_, err := client.Login(ctx, idp.Credentials{Username: "bob", Password: "pw"})
		assert.ErrorIs(t, err, idp.ErrProtocolViolation)
	})

	t.Run("401 maps to invalid credentials and keeps the message", func(t *testing.T) {
		t.Parallel()
		client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "bad credentials"})
		})

		_, err := client.Login(ctx, idp.Credentials{Username: "alice", Password: "wrong"})
		assert.ErrorIs(t, err, idp.ErrInvalidCredentials)
		assert.Contains(t, err.Error(), "bad credentials")
	})

	t.Run("401 not-activated maps to account not activated", func(t *testing.T) {
		t.Parallel()
		client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte("Account not activated"))
		})

		_, err := client.Login(ctx, idp.Credentials{Username: "carol", Password: "pw"})
		assert.ErrorIs(t, err, idp.ErrAccountNotActivated)
	})

	t.Run("5xx is transient", func(t *testing.T) {
		t.Parallel()
		client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})

		_, err := client.Login(ctx, idp.Credentials{Username: "bob", Password: "pw"})
		assert.ErrorIs(t, err, idp.ErrTransientNetwork)
	})

	t.Run("connection failure is transient", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.NotFoundHandler())
		srv.Close()
		client := idp.New(idp.Config{BaseURL: srv.URL})

		_, err := client.Login(ctx, idp.Credentials{Username: "bob", Password: "pw"})
		assert.ErrorIs(t, err, idp.ErrTransientNetwork)
	})
}

func TestHTTPClient_VerifyTwoFactor(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("success returns the token", func(t *testing.T) {
		t.Parallel()
		client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/auth/verify-2fa", r.URL.Path)

			var payload map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			assert.Equal(t, "u1", payload["userId"])
			assert.Equal(t, "123456", payload["code"])

			_ = json.NewEncoder(w).Encode(map[string]string{"token": "T1"})
		})

		token, err := client.VerifyTwoFactor(ctx, "u1", "123456")
		require.NoError(t, err)
		assert.Equal(t, "T1", token)
	})

	t.Run("400 maps to invalid code", func(t *testing.T) {
		t.Parallel()
		client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte("Invalid 2FA Code"))
		})

		_, err := client.VerifyTwoFactor(ctx, "u1", "000000")
		assert.ErrorIs(t, err, idp.ErrInvalidTOTPCode)
		assert.Contains(t, err.Error(), "Invalid 2FA Code")
	})

	t.Run("200 without token is a protocol violation", func(t *testing.T) {
		t.Parallel()
		client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]string{})
		})

		_, err := client.VerifyTwoFactor(ctx, "u1", "123456")
		assert.ErrorIs(t, err, idp.ErrProtocolViolation)
	})
}

func TestHTTPClient_UserInfo(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("decodes the profile", func(t *testing.T) {
		t.Parallel()
		client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/auth/userinfo", r.URL.Path)
			_ = json.NewEncoder(w).Encode(idp.UserProfile{
				Email:     "bob@example.com",
				FirstName: "Bob",
				Address:   idp.Address{City: "Toronto", Country: "CA"},
			})
		})

		profile, err := client.UserInfo(ctx)
		require.NoError(t, err)
		assert.Equal(t, "bob@example.com", profile.Email)
		assert.Equal(t, "Toronto", profile.Address.City)
	})

	t.Run("401 maps to unauthorized", func(t *testing.T) {
		t.Parallel()
		client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})

		_, err := client.UserInfo(ctx)
		assert.ErrorIs(t, err, idp.ErrUnauthorized)
	})
}

func TestHTTPClient_Signup(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("returns the enrollment payload", func(t *testing.T) {
		t.Parallel()
		client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/auth/signup", r.URL.Path)
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(idp.Enrollment{
				UserID:          "u9",
				ProvisioningURI: "otpauth://totp/Career%20Launch:new@example.com?secret=DEF",
			})
		})

		enrollment, err := client.Signup(ctx, "new@example.com", "pw12345678")
		require.NoError(t, err)
		assert.Equal(t, "u9", enrollment.UserID)
		assert.Contains(t, enrollment.ProvisioningURI, "otpauth://")
	})

	t.Run("rejection surfaces the provider message", func(t *testing.T) {
		t.Parallel()
		client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusConflict)
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "email already registered"})
		})

		_, err := client.Signup(ctx, "dup@example.com", "pw12345678")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "email already registered")
	})
}
