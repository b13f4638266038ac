package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	redrepo "github.com/TomShtern/Date-Program-sub013/internal/repo/redis"
	authsvc "github.com/TomShtern/Date-Program-sub013/internal/services/auth"
)

func newAuthService(t *testing.T) *authsvc.Service {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	jwtManager := authsvc.NewJWTManager("test-secret", 15*time.Minute)
	return authsvc.NewService(jwtManager, redrepo.NewSessionRepo(client), "login-secret", 30*24*time.Hour)
}

func TestLoginIssuesTokens(t *testing.T) {
	svc := newAuthService(t)

	result, err := svc.Login(context.Background(), 101, "login-secret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if result.UserID != 101 {
		t.Fatalf("unexpected user id: %d", result.UserID)
	}
	if result.AccessToken == "" || result.RefreshToken == "" {
		t.Fatalf("login must return both tokens: %+v", result)
	}
	// 32 random bytes, hex encoded.
	if len(result.RefreshToken) != 64 {
		t.Fatalf("unexpected refresh token length: %d", len(result.RefreshToken))
	}

	identity, err := svc.ValidateAccessToken(context.Background(), result.AccessToken)
	if err != nil {
		t.Fatalf("validate access token: %v", err)
	}
	if identity.UserID != 101 {
		t.Fatalf("unexpected identity: %+v", identity)
	}
}

func TestLoginRejectsWrongSecret(t *testing.T) {
	svc := newAuthService(t)

	if _, err := svc.Login(context.Background(), 101, "not-the-secret"); !errors.Is(err, authsvc.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestLoginRejectsWhenSecretUnconfigured(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	svc := authsvc.NewService(authsvc.NewJWTManager("test-secret", time.Minute), redrepo.NewSessionRepo(client), "", time.Hour)

	// An empty configured secret means login is disabled, even for an empty
	// presented secret.
	if _, err := svc.Login(context.Background(), 101, ""); !errors.Is(err, authsvc.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestRefreshRotatesToken(t *testing.T) {
	svc := newAuthService(t)

	ctx := context.Background()
	login, err := svc.Login(ctx, 101, "login-secret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	refreshed, err := svc.Refresh(ctx, login.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if refreshed.UserID != 101 {
		t.Fatalf("unexpected user id after refresh: %d", refreshed.UserID)
	}
	if refreshed.RefreshToken == login.RefreshToken {
		t.Fatalf("refresh must rotate the token")
	}

	// The old refresh token is dead after rotation.
	if _, err := svc.Refresh(ctx, login.RefreshToken); !errors.Is(err, authsvc.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for the rotated-out token, got %v", err)
	}

	// The new one still works.
	if _, err := svc.Refresh(ctx, refreshed.RefreshToken); err != nil {
		t.Fatalf("refresh with rotated token: %v", err)
	}
}

func TestRefreshUnknownToken(t *testing.T) {
	svc := newAuthService(t)

	if _, err := svc.Refresh(context.Background(), "no-such-token"); !errors.Is(err, authsvc.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestLogoutRevokesAccessToken(t *testing.T) {
	svc := newAuthService(t)

	ctx := context.Background()
	login, err := svc.Login(ctx, 101, "login-secret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	identity, err := svc.ValidateAccessToken(ctx, login.AccessToken)
	if err != nil {
		t.Fatalf("validate before logout: %v", err)
	}

	if err := svc.Logout(ctx, identity.SID); err != nil {
		t.Fatalf("logout: %v", err)
	}

	if _, err := svc.ValidateAccessToken(ctx, login.AccessToken); !errors.Is(err, authsvc.ErrUnauthorized) {
		t.Fatalf("access token must be dead after logout, got %v", err)
	}
	if _, err := svc.Refresh(ctx, login.RefreshToken); !errors.Is(err, authsvc.ErrUnauthorized) {
		t.Fatalf("refresh token must be dead after logout, got %v", err)
	}
}

func TestValidateAccessTokenRejectsGarbage(t *testing.T) {
	svc := newAuthService(t)

	ctx := context.Background()
	for _, token := range []string{"", "not-a-jwt", "aaa.bbb.ccc"} {
		if _, err := svc.ValidateAccessToken(ctx, token); !errors.Is(err, authsvc.ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized for %q, got %v", token, err)
		}
	}
}

func TestValidateAccessTokenRejectsForeignSignature(t *testing.T) {
	svc := newAuthService(t)

	other := authsvc.NewJWTManager("different-secret", time.Minute)
	token, _, err := other.GenerateAccessToken(101, "sid-101")
	if err != nil {
		t.Fatalf("generate foreign token: %v", err)
	}

	if _, err := svc.ValidateAccessToken(context.Background(), token); !errors.Is(err, authsvc.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for foreign signature, got %v", err)
	}
}
