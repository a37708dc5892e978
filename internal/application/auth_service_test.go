package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/go-task-manager/internal/infrastructure/memory"
	"github.com/oksasatya/go-task-manager/internal/infrastructure/redisstore"
	"github.com/oksasatya/go-task-manager/pkg/helpers"
)

type fixture struct {
	store *memory.Store
	auth  *AuthService
	now   time.Time
}

func newAuthFixture(t *testing.T, revoker TokenRevoker) *fixture {
	t.Helper()
	f := &fixture{now: time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)}
	clock := func() time.Time { return f.now }
	f.store = memory.NewStore(clock)
	jwt := helpers.NewJWTManager("secret", "test", 7*24*time.Hour).WithClock(clock)
	f.auth = NewAuthService(f.store.Users(), jwt, revoker, bcrypt.MinCost, nil)
	return f
}

func (f *fixture) register(t *testing.T, username, email string) *AuthResult {
	t.Helper()
	res, err := f.auth.Register(context.Background(), RegisterInput{Username: username, Email: email, Password: "password123"})
	if err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
	return res
}

func TestRegisterTokenIdentifiesStoredUser(t *testing.T) {
	f := newAuthFixture(t, nil)
	res := f.register(t, "alice", "Alice@Example.com")

	claims, err := f.auth.VerifyToken(context.Background(), res.Token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	stored, err := f.store.Users().GetByEmail(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if claims.UserID != stored.ID || res.User.ID != stored.ID {
		t.Fatalf("token user %d does not match stored user %d", claims.UserID, stored.ID)
	}
	if stored.Password == "password123" {
		t.Fatalf("password stored in clear text")
	}
}

func TestRegisterDuplicate(t *testing.T) {
	f := newAuthFixture(t, nil)
	f.register(t, "alice", "alice@example.com")

	for _, in := range []RegisterInput{
		{Username: "alice", Email: "other@example.com", Password: "password123"},
		{Username: "other", Email: "ALICE@example.com", Password: "password123"},
	} {
		if _, err := f.auth.Register(context.Background(), in); !errors.Is(err, ErrDuplicateAccount) {
			t.Fatalf("expected ErrDuplicateAccount for %+v, got %v", in, err)
		}
	}
}

func TestLoginDoesNotRevealWhichPartFailed(t *testing.T) {
	f := newAuthFixture(t, nil)
	f.register(t, "alice", "alice@example.com")
	ctx := context.Background()

	if _, err := f.auth.Login(ctx, "alice@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := f.auth.Login(ctx, "nobody@example.com", "password123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email: expected ErrInvalidCredentials, got %v", err)
	}
	res, err := f.auth.Login(ctx, " ALICE@example.com ", "password123")
	if err != nil || res.Token == "" {
		t.Fatalf("login: %v", err)
	}
}

func TestVerifyTokenExpiry(t *testing.T) {
	f := newAuthFixture(t, nil)
	res := f.register(t, "alice", "alice@example.com")

	f.now = f.now.Add(7*24*time.Hour - time.Minute)
	if _, err := f.auth.VerifyToken(context.Background(), res.Token); err != nil {
		t.Fatalf("token should still be valid: %v", err)
	}
	f.now = f.now.Add(2 * time.Minute)
	if _, err := f.auth.VerifyToken(context.Background(), res.Token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
	if _, err := f.auth.VerifyToken(context.Background(), "not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestGetProfileForDeletedUser(t *testing.T) {
	f := newAuthFixture(t, nil)
	res := f.register(t, "alice", "alice@example.com")

	u, err := f.auth.GetProfile(context.Background(), res.Token)
	if err != nil || u.Username != "alice" {
		t.Fatalf("profile: %v %+v", err, u)
	}
	f.store.DeleteUser(res.User.ID)
	if _, err := f.auth.GetProfile(context.Background(), res.Token); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	// the denylist computes TTLs from the wall clock, so use real time here
	store := memory.NewStore(nil)
	jwt := helpers.NewJWTManager("secret", "test", time.Hour)
	auth := NewAuthService(store.Users(), jwt, redisstore.NewTokenDenylist(rdb), bcrypt.MinCost, nil)
	ctx := context.Background()

	res, err := auth.Register(ctx, RegisterInput{Username: "alice", Email: "alice@example.com", Password: "password123"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	other, err := auth.Login(ctx, "alice@example.com", "password123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if err := auth.Logout(ctx, res.Token); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := auth.VerifyToken(ctx, res.Token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected revoked token to be invalid, got %v", err)
	}
	if _, err := auth.VerifyToken(ctx, other.Token); err != nil {
		t.Fatalf("other session should stay valid: %v", err)
	}
}

func TestLogoutWithoutRevokerIsNoop(t *testing.T) {
	f := newAuthFixture(t, nil)
	res := f.register(t, "alice", "alice@example.com")
	if err := f.auth.Logout(context.Background(), res.Token); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := f.auth.VerifyToken(context.Background(), res.Token); err != nil {
		t.Fatalf("stateless token should remain valid: %v", err)
	}
}
