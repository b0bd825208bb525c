package auth_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/mimoza-store/storefront-api/pkg/auth"
	"github.com/mimoza-store/storefront-api/pkg/models"
)

var errStoreDown = errors.New("store down")

type fakeUsers struct {
	mu       sync.Mutex
	byEmail  map[string]*models.User
	failRole bool
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byEmail: make(map[string]*models.User)}
}

func (f *fakeUsers) CreateUser(ctx context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.byEmail[user.Email]; exists {
		return errors.New("email already exists")
	}
	user.ID = bson.NewObjectID()
	f.byEmail[user.Email] = user
	return nil
}

func (f *fakeUsers) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.byEmail[email]
	if !ok {
		return nil, errors.New("user not found")
	}
	return user, nil
}

func (f *fakeUsers) GetUserRole(ctx context.Context, userID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failRole {
		return "", errStoreDown
	}
	for _, u := range f.byEmail {
		if u.ID.Hex() == userID {
			return u.Role, nil
		}
	}
	return "", errors.New("user not found")
}

func (f *fakeUsers) setRole(userID, role string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byEmail {
		if u.ID.Hex() == userID {
			u.Role = role
		}
	}
}

type fakeSessions struct {
	mu     sync.Mutex
	tokens map[string]string
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{tokens: make(map[string]string)}
}

func (f *fakeSessions) SaveSession(ctx context.Context, token, userID string, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens[token] = userID
	return nil
}

func (f *fakeSessions) HasSession(ctx context.Context, token string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.tokens[token]
	return ok, nil
}

func (f *fakeSessions) DeleteSession(ctx context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.tokens, token)
	return nil
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []string
	fail bool
}

func (f *fakeMailer) SendWelcomeEmail(toEmail, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("smtp down")
	}
	f.sent = append(f.sent, toEmail)
	return nil
}

func newTestService(users *fakeUsers, mailer auth.Mailer) *auth.Service {
	return auth.NewService(users, newFakeSessions(), mailer, []byte("test-secret"))
}

func TestSignUp(t *testing.T) {
	ctx := context.Background()

	t.Run("creates account and signs in", func(t *testing.T) {
		users := newFakeUsers()
		mailer := &fakeMailer{}
		svc := newTestService(users, mailer)

		session, err := svc.SignUp(ctx, "ana@example.com", "segredo1", "Ana")
		if err != nil {
			t.Fatalf("sign up failed: %v", err)
		}
		if session.Token == "" || session.Email != "ana@example.com" {
			t.Fatalf("unexpected session: %+v", session)
		}

		user := users.byEmail["ana@example.com"]
		if user.Role != auth.RoleUser {
			t.Fatalf("expected default role %q, got %q", auth.RoleUser, user.Role)
		}
		if user.Password == "segredo1" {
			t.Fatal("password must be stored hashed")
		}
		if len(mailer.sent) != 1 || mailer.sent[0] != "ana@example.com" {
			t.Fatalf("expected one welcome email, got %v", mailer.sent)
		}
	})

	t.Run("mailer failure does not fail sign up", func(t *testing.T) {
		svc := newTestService(newFakeUsers(), &fakeMailer{fail: true})
		if _, err := svc.SignUp(ctx, "ana@example.com", "segredo1", "Ana"); err != nil {
			t.Fatalf("sign up must survive a mailer failure: %v", err)
		}
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		svc := newTestService(newFakeUsers(), nil)
		if _, err := svc.SignUp(ctx, "ana@example.com", "segredo1", "Ana"); err != nil {
			t.Fatalf("first sign up failed: %v", err)
		}
		if _, err := svc.SignUp(ctx, "ana@example.com", "outro123", "Ana"); err == nil {
			t.Fatal("expected duplicate email to fail")
		}
	})
}

func TestSignIn(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newFakeUsers(), nil)
	if _, err := svc.SignUp(ctx, "ana@example.com", "segredo1", "Ana"); err != nil {
		t.Fatalf("sign up failed: %v", err)
	}

	t.Run("valid credentials", func(t *testing.T) {
		session, err := svc.SignIn(ctx, "ana@example.com", "segredo1")
		if err != nil {
			t.Fatalf("sign in failed: %v", err)
		}
		if session.Email != "ana@example.com" {
			t.Fatalf("unexpected session: %+v", session)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		if _, err := svc.SignIn(ctx, "ana@example.com", "errada"); !errors.Is(err, auth.ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		if _, err := svc.SignIn(ctx, "ninguem@example.com", "segredo1"); !errors.Is(err, auth.ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})
}

func TestGetSession(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newFakeUsers(), nil)
	signed, err := svc.SignUp(ctx, "ana@example.com", "segredo1", "Ana")
	if err != nil {
		t.Fatalf("sign up failed: %v", err)
	}

	t.Run("valid token resolves", func(t *testing.T) {
		session, err := svc.GetSession(ctx, signed.Token)
		if err != nil {
			t.Fatalf("get session failed: %v", err)
		}
		if session == nil || session.UserID != signed.UserID {
			t.Fatalf("unexpected session: %+v", session)
		}
	})

	t.Run("garbage token is absent, not an error", func(t *testing.T) {
		session, err := svc.GetSession(ctx, "not-a-jwt")
		if err != nil || session != nil {
			t.Fatalf("expected (nil, nil), got (%+v, %v)", session, err)
		}
	})

	t.Run("empty token is absent", func(t *testing.T) {
		session, err := svc.GetSession(ctx, "")
		if err != nil || session != nil {
			t.Fatalf("expected (nil, nil), got (%+v, %v)", session, err)
		}
	})

	t.Run("revoked token is absent after sign out", func(t *testing.T) {
		if err := svc.SignOut(ctx, signed.Token); err != nil {
			t.Fatalf("sign out failed: %v", err)
		}
		session, err := svc.GetSession(ctx, signed.Token)
		if err != nil || session != nil {
			t.Fatalf("expected (nil, nil), got (%+v, %v)", session, err)
		}
	})
}

func TestCheckAdminRole(t *testing.T) {
	ctx := context.Background()
	users := newFakeUsers()
	svc := newTestService(users, nil)
	session, err := svc.SignUp(ctx, "ana@example.com", "segredo1", "Ana")
	if err != nil {
		t.Fatalf("sign up failed: %v", err)
	}

	t.Run("regular user is not admin", func(t *testing.T) {
		admin, err := svc.CheckAdminRole(ctx, session)
		if err != nil || admin {
			t.Fatalf("expected (false, nil), got (%v, %v)", admin, err)
		}
	})

	t.Run("admin role resolves true", func(t *testing.T) {
		users.setRole(session.UserID, auth.RoleAdmin)
		admin, err := svc.CheckAdminRole(ctx, session)
		if err != nil || !admin {
			t.Fatalf("expected (true, nil), got (%v, %v)", admin, err)
		}
	})

	t.Run("nil session is not admin", func(t *testing.T) {
		admin, err := svc.CheckAdminRole(ctx, nil)
		if err != nil || admin {
			t.Fatalf("expected (false, nil), got (%v, %v)", admin, err)
		}
	})

	t.Run("store error propagates", func(t *testing.T) {
		users.failRole = true
		defer func() { users.failRole = false }()
		if _, err := svc.CheckAdminRole(ctx, session); !errors.Is(err, errStoreDown) {
			t.Fatalf("expected store error, got %v", err)
		}
	})
}

func TestOnSessionChange(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newFakeUsers(), nil)

	var mu sync.Mutex
	var events []*auth.Session
	sub := svc.OnSessionChange(func(s *auth.Session) {
		mu.Lock()
		events = append(events, s)
		mu.Unlock()
	})

	session, err := svc.SignUp(ctx, "ana@example.com", "segredo1", "Ana")
	if err != nil {
		t.Fatalf("sign up failed: %v", err)
	}
	if err := svc.SignOut(ctx, session.Token); err != nil {
		t.Fatalf("sign out failed: %v", err)
	}

	mu.Lock()
	if len(events) != 2 || events[0] == nil || events[1] != nil {
		t.Fatalf("expected [session, nil], got %v", events)
	}
	mu.Unlock()

	sub.Unsubscribe()
	if _, err := svc.SignIn(ctx, "ana@example.com", "segredo1"); err != nil {
		t.Fatalf("sign in failed: %v", err)
	}

	mu.Lock()
	if len(events) != 2 {
		t.Fatal("unsubscribed callback must not fire")
	}
	mu.Unlock()
}
