package auth

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"

	"github.com/mimoza-store/storefront-api/pkg/models"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"

	sessionTTL = 24 * time.Hour
)

var ErrInvalidCredentials = errors.New("invalid email or password")

// Session is an authenticated storefront session.
type Session struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Claims are the JWT claims embedded in a session token.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.StandardClaims
}

// UserStore is the account storage the service authenticates against.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserRole(ctx context.Context, userID string) (string, error)
}

// SessionStore records issued tokens so sign-out can revoke them before
// their JWT expiry.
type SessionStore interface {
	SaveSession(ctx context.Context, token, userID string, ttl time.Duration) error
	HasSession(ctx context.Context, token string) (bool, error)
	DeleteSession(ctx context.Context, token string) error
}

// Mailer sends the welcome email on sign-up. May be nil.
type Mailer interface {
	SendWelcomeEmail(toEmail, name string) error
}

// Service implements sign in/up/out, session lookup, session-change
// notifications and the admin role check.
type Service struct {
	users    UserStore
	sessions SessionStore
	mailer   Mailer
	jwtKey   []byte

	mu          sync.Mutex
	nextSubID   int
	subscribers map[int]func(*Session)
}

func NewService(users UserStore, sessions SessionStore, mailer Mailer, jwtKey []byte) *Service {
	return &Service{
		users:       users,
		sessions:    sessions,
		mailer:      mailer,
		jwtKey:      jwtKey,
		subscribers: make(map[int]func(*Session)),
	}
}

// SignUp creates an account with the default role and signs it in. The
// welcome email is best-effort and never fails the sign-up.
func (s *Service) SignUp(ctx context.Context, email, password, fullName string) (*Session, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:    email,
		Password: string(hashed),
		FullName: fullName,
		Role:     RoleUser,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	if s.mailer != nil {
		if err := s.mailer.SendWelcomeEmail(user.Email, user.FullName); err != nil {
			log.Printf("Warning: failed to send welcome email to %s: %v", user.Email, err)
		}
	}

	return s.issueSession(ctx, user)
}

// SignIn authenticates the credentials and issues a session.
func (s *Service) SignIn(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issueSession(ctx, user)
}

func (s *Service) issueSession(ctx context.Context, user *models.User) (*Session, error) {
	expiresAt := time.Now().Add(sessionTTL)
	claims := &Claims{
		UserID: user.ID.Hex(),
		Email:  user.Email,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: expiresAt.Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtKey)
	if err != nil {
		return nil, err
	}

	if err := s.sessions.SaveSession(ctx, signed, claims.UserID, sessionTTL); err != nil {
		return nil, err
	}

	session := &Session{
		Token:     signed,
		UserID:    claims.UserID,
		Email:     user.Email,
		ExpiresAt: expiresAt,
	}
	s.notify(session)
	return session, nil
}

// SignOut revokes the token and notifies subscribers with an absent
// session.
func (s *Service) SignOut(ctx context.Context, token string) error {
	if err := s.sessions.DeleteSession(ctx, token); err != nil {
		return err
	}
	s.notify(nil)
	return nil
}

// GetSession resolves a token into a session. An invalid, expired or
// revoked token yields (nil, nil): absence is not an error. Errors are
// reserved for the session store being unreachable.
func (s *Service) GetSession(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, nil
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.jwtKey, nil
	})
	if err != nil || !parsed.Valid {
		return nil, nil
	}

	active, err := s.sessions.HasSession(ctx, token)
	if err != nil {
		return nil, err
	}
	if !active {
		return nil, nil
	}

	return &Session{
		Token:     token,
		UserID:    claims.UserID,
		Email:     claims.Email,
		ExpiresAt: time.Unix(claims.ExpiresAt, 0),
	}, nil
}

// CheckAdminRole resolves the admin flag for the session with a round trip
// to the user store. Absent sessions are simply not admins.
func (s *Service) CheckAdminRole(ctx context.Context, session *Session) (bool, error) {
	if session == nil {
		return false, nil
	}
	role, err := s.users.GetUserRole(ctx, session.UserID)
	if err != nil {
		return false, err
	}
	return role == RoleAdmin, nil
}

// Subscription is a handle for a session-change callback. Callers must
// release it on teardown.
type Subscription struct {
	svc *Service
	id  int
}

func (sub *Subscription) Unsubscribe() {
	sub.svc.mu.Lock()
	defer sub.svc.mu.Unlock()
	delete(sub.svc.subscribers, sub.id)
}

// OnSessionChange registers fn to be invoked with the new session (or nil)
// on every sign-in, sign-up and sign-out.
func (s *Service) OnSessionChange(fn func(*Session)) *Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextSubID++
	id := s.nextSubID
	s.subscribers[id] = fn
	return &Subscription{svc: s, id: id}
}

func (s *Service) notify(session *Session) {
	s.mu.Lock()
	callbacks := make([]func(*Session), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		callbacks = append(callbacks, fn)
	}
	s.mu.Unlock()

	for _, fn := range callbacks {
		fn(session)
	}
}
