package auth

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/campus-assistant-go/internal/config"
	"github.com/campus-assistant-go/internal/models"
	"github.com/campus-assistant-go/internal/services/storage"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

// State is the login state for one mobile number.
type State string

const (
	StateAnonymous     State = "anonymous"
	StateAwaitingOTP   State = "awaiting-otp"
	StateAuthenticated State = "authenticated"
)

var (
	// ErrInvalidMobile rejects malformed mobile numbers before any side effect.
	ErrInvalidMobile = fmt.Errorf("invalid mobile number: expected 10 digits")
	// ErrInvalidOTP keeps the flow in awaiting-otp. There is no retry limit.
	ErrInvalidOTP = fmt.Errorf("incorrect OTP")
	// ErrNoPendingOTP rejects verification without a prior send.
	ErrNoPendingOTP = fmt.Errorf("no OTP was requested for this number")
	// ErrUnknownProvider rejects providers outside the simulated set.
	ErrUnknownProvider = fmt.Errorf("unknown login provider")
)

var mobilePattern = regexp.MustCompile(`^[0-9]{10}$`)

// Service simulates provider and OTP login with artificial delays and a
// fixed OTP. No real credential validation happens here.
type Service struct {
	config *config.AuthConfig
	store  *storage.Manager
	logger *logrus.Logger

	mu     sync.Mutex
	states map[string]State
}

// NewService creates the mock auth service
func NewService(cfg *config.AuthConfig, store *storage.Manager, logger *logrus.Logger) *Service {
	return &Service{
		config: cfg,
		store:  store,
		logger: logger,
		states: make(map[string]State),
	}
}

// LoginWithProvider simulates a provider login, going straight from
// anonymous to authenticated.
func (s *Service) LoginWithProvider(ctx context.Context, provider string) (models.User, string, error) {
	if provider != "google" && provider != "facebook" {
		return models.User{}, "", ErrUnknownProvider
	}

	s.logger.WithField("provider", provider).Info("Simulating provider login")
	if err := s.wait(ctx, s.config.ProviderDelay); err != nil {
		return models.User{}, "", err
	}

	user := models.User{Name: strings.ToUpper(provider[:1]) + provider[1:] + " User"}
	return s.complete(ctx, user)
}

// SendOTP validates the mobile number, then simulates sending a fixed OTP.
func (s *Service) SendOTP(ctx context.Context, mobile string) error {
	if !mobilePattern.MatchString(mobile) {
		return ErrInvalidMobile
	}

	if err := s.wait(ctx, s.config.OTPDelay); err != nil {
		return err
	}

	s.mu.Lock()
	s.states[mobile] = StateAwaitingOTP
	s.mu.Unlock()

	s.logger.WithField("mobile", mobile).Infof("[SIMULATION] OTP sent: %s", s.config.OTPCode)
	return nil
}

// VerifyOTP checks the submitted OTP. A wrong OTP keeps the flow in
// awaiting-otp; a correct one authenticates and issues a token.
func (s *Service) VerifyOTP(ctx context.Context, mobile, otp string) (models.User, string, error) {
	s.mu.Lock()
	state := s.states[mobile]
	s.mu.Unlock()

	if state != StateAwaitingOTP {
		return models.User{}, "", ErrNoPendingOTP
	}

	if err := s.wait(ctx, s.config.OTPDelay); err != nil {
		return models.User{}, "", err
	}

	if otp != s.config.OTPCode {
		s.logger.WithField("mobile", mobile).Warn("OTP verification failed")
		return models.User{}, "", ErrInvalidOTP
	}

	s.mu.Lock()
	s.states[mobile] = StateAuthenticated
	s.mu.Unlock()

	user := models.User{Name: fmt.Sprintf("User (+%s...)", mobile[:5])}
	return s.complete(ctx, user)
}

// Logout clears the persisted identity.
func (s *Service) Logout(ctx context.Context) {
	s.store.Delete(ctx, storage.KeyCurrentUser)
}

// StateFor reports the login state tracked for a mobile number.
func (s *Service) StateFor(mobile string) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if state, ok := s.states[mobile]; ok {
		return state
	}
	return StateAnonymous
}

// CurrentUser restores the persisted identity, if any.
func (s *Service) CurrentUser(ctx context.Context) (models.User, bool) {
	var user models.User
	if !s.store.Load(ctx, storage.KeyCurrentUser, &user) || user.Name == "" {
		return models.User{}, false
	}
	return user, true
}

// ParseToken validates a session token and returns the user it names.
func (s *Service) ParseToken(tokenString string) (models.User, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.config.JWTSecret), nil
	})
	if err != nil {
		return models.User{}, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return models.User{}, fmt.Errorf("invalid token")
	}

	name, _ := claims["sub"].(string)
	if name == "" {
		return models.User{}, fmt.Errorf("token has no subject")
	}
	return models.User{Name: name}, nil
}

func (s *Service) complete(ctx context.Context, user models.User) (models.User, string, error) {
	token, err := s.issueToken(user)
	if err != nil {
		return models.User{}, "", err
	}

	s.store.Save(ctx, storage.KeyCurrentUser, user)
	s.logger.WithField("user", user.Name).Info("Login successful")
	return user, token, nil
}

func (s *Service) issueToken(user models.User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": user.Name,
		"iat": now.Unix(),
		"exp": now.Add(s.config.TokenTTL).Unix(),
	})
	return token.SignedString([]byte(s.config.JWTSecret))
}

// wait sleeps for the configured simulated delay, honoring cancellation.
func (s *Service) wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
