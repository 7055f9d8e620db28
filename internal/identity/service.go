package identity

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"time"

	"github.com/jaevor/go-nanoid"
	"golang.org/x/crypto/bcrypt"

	appErr "github.com/samims/stillup/internal/errors"
	"github.com/samims/stillup/internal/model"
	"github.com/samims/stillup/internal/storage"
)

const (
	msgInvalidCredentials = "Invalid login credentials"
	msgInvalidEmail       = "Unable to validate email address: invalid format"
	msgEmptyPassword      = "Signup requires a valid password"
	msgUserExists         = "User already registered"
	msgInvalidSession     = "Auth session missing!"

	refreshTokenLength = 40
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Service is the identity service the login and dashboard views talk to.
type Service interface {
	SignUp(ctx context.Context, email, password string) (*model.User, error)
	SignIn(ctx context.Context, email, password string) (*model.Session, error)
	SignOut(ctx context.Context, accessToken string) error
	GetUser(ctx context.Context, accessToken string) (*model.User, error)
	GetSession(ctx context.Context, accessToken string) (*model.Session, error)
}

type authService struct {
	store      storage.UserStorage
	logger     *slog.Logger
	tokenSvc   TokenService
	refreshTTL time.Duration
	newRefresh func() string
}

func NewAuthService(store storage.UserStorage, logger *slog.Logger, tokenSvc TokenService, refreshTTL time.Duration) (Service, error) {
	l := logger.With("layer", "service", "component", "authService")
	gen, err := nanoid.Standard(refreshTokenLength)
	if err != nil {
		return nil, err
	}
	return &authService{
		store:      store,
		logger:     l,
		tokenSvc:   tokenSvc,
		refreshTTL: refreshTTL,
		newRefresh: gen,
	}, nil
}

func (s *authService) SignUp(ctx context.Context, email, password string) (*model.User, error) {
	s.logger.Info("SignUp called", slog.String("email", email))

	if !emailPattern.MatchString(email) {
		s.logger.Warn("Invalid email", slog.String("email", email))
		return nil, appErr.NewInvalidInput(msgInvalidEmail)
	}

	if len(password) == 0 {
		s.logger.Warn("Empty password", slog.String("email", email))
		return nil, appErr.NewInvalidInput(msgEmptyPassword)
	}

	hashedPass, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("Password hashing failed", slog.Any("error", err))
		return nil, appErr.NewInternal("failed to hash password: %v", err)
	}

	createdUser, err := s.store.CreateUser(ctx, email, string(hashedPass))
	if err != nil {
		if errors.Is(err, appErr.ErrConflict) {
			s.logger.Warn("User already exists", slog.String("email", email))
			return nil, appErr.NewConflict(msgUserExists)
		}
		s.logger.Error("User creation failed", slog.Any("error", err))
		return nil, appErr.NewInternal("failed to create user: %v", err)
	}

	s.logger.Info("SignUp succeeded", slog.String("email", email))
	return createdUser, nil
}

func (s *authService) SignIn(ctx context.Context, email, password string) (*model.Session, error) {
	s.logger.Info("SignIn called", slog.String("email", email))

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if appErr.IsNotFound(err) {
			s.logger.Warn("User not found", slog.String("email", email))
			return nil, appErr.NewUnauthorized(msgInvalidCredentials)
		}
		s.logger.Error("Failed to fetch user by email", slog.String("email", email), slog.Any("error", err))
		return nil, appErr.NewInternal("failed to fetch user: %v", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		s.logger.Warn("Invalid password", slog.String("email", email))
		return nil, appErr.NewUnauthorized(msgInvalidCredentials)
	}

	token, claims, err := s.tokenSvc.GenerateToken(user)
	if err != nil {
		s.logger.Error("Token generation failed", slog.String("email", email), slog.Any("error", err))
		return nil, appErr.NewInternal("failed to generate token: %v", err)
	}

	refresh := &model.RefreshSession{
		UserID:       user.ID,
		RefreshToken: s.newRefresh(),
		ExpiresAt:    claims.IssuedAt.Add(s.refreshTTL),
	}
	if err := s.store.CreateSession(ctx, refresh); err != nil {
		s.logger.Error("Failed to persist session", slog.String("email", email), slog.Any("error", err))
		return nil, appErr.NewInternal("failed to create session: %v", err)
	}

	s.logger.Info("SignIn succeeded", slog.String("email", email))
	sess := buildSession(token, claims)
	sess.RefreshToken = refresh.RefreshToken
	return sess, nil
}

// SignOut revokes every refresh session of the token's owner. A token that no
// longer validates has nothing to revoke.
func (s *authService) SignOut(ctx context.Context, accessToken string) error {
	claims, err := s.tokenSvc.ValidateToken(accessToken)
	if err != nil {
		s.logger.Info("SignOut with invalid token", slog.String("error", err.Error()))
		return nil
	}

	if err := s.store.DeleteSessionsByUser(ctx, claims.UserID); err != nil {
		s.logger.Error("Failed to delete sessions", slog.String("user_id", claims.UserID), slog.Any("error", err))
		return appErr.NewInternal("failed to sign out: %v", err)
	}
	s.logger.Info("SignOut succeeded", slog.String("user_id", claims.UserID))
	return nil
}

func (s *authService) GetUser(ctx context.Context, accessToken string) (*model.User, error) {
	claims, err := s.tokenSvc.ValidateToken(accessToken)
	if err != nil {
		s.logger.Info("Token validation failed", slog.String("error", err.Error()))
		return nil, appErr.NewUnauthorized(msgInvalidSession)
	}

	user, err := s.store.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if appErr.IsNotFound(err) {
			s.logger.Warn("Token owner no longer exists", slog.String("user_id", claims.UserID))
			return nil, appErr.NewUnauthorized(msgInvalidSession)
		}
		s.logger.Error("Failed to fetch user", slog.String("user_id", claims.UserID), slog.Any("error", err))
		return nil, appErr.NewInternal("failed to fetch user: %v", err)
	}
	return user, nil
}

func (s *authService) GetSession(_ context.Context, accessToken string) (*model.Session, error) {
	claims, err := s.tokenSvc.ValidateToken(accessToken)
	if err != nil {
		s.logger.Info("Token validation failed", slog.String("error", err.Error()))
		return nil, appErr.NewUnauthorized(msgInvalidSession)
	}
	return buildSession(accessToken, claims), nil
}

func buildSession(token string, c *Claims) *model.Session {
	issued := c.IssuedAt
	if issued.IsZero() {
		issued = time.Now()
	}
	return &model.Session{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int64(c.ExpiresAt.Sub(issued).Seconds()),
		ExpiresAt:   c.ExpiresAt.Unix(),
		User: model.SessionUser{
			ID:    c.UserID,
			Email: c.Email,
		},
	}
}
