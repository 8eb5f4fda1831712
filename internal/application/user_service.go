package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jyotir-aditya/fullstackAssignment/internal/domain/entity"
	repo "github.com/jyotir-aditya/fullstackAssignment/internal/domain/repository"
	"github.com/jyotir-aditya/fullstackAssignment/pkg/helpers"
	"github.com/jyotir-aditya/fullstackAssignment/pkg/mailer"
)

// JobPublisher enqueues background jobs. *helpers.RabbitPublisher implements it.
type JobPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// UserService runs signup, login and bearer token resolution.
type UserService struct {
	Repo   repo.UserRepository
	JWT    *helpers.JWTManager
	Logger *logrus.Logger
	// Jobs is optional; when nil no welcome email is queued.
	Jobs JobPublisher
}

func NewUserService(users repo.UserRepository, jwt *helpers.JWTManager, logger *logrus.Logger, jobs JobPublisher) *UserService {
	if logger == nil {
		logger = helpers.NewDiscardLogger()
	}
	return &UserService{Repo: users, JWT: jwt, Logger: logger, Jobs: jobs}
}

type LoginResult struct {
	AccessToken string
	ExpiresAt   time.Time
	User        *entity.User
}

// Signup registers a new account. The email is normalized before the
// uniqueness check and before storage.
func (s *UserService) Signup(ctx context.Context, email, password string) (*entity.User, error) {
	email = entity.NormalizeEmail(email)

	existing, err := s.Repo.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if existing != nil {
		s.Logger.WithField("email", email).Warn("registration attempt with existing email")
		return nil, ErrEmailTaken
	}

	hash, err := helpers.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &entity.User{Email: email, Password: hash, Role: entity.DefaultRole}
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	signupsTotal.Add(1)
	s.Logger.WithFields(logrus.Fields{"user_id": u.ID, "email": u.Email}).Info("new user registered")
	s.queueWelcome(ctx, u)
	return u, nil
}

func (s *UserService) queueWelcome(ctx context.Context, u *entity.User) {
	if s.Jobs == nil {
		return
	}
	job := mailer.NewWelcomeJob(u.Email)
	if err := s.Jobs.PublishJSON(ctx, job); err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("failed to enqueue welcome email")
	}
}

// Authenticate validates email/password. Unknown users and wrong passwords
// both yield ErrInvalidCredentials; only the log tells them apart.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*entity.User, error) {
	email = entity.NormalizeEmail(email)
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			s.Logger.WithField("email", email).Warn("login failed: user not found")
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		s.Logger.WithField("email", email).Warn("login failed: wrong password")
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

func (s *UserService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	u, err := s.Authenticate(ctx, email, password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			loginFailuresTotal.Add(1)
		}
		return nil, err
	}
	token, exp, err := s.JWT.GenerateAccessToken(u.ID, u.Email)
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate access token failed")
		return nil, fmt.Errorf("issue token: %w", err)
	}
	loginsTotal.Add(1)
	s.Logger.WithField("user_id", u.ID).Info("user logged in")
	return &LoginResult{AccessToken: token, ExpiresAt: exp, User: u}, nil
}

// ResolveToken verifies a bearer token and loads the user it names.
func (s *UserService) ResolveToken(ctx context.Context, token string) (*entity.User, error) {
	claims, err := s.JWT.ParseAccessToken(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	u, err := s.Repo.GetByID(ctx, claims.UserID())
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	return u, nil
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	return u, nil
}

// Ready reports whether the user store is reachable.
func (s *UserService) Ready(ctx context.Context) error {
	return s.Repo.Ping(ctx)
}
