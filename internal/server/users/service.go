package users

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/userdesk/internal/common"
	"github.com/dmitrijs2005/userdesk/internal/server/auth"
	"github.com/dmitrijs2005/userdesk/internal/server/config"
	"golang.org/x/crypto/argon2"
)

const saltSize = 16

type Service struct {
	repo                        Repository
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
	now                         func() time.Time
}

func NewService(repo Repository, cfg *config.Config) *Service {
	return &Service{
		repo:                        repo,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
		now:                         time.Now,
	}
}

func hashPassword(password, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, 32)
}

func (s *Service) checkPassword(user *User, candidate string) bool {
	return subtle.ConstantTimeCompare(user.PasswordHash, hashPassword([]byte(candidate), user.Salt)) == 1
}

// Register stores a new account. A taken username returns
// common.ErrorAlreadyExists; missing fields return common.ErrorValidation.
func (s *Service) Register(ctx context.Context, nu NewUser) (*User, error) {
	nu.Username = strings.TrimSpace(nu.Username)
	nu.Email = strings.TrimSpace(nu.Email)
	if nu.Username == "" || nu.Email == "" || nu.Password == "" {
		return nil, fmt.Errorf("%w: username, email and password are required", common.ErrorValidation)
	}

	salt := common.GenerateRandByteArray(saltSize)
	user := &User{
		Username:     nu.Username,
		Email:        nu.Email,
		ImageData:    nu.ImageData,
		Salt:         salt,
		PasswordHash: hashPassword([]byte(nu.Password), salt),
		CreatedAt:    s.now(),
	}

	user, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return user, nil
}

// Login checks the credentials and returns a signed access token. Unknown
// users and wrong passwords both return common.ErrorUnauthorized.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.repo.GetUserByLogin(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// hash anyway so unknown users take as long as wrong passwords
			hashPassword([]byte(password), common.GenerateRandByteArray(saltSize))
			return "", common.ErrorUnauthorized
		}
		return "", err
	}

	if !s.checkPassword(user, password) {
		return "", common.ErrorUnauthorized
	}

	token, err := auth.GenerateToken(user.Username, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return "", err
	}
	return token, nil
}

// Authenticate resolves a bearer token to its user. Invalid or expired
// tokens and deleted users return common.ErrorUnauthorized.
func (s *Service) Authenticate(ctx context.Context, token string) (*User, error) {
	username, err := auth.GetUsernameFromToken(token, s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorUnauthorized, err)
	}

	user, err := s.repo.GetUserByLogin(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, err
	}
	return user, nil
}

func (s *Service) List(ctx context.Context) ([]*User, error) {
	return s.repo.List(ctx)
}

// Update replaces the email and image of username. The username itself is
// never changed.
func (s *Service) Update(ctx context.Context, username, email, imageData string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return fmt.Errorf("%w: email is required", common.ErrorValidation)
	}

	user, err := s.repo.GetUserByLogin(ctx, username)
	if err != nil {
		return err
	}

	user.Email = email
	user.ImageData = imageData
	return s.repo.Update(ctx, user)
}

// Delete removes username on behalf of caller. Callers cannot delete
// themselves.
func (s *Service) Delete(ctx context.Context, caller, username string) error {
	if caller == username {
		return common.ErrorSelfDelete
	}
	return s.repo.Delete(ctx, username)
}

// EnsureUser registers nu unless the username already exists.
func (s *Service) EnsureUser(ctx context.Context, nu NewUser) (bool, error) {
	if _, err := s.repo.GetUserByLogin(ctx, nu.Username); err == nil {
		return false, nil
	} else if !errors.Is(err, common.ErrorNotFound) {
		return false, err
	}

	if _, err := s.Register(ctx, nu); err != nil {
		return false, err
	}
	return true, nil
}
