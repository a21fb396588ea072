package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/Guyuepp/blog-comments/domain"
)

const (
	tokenIssuer       = "blog-comments"
	minPasswordLength = 6
)

// Claims is the payload carried by access tokens.
type Claims struct {
	UserID int64 `json:"user_id"`
	jwt.RegisteredClaims
}

type Service struct {
	userRepo  domain.UserRepository
	tx        domain.Transactor
	content   []domain.AuthoredContentRemover
	jwtSecret []byte
	tokenTTL  time.Duration
}

var _ domain.UserUsecase = (*Service)(nil)

// NewService builds the user service. Account deletion runs content removers in the given order.
func NewService(u domain.UserRepository, tx domain.Transactor, secret []byte, ttl time.Duration, content ...domain.AuthoredContentRemover) *Service {
	return &Service{
		userRepo:  u,
		tx:        tx,
		content:   content,
		jwtSecret: secret,
		tokenTTL:  ttl,
	}
}

func (s *Service) Register(ctx context.Context, name, username, password string) (domain.User, error) {
	name, username = strings.TrimSpace(name), strings.TrimSpace(username)
	if name == "" || username == "" || len(password) < minPasswordLength {
		return domain.User{}, fmt.Errorf("name, username and a password of at least 6 characters are required: %w", domain.ErrBadParamInput)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logrus.Errorf("hash password: %v", err)
		return domain.User{}, domain.ErrInternalServerError
	}
	u := domain.User{
		Name:     name,
		Username: username,
		Password: string(hashed),
	}
	if err := s.userRepo.Insert(ctx, &u); err != nil {
		return domain.User{}, err
	}
	u.Password = ""
	return u, nil
}

func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	u, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.ErrUnauthorized
		}
		return "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return "", domain.ErrUnauthorized
	}

	now := time.Now()
	claims := Claims{
		UserID: u.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
}

// ParseToken validates signature and expiry and returns the user id.
func (s *Service) ParseToken(token string) (int64, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid || claims.UserID <= 0 {
		return 0, domain.ErrUnauthorized
	}
	return claims.UserID, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (domain.User, error) {
	u, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return domain.User{}, err
	}
	u.Password = ""
	return u, nil
}

func (s *Service) Update(ctx context.Context, caller domain.Caller, patch domain.UserPatch) (domain.User, error) {
	if !caller.Authenticated() {
		return domain.User{}, domain.ErrUnauthorized
	}
	u, err := s.userRepo.GetByID(ctx, caller.UserID)
	if err != nil {
		return domain.User{}, err
	}
	if patch.Name != nil {
		if u.Name = strings.TrimSpace(*patch.Name); u.Name == "" {
			return domain.User{}, fmt.Errorf("name must not be empty: %w", domain.ErrBadParamInput)
		}
	}
	if patch.Username != nil {
		if u.Username = strings.TrimSpace(*patch.Username); u.Username == "" {
			return domain.User{}, fmt.Errorf("username must not be empty: %w", domain.ErrBadParamInput)
		}
	}
	if patch.Password != nil {
		if len(*patch.Password) < minPasswordLength {
			return domain.User{}, fmt.Errorf("password needs at least %d characters: %w", minPasswordLength, domain.ErrBadParamInput)
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(*patch.Password), bcrypt.DefaultCost)
		if err != nil {
			logrus.Errorf("hash password: %v", err)
			return domain.User{}, domain.ErrInternalServerError
		}
		u.Password = string(hashed)
	}

	if err := s.userRepo.Update(ctx, &u); err != nil {
		return domain.User{}, err
	}
	u.Password = ""
	return u, nil
}

// Delete removes the caller's content and then the account, all or nothing.
func (s *Service) Delete(ctx context.Context, caller domain.Caller) (domain.User, error) {
	if !caller.Authenticated() {
		return domain.User{}, domain.ErrUnauthorized
	}
	u, err := s.GetByID(ctx, caller.UserID)
	if err != nil {
		return domain.User{}, err
	}

	var removed int
	err = s.tx.Transaction(context.WithoutCancel(ctx), func(ctx context.Context) error {
		for _, c := range s.content {
			n, err := c.DeleteByAuthor(ctx, u.ID)
			if err != nil {
				return err
			}
			removed += n
		}
		return s.userRepo.Delete(ctx, u.ID)
	})
	if err != nil {
		return domain.User{}, err
	}
	logrus.Infof("user %d deleted with %d authored items", u.ID, removed)
	return u, nil
}
