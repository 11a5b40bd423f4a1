package services

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nomfood/storefront/app/models"
	"github.com/nomfood/storefront/pkg/apperr"
	"github.com/nomfood/storefront/pkg/auth"
	"github.com/nomfood/storefront/pkg/logger"
)

const (
	msgInvalidCredentials = "Email hoặc mật khẩu không đúng"
	msgAccountLocked      = "Tài khoản đã bị khóa"
	msgInvalidToken       = "Token không hợp lệ"
)

// RegisterInput is the sign-up payload.
type RegisterInput struct {
	Name     string         `json:"name"     validate:"required,min=1,max=50"`
	Email    string         `json:"email"    validate:"required,email"`
	Password string         `json:"password" validate:"required,min=6"`
	Phone    string         `json:"phone"    validate:"omitempty,vnphone"`
	Address  models.Address `json:"address"`
}

// LoginInput is the credentials payload.
type LoginInput struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Session is returned by register and login.
type Session struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// AuthService issues tokens for storefront accounts.
type AuthService struct {
	users UserStore
	now   Clock
}

func NewAuthService(users UserStore) *AuthService {
	return &AuthService{users: users, now: time.Now}
}

func (s *AuthService) WithClock(c Clock) *AuthService {
	s.now = c
	return s
}

// Register creates a customer account and signs it in.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	taken, err := s.users.EmailTaken(ctx, email, primitive.NilObjectID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperr.Duplicate("email", msgEmailTaken)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "hash password", err)
	}
	u := &models.User{
		Name:     strings.TrimSpace(in.Name),
		Email:    email,
		Password: hash,
		Phone:    in.Phone,
		Address:  in.Address,
		Role:     auth.RoleUser,
		IsActive: true,
		Avatar:   models.DefaultAvatar,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if apperr.IsKind(err, apperr.KindDuplicate) {
			return nil, apperr.Duplicate("email", msgEmailTaken)
		}
		return nil, err
	}
	return s.issue(u)
}

// Login checks credentials and stamps lastLogin.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*Session, error) {
	u, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return nil, apperr.Unauthenticated(msgInvalidCredentials)
		}
		return nil, err
	}
	if !auth.CheckPassword(u.Password, in.Password) {
		return nil, apperr.Unauthenticated(msgInvalidCredentials)
	}
	if !u.IsActive {
		return nil, apperr.Unauthenticated(msgAccountLocked)
	}

	at := s.now()
	if err := s.users.TouchLogin(ctx, u.ID, at); err != nil {
		logger.Warn("auth: stamp last login", "user", u.ID.Hex(), "error", err)
	} else {
		u.LastLogin = &at
	}
	return s.issue(u)
}

// Me returns the caller's account.
func (s *AuthService) Me(ctx context.Context, p auth.Principal) (*models.User, error) {
	return s.users.FindByID(ctx, p.ID)
}

// LoadPrincipal resolves a token subject for the auth middleware. Deleted
// and locked accounts are rejected.
func (s *AuthService) LoadPrincipal(ctx context.Context, hex string) (auth.Principal, error) {
	id, err := userID(hex)
	if err != nil {
		return auth.Principal{}, apperr.Unauthenticated(msgInvalidToken)
	}
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return auth.Principal{}, apperr.Unauthenticated(msgInvalidToken)
		}
		return auth.Principal{}, err
	}
	if !u.IsActive {
		return auth.Principal{}, apperr.Unauthenticated(msgAccountLocked)
	}
	return auth.Principal{ID: u.ID, Role: u.Role, Name: u.Name, Email: u.Email}, nil
}

func (s *AuthService) issue(u *models.User) (*Session, error) {
	token, err := auth.GenerateToken(u.ID.Hex(), u.Role)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "sign token", err)
	}
	return &Session{Token: token, User: u}, nil
}
