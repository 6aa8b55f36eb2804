package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"pcshop_service/internal/domain/entities"
	"pcshop_service/internal/usecase/interfaces"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidUserInput       = errors.New("invalid user input")
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrInvalidCredentials     = errors.New("invalid email or password")
	ErrUserNotFound           = errors.New("user not found")
)

const minPasswordLength = 8

type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Phone    string
}

// Session is the result of a successful login.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      entities.User
}

type IUserUseCase interface {
	Register(ctx context.Context, in RegisterInput) (entities.User, error)
	Login(ctx context.Context, email, password string) (Session, error)
	Me(ctx context.Context, identity entities.Identity) (entities.User, error)
	List(ctx context.Context, identity entities.Identity) ([]entities.User, error)
}

type UserUseCase struct {
	repo        interfaces.IUserRepository
	tokens      interfaces.ITokenIssuer
	adminEmails map[string]struct{}
	now         func() time.Time
}

var _ IUserUseCase = (*UserUseCase)(nil)

// NewUserUseCase builds the account usecase. Accounts registered with one of
// adminEmails get administrative authority.
func NewUserUseCase(repo interfaces.IUserRepository, tokens interfaces.ITokenIssuer, adminEmails []string) *UserUseCase {
	admins := make(map[string]struct{}, len(adminEmails))
	for _, e := range adminEmails {
		if e = normalizeEmail(e); e != "" {
			admins[e] = struct{}{}
		}
	}
	return &UserUseCase{repo: repo, tokens: tokens, adminEmails: admins, now: func() time.Time { return time.Now().UTC() }}
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func (u *UserUseCase) Register(ctx context.Context, in RegisterInput) (entities.User, error) {
	email := normalizeEmail(in.Email)
	if _, err := mail.ParseAddress(email); err != nil {
		return entities.User{}, fmt.Errorf("%w: email", ErrInvalidUserInput)
	}
	if len(in.Password) < minPasswordLength {
		return entities.User{}, fmt.Errorf("%w: password must have at least %d characters", ErrInvalidUserInput, minPasswordLength)
	}
	if strings.TrimSpace(in.Name) == "" {
		return entities.User{}, fmt.Errorf("%w: name is required", ErrInvalidUserInput)
	}

	existing, err := u.repo.GetByEmail(ctx, email)
	if err != nil {
		return entities.User{}, err
	}
	if existing.ID != "" {
		return entities.User{}, ErrEmailAlreadyRegistered
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return entities.User{}, err
	}

	authority := entities.AuthorityOrdinary
	if _, ok := u.adminEmails[email]; ok {
		authority = entities.AuthorityAdministrative
	}
	user := entities.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         strings.TrimSpace(in.Name),
		Phone:        strings.TrimSpace(in.Phone),
		PasswordHash: string(hash),
		Authority:    authority,
		CreatedAt:    u.now(),
	}
	created, err := u.repo.Create(ctx, user)
	if err != nil {
		return entities.User{}, err
	}
	logrus.Infof("[user][usecase] registered user_id=%s authority=%s", created.ID, created.Authority)
	return created, nil
}

func (u *UserUseCase) Login(ctx context.Context, email, password string) (Session, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return Session{}, ErrInvalidCredentials
	}
	user, err := u.repo.GetByEmail(ctx, email)
	if err != nil {
		return Session{}, err
	}
	if user.ID == "" {
		return Session{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		logrus.Infof("[user][usecase] login rejected user_id=%s", user.ID)
		return Session{}, ErrInvalidCredentials
	}

	token, exp, err := u.tokens.Issue(user)
	if err != nil {
		return Session{}, err
	}
	return Session{Token: token, ExpiresAt: exp, User: user}, nil
}

func (u *UserUseCase) Me(ctx context.Context, identity entities.Identity) (entities.User, error) {
	if err := requireAuthenticated(identity); err != nil {
		return entities.User{}, err
	}
	user, err := u.repo.GetByID(ctx, identity.UserID)
	if err != nil {
		return entities.User{}, err
	}
	if user.ID == "" {
		return entities.User{}, ErrUserNotFound
	}
	return user, nil
}

func (u *UserUseCase) List(ctx context.Context, identity entities.Identity) ([]entities.User, error) {
	if err := requireAdmin(identity); err != nil {
		return nil, err
	}
	return u.repo.List(ctx)
}
