package service

import (
	"coachdesk/internal/domain"
	"coachdesk/internal/repository"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeUserRepo struct {
	users map[primitive.ObjectID]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[primitive.ObjectID]*domain.User{}}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return primitive.NilObjectID, errors.New("duplicate email")
		}
	}
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt
	cp := *user
	r.users[user.ID] = &cp
	return user.ID, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	userRepo := newFakeUserRepo()
	svc := NewAuthService(userRepo, "test-secret", time.Hour)

	user, err := svc.Register(ctx, "Alex Coach", "alex@example.com", "s3cret-pass", domain.RoleCoach)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.PasswordHash != "" {
		t.Error("Register leaked the password hash")
	}

	token, loggedIn, err := svc.Login(ctx, "alex@example.com", "s3cret-pass")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if loggedIn.ID != user.ID {
		t.Errorf("login returned user %s, want %s", loggedIn.ID.Hex(), user.ID.Hex())
	}
	if loggedIn.PasswordHash != "" {
		t.Error("Login leaked the password hash")
	}

	claims := &jwtClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(tok *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if claims.UserID != user.ID.Hex() || claims.Role != domain.RoleCoach {
		t.Errorf("claims = %q/%q, want user id and coach role", claims.UserID, claims.Role)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc := NewAuthService(newFakeUserRepo(), "test-secret", time.Hour)

	if _, err := svc.Register(ctx, "Alex Coach", "alex@example.com", "s3cret-pass", domain.RoleCoach); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	_, err := svc.Register(ctx, "Other Coach", "alex@example.com", "another-pass", domain.RoleAdmin)
	if !errors.Is(err, ErrUserAlreadyExists) {
		t.Errorf("second Register error = %v, want ErrUserAlreadyExists", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	ctx := context.Background()
	svc := NewAuthService(newFakeUserRepo(), "test-secret", time.Hour)
	svc.Register(ctx, "Alex Coach", "alex@example.com", "s3cret-pass", domain.RoleCoach)

	if _, _, err := svc.Login(ctx, "alex@example.com", "wrong"); !errors.Is(err, ErrAuthenticationFailed) {
		t.Errorf("Login error = %v, want ErrAuthenticationFailed", err)
	}
	// Unknown email maps to the same generic failure.
	if _, _, err := svc.Login(ctx, "nobody@example.com", "s3cret-pass"); !errors.Is(err, ErrAuthenticationFailed) {
		t.Errorf("Login error = %v, want ErrAuthenticationFailed", err)
	}
}
