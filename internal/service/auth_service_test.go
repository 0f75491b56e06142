package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/shule-labs/school-admin-api/internal/dto"
	"github.com/shule-labs/school-admin-api/internal/models"
	appErrors "github.com/shule-labs/school-admin-api/pkg/errors"
)

type mockAuthRepo struct {
	userByUsername *models.User
	findErr        error
	created        *models.User
	createErr      error
}

func (m *mockAuthRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	return m.userByUsername, nil
}

func (m *mockAuthRepo) FindByID(ctx context.Context, id int64) (*models.User, error) {
	if m.userByUsername != nil && m.userByUsername.ID == id {
		return m.userByUsername, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockAuthRepo) Create(ctx context.Context, user *models.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	user.ID = 42
	m.created = user
	return nil
}

func newTestAuthService(repo *mockAuthRepo, accessCode string) *AuthService {
	return NewAuthService(repo, validator.New(), zap.NewNop(), AuthConfig{
		TokenSecret:        "secret",
		TokenExpiry:        time.Hour,
		Issuer:             "school-admin-api",
		RegisterAccessCode: accessCode,
	})
}

func TestAuthServiceLoginSuccess(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	repo := &mockAuthRepo{userByUsername: &models.User{ID: 7, Username: "greenhill", PasswordHash: string(hash), Role: models.RoleSchool}}
	svc := newTestAuthService(repo, "code")

	res, err := svc.Login(context.Background(), dto.LoginRequest{Username: "greenhill", Password: "password"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
	assert.Equal(t, models.RoleSchool, res.Role)
	assert.Equal(t, int64(7), res.User.ID)
	assert.Greater(t, res.ExpiresIn, int64(0))
}

func TestAuthServiceLoginWrongPassword(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	repo := &mockAuthRepo{userByUsername: &models.User{ID: 7, Username: "greenhill", PasswordHash: string(hash)}}
	svc := newTestAuthService(repo, "code")

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "greenhill", Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceLoginUnknownUserSameError(t *testing.T) {
	repo := &mockAuthRepo{findErr: sql.ErrNoRows}
	svc := newTestAuthService(repo, "code")

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "ghost", Password: "password"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceRegisterSuccess(t *testing.T) {
	repo := &mockAuthRepo{findErr: sql.ErrNoRows}
	svc := newTestAuthService(repo, "let-me-in")

	user, err := svc.Register(context.Background(), dto.RegisterRequest{
		Username:   "newschool",
		Password:   "password",
		Role:       models.RoleSchool,
		AccessCode: "let-me-in",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(42), user.ID)
	require.NotNil(t, repo.created)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.created.PasswordHash), []byte("password")))
}

func TestAuthServiceRegisterBadAccessCode(t *testing.T) {
	repo := &mockAuthRepo{findErr: sql.ErrNoRows}
	svc := newTestAuthService(repo, "let-me-in")

	_, err := svc.Register(context.Background(), dto.RegisterRequest{
		Username:   "newschool",
		Password:   "password",
		Role:       models.RoleSchool,
		AccessCode: "nope",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidAccessCode.Code, appErrors.FromError(err).Code)
	assert.Nil(t, repo.created)
}

func TestAuthServiceRegisterEmptyConfiguredCodeRejectsAll(t *testing.T) {
	repo := &mockAuthRepo{findErr: sql.ErrNoRows}
	svc := newTestAuthService(repo, "")

	_, err := svc.Register(context.Background(), dto.RegisterRequest{
		Username:   "newschool",
		Password:   "password",
		Role:       models.RoleAdmin,
		AccessCode: "",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidAccessCode.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceRegisterUnknownRole(t *testing.T) {
	repo := &mockAuthRepo{findErr: sql.ErrNoRows}
	svc := newTestAuthService(repo, "let-me-in")

	_, err := svc.Register(context.Background(), dto.RegisterRequest{
		Username:   "newschool",
		Password:   "password",
		Role:       "superuser",
		AccessCode: "let-me-in",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceRegisterDuplicateUsername(t *testing.T) {
	repo := &mockAuthRepo{userByUsername: &models.User{ID: 1, Username: "taken"}}
	svc := newTestAuthService(repo, "let-me-in")

	_, err := svc.Register(context.Background(), dto.RegisterRequest{
		Username:   "taken",
		Password:   "password",
		Role:       models.RoleSchool,
		AccessCode: "let-me-in",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceValidateTokenRoundTrip(t *testing.T) {
	repo := &mockAuthRepo{}
	svc := newTestAuthService(repo, "code")
	user := &models.User{ID: 9, Username: "admin", Role: models.RoleAdmin}

	token, _, err := svc.generateToken(user)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(9), claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)
}

func TestAuthServiceValidateTokenWrongSecret(t *testing.T) {
	repo := &mockAuthRepo{}
	issuer := newTestAuthService(repo, "code")
	verifier := NewAuthService(repo, validator.New(), zap.NewNop(), AuthConfig{TokenSecret: "other", TokenExpiry: time.Hour})

	token, _, err := issuer.generateToken(&models.User{ID: 1, Username: "admin", Role: models.RoleAdmin})
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}
