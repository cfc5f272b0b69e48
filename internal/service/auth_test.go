package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/utafrali/MarketplaceGo/internal/auth"
	"github.com/utafrali/MarketplaceGo/internal/config"
	"github.com/utafrali/MarketplaceGo/internal/domain"
	apperrors "github.com/utafrali/MarketplaceGo/pkg/errors"
)

func testTokens() *auth.TokenService {
	return auth.NewTokenService(config.TokenConfig{
		AccessSecret:  "test-access-secret-access-access",
		AccessExpiry:  15 * time.Minute,
		RefreshSecret: "test-refresh-secret-refresh-refr",
		RefreshExpiry: 7 * 24 * time.Hour,
		Issuer:        "marketplace-test",
	})
}

func fixtureHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func newAuthService(users *mockUserRepo) (*AuthService, *auth.TokenService) {
	tokens := testTokens()
	resolver := auth.NewIdentityResolver(tokens, users)
	return NewAuthService(users, auth.NewHasher(), tokens, resolver), tokens
}

func TestAuthService_Login(t *testing.T) {
	users := &mockUserRepo{}
	svc, tokens := newAuthService(users)

	user := &domain.User{
		ID:           uuid.New(),
		Email:        "ada@example.com",
		PasswordHash: fixtureHash(t, "s3cret-password"),
	}
	users.On("GetByEmail", mock.Anything, "ada@example.com").Return(user, nil)

	pair, err := svc.Login(context.Background(), domain.LoginRequest{
		Email:    "ada@example.com",
		Password: "s3cret-password",
	})
	require.NoError(t, err)

	assert.Equal(t, "bearer", pair.TokenType)
	assert.Equal(t, int64((15 * time.Minute).Seconds()), pair.ExpiresIn)

	subject, err := tokens.Verify(pair.AccessToken, auth.UsageAccess)
	require.NoError(t, err)
	assert.Equal(t, user.ID, subject)

	subject, err = tokens.Verify(pair.RefreshToken, auth.UsageRefresh)
	require.NoError(t, err)
	assert.Equal(t, user.ID, subject)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	users := &mockUserRepo{}
	svc, _ := newAuthService(users)

	user := &domain.User{
		ID:           uuid.New(),
		Email:        "ada@example.com",
		PasswordHash: fixtureHash(t, "correct-password"),
	}
	users.On("GetByEmail", mock.Anything, "ada@example.com").Return(user, nil)

	_, err := svc.Login(context.Background(), domain.LoginRequest{
		Email:    "ada@example.com",
		Password: "wrong-password",
	})
	assert.True(t, errors.Is(err, apperrors.ErrIncorrectCredentials))
}

func TestAuthService_Login_UnknownEmailSameError(t *testing.T) {
	users := &mockUserRepo{}
	svc, _ := newAuthService(users)

	users.On("GetByEmail", mock.Anything, "ghost@example.com").
		Return(nil, apperrors.NotFound("user", "ghost@example.com"))

	_, unknownErr := svc.Login(context.Background(), domain.LoginRequest{
		Email:    "ghost@example.com",
		Password: "whatever-password",
	})
	require.Error(t, unknownErr)
	assert.True(t, errors.Is(unknownErr, apperrors.ErrIncorrectCredentials))

	// The message must not reveal whether the account exists.
	var appErr *apperrors.AppError
	require.True(t, errors.As(unknownErr, &appErr))
	assert.NotContains(t, appErr.Message, "ghost@example.com")
	assert.NotContains(t, appErr.Message, "not found")
}

func TestAuthService_Login_ValidatesRequest(t *testing.T) {
	users := &mockUserRepo{}
	svc, _ := newAuthService(users)

	_, err := svc.Login(context.Background(), domain.LoginRequest{Email: "not-an-email", Password: "x"})
	require.Error(t, err)
	users.AssertNotCalled(t, "GetByEmail")
}

func TestAuthService_Refresh(t *testing.T) {
	users := &mockUserRepo{}
	svc, tokens := newAuthService(users)

	user := &domain.User{ID: uuid.New(), Email: "ada@example.com"}
	users.On("GetByID", mock.Anything, user.ID).Return(user, nil)

	refresh, err := tokens.Issue(user.ID, auth.UsageRefresh)
	require.NoError(t, err)

	pair, err := svc.Refresh(context.Background(), refresh)
	require.NoError(t, err)

	subject, err := tokens.Verify(pair.AccessToken, auth.UsageAccess)
	require.NoError(t, err)
	assert.Equal(t, user.ID, subject)
}

func TestAuthService_Refresh_RejectsAccessToken(t *testing.T) {
	users := &mockUserRepo{}
	svc, tokens := newAuthService(users)

	access, err := tokens.Issue(uuid.New(), auth.UsageAccess)
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), access)
	assert.True(t, errors.Is(err, apperrors.ErrTokenInvalid))
	users.AssertNotCalled(t, "GetByID")
}

func TestAuthService_Refresh_DeletedUser(t *testing.T) {
	users := &mockUserRepo{}
	svc, tokens := newAuthService(users)

	id := uuid.New()
	users.On("GetByID", mock.Anything, id).
		Return(nil, apperrors.NotFound("user", id.String()))

	refresh, err := tokens.Issue(id, auth.UsageRefresh)
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), refresh)
	assert.True(t, errors.Is(err, apperrors.ErrIdentityNotFound))
}

func TestAuthService_Identify_RejectsRefreshToken(t *testing.T) {
	users := &mockUserRepo{}
	svc, tokens := newAuthService(users)

	refresh, err := tokens.Issue(uuid.New(), auth.UsageRefresh)
	require.NoError(t, err)

	_, err = svc.Identify(context.Background(), refresh)
	assert.True(t, errors.Is(err, apperrors.ErrTokenInvalid))
}
