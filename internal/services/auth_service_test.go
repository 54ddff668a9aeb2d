package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"unistay/internal/models"
)

func newTestAuthService(profileRepo *mockProfileRepo, adminSubjects []string) *authService {
	admins := make(map[string]string, len(adminSubjects))
	for _, sub := range adminSubjects {
		admins[sub] = "admin"
	}
	return &authService{
		profileRepo: profileRepo,
		issuer:      "https://accounts.example.com",
		audience:    "unistay-client",
		provider:    "google",
		jwtSecret:   []byte("test-secret"),
		sessionTTL:  time.Hour,
		adminRoles:  admins,
	}
}

func TestCompleteSignInUpsertsProfile(t *testing.T) {
	profileRepo := new(mockProfileRepo)
	svc := newTestAuthService(profileRepo, nil)

	stored := &models.Profile{Subject: "sub-42", Email: "jo@example.com"}
	profileRepo.On("Upsert", mock.Anything, mock.MatchedBy(func(p *models.Profile) bool {
		return p.Subject == "sub-42" && p.Email == "jo@example.com" && p.Provider == "google"
	})).Return(stored, nil)

	session, profile, err := svc.completeSignIn(context.Background(), &providerClaims{
		Email:            "jo@example.com",
		Name:             "Jo",
		RegisteredClaims: jwt.RegisteredClaims{Subject: "sub-42"},
	})
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, "Bearer", session.TokenType)
	assert.Equal(t, stored, profile)
	profileRepo.AssertExpectations(t)
}

func TestCompleteSignInSurvivesProfileStoreOutage(t *testing.T) {
	profileRepo := new(mockProfileRepo)
	svc := newTestAuthService(profileRepo, nil)

	profileRepo.On("Upsert", mock.Anything, mock.Anything).Return(nil, errors.New("mongo unreachable"))

	session, profile, err := svc.completeSignIn(context.Background(), &providerClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "sub-42"},
	})
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Nil(t, profile)
}

func TestCompleteSignInAssignsAdminRole(t *testing.T) {
	profileRepo := new(mockProfileRepo)
	svc := newTestAuthService(profileRepo, []string{"sub-admin"})
	profileRepo.On("Upsert", mock.Anything, mock.Anything).Return(&models.Profile{}, nil)

	session, _, err := svc.completeSignIn(context.Background(), &providerClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "sub-admin"},
	})
	require.NoError(t, err)

	claims, err := svc.ValidateSession(session.SessionToken)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Role)

	session, _, err = svc.completeSignIn(context.Background(), &providerClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "sub-other"},
	})
	require.NoError(t, err)

	claims, err = svc.ValidateSession(session.SessionToken)
	require.NoError(t, err)
	assert.Equal(t, "user", claims.Role)
}

func TestIssueAndValidateSession(t *testing.T) {
	svc := newTestAuthService(new(mockProfileRepo), nil)

	session, err := svc.IssueSession("sub-1", "user")
	require.NoError(t, err)
	assert.Equal(t, int(time.Hour.Seconds()), session.ExpiresIn)

	claims, err := svc.ValidateSession(session.SessionToken)
	require.NoError(t, err)
	assert.Equal(t, "sub-1", claims.Subject)
	assert.Equal(t, "user", claims.Role)
	assert.Equal(t, "unistay", claims.Issuer)
}

func TestValidateSessionRejectsTamperedToken(t *testing.T) {
	svc := newTestAuthService(new(mockProfileRepo), nil)
	other := newTestAuthService(new(mockProfileRepo), nil)
	other.jwtSecret = []byte("a-different-secret")

	session, err := other.IssueSession("sub-1", "admin")
	require.NoError(t, err)

	_, err = svc.ValidateSession(session.SessionToken)
	assert.Error(t, err)
}

func TestValidateSessionRejectsWrongAlgorithm(t *testing.T) {
	svc := newTestAuthService(new(mockProfileRepo), nil)

	claims := &SessionClaims{
		Role: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "sub-1",
			Issuer:    "unistay",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(svc.jwtSecret)
	require.NoError(t, err)

	_, err = svc.ValidateSession(signed)
	assert.Error(t, err)
}

func TestValidateSessionRejectsExpiredToken(t *testing.T) {
	svc := newTestAuthService(new(mockProfileRepo), nil)
	svc.sessionTTL = -time.Minute

	session, err := svc.IssueSession("sub-1", "user")
	require.NoError(t, err)

	_, err = svc.ValidateSession(session.SessionToken)
	assert.Error(t, err)
}
