package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"unistay/internal/models"
	"unistay/internal/repositories"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
)

// AuthService exchanges OAuth identity assertions for session tokens and
// keeps the profile store in sync on sign-in.
type AuthService interface {
	SignIn(ctx context.Context, idToken string) (*models.SessionResponse, *models.Profile, error)
	IssueSession(subject, role string) (*models.SessionResponse, error)
	ValidateSession(token string) (*SessionClaims, error)
}

// SessionClaims are the claims carried by a session token.
type SessionClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type authService struct {
	profileRepo repositories.ProfileRepository
	jwks        *keyfunc.JWKS
	issuer      string
	audience    string
	provider    string
	jwtSecret   []byte
	sessionTTL  time.Duration
	adminRoles  map[string]string // subject -> role overrides
}

// NewAuthService creates the auth service. jwksURL is the identity provider's
// key set endpoint; audience is our OAuth client id.
func NewAuthService(profileRepo repositories.ProfileRepository, jwksURL, issuer, audience, provider, jwtSecret string, sessionTTL time.Duration, adminSubjects []string) (AuthService, error) {
	jwks, err := keyfunc.Get(jwksURL, keyfunc.Options{
		RefreshInterval:   time.Hour,
		RefreshRateLimit:  time.Minute,
		RefreshUnknownKID: true,
		RefreshErrorHandler: func(err error) {
			log.Printf("Failed to refresh provider JWKS: %v", err)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load provider JWKS: %w", err)
	}

	admins := make(map[string]string, len(adminSubjects))
	for _, sub := range adminSubjects {
		admins[sub] = "admin"
	}

	return &authService{
		profileRepo: profileRepo,
		jwks:        jwks,
		issuer:      issuer,
		audience:    audience,
		provider:    provider,
		jwtSecret:   []byte(jwtSecret),
		sessionTTL:  sessionTTL,
		adminRoles:  admins,
	}, nil
}

// providerClaims are the profile fields we read off the provider ID token.
type providerClaims struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
	jwt.RegisteredClaims
}

// SignIn verifies the provider ID token, issues a session, and upserts the
// profile document. Profile-store failures are logged but never block
// sign-in; the session is issued regardless.
func (s *authService) SignIn(ctx context.Context, idToken string) (*models.SessionResponse, *models.Profile, error) {
	claims, err := s.verifyIDToken(idToken)
	if err != nil {
		return nil, nil, err
	}
	return s.completeSignIn(ctx, claims)
}

func (s *authService) verifyIDToken(idToken string) (*providerClaims, error) {
	claims := &providerClaims{}
	token, err := jwt.ParseWithClaims(idToken, claims, s.jwks.Keyfunc,
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid identity token: %w", err)
	}
	if !token.Valid || claims.Subject == "" {
		return nil, fmt.Errorf("identity token missing subject")
	}
	return claims, nil
}

func (s *authService) completeSignIn(ctx context.Context, claims *providerClaims) (*models.SessionResponse, *models.Profile, error) {
	role := s.adminRoles[claims.Subject]
	if role == "" {
		role = "user"
	}

	session, err := s.IssueSession(claims.Subject, role)
	if err != nil {
		return nil, nil, err
	}

	profile, upsertErr := s.profileRepo.Upsert(ctx, &models.Profile{
		Subject:  claims.Subject,
		Email:    claims.Email,
		Name:     claims.Name,
		Image:    claims.Picture,
		Provider: s.provider,
	})
	if upsertErr != nil {
		// Sign-in success is decoupled from profile-store availability.
		log.Printf("Failed to upsert profile for subject %s: %v", claims.Subject, upsertErr)
		profile = nil
	}

	return session, profile, nil
}

// IssueSession signs a session token for the given subject and role.
func (s *authService) IssueSession(subject, role string) (*models.SessionResponse, error) {
	now := time.Now()
	claims := SessionClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "unistay",
			Subject:   subject,
			Audience:  jwt.ClaimStrings{"unistay-web"},
			ExpiresAt: jwt.NewNumericDate(now.Add(s.sessionTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign session token: %v", err)
	}

	return &models.SessionResponse{
		SessionToken: signed,
		TokenType:    "Bearer",
		ExpiresIn:    int(s.sessionTTL.Seconds()),
	}, nil
}

// ValidateSession parses and validates a session token.
func (s *authService) ValidateSession(tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("session token not valid")
	}
	return claims, nil
}
