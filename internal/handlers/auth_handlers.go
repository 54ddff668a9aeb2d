package handlers

import (
	"log"
	"net/http"

	"unistay/internal/common"
	"unistay/internal/repositories"
	"unistay/internal/services"

	"github.com/labstack/echo/v4"
)

// AuthHandlers handles authentication-related HTTP requests
type AuthHandlers struct {
	authService services.AuthService
	profileRepo repositories.ProfileRepository
}

// NewAuthHandlers creates a new auth handlers instance
func NewAuthHandlers(authService services.AuthService, profileRepo repositories.ProfileRepository) *AuthHandlers {
	return &AuthHandlers{
		authService: authService,
		profileRepo: profileRepo,
	}
}

// CallbackRequest is the OAuth callback payload: the provider ID token
// obtained by the client-side flow.
type CallbackRequest struct {
	IDToken string `json:"id_token" validate:"required"`
}

// Callback exchanges a provider ID token for a session. Profile upsert
// happens inside the service and never blocks the exchange.
func (h *AuthHandlers) Callback(c echo.Context) error {
	ctx := c.Request().Context()

	var req CallbackRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if req.IDToken == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "id_token is required")
	}

	session, profile, err := h.authService.SignIn(ctx, req.IDToken)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Identity verification failed")
	}

	cookie := &http.Cookie{
		Name:     "session",
		Value:    session.SessionToken,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   session.ExpiresIn,
	}
	c.SetCookie(cookie)

	return c.JSON(http.StatusOK, map[string]interface{}{
		"session": session,
		"profile": profile,
	})
}

// Me returns the signed-in user's profile.
func (h *AuthHandlers) Me(c echo.Context) error {
	ctx := c.Request().Context()

	subject, ok := common.GetSubjectFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	profile, err := h.profileRepo.GetBySubject(ctx, subject)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load profile")
	}
	if profile == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Profile not found")
	}

	if touchErr := h.profileRepo.TouchLastActive(ctx, subject); touchErr != nil {
		log.Printf("Failed to touch last-active for subject %s: %v", subject, touchErr)
	}

	return c.JSON(http.StatusOK, profile)
}

// SignOut clears the session cookie. Session tokens are short-lived and not
// tracked server-side, so there is nothing to revoke.
func (h *AuthHandlers) SignOut(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     "session",
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
	return c.JSON(http.StatusOK, map[string]string{
		"message": "Signed out successfully",
	})
}
