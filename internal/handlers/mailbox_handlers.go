package handlers

import (
	"fmt"
	"net/http"

	"unistay/internal/common"
	"unistay/internal/services"

	"github.com/labstack/echo/v4"
)

// MailboxHandlers serves the saved-listings mailbox. All routes sit behind
// the session gate.
type MailboxHandlers struct {
	mailboxSvc services.MailboxService
}

func NewMailboxHandlers(mailboxSvc services.MailboxService) *MailboxHandlers {
	return &MailboxHandlers{mailboxSvc: mailboxSvc}
}

// GetMailbox returns the user's saved listings. Saved ids with no matching
// listing row are omitted, never an error.
func (h *MailboxHandlers) GetMailbox(c echo.Context) error {
	ctx := c.Request().Context()

	subject, ok := common.GetSubjectFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	listings, err := h.mailboxSvc.SavedListings(ctx, subject)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load mailbox")
	}
	return c.JSON(http.StatusOK, listings)
}

// SaveListing adds a listing to the saved set.
func (h *MailboxHandlers) SaveListing(c echo.Context) error {
	ctx := c.Request().Context()

	subject, ok := common.GetSubjectFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	listingID, err := common.ValidateUUID(c.Param("listingID"), "listing id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.mailboxSvc.Save(ctx, subject, listingID); err != nil {
		return common.SendNotFoundError(c, "Listing")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Listing saved"})
}

// UnsaveListing removes a listing from the saved set.
func (h *MailboxHandlers) UnsaveListing(c echo.Context) error {
	ctx := c.Request().Context()

	subject, ok := common.GetSubjectFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	listingID, err := common.ValidateUUID(c.Param("listingID"), "listing id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.mailboxSvc.Unsave(ctx, subject, listingID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to unsave listing")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Listing unsaved"})
}

// Subscribe streams mailbox invalidation events as server-sent events. The
// subscription is released when the client disconnects, including error
// paths during setup.
func (h *MailboxHandlers) Subscribe(c echo.Context) error {
	ctx := c.Request().Context()

	subject, ok := common.GetSubjectFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	sub, err := h.mailboxSvc.Watch(ctx, subject)
	if err != nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Realtime updates unavailable")
	}
	defer sub.Close()

	resp := c.Response()
	resp.Header().Set(echo.HeaderContentType, "text/event-stream")
	resp.Header().Set("Cache-Control", "no-cache")
	resp.Header().Set("Connection", "keep-alive")
	resp.WriteHeader(http.StatusOK)
	resp.Flush()

	for {
		select {
		case <-ctx.Done():
			return nil
		case _, open := <-sub.Events():
			if !open {
				return nil
			}
			if _, err := fmt.Fprint(resp, "event: invalidate\ndata: {}\n\n"); err != nil {
				return nil
			}
			resp.Flush()
		}
	}
}
