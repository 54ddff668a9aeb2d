package handlers

import (
	"net/http"
	"strconv"
	"time"

	"unistay/internal/common"
	"unistay/internal/models"
	"unistay/internal/services"

	"github.com/labstack/echo/v4"
)

// ListingHandlers handles listing feed and admin moderation requests
type ListingHandlers struct {
	listingSvc services.ListingService
}

func NewListingHandlers(listingSvc services.ListingService) *ListingHandlers {
	return &ListingHandlers{listingSvc: listingSvc}
}

func paging(c echo.Context) (limit, offset int) {
	limit = 20
	offset = 0
	if l, err := strconv.Atoi(c.QueryParam("limit")); err == nil && l > 0 && l <= 100 {
		limit = l
	}
	if o, err := strconv.Atoi(c.QueryParam("offset")); err == nil && o >= 0 {
		offset = o
	}
	return limit, offset
}

// ListListings returns the public listing feed.
func (h *ListingHandlers) ListListings(c echo.Context) error {
	limit, offset := paging(c)
	listings, err := h.listingSvc.List(c.Request().Context(), limit, offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load listings")
	}
	return c.JSON(http.StatusOK, listings)
}

// GetListing returns one listing with its display persona.
func (h *ListingHandlers) GetListing(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "listing id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	listing, err := h.listingSvc.GetByID(c.Request().Context(), id)
	if err != nil {
		return common.SendNotFoundError(c, "Listing")
	}
	return c.JSON(http.StatusOK, listing)
}

// CreateListingRequest is a community listing submission.
type CreateListingRequest struct {
	Title         string  `json:"title" validate:"required"`
	Location      string  `json:"location" validate:"required"`
	State         string  `json:"state"`
	Price         float64 `json:"price" validate:"required,gt=0"`
	ImageURL      string  `json:"image_url"`
	Description   string  `json:"description"`
	RoomType      string  `json:"room_type"`
	AvailableFrom string  `json:"available_from"`
	Seed          string  `json:"seed"`
}

// CreateListing accepts a community listing submission.
func (h *ListingHandlers) CreateListing(c echo.Context) error {
	var req CreateListingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if req.Title == "" || req.Location == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Title and location are required")
	}
	if err := common.ValidatePositiveFloat(req.Price, "price", 100000); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	availableFrom := time.Now()
	if req.AvailableFrom != "" {
		parsed, err := time.Parse("2006-01-02", req.AvailableFrom)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "available_from must be YYYY-MM-DD")
		}
		availableFrom = parsed
	}

	listing := &models.Listing{
		Title:         req.Title,
		Location:      req.Location,
		State:         req.State,
		Price:         req.Price,
		ImageURL:      req.ImageURL,
		Description:   req.Description,
		RoomType:      req.RoomType,
		AvailableFrom: availableFrom,
		Seed:          req.Seed,
	}
	if err := h.listingSvc.Create(c.Request().Context(), listing); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusCreated, listing)
}

// SearchListings filters the feed by text, room type, price and location.
func (h *ListingHandlers) SearchListings(c echo.Context) error {
	filter := &models.ListingSearchFilter{Query: c.QueryParam("q")}
	if rt := c.QueryParam("room_type"); rt != "" {
		filter.RoomType = &rt
	}
	if mp := c.QueryParam("max_price"); mp != "" {
		price, err := strconv.ParseFloat(mp, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "max_price must be numeric")
		}
		filter.MaxPrice = &price
	}
	if loc := c.QueryParam("location"); loc != "" {
		filter.Location = &loc
	}

	limit, offset := paging(c)
	listings, err := h.listingSvc.Search(c.Request().Context(), filter, limit, offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Search failed")
	}
	return c.JSON(http.StatusOK, listings)
}

// RemoveListing soft-removes a listing (admin only, enforced by middleware).
func (h *ListingHandlers) RemoveListing(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "listing id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.listingSvc.Remove(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to remove listing")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Listing removed"})
}

// RestoreListing reverses an admin removal.
func (h *ListingHandlers) RestoreListing(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "listing id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.listingSvc.Restore(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to restore listing")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Listing restored"})
}

// UploadListingImage stores a listing photo and returns a presigned URL.
func (h *ListingHandlers) UploadListingImage(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "listing id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	file, err := c.FormFile("image")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "image file is required")
	}
	src, err := file.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Failed to read image")
	}
	defer src.Close()

	url, err := h.listingSvc.UploadImage(c.Request().Context(), id, file.Filename, src, file.Size)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to store image")
	}
	return c.JSON(http.StatusOK, map[string]string{"url": url})
}
