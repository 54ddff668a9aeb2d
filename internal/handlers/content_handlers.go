package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ContentHandlers serves the static marketing and legal pages as structured
// content the front end renders.
type ContentHandlers struct {
	pages map[string]ContentPage
}

// ContentPage is a static page body with its metadata.
type ContentPage struct {
	Slug     string   `json:"slug"`
	Title    string   `json:"title"`
	Sections []string `json:"sections"`
}

func NewContentHandlers() *ContentHandlers {
	pages := map[string]ContentPage{
		"faq": {
			Slug:  "faq",
			Title: "Frequently Asked Questions",
			Sections: []string{
				"How do I save a listing? Sign in and use the bookmark button on any listing card.",
				"Are payments mandatory? No. On-chain rent payment is optional; most listings settle off-platform.",
				"Who posts community listings? Verified students; contact details are shared after you save a listing.",
			},
		},
		"privacy": {
			Slug:  "privacy",
			Title: "Privacy Policy",
			Sections: []string{
				"We store your name, email and profile image from your sign-in provider.",
				"Saved listings and payment receipts are linked to your account and never shared with landlords.",
			},
		},
		"terms": {
			Slug:  "terms",
			Title: "Terms of Service",
			Sections: []string{
				"UniStay is a listing platform, not a party to any rental agreement.",
				"On-chain payments are executed by a smart contract; transactions are final once confirmed.",
			},
		},
		"disclaimer": {
			Slug:  "disclaimer",
			Title: "Disclaimer",
			Sections: []string{
				"Listings are user-submitted; verify all details before signing a lease or sending money.",
			},
		},
		"help": {
			Slug:  "help",
			Title: "Help Center",
			Sections: []string{
				"Browse listings from the home feed; filter by room type, price and location.",
				"Your mailbox keeps every listing you saved, updated live when you save or unsave.",
			},
		},
		"support": {
			Slug:  "support",
			Title: "Student Support",
			Sections: []string{
				"Housing advice and tenancy-rights resources for students, by campus region.",
			},
		},
	}
	return &ContentHandlers{pages: pages}
}

// GetPage returns a static content page by slug.
func (h *ContentHandlers) GetPage(c echo.Context) error {
	page, ok := h.pages[c.Param("page")]
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "Page not found")
	}
	return c.JSON(http.StatusOK, page)
}

// ListPages returns the slugs of all available pages.
func (h *ContentHandlers) ListPages(c echo.Context) error {
	slugs := make([]string, 0, len(h.pages))
	for slug := range h.pages {
		slugs = append(slugs, slug)
	}
	return c.JSON(http.StatusOK, slugs)
}
