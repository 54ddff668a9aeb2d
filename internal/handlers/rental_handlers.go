package handlers

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"unistay/internal/chain"
	"unistay/internal/common"
	"unistay/internal/models"
	"unistay/internal/repositories"

	"github.com/labstack/echo/v4"
	qrcode "github.com/skip2/go-qrcode"
)

// RentalHandlers fronts the contract service. Chain and wallet errors are
// surfaced to the client as-is; the handlers add no retry or interpretation.
type RentalHandlers struct {
	contractSvc *chain.ContractService
	profileRepo repositories.ProfileRepository
}

func NewRentalHandlers(contractSvc *chain.ContractService, profileRepo repositories.ProfileRepository) *RentalHandlers {
	return &RentalHandlers{
		contractSvc: contractSvc,
		profileRepo: profileRepo,
	}
}

func parseID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, name+" must be a non-negative integer")
	}
	return id, nil
}

// ListPropertyRequest lists a property on-chain.
type ListPropertyRequest struct {
	Title           string `json:"title" validate:"required"`
	Location        string `json:"location" validate:"required"`
	MonthlyRent     string `json:"monthly_rent" validate:"required"`
	SecurityDeposit string `json:"security_deposit" validate:"required"`
	ContentHash     string `json:"content_hash"`
}

// ListProperty submits a property listing transaction.
func (h *RentalHandlers) ListProperty(c echo.Context) error {
	var req ListPropertyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if req.Title == "" || req.MonthlyRent == "" || req.SecurityDeposit == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title, monthly_rent and security_deposit are required")
	}

	receipt, err := h.contractSvc.ListProperty(c.Request().Context(), req.Title, req.Location, req.MonthlyRent, req.SecurityDeposit, req.ContentHash)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}
	return c.JSON(http.StatusCreated, receipt)
}

// GetProperty reads an on-chain property record.
func (h *RentalHandlers) GetProperty(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	property, err := h.contractSvc.GetProperty(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}
	return c.JSON(http.StatusOK, property)
}

// GetAgreement reads an on-chain lease record.
func (h *RentalHandlers) GetAgreement(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	agreement, err := h.contractSvc.GetRentalAgreement(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}
	return c.JSON(http.StatusOK, agreement)
}

// CreateAgreementRequest opens a lease on a property.
type CreateAgreementRequest struct {
	PropertyID uint64 `json:"property_id" validate:"required"`
	Tenant     string `json:"tenant" validate:"required"`
	Months     uint64 `json:"months" validate:"required,gt=0"`
}

// CreateAgreement submits a lease-creation transaction.
func (h *RentalHandlers) CreateAgreement(c echo.Context) error {
	var req CreateAgreementRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if req.Tenant == "" || req.Months == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "tenant and months are required")
	}

	receipt, err := h.contractSvc.CreateRentalAgreement(c.Request().Context(), req.PropertyID, req.Tenant, req.Months)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}
	return c.JSON(http.StatusCreated, receipt)
}

// PayRentRequest pays one month of rent.
type PayRentRequest struct {
	Month  uint64 `json:"month" validate:"required"`
	Amount string `json:"amount" validate:"required"`
}

// PayRent submits a rent payment and, when the caller is signed in, links a
// receipt to their profile. Receipt-store failures never fail the payment.
func (h *RentalHandlers) PayRent(c echo.Context) error {
	ctx := c.Request().Context()

	rentalID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req PayRentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if req.Amount == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "amount is required")
	}

	receipt, err := h.contractSvc.PayRent(ctx, rentalID, req.Month, req.Amount)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}

	if subject, ok := common.GetSubjectFromContext(ctx); ok {
		stored := &models.Receipt{
			RentalID: strconv.FormatUint(rentalID, 10),
			Month:    req.Month,
			Amount:   req.Amount,
			TxHash:   receipt.TxHash,
			PaidAt:   time.Now(),
		}
		if storeErr := h.profileRepo.AddReceipt(ctx, subject, stored); storeErr != nil {
			log.Printf("Failed to store receipt for subject %s: %v", subject, storeErr)
		}
	}

	return c.JSON(http.StatusOK, receipt)
}

// EndAgreement closes a lease, triggering the deposit return.
func (h *RentalHandlers) EndAgreement(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	receipt, err := h.contractSvc.EndRentalAgreement(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}
	return c.JSON(http.StatusOK, receipt)
}

// IsRentPaid reports a month's payment status.
func (h *RentalHandlers) IsRentPaid(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	month, err := strconv.ParseUint(c.Param("month"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "month must be a non-negative integer")
	}
	paid, err := h.contractSvc.IsRentPaid(c.Request().Context(), id, month)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]bool{"paid": paid})
}

// TenantRentals lists lease ids for a tenant address.
func (h *RentalHandlers) TenantRentals(c echo.Context) error {
	rentals, err := h.contractSvc.GetTenantRentals(c.Request().Context(), c.Param("addr"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}
	return c.JSON(http.StatusOK, rentals)
}

// LandlordProperties lists property ids for a landlord address.
func (h *RentalHandlers) LandlordProperties(c echo.Context) error {
	properties, err := h.contractSvc.GetLandlordProperties(c.Request().Context(), c.Param("addr"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}
	return c.JSON(http.StatusOK, properties)
}

// BlockTimestamp returns the chain's current block time, used by clients to
// compute lease day boundaries.
func (h *RentalHandlers) BlockTimestamp(c echo.Context) error {
	ts, err := h.contractSvc.GetCurrentBlockTimestamp(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]int64{"timestamp": ts})
}

// ContractBalance returns the contract's escrow balance.
func (h *RentalHandlers) ContractBalance(c echo.Context) error {
	balance, err := h.contractSvc.GetContractBalance(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]string{"balance": balance})
}

// PaymentQR renders a QR code encoding a payment request for a lease month,
// scannable from a wallet app.
func (h *RentalHandlers) PaymentQR(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	agreement, err := h.contractSvc.GetRentalAgreement(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}

	month := c.QueryParam("month")
	if month == "" {
		month = "1"
	}
	uri := "unistay:pay?rental=" + strconv.FormatUint(id, 10) + "&month=" + month + "&amount=" + agreement.MonthlyRent

	png, err := qrcode.Encode(uri, qrcode.Medium, 256)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to render QR code")
	}
	return c.Blob(http.StatusOK, "image/png", png)
}
