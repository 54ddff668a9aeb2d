package chain

import (
	"context"
	"fmt"
	"log"
	"math/big"
	"time"

	"unistay/internal/metrics"
	"unistay/internal/models"
)

// rpcCaller is the slice of NodeClient the contract service needs.
type rpcCaller interface {
	Call(ctx context.Context, method string, params []interface{}, out interface{}) error
}

// ContractService presents a stable typed API over the rental-payment
// contract. When no deployment artifact is configured every operation degrades
// to a deterministic placeholder so the rest of the app stays usable without a
// live chain. The two states live behind a single backend dispatch point
// instead of a presence check per method.
type ContractService struct {
	backend backend
}

type backend interface {
	listProperty(ctx context.Context, title, location string, rent, deposit *big.Int, contentHash string) (*models.TxReceipt, error)
	getProperty(ctx context.Context, id uint64) (*models.Property, error)
	getRentalAgreement(ctx context.Context, id uint64) (*models.RentalAgreement, error)
	createRentalAgreement(ctx context.Context, propertyID uint64, tenant string, months uint64) (*models.TxReceipt, error)
	payRent(ctx context.Context, rentalID, month uint64, amount *big.Int) (*models.TxReceipt, error)
	endRentalAgreement(ctx context.Context, rentalID uint64) (*models.TxReceipt, error)
	isRentPaid(ctx context.Context, rentalID, month uint64) (bool, error)
	tenantRentals(ctx context.Context, addr string) ([]uint64, error)
	landlordProperties(ctx context.Context, addr string) ([]uint64, error)
	contractBalance(ctx context.Context) (*big.Int, error)
	blockTimestamp(ctx context.Context) (int64, error)
}

// NewContractService binds to a deployed contract when the artifact carries an
// address, and falls back to demo mode otherwise. signerAddr is the wallet
// address transactions are signed as; it is only used in bound mode.
func NewContractService(client *NodeClient, artifact *Artifact, signerAddr string) *ContractService {
	if artifact == nil || artifact.Address == "" {
		log.Printf("No deployed rental contract configured, running in demo mode")
		return &ContractService{backend: &demoBackend{}}
	}
	log.Printf("Rental contract bound at %s", artifact.Address)
	return &ContractService{backend: &boundBackend{
		client:  client,
		address: artifact.Address,
		signer:  signerAddr,
	}}
}

// Simulated reports whether the service is running in demo mode.
func (s *ContractService) Simulated() bool {
	_, demo := s.backend.(*demoBackend)
	return demo
}

// ListProperty submits a property listing transaction. Amounts are
// human-decimal strings and must convert to base units exactly.
func (s *ContractService) ListProperty(ctx context.Context, title, location, monthlyRent, securityDeposit, contentHash string) (*models.TxReceipt, error) {
	rent, err := ToBaseUnits(monthlyRent)
	if err != nil {
		return nil, fmt.Errorf("invalid monthly rent: %w", err)
	}
	deposit, err := ToBaseUnits(securityDeposit)
	if err != nil {
		return nil, fmt.Errorf("invalid security deposit: %w", err)
	}
	metrics.ChainCalls.WithLabelValues("listProperty").Inc()
	return s.backend.listProperty(ctx, title, location, rent, deposit, contentHash)
}

// GetProperty fetches an on-chain property record.
func (s *ContractService) GetProperty(ctx context.Context, id uint64) (*models.Property, error) {
	metrics.ChainCalls.WithLabelValues("getProperty").Inc()
	return s.backend.getProperty(ctx, id)
}

// GetRentalAgreement fetches an on-chain lease record.
func (s *ContractService) GetRentalAgreement(ctx context.Context, id uint64) (*models.RentalAgreement, error) {
	metrics.ChainCalls.WithLabelValues("getRentalAgreement").Inc()
	return s.backend.getRentalAgreement(ctx, id)
}

// CreateRentalAgreement opens a lease for a property, paying the security
// deposit from the signer's wallet.
func (s *ContractService) CreateRentalAgreement(ctx context.Context, propertyID uint64, tenant string, months uint64) (*models.TxReceipt, error) {
	metrics.ChainCalls.WithLabelValues("createRentalAgreement").Inc()
	return s.backend.createRentalAgreement(ctx, propertyID, tenant, months)
}

// PayRent pays one month of rent on a lease.
func (s *ContractService) PayRent(ctx context.Context, rentalID, month uint64, amount string) (*models.TxReceipt, error) {
	value, err := ToBaseUnits(amount)
	if err != nil {
		return nil, fmt.Errorf("invalid rent amount: %w", err)
	}
	metrics.ChainCalls.WithLabelValues("payRent").Inc()
	return s.backend.payRent(ctx, rentalID, month, value)
}

// EndRentalAgreement closes a lease and triggers the deposit return.
func (s *ContractService) EndRentalAgreement(ctx context.Context, rentalID uint64) (*models.TxReceipt, error) {
	metrics.ChainCalls.WithLabelValues("endRentalAgreement").Inc()
	return s.backend.endRentalAgreement(ctx, rentalID)
}

// IsRentPaid reports whether the given month of a lease has been paid.
func (s *ContractService) IsRentPaid(ctx context.Context, rentalID, month uint64) (bool, error) {
	metrics.ChainCalls.WithLabelValues("isRentPaid").Inc()
	return s.backend.isRentPaid(ctx, rentalID, month)
}

// GetTenantRentals returns the lease ids held by a tenant address.
func (s *ContractService) GetTenantRentals(ctx context.Context, addr string) ([]uint64, error) {
	metrics.ChainCalls.WithLabelValues("getTenantRentals").Inc()
	return s.backend.tenantRentals(ctx, addr)
}

// GetLandlordProperties returns the property ids owned by a landlord address.
func (s *ContractService) GetLandlordProperties(ctx context.Context, addr string) ([]uint64, error) {
	metrics.ChainCalls.WithLabelValues("getLandlordProperties").Inc()
	return s.backend.landlordProperties(ctx, addr)
}

// GetContractBalance returns the contract's escrow balance as a human-decimal
// string.
func (s *ContractService) GetContractBalance(ctx context.Context) (string, error) {
	metrics.ChainCalls.WithLabelValues("getContractBalance").Inc()
	balance, err := s.backend.contractBalance(ctx)
	if err != nil {
		return "", err
	}
	return FromBaseUnits(balance), nil
}

// GetCurrentBlockTimestamp returns the chain's current block time, or wall
// clock time in demo mode.
func (s *ContractService) GetCurrentBlockTimestamp(ctx context.Context) (int64, error) {
	metrics.ChainCalls.WithLabelValues("getCurrentBlockTimestamp").Inc()
	return s.backend.blockTimestamp(ctx)
}

// boundBackend proxies typed calls to the deployed contract through the
// gateway. Chain and wallet errors pass through unmodified.
type boundBackend struct {
	client  rpcCaller
	address string
	signer  string
}

// propertyWire mirrors the contract's property tuple; amounts travel as
// base-unit decimal strings.
type propertyWire struct {
	ID              uint64 `json:"id"`
	Owner           string `json:"owner"`
	Title           string `json:"title"`
	Location        string `json:"location"`
	MonthlyRent     string `json:"monthlyRent"`
	SecurityDeposit string `json:"securityDeposit"`
	Available       bool   `json:"available"`
	ContentHash     string `json:"contentHash"`
}

type rentalWire struct {
	ID              uint64 `json:"id"`
	PropertyID      uint64 `json:"propertyId"`
	Tenant          string `json:"tenant"`
	Landlord        string `json:"landlord"`
	MonthlyRent     string `json:"monthlyRent"`
	SecurityDeposit string `json:"securityDeposit"`
	StartDate       int64  `json:"startDate"`
	EndDate         int64  `json:"endDate"`
	Active          bool   `json:"active"`
	DepositReturned bool   `json:"depositReturned"`
}

type receiptWire struct {
	TxHash string `json:"txHash"`
	Status string `json:"status"`
}

func (b *boundBackend) send(ctx context.Context, method string, args ...interface{}) (*models.TxReceipt, error) {
	params := []interface{}{b.address, b.signer, method, args}
	var receipt receiptWire
	if err := b.client.Call(ctx, "contract_send", params, &receipt); err != nil {
		return nil, err
	}
	return &models.TxReceipt{TxHash: receipt.TxHash, Status: receipt.Status}, nil
}

func (b *boundBackend) call(ctx context.Context, method string, out interface{}, args ...interface{}) error {
	params := []interface{}{b.address, method, args}
	return b.client.Call(ctx, "contract_call", params, out)
}

func (b *boundBackend) listProperty(ctx context.Context, title, location string, rent, deposit *big.Int, contentHash string) (*models.TxReceipt, error) {
	return b.send(ctx, "listProperty", title, location, rent.String(), deposit.String(), contentHash)
}

func (b *boundBackend) getProperty(ctx context.Context, id uint64) (*models.Property, error) {
	var wire propertyWire
	if err := b.call(ctx, "getProperty", &wire, id); err != nil {
		return nil, err
	}
	rent, ok := new(big.Int).SetString(wire.MonthlyRent, 10)
	if !ok {
		return nil, fmt.Errorf("malformed rent amount %q from contract", wire.MonthlyRent)
	}
	deposit, ok := new(big.Int).SetString(wire.SecurityDeposit, 10)
	if !ok {
		return nil, fmt.Errorf("malformed deposit amount %q from contract", wire.SecurityDeposit)
	}
	return &models.Property{
		ID:              wire.ID,
		Owner:           wire.Owner,
		Title:           wire.Title,
		Location:        wire.Location,
		MonthlyRent:     FromBaseUnits(rent),
		SecurityDeposit: FromBaseUnits(deposit),
		Available:       wire.Available,
		ContentHash:     wire.ContentHash,
	}, nil
}

func (b *boundBackend) getRentalAgreement(ctx context.Context, id uint64) (*models.RentalAgreement, error) {
	var wire rentalWire
	if err := b.call(ctx, "getRentalAgreement", &wire, id); err != nil {
		return nil, err
	}
	rent, ok := new(big.Int).SetString(wire.MonthlyRent, 10)
	if !ok {
		return nil, fmt.Errorf("malformed rent amount %q from contract", wire.MonthlyRent)
	}
	deposit, ok := new(big.Int).SetString(wire.SecurityDeposit, 10)
	if !ok {
		return nil, fmt.Errorf("malformed deposit amount %q from contract", wire.SecurityDeposit)
	}
	return &models.RentalAgreement{
		ID:              wire.ID,
		PropertyID:      wire.PropertyID,
		Tenant:          wire.Tenant,
		Landlord:        wire.Landlord,
		MonthlyRent:     FromBaseUnits(rent),
		SecurityDeposit: FromBaseUnits(deposit),
		StartDate:       wire.StartDate,
		EndDate:         wire.EndDate,
		Active:          wire.Active,
		DepositReturned: wire.DepositReturned,
	}, nil
}

func (b *boundBackend) createRentalAgreement(ctx context.Context, propertyID uint64, tenant string, months uint64) (*models.TxReceipt, error) {
	return b.send(ctx, "createRentalAgreement", propertyID, tenant, months)
}

func (b *boundBackend) payRent(ctx context.Context, rentalID, month uint64, amount *big.Int) (*models.TxReceipt, error) {
	return b.send(ctx, "payRent", rentalID, month, amount.String())
}

func (b *boundBackend) endRentalAgreement(ctx context.Context, rentalID uint64) (*models.TxReceipt, error) {
	return b.send(ctx, "endRentalAgreement", rentalID)
}

func (b *boundBackend) isRentPaid(ctx context.Context, rentalID, month uint64) (bool, error) {
	var paid bool
	if err := b.call(ctx, "isRentPaid", &paid, rentalID, month); err != nil {
		return false, err
	}
	return paid, nil
}

func (b *boundBackend) tenantRentals(ctx context.Context, addr string) ([]uint64, error) {
	var ids []uint64
	if err := b.call(ctx, "getTenantRentals", &ids, addr); err != nil {
		return nil, err
	}
	return ids, nil
}

func (b *boundBackend) landlordProperties(ctx context.Context, addr string) ([]uint64, error) {
	var ids []uint64
	if err := b.call(ctx, "getLandlordProperties", &ids, addr); err != nil {
		return nil, err
	}
	return ids, nil
}

func (b *boundBackend) contractBalance(ctx context.Context) (*big.Int, error) {
	var balance string
	if err := b.call(ctx, "getBalance", &balance); err != nil {
		return nil, err
	}
	v, ok := new(big.Int).SetString(balance, 10)
	if !ok {
		return nil, fmt.Errorf("malformed balance %q from contract", balance)
	}
	return v, nil
}

func (b *boundBackend) blockTimestamp(ctx context.Context) (int64, error) {
	var ts int64
	if err := b.client.Call(ctx, "chain_blockTimestamp", nil, &ts); err != nil {
		return 0, err
	}
	return ts, nil
}

// demoBackend returns deterministic stand-ins so the app works with no
// deployed contract and no funded wallet. It never returns an error.
type demoBackend struct{}

func (d *demoBackend) syntheticReceipt() *models.TxReceipt {
	return &models.TxReceipt{
		TxHash:    fmt.Sprintf("0xdemo%060x", time.Now().UnixNano()),
		Status:    "success",
		Simulated: true,
	}
}

func (d *demoBackend) listProperty(_ context.Context, _, _ string, _, _ *big.Int, _ string) (*models.TxReceipt, error) {
	return d.syntheticReceipt(), nil
}

func (d *demoBackend) getProperty(_ context.Context, id uint64) (*models.Property, error) {
	return &models.Property{
		ID:              id,
		Owner:           "0x0000000000000000000000000000000000000000",
		Title:           "Demo Property",
		Location:        "Demo Location",
		MonthlyRent:     "0.5",
		SecurityDeposit: "1.0",
		Available:       true,
		ContentHash:     "",
	}, nil
}

func (d *demoBackend) getRentalAgreement(_ context.Context, id uint64) (*models.RentalAgreement, error) {
	return &models.RentalAgreement{
		ID:              id,
		PropertyID:      id,
		Tenant:          "0x0000000000000000000000000000000000000000",
		Landlord:        "0x0000000000000000000000000000000000000000",
		MonthlyRent:     "0.5",
		SecurityDeposit: "1.0",
		StartDate:       0,
		EndDate:         0,
		Active:          false,
		DepositReturned: false,
	}, nil
}

func (d *demoBackend) createRentalAgreement(_ context.Context, _ uint64, _ string, _ uint64) (*models.TxReceipt, error) {
	return d.syntheticReceipt(), nil
}

func (d *demoBackend) payRent(_ context.Context, _, _ uint64, _ *big.Int) (*models.TxReceipt, error) {
	return d.syntheticReceipt(), nil
}

func (d *demoBackend) endRentalAgreement(_ context.Context, _ uint64) (*models.TxReceipt, error) {
	return d.syntheticReceipt(), nil
}

func (d *demoBackend) isRentPaid(_ context.Context, _, _ uint64) (bool, error) {
	return false, nil
}

func (d *demoBackend) tenantRentals(_ context.Context, _ string) ([]uint64, error) {
	return []uint64{}, nil
}

func (d *demoBackend) landlordProperties(_ context.Context, _ string) ([]uint64, error) {
	return []uint64{}, nil
}

func (d *demoBackend) contractBalance(_ context.Context) (*big.Int, error) {
	return big.NewInt(0), nil
}

func (d *demoBackend) blockTimestamp(_ context.Context) (int64, error) {
	return time.Now().Unix(), nil
}
