package models

// Property is the on-chain property record, amounts in human-decimal strings.
type Property struct {
	ID              uint64 `json:"id"`
	Owner           string `json:"owner"`
	Title           string `json:"title"`
	Location        string `json:"location"`
	MonthlyRent     string `json:"monthly_rent"`
	SecurityDeposit string `json:"security_deposit"`
	Available       bool   `json:"available"`
	ContentHash     string `json:"content_hash"`
}

// RentalAgreement is the on-chain lease record. Lifecycle is owned by the
// contract; this app only reads it and submits transactions against it.
type RentalAgreement struct {
	ID              uint64 `json:"id"`
	PropertyID      uint64 `json:"property_id"`
	Tenant          string `json:"tenant"`
	Landlord        string `json:"landlord"`
	MonthlyRent     string `json:"monthly_rent"`
	SecurityDeposit string `json:"security_deposit"`
	StartDate       int64  `json:"start_date"`
	EndDate         int64  `json:"end_date"`
	Active          bool   `json:"active"`
	DepositReturned bool   `json:"deposit_returned"`
}

// TxReceipt is returned for every contract write. Demo-mode writes return a
// synthetic receipt with Simulated set.
type TxReceipt struct {
	TxHash    string `json:"tx_hash"`
	Status    string `json:"status"`
	Simulated bool   `json:"simulated"`
}
