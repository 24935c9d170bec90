package models

type Company struct {
	Meta
	Name    string `json:"name"`
	ABN     string `json:"abn,omitempty"`
	Address string `json:"address,omitempty"`

	// Bank details for remittance on invoices.
	BSB           string `json:"bsb,omitempty"`
	AccountNumber string `json:"account_number,omitempty"`
}

type Jobsite struct {
	Meta
	Name      string `json:"name"`
	Address   string `json:"address"`
	CompanyID string `json:"company_id"`

	// Posted means at least one assignment batch for this jobsite has
	// been published. It is denormalized and can lag the per-assignment
	// state; treat as advisory.
	Posted bool `json:"posted"`
}
