package models

type Privilege string

const (
	PrivilegeAdmin Privilege = "admin"
	PrivilegeUser  Privilege = "user"
)

type Contractor struct {
	Meta
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash,omitempty"`
	Privilege    Privilege `json:"privilege"`
	HourlyRate   float64   `json:"hourly_rate"`
	PushToken    string    `json:"push_token,omitempty"`

	// Invoice identity, shown on per-contractor invoices.
	ABN           string `json:"abn,omitempty"`
	BSB           string `json:"bsb,omitempty"`
	AccountNumber string `json:"account_number,omitempty"`
}

func (c *Contractor) IsAdmin() bool {
	return c.Privilege == PrivilegeAdmin
}

func (c *Contractor) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	return c.Email
}
