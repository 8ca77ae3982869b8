package domain

// Voucher states on the Colibri side: "A" active, "I" inactive.
const (
	VoucherActive   = "A"
	VoucherInactive = "I"
)

// Voucher is a Colibri gift-card voucher ("vale").
type Voucher struct {
	Correlative string  `json:"valCorrelativo"`
	State       string  `json:"valEstado"`
	Amount      float64 `json:"monto"`
	Origin      string  `json:"valOrigen"`
}

// VoucherPayload mirrors the POST /api/vales contract.
type VoucherPayload struct {
	Correlative string  `json:"valCorrelativo"`
	Amount      float64 `json:"monto"`
	CatalogID   int     `json:"vacId"`
	State       string  `json:"valEstado"`
	Origin      string  `json:"valOrigen"`
	User        string  `json:"usuario"`
	FirstName   string  `json:"nombre"`
	LastName    string  `json:"apellidos"`
	WhatsApp    string  `json:"whatsapp"`
	Email       string  `json:"email"`
	TaxID       string  `json:"cedula,omitempty"`
}
