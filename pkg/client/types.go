package client

// AuthResponse is the token and user returned by register and login
type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// User is the authenticated account
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Portfolio is a cash-flow portfolio
type Portfolio struct {
	ID           string `json:"id"`
	UserID       string `json:"user_id"`
	Name         string `json:"name"`
	BaseCurrency string `json:"base_currency"`
	Description  string `json:"description,omitempty"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

// FundingSource is a named account money moves through
type FundingSource struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CashFlow is a rendered cash-flow record
type CashFlow struct {
	ID            string `json:"id"`
	Type          string `json:"type"`
	TypeLabel     string `json:"type_label"`
	Direction     string `json:"direction"`
	Amount        string `json:"amount"`
	DisplayAmount string `json:"display_amount"`
	Status        string `json:"status"`
	FlowDate      string `json:"flow_date"`
	Description   string `json:"description,omitempty"`
	Reference     string `json:"reference,omitempty"`
	FundingSource string `json:"funding_source,omitempty"`
	Currency      string `json:"currency,omitempty"`
	MaturesOn     string `json:"matures_on,omitempty"`
}

// Group is one date group of a statement page
type Group struct {
	Key             string     `json:"key"`
	Label           string     `json:"label"`
	Records         []CashFlow `json:"records"`
	Subtotal        string     `json:"subtotal"`
	DisplaySubtotal string     `json:"display_subtotal"`
	Count           int        `json:"count"`
}

// Summary is the aggregate totals over a filtered record set
type Summary struct {
	TotalInflow  string `json:"total_inflow"`
	TotalOutflow string `json:"total_outflow"`
	Net          string `json:"net"`
	DisplayNet   string `json:"display_net"`
	Count        int    `json:"count"`
}

// Pagination describes the page position within the filtered set
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// Statement is one page of grouped records with totals.
// Summary is nil when the aggregate totals were temporarily
// unavailable server-side.
type Statement struct {
	Groups        []Group    `json:"groups"`
	FilteredTotal string     `json:"filtered_total"`
	Summary       *Summary   `json:"summary,omitempty"`
	Pagination    Pagination `json:"pagination"`
	GroupedByDate bool       `json:"grouped_by_date"`
}

// TransferResult is the linked pair of records created by a transfer
type TransferResult struct {
	Reference string   `json:"reference"`
	Out       CashFlow `json:"out"`
	In        CashFlow `json:"in"`
}
