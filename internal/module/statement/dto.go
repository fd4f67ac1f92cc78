package statement

// RecordItem represents a cash-flow record in list view
type RecordItem struct {
	ID            string `json:"id"`
	Type          string `json:"type"`
	TypeLabel     string `json:"type_label"` // "Deposit", "Buy Trade"
	Direction     string `json:"direction"`  // "inflow" or "outflow"
	Amount        string `json:"amount"`     // Magnitude as a decimal string
	DisplayAmount string `json:"display_amount"` // Signed, currency-formatted: "-$300.00"
	Status        string `json:"status"`
	FlowDate      string `json:"flow_date"` // YYYY-MM-DD
	Description   string `json:"description,omitempty"`
	Reference     string `json:"reference,omitempty"`
	FundingSource string `json:"funding_source,omitempty"`
	Currency      string `json:"currency"`
	MaturesOn     string `json:"matures_on,omitempty"`
}

// GroupItem represents one day of records with its subtotal
type GroupItem struct {
	Key             string       `json:"key"`   // YYYY-MM-DD, or "all" when ungrouped
	Label           string       `json:"label"` // "Jan 05, 2024", or "All Transactions"
	Records         []RecordItem `json:"records"`
	Subtotal        string       `json:"subtotal"`
	DisplaySubtotal string       `json:"display_subtotal"`
	Count           int          `json:"count"`
}

// SummaryItem represents aggregate totals over the full filtered set
type SummaryItem struct {
	TotalInflow  string `json:"total_inflow"`
	TotalOutflow string `json:"total_outflow"`
	Net          string `json:"net"`
	DisplayNet   string `json:"display_net"`
	Count        int    `json:"count"`
}

// Statement is the assembled view of one page of cash flows: the
// grouped records, the page's signed total, the full-set summary and
// pagination metadata.
//
// Summary can be nil when totals are temporarily unavailable; the
// record listing still renders.
type Statement struct {
	Groups        []GroupItem  `json:"groups"`
	FilteredTotal string       `json:"filtered_total"`
	Summary       *SummaryItem `json:"summary,omitempty"`
	Pagination    Pagination   `json:"pagination"`
	GroupedByDate bool         `json:"grouped_by_date"`
}

// Pagination mirrors the repository's page metadata
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}
