package models

// ReportMeta is the pagination envelope of the reports endpoint
type ReportMeta struct {
	Page       int `json:"page"`
	TotalCount int `json:"total_count"`
	Limit      int `json:"limit"`
}

// ReportStation is the station summary embedded in a report entry
type ReportStation struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// ReportUser is the attendant summary embedded in a report entry
type ReportUser struct {
	ID          string `json:"id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number"`
}

// ReportEntry is one historical transaction from GET /api/v2/reports
type ReportEntry struct {
	ID            string        `json:"id"`
	Amount        string        `json:"amount"`
	Ref           string        `json:"ref"`
	Service       string        `json:"service"`
	TransactionID string        `json:"transaction_id"`
	CreatedAt     string        `json:"created_at"`
	UpdatedAt     string        `json:"updated_at"`
	FuelStation   ReportStation `json:"fuel_stations"`
	Payments      Payment       `json:"payments"`
	User          ReportUser    `json:"user"`
}

// ReportsResponse is the paginated history response
type ReportsResponse struct {
	Meta         ReportMeta    `json:"meta"`
	Transactions []ReportEntry `json:"transactions"`
}

// ReportMetrics is the aggregate returned by GET /api/v2/reports/metrics
type ReportMetrics struct {
	TotalAmount string `json:"total_amount"`
	TotalCount  int    `json:"total_count"`
}
