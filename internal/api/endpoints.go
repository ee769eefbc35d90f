package api

// Paths of the fuel-wallet API consumed by the terminal
const (
	EndpointLogin         = "/api/v2/login/admins"
	EndpointVerifyToken   = "/api/v2/fuel-tokens/verify"
	EndpointDispense      = "/api/v2/fuel-tokens/dispense"
	EndpointBuyFuel       = "/api/v2/payments/attendants/buy-fuel"
	EndpointProfile       = "/api/v1/users"
	EndpointReports       = "/api/v2/reports"
	EndpointReportMetrics = "/api/v2/reports/metrics"
)
