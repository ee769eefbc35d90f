package models

import "encoding/json"

// Payment is the server-side payment record returned by the buy-fuel and
// dispense endpoints and consumed by the receipt/confirmation path.
type Payment struct {
	ID          string      `json:"id"`
	Amount      string      `json:"amount"`
	Ref         string      `json:"ref"`
	Approved    bool        `json:"approved"`
	Status      string      `json:"status"`
	Product     string      `json:"product"`
	ProductType string      `json:"product_type"`
	Quantity    json.Number `json:"quantity,omitempty"` // litres; the API sends number or string
	FuelRate    *float64    `json:"fuel_rate,omitempty"`
	Mobile      string      `json:"mobile"`
	Email       string      `json:"email"`
	StationName string      `json:"station_name"`
	FirstName   string      `json:"first_name"`
	LastName    string      `json:"last_name"`
	CreatedAt   string      `json:"created_at"`
	UpdatedAt   string      `json:"updated_at"`
}

// Settings carries station-level flags piggybacked on payment responses
type Settings struct {
	IgnoreDispenseToken bool `json:"ignore_dispense_token"`
}

// BuyFuelRequest represents the request body for the attendant buy-fuel call.
// WalletID must already be normalized to the 234 international prefix.
type BuyFuelRequest struct {
	WalletID string  `json:"wallet_id"`
	Amount   float64 `json:"amount"`
	PIN      string  `json:"pin"`
}

// VerifyFuelTokenRequest represents the request body for fuel-token verification
type VerifyFuelTokenRequest struct {
	FuelToken string `json:"fuel_token"`
}

// DispenseRequest represents the request body for the dispense call
type DispenseRequest struct {
	DispenseToken string `json:"dispense_token"`
	Service       string `json:"service"`
}

// PaymentResponse is the shared response shape of buy-fuel and dispense
type PaymentResponse struct {
	Payments Payment  `json:"payments"`
	Settings Settings `json:"settings"`
	Message  string   `json:"message"`
}
