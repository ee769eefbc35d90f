package models

// User is the attendant profile returned by GET /api/v1/users
type User struct {
	ID          string      `json:"id"`
	FirstName   string      `json:"first_name"`
	LastName    string      `json:"last_name"`
	PhoneNumber string      `json:"phone_number"`
	Role        Role        `json:"role"`
	StationID   string      `json:"fuel_station_id"`
	Station     FuelStation `json:"fuel_station"`
}

type Role struct {
	Name     string `json:"name"`
	RoleType string `json:"role_type"`
}

type FuelStation struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Active      bool   `json:"active"`
	HQID        string `json:"hq_id"`
	TotalAmount string `json:"total_amount"`
}

// LoginRequest represents the request body for attendant login
type LoginRequest struct {
	PhoneNumber string `json:"phone_number"`
	Password    string `json:"password"`
}

// LoginResponse represents the response after successful login
type LoginResponse struct {
	AccessToken string `json:"access_token"`
}

// ProfileResponse wraps the user object returned by the profile endpoint
type ProfileResponse struct {
	User User `json:"user"`
}

// IsAdmin reports whether the profile carries the admin role
func (u *User) IsAdmin() bool {
	return u.Role.Name == "admin"
}
