// Package stubapi is an in-process fake of the fuel-wallet API implementing
// the contract the terminal observes. It backs the package tests and the
// stubserver command for offline development; it is not the real backend.
package stubapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"fuelpay-terminal/internal/api"
	"fuelpay-terminal/internal/models"
)

// Server holds the fake upstream state. Fields are set before Handler is
// called; the zero value of the maps means "reject everything".
type Server struct {
	Secret   []byte
	Phone    string // accepted login phone (234-prefixed)
	Password string
	PIN      string // accepted wallet pin

	IgnoreDispenseToken bool
	FuelTokens          map[string]bool
	DispenseTokens      map[string]bool
	Reports             []models.ReportEntry

	mu   sync.Mutex
	hits map[string]int
}

// New creates a stub with one valid attendant and one valid token pair
func New() *Server {
	return &Server{
		Secret:   []byte("stub-secret"),
		Phone:    "2349011112222",
		Password: "password",
		PIN:      "1234",
		FuelTokens: map[string]bool{
			"1234567": true,
		},
		DispenseTokens: map[string]bool{
			"ABC1234": true,
		},
		hits: make(map[string]int),
	}
}

// Handler returns the HTTP handler for the stub
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc(api.EndpointLogin, s.handleLogin).Methods("POST")
	r.HandleFunc(api.EndpointProfile, s.auth(s.handleProfile)).Methods("GET")
	r.HandleFunc(api.EndpointVerifyToken, s.auth(s.handleVerify)).Methods("POST")
	r.HandleFunc(api.EndpointDispense, s.auth(s.handleDispense)).Methods("POST")
	r.HandleFunc(api.EndpointBuyFuel, s.auth(s.handleBuyFuel)).Methods("POST")
	r.HandleFunc(api.EndpointReports, s.auth(s.handleReports)).Methods("GET")
	r.HandleFunc(api.EndpointReportMetrics, s.auth(s.handleMetrics)).Methods("GET")
	r.Use(s.countHits)

	return cors.AllowAll().Handler(r)
}

// Hits returns how many requests reached the given path
func (s *Server) Hits(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[path]
}

// IssueToken mints a bearer token with the given lifetime. Negative
// lifetimes produce already-expired tokens for bootstrap tests.
func (s *Server) IssueToken(ttl time.Duration) string {
	claims := jwt.RegisteredClaims{
		Subject:   s.Phone,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, _ := tok.SignedString(s.Secret)
	return signed
}

func (s *Server) countHits(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.hits[r.URL.Path]++
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

// auth rejects requests without a valid bearer token
func (s *Server) auth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		_, err := jwt.Parse(parts[1], func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return s.Secret, nil
		})
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next(w, r)
	}
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.PhoneNumber != s.Phone || req.Password != s.Password {
		writeError(w, http.StatusUnauthorized, "invalid phone number or password")
		return
	}
	writeJSON(w, http.StatusOK, models.LoginResponse{AccessToken: s.IssueToken(time.Hour)})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.ProfileResponse{User: models.User{
		ID:          "user-1",
		FirstName:   "Ada",
		LastName:    "Okafor",
		PhoneNumber: s.Phone,
		Role:        models.Role{Name: "admin", RoleType: "station"},
		StationID:   "station-1",
		Station: models.FuelStation{
			ID:     "station-1",
			Name:   "Stub Station",
			Active: true,
		},
	}})
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	var req models.VerifyFuelTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !s.FuelTokens[req.FuelToken] {
		writeError(w, http.StatusBadRequest, "invalid fuel token")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "fuel token verified"})
}

func (s *Server) handleDispense(w http.ResponseWriter, r *http.Request) {
	var req models.DispenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !s.DispenseTokens[req.DispenseToken] {
		writeError(w, http.StatusBadRequest, "invalid dispense token")
		return
	}
	if req.Service != "petrol" && req.Service != "diesel" {
		writeError(w, http.StatusBadRequest, "invalid service type")
		return
	}
	writeJSON(w, http.StatusOK, models.PaymentResponse{
		Payments: s.makePayment("5000.00", req.Service),
		Settings: models.Settings{IgnoreDispenseToken: s.IgnoreDispenseToken},
		Message:  "dispense authorized",
	})
}

func (s *Server) handleBuyFuel(w http.ResponseWriter, r *http.Request) {
	var req models.BuyFuelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.WalletID) != 13 || !strings.HasPrefix(req.WalletID, "234") {
		writeError(w, http.StatusBadRequest, "invalid wallet id")
		return
	}
	if req.Amount <= 0 {
		writeError(w, http.StatusBadRequest, "invalid amount")
		return
	}
	if req.PIN != s.PIN {
		writeError(w, http.StatusBadRequest, "incorrect wallet pin")
		return
	}
	writeJSON(w, http.StatusOK, models.PaymentResponse{
		Payments: s.makePayment(fmt.Sprintf("%.2f", req.Amount), "petrol"),
		Settings: models.Settings{IgnoreDispenseToken: s.IgnoreDispenseToken},
		Message:  "purchase successful",
	})
}

func (s *Server) handleReports(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	start := (page - 1) * limit
	end := start + limit
	if start > len(s.Reports) {
		start = len(s.Reports)
	}
	if end > len(s.Reports) {
		end = len(s.Reports)
	}

	writeJSON(w, http.StatusOK, models.ReportsResponse{
		Meta: models.ReportMeta{
			Page:       page,
			Limit:      limit,
			TotalCount: len(s.Reports),
		},
		Transactions: s.Reports[start:end],
	})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	total := 0.0
	for _, entry := range s.Reports {
		if v, err := strconv.ParseFloat(entry.Amount, 64); err == nil {
			total += v
		}
	}
	writeJSON(w, http.StatusOK, models.ReportMetrics{
		TotalAmount: fmt.Sprintf("%.2f", total),
		TotalCount:  len(s.Reports),
	})
}

func (s *Server) makePayment(amount, product string) models.Payment {
	now := time.Now().UTC().Format(time.RFC3339)
	return models.Payment{
		ID:          uuid.NewString(),
		Amount:      amount,
		Ref:         "FP-" + uuid.NewString()[:8],
		Approved:    true,
		Status:      "completed",
		Product:     product,
		ProductType: product,
		Mobile:      s.Phone,
		StationName: "Stub Station",
		FirstName:   "Ada",
		LastName:    "Okafor",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
