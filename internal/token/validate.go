package token

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// Service is the fuel product a dispense token is redeemed against
type Service string

const (
	ServicePetrol Service = "petrol"
	ServiceDiesel Service = "diesel"
)

const (
	FuelTokenLength     = 7
	DispenseTokenLength = 7
	PINLength           = 4
)

var (
	ErrInvalidFuelToken     = errors.New("fuel token must be a 7-digit number")
	ErrInvalidDispenseToken = errors.New("dispense token must be 7 characters long")
	ErrInvalidService       = errors.New("service type is required")
	ErrInvalidWalletID      = errors.New("wallet id must be an 11-digit local or 234-prefixed 13-digit number")
	ErrInvalidPhoneNumber   = errors.New("phone number must be 11 digits")
	ErrInvalidPIN           = errors.New("pin must be a 4-digit number")
	ErrInvalidAmount        = errors.New("amount must be greater than zero")
)

var (
	fuelTokenRe = regexp.MustCompile(`^\d{7}$`)
	pinRe       = regexp.MustCompile(`^\d{4}$`)
	localWallet = regexp.MustCompile(`^\d{11}$`)
	intlWallet  = regexp.MustCompile(`^234\d{10}$`)
	phoneNumber = regexp.MustCompile(`^\d{11}$`)
)

// ParseService maps a user-supplied service name to the enum
func ParseService(s string) (Service, error) {
	switch Service(s) {
	case ServicePetrol, ServiceDiesel:
		return Service(s), nil
	case "":
		return "", ErrInvalidService
	}
	return "", fmt.Errorf("unknown service %q", s)
}

// ValidateFuelToken checks the 7-digit numeric pattern. Tokens failing this
// must never reach the verify endpoint.
func ValidateFuelToken(code string) error {
	if !fuelTokenRe.MatchString(code) {
		return ErrInvalidFuelToken
	}
	return nil
}

// ValidateDispenseToken checks the dispense code and its paired service
func ValidateDispenseToken(code string, service Service) error {
	if len(code) != DispenseTokenLength {
		return ErrInvalidDispenseToken
	}
	if service != ServicePetrol && service != ServiceDiesel {
		return ErrInvalidService
	}
	return nil
}

// ValidateWalletID accepts the 11-digit local shape or the 13-digit
// international shape with the leading 234 prefix
func ValidateWalletID(id string) error {
	if localWallet.MatchString(id) || intlWallet.MatchString(id) {
		return nil
	}
	return ErrInvalidWalletID
}

// ValidatePhoneNumber checks the 11-digit login phone number shape
func ValidatePhoneNumber(phone string) error {
	if !phoneNumber.MatchString(phone) {
		return ErrInvalidPhoneNumber
	}
	return nil
}

// ValidatePIN checks the 4-digit wallet PIN
func ValidatePIN(pin string) error {
	if !pinRe.MatchString(pin) {
		return ErrInvalidPIN
	}
	return nil
}

// ValidateAmount rejects zero and negative purchase amounts
func ValidateAmount(amount float64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// NormalizeWalletID converts a wallet id to the international form submitted
// to the API: local ids are numerically coerced (dropping leading zeros) and
// prefixed with 234, e.g. "09011112222" -> "2349011112222". Ids already in
// the 13-digit international form pass through unchanged.
func NormalizeWalletID(id string) (string, error) {
	if intlWallet.MatchString(id) {
		return id, nil
	}
	if !localWallet.MatchString(id) {
		return "", ErrInvalidWalletID
	}
	n, err := strconv.ParseUint(id, 10, 64)
	if err != nil {
		return "", ErrInvalidWalletID
	}
	return fmt.Sprintf("234%d", n), nil
}
