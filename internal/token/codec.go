package token

import (
	"encoding/base64"
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"
)

// ErrInvalidScan means the scanned payload is not a recognizable QR payload.
// Callers must discard the scan and re-prompt; no fields may be mutated.
var ErrInvalidScan = errors.New("invalid scan payload")

// ScanDelimiter separates the two base64 segments of a token QR payload.
// Format version 1: "<base64(fuel_token)>,<base64(dispense_token)>".
const ScanDelimiter = ","

var digitsOnly = regexp.MustCompile(`^\d+$`)

// ScannedTokens is the decoded content of a token QR code
type ScannedTokens struct {
	FuelToken     string
	DispenseToken string
}

// DecodeScan decodes a scanned token QR payload into its fuel and dispense
// tokens. The payload must contain exactly two base64 segments joined by
// ScanDelimiter. No length/format validation happens here; that is deferred
// to the verification step.
func DecodeScan(payload string) (ScannedTokens, error) {
	if payload == "" {
		return ScannedTokens{}, ErrInvalidScan
	}

	parts := strings.Split(payload, ScanDelimiter)
	if len(parts) != 2 {
		return ScannedTokens{}, ErrInvalidScan
	}

	fuel, err := decodeSegment(parts[0])
	if err != nil {
		return ScannedTokens{}, ErrInvalidScan
	}
	dispense, err := decodeSegment(parts[1])
	if err != nil {
		return ScannedTokens{}, ErrInvalidScan
	}

	return ScannedTokens{FuelToken: fuel, DispenseToken: dispense}, nil
}

// DecodeWalletScan decodes a wallet QR code, which carries the customer's
// phone-number-shaped wallet id as plain digits.
func DecodeWalletScan(payload string) (string, error) {
	if payload == "" || !digitsOnly.MatchString(payload) {
		return "", ErrInvalidScan
	}
	return payload, nil
}

// decodeSegment base64-decodes one segment and interprets the bytes as UTF-8,
// falling back to a byte-per-rune reading when the content is not valid UTF-8.
func decodeSegment(seg string) (string, error) {
	if seg == "" {
		return "", ErrInvalidScan
	}

	raw, err := base64.StdEncoding.DecodeString(seg)
	if err != nil {
		// Some issuers omit padding
		raw, err = base64.RawStdEncoding.DecodeString(seg)
		if err != nil {
			return "", ErrInvalidScan
		}
	}

	if utf8.Valid(raw) {
		return string(raw), nil
	}

	// Raw-byte interpretation: each byte becomes one rune
	runes := make([]rune, len(raw))
	for i, b := range raw {
		runes[i] = rune(b)
	}
	return string(runes), nil
}
