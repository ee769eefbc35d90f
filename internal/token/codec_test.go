package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeScan(t *testing.T) {
	scanned, err := DecodeScan("Zm9v,YmFy")
	require.NoError(t, err)
	assert.Equal(t, "foo", scanned.FuelToken)
	assert.Equal(t, "bar", scanned.DispenseToken)
}

func TestDecodeScan_realTokenPair(t *testing.T) {
	// base64("1234567"), base64("ABC1234")
	scanned, err := DecodeScan("MTIzNDU2Nw==,QUJDMTIzNA==")
	require.NoError(t, err)
	assert.Equal(t, "1234567", scanned.FuelToken)
	assert.Equal(t, "ABC1234", scanned.DispenseToken)
}

func TestDecodeScan_unpaddedSegments(t *testing.T) {
	scanned, err := DecodeScan("Zm9vYg,YmFy")
	require.NoError(t, err)
	assert.Equal(t, "foob", scanned.FuelToken)
}

func TestDecodeScan_nonUTF8FallsBackToBytes(t *testing.T) {
	// base64 of 0xFF, not valid UTF-8: each byte becomes one rune
	scanned, err := DecodeScan("/w==,YmFy")
	require.NoError(t, err)
	assert.Equal(t, "ÿ", scanned.FuelToken)
	assert.Equal(t, "bar", scanned.DispenseToken)
}

func TestDecodeScan_invalidPayloads(t *testing.T) {
	cases := []struct {
		name    string
		payload string
	}{
		{"empty", ""},
		{"no delimiter", "Zm9v"},
		{"three segments", "Zm9v,YmFy,YmF6"},
		{"empty segment", "Zm9v,"},
		{"not base64", "!!!,YmFy"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeScan(tc.payload)
			assert.ErrorIs(t, err, ErrInvalidScan)
		})
	}
}

func TestDecodeWalletScan(t *testing.T) {
	id, err := DecodeWalletScan("09011112222")
	require.NoError(t, err)
	assert.Equal(t, "09011112222", id)

	_, err = DecodeWalletScan("")
	assert.ErrorIs(t, err, ErrInvalidScan)

	_, err = DecodeWalletScan("0901-111-2222")
	assert.ErrorIs(t, err, ErrInvalidScan)
}
