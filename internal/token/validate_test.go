package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeWalletID(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"local with leading zero", "09011112222", "2349011112222"},
		{"local without leading zero", "80111122223", "23480111122223"},
		{"international passthrough", "2349011112222", "2349011112222"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NormalizeWalletID(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNormalizeWalletID_rejectsBadShapes(t *testing.T) {
	for _, id := range []string{"", "901111222", "0901111222233", "0901111222a"} {
		_, err := NormalizeWalletID(id)
		assert.Error(t, err, "id %q should be rejected", id)
	}
}

func TestValidateWalletID(t *testing.T) {
	assert.NoError(t, ValidateWalletID("09011112222"))
	assert.NoError(t, ValidateWalletID("2349011112222"))
	assert.Error(t, ValidateWalletID("9011112222"))
	assert.Error(t, ValidateWalletID("1239011112222")) // 13 digits, wrong prefix
	assert.Error(t, ValidateWalletID(""))
}

func TestValidateFuelToken(t *testing.T) {
	assert.NoError(t, ValidateFuelToken("1234567"))
	assert.Error(t, ValidateFuelToken("123456"))
	assert.Error(t, ValidateFuelToken("12345678"))
	assert.Error(t, ValidateFuelToken("123456a"))
	assert.Error(t, ValidateFuelToken(""))
}

func TestValidateDispenseToken(t *testing.T) {
	assert.NoError(t, ValidateDispenseToken("ABC1234", ServicePetrol))
	assert.NoError(t, ValidateDispenseToken("1234567", ServiceDiesel))
	assert.ErrorIs(t, ValidateDispenseToken("ABC123", ServicePetrol), ErrInvalidDispenseToken)
	assert.ErrorIs(t, ValidateDispenseToken("ABC1234", ""), ErrInvalidService)
}

func TestValidatePIN(t *testing.T) {
	assert.NoError(t, ValidatePIN("1234"))
	assert.Error(t, ValidatePIN("123"))
	assert.Error(t, ValidatePIN("12345"))
	assert.Error(t, ValidatePIN("12a4"))
}

func TestValidateAmount(t *testing.T) {
	assert.NoError(t, ValidateAmount(0.01))
	assert.ErrorIs(t, ValidateAmount(0), ErrInvalidAmount)
	assert.ErrorIs(t, ValidateAmount(-100), ErrInvalidAmount)
}

func TestParseService(t *testing.T) {
	svc, err := ParseService("petrol")
	require.NoError(t, err)
	assert.Equal(t, ServicePetrol, svc)

	svc, err = ParseService("diesel")
	require.NoError(t, err)
	assert.Equal(t, ServiceDiesel, svc)

	_, err = ParseService("")
	assert.ErrorIs(t, err, ErrInvalidService)

	_, err = ParseService("kerosene")
	assert.Error(t, err)
}

func TestValidatePhoneNumber(t *testing.T) {
	assert.NoError(t, ValidatePhoneNumber("09011112222"))
	assert.ErrorIs(t, ValidatePhoneNumber("0901111222"), ErrInvalidPhoneNumber)
	assert.ErrorIs(t, ValidatePhoneNumber("2349011112222"), ErrInvalidPhoneNumber)
}
