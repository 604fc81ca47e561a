package provision

import (
	"encoding/json"
	"testing"

	"emilock-admin/internal/client/model"

	"github.com/stretchr/testify/require"
)

func sampleClient() *model.Client {
	return &model.Client{
		ID:               "c1",
		Name:             "Mart Tamm",
		Phone:            "+372 555 0101",
		RegistrationCode: "A1B2C3D4",
	}
}

func TestSimplePayloadShape(t *testing.T) {
	payload := NewSimplePayload(sampleClient(), "https://api.example.com/api", false)

	encoded, err := Encode(payload)
	require.NoError(t, err)

	var decoded map[string]string
	require.NoError(t, json.Unmarshal([]byte(encoded), &decoded))
	require.Equal(t, map[string]string{
		"type": "EMI_CLIENT_SETUP",
		"code": "A1B2C3D4",
		"name": "Mart Tamm",
		"api":  "https://api.example.com/api",
	}, decoded)
}

func TestSimplePayloadLoanType(t *testing.T) {
	payload := NewSimplePayload(sampleClient(), "https://api.example.com/api", true)
	require.Equal(t, TypeLoanSetup, payload.Type)
}

func TestEnterprisePayloadUsesPlatformKeys(t *testing.T) {
	payload := NewEnterprisePayload(sampleClient(), "https://api.example.com/api")

	encoded, err := Encode(payload)
	require.NoError(t, err)

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(encoded), &decoded))

	require.Contains(t, decoded, "android.app.extra.PROVISIONING_DEVICE_ADMIN_COMPONENT_NAME")
	require.Contains(t, decoded, "android.app.extra.PROVISIONING_DEVICE_ADMIN_PACKAGE_DOWNLOAD_LOCATION")
	require.Contains(t, decoded, "android.app.extra.PROVISIONING_DEVICE_ADMIN_SIGNATURE_CHECKSUM")
	require.Contains(t, decoded, "android.app.extra.PROVISIONING_ADMIN_EXTRAS_BUNDLE")

	var extras map[string]string
	require.NoError(t, json.Unmarshal(decoded["android.app.extra.PROVISIONING_ADMIN_EXTRAS_BUNDLE"], &extras))
	require.Equal(t, "A1B2C3D4", extras["registration_code"])
	require.Equal(t, "https://api.example.com/api", extras["api"])
}

func TestShareInstructionsContainCodeNameAndAPI(t *testing.T) {
	text := ShareInstructions(sampleClient(), "https://api.example.com/api")

	require.Contains(t, text, "Mart Tamm")
	require.Contains(t, text, "A1B2C3D4")
	require.Contains(t, text, "https://api.example.com/api")
	require.Contains(t, text, "Device Setup Instructions")
}
