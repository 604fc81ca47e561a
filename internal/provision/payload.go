package provision

import (
	"encoding/json"

	"emilock-admin/internal/client/model"
)

// Payload types understood by the device-side setup app.
const (
	TypeEMISetup  = "EMI_CLIENT_SETUP"
	TypeLoanSetup = "LOAN_CLIENT_SETUP"
)

// Android Enterprise provisioning constants for the managed device app. The
// checksum is the URL-safe base64 SHA-256 of the APK signing certificate.
const (
	adminComponentName  = "com.eamilock/com.eamilock.EmiDeviceAdminReceiver"
	packageDownloadPath = "/downloads/eamilock-latest.apk"
	signatureChecksum   = "gJD2YwtOiWJHkSMkkIfLRlj-quNqG1fb6v100QmzM9w"
)

// SimplePayload is the registration-code QR scheme: the device app scans it,
// calls the API and pairs itself with the client record. Derived purely from
// a selected client, never persisted.
type SimplePayload struct {
	Type string `json:"type"`
	Code string `json:"code"`
	Name string `json:"name"`
	API  string `json:"api"`
}

// AdminExtras is the bundle handed to the device admin app after enterprise
// provisioning completes.
type AdminExtras struct {
	RegistrationCode string `json:"registration_code"`
	API              string `json:"api"`
}

// EnterprisePayload carries the fixed Android Enterprise provisioning extras
// plus the admin bundle. Field names must match the platform keys exactly.
type EnterprisePayload struct {
	ComponentName    string      `json:"android.app.extra.PROVISIONING_DEVICE_ADMIN_COMPONENT_NAME"`
	DownloadLocation string      `json:"android.app.extra.PROVISIONING_DEVICE_ADMIN_PACKAGE_DOWNLOAD_LOCATION"`
	Checksum         string      `json:"android.app.extra.PROVISIONING_DEVICE_ADMIN_SIGNATURE_CHECKSUM"`
	LeaveSystemApps  bool        `json:"android.app.extra.PROVISIONING_LEAVE_ALL_SYSTEM_APPS_ENABLED"`
	AdminExtras      AdminExtras `json:"android.app.extra.PROVISIONING_ADMIN_EXTRAS_BUNDLE"`
}

// NewSimplePayload builds the registration-code payload for a client.
// loanPlan selects the loan-flavored setup type used for clients financed
// through a loan plan rather than plain EMI.
func NewSimplePayload(c *model.Client, apiBase string, loanPlan bool) *SimplePayload {
	payloadType := TypeEMISetup
	if loanPlan {
		payloadType = TypeLoanSetup
	}
	return &SimplePayload{
		Type: payloadType,
		Code: c.RegistrationCode,
		Name: c.Name,
		API:  apiBase,
	}
}

// NewEnterprisePayload builds the Android Enterprise provisioning payload for
// a client. The APK download location is served from the same API host.
func NewEnterprisePayload(c *model.Client, apiBase string) *EnterprisePayload {
	return &EnterprisePayload{
		ComponentName:    adminComponentName,
		DownloadLocation: apiBase + packageDownloadPath,
		Checksum:         signatureChecksum,
		LeaveSystemApps:  true,
		AdminExtras: AdminExtras{
			RegistrationCode: c.RegistrationCode,
			API:              apiBase,
		},
	}
}

// Encode renders a payload as the JSON string a QR library would encode.
func Encode(payload interface{}) (string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
