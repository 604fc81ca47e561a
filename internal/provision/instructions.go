package provision

import (
	"fmt"
	"strings"

	"emilock-admin/internal/client/model"
)

// ShareInstructions serializes the fixed-format setup text handed to the
// native share facility alongside the QR code.
func ShareInstructions(c *model.Client, apiBase string) string {
	var b strings.Builder

	b.WriteString("Device Setup Instructions\n")
	b.WriteString("=========================\n\n")
	fmt.Fprintf(&b, "Client: %s\n", c.Name)
	fmt.Fprintf(&b, "Phone: %s\n", c.Phone)
	fmt.Fprintf(&b, "Registration code: %s\n\n", c.RegistrationCode)
	b.WriteString("1. Install the EMI Lock app on the client's device.\n")
	b.WriteString("2. Open the app and choose \"Scan setup code\".\n")
	b.WriteString("3. Scan the QR code, or enter the registration code manually.\n")
	fmt.Fprintf(&b, "4. If asked for a server address, enter: %s\n\n", apiBase)
	b.WriteString("The device will appear as registered once setup completes.\n")

	return b.String()
}
