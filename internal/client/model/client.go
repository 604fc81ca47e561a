package model

import "time"

// Client mirrors the backend's client record. The console only reads these
// fields; mutations go through dedicated endpoints (lock, unlock,
// generate-code).
type Client struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Phone            string     `json:"phone"`
	Email            string     `json:"email,omitempty"`
	AdminID          string     `json:"admin_id,omitempty"`
	DeviceMake       string     `json:"device_make,omitempty"`
	DeviceModel      string     `json:"device_model,omitempty"`
	RegistrationCode string     `json:"registration_code,omitempty"`
	IsRegistered     bool       `json:"is_registered"`
	IsLocked         bool       `json:"is_locked"`
	LockMessage      string     `json:"lock_message,omitempty"`
	LoanAmount       float64    `json:"loan_amount"`
	MonthlyEMI       float64    `json:"monthly_emi"`
	TotalPaid        float64    `json:"total_paid"`
	OutstandingBal   float64    `json:"outstanding_balance"`
	DaysOverdue      int        `json:"days_overdue"`
	NextPaymentDue   *time.Time `json:"next_payment_due,omitempty"`
	Latitude         *float64   `json:"latitude,omitempty"`
	Longitude        *float64   `json:"longitude,omitempty"`
	LastLocationAt   *time.Time `json:"last_location_update,omitempty"`
	LastHeartbeat    *time.Time `json:"last_heartbeat,omitempty"`
	RegisteredAt     *time.Time `json:"registered_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

// IsOnline reports whether the client's device has sent a heartbeat recently.
func (c *Client) IsOnline() bool {
	if c.LastHeartbeat == nil {
		return false
	}
	return time.Since(*c.LastHeartbeat) < 5*time.Minute
}

// Unregistered filters the roster down to clients still awaiting device
// setup; the setup screen feeds from this.
func Unregistered(clients []Client) []Client {
	var out []Client
	for _, c := range clients {
		if !c.IsRegistered {
			out = append(out, c)
		}
	}
	return out
}
