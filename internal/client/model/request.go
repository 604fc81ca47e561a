package model

// CreateClientRequest registers a new client record before device setup.
// Validated locally so a bad form never reaches the backend.
type CreateClientRequest struct {
	Name             string  `json:"name" validate:"required,notblank,max=100"`
	Phone            string  `json:"phone" validate:"required,notblank,max=30"`
	Email            string  `json:"email" validate:"omitempty,email"`
	AdminID          string  `json:"admin_id,omitempty"`
	LoanAmount       float64 `json:"loan_amount" validate:"gte=0"`
	DownPayment      float64 `json:"down_payment" validate:"gte=0"`
	InterestRate     float64 `json:"interest_rate" validate:"gte=0,lte=100"`
	LoanTenureMonths int     `json:"loan_tenure_months" validate:"gte=1,lte=120"`
}

// GenerateCodeResponse is returned by the generate-code endpoint. Credits are
// decremented for non-super admins; the field is untyped because the backend
// sends a number or the string "unlimited" for super admins.
type GenerateCodeResponse struct {
	RegistrationCode string      `json:"registration_code"`
	CreditsRemaining interface{} `json:"credits_remaining,omitempty"`
}

// ActionResponse is the generic acknowledgment for lock/unlock style calls.
type ActionResponse struct {
	Message  string `json:"message"`
	ClientID string `json:"client_id"`
}
