package admin

// NewUser represents the request body for creating a user account.
type NewUser struct {
	Name    string `json:"name" validate:"required,max=100"`
	Email   string `json:"email" validate:"required,email,max=100"`
	Pin     string `json:"pin" validate:"required,numeric,min=4,max=6"`
	IsAdmin bool   `json:"is_admin"`
}

// PinReset represents the request body for replacing a user's PIN.
type PinReset struct {
	Pin string `json:"pin" validate:"required,numeric,min=4,max=6"`
}

// Adjustment represents the request body for an admin balance adjustment.
// A BTC credit becomes a synthetic cost-basis lot priced at the current
// sell rate; a BTC debit records a fiat-equivalent audit value.
type Adjustment struct {
	Currency  string `json:"currency" validate:"required,oneof=INR BTC"`
	Direction string `json:"direction" validate:"required,oneof=credit debit"`
	Amount    string `json:"amount" validate:"required,numeric"`
	Reason    string `json:"reason" validate:"max=200"`
}

// RatesUpdate represents the request body for setting the platform's
// USD→INR buy and sell rates.
type RatesUpdate struct {
	BuyRate  string `json:"buy_rate" validate:"required,numeric"`
	SellRate string `json:"sell_rate" validate:"required,numeric"`
}
