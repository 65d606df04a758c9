package sim

// Account is the paper account. Its balance moves only when the Ledger
// settles a closed trade.
type Account struct {
	ID       string
	Currency string

	start   float64
	balance float64
}

// NewAccount returns an account opened with balance.
func NewAccount(id, currency string, balance float64) *Account {
	return &Account{
		ID:       id,
		Currency: currency,
		start:    balance,
		balance:  balance,
	}
}

// Balance returns the current realized balance.
func (a *Account) Balance() float64 { return a.balance }

// Start returns the opening balance.
func (a *Account) Start() float64 { return a.start }

// NetPnL returns the realized profit or loss since the account opened.
func (a *Account) NetPnL() float64 { return a.balance - a.start }

func (a *Account) settle(pnl float64) float64 {
	a.balance += pnl
	return a.balance
}
