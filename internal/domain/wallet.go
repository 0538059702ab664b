package domain

type WalletData struct {
	ID          string  `json:"id"`
	Balance     float64 `json:"balance"`
	TotalEarned float64 `json:"totalEarned"`
	TotalSpent  float64 `json:"totalSpent"`
	Status      string  `json:"status"`
}

type Transaction struct {
	ID            string  `json:"id"`
	Type          string  `json:"type"` // credit|debit
	Source        string  `json:"source"`
	Amount        float64 `json:"amount"`
	BalanceAfter  float64 `json:"balanceAfter"`
	Description   string  `json:"description"`
	ReferenceID   string  `json:"referenceId"`
	ReferenceType string  `json:"referenceType"`
	CreatedAt     string  `json:"createdAt"`
}
