package models

import "time"

type TransactionType string

const (
	TransactionTypeDeposit    TransactionType = "deposit"
	TransactionTypeWithdrawal TransactionType = "withdrawal"
	TransactionTypeBet        TransactionType = "bet"
	TransactionTypeWin        TransactionType = "win"
	TransactionTypeRefund     TransactionType = "refund"
)

// Transaction is an append-only audit row for a balance change. Rows are
// never updated or deleted; balance_after = balance_before + amount holds
// for every record.
type Transaction struct {
	ID            string          `json:"id"`
	UserID        string          `json:"userId"`
	Type          TransactionType `json:"type"`
	Amount        float64         `json:"amount"`
	Description   string          `json:"description"`
	BalanceBefore float64         `json:"balanceBefore"`
	BalanceAfter  float64         `json:"balanceAfter"`
	BetID         string          `json:"betId,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}
