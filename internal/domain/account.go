package domain

// Account types. AccountTypeFundedProgram gates the consistency-target rule.
const (
	AccountTypeStandard      = "STANDARD"
	AccountTypeFundedProgram = "FUNDED_PROGRAM"
)

// Account is the journal account a trade belongs to.
type Account struct {
	AccountID      string
	Name           string
	AccountType    string
	InitialCapital float64
	CreatedAt      int64 // Unix milliseconds
}

// Transaction type codes for the ledger.
const (
	TransactionDeposit    = "DEPOSIT"
	TransactionWithdrawal = "WITHDRAWAL"
)

// Transaction is one ledger entry against an account.
type Transaction struct {
	TransactionID string
	AccountID     string
	Type          string
	Amount        float64
	OccurredAt    int64 // Unix milliseconds
}

// Signed returns the transaction amount with withdrawal sign applied.
func (t *Transaction) Signed() float64 {
	if t.Type == TransactionWithdrawal {
		return -t.Amount
	}
	return t.Amount
}
