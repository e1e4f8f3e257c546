package analytics

import "trade-journal-lab/internal/domain"

// ResolveBalance composes the account's balance figures. When ledger
// transactions exist they are authoritative: current balance is initial
// capital plus signed transaction flow plus trade P&L. Without transactions
// the fallback is the account's static initial capital plus ΣP&L over the
// trades. Pure and idempotent: the same inputs always produce the same
// figures.
func ResolveBalance(account *domain.Account, txns []*domain.Transaction, trades []*domain.TradeRecord) domain.AccountBalance {
	var balance domain.AccountBalance
	if account != nil {
		balance.AccountID = account.AccountID
		balance.InitialCapital = account.InitialCapital
	}

	var pnl float64
	for _, t := range trades {
		pnl += t.PnL()
	}

	if len(txns) > 0 {
		balance.FromLedger = true
		flow := 0.0
		for _, txn := range txns {
			flow += txn.Signed()
		}
		balance.CurrentBalance = balance.InitialCapital + flow + pnl
		return balance
	}

	balance.CurrentBalance = balance.InitialCapital + pnl
	return balance
}
