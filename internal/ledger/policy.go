package ledger

import "moneytree/internal/core"

// CheckExpense reports whether an expense of the given amount may be
// applied to the account. The ledger mutations themselves do not enforce
// this — they are pure bookkeeping — so the serving layer runs this check
// before calling AddTransaction.
//
// Credit accounts may go negative up to their limit; every other type
// must not drop below zero.
func CheckExpense(acc core.Account, amount core.Money) error {
	if amount.Cents > acc.Headroom() {
		if acc.Type == core.AccountCredit {
			return ErrCreditLimitExceeded
		}
		return ErrInsufficientFunds
	}
	return nil
}

// CheckTransaction applies the policy for a prospective transaction.
// Income is always acceptable.
func CheckTransaction(acc core.Account, txType core.TransactionType, amount core.Money) error {
	if txType == core.Income {
		return nil
	}
	return CheckExpense(acc, amount)
}
