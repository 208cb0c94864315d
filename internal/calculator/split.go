// Package calculator implements the bill-splitting arithmetic.
//
// All amounts are signed int64 whole currency units. The sign convention is
// fixed across the whole application: a positive balance delta increases
// what the friend owes the user.
package calculator

// Payer identifies who covered the bill in a split.
type Payer string

const (
	// PayerYou means the signed-in user paid the whole bill.
	PayerYou Payer = "you"
	// PayerFriend means the friend paid the whole bill.
	PayerFriend Payer = "friend"
)

// Valid reports whether p is one of the two known payers.
func (p Payer) Valid() bool {
	return p == PayerYou || p == PayerFriend
}

// FriendExpense returns the friend's share of a bill: bill - yourExpense.
// Out-of-range input (yourExpense below zero or above the bill) yields 0
// rather than a negative or oversized share.
func FriendExpense(bill, yourExpense int64) int64 {
	if bill <= 0 || yourExpense < 0 || yourExpense > bill {
		return 0
	}
	return bill - yourExpense
}

// ComputeSplit computes the signed balance delta for one split.
//
// If the user paid, the friend now owes their own share: +FriendExpense.
// If the friend paid, the user now owes their own share: -yourExpense.
// The delta is applied as balance += delta, where positive balance means
// the friend owes the user.
//
// Callers are expected to validate 0 <= yourExpense <= bill up front; a
// violated precondition degrades to a zero friend share, never an error.
func ComputeSplit(bill, yourExpense int64, payer Payer) int64 {
	if payer == PayerFriend {
		if yourExpense < 0 || yourExpense > bill {
			return 0
		}
		return -yourExpense
	}
	return FriendExpense(bill, yourExpense)
}
