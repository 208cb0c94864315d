package calculator

import "splitmate/internal/models"

// Summary aggregates a friend collection for the dashboard view.
type Summary struct {
	// Total is the net balance across all friends. Positive means the
	// user is owed money overall.
	Total int64

	// OweYou counts friends with a positive balance.
	OweYou int

	// YouOwe counts friends with a negative balance.
	YouOwe int

	// Settled counts friends with a zero balance.
	Settled int
}

// TotalBalance sums the balances of a friend collection. An empty
// collection totals 0 (settled), which is a valid state, not an error.
func TotalBalance(friends []models.Friend) int64 {
	var total int64
	for _, f := range friends {
		total += f.Balance
	}
	return total
}

// Summarize computes the dashboard aggregate for a friend collection.
func Summarize(friends []models.Friend) Summary {
	s := Summary{}
	for _, f := range friends {
		s.Total += f.Balance
		switch {
		case f.Balance > 0:
			s.OweYou++
		case f.Balance < 0:
			s.YouOwe++
		default:
			s.Settled++
		}
	}
	return s
}
