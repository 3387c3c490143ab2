package core

// CategoryTotal is an amount aggregated by category name.
type CategoryTotal struct {
	Category string
	Total    int64
}

// BalanceSummary holds lifetime totals for one user.
type BalanceSummary struct {
	Income  int64
	Expense int64
	Net     int64 // Income - Expense
}
