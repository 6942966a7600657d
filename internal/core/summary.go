package core

// CategoryTotal represents an amount aggregated by category name.
type CategoryTotal struct {
	Category string
	Total    Money
}

// Report is a per-category aggregation over a date range, ordered by
// descending total amount (ties by category name).
type Report []CategoryTotal

// GrandTotal sums every entry of the report.
func (r Report) GrandTotal() Money {
	var sum Money
	for _, ct := range r {
		sum = sum.Add(ct.Total)
	}
	return sum
}
