package booking

// Quote computes the total price in cents for renting a vehicle over the
// given range.  The chargeable duration is the number of whole days between
// the endpoints, with a minimum of one day so that a single-day booking
// (start == end) is billed for one day rather than zero.  Day-granularity
// inputs mean the subtraction always lands on a whole number of days, so no
// rounding beyond the minimum is needed.
func Quote(r DateRange, pricePerDayCents int64) int64 {
	days := r.Days()
	if days < 1 {
		days = 1
	}
	return int64(days) * pricePerDayCents
}
