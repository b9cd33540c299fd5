package reservations

const (
	// MinimumStayDays is the shortest inclusive range that can be booked.
	MinimumStayDays = 2
	// MonthlyDiscountThresholdDays is the stay length at which an office's monthly discount applies.
	MonthlyDiscountThresholdDays = 28
)

// Price returns the total for a stay in the smallest currency unit.
// The discount is taken once off the whole total, truncating.
func Price(dailyRate, discountPercent, days int64) int64 {
	price := dailyRate * days
	if days >= MonthlyDiscountThresholdDays && discountPercent > 0 {
		price -= price * discountPercent / 100
	}
	if price < 0 {
		return 0
	}
	return price
}

// PriceFor prices a range for an office at its current rate.
// Billing counts elapsed days, so a range from day 1 to day 41 bills 40 days.
func PriceFor(o Office, r DateRange) int64 {
	return Price(o.PricePerDay, int64(o.MonthlyDiscount), int64(r.Nights()))
}
