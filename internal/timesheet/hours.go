package timesheet

import "math"

const minimumRowHours = 0.1

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// RowHours is the span of a row in hours; rows without a positive span count as 0.1.
func RowHours(e Entry) float64 {
	if e.StartDateTime.IsZero() || e.EndDateTime.IsZero() {
		return 0
	}
	hours := round2(e.EndDateTime.Sub(e.StartDateTime.Time).Hours())
	if hours <= 0 {
		return minimumRowHours
	}
	return hours
}

// ApplyHours fills taken_hours on every row and returns the rounded total.
func ApplyHours(entries []Entry) float64 {
	var total float64
	for i := range entries {
		entries[i].TakenHours = RowHours(entries[i])
		if entries[i].TakenHours > 0 {
			total += entries[i].TakenHours
		}
	}
	return round2(total)
}
