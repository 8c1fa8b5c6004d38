package stats

import "strconv"

// Cumulative expands a sparse per-day map into a dense running-total series
// of length days. Element i holds the sum of deltas for days 1..i+1; days
// absent from the map contribute zero, so the previous total carries forward.
// A month whose first days have no activity starts the series at 0.
func Cumulative(byDay map[int]int64, days int) []int64 {
	series := make([]int64, days)
	var running int64
	for day := 1; day <= days; day++ {
		running += byDay[day]
		series[day-1] = running
	}
	return series
}

// DayLabels returns one chart-axis label per day of the month ("1".."31").
func DayLabels(days int) []string {
	labels := make([]string, days)
	for day := 1; day <= days; day++ {
		labels[day-1] = strconv.Itoa(day)
	}
	return labels
}
