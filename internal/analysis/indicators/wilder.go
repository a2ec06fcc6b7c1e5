package indicators

// WilderSmooth applies Wilder's recursive smoothing to a series.
// Values before index period-1 are undefined. The seed at period-1 is the
// simple mean of the first period values; from there on
// S[i] = (S[i-1]*(period-1) + X[i]) / period.
// A series shorter than period is entirely undefined, not an error.
func WilderSmooth(values []float64, period int) []float64 {
	n := len(values)
	result := undefinedSeries(n)
	if period <= 0 || n < period {
		return result
	}

	result[period-1] = mean(values[:period])
	for i := period; i < n; i++ {
		result[i] = (result[i-1]*float64(period-1) + values[i]) / float64(period)
	}
	return result
}
