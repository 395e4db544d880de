package indicator

import "math"

// smaLast returns the simple moving average of the last period values,
// or 0 if there are fewer values than the period.
func smaLast(values []float64, period int) float64 {
	if period <= 0 || len(values) < period {
		return 0
	}
	sum := 0.0
	for i := len(values) - period; i < len(values); i++ {
		sum += values[i]
	}
	return sum / float64(period)
}

// emaSeries computes the full EMA series over values, seeded with the SMA
// of the first period values. The returned slice is aligned to values;
// entries before index period-1 are 0 and not meaningful.
func emaSeries(values []float64, period int) []float64 {
	out := make([]float64, len(values))
	if period <= 0 || len(values) < period {
		return out
	}
	sum := 0.0
	for i := 0; i < period; i++ {
		sum += values[i]
	}
	out[period-1] = sum / float64(period)

	k := 2.0 / float64(period+1)
	for i := period; i < len(values); i++ {
		out[i] = values[i]*k + out[i-1]*(1-k)
	}
	return out
}

// emaLast returns the last EMA value, or 0 with insufficient data.
func emaLast(values []float64, period int) float64 {
	if period <= 0 || len(values) < period {
		return 0
	}
	series := emaSeries(values, period)
	return series[len(series)-1]
}

// stdDevLast returns the population standard deviation of the last
// period values around their mean, or 0 with insufficient data.
func stdDevLast(values []float64, period int) float64 {
	if period <= 0 || len(values) < period {
		return 0
	}
	mean := smaLast(values, period)
	sum := 0.0
	for i := len(values) - period; i < len(values); i++ {
		d := values[i] - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(period))
}
