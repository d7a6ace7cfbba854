// Package analytics provides streaming statistics over series of values.
package analytics

// Analytics tracks statistics for a fixed number of independent series
// identified by their index.
type Analytics interface {
	Reset()
	Update(id int, data float64)

	GetCount(id int) uint64
	GetMin(id int) float64
	GetMax(id int) float64

	GetSum(id int) float64
	GetMean(id int) float64
	GetStandardDeviation(id int) float64
	GetVariance(id int) float64
	GetSkewness(id int) float64
	GetKurtosis(id int) float64
}
