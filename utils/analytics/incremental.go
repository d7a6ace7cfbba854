package analytics

import (
	"math"
)

// IncrementalStats computes the moments of a series of values in a single
// pass. The sum is accumulated with Kahan summation.
type IncrementalStats struct {
	count uint64
	min   float64
	max   float64

	sum          float64
	compensation float64

	m1, m2, m3, m4 float64
}

func NewIncrementalStats() *IncrementalStats {
	return &IncrementalStats{}
}

func (s *IncrementalStats) Update(x float64) {
	prevN, n := float64(s.count), float64(s.count+1)

	delta := x - s.m1
	deltaN := delta / n
	deltaN2 := deltaN * deltaN
	term := delta * deltaN * prevN

	s.m1 += deltaN
	s.m4 += term*deltaN2*(n*n-3*n+3) + 6*deltaN2*s.m2 - 4*deltaN*s.m3
	s.m3 += term*deltaN*(n-2) - 3*deltaN*s.m2
	s.m2 += term

	y := x - s.compensation
	t := s.sum + y
	s.compensation = (t - s.sum) - y
	s.sum = t

	if s.count == 0 || x < s.min {
		s.min = x
	}
	if s.count == 0 || x > s.max {
		s.max = x
	}
	s.count++
}

func (s *IncrementalStats) GetCount() uint64 {
	return s.count
}

func (s *IncrementalStats) GetSum() float64 {
	return s.sum
}

func (s *IncrementalStats) GetMean() float64 {
	return s.m1
}

// GetVariance returns the population variance; NaN for an empty series.
func (s *IncrementalStats) GetVariance() float64 {
	if s.count == 0 {
		return math.NaN()
	}
	return s.m2 / float64(s.count)
}

func (s *IncrementalStats) GetStandardDeviation() float64 {
	return math.Sqrt(s.GetVariance())
}

func (s *IncrementalStats) GetSkewness() float64 {
	return math.Sqrt(float64(s.count)) * s.m3 / math.Pow(s.m2, 1.5)
}

func (s *IncrementalStats) GetKurtosis() float64 {
	return float64(s.count)*s.m4/(s.m2*s.m2) - 3.0
}

func (s *IncrementalStats) GetMin() float64 {
	if s.count == 0 {
		return math.NaN()
	}
	return s.min
}

func (s *IncrementalStats) GetMax() float64 {
	if s.count == 0 {
		return math.NaN()
	}
	return s.max
}

// IncrementalAnalytics keeps one IncrementalStats per series.
type IncrementalAnalytics struct {
	stats []IncrementalStats
}

func NewIncrementalAnalytics(numSeries int) *IncrementalAnalytics {
	return &IncrementalAnalytics{stats: make([]IncrementalStats, numSeries)}
}

func (a *IncrementalAnalytics) Iterate() []IncrementalStats {
	return a.stats
}

func (a *IncrementalAnalytics) Reset() {
	a.stats = make([]IncrementalStats, len(a.stats))
}

func (a *IncrementalAnalytics) Update(id int, data float64) {
	a.stats[id].Update(data)
}

func (a *IncrementalAnalytics) GetCount(id int) uint64 {
	return a.stats[id].GetCount()
}

func (a *IncrementalAnalytics) GetMin(id int) float64 {
	return a.stats[id].GetMin()
}

func (a *IncrementalAnalytics) GetMax(id int) float64 {
	return a.stats[id].GetMax()
}

func (a *IncrementalAnalytics) GetSum(id int) float64 {
	return a.stats[id].GetSum()
}

func (a *IncrementalAnalytics) GetMean(id int) float64 {
	return a.stats[id].GetMean()
}

func (a *IncrementalAnalytics) GetVariance(id int) float64 {
	return a.stats[id].GetVariance()
}

func (a *IncrementalAnalytics) GetStandardDeviation(id int) float64 {
	return a.stats[id].GetStandardDeviation()
}

func (a *IncrementalAnalytics) GetSkewness(id int) float64 {
	return a.stats[id].GetSkewness()
}

func (a *IncrementalAnalytics) GetKurtosis(id int) float64 {
	return a.stats[id].GetKurtosis()
}
