package instmix

import (
	"fmt"
	"strings"
)

// Record is the weighted instruction mix of one function.
type Record struct {
	Function string
	DynOps   float64                // weighted number of executed instructions
	Weighted [NumCategories]float64 // weighted number of instructions per category
}

// Ratio returns the share of a category in the weighted instruction count.
// It is zero if no weighted instructions were counted.
func (r *Record) Ratio(c Category) float64 {
	if r.DynOps == 0 {
		return 0
	}
	return r.Weighted[c] / r.DynOps
}

// Ratios returns the ratios of all categories in report order.
func (r *Record) Ratios() [NumCategories]float64 {
	var res [NumCategories]float64
	for _, c := range Categories {
		res[c] = r.Ratio(c)
	}
	return res
}

// String formats the record as a single report line:
//
//	<name>, <dynops>, <i_alu>, <fp_alu>, <mem>, <biased>, <unbiased>, <other>
func (r *Record) String() string {
	var sb strings.Builder
	sb.WriteString(r.Function)
	if r.DynOps == 0 {
		sb.WriteString(", 0")
	} else {
		fmt.Fprintf(&sb, ", %.0f", r.DynOps)
	}
	for _, c := range Categories {
		fmt.Fprintf(&sb, ", %.3f", r.Ratio(c))
	}
	return sb.String()
}

// Header returns the column names of the report line.
func Header() []string {
	res := []string{"Function", "DynOps"}
	for _, c := range Categories {
		res = append(res, c.String())
	}
	return res
}
