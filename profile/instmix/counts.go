package instmix

// BlockCounts are the unweighted category counts of a single basic block.
type BlockCounts struct {
	DynOps uint64
	Counts [NumCategories]uint64
}

// Add counts one instruction of the given category.
func (c *BlockCounts) Add(category Category) {
	c.Counts[category]++
	c.DynOps++
}

// Accumulator sums frequency weighted block counts of a function.
type Accumulator struct {
	DynOps   float64
	Weighted [NumCategories]float64
}

// AddWeighted adds counts weighted by the block frequency freq.
func (a *Accumulator) AddWeighted(counts BlockCounts, freq uint64) {
	f := float64(freq)
	a.DynOps += f * float64(counts.DynOps)
	for i, n := range counts.Counts {
		a.Weighted[i] += f * float64(n)
	}
}

// Finalize turns the accumulated sums into the record of the named function.
func (a *Accumulator) Finalize(name string) *Record {
	return &Record{
		Function: name,
		DynOps:   a.DynOps,
		Weighted: a.Weighted,
	}
}
