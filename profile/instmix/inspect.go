package instmix

import "github.com/instmix/instmix/ir"

// BlockReport describes the contribution of a single block to the
// instruction mix of its function.
type BlockReport struct {
	Block          *ir.BasicBlock
	Frequency      uint64
	KnownFrequency bool
	Counts         BlockCounts
	MaxProbability float64 // highest probability over the outgoing edges
}

// Weighted returns the weighted dynamic instruction count of the block; zero
// if the block frequency is unknown. It is computed like the record totals.
func (r *BlockReport) Weighted() float64 {
	if !r.KnownFrequency {
		return 0
	}
	return float64(r.Frequency) * float64(r.Counts.DynOps)
}

// Inspect reports the counts of every block of fn in block order. Unlike
// Profile, blocks with unknown frequency are counted and reported as well.
// Since Profile skips those blocks, control instructions without successors
// in them are counted as biased branches regardless of the policy.
func (p *Profiler) Inspect(fn *ir.Function, freq BlockFrequencyOracle, prob BranchProbabilityOracle) ([]BlockReport, error) {
	skipped := &Profiler{emptyBranch: BiasedOnEmptyBranch}
	res := make([]BlockReport, 0, len(fn.Blocks))
	for _, block := range fn.Blocks {
		f, ok := freq.BlockFrequency(block)
		counter := p
		if !ok {
			counter = skipped
		}
		counts, err := counter.CountBlock(fn, block, prob)
		if err != nil {
			return nil, err
		}
		res = append(res, BlockReport{
			Block:          block,
			Frequency:      f,
			KnownFrequency: ok,
			Counts:         counts,
			MaxProbability: MaxSuccessorProbability(block, prob),
		})
	}
	return res, nil
}
