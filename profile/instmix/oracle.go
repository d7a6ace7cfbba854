package instmix

//go:generate mockgen -source oracle.go -destination oracle_mocks.go -package instmix

import "github.com/instmix/instmix/ir"

// BlockFrequencyOracle provides the estimated execution count of basic blocks.
type BlockFrequencyOracle interface {
	// BlockFrequency returns the execution count of a block. If the count
	// is unknown (e.g. the block is unreachable), ok is false.
	BlockFrequency(block *ir.BasicBlock) (count uint64, ok bool)
}

// BranchProbabilityOracle provides the probability of control-flow edges.
type BranchProbabilityOracle interface {
	// EdgeProbability returns the probability that control is transferred
	// from block to succ.
	EdgeProbability(block, succ *ir.BasicBlock) ir.BranchProbability
}

// Observer is notified about the aggregation of every block of a profiled
// function. Observers must not retain the passed counts.
type Observer interface {
	// BlockAccumulated is called for every block with known frequency
	// after its weighted counts were added to the function totals.
	BlockAccumulated(block *ir.BasicBlock, freq uint64, counts BlockCounts)
	// BlockSkipped is called for every block with unknown frequency.
	BlockSkipped(block *ir.BasicBlock)
}
