package instmix

import (
	"errors"
	"fmt"

	"github.com/instmix/instmix/ir"
)

// BiasThreshold is the smallest maximum successor probability for which the
// branches of a block are considered biased.
const BiasThreshold = 0.8

// ErrNoSuccessors is reported for control instructions in blocks without
// successors if the FailOnEmptyBranch policy is active.
var ErrNoSuccessors = errors.New("control instruction in block without successors")

// EmptyBranchPolicy defines how control instructions of blocks without
// successors are classified.
type EmptyBranchPolicy int

const (
	// FailOnEmptyBranch aborts the analysis of the function.
	FailOnEmptyBranch EmptyBranchPolicy = iota
	// BiasedOnEmptyBranch counts the instruction as biased branch.
	BiasedOnEmptyBranch
)

func (p EmptyBranchPolicy) String() string {
	switch p {
	case FailOnEmptyBranch:
		return "fail"
	case BiasedOnEmptyBranch:
		return "biased"
	}
	return "unknown"
}

// ParseEmptyBranchPolicy parses the textual name of a policy.
func ParseEmptyBranchPolicy(name string) (EmptyBranchPolicy, error) {
	switch name {
	case "", "fail":
		return FailOnEmptyBranch, nil
	case "biased":
		return BiasedOnEmptyBranch, nil
	}
	return 0, fmt.Errorf("unknown empty branch policy %q; use \"fail\" or \"biased\"", name)
}

// Option configures a Profiler.
type Option func(*Profiler)

// WithEmptyBranchPolicy sets the policy for control instructions in blocks
// without successors.
func WithEmptyBranchPolicy(policy EmptyBranchPolicy) Option {
	return func(p *Profiler) {
		p.emptyBranch = policy
	}
}

// WithObserver installs an observer notified about every aggregated block.
func WithObserver(observer Observer) Option {
	return func(p *Profiler) {
		p.observer = observer
	}
}

// Profiler computes weighted instruction mixes. A Profiler holds no state
// between calls and may be used concurrently if its observer is thread safe.
type Profiler struct {
	emptyBranch EmptyBranchPolicy
	observer    Observer
}

// NewProfiler creates a profiler with the given options.
func NewProfiler(options ...Option) *Profiler {
	p := &Profiler{}
	for _, opt := range options {
		opt(p)
	}
	return p
}

// Profile computes the instruction mix of fn. Every instruction is weighted
// by the frequency of its block; blocks with unknown frequency are skipped.
func (p *Profiler) Profile(fn *ir.Function, freq BlockFrequencyOracle, prob BranchProbabilityOracle) (*Record, error) {
	var acc Accumulator
	for _, block := range fn.Blocks {
		f, ok := freq.BlockFrequency(block)
		if !ok {
			if p.observer != nil {
				p.observer.BlockSkipped(block)
			}
			continue
		}
		counts, err := p.CountBlock(fn, block, prob)
		if err != nil {
			return nil, err
		}
		acc.AddWeighted(counts, f)
		if p.observer != nil {
			p.observer.BlockAccumulated(block, f, counts)
		}
	}
	return acc.Finalize(fn.Name), nil
}

// CountBlock returns the unweighted category counts of a block of fn.
func (p *Profiler) CountBlock(fn *ir.Function, block *ir.BasicBlock, prob BranchProbabilityOracle) (BlockCounts, error) {
	var counts BlockCounts
	for _, inst := range block.Instructions {
		class := Classify(inst.Opcode)
		if class != ControlOp {
			counts.Add(class.Category())
			continue
		}
		category, err := p.branchBias(fn, block, prob)
		if err != nil {
			return BlockCounts{}, err
		}
		counts.Add(category)
	}
	return counts, nil
}

// branchBias classifies a control instruction of block by the maximum
// probability over the successors of the block.
func (p *Profiler) branchBias(fn *ir.Function, block *ir.BasicBlock, prob BranchProbabilityOracle) (Category, error) {
	if len(block.Successors) == 0 {
		if p.emptyBranch == BiasedOnEmptyBranch {
			return BiasedBranch, nil
		}
		return 0, fmt.Errorf("%w: function %v, block %v", ErrNoSuccessors, fn.Name, block.Label)
	}
	if MaxSuccessorProbability(block, prob) < BiasThreshold {
		return UnbiasedBranch, nil
	}
	return BiasedBranch, nil
}

// MaxSuccessorProbability returns the highest probability over the outgoing
// edges of block; zero for blocks without successors.
func MaxSuccessorProbability(block *ir.BasicBlock, prob BranchProbabilityOracle) float64 {
	highest := 0.0
	for _, succ := range block.Successors {
		if p := prob.EdgeProbability(block, succ).Float64(); p > highest {
			highest = p
		}
	}
	return highest
}
