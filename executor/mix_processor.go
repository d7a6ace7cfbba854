package executor

import (
	"fmt"
	"sync/atomic"

	"github.com/instmix/instmix/ir"
	"github.com/instmix/instmix/profile/instmix"
	"github.com/instmix/instmix/utils"
)

// MakeMixProcessor creates the processor computing the profile weighted
// instruction mix of every function.
func MakeMixProcessor(cfg *utils.Config) (Processor, error) {
	return makeMixProcessor(cfg, false)
}

// MakeStaticMixProcessor creates a processor counting every block exactly
// once, ignoring the recorded block frequencies.
func MakeStaticMixProcessor(cfg *utils.Config) (Processor, error) {
	return makeMixProcessor(cfg, true)
}

func makeMixProcessor(cfg *utils.Config, static bool) (*MixProcessor, error) {
	policy, err := cfg.EmptyBranchPolicy()
	if err != nil {
		return nil, err
	}
	return &MixProcessor{
		cfg:       cfg,
		profiler:  instmix.NewProfiler(instmix.WithEmptyBranchPolicy(policy)),
		static:    static,
		numErrors: new(atomic.Int32),
	}, nil
}

// MixProcessor computes the instruction mix of the function of the current
// state and places the resulting record into the context.
type MixProcessor struct {
	cfg       *utils.Config
	profiler  *instmix.Profiler
	static    bool
	numErrors *atomic.Int32 // functions can be processed in parallel, so this needs to be thread safe
}

func (p *MixProcessor) Process(state State, ctx *Context) error {
	var freq instmix.BlockFrequencyOracle = state.Profile
	if p.static {
		freq = unitFrequency{}
	}

	record, err := p.profiler.Profile(state.Data, freq, state.Profile)
	if err == nil {
		ctx.Record = record
		return nil
	}

	err = fmt.Errorf("cannot profile function %v of module %v; %w", state.Data.Name, state.ModuleName, err)
	if !p.isErrFatal() && ctx.ErrorInput != nil {
		ctx.ErrorInput <- err
		return nil
	}
	return err
}

// isErrFatal decides whether a failed function aborts the run.
func (p *MixProcessor) isErrFatal() bool {
	if !p.cfg.ContinueOnFailure {
		return true
	}

	// check this first, so we don't have to access atomic value
	if p.cfg.MaxNumErrors <= 0 {
		return false
	}

	if p.numErrors.Load() < int32(p.cfg.MaxNumErrors) {
		p.numErrors.Add(1)
		return false
	}

	return true
}

// unitFrequency reports a frequency of one for every block.
type unitFrequency struct{}

func (unitFrequency) BlockFrequency(*ir.BasicBlock) (uint64, bool) {
	return 1, true
}
