package executor

import (
	"errors"
	"testing"

	"github.com/instmix/instmix/ir"
	"github.com/instmix/instmix/profile/instmix"
	"github.com/instmix/instmix/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeLoopFunction(t *testing.T) (*ir.Function, *ir.StaticProfile) {
	t.Helper()
	return ir.NewFunctionBuilder("loop").
		Block("entry", "alloca", "br").Count("entry", 1).
		Block("body", "load", "fadd", "store", "icmp", "br").Count("body", 100).
		Block("exit", "ret").Count("exit", 1).
		Edge("entry", "body", 1, 1).
		Edge("body", "body", 99, 100).
		Edge("body", "exit", 1, 100).
		MustBuild()
}

func TestMixProcessor_PlacesRecordIntoContext(t *testing.T) {
	fn, profile := makeLoopFunction(t)
	processor, err := MakeMixProcessor(utils.NewTestConfig(t, 1, false))
	require.NoError(t, err)

	ctx := &Context{}
	require.NoError(t, processor.Process(State{Data: fn, Profile: profile}, ctx))
	require.NotNil(t, ctx.Record)

	assert.Equal(t, "loop", ctx.Record.Function)
	assert.Equal(t, 503.0, ctx.Record.DynOps)
	assert.Equal(t, 100.0, ctx.Record.Weighted[instmix.FloatingPointALU])
	assert.Equal(t, 101.0, ctx.Record.Weighted[instmix.BiasedBranch])
}

func TestMixProcessor_StaticMixIgnoresFrequencies(t *testing.T) {
	fn, profile := makeLoopFunction(t)
	processor, err := MakeStaticMixProcessor(utils.NewTestConfig(t, 1, false))
	require.NoError(t, err)

	ctx := &Context{}
	require.NoError(t, processor.Process(State{Data: fn, Profile: profile}, ctx))
	require.NotNil(t, ctx.Record)

	assert.Equal(t, float64(fn.NumInstructions()), ctx.Record.DynOps)
	assert.Equal(t, 2.0, ctx.Record.Weighted[instmix.BiasedBranch])
}

func TestMixProcessor_InvalidPolicyIsRejected(t *testing.T) {
	cfg := utils.NewTestConfig(t, 1, false)
	cfg.EmptyBranch = "sometimes"
	if _, err := MakeMixProcessor(cfg); err == nil {
		t.Errorf("invalid policy must be rejected")
	}
}

func TestMixProcessor_FailureIsFatalByDefault(t *testing.T) {
	fn, profile := ir.NewFunctionBuilder("f").
		Block("entry", "br").Count("entry", 1).
		MustBuild()
	processor, err := MakeMixProcessor(utils.NewTestConfig(t, 1, false))
	require.NoError(t, err)

	err = processor.Process(State{Data: fn, Profile: profile}, &Context{})
	if !errors.Is(err, instmix.ErrNoSuccessors) {
		t.Errorf("unexpected error, wanted %v, got %v", instmix.ErrNoSuccessors, err)
	}
}

func TestMixProcessor_ContinueOnFailureForwardsErrors(t *testing.T) {
	fn, profile := ir.NewFunctionBuilder("f").
		Block("entry", "br").Count("entry", 1).
		MustBuild()
	cfg := utils.NewTestConfig(t, 1, false)
	cfg.ContinueOnFailure = true
	cfg.MaxNumErrors = 2

	processor, err := MakeMixProcessor(cfg)
	require.NoError(t, err)

	ctx := &Context{ErrorInput: make(chan error, 10)}
	state := State{ModuleName: "m", Data: fn, Profile: profile}
	for i := 0; i < 2; i++ {
		if err := processor.Process(state, ctx); err != nil {
			t.Fatalf("tolerated error must not abort; %v", err)
		}
	}
	if err := processor.Process(state, ctx); !errors.Is(err, instmix.ErrNoSuccessors) {
		t.Errorf("error beyond the limit must abort, got %v", err)
	}
	close(ctx.ErrorInput)

	count := 0
	for err := range ctx.ErrorInput {
		assert.ErrorIs(t, err, instmix.ErrNoSuccessors)
		count++
	}
	assert.Equal(t, 2, count)
}

func TestMixProcessor_BiasedPolicyAcceptsEmptyBranches(t *testing.T) {
	fn, profile := ir.NewFunctionBuilder("f").
		Block("entry", "br").Count("entry", 1).
		MustBuild()
	cfg := utils.NewTestConfig(t, 1, false)
	cfg.EmptyBranch = instmix.BiasedOnEmptyBranch.String()

	processor, err := MakeMixProcessor(cfg)
	require.NoError(t, err)

	ctx := &Context{}
	require.NoError(t, processor.Process(State{Data: fn, Profile: profile}, ctx))
	assert.Equal(t, 1.0, ctx.Record.Ratio(instmix.BiasedBranch))
}
