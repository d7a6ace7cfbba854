package visualizer

import (
	"errors"
	"testing"

	"github.com/instmix/instmix/ir"
	"github.com/instmix/instmix/profile/instmix"
)

func makeLoopModule(t *testing.T, name string) *ir.Module {
	t.Helper()
	fn, profile := ir.NewFunctionBuilder("loop").
		Block("entry", "alloca", "br").Count("entry", 1).
		Block("body", "load", "fadd", "store", "icmp", "br").Count("body", 100).
		Block("exit", "ret").Count("exit", 1).
		Edge("entry", "body", 1, 1).
		Edge("body", "body", 99, 100).
		Edge("body", "exit", 1, 100).
		MustBuild()
	return ir.NewModule(name, []*ir.Function{fn}, profile)
}

func makeBranchModule(t *testing.T, name string) *ir.Module {
	t.Helper()
	fn, profile := ir.NewFunctionBuilder("branch").
		Block("entry", "icmp", "br").Count("entry", 10).
		Block("then", "add", "ret").Count("then", 5).
		Block("else", "ret").Count("else", 5).
		Edge("entry", "then", 1, 2).
		Edge("entry", "else", 1, 2).
		MustBuild()
	return ir.NewModule(name, []*ir.Function{fn}, profile)
}

func makeBrokenModule(t *testing.T, name string) *ir.Module {
	t.Helper()
	fn, profile := ir.NewFunctionBuilder("broken").
		Block("entry", "add", "br").Count("entry", 1).
		MustBuild()
	return ir.NewModule(name, []*ir.Function{fn}, profile)
}

func TestMixModel_ProfilesAllFunctions(t *testing.T) {
	model := NewMixModel([]*ir.Module{makeLoopModule(t, "a"), makeBranchModule(t, "b")}, instmix.FailOnEmptyBranch)

	if got, want := len(model.Functions), 2; got != want {
		t.Fatalf("unexpected number of functions, wanted %d, got %d", want, got)
	}
	view, found := model.Lookup("", "branch")
	if !found {
		t.Fatalf("function branch not found")
	}
	if view.Module != "b" || view.Key() != "b/branch" {
		t.Errorf("unexpected view %v", view.Key())
	}
	if view.Record == nil || view.Record.DynOps != 35 {
		t.Fatalf("unexpected record %v", view.Record)
	}
	if got := view.Record.Ratio(instmix.UnbiasedBranch); got != 10.0/35 {
		t.Errorf("unexpected unbiased ratio %v", got)
	}
}

func TestMixModel_LookupHonorsModule(t *testing.T) {
	model := NewMixModel([]*ir.Module{makeLoopModule(t, "a"), makeLoopModule(t, "b")}, instmix.FailOnEmptyBranch)

	view, found := model.Lookup("b", "loop")
	if !found || view.Module != "b" {
		t.Errorf("failed to find loop of module b")
	}
	view, found = model.Lookup("", "loop")
	if !found || view.Module != "a" {
		t.Errorf("lookup without module must return the first match")
	}
	if _, found := model.Lookup("c", "loop"); found {
		t.Errorf("lookup in unknown module must fail")
	}
	if _, found := model.Lookup("", "missing"); found {
		t.Errorf("lookup of unknown function must fail")
	}
}

func TestMixModel_FailedFunctionsAreKept(t *testing.T) {
	model := NewMixModel([]*ir.Module{makeBrokenModule(t, "x"), makeLoopModule(t, "a")}, instmix.FailOnEmptyBranch)

	view, found := model.Lookup("x", "broken")
	if !found {
		t.Fatalf("failed function must be part of the model")
	}
	if !errors.Is(view.Err, instmix.ErrNoSuccessors) {
		t.Errorf("unexpected error %v", view.Err)
	}
	if got := len(model.Profiled()); got != 1 {
		t.Errorf("unexpected number of profiled functions %d", got)
	}
	if got := model.Failed(); len(got) != 1 {
		t.Errorf("unexpected failures %v", got)
	}
}

func TestMixModel_BiasedPolicyProfilesEmptyBranches(t *testing.T) {
	model := NewMixModel([]*ir.Module{makeBrokenModule(t, "x")}, instmix.BiasedOnEmptyBranch)

	view, _ := model.Lookup("x", "broken")
	if view.Err != nil || view.Record == nil {
		t.Fatalf("unexpected error %v", view.Err)
	}
	if got := view.Record.Weighted[instmix.BiasedBranch]; got != 1 {
		t.Errorf("unexpected biased count %v", got)
	}
}

func TestMixModel_ByDynOpsSortsDescending(t *testing.T) {
	model := NewMixModel([]*ir.Module{makeBranchModule(t, "b"), makeLoopModule(t, "a")}, instmix.FailOnEmptyBranch)

	views := model.ByDynOps()
	if len(views) != 2 {
		t.Fatalf("unexpected number of views %d", len(views))
	}
	if views[0].Function.Name != "loop" || views[1].Function.Name != "branch" {
		t.Errorf("unexpected order %v, %v", views[0].Key(), views[1].Key())
	}
}
