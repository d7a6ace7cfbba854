package visualizer

import (
	"fmt"
	"sort"

	"github.com/instmix/instmix/ir"
	"github.com/instmix/instmix/profile/instmix"
)

// FunctionView is the view model of a single profiled function.
type FunctionView struct {
	Module   string
	Function *ir.Function
	Profile  *ir.StaticProfile
	Record   *instmix.Record // nil if profiling failed
	Err      error           // reason why profiling failed
}

// Key returns the unique name of the function across all modules.
func (v *FunctionView) Key() string {
	return v.Module + "/" + v.Function.Name
}

// MixModel is the view model of the web visualizer. It holds the profiled
// functions of a set of modules and is read-only after construction.
type MixModel struct {
	Functions []FunctionView
	profiler  *instmix.Profiler
}

// NewMixModel profiles all functions of the given modules. Functions which
// cannot be profiled are kept in the model with their error.
func NewMixModel(modules []*ir.Module, policy instmix.EmptyBranchPolicy) *MixModel {
	model := &MixModel{
		profiler: instmix.NewProfiler(instmix.WithEmptyBranchPolicy(policy)),
	}
	for _, module := range modules {
		profile := module.Profile()
		for _, fn := range module.Functions {
			view := FunctionView{
				Module:   module.Name,
				Function: fn,
				Profile:  profile,
			}
			view.Record, view.Err = model.profiler.Profile(fn, profile, profile)
			model.Functions = append(model.Functions, view)
		}
	}
	return model
}

// Lookup finds a function by name. If module is empty, the first function
// with the given name is returned.
func (m *MixModel) Lookup(module, function string) (*FunctionView, bool) {
	for i := range m.Functions {
		view := &m.Functions[i]
		if view.Function.Name != function {
			continue
		}
		if module == "" || module == view.Module {
			return view, true
		}
	}
	return nil, false
}

// Profiled returns the functions with a record, in model order.
func (m *MixModel) Profiled() []*FunctionView {
	res := make([]*FunctionView, 0, len(m.Functions))
	for i := range m.Functions {
		if m.Functions[i].Record != nil {
			res = append(res, &m.Functions[i])
		}
	}
	return res
}

// ByDynOps returns the profiled functions sorted by decreasing dynop count.
func (m *MixModel) ByDynOps() []*FunctionView {
	res := m.Profiled()
	sort.SliceStable(res, func(i, j int) bool {
		return res[i].Record.DynOps > res[j].Record.DynOps
	})
	return res
}

// Failed returns a description of every function which could not be profiled.
func (m *MixModel) Failed() []string {
	var res []string
	for i := range m.Functions {
		if view := &m.Functions[i]; view.Err != nil {
			res = append(res, fmt.Sprintf("%v: %v", view.Key(), view.Err))
		}
	}
	return res
}
