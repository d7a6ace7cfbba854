package executor

import (
	"fmt"

	"github.com/instmix/instmix/ir"
)

// OpenModuleProvider creates a provider reading the modules stored in the
// given files. Files are read one at a time, when the provider reaches them.
func OpenModuleProvider(paths []string) FunctionProvider {
	return &moduleProvider{
		count: len(paths),
		load: func(i int) (*ir.Module, error) {
			m, err := ir.ReadModule(paths[i])
			if err != nil {
				return nil, fmt.Errorf("cannot read module %v; %w", paths[i], err)
			}
			return m, nil
		},
	}
}

// NewModuleProvider creates a provider over modules already held in memory.
func NewModuleProvider(modules ...*ir.Module) FunctionProvider {
	return &moduleProvider{
		count: len(modules),
		load: func(i int) (*ir.Module, error) {
			return modules[i], nil
		},
	}
}

type moduleProvider struct {
	count int
	load  func(int) (*ir.Module, error)
}

func (p *moduleProvider) Run(consumer FunctionConsumer) error {
	for i := 0; i < p.count; i++ {
		module, err := p.load(i)
		if err != nil {
			return err
		}
		if len(module.Functions) == 0 {
			info := FunctionInfo{
				Module:     i,
				ModuleName: module.Name,
				Profile:    module.Profile(),
			}
			if err := consumer(info); err != nil {
				return err
			}
			continue
		}
		for j, fn := range module.Functions {
			info := FunctionInfo{
				Module:     i,
				ModuleName: module.Name,
				Function:   j,
				Data:       fn,
				Profile:    module.Profile(),
			}
			if err := consumer(info); err != nil {
				return err
			}
		}
	}
	return nil
}

func (p *moduleProvider) Close() {
	// ignored
}
