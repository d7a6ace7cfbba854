package executor

import (
	"fmt"
	"sync"

	"github.com/instmix/instmix/utils"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// ProcessorFactory creates a processor for the given configuration.
type ProcessorFactory func(cfg *utils.Config) (Processor, error)

var (
	registryMutex sync.Mutex
	processors    = map[string]ProcessorFactory{}
)

func init() {
	mustRegister("instmix", MakeMixProcessor)
	mustRegister("instmix-static", MakeStaticMixProcessor)
}

func mustRegister(name string, factory ProcessorFactory) {
	if err := RegisterProcessor(name, factory); err != nil {
		panic(err)
	}
}

// RegisterProcessor makes a processor available under the given pass name.
func RegisterProcessor(name string, factory ProcessorFactory) error {
	if name == "" || factory == nil {
		return fmt.Errorf("invalid processor registration %q", name)
	}
	registryMutex.Lock()
	defer registryMutex.Unlock()
	if _, found := processors[name]; found {
		return fmt.Errorf("processor %q is already registered", name)
	}
	processors[name] = factory
	return nil
}

// MakeProcessor creates the processor registered under the given name.
func MakeProcessor(name string, cfg *utils.Config) (Processor, error) {
	registryMutex.Lock()
	factory, found := processors[name]
	registryMutex.Unlock()
	if !found {
		return nil, fmt.Errorf("unknown pass %q; available passes: %v", name, ProcessorNames())
	}
	return factory(cfg)
}

// ProcessorNames lists the names of all registered processors in sorted order.
func ProcessorNames() []string {
	registryMutex.Lock()
	defer registryMutex.Unlock()
	names := maps.Keys(processors)
	slices.Sort(names)
	return names
}
