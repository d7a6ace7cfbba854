package profiler

import (
	"github.com/instmix/instmix/executor"
	"github.com/instmix/instmix/executor/extension"
	"github.com/instmix/instmix/utils"
)

// MakeMemoryProfiler creates an executor.Extension writing a heap profile
// at the end of the run if enabled by the configuration.
func MakeMemoryProfiler(cfg *utils.Config) executor.Extension {
	if cfg.MemoryProfile == "" {
		return extension.NilExtension{}
	}
	return &memoryProfiler{cfg: cfg}
}

type memoryProfiler struct {
	extension.NilExtension
	cfg *utils.Config
}

func (p *memoryProfiler) PostRun(executor.State, *executor.Context, error) error {
	return utils.StartMemoryProfile(p.cfg)
}
