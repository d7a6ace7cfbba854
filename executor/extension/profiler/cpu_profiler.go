package profiler

import (
	"github.com/instmix/instmix/executor"
	"github.com/instmix/instmix/executor/extension"
	"github.com/instmix/instmix/utils"
)

// MakeCpuProfiler creates an executor.Extension that records a CPU profile
// of the whole run if enabled by the configuration.
func MakeCpuProfiler(cfg *utils.Config) executor.Extension {
	if cfg.CPUProfile == "" {
		return extension.NilExtension{}
	}
	return &cpuProfiler{cfg: cfg}
}

type cpuProfiler struct {
	extension.NilExtension
	cfg *utils.Config
}

func (p *cpuProfiler) PreRun(executor.State, *executor.Context) error {
	return utils.StartCPUProfile(p.cfg.CPUProfile)
}

func (p *cpuProfiler) PostRun(executor.State, *executor.Context, error) error {
	utils.StopCPUProfile()
	return nil
}
