package utils

import (
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
)

// StartCPUProfile starts the CPU profiler writing into the given file.
func StartCPUProfile(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("could not create CPU profile: %s", err)
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		f.Close()
		return fmt.Errorf("could not start CPU profile: %s", err)
	}
	return nil
}

// StopCPUProfile stops a running CPU profiler.
func StopCPUProfile() {
	pprof.StopCPUProfile()
}

// StartMemoryProfile writes a heap profile if requested by the configuration.
func StartMemoryProfile(cfg *Config) error {
	if cfg.MemoryProfile == "" {
		return nil
	}
	f, err := os.Create(cfg.MemoryProfile)
	if err != nil {
		return fmt.Errorf("could not create memory profile: %s", err)
	}
	defer f.Close()
	runtime.GC() // get up-to-date statistics
	if err := pprof.WriteHeapProfile(f); err != nil {
		return fmt.Errorf("could not write memory profile: %s", err)
	}
	return nil
}
