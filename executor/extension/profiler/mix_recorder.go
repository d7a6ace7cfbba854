package profiler

import (
	"fmt"
	"sync"

	"github.com/instmix/instmix/executor"
	"github.com/instmix/instmix/executor/extension"
	"github.com/instmix/instmix/logger"
	"github.com/instmix/instmix/profile/instmix"
	"github.com/instmix/instmix/utils"
)

// MakeMixRecorder creates an extension storing all records in the profile
// database given by --profile-db. Records of a module replace the records
// stored for the same module by earlier runs.
func MakeMixRecorder(cfg *utils.Config) executor.Extension {
	if cfg.ProfileDB == "" {
		return extension.NilExtension{}
	}
	return &MixRecorder{
		cfg: cfg,
		log: logger.NewLogger(cfg.LogLevel, "Mix-Recorder"),
	}
}

type MixRecorder struct {
	extension.NilExtension
	log      logger.Logger
	cfg      *utils.Config
	mu       sync.Mutex
	db       *instmix.ProfileDB
	prepared map[string]bool // modules whose old records have been deleted
}

func (r *MixRecorder) PreRun(executor.State, *executor.Context) error {
	var err error
	r.db, err = instmix.NewProfileDB(r.cfg.ProfileDB)
	if err != nil {
		return fmt.Errorf("cannot create profile-db; %v", err)
	}
	r.prepared = make(map[string]bool)
	return nil
}

func (r *MixRecorder) PreModule(state executor.State, _ *executor.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.prepareModule(state.ModuleName)
}

func (r *MixRecorder) PostFunction(state executor.State, ctx *executor.Context) error {
	if ctx.Record == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	// parallel runs have no module events
	if err := r.prepareModule(state.ModuleName); err != nil {
		return err
	}
	if err := r.db.Add(state.ModuleName, ctx.Record); err != nil {
		return fmt.Errorf("cannot add record to profile-db; %v", err)
	}
	return nil
}

func (r *MixRecorder) PostRun(executor.State, *executor.Context, error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.db == nil {
		return nil
	}
	if err := r.db.Close(); err != nil {
		return fmt.Errorf("cannot close profile-db; %v", err)
	}
	r.db = nil
	return nil
}

// prepareModule deletes old records of a module the first time it is seen.
func (r *MixRecorder) prepareModule(module string) error {
	if r.prepared[module] {
		return nil
	}
	r.prepared[module] = true
	r.log.Noticef("Deleting old records of module %v from ProfileDB", module)
	// buffered records may not yet be visible to the delete
	if err := r.db.Flush(); err != nil {
		return fmt.Errorf("cannot flush profile-db; %v", err)
	}
	if _, err := r.db.DeleteByModule(module); err != nil {
		return fmt.Errorf("cannot delete old data from profile-db; %v", err)
	}
	return nil
}
