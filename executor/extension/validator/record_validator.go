package validator

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/instmix/instmix/executor"
	"github.com/instmix/instmix/executor/extension"
	"github.com/instmix/instmix/logger"
	"github.com/instmix/instmix/profile/instmix"
	"github.com/instmix/instmix/utils"
)

// RatioTolerance is the accepted deviation of the sum of all ratios of a
// record from one.
const RatioTolerance = 1e-9

// MakeRecordValidator creates an extension checking the consistency of the
// record of every profiled function.
func MakeRecordValidator(cfg *utils.Config) executor.Extension {
	if !cfg.Validate {
		return extension.NilExtension{}
	}

	log := logger.NewLogger(cfg.LogLevel, "Record-Validator")

	return makeRecordValidator(cfg, log)
}

func makeRecordValidator(cfg *utils.Config, log logger.Logger) *recordValidator {
	return &recordValidator{
		cfg: cfg,
		log: log,
	}
}

type recordValidator struct {
	extension.NilExtension
	cfg    *utils.Config
	log    logger.Logger
	lock   sync.Mutex
	errors []error
}

func (v *recordValidator) PreRun(executor.State, *executor.Context) error {
	if v.cfg.ContinueOnFailure {
		v.log.Warningf("Continue on Failure for record validation is enabled, yet "+
			"processing will stop after %v encountered issues.", v.cfg.MaxNumErrors)
	}
	return nil
}

func (v *recordValidator) PostFunction(state executor.State, ctx *executor.Context) error {
	if ctx.Record == nil {
		return nil
	}
	err := ValidateRecord(ctx.Record)
	if err == nil {
		return nil
	}

	err = fmt.Errorf("invalid record of function %v in module %v; %w", ctx.Record.Function, state.ModuleName, err)

	if v.isErrFatal(err) {
		return err
	}

	return nil
}

func (v *recordValidator) PostRun(executor.State, *executor.Context, error) error {
	v.lock.Lock()
	defer v.lock.Unlock()

	// no errors occurred
	if len(v.errors) == 0 {
		v.log.Noticef("Validation successful!")
		return nil
	}

	v.log.Warningf("%v errors caught", len(v.errors))

	return errors.Join(v.errors...)
}

func (v *recordValidator) isErrFatal(err error) bool {
	v.lock.Lock()
	defer v.lock.Unlock()
	v.errors = append(v.errors, err)

	// ContinueOnFailure is disabled, return the error thus exit the program
	if !v.cfg.ContinueOnFailure {
		return true
	}

	v.log.Error(err)

	if v.cfg.MaxNumErrors > 0 && len(v.errors) >= v.cfg.MaxNumErrors {
		v.log.Critical("maximum number of errors occurred")
		return true
	}

	return false
}

// ValidateRecord checks that the ratios of a record lie in [0,1] and that
// they add up to one for records with dynamic instructions.
func ValidateRecord(r *instmix.Record) error {
	if r.DynOps < 0 || math.IsNaN(r.DynOps) || math.IsInf(r.DynOps, 0) {
		return fmt.Errorf("invalid number of dynamic instructions %v", r.DynOps)
	}
	sum := 0.0
	for _, c := range instmix.Categories {
		ratio := r.Ratio(c)
		if ratio < 0 || ratio > 1 || math.IsNaN(ratio) {
			return fmt.Errorf("ratio of %v out of range: %v", c, ratio)
		}
		sum += ratio
	}
	if r.DynOps == 0 {
		return nil
	}
	if math.Abs(sum-1) > RatioTolerance {
		return fmt.Errorf("ratios add up to %v instead of 1", sum)
	}
	return nil
}
