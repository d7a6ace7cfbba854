package executor

//go:generate mockgen -source executor.go -destination executor_mocks.go -package executor

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/instmix/instmix/ir"
	"github.com/instmix/instmix/profile/instmix"
	"github.com/instmix/instmix/utils"
)

// ----------------------------------------------------------------------------
//                             Interfaces
// ----------------------------------------------------------------------------

// Executor is an entity coordinating the analysis of the functions of a set
// of modules. It implements the decorator pattern, allowing extensions to
// monitor and annotate the execution at various hook-in points.
//
// When running sequentially, the general execution is structured as follows:
//
//	PreRun()
//	for each module {
//	   PreModule()
//	   for each function {
//	       PreFunction()
//	       Processor.Process(function)
//	       PostFunction()
//	   }
//	   PostModule()
//	}
//	PostRun()
//
// When running with multiple workers, the execution is structured like this:
//
//	PreRun()
//	for function in parallel {
//	    PreFunction()
//	    Processor.Process(function)
//	    PostFunction()
//	}
//	PostRun()
//
// Modules without functions only receive the PreModule() and PostModule()
// events. Note that there are no module boundary events in the parallel mode.
//
// Each PreXXX() and PostXXX() is a hook-in point at which extensions may
// track information and/or interfere with the execution. For more details on
// the specific call-backs see the Extension interface below.
type Executor interface {
	// Run feeds all functions of the provider to the given processor and
	// performs the needed call-backs on the provided extensions. If a
	// processor or an extension returns an error, execution stops with the
	// reported error.
	// PreXXX events are delivered to the extensions in the given order, while
	// PostXXX events are delivered in reverse order. If any of the extensions
	// reports an error during processing of an event, the same event is still
	// delivered to the remaining extensions before processing is aborted.
	Run(params Params, processor Processor, extensions []Extension) error
}

// NewExecutor creates a new executor based on the given function provider.
func NewExecutor(provider FunctionProvider) Executor {
	return &executor{provider}
}

// Params summarizes input parameters for a run of the executor.
type Params struct {
	// NumWorkers is the number of concurrent goroutines to be used to
	// process functions. If the number of workers is 1, functions are
	// guaranteed to be processed in-order. If it is > 1 no fixed order
	// is guaranteed. Any number <= 1 is considered to be 1, thus the default
	// value of 0 is valid.
	NumWorkers int
	// MaxNumFunctions limits the number of processed functions if positive.
	MaxNumFunctions int
}

// Processor is an interface for the entity to which an executor is feeding
// functions to.
type Processor interface {
	// Process is called on each function provided during an Executor run.
	// When running with multiple workers, the Process function is required
	// to be thread safe.
	Process(State, *Context) error
}

// Extension is an interface for modular annotations to the analysis of a
// set of functions. During various stages, methods of extensions are
// called, enabling them to monitor and/or interfere with the execution.
// Since functions may be processed in parallel, callbacks are generally
// required to be thread safe (with the exception of the Pre-/ and PostRun)
// callback.
type Extension interface {
	// PreRun is called before the begin of the execution, even if there
	// are no functions. For every run, PreRun is only called once, before
	// any other call-back. If an error is reported, execution will abort
	// after PreRun has been called on all registered Extensions.
	PreRun(State, *Context) error

	// PostRun is guaranteed to be called at the end of each execution. An
	// execution may end successfully, if no exception has been produced by
	// the Processor or any Extension, or in a failure state, if errors
	// have been produced. In an error case the state references the last
	// function attempted to be processed and the third parameter contains
	// the error causing the abort.
	PostRun(State, *Context, error) error

	// PreModule is called once before the first function of a module is
	// processed. This function is not called when running with multiple
	// workers.
	PreModule(State, *Context) error

	// PostModule is called once after the last function of a module was
	// processed. This function is not called when running with multiple
	// workers.
	PostModule(State, *Context) error

	// PreFunction is called once before each function with the state
	// listing the module and the function to be processed. When running
	// with multiple workers, this function may be called concurrently, and
	// must thus be thread safe.
	PreFunction(State, *Context) error

	// PostFunction is called once after each function. The context holds
	// the record produced by the processor. When running with multiple
	// workers, this function may be called concurrently, and must thus be
	// thread safe.
	PostFunction(State, *Context) error
}

// State summarizes the current state of an execution and is passed to
// Processors and Extensions as an input for their actions.
type State struct {
	// Module is the index of the current module, valid for all call-backs
	// except PreRun.
	Module int

	// ModuleName is the name of the current module.
	ModuleName string

	// Function is the index of the current function within its module. It
	// is only valid for Pre- and PostFunction events and for PostRun events
	// in case of an abort.
	Function int

	// Data is the function to be analysed. It is only valid for Pre- and
	// PostFunction events.
	Data *ir.Function

	// Profile provides block frequencies and branch probabilities for Data.
	Profile *ir.StaticProfile
}

// Context summarizes context data for the current execution and is passed
// as a mutable object to Processors and Extensions. Either may decide to
// modify its content to implement their respective features.
type Context struct {
	// Record is the instruction mix of the current function, set by the
	// processor and consumed in PostFunction.
	Record *instmix.Record

	// ErrorInput is used when continue-on-failure is enabled.
	ErrorInput chan error
}

// ----------------------------------------------------------------------------
//                               Implementations
// ----------------------------------------------------------------------------

var errLimitReached = errors.New("function limit reached")

type executor struct {
	provider FunctionProvider
}

func (e *executor) Run(params Params, processor Processor, extensions []Extension) (err error) {
	state := State{}
	context := Context{}

	defer func() {
		// Skip PostRun actions if a panic occurred. In such a case there is no guarantee
		// on the state of anything, and PostRun operations may deadlock or cause damage.
		if r := recover(); r != nil {
			panic(r) // just forward
		}
		err = errors.Join(
			err,
			signalPostRun(state, &context, err, extensions),
		)
	}()

	if err := signalPreRun(state, &context, extensions); err != nil {
		return err
	}

	if params.NumWorkers <= 1 {
		return e.runSequential(params, processor, extensions, &state, &context)
	}
	return e.runParallel(params, processor, extensions, &state, &context)
}

// forEachFunction runs the provider, stopping after MaxNumFunctions functions.
func (e *executor) forEachFunction(params Params, consumer FunctionConsumer) error {
	count := 0
	err := e.provider.Run(func(info FunctionInfo) error {
		if params.MaxNumFunctions > 0 && count >= params.MaxNumFunctions {
			return errLimitReached
		}
		if info.Data != nil {
			count++
		}
		return consumer(info)
	})
	if errors.Is(err, errLimitReached) {
		return nil
	}
	return err
}

func (e *executor) runSequential(params Params, processor Processor, extensions []Extension, state *State, context *Context) error {
	first := true
	err := e.forEachFunction(params, func(info FunctionInfo) error {
		if first {
			state.Module, state.ModuleName = info.Module, info.ModuleName
			if err := signalPreModule(*state, context, extensions); err != nil {
				return err
			}
			first = false
		} else if state.Module != info.Module {
			if err := signalPostModule(*state, context, extensions); err != nil {
				return err
			}
			state.Module, state.ModuleName = info.Module, info.ModuleName
			if err := signalPreModule(*state, context, extensions); err != nil {
				return err
			}
		}
		if info.Data == nil {
			return nil // module without functions
		}
		state.Function = info.Function
		return runFunction(*state, context, info, processor, extensions)
	})
	if err != nil {
		return err
	}

	// Finish final module.
	if !first {
		if err := signalPostModule(*state, context, extensions); err != nil {
			return err
		}
	}
	return nil
}

func (e *executor) runParallel(params Params, processor Processor, extensions []Extension, state *State, context *Context) error {
	numWorkers := params.NumWorkers

	// An event for signaling an abort of the execution.
	abort := utils.MakeEvent()

	// Start one go-routine forwarding functions from the provider to a local channel.
	var forwardErr error
	functions := make(chan *FunctionInfo, 10*numWorkers)
	go func() {
		defer close(functions)
		abortErr := errors.New("aborted")
		err := e.forEachFunction(params, func(info FunctionInfo) error {
			if info.Data == nil {
				return nil
			}
			select {
			case functions <- &info:
				return nil
			case <-abort.Wait():
				return abortErr
			}
		})
		if err != abortErr {
			forwardErr = err
		}
	}()

	// Start numWorkers go-routines processing functions in parallel.
	var cachedPanic atomic.Value
	var wg sync.WaitGroup
	wg.Add(numWorkers)
	workerErrs := make([]error, numWorkers)
	for i := 0; i < numWorkers; i++ {
		go func(i int) {
			// channel panics back to the main thread.
			defer func() {
				if r := recover(); r != nil {
					abort.Signal() // stop forwarder and other workers too
					cachedPanic.Store(r)
				}
			}()
			defer wg.Done()
			for {
				select {
				case info := <-functions:
					if info == nil {
						return // reached an end without abort
					}
					localState := *state
					localState.Module = info.Module
					localState.ModuleName = info.ModuleName
					localState.Function = info.Function
					localContext := *context
					if err := runFunction(localState, &localContext, *info, processor, extensions); err != nil {
						workerErrs[i] = err
						abort.Signal()
						return
					}
				case <-abort.Wait():
					return
				}
			}
		}(i)
	}
	wg.Wait()

	if r := cachedPanic.Load(); r != nil {
		panic(r)
	}

	return errors.Join(
		forwardErr,
		errors.Join(workerErrs...),
	)
}

func runFunction(state State, context *Context, info FunctionInfo, processor Processor, extensions []Extension) error {
	state.Data = info.Data
	state.Profile = info.Profile
	context.Record = nil
	if err := signalPreFunction(state, context, extensions); err != nil {
		return err
	}
	if err := processor.Process(state, context); err != nil {
		return err
	}
	if err := signalPostFunction(state, context, extensions); err != nil {
		return err
	}
	return nil
}

func signalPreRun(state State, context *Context, extensions []Extension) error {
	return forEachForward(extensions, func(extension Extension) error {
		return extension.PreRun(state, context)
	})
}

func signalPostRun(state State, context *Context, err error, extensions []Extension) error {
	return forEachBackward(extensions, func(extension Extension) error {
		return extension.PostRun(state, context, err)
	})
}

func signalPreModule(state State, context *Context, extensions []Extension) error {
	return forEachForward(extensions, func(extension Extension) error {
		return extension.PreModule(state, context)
	})
}

func signalPostModule(state State, context *Context, extensions []Extension) error {
	return forEachBackward(extensions, func(extension Extension) error {
		return extension.PostModule(state, context)
	})
}

func signalPreFunction(state State, context *Context, extensions []Extension) error {
	return forEachForward(extensions, func(extension Extension) error {
		return extension.PreFunction(state, context)
	})
}

func signalPostFunction(state State, context *Context, extensions []Extension) error {
	return forEachBackward(extensions, func(extension Extension) error {
		return extension.PostFunction(state, context)
	})
}

func forEachForward(extensions []Extension, op func(extension Extension) error) error {
	errs := []error{}
	for _, extension := range extensions {
		if err := op(extension); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func forEachBackward(extensions []Extension, op func(extension Extension) error) error {
	errs := []error{}
	for i := len(extensions) - 1; i >= 0; i-- {
		if err := op(extensions[i]); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
