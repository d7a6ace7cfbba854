package executor

//go:generate mockgen -source provider.go -destination provider_mocks.go -package executor

import "github.com/instmix/instmix/ir"

// FunctionProvider is an entity feeding the functions of a sequence of
// modules to a consumer. Functions are delivered grouped by module, in the
// order in which modules and functions are listed. A module without
// functions is delivered as a single FunctionInfo without Data.
type FunctionProvider interface {
	// Run iterates through all functions and forwards them to the provided
	// consumer. Execution aborts if the consumer returns an error or an
	// error during the retrieval of a module occurred.
	Run(consumer FunctionConsumer) error
	// Close releases resources held by the provider implementation. After
	// this no more operations are allowed on the same instance.
	Close()
}

// FunctionConsumer is a type alias for the type of function to which
// function information can be forwarded by a FunctionProvider.
type FunctionConsumer func(FunctionInfo) error

// FunctionInfo summarizes the per-function information provided by a
// FunctionProvider.
type FunctionInfo struct {
	Module     int
	ModuleName string
	Function   int
	Data       *ir.Function
	Profile    *ir.StaticProfile
}
