package extension

import "github.com/instmix/instmix/executor"

// NilExtension is an extension ignoring all events. It is intended to be
// embedded by extensions interested in a subset of the events only.
type NilExtension struct{}

func (NilExtension) PreRun(executor.State, *executor.Context) error         { return nil }
func (NilExtension) PostRun(executor.State, *executor.Context, error) error { return nil }
func (NilExtension) PreModule(executor.State, *executor.Context) error      { return nil }
func (NilExtension) PostModule(executor.State, *executor.Context) error     { return nil }
func (NilExtension) PreFunction(executor.State, *executor.Context) error    { return nil }
func (NilExtension) PostFunction(executor.State, *executor.Context) error   { return nil }
