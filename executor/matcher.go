package executor

import (
	"errors"
	"fmt"

	"github.com/instmix/instmix/ir"
	gomock "go.uber.org/mock/gomock"
)

// ----------------------------------------------------------------------------
//                                   Matcher
// ----------------------------------------------------------------------------

// AtModule matches executor.State instances with the given module.
func AtModule(module int) gomock.Matcher {
	return atModule{module}
}

// AtFunction matches executor.State instances with the given module and
// function index.
func AtFunction(module int, function int) gomock.Matcher {
	return atFunction{module, function}
}

// WithFunction matches executor.State instances carrying the given function.
func WithFunction(fn *ir.Function) gomock.Matcher {
	return withFunction{fn}
}

// WithRecordOf matches executor.Context instances holding a record of the
// named function.
func WithRecordOf(name string) gomock.Matcher {
	return withRecordOf{name}
}

// Lt matches every value less than the given limit.
func Lt(limit float64) gomock.Matcher {
	return lt{limit}
}

// Gt matches every value greater than the given limit.
func Gt(limit float64) gomock.Matcher {
	return gt{limit}
}

// ----------------------------------------------------------------------------

type atModule struct {
	expectedModule int
}

func (m atModule) Matches(value any) bool {
	state, ok := value.(State)
	return ok && state.Module == m.expectedModule
}

func (m atModule) String() string {
	return fmt.Sprintf("at module %d", m.expectedModule)
}

type atFunction struct {
	expectedModule   int
	expectedFunction int
}

func (m atFunction) Matches(value any) bool {
	state, ok := value.(State)
	return ok && state.Module == m.expectedModule && state.Function == m.expectedFunction
}

func (m atFunction) String() string {
	return fmt.Sprintf("at function %d/%d", m.expectedModule, m.expectedFunction)
}

type withFunction struct {
	fn *ir.Function
}

func (m withFunction) Matches(value any) bool {
	state, ok := value.(State)
	return ok && state.Data == m.fn
}

func (m withFunction) String() string {
	return fmt.Sprintf("with function %p", m.fn)
}

type withRecordOf struct {
	name string
}

func (m withRecordOf) Matches(value any) bool {
	if ctx, ok := value.(*Context); ok {
		return ctx.Record != nil && ctx.Record.Function == m.name
	}
	if ctx, ok := value.(Context); ok {
		return ctx.Record != nil && ctx.Record.Function == m.name
	}
	return false
}

func (m withRecordOf) String() string {
	return fmt.Sprintf("with record of %v", m.name)
}

func WithError(err error) gomock.Matcher {
	return withError{err}
}

type withError struct {
	err error
}

func (m withError) Matches(value any) bool {
	err, ok := value.(error)
	return ok && errors.Is(err, m.err)
}

func (m withError) String() string {
	return fmt.Sprintf("with error %v", m.err)
}

type lt struct {
	limit float64
}

func (m lt) Matches(value any) bool {
	v, ok := value.(float64)
	return ok && v < m.limit
}

func (m lt) String() string {
	return fmt.Sprintf("less than %v", m.limit)
}

type gt struct {
	limit float64
}

func (m gt) Matches(value any) bool {
	v, ok := value.(float64)
	return ok && v > m.limit
}

func (m gt) String() string {
	return fmt.Sprintf("greater than %v", m.limit)
}

// ----------------------------------------------------------------------------

func MatchRate(constraint gomock.Matcher, name string) gomock.Matcher {
	return matchRate{constraint, name}
}

type matchRate struct {
	constraint gomock.Matcher
	name       string
}

func (m matchRate) Matches(value any) bool {
	rate, ok := value.(float64)
	return ok && m.constraint.Matches(rate)
}

func (m matchRate) String() string {
	return fmt.Sprintf("log should have a %v that is %v", m.name, m.constraint)
}
