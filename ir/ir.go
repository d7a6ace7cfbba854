// Package ir holds the control-flow graph representation analysed by the
// instruction mix profiler, together with the profile data (block counts and
// branch probabilities) recorded for it.
package ir

import (
	"fmt"
	"math"
)

// Instruction is a single IR instruction identified by its opcode name.
type Instruction struct {
	Opcode string
}

// BasicBlock is a straight-line sequence of instructions with an ordered
// list of successor blocks. Duplicate successors are legal (e.g. several
// switch cases branching to the same block).
type BasicBlock struct {
	Label        string
	Instructions []Instruction
	Successors   []*BasicBlock
}

// String returns the label of the block.
func (b *BasicBlock) String() string {
	return b.Label
}

// Function is an ordered collection of basic blocks. The first block is the
// entry block.
type Function struct {
	Name   string
	Blocks []*BasicBlock
}

// Block returns the block with the given label or nil if there is none.
func (f *Function) Block(label string) *BasicBlock {
	for _, b := range f.Blocks {
		if b.Label == label {
			return b
		}
	}
	return nil
}

// NumInstructions returns the static number of instructions of a function.
func (f *Function) NumInstructions() int {
	n := 0
	for _, b := range f.Blocks {
		n += len(b.Instructions)
	}
	return n
}

// Module is a named collection of functions read from one input file.
type Module struct {
	Name      string
	Functions []*Function
	profile   *StaticProfile
}

// NewModule creates a module over the given functions and profile data.
func NewModule(name string, functions []*Function, profile *StaticProfile) *Module {
	if profile == nil {
		profile = NewStaticProfile()
	}
	return &Module{Name: name, Functions: functions, profile: profile}
}

// Function returns the function with the given name or nil if there is none.
func (m *Module) Function(name string) *Function {
	for _, f := range m.Functions {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// Profile returns the block counts and edge probabilities recorded for the module.
func (m *Module) Profile() *StaticProfile {
	return m.profile
}

// BranchProbability is the probability of taking a control-flow edge,
// expressed as a rational number.
type BranchProbability struct {
	Numerator   uint32
	Denominator uint32
}

// NewBranchProbability returns numerator/denominator as a branch probability.
func NewBranchProbability(numerator, denominator uint32) BranchProbability {
	return BranchProbability{Numerator: numerator, Denominator: denominator}
}

// Float64 returns the probability as a real number; zero for a zero denominator.
func (p BranchProbability) Float64() float64 {
	if p.Denominator == 0 {
		return 0
	}
	return float64(p.Numerator) / float64(p.Denominator)
}

// IsValid reports whether the probability lies in [0,1] and has a non-zero denominator.
func (p BranchProbability) IsValid() bool {
	return p.Denominator != 0 && p.Numerator <= p.Denominator
}

// Add sums two probabilities over their least common denominator. It fails
// if the result cannot be represented with 32-bit numerator and denominator.
func (p BranchProbability) Add(q BranchProbability) (BranchProbability, error) {
	if p.Denominator == q.Denominator {
		sum := uint64(p.Numerator) + uint64(q.Numerator)
		if sum > math.MaxUint32 {
			return BranchProbability{}, fmt.Errorf("probability %v + %v overflows", p, q)
		}
		return BranchProbability{uint32(sum), p.Denominator}, nil
	}
	if p.Denominator == 0 || q.Denominator == 0 {
		return BranchProbability{}, fmt.Errorf("cannot add probabilities %v and %v", p, q)
	}
	a, b := uint64(p.Denominator), uint64(q.Denominator)
	lcm := a / gcd(a, b) * b
	num := uint64(p.Numerator)*(lcm/a) + uint64(q.Numerator)*(lcm/b)
	if lcm > math.MaxUint32 || num > math.MaxUint32 {
		return BranchProbability{}, fmt.Errorf("probability %v + %v overflows", p, q)
	}
	return BranchProbability{uint32(num), uint32(lcm)}, nil
}

// String returns the probability as a fraction.
func (p BranchProbability) String() string {
	return fmt.Sprintf("%d/%d", p.Numerator, p.Denominator)
}

func gcd(a, b uint64) uint64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
