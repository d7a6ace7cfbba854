package ir

import "fmt"

// FunctionBuilder assembles a function and its profile block by block.
// It is mainly intended for tests and examples:
//
//	fn, profile := ir.NewFunctionBuilder("f").
//		Block("entry", "icmp", "br").Count("entry", 5).
//		Block("then", "ret").
//		Block("else", "ret").
//		Edge("entry", "then", 1, 2).
//		Edge("entry", "else", 1, 2).
//		MustBuild()
type FunctionBuilder struct {
	fn      *Function
	profile *StaticProfile
	err     error
}

// NewFunctionBuilder starts a new function with the given name.
func NewFunctionBuilder(name string) *FunctionBuilder {
	return &FunctionBuilder{
		fn:      &Function{Name: name},
		profile: NewStaticProfile(),
	}
}

// Block appends a block with the given opcodes.
func (fb *FunctionBuilder) Block(label string, opcodes ...string) *FunctionBuilder {
	if fb.fn.Block(label) != nil {
		fb.fail(fmt.Errorf("%w: %v", ErrDuplicateLabel, label))
		return fb
	}
	block := &BasicBlock{Label: label}
	for _, op := range opcodes {
		block.Instructions = append(block.Instructions, Instruction{Opcode: op})
	}
	fb.fn.Blocks = append(fb.fn.Blocks, block)
	return fb
}

// Count sets the execution count of a block.
func (fb *FunctionBuilder) Count(label string, count uint64) *FunctionBuilder {
	if block := fb.lookup(label); block != nil {
		fb.profile.SetBlockFrequency(block, count)
	}
	return fb
}

// Succ appends successors without explicit probabilities.
func (fb *FunctionBuilder) Succ(from string, to ...string) *FunctionBuilder {
	src := fb.lookup(from)
	for _, label := range to {
		if dst := fb.lookup(label); src != nil && dst != nil {
			src.Successors = append(src.Successors, dst)
		}
	}
	return fb
}

// Edge appends a successor with probability numerator/denominator. Repeated
// edges between the same blocks accumulate their probabilities.
func (fb *FunctionBuilder) Edge(from, to string, numerator, denominator uint32) *FunctionBuilder {
	src, dst := fb.lookup(from), fb.lookup(to)
	if src == nil || dst == nil {
		return fb
	}
	src.Successors = append(src.Successors, dst)
	prob := NewBranchProbability(numerator, denominator)
	if prev, found := fb.profile.edges[Edge{src, dst}]; found {
		sum, err := prev.Add(prob)
		if err != nil {
			fb.fail(fmt.Errorf("%w: edge %v -> %v of function %v; %v", ErrBadProbability, from, to, fb.fn.Name, err))
			return fb
		}
		prob = sum
	}
	fb.profile.SetEdgeProbability(src, dst, prob)
	return fb
}

// Build returns the function and its profile or the first error encountered.
func (fb *FunctionBuilder) Build() (*Function, *StaticProfile, error) {
	if fb.err != nil {
		return nil, nil, fb.err
	}
	return fb.fn, fb.profile, nil
}

// MustBuild is like Build but panics on error.
func (fb *FunctionBuilder) MustBuild() (*Function, *StaticProfile) {
	fn, profile, err := fb.Build()
	if err != nil {
		panic(err)
	}
	return fn, profile
}

func (fb *FunctionBuilder) lookup(label string) *BasicBlock {
	block := fb.fn.Block(label)
	if block == nil {
		fb.fail(fmt.Errorf("%w: %v", ErrUnknownSuccessor, label))
	}
	return block
}

func (fb *FunctionBuilder) fail(err error) {
	if fb.err == nil {
		fb.err = err
	}
}
