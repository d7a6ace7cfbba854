package ir

// Edge is a control-flow edge between two blocks of the same function.
type Edge struct {
	From *BasicBlock
	To   *BasicBlock
}

// StaticProfile stores block execution counts and edge probabilities
// recorded for a set of functions. It answers the frequency and
// probability queries of the instruction mix profiler.
//
// A StaticProfile is read-only after loading and safe for concurrent use.
type StaticProfile struct {
	counts map[*BasicBlock]uint64
	edges  map[Edge]BranchProbability
}

// NewStaticProfile returns an empty profile. All blocks have unknown
// frequency and all edges of a block are equally likely.
func NewStaticProfile() *StaticProfile {
	return &StaticProfile{
		counts: map[*BasicBlock]uint64{},
		edges:  map[Edge]BranchProbability{},
	}
}

// SetBlockFrequency records the execution count of a block.
func (p *StaticProfile) SetBlockFrequency(block *BasicBlock, count uint64) {
	p.counts[block] = count
}

// SetEdgeProbability records the probability of the edge from -> to.
func (p *StaticProfile) SetEdgeProbability(from, to *BasicBlock, prob BranchProbability) {
	p.edges[Edge{from, to}] = prob
}

// BlockFrequency returns the execution count of a block; ok is false if the
// count of the block is unknown.
func (p *StaticProfile) BlockFrequency(block *BasicBlock) (count uint64, ok bool) {
	count, ok = p.counts[block]
	return count, ok
}

// EdgeProbability returns the probability of the edge from -> to. Edges
// without recorded probability share the probability mass uniformly over
// the successor slots of the source block; a block listed k times among n
// successors gets k/n. Blocks which are no successor get probability zero.
func (p *StaticProfile) EdgeProbability(from, to *BasicBlock) BranchProbability {
	if prob, ok := p.edges[Edge{from, to}]; ok {
		return prob
	}
	n := len(from.Successors)
	if n == 0 {
		return BranchProbability{0, 1}
	}
	k := 0
	for _, succ := range from.Successors {
		if succ == to {
			k++
		}
	}
	return BranchProbability{uint32(k), uint32(n)}
}
