// Package instmix computes the weighted instruction mix of a function: every
// instruction is classified into one of six categories and weighted by the
// estimated execution frequency of its basic block.
package instmix

// Category is one of the instruction categories reported in an instruction mix.
type Category int

const (
	IntegerALU Category = iota
	FloatingPointALU
	Memory
	BiasedBranch
	UnbiasedBranch
	Other

	NumCategories = int(Other) + 1
)

// Categories lists all categories in report order.
var Categories = [NumCategories]Category{
	IntegerALU, FloatingPointALU, Memory, BiasedBranch, UnbiasedBranch, Other,
}

var categoryNames = [NumCategories]string{
	IntegerALU:       "I_ALU",
	FloatingPointALU: "FP_ALU",
	Memory:           "Mem",
	BiasedBranch:     "Biased",
	UnbiasedBranch:   "Unbiased",
	Other:            "Other",
}

func (c Category) String() string {
	if c < 0 || int(c) >= NumCategories {
		return "unknown"
	}
	return categoryNames[c]
}

// OpClass is the class of an opcode as seen by the classifier. Control
// opcodes are resolved into biased or unbiased branches per block.
type OpClass int

const (
	OtherOp OpClass = iota
	ControlOp
	IntegerALUOp
	FloatingPointALUOp
	MemoryOp
)

// Category returns the instruction category of a non-control class.
func (c OpClass) Category() Category {
	switch c {
	case IntegerALUOp:
		return IntegerALU
	case FloatingPointALUOp:
		return FloatingPointALU
	case MemoryOp:
		return Memory
	}
	return Other
}

func (c OpClass) String() string {
	switch c {
	case ControlOp:
		return "control"
	case IntegerALUOp:
		return "integer-alu"
	case FloatingPointALUOp:
		return "fp-alu"
	case MemoryOp:
		return "memory"
	}
	return "other"
}

var opClasses = map[string]OpClass{
	"br":         ControlOp,
	"switch":     ControlOp,
	"indirectbr": ControlOp,

	"add":  IntegerALUOp,
	"sub":  IntegerALUOp,
	"mul":  IntegerALUOp,
	"udiv": IntegerALUOp,
	"sdiv": IntegerALUOp,
	"urem": IntegerALUOp,
	"srem": IntegerALUOp,
	"shl":  IntegerALUOp,
	"lshr": IntegerALUOp,
	"ashr": IntegerALUOp,
	"and":  IntegerALUOp,
	"or":   IntegerALUOp,
	"xor":  IntegerALUOp,
	"icmp": IntegerALUOp,

	"fadd": FloatingPointALUOp,
	"fsub": FloatingPointALUOp,
	"fmul": FloatingPointALUOp,
	"fdiv": FloatingPointALUOp,
	"frem": FloatingPointALUOp,
	"fcmp": FloatingPointALUOp,

	"alloca":        MemoryOp,
	"load":          MemoryOp,
	"store":         MemoryOp,
	"getelementptr": MemoryOp,
	"fence":         MemoryOp,
	"atomiccmpxchg": MemoryOp,
	"atomicrmw":     MemoryOp,
}

// Classify returns the class of an opcode. Unknown opcodes are OtherOp.
func Classify(opcode string) OpClass {
	return opClasses[opcode]
}
