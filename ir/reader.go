package ir

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dsnet/compress/bzip2"
	"github.com/klauspost/compress/gzip"
)

// ReaderBufferSize is the size of the read buffer for module files.
const ReaderBufferSize = 1 << 20 // 1MiB

var (
	gzipMagic  = []byte{0x1f, 0x8b}
	bzip2Magic = []byte("BZh")
)

var (
	ErrNoFunctionName   = errors.New("function without name")
	ErrDuplicateName    = errors.New("duplicate function name")
	ErrDuplicateLabel   = errors.New("duplicate block label")
	ErrUnknownSuccessor = errors.New("unknown successor label")
	ErrBadProbability   = errors.New("invalid branch probability")
)

// moduleJSON is the on-disk representation of a module.
type moduleJSON struct {
	Module    string         `json:"module"`
	Functions []functionJSON `json:"functions"`
}

type functionJSON struct {
	Name   string      `json:"name"`
	Blocks []blockJSON `json:"blocks"`
}

type blockJSON struct {
	Label        string          `json:"label"`
	Count        *uint64         `json:"count,omitempty"` // absent if the block frequency is unknown
	Instructions []string        `json:"instructions"`
	Successors   []successorJSON `json:"successors,omitempty"`
}

type successorJSON struct {
	Label       string  `json:"label"`
	Numerator   *uint32 `json:"numerator,omitempty"`
	Denominator *uint32 `json:"denominator,omitempty"`
}

// ReadModule reads a module file. Files may be gzip or bzip2 compressed;
// the compression is detected from the content. If the file does not name
// its module, the file name without extensions is used.
func ReadModule(path string) (*Module, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open module file; %v", err)
	}
	defer file.Close()

	r, closer, err := newDecompressingReader(bufio.NewReaderSize(file, ReaderBufferSize))
	if err != nil {
		return nil, fmt.Errorf("cannot open compressed stream of %v; %v", path, err)
	}
	defer closer()

	m, err := DecodeModule(r)
	if err != nil {
		return nil, fmt.Errorf("cannot decode %v; %w", path, err)
	}
	if m.Name == "" {
		m.Name = moduleNameFromPath(path)
	}
	return m, nil
}

// newDecompressingReader wraps r into a gzip or bzip2 reader if the stream
// starts with the respective magic bytes.
func newDecompressingReader(r *bufio.Reader) (io.Reader, func() error, error) {
	head, _ := r.Peek(len(bzip2Magic))
	switch {
	case bytes.HasPrefix(head, gzipMagic):
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, nil, err
		}
		return zr, zr.Close, nil
	case bytes.HasPrefix(head, bzip2Magic):
		zr, err := bzip2.NewReader(r, &bzip2.ReaderConfig{})
		if err != nil {
			return nil, nil, err
		}
		return zr, zr.Close, nil
	}
	return r, func() error { return nil }, nil
}

func moduleNameFromPath(path string) string {
	name := filepath.Base(path)
	for _, ext := range []string{".gz", ".bz2", ".json"} {
		name = strings.TrimSuffix(name, ext)
	}
	return name
}

// DecodeModule decodes and validates an uncompressed JSON module.
func DecodeModule(r io.Reader) (*Module, error) {
	var in moduleJSON
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return nil, err
	}

	profile := NewStaticProfile()
	functions := make([]*Function, 0, len(in.Functions))
	names := map[string]struct{}{}
	for i := range in.Functions {
		fn, err := buildFunction(&in.Functions[i], profile)
		if err != nil {
			return nil, err
		}
		if _, found := names[fn.Name]; found {
			return nil, fmt.Errorf("%w: %v", ErrDuplicateName, fn.Name)
		}
		names[fn.Name] = struct{}{}
		functions = append(functions, fn)
	}
	return NewModule(in.Module, functions, profile), nil
}

// buildFunction resolves block labels of a decoded function and records its
// profile data.
func buildFunction(in *functionJSON, profile *StaticProfile) (*Function, error) {
	if in.Name == "" {
		return nil, ErrNoFunctionName
	}
	fn := &Function{Name: in.Name, Blocks: make([]*BasicBlock, 0, len(in.Blocks))}
	byLabel := make(map[string]*BasicBlock, len(in.Blocks))
	for _, b := range in.Blocks {
		if _, found := byLabel[b.Label]; found {
			return nil, fmt.Errorf("%w: %v in function %v", ErrDuplicateLabel, b.Label, fn.Name)
		}
		block := &BasicBlock{Label: b.Label, Instructions: make([]Instruction, 0, len(b.Instructions))}
		for _, op := range b.Instructions {
			block.Instructions = append(block.Instructions, Instruction{Opcode: op})
		}
		byLabel[b.Label] = block
		fn.Blocks = append(fn.Blocks, block)
		if b.Count != nil {
			profile.SetBlockFrequency(block, *b.Count)
		}
	}

	for i, b := range in.Blocks {
		block := fn.Blocks[i]
		explicit := 0
		probs := map[*BasicBlock]BranchProbability{}
		for _, s := range b.Successors {
			succ, found := byLabel[s.Label]
			if !found {
				return nil, fmt.Errorf("%w: %v in block %v of function %v", ErrUnknownSuccessor, s.Label, block.Label, fn.Name)
			}
			block.Successors = append(block.Successors, succ)
			if s.Numerator == nil && s.Denominator == nil {
				continue
			}
			explicit++
			prob, err := successorProbability(s)
			if err != nil {
				return nil, fmt.Errorf("edge %v -> %v of function %v; %w", block.Label, s.Label, fn.Name, err)
			}
			if prev, found := probs[succ]; found {
				if prob, err = prev.Add(prob); err != nil {
					return nil, fmt.Errorf("%w: edge %v -> %v of function %v; %v", ErrBadProbability, block.Label, s.Label, fn.Name, err)
				}
			}
			probs[succ] = prob
		}
		if explicit != 0 && explicit != len(b.Successors) {
			return nil, fmt.Errorf("%w: block %v of function %v mixes edges with and without probability", ErrBadProbability, block.Label, fn.Name)
		}
		for succ, prob := range probs {
			profile.SetEdgeProbability(block, succ, prob)
		}
	}
	return fn, nil
}

func successorProbability(s successorJSON) (BranchProbability, error) {
	if s.Numerator == nil || s.Denominator == nil {
		return BranchProbability{}, fmt.Errorf("%w: numerator and denominator are required", ErrBadProbability)
	}
	prob := NewBranchProbability(*s.Numerator, *s.Denominator)
	if !prob.IsValid() {
		return BranchProbability{}, fmt.Errorf("%w: %v", ErrBadProbability, prob)
	}
	return prob, nil
}
