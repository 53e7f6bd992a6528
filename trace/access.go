// Package trace reads memory access traces in the valgrind-lackey text
// format.
package trace

// Kind is the type of operation that a trace record describes.
type Kind byte

// The four record kinds that can appear in a trace.
const (
	Instruction Kind = iota
	Load
	Store
	Modify
)

func (k Kind) String() string {
	switch k {
	case Instruction:
		return "I"
	case Load:
		return "L"
	case Store:
		return "S"
	case Modify:
		return "M"
	}

	return "?"
}

// An Access is one parsed record of a memory trace. Size is carried for
// reporting only and never influences cache state.
type Access struct {
	Kind    Kind
	Address uint64
	Size    int
}
