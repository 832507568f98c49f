package types

import (
	"strings"
)

// Kind classifies a BraneScript data type.
type Kind uint8

const (
	// Any is the top type: everything is assignable to and from it.
	Any Kind = iota
	// Void is the absence of a value (function with no return).
	Void
	Bool
	Int
	Real
	String
	// Array is a homogeneous array; Elem holds the element type.
	Array
	// Data is a reference to a remote dataset.
	Data
	// Func is a callable; see Signature.
	Func
)

// Type is a BraneScript data type. Scalars share static instances; arrays
// allocate a node per element type.
type Type struct {
	Kind Kind
	Elem *Type // set for Array
}

var (
	AnyType    = &Type{Kind: Any}
	VoidType   = &Type{Kind: Void}
	BoolType   = &Type{Kind: Bool}
	IntType    = &Type{Kind: Int}
	RealType   = &Type{Kind: Real}
	StringType = &Type{Kind: String}
	DataType   = &Type{Kind: Data}
)

// ArrayOf builds an array type over elem.
func ArrayOf(elem *Type) *Type {
	return &Type{Kind: Array, Elem: elem}
}

func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	switch t.Kind {
	case Any:
		return "Any"
	case Void:
		return "Void"
	case Bool:
		return "Bool"
	case Int:
		return "Int"
	case Real:
		return "Real"
	case String:
		return "String"
	case Array:
		return "[" + t.Elem.String() + "]"
	case Data:
		return "Data"
	case Func:
		return "Func"
	}
	return "<unknown>"
}

// Equals reports structural equality.
func (t *Type) Equals(other *Type) bool {
	if t == nil || other == nil {
		return t == other
	}
	if t.Kind != other.Kind {
		return false
	}
	if t.Kind == Array {
		return t.Elem.Equals(other.Elem)
	}
	return true
}

// AssignableTo reports whether a value of type t may bind to target. Any
// absorbs and produces everything; Int widens to Real.
func (t *Type) AssignableTo(target *Type) bool {
	if t == nil || target == nil {
		return false
	}
	if t.Kind == Any || target.Kind == Any {
		return true
	}
	if t.Kind == Int && target.Kind == Real {
		return true
	}
	if t.Kind == Array && target.Kind == Array {
		return t.Elem.AssignableTo(target.Elem)
	}
	return t.Kind == target.Kind
}

// ByName maps a type annotation spelled in source to a type.
func ByName(name string) (*Type, bool) {
	switch name {
	case "Any":
		return AnyType, true
	case "Void":
		return VoidType, true
	case "Bool":
		return BoolType, true
	case "Int":
		return IntType, true
	case "Real":
		return RealType, true
	case "String":
		return StringType, true
	case "Data":
		return DataType, true
	default:
		return nil, false
	}
}

// Parse decodes a type spelling produced by String, e.g. "Int" or "[[Real]]".
// Unknown spellings decode to Any so stale documents stay readable.
func Parse(s string) *Type {
	if strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") {
		return ArrayOf(Parse(s[1 : len(s)-1]))
	}
	if t, ok := ByName(s); ok {
		return t
	}
	return AnyType
}

// Signature describes a callable: parameter types and the return type.
type Signature struct {
	Params []*Type
	Ret    *Type
}

func (s *Signature) String() string {
	if s == nil {
		return "func(?)"
	}
	var b strings.Builder
	b.WriteString("func(")
	for i, p := range s.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.String())
	}
	b.WriteString(") -> ")
	if s.Ret == nil {
		b.WriteString("Void")
	} else {
		b.WriteString(s.Ret.String())
	}
	return b.String()
}
