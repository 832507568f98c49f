package wir

// EdgeKind tags the variant of a graph edge.
type EdgeKind string

const (
	// EdgeLinear runs a straight-line instruction list.
	EdgeLinear EdgeKind = "linear"
	// EdgeNode executes one remote task; arguments are on the stack.
	EdgeNode EdgeKind = "node"
	// EdgeBranch pops a Bool and picks one of two successors.
	EdgeBranch EdgeKind = "branch"
	// EdgeLoop marks a loop head; Cond, Body and Exit point into the chain.
	EdgeLoop EdgeKind = "loop"
	// EdgeCall invokes a workflow-local function by table index.
	EdgeCall EdgeKind = "call"
	// EdgeReturn leaves the current function, return value on the stack.
	EdgeReturn EdgeKind = "return"
	// EdgeStop terminates the workflow.
	EdgeStop EdgeKind = "stop"
)

// NoEdge marks an unused or absent edge link.
const NoEdge = -1

// Edge is one element of a function's edge chain. Link fields are indices
// into the same chain; fields that do not apply to the kind hold NoEdge.
type Edge struct {
	Kind   EdgeKind `json:"kind"`
	Instrs []Instr  `json:"instrs,omitempty"`

	// Task indexes Table.Tasks (node edges); Func indexes Table.Funcs (call
	// edges).
	Task int `json:"task"`
	Func int `json:"func"`

	Next  int `json:"next"`
	True  int `json:"true"`
	False int `json:"false"`
	Cond  int `json:"cond"`
	Body  int `json:"body"`
	Exit  int `json:"exit"`
}

// Op names one stack-machine instruction inside a linear edge.
type Op string

const (
	OpPushBool Op = "push.bool"
	OpPushInt  Op = "push.int"
	OpPushReal Op = "push.real"
	OpPushStr  Op = "push.str"
	OpPushNull Op = "push.null"

	// OpData pushes a reference to a named remote dataset.
	OpData Op = "data"

	OpVarDecl Op = "var.decl"
	OpVarSet  Op = "var.set"
	OpVarGet  Op = "var.get"
	OpPop     Op = "pop"

	OpNeg Op = "neg"
	OpNot Op = "not"
	OpAdd Op = "add"
	OpSub Op = "sub"
	OpMul Op = "mul"
	OpDiv Op = "div"
	OpMod Op = "mod"
	OpEq  Op = "eq"
	OpNe  Op = "ne"
	OpLt  Op = "lt"
	OpLe  Op = "le"
	OpGt  Op = "gt"
	OpGe  Op = "ge"
	OpAnd Op = "and"
	OpOr  Op = "or"

	// OpArray pops Count elements and pushes an array.
	OpArray Op = "array"
	// OpIndex pops an index and an array and pushes the element.
	OpIndex Op = "index"

	// OpBuiltin invokes an engine builtin by name; Count is its arity.
	OpBuiltin Op = "builtin"
)

// Instr is one instruction; only the fields the op needs are populated, the
// rest stay at their zero value and are omitted from the document.
type Instr struct {
	Op    Op      `json:"op"`
	Bool  bool    `json:"bool,omitempty"`
	Int   int64   `json:"int,omitempty"`
	Real  float64 `json:"real,omitempty"`
	Str   string  `json:"str,omitempty"`
	Var   string  `json:"var,omitempty"`
	Count int     `json:"count,omitempty"`
}

// newEdge builds an edge with every link field cleared to NoEdge.
func newEdge(kind EdgeKind) Edge {
	return Edge{
		Kind:  kind,
		Task:  NoEdge,
		Func:  NoEdge,
		Next:  NoEdge,
		True:  NoEdge,
		False: NoEdge,
		Cond:  NoEdge,
		Body:  NoEdge,
		Exit:  NoEdge,
	}
}
