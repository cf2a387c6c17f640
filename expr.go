package uncertain

import "math"

// Operand is anything an expression can be built from: a Value leaf or a
// previously composed Expr.
type Operand interface {
	node() *Expr
}

type nodeKind int

const (
	kindLeaf nodeKind = iota
	kindConst
	kindAdd
	kindSub
	kindMul
	kindDiv
	kindPow
	kindNeg
	kindFunc
)

// UnaryFunc identifies a per-trial unary function node.
type UnaryFunc int

const (
	FuncExp UnaryFunc = iota
	FuncLog
	FuncSqrt
	FuncSin
	FuncCos
	FuncTan
	FuncAbs
)

// String returns the wire name of the function.
func (f UnaryFunc) String() string {
	switch f {
	case FuncExp:
		return "exp"
	case FuncLog:
		return "log"
	case FuncSqrt:
		return "sqrt"
	case FuncSin:
		return "sin"
	case FuncCos:
		return "cos"
	case FuncTan:
		return "tan"
	default:
		return "abs"
	}
}

func (f UnaryFunc) apply(x float64) float64 {
	switch f {
	case FuncExp:
		return math.Exp(x)
	case FuncLog:
		return math.Log(x)
	case FuncSqrt:
		return math.Sqrt(x)
	case FuncSin:
		return math.Sin(x)
	case FuncCos:
		return math.Cos(x)
	case FuncTan:
		return math.Tan(x)
	default:
		return math.Abs(x)
	}
}

// Expr is a lazily evaluated expression tree over Values and constants.
// Nothing is sampled until Evaluate or Propagate runs.
type Expr struct {
	kind  nodeKind
	val   *Value  // kindLeaf
	c     float64 // kindConst
	fn    UnaryFunc
	left  *Expr
	right *Expr
}

func (e *Expr) node() *Expr  { return e }
func (v *Value) node() *Expr { return &Expr{kind: kindLeaf, val: v} }

// Const wraps an exact scalar as an expression node.
func Const(c float64) *Expr {
	return &Expr{kind: kindConst, c: c}
}

func binary(kind nodeKind, a, b Operand) *Expr {
	return &Expr{kind: kind, left: a.node(), right: b.node()}
}

// Add returns a + b.
func Add(a, b Operand) *Expr { return binary(kindAdd, a, b) }

// Sub returns a - b.
func Sub(a, b Operand) *Expr { return binary(kindSub, a, b) }

// Mul returns a * b.
func Mul(a, b Operand) *Expr { return binary(kindMul, a, b) }

// Div returns a / b. Per-trial division by zero yields a sentinel, not an
// error.
func Div(a, b Operand) *Expr { return binary(kindDiv, a, b) }

// Pow returns a ** b.
func Pow(a, b Operand) *Expr { return binary(kindPow, a, b) }

// Neg returns -a.
func Neg(a Operand) *Expr { return &Expr{kind: kindNeg, left: a.node()} }

// Apply returns fn(a) evaluated per trial.
func Apply(fn UnaryFunc, a Operand) *Expr {
	return &Expr{kind: kindFunc, fn: fn, left: a.node()}
}

// Exp returns e**a.
func Exp(a Operand) *Expr { return Apply(FuncExp, a) }

// Log returns the natural logarithm of a.
func Log(a Operand) *Expr { return Apply(FuncLog, a) }

// Sqrt returns the square root of a.
func Sqrt(a Operand) *Expr { return Apply(FuncSqrt, a) }

// Sin returns the sine of a.
func Sin(a Operand) *Expr { return Apply(FuncSin, a) }

// Cos returns the cosine of a.
func Cos(a Operand) *Expr { return Apply(FuncCos, a) }

// Tan returns the tangent of a.
func Tan(a Operand) *Expr { return Apply(FuncTan, a) }

// Abs returns the absolute value of a.
func Abs(a Operand) *Expr { return Apply(FuncAbs, a) }

// Builder methods, so expressions read left to right.

func (e *Expr) Add(o Operand) *Expr { return Add(e, o) }
func (e *Expr) Sub(o Operand) *Expr { return Sub(e, o) }
func (e *Expr) Mul(o Operand) *Expr { return Mul(e, o) }
func (e *Expr) Div(o Operand) *Expr { return Div(e, o) }
func (e *Expr) Pow(o Operand) *Expr { return Pow(e, o) }
func (e *Expr) Neg() *Expr          { return Neg(e) }

func (e *Expr) AddScalar(c float64) *Expr { return Add(e, Const(c)) }
func (e *Expr) SubScalar(c float64) *Expr { return Sub(e, Const(c)) }
func (e *Expr) MulScalar(c float64) *Expr { return Mul(e, Const(c)) }
func (e *Expr) DivScalar(c float64) *Expr { return Div(e, Const(c)) }

func (v *Value) Add(o Operand) *Expr { return Add(v, o) }
func (v *Value) Sub(o Operand) *Expr { return Sub(v, o) }
func (v *Value) Mul(o Operand) *Expr { return Mul(v, o) }
func (v *Value) Div(o Operand) *Expr { return Div(v, o) }
func (v *Value) Pow(o Operand) *Expr { return Pow(v, o) }
func (v *Value) Neg() *Expr          { return Neg(v) }

func (v *Value) AddScalar(c float64) *Expr { return Add(v, Const(c)) }
func (v *Value) SubScalar(c float64) *Expr { return Sub(v, Const(c)) }
func (v *Value) MulScalar(c float64) *Expr { return Mul(v, Const(c)) }
func (v *Value) DivScalar(c float64) *Expr { return Div(v, Const(c)) }

// leaves collects the distinct Values of the tree in first-occurrence
// pre-order. The order is deterministic for a given tree shape, which
// keeps sub-stream assignment reproducible.
func (e *Expr) leaves() []*Value {
	var out []*Value
	seen := make(map[*Value]bool)
	var walk func(n *Expr)
	walk = func(n *Expr) {
		if n == nil {
			return
		}
		if n.kind == kindLeaf && !seen[n.val] {
			seen[n.val] = true
			out = append(out, n.val)
		}
		walk(n.left)
		walk(n.right)
	}
	walk(e)
	return out
}
