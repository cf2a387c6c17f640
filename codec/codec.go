package codec

import (
	"errors"
	"fmt"

	"github.com/bytedance/sonic"

	"github.com/metrolabs/uncertain"
)

// ErrMalformedDocument reports a document that parses as JSON but does
// not describe a valid expression.
var ErrMalformedDocument = errors.New("codec: malformed document")

// ValueDoc is the serialized form of an uncertain value.
type ValueDoc struct {
	Nominal      float64     `json:"nominal"`
	SigmaLow     float64     `json:"sigma_low"`
	SigmaUp      float64     `json:"sigma_up"`
	Distribution string      `json:"distribution,omitempty"`
	Limits       *[2]float64 `json:"limits,omitempty"`
}

// Node is one operator-tree node. Exactly one of Op, Ref, or Const is
// set: Op for operators and functions, Ref for a named value, Const for
// an exact scalar.
type Node struct {
	Op       string   `json:"op,omitempty"`
	Ref      string   `json:"ref,omitempty"`
	Const    *float64 `json:"const,omitempty"`
	Operands []*Node  `json:"operands,omitempty"`
}

// Document is a complete serialized expression: named input values plus
// the operator tree referencing them.
type Document struct {
	Values map[string]ValueDoc `json:"values"`
	Expr   *Node               `json:"expr"`
}

// Parse decodes a JSON document.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := sonic.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	return &doc, nil
}

// Marshal encodes any codec or result type as JSON.
func Marshal(v interface{}) ([]byte, error) {
	return sonic.Marshal(v)
}

// EncodeValue serializes a value.
func EncodeValue(v *uncertain.Value) ValueDoc {
	doc := ValueDoc{
		Nominal:      v.Nominal(),
		SigmaLow:     v.SigmaLow(),
		SigmaUp:      v.SigmaUp(),
		Distribution: v.Dist().String(),
	}
	if lo, hi := v.Limits(); !isUnbounded(lo, hi) {
		doc.Limits = &[2]float64{lo, hi}
	}
	return doc
}

// DecodeValue constructs a value from its serialized form.
func DecodeValue(doc ValueDoc) (*uncertain.Value, error) {
	dist, err := uncertain.ParseDistribution(doc.Distribution)
	if err != nil {
		return nil, err
	}

	var v *uncertain.Value
	switch dist {
	case uncertain.Normal:
		if doc.SigmaLow != doc.SigmaUp {
			return nil, fmt.Errorf("%w: normal distribution requires sigma_low == sigma_up, got [%g, %g]",
				ErrMalformedDocument, doc.SigmaLow, doc.SigmaUp)
		}
		v, err = uncertain.NewNormal(doc.Nominal, doc.SigmaUp)
	case uncertain.Uniform:
		v, err = uncertain.NewUniform(doc.Nominal, doc.SigmaLow, doc.SigmaUp)
	default:
		v, err = uncertain.New(doc.Nominal, doc.SigmaLow, doc.SigmaUp)
	}
	if err != nil {
		return nil, err
	}

	if doc.Limits != nil {
		v, err = v.WithLimits(doc.Limits[0], doc.Limits[1])
		if err != nil {
			return nil, err
		}
	}
	return v, nil
}

// Build turns the document into an evaluatable expression. References to
// the same name resolve to one shared value, preserving correlation.
func (d *Document) Build() (uncertain.Operand, error) {
	if d.Expr == nil {
		return nil, fmt.Errorf("%w: missing expr", ErrMalformedDocument)
	}

	values := make(map[string]*uncertain.Value, len(d.Values))
	for name, doc := range d.Values {
		v, err := DecodeValue(doc)
		if err != nil {
			return nil, fmt.Errorf("value %q: %w", name, err)
		}
		values[name] = v
	}
	return buildNode(d.Expr, values)
}

func buildNode(n *Node, values map[string]*uncertain.Value) (uncertain.Operand, error) {
	switch {
	case n.Ref != "":
		v, ok := values[n.Ref]
		if !ok {
			return nil, fmt.Errorf("%w: unknown value %q", ErrMalformedDocument, n.Ref)
		}
		return v, nil
	case n.Const != nil:
		return uncertain.Const(*n.Const), nil
	case n.Op != "":
		return buildOp(n, values)
	default:
		return nil, fmt.Errorf("%w: empty node", ErrMalformedDocument)
	}
}

func buildOp(n *Node, values map[string]*uncertain.Value) (uncertain.Operand, error) {
	args := make([]uncertain.Operand, len(n.Operands))
	for i, child := range n.Operands {
		a, err := buildNode(child, values)
		if err != nil {
			return nil, err
		}
		args[i] = a
	}

	unary := func() (uncertain.Operand, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("%w: %q takes 1 operand, got %d", ErrMalformedDocument, n.Op, len(args))
		}
		return args[0], nil
	}
	binary := func() error {
		if len(args) != 2 {
			return fmt.Errorf("%w: %q takes 2 operands, got %d", ErrMalformedDocument, n.Op, len(args))
		}
		return nil
	}

	switch n.Op {
	case "add", "sub", "mul", "div", "pow":
		if err := binary(); err != nil {
			return nil, err
		}
		switch n.Op {
		case "add":
			return uncertain.Add(args[0], args[1]), nil
		case "sub":
			return uncertain.Sub(args[0], args[1]), nil
		case "mul":
			return uncertain.Mul(args[0], args[1]), nil
		case "div":
			return uncertain.Div(args[0], args[1]), nil
		default:
			return uncertain.Pow(args[0], args[1]), nil
		}
	case "neg":
		a, err := unary()
		if err != nil {
			return nil, err
		}
		return uncertain.Neg(a), nil
	case "exp", "log", "sqrt", "sin", "cos", "tan", "abs":
		a, err := unary()
		if err != nil {
			return nil, err
		}
		fn, _ := parseFunc(n.Op)
		return uncertain.Apply(fn, a), nil
	default:
		return nil, fmt.Errorf("%w: unknown operator %q", ErrMalformedDocument, n.Op)
	}
}

func parseFunc(name string) (uncertain.UnaryFunc, bool) {
	switch name {
	case "exp":
		return uncertain.FuncExp, true
	case "log":
		return uncertain.FuncLog, true
	case "sqrt":
		return uncertain.FuncSqrt, true
	case "sin":
		return uncertain.FuncSin, true
	case "cos":
		return uncertain.FuncCos, true
	case "tan":
		return uncertain.FuncTan, true
	case "abs":
		return uncertain.FuncAbs, true
	default:
		return 0, false
	}
}

func isUnbounded(lo, hi float64) bool {
	return lo < -1e308 && hi > 1e308
}
