// Package predeval implements the predicate tree and its evaluator
// (component E): boolean predicates over expression trees, evaluated with
// null-as-false semantics — any expression that yields null makes the
// enclosing comparison false, except is_null itself, which is the one form
// that turns a null cell into true.
package predeval

import "github.com/smilemakc/rankcore/internal/expreval"

// Pred is any node of the predicate tree.
type Pred interface{ isPred() }

// CmpKind is the operator of a Cmp node.
type CmpKind string

const (
	Lt CmpKind = "<"
	Le CmpKind = "<="
	Eq CmpKind = "="
	Ne CmpKind = "!="
	Ge CmpKind = ">="
	Gt CmpKind = ">"
)

// Cmp compares two expressions.
type Cmp struct {
	Op       CmpKind
	LHS, RHS expreval.Expr
}

// And is true iff every child is true; children are evaluated in declared
// order and evaluation stops at the first false or error.
type And struct{ Children []Pred }

// Or is true iff any child is true; children are evaluated in declared
// order and evaluation stops at the first true or error.
type Or struct{ Children []Pred }

// Not inverts its child.
type Not struct{ Child Pred }

// Regex matches a string key's value against pattern.
type Regex struct {
	KeyID   uint32
	Pattern string
}

// In is true iff the key's value equals one of Values.
type In struct {
	KeyID  uint32
	Values []any
}

// IsNull is true iff the key's cell is invalid (null). This is the only
// predicate form for which a null cell yields true rather than false.
type IsNull struct{ KeyID uint32 }

func (Cmp) isPred()    {}
func (And) isPred()    {}
func (Or) isPred()     {}
func (Not) isPred()    {}
func (Regex) isPred()  {}
func (In) isPred()     {}
func (IsNull) isPred() {}
