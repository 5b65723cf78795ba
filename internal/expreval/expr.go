// Package expreval implements the expression tree and its evaluator
// (component D): a tagged-union AST evaluated by a structural walk per row,
// with three-valued null semantics — a null operand never errors, it just
// makes the enclosing expression null.
package expreval

// Expr is any node of the expression tree.
type Expr interface{ isExpr() }

// Const is a literal number, bool, or string.
type Const struct{ Value any }

// KeyRef reads the named key's cell for the current row.
type KeyRef struct{ KeyID uint32 }

// ParamRef reads a plan parameter value.
type ParamRef struct{ ParamID uint32 }

// BinOpKind is the operator of a BinOp node.
type BinOpKind string

const (
	Add BinOpKind = "+"
	Sub BinOpKind = "-"
	Mul BinOpKind = "*"
	Div BinOpKind = "/"
	Mod BinOpKind = "%"
)

// BinOp applies a numeric operator to two sub-expressions.
type BinOp struct {
	Op       BinOpKind
	LHS, RHS Expr
}

// Coalesce evaluates Inner; if it is null, Default (a non-null literal) is
// returned instead.
type Coalesce struct {
	Inner   Expr
	Default any
}

func (Const) isExpr()    {}
func (KeyRef) isExpr()   {}
func (ParamRef) isExpr() {}
func (BinOp) isExpr()    {}
func (Coalesce) isExpr() {}
