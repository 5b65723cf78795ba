package plan

import (
	"github.com/smilemakc/rankcore/internal/expreval"
	"github.com/smilemakc/rankcore/internal/predeval"
)

// exprKeys collects every key id referenced anywhere in an expression tree.
func exprKeys(e expreval.Expr) []uint32 {
	switch n := e.(type) {
	case expreval.KeyRef:
		return []uint32{n.KeyID}
	case expreval.BinOp:
		return append(exprKeys(n.LHS), exprKeys(n.RHS)...)
	case expreval.Coalesce:
		return exprKeys(n.Inner)
	default:
		return nil
	}
}

// predKeys collects every key id referenced anywhere in a predicate tree
// (both directly, as in regex/in/is_null, and via its embedded expressions).
func predKeys(p predeval.Pred) []uint32 {
	switch n := p.(type) {
	case predeval.Cmp:
		return append(exprKeys(n.LHS), exprKeys(n.RHS)...)
	case predeval.And:
		var out []uint32
		for _, c := range n.Children {
			out = append(out, predKeys(c)...)
		}
		return out
	case predeval.Or:
		var out []uint32
		for _, c := range n.Children {
			out = append(out, predKeys(c)...)
		}
		return out
	case predeval.Not:
		return predKeys(n.Child)
	case predeval.Regex:
		return []uint32{n.KeyID}
	case predeval.In:
		return []uint32{n.KeyID}
	case predeval.IsNull:
		return []uint32{n.KeyID}
	default:
		return nil
	}
}

// nodeReads computes the dynamic read-set for a node: the operator's
// static Spec.Reads (empty for filter/sort/vm, whose reads depend on their
// configured predicate/expression/key parameter) plus whatever its
// resolved params reference.
func nodeReads(node *Node) []uint32 {
	keys := append([]uint32{}, node.Spec.Reads...)
	switch node.Op {
	case "filter":
		keys = append(keys, predKeys(node.Params.Pred("pred"))...)
	case "vm":
		keys = append(keys, exprKeys(node.Params.Expr("expr"))...)
	case "sort":
		keys = append(keys, node.Params.KeyID("by"))
	}
	return keys
}

// nodeWrites computes the dynamic write-set for a node.
func nodeWrites(node *Node) []uint32 {
	keys := append([]uint32{}, node.Spec.Writes...)
	switch node.Op {
	case "vm":
		keys = append(keys, node.Params.KeyID("out_key"))
	}
	return keys
}
