package engine

import (
	"fmt"
	"strings"

	"franchise-intake-api/src/models"
)

// The CMS historically stored free-form "custom JavaScript" strings for
// custom rules. Executing stored code is off the table, so custom rules
// are a closed expression grammar instead: comparisons, membership,
// boolean combinators, and arithmetic thresholds over numeric fields.
// compileExpr turns the stored document into an evaluable tree and
// anything outside the grammar fails the load.

type exprKind int

const (
	exprAll exprKind = iota
	exprAny
	exprNot
	exprCmp
	exprIn
	exprSum
)

type exprNode struct {
	kind     exprKind
	children []*exprNode
	field    *models.FieldDefinition
	sum      []string
	op       string
	value    interface{}
	list     []string
}

var cmpOps = map[string]bool{
	"eq": true, "ne": true, "gt": true, "gte": true, "lt": true, "lte": true,
	"contains": true,
}

var sumOps = map[string]bool{
	"eq": true, "ne": true, "gt": true, "gte": true, "lt": true, "lte": true,
}

func compileExpr(e *models.Expr, fields map[string]*models.FieldDefinition) (*exprNode, error) {
	if e == nil {
		return nil, fmt.Errorf("missing expression")
	}

	variants := 0
	if len(e.All) > 0 {
		variants++
	}
	if len(e.Any) > 0 {
		variants++
	}
	if e.Not != nil {
		variants++
	}
	if e.Field != "" {
		variants++
	}
	if len(e.Sum) > 0 {
		variants++
	}
	if variants != 1 {
		return nil, fmt.Errorf("expression node must set exactly one of all/any/not/field/sum")
	}

	switch {
	case len(e.All) > 0:
		return compileCombinator(exprAll, e.All, fields)
	case len(e.Any) > 0:
		return compileCombinator(exprAny, e.Any, fields)
	case e.Not != nil:
		child, err := compileExpr(e.Not, fields)
		if err != nil {
			return nil, err
		}
		return &exprNode{kind: exprNot, children: []*exprNode{child}}, nil
	case len(e.Sum) > 0:
		if !sumOps[e.Op] {
			return nil, fmt.Errorf("unknown sum operator %q", e.Op)
		}
		if _, ok := toNumber(e.Value); !ok {
			return nil, fmt.Errorf("sum comparison needs a numeric value")
		}
		for _, id := range e.Sum {
			f, ok := fields[id]
			if !ok {
				return nil, fmt.Errorf("sum references undeclared field %q", id)
			}
			if !f.Type.IsNumeric() {
				return nil, fmt.Errorf("sum references non-numeric field %q", id)
			}
		}
		return &exprNode{kind: exprSum, sum: e.Sum, op: e.Op, value: e.Value}, nil
	default:
		f, ok := fields[e.Field]
		if !ok {
			return nil, fmt.Errorf("expression references undeclared field %q", e.Field)
		}
		if e.Op == "in" {
			list, ok := e.Value.([]interface{})
			if !ok || len(list) == 0 {
				return nil, fmt.Errorf("in operator needs a non-empty list value")
			}
			node := &exprNode{kind: exprIn, field: f}
			for _, item := range list {
				node.list = append(node.list, toString(item))
			}
			return node, nil
		}
		if !cmpOps[e.Op] {
			return nil, fmt.Errorf("unknown comparison operator %q", e.Op)
		}
		if e.Value == nil {
			return nil, fmt.Errorf("comparison needs a value")
		}
		return &exprNode{kind: exprCmp, field: f, op: e.Op, value: e.Value}, nil
	}
}

func compileCombinator(kind exprKind, parts []models.Expr, fields map[string]*models.FieldDefinition) (*exprNode, error) {
	node := &exprNode{kind: kind}
	for i := range parts {
		child, err := compileExpr(&parts[i], fields)
		if err != nil {
			return nil, err
		}
		node.children = append(node.children, child)
	}
	return node, nil
}

// eval is total: compiled expressions never error at runtime, they
// evaluate to false when an answer cannot be coerced.
func (n *exprNode) eval(answers models.AnswerSet) bool {
	switch n.kind {
	case exprAll:
		for _, child := range n.children {
			if !child.eval(answers) {
				return false
			}
		}
		return true
	case exprAny:
		for _, child := range n.children {
			if child.eval(answers) {
				return true
			}
		}
		return false
	case exprNot:
		return !n.children[0].eval(answers)
	case exprIn:
		current := answerOf(answers, n.field.ID)
		for _, item := range n.list {
			if toString(current) == item {
				return true
			}
		}
		return false
	case exprSum:
		var total float64
		for _, id := range n.sum {
			v := answerOf(answers, id)
			if isEmpty(v) {
				continue
			}
			f, ok := toNumber(v)
			if !ok {
				return false
			}
			total += f
		}
		bound, _ := toNumber(n.value)
		return compareNumbers(n.op, total, bound)
	case exprCmp:
		return n.evalCmp(answers)
	}
	return false
}

func (n *exprNode) evalCmp(answers models.AnswerSet) bool {
	current := answerOf(answers, n.field.ID)
	switch n.op {
	case "contains":
		if n.field.Type.IsMulti() {
			needle := toString(n.value)
			for _, item := range toList(current) {
				if item == needle {
					return true
				}
			}
			return false
		}
		return strings.Contains(toString(current), toString(n.value))
	case "eq", "ne":
		var eq bool
		if n.field.Type.IsNumeric() {
			numEq, ok := numericEquals(current, n.value)
			if !ok {
				return false
			}
			eq = numEq
		} else {
			eq = toString(current) == toString(n.value)
		}
		if n.op == "eq" {
			return eq
		}
		return !eq
	default:
		a, okA := toNumber(current)
		b, okB := toNumber(n.value)
		return okA && okB && compareNumbers(n.op, a, b)
	}
}

func compareNumbers(op string, a, b float64) bool {
	switch op {
	case "eq":
		return a == b
	case "ne":
		return a != b
	case "gt":
		return a > b
	case "gte":
		return a >= b
	case "lt":
		return a < b
	case "lte":
		return a <= b
	}
	return false
}

func answerOf(answers models.AnswerSet, fieldID string) interface{} {
	if answers == nil {
		return nil
	}
	return answers[fieldID]
}
