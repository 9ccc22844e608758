package engine

import (
	"strings"

	"franchise-intake-api/src/models"
)

// conditionCheck evaluates one operator against the dependency field's
// current answer and the configured operand.
type conditionCheck func(dep *models.FieldDefinition, current, operand interface{}) bool

// One table per operator; adding an operator is a data change, not a new
// branch threaded through the engine.
var conditionChecks = map[models.ConditionOperator]conditionCheck{
	models.OpEquals: func(dep *models.FieldDefinition, current, operand interface{}) bool {
		if dep.Type.IsNumeric() {
			eq, ok := numericEquals(current, operand)
			return ok && eq
		}
		return toString(current) == toString(operand)
	},
	models.OpNotEquals: func(dep *models.FieldDefinition, current, operand interface{}) bool {
		if dep.Type.IsNumeric() {
			eq, ok := numericEquals(current, operand)
			return ok && !eq
		}
		return toString(current) != toString(operand)
	},
	models.OpContains: func(dep *models.FieldDefinition, current, operand interface{}) bool {
		return containsValue(dep, current, operand)
	},
	models.OpNotContains: func(dep *models.FieldDefinition, current, operand interface{}) bool {
		return !containsValue(dep, current, operand)
	},
	models.OpGreaterThan: func(dep *models.FieldDefinition, current, operand interface{}) bool {
		a, okA := toNumber(current)
		b, okB := toNumber(operand)
		return okA && okB && a > b
	},
	models.OpLessThan: func(dep *models.FieldDefinition, current, operand interface{}) bool {
		a, okA := toNumber(current)
		b, okB := toNumber(operand)
		return okA && okB && a < b
	},
	models.OpEmpty: func(dep *models.FieldDefinition, current, operand interface{}) bool {
		return isEmpty(current)
	},
	models.OpNotEmpty: func(dep *models.FieldDefinition, current, operand interface{}) bool {
		return !isEmpty(current)
	},
}

func numericEquals(current, operand interface{}) (eq, ok bool) {
	a, okA := toNumber(current)
	b, okB := toNumber(operand)
	if !okA || !okB {
		return false, false
	}
	return a == b, true
}

// containsValue is a membership test for multi-value dependencies and a
// substring test otherwise.
func containsValue(dep *models.FieldDefinition, current, operand interface{}) bool {
	needle := toString(operand)
	if dep.Type.IsMulti() {
		for _, item := range toList(current) {
			if item == needle {
				return true
			}
		}
		return false
	}
	return strings.Contains(toString(current), needle)
}

// IsVisible evaluates the field's visibility condition against the
// current answers. Pure and total: no side effects, never panics, an
// unknown field id is simply not visible. A field whose dependency is
// itself hidden stays hidden regardless of the comparison result, so a
// question is never exposed when its prerequisite was never shown.
func (c *Catalog) IsVisible(fieldID string, answers models.AnswerSet) bool {
	f, ok := c.fields[fieldID]
	if !ok {
		return false
	}
	return c.fieldVisible(f, answers)
}

func (c *Catalog) fieldVisible(f *models.FieldDefinition, answers models.AnswerSet) bool {
	cond := f.Conditional
	if cond == nil {
		return true
	}
	dep := c.fields[cond.DependsOn] // existence checked at load
	if !c.fieldVisible(dep, answers) {
		return false
	}
	check, ok := conditionChecks[cond.Operator]
	if !ok {
		// Unknown operators are rejected at load; fail closed anyway.
		return false
	}
	var current interface{}
	if answers != nil {
		current = answers[dep.ID]
	}
	return check(dep, current, cond.Value)
}

// VisibleFields returns the step's fields that are visible under the
// current answers, in display order.
func (c *Catalog) VisibleFields(stepNumber int, answers models.AnswerSet) []*models.FieldDefinition {
	var out []*models.FieldDefinition
	for _, f := range c.fieldsByStep[stepNumber] {
		if c.fieldVisible(f, answers) {
			out = append(out, f)
		}
	}
	return out
}
