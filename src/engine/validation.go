package engine

import (
	"fmt"
	"unicode/utf8"

	"franchise-intake-api/src/models"
)

// ruleConfig tags failures caused by broken configuration that slipped
// past load (defensive; callers show a generic message).
const ruleConfig = models.RuleKind("config")

// FailureReason is one violated rule for a field.
type FailureReason struct {
	Rule    models.RuleKind `json:"rule"`
	Message string          `json:"message"`
}

// Result is the outcome of validating one field. An empty failure list
// means the value is valid.
type Result struct {
	Failures []FailureReason
}

// Valid reports whether every rule passed.
func (r Result) Valid() bool {
	return len(r.Failures) == 0
}

// ruleChecker runs one rule kind. ok=false yields a failure with msg
// (overridable by the rule's errorMessage).
type ruleChecker func(c *Catalog, f *models.FieldDefinition, cr compiledRule, value interface{}, answers models.AnswerSet) (ok bool, msg string)

var ruleCheckers = map[models.RuleKind]ruleChecker{
	models.RuleRequired: func(c *Catalog, f *models.FieldDefinition, cr compiledRule, value interface{}, answers models.AnswerSet) (bool, string) {
		// A hidden required field never blocks progression.
		if !c.fieldVisible(f, answers) {
			return true, ""
		}
		return !isEmpty(value), "This field is required"
	},
	models.RuleMinLength: func(c *Catalog, f *models.FieldDefinition, cr compiledRule, value interface{}, answers models.AnswerSet) (bool, string) {
		if isEmpty(value) {
			return true, ""
		}
		limit := int(*cr.rule.Limit)
		return answerLength(f, value) >= limit, fmt.Sprintf("Must be at least %d characters", limit)
	},
	models.RuleMaxLength: func(c *Catalog, f *models.FieldDefinition, cr compiledRule, value interface{}, answers models.AnswerSet) (bool, string) {
		if isEmpty(value) {
			return true, ""
		}
		limit := int(*cr.rule.Limit)
		return answerLength(f, value) <= limit, fmt.Sprintf("Must be at most %d characters", limit)
	},
	models.RuleMinValue: func(c *Catalog, f *models.FieldDefinition, cr compiledRule, value interface{}, answers models.AnswerSet) (bool, string) {
		if isEmpty(value) {
			return true, ""
		}
		n, ok := toNumber(value)
		if !ok {
			return false, "Must be a number"
		}
		return n >= *cr.rule.Limit, fmt.Sprintf("Must be at least %v", *cr.rule.Limit)
	},
	models.RuleMaxValue: func(c *Catalog, f *models.FieldDefinition, cr compiledRule, value interface{}, answers models.AnswerSet) (bool, string) {
		if isEmpty(value) {
			return true, ""
		}
		n, ok := toNumber(value)
		if !ok {
			return false, "Must be a number"
		}
		return n <= *cr.rule.Limit, fmt.Sprintf("Must be at most %v", *cr.rule.Limit)
	},
	models.RulePattern: func(c *Catalog, f *models.FieldDefinition, cr compiledRule, value interface{}, answers models.AnswerSet) (bool, string) {
		if isEmpty(value) {
			return true, ""
		}
		return cr.re.MatchString(toString(value)), "Invalid format"
	},
	models.RuleCustom: func(c *Catalog, f *models.FieldDefinition, cr compiledRule, value interface{}, answers models.AnswerSet) (bool, string) {
		if cr.expr == nil {
			// Rejected at load; never surface a panic if a broken rule
			// somehow reaches a session.
			return false, "This field could not be validated"
		}
		effective := answers.Clone()
		effective[f.ID] = value
		return cr.expr.eval(effective), "Invalid value"
	},
}

// answerLength counts runes for scalar answers and selections for
// multi-value answers.
func answerLength(f *models.FieldDefinition, value interface{}) int {
	if f.Type.IsMulti() {
		return len(toList(value))
	}
	return utf8.RuneCountInString(toString(value))
}

// Validate runs the field's rule pipeline against a candidate value.
// All rules run in declaration order with no short-circuit so callers
// can display every violation at once. It never panics or returns an
// error: an undeclared field id yields a single configuration failure.
func (c *Catalog) Validate(fieldID string, value interface{}, answers models.AnswerSet) Result {
	f, ok := c.fields[fieldID]
	if !ok {
		return Result{Failures: []FailureReason{{
			Rule:    ruleConfig,
			Message: "Unknown field",
		}}}
	}

	var res Result
	for _, cr := range c.rules[fieldID] {
		checker, known := ruleCheckers[cr.rule.Kind]
		if !known {
			res.Failures = append(res.Failures, FailureReason{Rule: ruleConfig, Message: "This field could not be validated"})
			continue
		}
		ok, msg := checker(c, f, cr, value, answers)
		if ok {
			continue
		}
		if cr.rule.ErrorMessage != "" {
			msg = cr.rule.ErrorMessage
		}
		res.Failures = append(res.Failures, FailureReason{Rule: cr.rule.Kind, Message: msg})
	}
	return res
}

// ValidateStep validates every currently visible field of a step and
// returns the failures keyed by field id.
func (c *Catalog) ValidateStep(stepNumber int, answers models.AnswerSet) map[string][]FailureReason {
	failures := make(map[string][]FailureReason)
	for _, f := range c.VisibleFields(stepNumber, answers) {
		res := c.Validate(f.ID, answerOf(answers, f.ID), answers)
		if !res.Valid() {
			failures[f.ID] = res.Failures
		}
	}
	return failures
}

// ValidateAll validates every visible field across all steps (the
// submit gate).
func (c *Catalog) ValidateAll(answers models.AnswerSet) map[string][]FailureReason {
	failures := make(map[string][]FailureReason)
	for _, step := range c.steps {
		for id, reasons := range c.ValidateStep(step.StepNumber, answers) {
			failures[id] = reasons
		}
	}
	return failures
}
