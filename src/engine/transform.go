package engine

import (
	"time"

	"franchise-intake-api/src/models"
)

// Transform maps the final answer set into the submission record handed
// to persistence. Hidden fields are dropped even if they hold stale
// answers from before their condition hid them: the applicant never saw
// those questions, so their answers are not persisted. Values are
// coerced to the field's declared type. A still-required visible field
// with no answer is a *TransformError — a defensive recheck, the submit
// gate should make it unreachable.
func (c *Catalog) Transform(answers models.AnswerSet, sessionID string) (*models.SubmissionRecord, error) {
	record := &models.SubmissionRecord{
		FormID:          c.formID,
		SourceSessionID: sessionID,
		SubmittedAt:     time.Now().UTC(),
	}

	for _, step := range c.steps {
		for _, f := range c.fieldsByStep[step.StepNumber] {
			if !c.fieldVisible(f, answers) {
				continue
			}
			value := answerOf(answers, f.ID)
			if isEmpty(value) {
				if isRequired(f) {
					return nil, &TransformError{FieldID: f.ID, Reason: "required field has no answer"}
				}
				continue
			}
			coerced, err := coerceToType(f, value)
			if err != nil {
				return nil, err
			}
			record.Answers = append(record.Answers, models.SubmittedAnswer{
				FieldID: f.ID,
				Label:   f.Label,
				Value:   coerced,
			})
		}
	}
	return record, nil
}

func isRequired(f *models.FieldDefinition) bool {
	for _, rule := range f.Validation {
		if rule.Kind == models.RuleRequired {
			return true
		}
	}
	return false
}

func coerceToType(f *models.FieldDefinition, value interface{}) (interface{}, error) {
	switch {
	case f.Type.IsNumeric():
		n, ok := toNumber(value)
		if !ok {
			return nil, &TransformError{FieldID: f.ID, Reason: "answer is not numeric"}
		}
		return n, nil
	case f.Type == models.FieldBoolean:
		b, ok := toBool(value)
		if !ok {
			return nil, &TransformError{FieldID: f.ID, Reason: "answer is not a boolean"}
		}
		return b, nil
	case f.Type.IsMulti():
		return toList(value), nil
	default:
		return toString(value), nil
	}
}
