package engine_test

import (
	"testing"

	"franchise-intake-api/src/engine"
	"franchise-intake-api/src/models"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	catalog := loadIntake(t)

	t.Run("ValidValuePasses", func(t *testing.T) {
		res := catalog.Validate("fullName", "Jordan Smith", models.AnswerSet{})
		assert.True(t, res.Valid())
	})

	t.Run("RequiredFailsOnEmpty", func(t *testing.T) {
		res := catalog.Validate("fullName", "", models.AnswerSet{})
		assert.False(t, res.Valid())
		assert.Equal(t, models.RuleRequired, res.Failures[0].Rule)
		assert.Equal(t, "This field is required", res.Failures[0].Message)
	})

	t.Run("AllRulesRunWithoutShortCircuit", func(t *testing.T) {
		// "J" violates minLength only; "" violates required only (length
		// rules skip empty values); a long name violates maxLength only.
		res := catalog.Validate("fullName", "J", models.AnswerSet{})
		assert.Len(t, res.Failures, 1)
		assert.Equal(t, models.RuleMinLength, res.Failures[0].Rule)
	})

	t.Run("EmptySkipsLengthRules", func(t *testing.T) {
		// experienceDetails has required + minLength(5): an empty value
		// reports only the required failure, never the length one.
		answers := models.AnswerSet{"hasPriorExperience": true}
		res := catalog.Validate("experienceDetails", "", answers)
		assert.Len(t, res.Failures, 1)
		assert.Equal(t, models.RuleRequired, res.Failures[0].Rule)
	})

	t.Run("HiddenRequiredFieldPasses", func(t *testing.T) {
		answers := models.AnswerSet{"hasPriorExperience": false}
		res := catalog.Validate("experienceDetails", "", answers)
		assert.True(t, res.Valid())
	})

	t.Run("PatternRule", func(t *testing.T) {
		res := catalog.Validate("email", "not-an-email", models.AnswerSet{})
		assert.False(t, res.Valid())
		assert.Equal(t, models.RulePattern, res.Failures[0].Rule)

		res = catalog.Validate("email", "a@b.co", models.AnswerSet{})
		assert.True(t, res.Valid())
	})

	t.Run("NumericBounds", func(t *testing.T) {
		answers := models.AnswerSet{"hasPriorExperience": true}
		assert.True(t, catalog.Validate("yearsInBusiness", float64(12), answers).Valid())
		assert.False(t, catalog.Validate("yearsInBusiness", float64(-1), answers).Valid())
		assert.False(t, catalog.Validate("yearsInBusiness", float64(99), answers).Valid())
	})

	t.Run("NonNumericValueForNumericRule", func(t *testing.T) {
		answers := models.AnswerSet{"hasPriorExperience": true}
		res := catalog.Validate("yearsInBusiness", "lots", answers)
		assert.False(t, res.Valid())
	})

	t.Run("CustomSumRule", func(t *testing.T) {
		answers := models.AnswerSet{"liquidCapital": float64(300)}
		res := catalog.Validate("netWorth", float64(100), answers)
		assert.False(t, res.Valid())
		assert.Equal(t, "Not enough combined capital", res.Failures[0].Message)

		res = catalog.Validate("netWorth", float64(900), answers)
		assert.True(t, res.Valid())
	})

	t.Run("CustomRuleSeesCandidateValue", func(t *testing.T) {
		// The stored answer is false; validating true must evaluate the
		// expression against the candidate, not the stored value.
		answers := models.AnswerSet{"agreeTerms": false}
		res := catalog.Validate("agreeTerms", true, answers)
		assert.True(t, res.Valid())
	})

	t.Run("UnknownFieldYieldsConfigFailure", func(t *testing.T) {
		res := catalog.Validate("noSuchField", "x", models.AnswerSet{})
		assert.False(t, res.Valid())
		assert.Equal(t, "Unknown field", res.Failures[0].Message)
	})
}

func TestValidateStep(t *testing.T) {
	catalog := loadIntake(t)

	t.Run("CollectsAllVisibleFailures", func(t *testing.T) {
		failures := catalog.ValidateStep(1, models.AnswerSet{})
		assert.Len(t, failures, 2)
		assert.Contains(t, failures, "fullName")
		assert.Contains(t, failures, "hasPriorExperience")
	})

	t.Run("HiddenFieldsSkipped", func(t *testing.T) {
		answers := models.AnswerSet{"hasPriorExperience": false, "email": "a@b.co"}
		failures := catalog.ValidateStep(2, answers)
		assert.Empty(t, failures)
	})

	t.Run("CleanStepPasses", func(t *testing.T) {
		answers := models.AnswerSet{"fullName": "Jordan Smith", "hasPriorExperience": false}
		assert.Empty(t, catalog.ValidateStep(1, answers))
	})
}

func TestValidateAll(t *testing.T) {
	catalog := loadIntake(t)

	t.Run("ValidAnswerSetPasses", func(t *testing.T) {
		assert.Empty(t, catalog.ValidateAll(validAnswers()))
	})

	t.Run("FailureOnAnyStepReported", func(t *testing.T) {
		answers := validAnswers()
		answers["email"] = "broken"
		failures := catalog.ValidateAll(answers)
		assert.Len(t, failures, 1)
		assert.Contains(t, failures, "email")
	})
}

func TestCustomExpressionCompile(t *testing.T) {
	base := func(expr *models.Expr) *models.FormConfig {
		return &models.FormConfig{
			Slug: "expr-test",
			Steps: []models.FormStep{
				{StepNumber: 1, Title: "One", FieldIDs: []string{"amount", "other"}},
			},
			Fields: []models.FieldDefinition{
				{ID: "amount", Label: "Amount", Type: models.FieldNumber, Order: 1,
					Validation: []models.ValidationRule{{Kind: models.RuleCustom, Expr: expr}}},
				{ID: "other", Label: "Other", Type: models.FieldText, Order: 2},
			},
		}
	}

	t.Run("MissingExprRejected", func(t *testing.T) {
		_, err := engine.Load(base(nil))
		var cfgErr *engine.ConfigError
		assert.ErrorAs(t, err, &cfgErr)
	})

	t.Run("MultipleVariantsRejected", func(t *testing.T) {
		_, err := engine.Load(base(&models.Expr{
			Field: "amount", Op: "gt", Value: 1,
			Sum: []string{"amount"},
		}))
		var cfgErr *engine.ConfigError
		assert.ErrorAs(t, err, &cfgErr)
	})

	t.Run("UndeclaredFieldRejected", func(t *testing.T) {
		_, err := engine.Load(base(&models.Expr{Field: "ghost", Op: "eq", Value: 1}))
		var cfgErr *engine.ConfigError
		assert.ErrorAs(t, err, &cfgErr)
	})

	t.Run("SumOverNonNumericFieldRejected", func(t *testing.T) {
		_, err := engine.Load(base(&models.Expr{Sum: []string{"amount", "other"}, Op: "gte", Value: 1}))
		var cfgErr *engine.ConfigError
		assert.ErrorAs(t, err, &cfgErr)
	})

	t.Run("UnknownComparatorRejected", func(t *testing.T) {
		_, err := engine.Load(base(&models.Expr{Field: "amount", Op: "approx", Value: 1}))
		var cfgErr *engine.ConfigError
		assert.ErrorAs(t, err, &cfgErr)
	})

	t.Run("CombinatorsEvaluate", func(t *testing.T) {
		catalog, err := engine.Load(base(&models.Expr{
			Any: []models.Expr{
				{Field: "amount", Op: "gte", Value: 100},
				{All: []models.Expr{
					{Field: "other", Op: "eq", Value: "vip"},
					{Not: &models.Expr{Field: "amount", Op: "lt", Value: 10}},
				}},
			},
		}))
		assert.NoError(t, err)

		assert.True(t, catalog.Validate("amount", float64(150), models.AnswerSet{}).Valid())
		assert.False(t, catalog.Validate("amount", float64(50), models.AnswerSet{}).Valid())
		assert.True(t, catalog.Validate("amount", float64(50), models.AnswerSet{"other": "vip"}).Valid())
	})

	t.Run("InMembership", func(t *testing.T) {
		catalog, err := engine.Load(base(&models.Expr{
			Field: "amount", Op: "in", Value: []interface{}{float64(1), float64(2)},
		}))
		assert.NoError(t, err)
		assert.True(t, catalog.Validate("amount", float64(2), models.AnswerSet{}).Valid())
		assert.False(t, catalog.Validate("amount", float64(3), models.AnswerSet{}).Valid())
	})
}
