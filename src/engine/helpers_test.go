package engine_test

import (
	"testing"

	"franchise-intake-api/src/engine"
	"franchise-intake-api/src/models"
)

func floatPtr(f float64) *float64 { return &f }

// intakeConfig is a trimmed franchise application used by most tests:
// step 3 hides entirely when hasPriorExperience is false, and
// industryOther depends on a field that can itself be hidden.
func intakeConfig() *models.FormConfig {
	return &models.FormConfig{
		Slug:  "intake-test",
		Title: "Test Intake",
		Settings: models.FormSettings{
			AllowSaveDraft:    true,
			ShowProgressBar:   true,
			SessionTimeoutMin: 30,
			AutoSaveIntervalS: 30,
		},
		Steps: []models.FormStep{
			{StepNumber: 1, Title: "About You", FieldIDs: []string{"fullName", "hasPriorExperience"}},
			{StepNumber: 2, Title: "Contact", FieldIDs: []string{"email", "experienceDetails"}},
			{StepNumber: 3, Title: "Experience", FieldIDs: []string{"yearsInBusiness", "industries", "industryOther"}},
			{StepNumber: 4, Title: "Financials", FieldIDs: []string{"liquidCapital", "netWorth", "agreeTerms"}},
		},
		Fields: []models.FieldDefinition{
			{ID: "fullName", Label: "Full name", Type: models.FieldText, Order: 1,
				Validation: []models.ValidationRule{
					{Kind: models.RuleRequired},
					{Kind: models.RuleMinLength, Limit: floatPtr(2)},
					{Kind: models.RuleMaxLength, Limit: floatPtr(50)},
				}},
			{ID: "hasPriorExperience", Label: "Owned a business before?", Type: models.FieldBoolean, Order: 2,
				Validation: []models.ValidationRule{{Kind: models.RuleRequired}}},

			{ID: "email", Label: "Email", Type: models.FieldEmail, Order: 1,
				Validation: []models.ValidationRule{
					{Kind: models.RuleRequired},
					{Kind: models.RulePattern, Pattern: `^.+@.+\..+$`},
				}},
			{ID: "experienceDetails", Label: "Experience details", Type: models.FieldTextarea, Order: 2,
				Conditional: &models.ConditionRule{DependsOn: "hasPriorExperience", Operator: models.OpEquals, Value: true},
				Validation:  []models.ValidationRule{{Kind: models.RuleRequired}, {Kind: models.RuleMinLength, Limit: floatPtr(5)}}},

			{ID: "yearsInBusiness", Label: "Years in business", Type: models.FieldNumber, Order: 1,
				Conditional: &models.ConditionRule{DependsOn: "hasPriorExperience", Operator: models.OpEquals, Value: true},
				Validation: []models.ValidationRule{
					{Kind: models.RuleMinValue, Limit: floatPtr(0)},
					{Kind: models.RuleMaxValue, Limit: floatPtr(60)},
				}},
			{ID: "industries", Label: "Industries", Type: models.FieldMultiselect, Order: 2,
				Conditional: &models.ConditionRule{DependsOn: "hasPriorExperience", Operator: models.OpEquals, Value: true},
				Options: []models.FieldOption{
					{Label: "Food", Value: "food"},
					{Label: "Retail", Value: "retail"},
					{Label: "Other", Value: "other"},
				}},
			{ID: "industryOther", Label: "Which industry?", Type: models.FieldText, Order: 3,
				Conditional: &models.ConditionRule{DependsOn: "industries", Operator: models.OpContains, Value: "other"}},

			{ID: "liquidCapital", Label: "Liquid capital", Type: models.FieldNumber, Order: 1,
				Validation: []models.ValidationRule{{Kind: models.RuleRequired}, {Kind: models.RuleMinValue, Limit: floatPtr(0)}}},
			{ID: "netWorth", Label: "Net worth", Type: models.FieldNumber, Order: 2,
				Validation: []models.ValidationRule{
					{Kind: models.RuleRequired},
					{Kind: models.RuleCustom,
						Expr:         &models.Expr{Sum: []string{"liquidCapital", "netWorth"}, Op: "gte", Value: 1000},
						ErrorMessage: "Not enough combined capital"},
				}},
			{ID: "agreeTerms", Label: "Agree", Type: models.FieldBoolean, Order: 3,
				Validation: []models.ValidationRule{
					{Kind: models.RuleRequired},
					{Kind: models.RuleCustom, Expr: &models.Expr{Field: "agreeTerms", Op: "eq", Value: true}},
				}},
		},
	}
}

func loadIntake(t *testing.T) *engine.Catalog {
	t.Helper()
	catalog, err := engine.Load(intakeConfig())
	if err != nil {
		t.Fatalf("loading test config: %v", err)
	}
	return catalog
}

// validAnswers fills every field of the no-experience path.
func validAnswers() models.AnswerSet {
	return models.AnswerSet{
		"fullName":           "Jordan Smith",
		"hasPriorExperience": false,
		"email":              "jordan@example.com",
		"liquidCapital":      float64(800),
		"netWorth":           float64(400),
		"agreeTerms":         true,
	}
}
