package seeder

import (
	"context"
	"log"

	DB "franchise-intake-api/src/database"
	"franchise-intake-api/src/models"
	"franchise-intake-api/src/services/forms"

	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/crypto/bcrypt"
)

func floatPtr(f float64) *float64 { return &f }

// SeedDefaultForm inserts the franchise application form when the forms
// collection is empty, so a fresh environment serves a working wizard.
func SeedDefaultForm(ctx context.Context) error {
	count, err := DB.FormCollection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	cfg := &models.FormConfig{
		Slug:        "franchise-application",
		Title:       "Franchise Application",
		Description: "Tell us about yourself and your plans. Your progress is saved automatically.",
		IsActive:    true,
		Settings: models.FormSettings{
			AllowSaveDraft:    true,
			SessionTimeoutMin: 30,
			AutoSaveIntervalS: 30,
			ShowProgressBar:   true,
		},
		Steps: []models.FormStep{
			{StepNumber: 1, Title: "Contact Information", FieldIDs: []string{
				"firstName", "lastName", "email", "phone", "city",
			}},
			{StepNumber: 2, Title: "Business Experience", FieldIDs: []string{
				"hasPriorExperience", "experienceDetails", "yearsInBusiness", "industries",
			}},
			{StepNumber: 3, Title: "Financials", FieldIDs: []string{
				"liquidCapital", "netWorth", "fundingSource", "fundingSourceOther",
			}},
			{StepNumber: 4, Title: "Review & Agreement", FieldIDs: []string{
				"preferredOpening", "comments", "agreeTerms",
			}},
		},
		Fields: []models.FieldDefinition{
			{
				ID: "firstName", Label: "First name", Type: models.FieldText, Order: 1,
				Validation: []models.ValidationRule{
					{Kind: models.RuleRequired},
					{Kind: models.RuleMaxLength, Limit: floatPtr(60)},
				},
			},
			{
				ID: "lastName", Label: "Last name", Type: models.FieldText, Order: 2,
				Validation: []models.ValidationRule{
					{Kind: models.RuleRequired},
					{Kind: models.RuleMaxLength, Limit: floatPtr(60)},
				},
			},
			{
				ID: "email", Label: "Email address", Type: models.FieldEmail, Order: 3,
				Validation: []models.ValidationRule{
					{Kind: models.RuleRequired},
					{Kind: models.RulePattern, Pattern: `^.+@.+\..+$`, ErrorMessage: "Enter a valid email address"},
				},
			},
			{
				ID: "phone", Label: "Phone number", Type: models.FieldPhone, Order: 4,
				Validation: []models.ValidationRule{
					{Kind: models.RuleRequired},
					{Kind: models.RulePattern, Pattern: `^[0-9+\-() ]{7,20}$`, ErrorMessage: "Enter a valid phone number"},
				},
			},
			{
				ID: "city", Label: "City of interest", Type: models.FieldText, Order: 5,
				Validation: []models.ValidationRule{{Kind: models.RuleRequired}},
			},

			{
				ID: "hasPriorExperience", Label: "Have you owned a business before?", Type: models.FieldBoolean, Order: 1,
				Validation: []models.ValidationRule{{Kind: models.RuleRequired}},
			},
			{
				ID: "experienceDetails", Label: "Tell us about your business experience", Type: models.FieldTextarea, Order: 2,
				Conditional: &models.ConditionRule{
					DependsOn: "hasPriorExperience", Operator: models.OpEquals, Value: true,
				},
				Validation: []models.ValidationRule{
					{Kind: models.RuleRequired},
					{Kind: models.RuleMinLength, Limit: floatPtr(20)},
				},
			},
			{
				ID: "yearsInBusiness", Label: "Years of business experience", Type: models.FieldNumber, Order: 3,
				Conditional: &models.ConditionRule{
					DependsOn: "hasPriorExperience", Operator: models.OpEquals, Value: true,
				},
				Validation: []models.ValidationRule{
					{Kind: models.RuleMinValue, Limit: floatPtr(0)},
					{Kind: models.RuleMaxValue, Limit: floatPtr(60)},
				},
			},
			{
				ID: "industries", Label: "Industries you have worked in", Type: models.FieldMultiselect, Order: 4,
				Conditional: &models.ConditionRule{
					DependsOn: "hasPriorExperience", Operator: models.OpEquals, Value: true,
				},
				Options: []models.FieldOption{
					{Label: "Food & Beverage", Value: "food"},
					{Label: "Retail", Value: "retail"},
					{Label: "Fitness", Value: "fitness"},
					{Label: "Services", Value: "services"},
					{Label: "Other", Value: "other"},
				},
			},

			{
				ID: "liquidCapital", Label: "Liquid capital available (USD)", Type: models.FieldNumber, Order: 1,
				Validation: []models.ValidationRule{
					{Kind: models.RuleRequired},
					{Kind: models.RuleMinValue, Limit: floatPtr(0)},
				},
			},
			{
				ID: "netWorth", Label: "Total net worth (USD)", Type: models.FieldNumber, Order: 2,
				Validation: []models.ValidationRule{
					{Kind: models.RuleRequired},
					{Kind: models.RuleMinValue, Limit: floatPtr(0)},
					{
						Kind: models.RuleCustom,
						Expr: &models.Expr{
							Sum: []string{"liquidCapital", "netWorth"}, Op: "gte", Value: 150000,
						},
						ErrorMessage: "Combined capital and net worth must be at least $150,000",
					},
				},
			},
			{
				ID: "fundingSource", Label: "Primary funding source", Type: models.FieldSelect, Order: 3,
				Options: []models.FieldOption{
					{Label: "Personal savings", Value: "savings"},
					{Label: "Bank loan", Value: "loan"},
					{Label: "Investors", Value: "investors"},
					{Label: "Other", Value: "other"},
				},
				Validation: []models.ValidationRule{{Kind: models.RuleRequired}},
			},
			{
				ID: "fundingSourceOther", Label: "Describe your funding source", Type: models.FieldText, Order: 4,
				Conditional: &models.ConditionRule{
					DependsOn: "fundingSource", Operator: models.OpEquals, Value: "other",
				},
				Validation: []models.ValidationRule{{Kind: models.RuleRequired}},
			},

			{
				ID: "preferredOpening", Label: "Preferred opening date", Type: models.FieldDate, Order: 1,
			},
			{
				ID: "comments", Label: "Anything else we should know?", Type: models.FieldTextarea, Order: 2,
				Validation: []models.ValidationRule{
					{Kind: models.RuleMaxLength, Limit: floatPtr(2000)},
				},
			},
			{
				ID: "agreeTerms", Label: "I confirm the information above is accurate", Type: models.FieldBoolean, Order: 3,
				Validation: []models.ValidationRule{
					{Kind: models.RuleRequired},
					{
						Kind: models.RuleCustom,
						Expr: &models.Expr{Field: "agreeTerms", Op: "eq", Value: true},
						ErrorMessage: "You must confirm before submitting",
					},
				},
			},
		},
	}

	if _, err := forms.UpsertForm(ctx, cfg); err != nil {
		return err
	}
	log.Println("✅ Seeded default franchise application form")
	return nil
}

// SeedDefaultAdmin creates the initial back-office login when the
// admins collection is empty. Credentials come from the environment in
// real deployments; the defaults are for local development only.
func SeedDefaultAdmin(ctx context.Context, email, password string) error {
	count, err := DB.AdminCollection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	if email == "" || password == "" {
		log.Println("⚠️ ADMIN_EMAIL / ADMIN_PASSWORD not set. No admin seeded.")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	_, err = DB.AdminCollection.InsertOne(ctx, models.Admin{
		Name:     "Administrator",
		Email:    email,
		Password: string(hash),
	})
	if err != nil {
		return err
	}
	log.Println("✅ Seeded default admin:", email)
	return nil
}
