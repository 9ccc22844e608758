package engine_test

import (
	"testing"

	"franchise-intake-api/src/engine"
	"franchise-intake-api/src/models"

	"github.com/stretchr/testify/assert"
)

func TestCatalogLoad(t *testing.T) {
	t.Run("ValidConfigLoads", func(t *testing.T) {
		catalog := loadIntake(t)
		assert.Equal(t, 4, catalog.StepCount())

		f, err := catalog.Get("email")
		assert.NoError(t, err)
		assert.Equal(t, models.FieldEmail, f.Type)
	})

	t.Run("GetUnknownFieldFails", func(t *testing.T) {
		catalog := loadIntake(t)
		_, err := catalog.Get("noSuchField")
		assert.ErrorIs(t, err, engine.ErrFieldNotFound)
	})

	t.Run("FieldsForStepOrdering", func(t *testing.T) {
		cfg := intakeConfig()
		// Same Order on two step-1 fields: declaration order must win.
		cfg.Fields[0].Order = 7
		cfg.Fields[1].Order = 7
		catalog, err := engine.Load(cfg)
		assert.NoError(t, err)

		fields := catalog.FieldsForStep(1)
		assert.Len(t, fields, 2)
		assert.Equal(t, "fullName", fields[0].ID)
		assert.Equal(t, "hasPriorExperience", fields[1].ID)
	})

	t.Run("DuplicateFieldIDRejected", func(t *testing.T) {
		cfg := intakeConfig()
		cfg.Fields = append(cfg.Fields, models.FieldDefinition{ID: "email", Label: "Again", Type: models.FieldText})
		_, err := engine.Load(cfg)
		var cfgErr *engine.ConfigError
		assert.ErrorAs(t, err, &cfgErr)
	})

	t.Run("StepReferencingUnknownFieldRejected", func(t *testing.T) {
		cfg := intakeConfig()
		cfg.Steps[0].FieldIDs = append(cfg.Steps[0].FieldIDs, "ghostField")
		_, err := engine.Load(cfg)
		var cfgErr *engine.ConfigError
		assert.ErrorAs(t, err, &cfgErr)
		assert.Contains(t, err.Error(), "ghostField")
	})

	t.Run("NonContiguousStepsRejected", func(t *testing.T) {
		cfg := intakeConfig()
		cfg.Steps[3].StepNumber = 9
		_, err := engine.Load(cfg)
		var cfgErr *engine.ConfigError
		assert.ErrorAs(t, err, &cfgErr)
	})

	t.Run("FieldOutsideAnyStepRejected", func(t *testing.T) {
		cfg := intakeConfig()
		cfg.Fields = append(cfg.Fields, models.FieldDefinition{ID: "orphan", Label: "Orphan", Type: models.FieldText})
		_, err := engine.Load(cfg)
		var cfgErr *engine.ConfigError
		assert.ErrorAs(t, err, &cfgErr)
		assert.Contains(t, err.Error(), "orphan")
	})

	t.Run("ForwardConditionReferenceRejected", func(t *testing.T) {
		cfg := intakeConfig()
		// fullName (step 1) depending on liquidCapital (step 4).
		cfg.Fields[0].Conditional = &models.ConditionRule{
			DependsOn: "liquidCapital", Operator: models.OpNotEmpty,
		}
		_, err := engine.Load(cfg)
		var cfgErr *engine.ConfigError
		assert.ErrorAs(t, err, &cfgErr)
		assert.Contains(t, err.Error(), "later step")
	})

	t.Run("CyclicConditionRejected", func(t *testing.T) {
		cfg := intakeConfig()
		// fullName and hasPriorExperience sit in the same step.
		cfg.Fields[0].Conditional = &models.ConditionRule{
			DependsOn: "hasPriorExperience", Operator: models.OpNotEmpty,
		}
		cfg.Fields[1].Conditional = &models.ConditionRule{
			DependsOn: "fullName", Operator: models.OpNotEmpty,
		}
		_, err := engine.Load(cfg)
		var cfgErr *engine.ConfigError
		assert.ErrorAs(t, err, &cfgErr)
		assert.Contains(t, err.Error(), "cyclic")
	})

	t.Run("UnknownOperatorRejected", func(t *testing.T) {
		cfg := intakeConfig()
		cfg.Fields[3].Conditional = &models.ConditionRule{
			DependsOn: "fullName", Operator: "sounds_like", Value: "x",
		}
		_, err := engine.Load(cfg)
		var cfgErr *engine.ConfigError
		assert.ErrorAs(t, err, &cfgErr)
	})

	t.Run("InvalidPatternRejected", func(t *testing.T) {
		cfg := intakeConfig()
		cfg.Fields[2].Validation = []models.ValidationRule{
			{Kind: models.RulePattern, Pattern: "([unclosed"},
		}
		_, err := engine.Load(cfg)
		var cfgErr *engine.ConfigError
		assert.ErrorAs(t, err, &cfgErr)
	})

	t.Run("MissingLimitRejected", func(t *testing.T) {
		cfg := intakeConfig()
		cfg.Fields[0].Validation = []models.ValidationRule{{Kind: models.RuleMinLength}}
		_, err := engine.Load(cfg)
		var cfgErr *engine.ConfigError
		assert.ErrorAs(t, err, &cfgErr)
	})

	t.Run("OptionsRequiredForChoiceFields", func(t *testing.T) {
		cfg := intakeConfig()
		for i := range cfg.Fields {
			if cfg.Fields[i].ID == "industries" {
				cfg.Fields[i].Options = nil
			}
		}
		_, err := engine.Load(cfg)
		var cfgErr *engine.ConfigError
		assert.ErrorAs(t, err, &cfgErr)
	})

	t.Run("UnknownFieldTypeRejected", func(t *testing.T) {
		cfg := intakeConfig()
		cfg.Fields[0].Type = "hologram"
		_, err := engine.Load(cfg)
		var cfgErr *engine.ConfigError
		assert.ErrorAs(t, err, &cfgErr)
	})
}
