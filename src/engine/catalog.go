package engine

import (
	"regexp"
	"sort"

	"franchise-intake-api/src/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// compiledRule is a ValidationRule with its expensive parts (regexp,
// expression tree) prepared once at load time.
type compiledRule struct {
	rule models.ValidationRule
	re   *regexp.Regexp
	expr *exprNode
}

// Catalog is the loaded, indexed form configuration shared read-only by
// every session. All referential checks run in Load; after that every
// lookup is total.
type Catalog struct {
	formID       primitive.ObjectID
	settings     models.FormSettings
	fields       map[string]*models.FieldDefinition
	declared     map[string]int // insertion index, breaks Order ties
	steps        []models.FormStep
	stepOf       map[string]int
	fieldsByStep map[int][]*models.FieldDefinition
	rules        map[string][]compiledRule
}

// Load indexes a form config and rejects malformed configuration:
// duplicate or unknown field ids, non-contiguous step numbers, fields
// outside any step, forward or cyclic visibility dependencies, and
// invalid validation rules. Returns a *ConfigError on the first problem
// found.
func Load(cfg *models.FormConfig) (*Catalog, error) {
	if len(cfg.Steps) == 0 {
		return nil, configErr("", "form has no steps")
	}

	c := &Catalog{
		formID:       cfg.ID,
		settings:     cfg.Settings,
		fields:       make(map[string]*models.FieldDefinition, len(cfg.Fields)),
		declared:     make(map[string]int, len(cfg.Fields)),
		stepOf:       make(map[string]int, len(cfg.Fields)),
		fieldsByStep: make(map[int][]*models.FieldDefinition, len(cfg.Steps)),
		rules:        make(map[string][]compiledRule, len(cfg.Fields)),
	}

	for i := range cfg.Fields {
		f := &cfg.Fields[i]
		if f.ID == "" {
			return nil, configErr("", "field at position %d has no id", i)
		}
		if _, dup := c.fields[f.ID]; dup {
			return nil, configErr(f.ID, "duplicate field id")
		}
		if !f.Type.IsValid() {
			return nil, configErr(f.ID, "unknown field type %q", f.Type)
		}
		if needsOptions(f.Type) && len(f.Options) == 0 {
			return nil, configErr(f.ID, "field type %q requires options", f.Type)
		}
		c.fields[f.ID] = f
		c.declared[f.ID] = i
	}

	c.steps = append(c.steps, cfg.Steps...)
	sort.SliceStable(c.steps, func(i, j int) bool {
		return c.steps[i].StepNumber < c.steps[j].StepNumber
	})
	for i, step := range c.steps {
		if step.StepNumber != i+1 {
			return nil, configErr("", "step numbers must be contiguous starting at 1, got %d at position %d", step.StepNumber, i)
		}
		for _, id := range step.FieldIDs {
			f, ok := c.fields[id]
			if !ok {
				return nil, configErr(id, "step %d references undeclared field", step.StepNumber)
			}
			if prev, assigned := c.stepOf[id]; assigned {
				return nil, configErr(id, "field appears in both step %d and step %d", prev, step.StepNumber)
			}
			c.stepOf[id] = step.StepNumber
			c.fieldsByStep[step.StepNumber] = append(c.fieldsByStep[step.StepNumber], f)
		}
	}
	for id := range c.fields {
		if _, ok := c.stepOf[id]; !ok {
			return nil, configErr(id, "field belongs to no step")
		}
	}

	// Display order within a step: Order ascending, declaration order on
	// ties.
	for _, fields := range c.fieldsByStep {
		sort.SliceStable(fields, func(i, j int) bool {
			if fields[i].Order != fields[j].Order {
				return fields[i].Order < fields[j].Order
			}
			return c.declared[fields[i].ID] < c.declared[fields[j].ID]
		})
	}

	if err := c.checkConditions(); err != nil {
		return nil, err
	}
	if err := c.compileRules(); err != nil {
		return nil, err
	}
	return c, nil
}

func needsOptions(t models.FieldType) bool {
	switch t {
	case models.FieldSelect, models.FieldRadio, models.FieldCheckbox, models.FieldMultiselect:
		return true
	}
	return false
}

var knownOperators = map[models.ConditionOperator]bool{
	models.OpEquals: true, models.OpNotEquals: true,
	models.OpContains: true, models.OpNotContains: true,
	models.OpGreaterThan: true, models.OpLessThan: true,
	models.OpEmpty: true, models.OpNotEmpty: true,
}

// checkConditions rejects visibility rules pointing at undeclared
// fields, fields in later steps, and dependency cycles within a step.
func (c *Catalog) checkConditions() error {
	for id, f := range c.fields {
		cond := f.Conditional
		if cond == nil {
			continue
		}
		if !knownOperators[cond.Operator] {
			return configErr(id, "unknown condition operator %q", cond.Operator)
		}
		dep, ok := c.fields[cond.DependsOn]
		if !ok {
			return configErr(id, "condition depends on undeclared field %q", cond.DependsOn)
		}
		if dep.ID == id {
			return configErr(id, "condition depends on the field itself")
		}
		if c.stepOf[dep.ID] > c.stepOf[id] {
			return configErr(id, "condition depends on field %q in a later step", dep.ID)
		}
		if cond.Operator != models.OpEmpty && cond.Operator != models.OpNotEmpty && cond.Value == nil {
			return configErr(id, "condition operator %q requires a comparison value", cond.Operator)
		}
	}

	// Same-step chains can still loop; walk each dependency path.
	for id := range c.fields {
		seen := map[string]bool{}
		for cur := id; ; {
			if seen[cur] {
				return configErr(id, "cyclic visibility dependency through %q", cur)
			}
			seen[cur] = true
			cond := c.fields[cur].Conditional
			if cond == nil {
				break
			}
			cur = cond.DependsOn
		}
	}
	return nil
}

func (c *Catalog) compileRules() error {
	for id, f := range c.fields {
		for _, rule := range f.Validation {
			cr := compiledRule{rule: rule}
			switch rule.Kind {
			case models.RuleRequired:
			case models.RuleMinLength, models.RuleMaxLength, models.RuleMinValue, models.RuleMaxValue:
				if rule.Limit == nil {
					return configErr(id, "%s rule is missing its limit", rule.Kind)
				}
			case models.RulePattern:
				if rule.Pattern == "" {
					return configErr(id, "pattern rule is missing its pattern")
				}
				re, err := regexp.Compile(rule.Pattern)
				if err != nil {
					return configErr(id, "invalid pattern %q: %v", rule.Pattern, err)
				}
				cr.re = re
			case models.RuleCustom:
				node, err := compileExpr(rule.Expr, c.fields)
				if err != nil {
					return configErr(id, "invalid custom rule: %v", err)
				}
				cr.expr = node
			default:
				return configErr(id, "unknown validation rule kind %q", rule.Kind)
			}
			c.rules[id] = append(c.rules[id], cr)
		}
	}
	return nil
}

// Get resolves a field definition or reports ErrFieldNotFound.
func (c *Catalog) Get(fieldID string) (*models.FieldDefinition, error) {
	f, ok := c.fields[fieldID]
	if !ok {
		return nil, ErrFieldNotFound
	}
	return f, nil
}

// Has reports whether the catalog declares fieldID.
func (c *Catalog) Has(fieldID string) bool {
	_, ok := c.fields[fieldID]
	return ok
}

// FieldsForStep returns the step's fields in display order. Unknown
// step numbers yield an empty slice.
func (c *Catalog) FieldsForStep(stepNumber int) []*models.FieldDefinition {
	return c.fieldsByStep[stepNumber]
}

// Steps returns the declared steps ordered by step number.
func (c *Catalog) Steps() []models.FormStep {
	return c.steps
}

// Step returns the step declaration for a step number.
func (c *Catalog) Step(stepNumber int) (models.FormStep, bool) {
	if stepNumber < 1 || stepNumber > len(c.steps) {
		return models.FormStep{}, false
	}
	return c.steps[stepNumber-1], true
}

// StepCount returns the declared (not visible) step count.
func (c *Catalog) StepCount() int {
	return len(c.steps)
}

// StepOf returns the step number a field belongs to.
func (c *Catalog) StepOf(fieldID string) int {
	return c.stepOf[fieldID]
}

// Settings exposes the form's behavior options.
func (c *Catalog) Settings() models.FormSettings {
	return c.settings
}

// FormID identifies the source form document.
func (c *Catalog) FormID() primitive.ObjectID {
	return c.formID
}
