package models

// FieldType identifies the widget/value shape of a form field.
type FieldType string

const (
	FieldText        FieldType = "text"
	FieldTextarea    FieldType = "textarea"
	FieldEmail       FieldType = "email"
	FieldPhone       FieldType = "phone"
	FieldNumber      FieldType = "number"
	FieldSelect      FieldType = "select"
	FieldRadio       FieldType = "radio"
	FieldCheckbox    FieldType = "checkbox"
	FieldDate        FieldType = "date"
	FieldURL         FieldType = "url"
	FieldFile        FieldType = "file"
	FieldRange       FieldType = "range"
	FieldMultiselect FieldType = "multiselect"
	FieldRating      FieldType = "rating"
	FieldBoolean     FieldType = "boolean"
)

// AllFieldTypes is the closed set accepted from form configuration.
var AllFieldTypes = []FieldType{
	FieldText, FieldTextarea, FieldEmail, FieldPhone, FieldNumber,
	FieldSelect, FieldRadio, FieldCheckbox, FieldDate, FieldURL,
	FieldFile, FieldRange, FieldMultiselect, FieldRating, FieldBoolean,
}

// IsNumeric reports whether answers for this type compare as numbers.
func (t FieldType) IsNumeric() bool {
	return t == FieldNumber || t == FieldRange || t == FieldRating
}

// IsMulti reports whether answers for this type are collections of values.
func (t FieldType) IsMulti() bool {
	return t == FieldCheckbox || t == FieldMultiselect
}

// IsValid reports whether t is one of the declared field types.
func (t FieldType) IsValid() bool {
	for _, known := range AllFieldTypes {
		if t == known {
			return true
		}
	}
	return false
}

// FieldOption is one selectable choice of a select/radio/checkbox field.
type FieldOption struct {
	Label string `bson:"label" json:"label"`
	Value string `bson:"value" json:"value"`
}

// RuleKind identifies a validation rule variant.
type RuleKind string

const (
	RuleRequired  RuleKind = "required"
	RuleMinLength RuleKind = "minLength"
	RuleMaxLength RuleKind = "maxLength"
	RuleMinValue  RuleKind = "minValue"
	RuleMaxValue  RuleKind = "maxValue"
	RulePattern   RuleKind = "pattern"
	RuleCustom    RuleKind = "custom"
)

// ValidationRule is one declarative constraint on a field's answer.
// Limit carries the bound for minLength/maxLength/minValue/maxValue,
// Pattern the regular expression for pattern rules, and Expr the
// declarative expression for custom rules. Custom rules never carry
// executable code; Expr is parsed into a closed expression tree at
// catalog load time.
type ValidationRule struct {
	Kind         RuleKind `bson:"kind" json:"kind"`
	Limit        *float64 `bson:"limit,omitempty" json:"limit,omitempty"`
	Pattern      string   `bson:"pattern,omitempty" json:"pattern,omitempty"`
	Expr         *Expr    `bson:"expr,omitempty" json:"expr,omitempty"`
	ErrorMessage string   `bson:"errorMessage,omitempty" json:"errorMessage,omitempty"`
}

// ConditionOperator identifies a visibility predicate variant.
type ConditionOperator string

const (
	OpEquals      ConditionOperator = "equals"
	OpNotEquals   ConditionOperator = "not_equals"
	OpContains    ConditionOperator = "contains"
	OpNotContains ConditionOperator = "not_contains"
	OpGreaterThan ConditionOperator = "greater_than"
	OpLessThan    ConditionOperator = "less_than"
	OpEmpty       ConditionOperator = "empty"
	OpNotEmpty    ConditionOperator = "not_empty"
)

// ConditionRule makes a field's visibility depend on another field's
// current answer. Value is the comparison operand; it is absent for
// empty/not_empty.
type ConditionRule struct {
	DependsOn string            `bson:"dependsOnFieldId" json:"dependsOnFieldId"`
	Operator  ConditionOperator `bson:"operator" json:"operator"`
	Value     interface{}       `bson:"value,omitempty" json:"value,omitempty"`
}

// FieldDefinition describes one question of the intake form. Field ids
// are unique across the whole form; Order sequences fields within their
// step (ties break by declaration order in the configuration).
type FieldDefinition struct {
	ID          string           `bson:"id" json:"id"`
	Label       string           `bson:"label" json:"label"`
	Type        FieldType        `bson:"type" json:"type"`
	Placeholder string           `bson:"placeholder,omitempty" json:"placeholder,omitempty"`
	HelpText    string           `bson:"helpText,omitempty" json:"helpText,omitempty"`
	Options     []FieldOption    `bson:"options,omitempty" json:"options,omitempty"`
	Validation  []ValidationRule `bson:"validation,omitempty" json:"validation,omitempty"`
	Conditional *ConditionRule   `bson:"conditional,omitempty" json:"conditional,omitempty"`
	Order       int              `bson:"order" json:"order"`
}
