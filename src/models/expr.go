package models

// Expr is the declarative expression stored by the CMS for custom
// validation rules. Exactly one variant must be set per node:
//
//   - All/Any: boolean combinators over child expressions
//   - Not: negation of one child
//   - Field+Op(+Value): comparison or membership against one answer
//   - Sum+Op+Value: arithmetic threshold over several numeric answers
//
// The engine compiles this into an evaluable tree at load time and
// rejects anything outside the closed grammar as a configuration error.
// Free-form code is never accepted or executed.
type Expr struct {
	All   []Expr      `bson:"all,omitempty" json:"all,omitempty"`
	Any   []Expr      `bson:"any,omitempty" json:"any,omitempty"`
	Not   *Expr       `bson:"not,omitempty" json:"not,omitempty"`
	Field string      `bson:"field,omitempty" json:"field,omitempty"`
	Sum   []string    `bson:"sum,omitempty" json:"sum,omitempty"`
	Op    string      `bson:"op,omitempty" json:"op,omitempty"`
	Value interface{} `bson:"value,omitempty" json:"value,omitempty"`
}
