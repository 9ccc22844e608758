package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FormStep is an ordered group of fields presented together in the
// wizard. Step numbers are 1-based and contiguous; every field belongs
// to exactly one step.
type FormStep struct {
	StepNumber  int      `bson:"stepNumber" json:"stepNumber"`
	Title       string   `bson:"title" json:"title"`
	Description string   `bson:"description,omitempty" json:"description,omitempty"`
	FieldIDs    []string `bson:"fieldIds" json:"fieldIds"`
}

// FormSettings are the recognized behavior switches of a form document.
// Absent options take the documented defaults (autosave on, every 30s,
// sessions expire after 30 minutes).
type FormSettings struct {
	AllowSaveDraft    bool  `bson:"allowSaveDraft" json:"allowSaveDraft"`
	SessionTimeoutMin int   `bson:"sessionTimeout" json:"sessionTimeout"`
	EnableAutoSave    *bool `bson:"enableAutoSave,omitempty" json:"enableAutoSave,omitempty"`
	AutoSaveIntervalS int   `bson:"autoSaveInterval" json:"autoSaveInterval"`
	ShowProgressBar   bool  `bson:"showProgressBar" json:"showProgressBar"`
}

const (
	DefaultAutoSaveIntervalS = 30
	DefaultSessionTimeoutMin = 30
)

// AutoSaveEnabled resolves the enableAutoSave option (default true).
func (s FormSettings) AutoSaveEnabled() bool {
	return s.EnableAutoSave == nil || *s.EnableAutoSave
}

// AutoSaveInterval resolves autoSaveInterval as a duration.
func (s FormSettings) AutoSaveInterval() time.Duration {
	if s.AutoSaveIntervalS <= 0 {
		return DefaultAutoSaveIntervalS * time.Second
	}
	return time.Duration(s.AutoSaveIntervalS) * time.Second
}

// SessionTimeout resolves sessionTimeout as a duration.
func (s FormSettings) SessionTimeout() time.Duration {
	if s.SessionTimeoutMin <= 0 {
		return DefaultSessionTimeoutMin * time.Minute
	}
	return time.Duration(s.SessionTimeoutMin) * time.Minute
}

// FormConfig is the form document authored in the CMS. The engine
// consumes it read-only; unknown extra attributes in the stored document
// are tolerated for forward compatibility.
type FormConfig struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Slug        string             `bson:"slug" json:"slug"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	IsActive    bool               `bson:"isActive" json:"isActive"`
	Settings    FormSettings       `bson:"settings" json:"settings"`
	Steps       []FormStep         `bson:"steps" json:"steps"`
	Fields      []FieldDefinition  `bson:"fields" json:"fields"`
	CreatedAt   time.Time          `bson:"createdAt,omitempty" json:"createdAt,omitempty"`
	UpdatedAt   time.Time          `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}
