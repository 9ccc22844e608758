package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SubmittedAnswer is one transformed answer of a final submission. The
// value has already been coerced to the field's declared type.
type SubmittedAnswer struct {
	FieldID string      `bson:"fieldId" json:"fieldId"`
	Label   string      `bson:"label" json:"label"`
	Value   interface{} `bson:"value" json:"value"`
}

// SubmissionRecord is the final, immutable application record handed to
// persistence. Only answers that were visible and validated at submit
// time are included.
type SubmissionRecord struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	FormID          primitive.ObjectID `bson:"formId,omitempty" json:"formId,omitempty"`
	SourceSessionID string             `bson:"sourceSessionId" json:"sourceSessionId"`
	Answers         []SubmittedAnswer  `bson:"answers" json:"answers"`
	SubmittedAt     time.Time          `bson:"submittedAt" json:"submittedAt"`
	DeliveredAt     *time.Time         `bson:"deliveredAt,omitempty" json:"deliveredAt,omitempty"`
}

// SubmitResponse acknowledges an accepted submission.
type SubmitResponse struct {
	ConfirmationID string `json:"confirmationId"`
}

// PaginatedSubmissionsResponse lists stored submissions for the admin
// surface.
type PaginatedSubmissionsResponse struct {
	Submissions []SubmissionRecord `json:"submissions"`
	Total       int64              `json:"total"`
	Page        int                `json:"page"`
	Limit       int                `json:"limit"`
	TotalPages  int                `json:"totalPages"`
}
