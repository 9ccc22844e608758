package submissions

import (
	"context"
	"log"

	DB "franchise-intake-api/src/database"
	"franchise-intake-api/src/jobs"
	"franchise-intake-api/src/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Create persists a final submission record and queues its delivery to
// the CRM. The insert is awaited — the wizard only completes once the
// record is safely stored — while delivery retries in the background.
func Create(ctx context.Context, record *models.SubmissionRecord) (string, error) {
	record.ID = primitive.NewObjectID()

	res, err := DB.SubmissionCollection.InsertOne(ctx, record)
	if err != nil {
		return "", err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		record.ID = oid
	}

	log.Println("✅ Submission stored:", record.ID.Hex(), "session:", record.SourceSessionID)

	if err := jobs.EnqueueDeliverSubmission(record.ID.Hex()); err != nil {
		// Delivery is retried by the pending sweep; acceptance stands.
		log.Println("⚠️ Failed to enqueue submission delivery:", err)
	}
	if err := jobs.EnqueueConfirmationEmail(record.ID.Hex()); err != nil {
		log.Println("⚠️ Failed to enqueue confirmation email:", err)
	}

	return record.ID.Hex(), nil
}

// GetByID loads one stored submission.
func GetByID(ctx context.Context, id primitive.ObjectID) (*models.SubmissionRecord, error) {
	var record models.SubmissionRecord
	if err := DB.SubmissionCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&record); err != nil {
		return nil, err
	}
	return &record, nil
}

// List returns stored submissions for the admin surface, newest first.
func List(ctx context.Context, params models.PaginationParams) (*models.PaginatedSubmissionsResponse, error) {
	total, err := DB.SubmissionCollection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, err
	}

	opts := options.Find().
		SetSkip(params.GetSkip()).
		SetLimit(int64(params.Limit)).
		SetSort(params.GetSortOrder())

	cursor, err := DB.SubmissionCollection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []models.SubmissionRecord
	if err = cursor.All(ctx, &records); err != nil {
		return nil, err
	}

	return &models.PaginatedSubmissionsResponse{
		Submissions: records,
		Total:       total,
		Page:        params.Page,
		Limit:       params.Limit,
		TotalPages:  params.TotalPages(total),
	}, nil
}
