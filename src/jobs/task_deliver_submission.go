package jobs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	DB "franchise-intake-api/src/database"
	"franchise-intake-api/src/models"

	"github.com/hibiken/asynq"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var webhookClient = &http.Client{Timeout: 15 * time.Second}

// HandleDeliverSubmissionTask posts an accepted submission to the CRM
// webhook. Returning an error lets asynq retry with its backoff; a
// submission that disappeared is skipped, not retried forever.
func HandleDeliverSubmissionTask(ctx context.Context, t *asynq.Task) error {
	var payload SubmissionPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		log.Println("❌ Payload decode error:", err)
		return err
	}

	id, err := primitive.ObjectIDFromHex(payload.SubmissionID)
	if err != nil {
		return err
	}

	var record models.SubmissionRecord
	err = DB.SubmissionCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&record)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			log.Println("⚠️ Submission not found. Possibly deleted. Skipping delivery:", id.Hex())
			return nil
		}
		return err
	}
	if record.DeliveredAt != nil {
		return nil
	}

	webhookURL := os.Getenv("CRM_WEBHOOK_URL")
	if webhookURL == "" {
		log.Println("⚠️ CRM_WEBHOOK_URL not set. Marking submission delivered locally:", id.Hex())
	} else {
		if err := postRecord(ctx, webhookURL, &record); err != nil {
			log.Println("⚠️ CRM delivery failed, will retry:", err)
			return err
		}
	}

	now := time.Now().UTC()
	_, err = DB.SubmissionCollection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"deliveredAt": now}},
	)
	if err != nil {
		return err
	}

	log.Println("✅ Submission delivered:", id.Hex())
	return nil
}

func postRecord(ctx context.Context, url string, record *models.SubmissionRecord) error {
	body, err := json.Marshal(record)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := webhookClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}

// HandleSweepPendingTask re-enqueues delivery for submissions that were
// accepted but never delivered (queue outage, webhook downtime).
func HandleSweepPendingTask(ctx context.Context, t *asynq.Task) error {
	cutoff := time.Now().Add(-10 * time.Minute)
	filter := bson.M{
		"deliveredAt": nil,
		"submittedAt": bson.M{"$lt": cutoff},
	}

	cursor, err := DB.SubmissionCollection.Find(ctx, filter)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	var pending []models.SubmissionRecord
	if err := cursor.All(ctx, &pending); err != nil {
		return err
	}

	for _, record := range pending {
		if err := EnqueueDeliverSubmission(record.ID.Hex()); err != nil {
			log.Println("⚠️ Failed to re-enqueue delivery:", err)
		}
	}
	if len(pending) > 0 {
		log.Printf("🔁 Re-enqueued %d pending delivery task(s)", len(pending))
	}
	return nil
}
