package jobs

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	DB "franchise-intake-api/src/database"
	"franchise-intake-api/src/models"
	"franchise-intake-api/src/services/mailer"

	"github.com/hibiken/asynq"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// HandleConfirmationEmailTask sends the applicant their receipt. A
// misconfigured SMTP environment or a submission without an email
// answer drops the task instead of retrying: the receipt is an
// optional courtesy.
func HandleConfirmationEmailTask(ctx context.Context, t *asynq.Task) error {
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
			log.Println("⚠️ Submission not found. Skipping confirmation email:", id.Hex())
			return nil
		}
		return err
	}

	to := applicantEmail(&record)
	if to == "" {
		log.Println("⚠️ Submission has no email answer. Skipping confirmation:", id.Hex())
		return nil
	}

	sender, err := mailer.NewSMTPSenderFromEnv()
	if err != nil {
		log.Println("⚠️ Mail sender not configured. Skipping confirmation:", err)
		return nil
	}

	title := formTitle(ctx, record.FormID)
	html, err := mailer.RenderConfirmationHTML(mailer.ConfirmationData{
		FormTitle:      title,
		ConfirmationID: record.ID.Hex(),
		SubmittedAt:    record.SubmittedAt.Format(time.RFC1123),
		Answers:        record.Answers,
	})
	if err != nil {
		return err
	}

	if err := sender.Send(to, "We received your franchise application", html); err != nil {
		log.Println("⚠️ Confirmation email failed, will retry:", err)
		return err
	}
	log.Println("✅ Confirmation email sent for submission:", id.Hex())
	return nil
}

// applicantEmail picks the first answer that looks like an email
// address. Field ids are form-specific, so the value shape is the only
// reliable signal.
func applicantEmail(record *models.SubmissionRecord) string {
	for _, a := range record.Answers {
		s, ok := a.Value.(string)
		if !ok {
			continue
		}
		s = strings.TrimSpace(s)
		if strings.Contains(s, "@") && strings.Contains(s, ".") {
			return s
		}
	}
	return ""
}

func formTitle(ctx context.Context, formID primitive.ObjectID) string {
	if formID.IsZero() {
		return ""
	}
	var form models.FormConfig
	if err := DB.FormCollection.FindOne(ctx, bson.M{"_id": formID}).Decode(&form); err != nil {
		return ""
	}
	return form.Title
}
