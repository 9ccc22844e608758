package jobs

import (
	"encoding/json"
	"errors"

	DB "franchise-intake-api/src/database"

	"github.com/hibiken/asynq"
)

const (
	TypeDeliverSubmission = "submission:deliver"
	TypeConfirmationEmail = "submission:confirm_email"
	TypeSweepPending      = "submission:sweep_pending"
)

type SubmissionPayload struct {
	SubmissionID string `json:"submission_id"`
}

func NewDeliverSubmissionTask(submissionID string) (*asynq.Task, error) {
	payload, err := json.Marshal(SubmissionPayload{SubmissionID: submissionID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeDeliverSubmission, payload, asynq.MaxRetry(5)), nil
}

func NewConfirmationEmailTask(submissionID string) (*asynq.Task, error) {
	payload, err := json.Marshal(SubmissionPayload{SubmissionID: submissionID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeConfirmationEmail, payload, asynq.MaxRetry(3)), nil
}

func NewSweepPendingTask() *asynq.Task {
	return asynq.NewTask(TypeSweepPending, nil)
}

// EnqueueDeliverSubmission queues CRM delivery for an accepted
// submission. Without Redis there is no queue; the pending sweep picks
// the record up once the queue is back.
func EnqueueDeliverSubmission(submissionID string) error {
	if DB.AsynqClient == nil {
		return errors.New("asynq client not initialized")
	}
	task, err := NewDeliverSubmissionTask(submissionID)
	if err != nil {
		return err
	}
	_, err = DB.AsynqClient.Enqueue(task)
	return err
}

// EnqueueConfirmationEmail queues the applicant's receipt email. Unlike
// CRM delivery there is no sweep behind it; a lost receipt is
// acceptable, a lost submission is not.
func EnqueueConfirmationEmail(submissionID string) error {
	if DB.AsynqClient == nil {
		return errors.New("asynq client not initialized")
	}
	task, err := NewConfirmationEmailTask(submissionID)
	if err != nil {
		return err
	}
	_, err = DB.AsynqClient.Enqueue(task, asynq.TaskID("confirm-"+submissionID))
	return err
}
