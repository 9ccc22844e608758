package jobs

import (
	"log"

	DB "franchise-intake-api/src/database"

	"github.com/hibiken/asynq"
)

// StartWorker runs the asynq server and the periodic pending-delivery
// sweep in the background. No-op without Redis.
func StartWorker() {
	if DB.RedisURI == "" || DB.RedisClient == nil {
		log.Println("⚠️ Redis not available. Background worker not started.")
		return
	}

	srv := asynq.NewServer(
		asynq.RedisClientOpt{Addr: DB.RedisURI},
		asynq.Config{Concurrency: 5},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeDeliverSubmission, HandleDeliverSubmissionTask)
	mux.HandleFunc(TypeConfirmationEmail, HandleConfirmationEmailTask)
	mux.HandleFunc(TypeSweepPending, HandleSweepPendingTask)

	go func() {
		if err := srv.Run(mux); err != nil {
			log.Println("❌ Asynq worker stopped:", err)
		}
	}()

	scheduler := asynq.NewScheduler(asynq.RedisClientOpt{Addr: DB.RedisURI}, nil)
	if _, err := scheduler.Register("@every 10m", NewSweepPendingTask()); err != nil {
		log.Println("⚠️ Failed to register pending sweep:", err)
	}
	go func() {
		if err := scheduler.Run(); err != nil {
			log.Println("❌ Asynq scheduler stopped:", err)
		}
	}()

	log.Println("✅ Background worker started")
}
