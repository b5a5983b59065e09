package queue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Producer publishes generation jobs to the queue
type Producer struct {
	conn *Connection
}

// NewProducer creates a new queue producer
func NewProducer(conn *Connection) *Producer {
	return &Producer{conn: conn}
}

// PublishGenerateJob enqueues one ideal-answer generation job.
func (p *Producer) PublishGenerateJob(ctx context.Context, questionID string, force bool) error {
	job := &GenerateJob{
		ID:         uuid.New(),
		QuestionID: questionID,
		Force:      force,
		CreatedAt:  time.Now(),
	}

	if err := p.conn.PublishJSON(ctx, GenerateQueueName, job); err != nil {
		return fmt.Errorf("failed to publish generate job: %w", err)
	}

	slog.Info("published generate job",
		"job_id", job.ID,
		"question_id", job.QuestionID,
		"force", job.Force,
	)
	return nil
}
