package queue

import (
	"context"
	"encoding/json"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/flowtutor/flowtutor/internal/ideal"
	"github.com/flowtutor/flowtutor/internal/question"
)

// Consumer processes ideal-answer generation jobs.
type Consumer struct {
	conn      *Connection
	questions *question.Service
	ideals    *ideal.Service
}

// NewConsumer creates a new queue consumer
func NewConsumer(conn *Connection, questions *question.Service, ideals *ideal.Service) *Consumer {
	return &Consumer{conn: conn, questions: questions, ideals: ideals}
}

// Start consumes jobs until ctx is canceled. Jobs are acked on success and
// on permanent failure alike; a transient model failure is requeued once via
// nack so the broker's TTL bounds the retry window.
func (c *Consumer) Start(ctx context.Context) error {
	deliveries, err := c.conn.Channel().Consume(
		GenerateQueueName,
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return err
	}

	slog.Info("generate consumer started", "queue", GenerateQueueName)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return nil
			}
			c.handle(ctx, d)
		}
	}
}

func (c *Consumer) handle(ctx context.Context, d amqp.Delivery) {
	var job GenerateJob
	if err := json.Unmarshal(d.Body, &job); err != nil {
		slog.Error("discarding malformed generate job", "error", err)
		d.Ack(false)
		return
	}

	questionText := c.questions.DescriptionOrEmpty(ctx, job.QuestionID)

	var err error
	if job.Force {
		_, err = c.ideals.Regenerate(ctx, job.QuestionID, questionText)
	} else {
		_, err = c.ideals.Ensure(ctx, job.QuestionID, questionText)
	}
	if err != nil {
		slog.Error("generate job failed",
			"job_id", job.ID,
			"question_id", job.QuestionID,
			"error", err,
		)
		d.Nack(false, !d.Redelivered)
		return
	}

	slog.Info("generate job done", "job_id", job.ID, "question_id", job.QuestionID)
	d.Ack(false)
}
