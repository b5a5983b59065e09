//go:build integration

package queue_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/rabbitmq"

	"github.com/flowtutor/flowtutor/internal/queue"
)

// setupRabbitMQ creates a RabbitMQ container for testing
func setupRabbitMQ(t *testing.T) (string, func()) {
	ctx := context.Background()

	container, err := rabbitmq.Run(ctx, "rabbitmq:3.12-management")
	if err != nil {
		t.Fatalf("failed to start RabbitMQ container: %v", err)
	}

	amqpURL, err := container.AmqpURL(ctx)
	if err != nil {
		container.Terminate(ctx)
		t.Fatalf("failed to get AMQP URL: %v", err)
	}

	cleanup := func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}

	return amqpURL, cleanup
}

func TestIntegration_Connection_ConnectAndClose(t *testing.T) {
	amqpURL, cleanup := setupRabbitMQ(t)
	defer cleanup()

	conn, err := queue.NewConnection(amqpURL)
	if err != nil {
		t.Fatalf("failed to create connection: %v", err)
	}

	if !conn.IsConnected() {
		t.Error("expected connection to be active")
	}

	if err := conn.Close(); err != nil {
		t.Errorf("failed to close connection: %v", err)
	}
}

func TestIntegration_Connection_InvalidURL(t *testing.T) {
	_, err := queue.NewConnection("amqp://invalid:5672")
	if err == nil {
		t.Error("expected error for invalid URL")
	}
}

func TestIntegration_Producer_PublishGenerateJob(t *testing.T) {
	amqpURL, cleanup := setupRabbitMQ(t)
	defer cleanup()

	conn, err := queue.NewConnection(amqpURL)
	if err != nil {
		t.Fatalf("failed to create connection: %v", err)
	}
	defer conn.Close()

	producer := queue.NewProducer(conn)

	ctx := context.Background()
	if err := producer.PublishGenerateJob(ctx, "q1", true); err != nil {
		t.Fatalf("failed to publish generate job: %v", err)
	}

	q, err := conn.Channel().QueueInspect(queue.GenerateQueueName)
	if err != nil {
		t.Fatalf("failed to inspect queue: %v", err)
	}
	if q.Messages != 1 {
		t.Errorf("expected 1 message in queue, got %d", q.Messages)
	}
}

func TestIntegration_GenerateJob_RoundTrip(t *testing.T) {
	amqpURL, cleanup := setupRabbitMQ(t)
	defer cleanup()

	conn, err := queue.NewConnection(amqpURL)
	if err != nil {
		t.Fatalf("failed to create connection: %v", err)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	producer := queue.NewProducer(conn)
	if err := producer.PublishGenerateJob(ctx, "umbrella", false); err != nil {
		t.Fatalf("failed to publish: %v", err)
	}

	deliveries, err := conn.Channel().Consume(queue.GenerateQueueName, "", true, false, false, false, nil)
	if err != nil {
		t.Fatalf("failed to consume: %v", err)
	}

	select {
	case d := <-deliveries:
		var job queue.GenerateJob
		if err := json.Unmarshal(d.Body, &job); err != nil {
			t.Fatalf("failed to decode job: %v", err)
		}
		if job.QuestionID != "umbrella" {
			t.Errorf("question id = %q, want umbrella", job.QuestionID)
		}
		if job.Force {
			t.Error("force should be false")
		}
		if job.ID.String() == "" || job.CreatedAt.IsZero() {
			t.Error("job metadata not populated")
		}
	case <-ctx.Done():
		t.Fatal("timeout waiting for delivery")
	}
}
