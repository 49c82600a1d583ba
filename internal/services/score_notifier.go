package services

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"gainboard/internal/models"

	"github.com/streadway/amqp"
)

const scoredExchange = "gainboard.submission.scored"

// ScoredEvent is published after every accepted evaluation so the chat-bot
// layer can route result messages without polling the API.
type ScoredEvent struct {
	SubmissionID  uint      `json:"submission_id"`
	UserID        uint      `json:"user_id"`
	CompetitionID uint      `json:"competition_id"`
	ModelName     string    `json:"model_name"`
	Category      string    `json:"category"`
	Duplicate     bool      `json:"duplicate"`
	AfterDeadline bool      `json:"after_deadline"`
	SubmittedAt   time.Time `json:"submitted_at"`
}

// ScoreNotifier publishes scored events to RabbitMQ. A nil notifier is valid
// and publishes nothing, so the API keeps working when no broker is
// configured.
type ScoreNotifier struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	mu      sync.Mutex
}

func NewScoreNotifier(rabbitMQURL string) (*ScoreNotifier, error) {
	conn, err := amqp.Dial(rabbitMQURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open RabbitMQ channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		scoredExchange,
		"fanout",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	return &ScoreNotifier{
		conn:    conn,
		channel: channel,
	}, nil
}

// NotifyScored publishes one event. Publish failures are logged and dropped:
// the submission is already persisted and messaging is best-effort.
func (n *ScoreNotifier) NotifyScored(submission *models.Submission) {
	if n == nil {
		return
	}

	event := ScoredEvent{
		SubmissionID:  submission.ID,
		UserID:        submission.UserID,
		CompetitionID: submission.CompetitionID,
		ModelName:     submission.ModelName,
		Category:      submission.Category,
		Duplicate:     submission.Duplicate,
		AfterDeadline: submission.AfterDeadline,
		SubmittedAt:   submission.SubmittedAt,
	}

	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("Failed to marshal scored event for submission %d: %v", submission.ID, err)
		return
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	err = n.channel.Publish(
		scoredExchange,
		"", // fanout ignores the routing key
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
			Timestamp:   time.Now(),
		},
	)
	if err != nil {
		log.Printf("Failed to publish scored event for submission %d: %v", submission.ID, err)
	}
}

func (n *ScoreNotifier) Close() {
	if n == nil {
		return
	}
	if n.channel != nil {
		n.channel.Close()
	}
	if n.conn != nil {
		n.conn.Close()
	}
}
