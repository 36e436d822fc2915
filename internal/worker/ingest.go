package worker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/MadSCI-entist/the-green-co/internal/api/models"
	"github.com/MadSCI-entist/the-green-co/internal/validation"
)

// Job types carried in the job_type field.
const (
	JobTypeEmissionCalculation = "emission_calculation"
	JobTypeHealthCheck         = "health_check"
)

// ErrInvalidMessage marks a message that can never succeed. Such messages are
// acknowledged and dropped instead of redelivered.
var ErrInvalidMessage = errors.New("invalid message")

// Message is the JSON body of an ingestion job.
type Message struct {
	JobType string                `json:"job_type"`
	UserID  string                `json:"user_id,omitempty"`
	Input   *models.EmissionInput `json:"input,omitempty"`
}

// Calculator computes and stores an emission record. *emissions.Service implements it.
type Calculator interface {
	Calculate(ctx context.Context, userID string, input *models.EmissionInput) (*models.EmissionRecord, error)
}

// Pinger checks the database. *pgxpool.Pool implements it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// IngestStats counts processed jobs by outcome.
type IngestStats struct {
	Processed int64
	Rejected  int64
	Failed    int64
}

// IngestJob validates ingestion messages and runs them.
type IngestJob struct {
	calculator Calculator
	db         Pinger
	logger     zerolog.Logger

	processed atomic.Int64
	rejected  atomic.Int64
	failed    atomic.Int64
}

// IngestJobConfig holds configuration for creating an IngestJob.
type IngestJobConfig struct {
	Calculator Calculator
	// DB is optional; health checks pass trivially without it.
	DB     Pinger
	Logger zerolog.Logger
}

// NewIngestJob creates a new IngestJob.
func NewIngestJob(cfg IngestJobConfig) *IngestJob {
	return &IngestJob{
		calculator: cfg.Calculator,
		db:         cfg.DB,
		logger:     cfg.Logger,
	}
}

// Handle runs the job encoded in data. Errors wrapping ErrInvalidMessage are
// permanent; any other error is transient.
func (j *IngestJob) Handle(ctx context.Context, data []byte) (string, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		j.rejected.Add(1)
		return "", fmt.Errorf("%w: decoding body: %v", ErrInvalidMessage, err)
	}

	var err error
	switch msg.JobType {
	case JobTypeEmissionCalculation:
		err = j.calculate(ctx, &msg)
	case JobTypeHealthCheck:
		err = j.healthCheck(ctx)
	default:
		err = fmt.Errorf("%w: unknown job type %q", ErrInvalidMessage, msg.JobType)
	}

	switch {
	case err == nil:
		j.processed.Add(1)
	case errors.Is(err, ErrInvalidMessage):
		j.rejected.Add(1)
	default:
		j.failed.Add(1)
	}
	return msg.JobType, err
}

func (j *IngestJob) calculate(ctx context.Context, msg *Message) error {
	if strings.TrimSpace(msg.UserID) == "" {
		return fmt.Errorf("%w: user_id is required", ErrInvalidMessage)
	}
	if msg.Input == nil {
		return fmt.Errorf("%w: input is required", ErrInvalidMessage)
	}
	if errs := validation.Struct(msg.Input); len(errs) > 0 {
		msgs := make([]string, len(errs))
		for i, fe := range errs {
			msgs[i] = fe.Message
		}
		return fmt.Errorf("%w: %s", ErrInvalidMessage, strings.Join(msgs, "; "))
	}

	record, err := j.calculator.Calculate(ctx, msg.UserID, msg.Input)
	if err != nil {
		return fmt.Errorf("calculating emissions: %w", err)
	}

	j.logger.Debug().
		Str("user_id", msg.UserID).
		Str("record_id", record.ID).
		Float64("baseline_total", record.BaselineTotal).
		Msg("emission record ingested")
	return nil
}

func (j *IngestJob) healthCheck(ctx context.Context) error {
	if j.db == nil {
		return nil
	}
	if err := j.db.Ping(ctx); err != nil {
		return fmt.Errorf("pinging database: %w", err)
	}
	return nil
}

// Stats returns a snapshot of the job counters.
func (j *IngestJob) Stats() IngestStats {
	return IngestStats{
		Processed: j.processed.Load(),
		Rejected:  j.rejected.Load(),
		Failed:    j.failed.Load(),
	}
}
