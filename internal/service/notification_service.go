package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/univ-portal-api/internal/models"
	appErrors "github.com/noah-isme/univ-portal-api/pkg/errors"
	"github.com/noah-isme/univ-portal-api/pkg/jobs"
	"github.com/noah-isme/univ-portal-api/pkg/middleware/requestid"
)

const resultSuccess = "SUCCESS"

// Notifier receives operation outcomes for user-facing display. Implementations must
// not block the caller for long; failures are swallowed after logging.
type Notifier interface {
	Notify(ctx context.Context, outcome models.Outcome)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, outcome models.Outcome)

// Notify implements Notifier.
func (f NotifierFunc) Notify(ctx context.Context, outcome models.Outcome) {
	f(ctx, outcome)
}

// LogNotifier writes outcomes to the structured logger.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier constructs a LogNotifier.
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogNotifier{logger: logger}
}

// Notify implements Notifier.
func (n *LogNotifier) Notify(ctx context.Context, outcome models.Outcome) {
	fields := []zap.Field{
		zap.String("operation", outcome.Operation),
		zap.String("resource", outcome.Resource),
		zap.String("resource_id", outcome.ResourceID),
		zap.Bool("success", outcome.Success),
	}
	if outcome.RequestID != "" {
		fields = append(fields, zap.String("request_id", outcome.RequestID))
	}
	if outcome.Success {
		n.logger.Info("operation_outcome", fields...)
		return
	}
	n.logger.Warn("operation_outcome", append(fields, zap.String("reason", outcome.Reason))...)
}

type redisPublisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// RedisNotifier publishes outcomes as JSON on a Redis channel so the portal front
// end can render toasts.
type RedisNotifier struct {
	client  redisPublisher
	channel string
	logger  *zap.Logger
}

// NewRedisNotifier constructs a RedisNotifier.
func NewRedisNotifier(client redisPublisher, channel string, logger *zap.Logger) *RedisNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisNotifier{client: client, channel: channel, logger: logger}
}

// Notify implements Notifier.
func (n *RedisNotifier) Notify(ctx context.Context, outcome models.Outcome) {
	if err := n.Deliver(ctx, outcome); err != nil {
		n.logger.Warn("publish outcome failed", zap.String("channel", n.channel), zap.Error(err))
	}
}

// Deliver publishes the outcome and reports the failure to the caller.
func (n *RedisNotifier) Deliver(ctx context.Context, outcome models.Outcome) error {
	payload, err := json.Marshal(outcome)
	if err != nil {
		return err
	}
	return n.client.Publish(ctx, n.channel, payload).Err()
}

type outcomeWriter interface {
	Create(ctx context.Context, outcome *models.Outcome) error
}

// AuditNotifier persists outcomes for later review.
type AuditNotifier struct {
	repo   outcomeWriter
	logger *zap.Logger
}

// NewAuditNotifier constructs an AuditNotifier.
func NewAuditNotifier(repo outcomeWriter, logger *zap.Logger) *AuditNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditNotifier{repo: repo, logger: logger}
}

// Notify implements Notifier.
func (n *AuditNotifier) Notify(ctx context.Context, outcome models.Outcome) {
	if err := n.Deliver(ctx, outcome); err != nil {
		n.logger.Warn("persist outcome failed", zap.String("operation", outcome.Operation), zap.Error(err))
	}
}

// Deliver persists the outcome.
func (n *AuditNotifier) Deliver(ctx context.Context, outcome models.Outcome) error {
	return n.repo.Create(ctx, &outcome)
}

// Deliverer is a sink that reports delivery failures so they can be retried.
type Deliverer interface {
	Deliver(ctx context.Context, outcome models.Outcome) error
}

// AsyncNotifier hands outcomes to a worker queue so slow sinks stay off the request
// path. Failed deliveries are retried by the queue; a full buffer drops the outcome.
type AsyncNotifier struct {
	name   string
	queue  *jobs.Queue[models.Outcome]
	logger *zap.Logger
}

// NewAsyncNotifier wraps sink in a queue named after it. Call Start before use.
func NewAsyncNotifier(name string, sink Deliverer, cfg jobs.QueueConfig) *AsyncNotifier {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	handler := func(ctx context.Context, job jobs.Job[models.Outcome]) error {
		return sink.Deliver(ctx, job.Payload)
	}
	return &AsyncNotifier{
		name:   name,
		queue:  jobs.NewQueue[models.Outcome]("outcomes."+name, handler, cfg),
		logger: cfg.Logger,
	}
}

// Start launches the delivery workers.
func (n *AsyncNotifier) Start(ctx context.Context) { n.queue.Start(ctx) }

// Stop halts the workers.
func (n *AsyncNotifier) Stop() { n.queue.Stop() }

// Notify implements Notifier.
func (n *AsyncNotifier) Notify(ctx context.Context, outcome models.Outcome) {
	job := jobs.Job[models.Outcome]{ID: uuid.NewString(), Payload: outcome}
	if err := n.queue.Enqueue(job); err != nil {
		n.logger.Warn("outcome dropped",
			zap.String("sink", n.name),
			zap.String("operation", outcome.Operation),
			zap.Error(err))
	}
}

// MultiNotifier fans an outcome out to every sink.
type MultiNotifier []Notifier

// Notify implements Notifier.
func (m MultiNotifier) Notify(ctx context.Context, outcome models.Outcome) {
	for _, n := range m {
		if n != nil {
			n.Notify(ctx, outcome)
		}
	}
}

// outcomeReporter is shared by the managers to publish every operation result.
type outcomeReporter struct {
	notifier Notifier
	metrics  *MetricsService
	now      func() time.Time
}

func newOutcomeReporter(notifier Notifier, metrics *MetricsService) outcomeReporter {
	return outcomeReporter{notifier: notifier, metrics: metrics, now: func() time.Time { return time.Now().UTC() }}
}

func (r outcomeReporter) report(ctx context.Context, operation, resource, resourceID string, err error) {
	result := resultSuccess
	if err != nil {
		result = appErrors.FromError(err).Code
	}
	r.metrics.ObserveOperation(operation, result)
	if r.notifier == nil {
		return
	}
	r.notifier.Notify(ctx, models.Outcome{
		Operation:  operation,
		Resource:   resource,
		ResourceID: resourceID,
		Success:    err == nil,
		Reason:     appErrors.Reason(err),
		RequestID:  requestid.FromContext(ctx),
		OccurredAt: r.now(),
	})
}
