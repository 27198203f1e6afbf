package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"projectflow/model"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

const (
	DefaultMaxAttempts    = 3
	DefaultAttemptTimeout = 60 * time.Second
)

// jobSending marks a job claimed by a worker.
const jobSending model.JobStatus = "sending"

type Options struct {
	Workers        int
	QueueSize      int
	Rate           float64 // sends per second, 0 disables throttling
	MaxAttempts    int
	AttemptTimeout time.Duration
	Backoff        time.Duration
}

func (o *Options) defaults() {
	if o.Workers < 1 {
		o.Workers = 1
	}
	if o.QueueSize < 1 {
		o.QueueSize = 64
	}
	if o.MaxAttempts < 1 {
		o.MaxAttempts = DefaultMaxAttempts
	}
	if o.AttemptTimeout <= 0 {
		o.AttemptTimeout = DefaultAttemptTimeout
	}
}

// Dispatcher persists notification jobs and delivers them on a worker
// pool, off the request path. A queued job is never cancelled: it is
// delivered or runs out of attempts.
type Dispatcher struct {
	db        *gorm.DB
	transport Transport
	log       *zap.Logger
	opts      Options
	limiter   *rate.Limiter

	mu      sync.Mutex
	queue   chan uint
	started bool
	closed  bool
	group   errgroup.Group
}

func NewDispatcher(db *gorm.DB, transport Transport, log *zap.Logger, opts Options) *Dispatcher {
	opts.defaults()
	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.Rate > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.Rate), 1)
	}
	return &Dispatcher{
		db:        db,
		transport: transport,
		log:       log,
		opts:      opts,
		limiter:   limiter,
		queue:     make(chan uint, opts.QueueSize),
	}
}

func (d *Dispatcher) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started || d.closed {
		return
	}
	d.started = true
	for i := 0; i < d.opts.Workers; i++ {
		d.group.Go(func() error {
			for id := range d.queue {
				d.process(id)
			}
			return nil
		})
	}
	d.log.Info("notification dispatcher started", zap.Int("workers", d.opts.Workers))
}

// Stop closes the queue and waits for workers to drain it.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	_ = d.group.Wait()
	d.log.Info("notification dispatcher stopped")
}

// Enqueue persists one job per message and hands them to the workers
// without blocking. Jobs that do not fit in the queue stay queued for
// RequeuePending.
func (d *Dispatcher) Enqueue(ctx context.Context, msgs ...Message) error {
	if len(msgs) == 0 {
		return nil
	}
	jobs := make([]model.NotificationJob, 0, len(msgs))
	for _, m := range msgs {
		job := model.NotificationJob{
			Kind:           string(m.Kind),
			RecipientID:    m.To.ID,
			RecipientEmail: m.To.Email,
			RecipientName:  m.To.Name,
			Subject:        m.Subject,
			Body:           m.Body,
			Link:           m.Link,
			Status:         model.JobQueued,
		}
		if m.TaskID != 0 {
			taskID := m.TaskID
			job.TaskID = &taskID
		}
		jobs = append(jobs, job)
	}
	if err := d.db.WithContext(ctx).Create(&jobs).Error; err != nil {
		return fmt.Errorf("failed to persist notification jobs: %w", err)
	}

	for _, job := range jobs {
		enqueuedTotal.WithLabelValues(job.Kind).Inc()
		d.offer(job.ID)
	}
	return nil
}

func (d *Dispatcher) offer(id uint) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return false
	}
	select {
	case d.queue <- id:
		return true
	default:
		d.log.Warn("notification queue full, leaving job for sweeper", zap.Uint("job_id", id))
		return false
	}
}

// RequeuePending offers jobs still queued and releases claims older than
// staleAfter, so work survives restarts and full queues.
func (d *Dispatcher) RequeuePending(ctx context.Context, staleAfter time.Duration) (int, error) {
	cutoff := time.Now().Add(-staleAfter)
	if err := d.db.WithContext(ctx).Model(&model.NotificationJob{}).
		Where("status = ? AND updated_at < ?", jobSending, cutoff).
		Update("status", model.JobQueued).Error; err != nil {
		return 0, fmt.Errorf("failed to release stale jobs: %w", err)
	}

	var ids []uint
	if err := d.db.WithContext(ctx).Model(&model.NotificationJob{}).
		Where("status = ?", model.JobQueued).
		Order("id ASC").
		Limit(d.opts.QueueSize).
		Pluck("id", &ids).Error; err != nil {
		return 0, fmt.Errorf("failed to list queued jobs: %w", err)
	}

	n := 0
	for _, id := range ids {
		if !d.offer(id) {
			break
		}
		n++
	}
	return n, nil
}

// claim moves a job from queued to sending; false means another worker
// already owns it.
func (d *Dispatcher) claim(id uint) (*model.NotificationJob, bool) {
	res := d.db.Model(&model.NotificationJob{}).
		Where("id = ? AND status = ?", id, model.JobQueued).
		Update("status", jobSending)
	if res.Error != nil {
		d.log.Error("failed to claim notification job", zap.Uint("job_id", id), zap.Error(res.Error))
		return nil, false
	}
	if res.RowsAffected == 0 {
		return nil, false
	}
	var job model.NotificationJob
	if err := d.db.First(&job, id).Error; err != nil {
		d.log.Error("failed to load notification job", zap.Uint("job_id", id), zap.Error(err))
		return nil, false
	}
	return &job, true
}

func (d *Dispatcher) process(id uint) {
	job, ok := d.claim(id)
	if !ok {
		return
	}
	msg := Message{
		Kind:    Kind(job.Kind),
		To:      Recipient{ID: job.RecipientID, Email: job.RecipientEmail, Name: job.RecipientName},
		Subject: job.Subject,
		Body:    job.Body,
		Link:    job.Link,
	}
	if job.TaskID != nil {
		msg.TaskID = *job.TaskID
	}

	var lastErr error
	for attempt := job.Attempts + 1; attempt <= d.opts.MaxAttempts; attempt++ {
		lastErr = d.attempt(msg)
		updates := map[string]interface{}{"attempts": attempt}
		if lastErr == nil {
			now := time.Now()
			updates["status"] = model.JobSent
			updates["sent_at"] = now
			updates["last_error"] = ""
			d.save(job.ID, updates)
			attemptsTotal.WithLabelValues(job.Kind, "success").Inc()
			finishedTotal.WithLabelValues(job.Kind, string(model.JobSent)).Inc()
			d.log.Info("notification sent",
				zap.Uint("job_id", job.ID),
				zap.String("kind", job.Kind),
				zap.Uint("recipient_id", job.RecipientID),
				zap.Int("attempt", attempt))
			return
		}

		updates["last_error"] = lastErr.Error()
		d.save(job.ID, updates)
		attemptsTotal.WithLabelValues(job.Kind, "error").Inc()
		d.log.Warn("notification attempt failed",
			zap.Uint("job_id", job.ID),
			zap.String("kind", job.Kind),
			zap.Int("attempt", attempt),
			zap.Error(lastErr))

		if attempt < d.opts.MaxAttempts && d.opts.Backoff > 0 {
			time.Sleep(d.opts.Backoff)
		}
	}

	d.save(job.ID, map[string]interface{}{"status": model.JobFailed})
	finishedTotal.WithLabelValues(job.Kind, string(model.JobFailed)).Inc()
	d.log.Error("notification delivery failed",
		zap.Uint("job_id", job.ID),
		zap.String("kind", job.Kind),
		zap.Uint("recipient_id", job.RecipientID),
		zap.Error(lastErr))
}

// attempt runs one send under its own timeout budget.
func (d *Dispatcher) attempt(msg Message) (err error) {
	ctx, cancel := context.WithTimeout(context.Background(), d.opts.AttemptTimeout)
	defer cancel()

	if err := d.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	start := time.Now()
	defer func() {
		deliverySeconds.WithLabelValues(string(msg.Kind)).Observe(time.Since(start).Seconds())
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in transport: %v", r)
		}
	}()

	return d.transport.Send(ctx, msg)
}

func (d *Dispatcher) save(id uint, updates map[string]interface{}) {
	if err := d.db.Model(&model.NotificationJob{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		d.log.Error("failed to update notification job", zap.Uint("job_id", id), zap.Error(err))
	}
}
