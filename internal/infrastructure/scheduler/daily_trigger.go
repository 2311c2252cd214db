package scheduler

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/rentmgr/backend/internal/infrastructure/telemetry"
)

const (
	// DefaultCheckInterval is how often the trigger compares the clock with RunAt
	DefaultCheckInterval = 30 * time.Second

	// DefaultRunTimeout bounds a run when no timeout is configured
	DefaultRunTimeout = 10 * time.Minute
)

// DailyTime is a wall-clock time of day
type DailyTime struct {
	Hour   int
	Minute int
}

// ParseDailyTime parses an "HH:MM" 24h value
func ParseDailyTime(s string) (DailyTime, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 || len(parts[0]) != 2 || len(parts[1]) != 2 {
		return DailyTime{}, fmt.Errorf("%w: %q", ErrInvalidRunAt, s)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return DailyTime{}, fmt.Errorf("%w: %q", ErrInvalidRunAt, s)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return DailyTime{}, fmt.Errorf("%w: %q", ErrInvalidRunAt, s)
	}
	return DailyTime{Hour: hour, Minute: minute}, nil
}

func (d DailyTime) String() string {
	return fmt.Sprintf("%02d:%02d", d.Hour, d.Minute)
}

func (d DailyTime) minutes() int {
	return d.Hour*60 + d.Minute
}

// Reached reports whether the wall clock of t is at or after RunAt. A RunAt
// skipped by a DST jump counts as reached from the first minute after it.
func (d DailyTime) Reached(t time.Time) bool {
	return t.Hour()*60+t.Minute() >= d.minutes()
}

// Passed reports whether the RunAt minute is over for the day of t
func (d DailyTime) Passed(t time.Time) bool {
	return t.Hour()*60+t.Minute() > d.minutes()
}

// NextAfter returns the first occurrence strictly after t, in loc
func (d DailyTime) NextAfter(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	next := time.Date(local.Year(), local.Month(), local.Day(), d.Hour, d.Minute, 0, 0, loc)
	if !next.After(local) {
		next = time.Date(local.Year(), local.Month(), local.Day()+1, d.Hour, d.Minute, 0, 0, loc)
	}
	return next
}

// Config holds the timing of a daily job
type Config struct {
	RunAt         string // HH:MM
	Location      *time.Location
	RunTimeout    time.Duration
	CheckInterval time.Duration
}

// dailyTrigger fires a job once per local day at RunAt. Runs never overlap,
// whether they come from the timer or from a manual trigger.
type dailyTrigger struct {
	job      string
	at       DailyTime
	loc      *time.Location
	timeout  time.Duration
	interval time.Duration
	fire     func(ctx context.Context)
	logger   *zap.Logger
	metrics  *telemetry.RentalMetrics
	now      func() time.Time

	cancel      context.CancelFunc
	wg          sync.WaitGroup
	mu          sync.Mutex
	isRunning   bool
	lastRunDate string
	lastRunAt   *time.Time
	lastError   string

	runMu sync.Mutex
}

func newDailyTrigger(job string, cfg Config, logger *zap.Logger) (*dailyTrigger, error) {
	at, err := ParseDailyTime(cfg.RunAt)
	if err != nil {
		return nil, err
	}
	if cfg.RunTimeout < 0 || cfg.CheckInterval < 0 {
		return nil, fmt.Errorf("%w: negative duration", ErrInvalidConfig)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	t := &dailyTrigger{
		job:      job,
		at:       at,
		loc:      cfg.Location,
		timeout:  cfg.RunTimeout,
		interval: cfg.CheckInterval,
		logger:   logger.With(zap.String("job", job)),
		now:      time.Now,
	}
	if t.loc == nil {
		t.loc = time.UTC
	}
	if t.timeout == 0 {
		t.timeout = DefaultRunTimeout
	}
	if t.interval == 0 {
		t.interval = DefaultCheckInterval
	}
	return t, nil
}

func (t *dailyTrigger) start(ctx context.Context) error {
	t.mu.Lock()
	if t.isRunning {
		t.mu.Unlock()
		return nil
	}
	t.isRunning = true
	ctx, cancel := context.WithCancel(ctx)
	t.cancel = cancel
	t.skipPassedRun(t.now().In(t.loc))
	t.mu.Unlock()

	t.wg.Add(1)
	go t.runLoop(ctx)

	t.logger.Info("Daily job scheduled",
		zap.String("run_at", t.at.String()),
		zap.String("timezone", t.loc.String()),
		zap.Time("next_run_at", t.at.NextAfter(t.now(), t.loc)),
	)
	return nil
}

func (t *dailyTrigger) stop(ctx context.Context) error {
	t.mu.Lock()
	if !t.isRunning {
		t.mu.Unlock()
		return nil
	}
	t.isRunning = false
	cancel := t.cancel
	t.mu.Unlock()

	if cancel != nil {
		cancel()
	}

	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		t.logger.Info("Daily job stopped")
		return nil
	case <-ctx.Done():
		t.logger.Warn("Daily job stop timed out")
		return ctx.Err()
	}
}

func (t *dailyTrigger) running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.isRunning
}

func (t *dailyTrigger) runLoop(ctx context.Context) {
	defer t.wg.Done()

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.checkAndTrigger(ctx)
		}
	}
}

// checkAndTrigger fires on the first tick at or after RunAt, at most once per
// local date.
func (t *dailyTrigger) checkAndTrigger(ctx context.Context) {
	now := t.now().In(t.loc)
	if !t.at.Reached(now) {
		return
	}
	date := now.Format(time.DateOnly)

	t.mu.Lock()
	if t.lastRunDate == date {
		t.mu.Unlock()
		return
	}
	t.lastRunDate = date
	t.mu.Unlock()

	t.fire(ctx)
}

// skipPassedRun marks today as done when the timer starts after the RunAt
// minute. A process that was down at RunAt skips that day. Caller holds mu.
func (t *dailyTrigger) skipPassedRun(now time.Time) {
	if t.at.Passed(now) {
		t.lastRunDate = now.Format(time.DateOnly)
	}
}

// run executes fn under the run lock with the configured timeout
func (t *dailyTrigger) run(ctx context.Context, fn func(ctx context.Context, now time.Time) error) error {
	t.runMu.Lock()
	defer t.runMu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	ctx, span := telemetry.StartSpan(ctx, "scheduler."+t.job,
		telemetry.WithAttribute(telemetry.SpanAttrJob, t.job),
	)
	defer span.End()

	started := t.now()
	err := fn(ctx, started)
	elapsed := max(t.now().Sub(started), 0)

	t.metrics.RecordJobDuration(ctx, t.job, elapsed, err)
	if err != nil {
		telemetry.RecordError(span, err)
	}

	t.mu.Lock()
	t.lastRunAt = &started
	t.lastError = ""
	if err != nil {
		t.lastError = err.Error()
	}
	t.mu.Unlock()

	return err
}

func (t *dailyTrigger) status() map[string]any {
	t.mu.Lock()
	defer t.mu.Unlock()

	return map[string]any{
		"job":         t.job,
		"is_running":  t.isRunning,
		"run_at":      t.at.String(),
		"timezone":    t.loc.String(),
		"last_run_at": t.lastRunAt,
		"next_run_at": t.at.NextAfter(t.now(), t.loc),
		"last_error":  t.lastError,
	}
}
