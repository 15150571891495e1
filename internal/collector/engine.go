package collector

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"hhscout/collector-service/internal/hh"
	"hhscout/collector-service/internal/interval"
	"hhscout/collector-service/internal/metrics"
	"hhscout/collector-service/internal/model"
)

// PageFetcher retrieves one provider result page for a search interval.
type PageFetcher interface {
	FetchPage(ctx context.Context, req model.SearchRequest, iv interval.Interval, page int) (items []model.Vacancy, hasMore bool, err error)
}

// ReportBuilder turns collected vacancies into a report file and
// returns its path.
type ReportBuilder interface {
	Build(query string, vacancies []model.Vacancy) (string, error)
}

// MessageRef identifies a previously sent chat message so it can be
// edited later.
type MessageRef struct {
	ChatID    int64
	MessageID int
}

// Notifier delivers run updates to a chat. Implementations must be safe
// for concurrent use; delivery failures are returned but never stop a
// run.
type Notifier interface {
	SendText(ctx context.Context, chatID int64, text string) (MessageRef, error)
	EditText(ctx context.Context, ref MessageRef, text string) error
	SendDocument(ctx context.Context, chatID int64, path, caption string) error
}

// Config tunes run behaviour. Zero fields fall back to defaults.
type Config struct {
	// MaxAttempts is the page retry budget, restored after every
	// successfully fetched page.
	MaxAttempts int
	// RateLimitBackoff is the pause after the provider answers 403.
	// Rate-limit waits do not consume MaxAttempts; IntervalBudget
	// bounds them instead.
	RateLimitBackoff time.Duration
	// NetworkBackoff is the pause before retrying a transport failure.
	NetworkBackoff time.Duration
	// IntervalBudget caps the wall-clock time spent on one interval.
	IntervalBudget time.Duration
	// FillerInterval is the delay between filler phrases in the chat.
	FillerInterval time.Duration
}

const (
	defaultMaxAttempts      = 3
	defaultRateLimitBackoff = 10 * time.Second
	defaultNetworkBackoff   = 5 * time.Second
	defaultIntervalBudget   = 2 * time.Minute
	defaultFillerInterval   = 5 * time.Second
)

func (c Config) withDefaults() Config {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = defaultMaxAttempts
	}
	if c.RateLimitBackoff <= 0 {
		c.RateLimitBackoff = defaultRateLimitBackoff
	}
	if c.NetworkBackoff <= 0 {
		c.NetworkBackoff = defaultNetworkBackoff
	}
	if c.IntervalBudget <= 0 {
		c.IntervalBudget = defaultIntervalBudget
	}
	if c.FillerInterval <= 0 {
		c.FillerInterval = defaultFillerInterval
	}
	return c
}

// Engine starts and supervises collection runs.
type Engine struct {
	cfg      Config
	fetcher  PageFetcher
	builder  ReportBuilder
	notifier Notifier
	metrics  *metrics.Metrics
	log      *zap.Logger
	wg       sync.WaitGroup
}

// NewEngine constructs an Engine around its collaborators.
func NewEngine(cfg Config, fetcher PageFetcher, builder ReportBuilder, notifier Notifier, m *metrics.Metrics, log *zap.Logger) *Engine {
	return &Engine{
		cfg:      cfg.withDefaults(),
		fetcher:  fetcher,
		builder:  builder,
		notifier: notifier,
		metrics:  m,
		log:      log.Named("engine"),
	}
}

// Run is a handle to one collection run.
type Run struct {
	ID     uuid.UUID
	Query  string
	ChatID int64

	mu       sync.Mutex
	state    State
	progress MessageRef
	hasRef   bool

	cancelOnce sync.Once
	cancelCh   chan struct{}
	done       chan struct{}
	events     EventFunc
	log        *zap.Logger
}

// State returns the run's current lifecycle state.
func (r *Run) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Cancel requests cooperative cancellation. The run stops at the next
// interval or retry boundary; an in-flight page request is never
// interrupted. Whatever was collected so far is still delivered.
func (r *Run) Cancel() {
	r.cancelOnce.Do(func() { close(r.cancelCh) })
}

// Done is closed once the run has reached a terminal state and all of
// its notifications have been dispatched.
func (r *Run) Done() <-chan struct{} { return r.done }

func (r *Run) cancelRequested() bool {
	select {
	case <-r.cancelCh:
		return true
	default:
		return false
	}
}

// transition moves the run to next if the lifecycle permits it and
// reports whether the move happened. It is the exactly-once gate for
// finalization.
func (r *Run) transition(next State) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !IsTransitionAllowed(r.state, next) {
		return false
	}
	r.state = next
	return true
}

func (r *Run) setProgressRef(ref MessageRef) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.progress = ref
	r.hasRef = true
}

func (r *Run) progressRef() (MessageRef, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.progress, r.hasRef
}

// Begin starts a run for req and returns its handle immediately. The
// run executes on its own goroutine; outcomes surface through the event
// callback and the chat. An invalid request fails the run rather than
// Begin itself.
func (e *Engine) Begin(ctx context.Context, req model.SearchRequest, chatID int64, events EventFunc) *Run {
	r := &Run{
		ID:       uuid.New(),
		Query:    req.Query,
		ChatID:   chatID,
		state:    StateIdle,
		cancelCh: make(chan struct{}),
		done:     make(chan struct{}),
		events:   events,
	}
	r.log = e.log.With(zap.String("run_id", r.ID.String()), zap.Int64("chat_id", chatID))

	e.wg.Add(1)
	go e.execute(ctx, r, req)
	return r
}

// Wait blocks until every run started so far has finished.
func (e *Engine) Wait() { e.wg.Wait() }

func (e *Engine) execute(ctx context.Context, r *Run, req model.SearchRequest) {
	defer e.wg.Done()
	defer close(r.done)
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error("run panicked", zap.Any("panic", rec))
			e.fail(ctx, r, fmt.Errorf("internal failure: %v", rec))
		}
	}()

	r.transition(StateRunning)
	e.metrics.RunsStarted.Inc()
	r.log.Info("run started", zap.String("query", req.Query))
	started := time.Now()

	if err := req.Validate(); err != nil {
		e.fail(ctx, r, err)
		return
	}

	intervals, err := interval.Plan(midnight(time.Now()), req.WindowDays, req.ChunkDays)
	if err != nil {
		e.fail(ctx, r, err)
		return
	}

	if ref, err := e.notifier.SendText(ctx, r.ChatID, msgSearchStarted); err != nil {
		r.log.Warn("initial message failed", zap.Error(err))
	} else {
		r.setProgressRef(ref)
	}

	stopFiller := e.startFiller(ctx, r)
	defer stopFiller()

	items := e.collect(ctx, r, req, intervals)
	stopFiller()

	e.finalize(ctx, r, items)
	e.metrics.RunDuration.Observe(time.Since(started).Seconds())
}

// collect walks the planned intervals in order, accumulating every
// vacancy it can get. A failed interval contributes whatever pages
// arrived before the failure; the walk itself never aborts.
func (e *Engine) collect(ctx context.Context, r *Run, req model.SearchRequest, intervals []interval.Interval) []model.Vacancy {
	var items []model.Vacancy
	total := len(intervals)

	for i, iv := range intervals {
		if e.stopRequested(ctx, r) {
			return items
		}

		percent := (i + 1) * 100 / total
		e.reportProgress(ctx, r, i, total, percent)

		items = append(items, e.collectInterval(ctx, r, req, iv)...)
	}
	return items
}

// collectInterval pages through one interval until its last page, the
// attempt budget, or the wall-clock budget runs out.
func (e *Engine) collectInterval(ctx context.Context, r *Run, req model.SearchRequest, iv interval.Interval) []model.Vacancy {
	var items []model.Vacancy
	attempts := e.cfg.MaxAttempts
	deadline := time.Now().Add(e.cfg.IntervalBudget)
	page := 0

	for {
		if e.stopRequested(ctx, r) {
			return items
		}
		if time.Now().After(deadline) {
			r.log.Warn("interval budget exhausted",
				zap.Time("interval_start", iv.Start),
				zap.Int("page", page))
			e.metrics.IntervalsAbandoned.Inc()
			e.sendText(ctx, r, msgIntervalTimeout)
			return items
		}

		got, hasMore, err := e.fetcher.FetchPage(ctx, req, iv, page)
		switch {
		case err == nil:
			items = append(items, got...)
			e.metrics.PagesFetched.Inc()
			if !hasMore {
				return items
			}
			page++
			attempts = e.cfg.MaxAttempts

		case errors.Is(err, hh.ErrRateLimited):
			e.metrics.FetchRetries.WithLabelValues(metrics.ReasonRateLimited).Inc()
			e.sendText(ctx, r, msgRateLimited)
			if !e.sleepOrStop(ctx, r, e.cfg.RateLimitBackoff) {
				return items
			}

		case isProtocolError(err):
			// The provider answered but the payload is unusable, so
			// retrying the same page will not help.
			r.log.Warn("interval abandoned on provider error", zap.Error(err))
			e.metrics.IntervalsAbandoned.Inc()
			e.sendText(ctx, r, providerErrorText(err))
			return items

		default:
			attempts--
			e.metrics.FetchRetries.WithLabelValues(metrics.ReasonNetwork).Inc()
			e.sendText(ctx, r, networkErrorText(err, attempts))
			if attempts <= 0 {
				r.log.Warn("interval abandoned after repeated network failures", zap.Error(err))
				e.metrics.IntervalsAbandoned.Inc()
				return items
			}
			if !e.sleepOrStop(ctx, r, e.cfg.NetworkBackoff) {
				return items
			}
		}
	}
}

// finalize settles the run exactly once on every exit path. Cancelled
// runs deliver whatever was collected before the stop.
func (e *Engine) finalize(ctx context.Context, r *Run, items []model.Vacancy) {
	endState := StateCompleted
	if e.stopRequested(ctx, r) {
		endState = StateCancelled
	}

	if len(items) == 0 {
		if !r.transition(endState) {
			return
		}
		e.metrics.RunsFinished.WithLabelValues(outcomeLabel(endState)).Inc()
		e.finishMessage(ctx, r, msgNoResults)
		r.log.Info("run finished empty", zap.String("state", string(endState)))
		e.emit(r, Event{Type: EventEmpty})
		return
	}

	path, err := e.builder.Build(r.Query, items)
	if err != nil {
		e.fail(ctx, r, fmt.Errorf("build report: %w", err))
		return
	}

	if !r.transition(endState) {
		return
	}
	e.metrics.RunsFinished.WithLabelValues(outcomeLabel(endState)).Inc()
	e.metrics.VacanciesCollected.Add(float64(len(items)))

	caption := completedText(len(items))
	if err := e.notifier.SendDocument(ctx, r.ChatID, path, caption); err != nil {
		r.log.Error("report delivery failed", zap.String("path", path), zap.Error(err))
	}
	if err := os.Remove(path); err != nil {
		r.log.Warn("report cleanup failed", zap.String("path", path), zap.Error(err))
	}
	e.finishMessage(ctx, r, caption)

	r.log.Info("run finished",
		zap.String("state", string(endState)),
		zap.Int("found", len(items)))
	e.emit(r, Event{Type: EventCompleted, Found: len(items), ReportPath: path})
}

// fail moves the run to FAILED and reports the error. The transition
// gate makes it a no-op for runs that already finished.
func (e *Engine) fail(ctx context.Context, r *Run, err error) {
	if !r.transition(StateFailed) {
		return
	}
	e.metrics.RunsFinished.WithLabelValues(outcomeLabel(StateFailed)).Inc()
	r.log.Error("run failed", zap.Error(err))
	e.finishMessage(ctx, r, criticalErrorText(err))
	e.emit(r, Event{Type: EventError, Err: err})
}

// startFiller spawns the joke-phrase loop that keeps the chat alive
// while pages are being fetched. The returned stop function is
// idempotent and must be called on every exit path.
func (e *Engine) startFiller(ctx context.Context, r *Run) func() {
	stop := make(chan struct{})
	var once sync.Once

	go func() {
		for {
			e.sendText(ctx, r, fillerPhrases[rand.IntN(len(fillerPhrases))])
			select {
			case <-stop:
				return
			case <-r.cancelCh:
				return
			case <-ctx.Done():
				return
			case <-time.After(e.cfg.FillerInterval):
			}
		}
	}()

	return func() { once.Do(func() { close(stop) }) }
}

// reportProgress edits the progress message and emits the progress
// event for one interval.
func (e *Engine) reportProgress(ctx context.Context, r *Run, i, total, percent int) {
	if ref, ok := r.progressRef(); ok {
		if err := e.notifier.EditText(ctx, ref, progressText(i, total, percent)); err != nil {
			r.log.Warn("progress update failed", zap.Error(err))
		}
	}
	e.emit(r, Event{Type: EventProgress, Percent: percent})
}

// finishMessage replaces the progress message with the terminal line,
// falling back to a fresh message when none was ever sent.
func (e *Engine) finishMessage(ctx context.Context, r *Run, text string) {
	if ref, ok := r.progressRef(); ok {
		if err := e.notifier.EditText(ctx, ref, text); err != nil {
			r.log.Warn("final message edit failed", zap.Error(err))
		}
		return
	}
	e.sendText(ctx, r, text)
}

// sendText posts a transient message to the run's chat. Delivery
// problems are logged and otherwise ignored.
func (e *Engine) sendText(ctx context.Context, r *Run, text string) {
	if _, err := e.notifier.SendText(ctx, r.ChatID, text); err != nil {
		r.log.Warn("message send failed", zap.Error(err))
	}
}

func (e *Engine) emit(r *Run, ev Event) {
	if r.events == nil {
		return
	}
	r.events(ev)
}

func (e *Engine) sleepOrStop(ctx context.Context, r *Run, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-r.cancelCh:
		return false
	case <-time.After(d):
		return true
	}
}

func (e *Engine) stopRequested(ctx context.Context, r *Run) bool {
	return ctx.Err() != nil || r.cancelRequested()
}

func isProtocolError(err error) bool {
	var protoErr *hh.ProtocolError
	return errors.As(err, &protoErr)
}

func outcomeLabel(s State) string { return strings.ToLower(string(s)) }

// midnight truncates t to the start of its day, the exclusive upper
// bound of the search window.
func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
