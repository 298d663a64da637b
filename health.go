package health

import (
	"context"
	"sync"
	"time"

	log "github.com/InVisionApp/go-logger"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

const (
	maxExpectedChecks = 16
)

// Health is the API for registering / deregistering health checks, running the due ones and fetching
// the last known results.
type Health interface {
	// RegisterCheck registers a single check. It fails when the check is nil, has an empty or already
	// registered name, or reports a configuration error (see Gate.Err).
	RegisterCheck(check Check, opts ...CheckOption) error
	// Register registers every check independently; failures are collected into a single error
	// and do not prevent the valid checks from being registered.
	Register(checks ...Check) error
	// Deregister removes a health check from this instance. Once a check is removed, it's results are no longer returned.
	Deregister(name string)
	// DeregisterAll removes all health checks from this instance.
	// It is equivalent of calling Deregister() for each currently registered check.
	DeregisterAll()
	// Checks returns the registered checks in registration order.
	Checks() []Check
	// RunDue runs, concurrently, every check whose ShouldRun(now) is true and returns their reports keyed by name.
	// Checks that are not due produce no report.
	RunDue(ctx context.Context, now time.Time) map[string]Report
	// RunAll runs every registered check regardless of schedule and run condition.
	RunAll(ctx context.Context, now time.Time) map[string]Report
	// Results returns a snapshot of the last report of every check that ran at least once, and the current health.
	// A system is considered healthy iff no report is failed or crashed.
	Results() (results map[string]Report, healthy bool)
	// IsHealthy returns the current health of the system.
	IsHealthy() bool
	// Start runs the due checks at the beginning of every minute until ctx is done or Stop is called.
	// Calling Start on a started instance does nothing.
	Start(ctx context.Context)
	// Stop stops the minute loop started by Start and waits for the current cycle to complete.
	Stop()
}

// New returns a new Health instance.
func New(opts ...Option) Health {
	h := &health{
		results:    make(map[string]Report, maxExpectedChecks),
		checkTasks: make(map[string]*checkTask, maxExpectedChecks),
	}
	for _, opt := range append(opts, WithDefaults()) {
		opt.apply(h)
	}

	return h
}

type health struct {
	results        map[string]Report
	checkTasks     map[string]*checkTask
	order          []string
	checksListener CheckListeners
	healthListener HealthListeners
	logger         log.Logger
	clock          func() time.Time
	lock           sync.RWMutex

	stopLoop context.CancelFunc
	loopDone chan struct{}

	// Check config defaults
	defaultExecutionTimeout time.Duration
}

type validatable interface {
	Err() error
}

func (h *health) RegisterCheck(check Check, opts ...CheckOption) error {
	if check == nil {
		return errors.New("check must not be nil")
	}
	name, err := inspect(check)
	if err != nil {
		return err
	}

	cfg := h.initCheckConfig(opts)
	if cfg.executionTimeout < 0 {
		return errors.Errorf("execution timeout of check %q must not be negative", name)
	}

	if err := h.addCheckTask(&checkTask{check: check, timeout: cfg.executionTimeout}); err != nil {
		return err
	}

	h.logger.WithFields(log.Fields{"check": name}).Debug("check registered")
	h.checksListener.OnCheckRegistered(name)
	return nil
}

// inspect returns the name of check and its configuration error.
// A check built without NewGate panics on first use; the panic is reported as an error.
func inspect(check Check) (name string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("check %T is not initialized: %v", check, r)
		}
	}()

	name = check.Name()
	if name == "" {
		return "", errors.New("check name must not be empty")
	}
	if v, ok := check.(validatable); ok && v.Err() != nil {
		return "", errors.WithMessagef(v.Err(), "misconfigured check %q", name)
	}

	return name, nil
}

func (h *health) Register(checks ...Check) error {
	var result *multierror.Error
	for _, check := range checks {
		if err := h.RegisterCheck(check); err != nil {
			result = multierror.Append(result, err)
		}
	}

	return result.ErrorOrNil()
}

func (h *health) initCheckConfig(opts []CheckOption) checkConfig {
	cfg := checkConfig{
		executionTimeout: h.defaultExecutionTimeout,
	}

	for _, opt := range opts {
		opt.applyCheck(&cfg)
	}

	return cfg
}

func (h *health) addCheckTask(task *checkTask) error {
	h.lock.Lock()
	defer h.lock.Unlock()

	name := task.check.Name()
	if _, ok := h.checkTasks[name]; ok {
		return errors.Errorf("check %q is already registered", name)
	}
	h.checkTasks[name] = task
	h.order = append(h.order, name)

	return nil
}

func (h *health) Deregister(name string) {
	h.lock.Lock()
	defer h.lock.Unlock()

	h.removeCheckTask(name)
}

func (h *health) DeregisterAll() {
	h.lock.Lock()
	defer h.lock.Unlock()

	for _, name := range append([]string(nil), h.order...) {
		h.removeCheckTask(name)
	}
}

// must be called with the write lock held
func (h *health) removeCheckTask(name string) {
	if _, ok := h.checkTasks[name]; !ok {
		return
	}

	delete(h.results, name)
	delete(h.checkTasks, name)
	for i, n := range h.order {
		if n == name {
			h.order = append(h.order[:i], h.order[i+1:]...)
			break
		}
	}
}

func (h *health) Checks() []Check {
	tasks := h.tasks()
	checks := make([]Check, 0, len(tasks))
	for _, task := range tasks {
		checks = append(checks, task.check)
	}

	return checks
}

func (h *health) tasks() []*checkTask {
	h.lock.RLock()
	defer h.lock.RUnlock()

	tasks := make([]*checkTask, 0, len(h.order))
	for _, name := range h.order {
		tasks = append(tasks, h.checkTasks[name])
	}

	return tasks
}

func (h *health) RunDue(ctx context.Context, now time.Time) map[string]Report {
	return h.run(ctx, now, false)
}

func (h *health) RunAll(ctx context.Context, now time.Time) map[string]Report {
	return h.run(ctx, now, true)
}

func (h *health) run(ctx context.Context, now time.Time, force bool) map[string]Report {
	tasks := h.tasks()
	reports := make(map[string]Report, len(tasks))

	var (
		wg   sync.WaitGroup
		lock sync.Mutex
	)
	for _, task := range tasks {
		if !force && !h.shouldRun(task.check, now) {
			continue
		}

		wg.Add(1)
		go func(task *checkTask) {
			defer wg.Done()
			report := h.checkAndUpdateResult(ctx, task, now)

			lock.Lock()
			reports[report.Name] = report
			lock.Unlock()
		}(task)
	}
	wg.Wait()

	if len(reports) > 0 {
		h.reportResults()
	}

	return reports
}

func (h *health) shouldRun(check Check, now time.Time) bool {
	name := check.Name()
	due, err := check.ShouldRun(now)
	if err != nil {
		h.logger.WithFields(log.Fields{"check": name, "error": err.Error()}).Error("could not decide whether check is due")
		h.checksListener.OnCheckSkipped(name, err)
		return false
	}
	if !due {
		h.checksListener.OnCheckSkipped(name, nil)
	}

	return due
}

func (h *health) checkAndUpdateResult(ctx context.Context, task *checkTask, checkTime time.Time) Report {
	name := task.check.Name()
	h.checksListener.OnCheckStarted(name)

	result, duration := task.execute(ctx)
	report := h.updateResult(NewReport(task.check, result), duration, checkTime)
	if report.State() == StateCrashed {
		h.logger.WithFields(log.Fields{"check": name, "meta": report.Meta}).Warn("check crashed")
	}

	h.checksListener.OnCheckCompleted(name, report)
	return report
}

func (h *health) reportResults() {
	h.lock.RLock()
	resultsCopy := copyResultsMap(h.results)
	h.lock.RUnlock()
	h.healthListener.OnResultsUpdated(resultsCopy)
}

func (h *health) Results() (results map[string]Report, healthy bool) {
	h.lock.RLock()
	defer h.lock.RUnlock()

	results = copyResultsMap(h.results)
	return results, allHealthy(results)
}

func (h *health) IsHealthy() (healthy bool) {
	h.lock.RLock()
	defer h.lock.RUnlock()

	return allHealthy(h.results)
}

func (h *health) updateResult(result Report, checkDuration time.Duration, t time.Time) Report {
	h.lock.Lock()
	defer h.lock.Unlock()

	result.Timestamp = t
	result.Duration = checkDuration

	prevResult, ok := h.results[result.Name]
	if !result.IsHealthy() {
		if ok && !prevResult.IsHealthy() {
			result.ContiguousFailures = prevResult.ContiguousFailures + 1
			result.TimeOfFirstFailure = prevResult.TimeOfFirstFailure
		} else {
			result.ContiguousFailures = 1
			result.TimeOfFirstFailure = &t
		}
	}

	// a check deregistered while running leaves no result behind
	if _, registered := h.checkTasks[result.Name]; registered {
		h.results[result.Name] = result
	}

	return result
}

func (h *health) Start(ctx context.Context) {
	h.lock.Lock()
	defer h.lock.Unlock()

	if h.stopLoop != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	h.stopLoop = cancel
	h.loopDone = done

	go func() {
		defer close(done)
		for {
			now := h.clock()
			timer := time.NewTimer(now.Truncate(time.Minute).Add(time.Minute).Sub(now))
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
				h.RunDue(ctx, h.clock())
			}
		}
	}()
}

func (h *health) Stop() {
	h.lock.Lock()
	cancel, done := h.stopLoop, h.loopDone
	h.stopLoop, h.loopDone = nil, nil
	h.lock.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}
