// Package suite is a small sequential lifecycle harness around fixture
// contexts. Declaration hooks run before every case, the binder restores
// after it, and anything that survives past the restore is reported as a
// hygiene problem rather than silently bleeding into the next case.
package suite

import (
	"fmt"
	"time"

	"github.com/aron/lazy/fixture"
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SetupFunc declares properties for the upcoming case through the suite's
// binder.
type SetupFunc func(*fixture.Binder) error

// CaseFunc is a case body; a non-nil error fails the case.
type CaseFunc func(*fixture.Context) error

// TeardownFunc runs after the body, before the restore.
type TeardownFunc func(*fixture.Context) error

type testCase struct {
	name string
	fn   CaseFunc
}

type Suite struct {
	name      string
	method    string
	ctx       *fixture.Context
	logger    *zap.Logger
	setups    []SetupFunc
	teardowns []TeardownFunc
	cases     []testCase
}

type Option func(*Suite)

// WithMethod picks the property name the declaration helper is attached
// under, fixture.DefaultMethod when unset.
func WithMethod(method string) Option {
	return func(s *Suite) { s.method = method }
}

// WithContext runs the suite against an existing context, so cases see its
// pre-seeded properties.
func WithContext(ctx *fixture.Context) Option {
	return func(s *Suite) { s.ctx = ctx }
}

// WithLogger wires a zap logger; the default is a nop.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Suite) { s.logger = logger }
}

func New(name string, opts ...Option) *Suite {
	s := &Suite{
		name:   name,
		method: fixture.DefaultMethod,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.ctx = fixture.Attach(s.ctx, s.method)
	return s
}

func (s *Suite) Setup(fn SetupFunc) {
	s.setups = append(s.setups, fn)
}

func (s *Suite) Teardown(fn TeardownFunc) {
	s.teardowns = append(s.teardowns, fn)
}

func (s *Suite) Add(name string, fn CaseFunc) {
	s.cases = append(s.cases, testCase{name: name, fn: fn})
}

func (s *Suite) Context() *fixture.Context {
	return s.ctx
}

// Run executes every case in order: setups, body, teardowns, restore. It
// never stops early; the report carries one result per case.
func (s *Suite) Run() *Report {
	runID := uuid.New().String()
	logger := s.logger.With(
		zap.String("suite", s.name),
		zap.String("run_id", runID),
	)

	report := &Report{Suite: s.name, RunID: runID, Started: time.Now()}
	logger.Info("suite started", zap.Int("cases", len(s.cases)))

	for _, tc := range s.cases {
		report.Results = append(report.Results, s.runCase(logger, tc))
	}

	report.Elapsed = time.Since(report.Started)
	logger.Info("suite finished",
		zap.Int("passed", report.Passed()),
		zap.Int("failed", report.Failed()),
		zap.Duration("elapsed", report.Elapsed),
	)
	return report
}

func (s *Suite) runCase(logger *zap.Logger, tc testCase) Result {
	binder := s.ctx.Binder(s.method)
	if binder == nil {
		// a previous case declared over the helper name, reinstall
		fixture.Attach(s.ctx, s.method)
		binder = s.ctx.Binder(s.method)
	}
	beforeKeys := s.ctx.Keys()
	before := s.ctx.Fingerprint()
	start := time.Now()

	err := s.execute(binder, tc)

	binder.Restore()
	result := Result{Name: tc.name, Err: err, Duration: time.Since(start)}

	// cheap gate first, the full diff only when the shape actually changed
	if after := s.ctx.Fingerprint(); after != before {
		afterKeys := s.ctx.Keys()
		beforeSet := mapset.NewThreadUnsafeSet(beforeKeys...)
		afterSet := mapset.NewThreadUnsafeSet(afterKeys...)
		result.Leaked = keysOutside(afterKeys, beforeSet)
		result.Missing = keysOutside(beforeKeys, afterSet)
		logger.Warn("case left the context dirty",
			zap.String("case", tc.name),
			zap.Strings("leaked", result.Leaked),
			zap.Strings("missing", result.Missing),
		)
	}

	if err != nil {
		logger.Error("case failed",
			zap.String("case", tc.name),
			zap.Error(err),
		)
	} else {
		logger.Debug("case passed",
			zap.String("case", tc.name),
			zap.Duration("elapsed", result.Duration),
		)
	}
	return result
}

func (s *Suite) execute(binder *fixture.Binder, tc testCase) error {
	var err error
	for _, setup := range s.setups {
		if serr := setup(binder); serr != nil {
			err = fmt.Errorf("setup: %w", serr)
			break
		}
	}

	if err == nil {
		err = tc.fn(s.ctx)
	}

	// teardowns always run; the first error wins
	for _, teardown := range s.teardowns {
		if terr := teardown(s.ctx); terr != nil && err == nil {
			err = fmt.Errorf("teardown: %w", terr)
		}
	}
	return err
}

// keysOutside keeps names not in members, preserving the order of keys.
func keysOutside(keys []string, members mapset.Set[string]) []string {
	var outside []string
	for _, name := range keys {
		if !members.Contains(name) {
			outside = append(outside, name)
		}
	}
	return outside
}
