package attendance

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var maxOvertime = decimal.NewFromInt(24)

type Result struct {
	Record  Record  `json:"record"`
	Outcome Outcome `json:"outcome"`
}

type Service struct {
	store   StoreAPI
	loc     *time.Location
	now     func() time.Time
	onClock func(clockIn, applied bool)
}

func NewService(store StoreAPI, loc *time.Location) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{store: store, loc: loc, now: time.Now}
}

// SetClock replaces the time source.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// OnClock registers a hook called after every clock action.
func (s *Service) OnClock(fn func(clockIn, applied bool)) {
	s.onClock = fn
}

func (s *Service) Location() *time.Location {
	return s.loc
}

func (s *Service) Today() time.Time {
	return LocalDate(s.now(), s.loc)
}

func (s *Service) ClockIn(ctx context.Context, employeeID string) (Result, error) {
	return s.Clock(ctx, employeeID, ActionClockIn)
}

func (s *Service) ClockOut(ctx context.Context, employeeID string) (Result, error) {
	return s.Clock(ctx, employeeID, ActionClockOut)
}

// Clock records action for employeeID on today's local date. The store write
// is a single compare-and-set, so concurrent duplicates resolve to one
// applied write and the rest report the Already* outcome.
func (s *Service) Clock(ctx context.Context, employeeID string, action Action) (Result, error) {
	if strings.TrimSpace(employeeID) == "" {
		return Result{}, ErrUnknownEmployee
	}
	now := s.now()
	day := LocalDate(now, s.loc)

	var (
		rec     Record
		applied bool
		err     error
	)
	switch action {
	case ActionClockIn:
		rec, applied, err = s.store.OpenDay(ctx, employeeID, day, now)
	case ActionClockOut:
		rec, applied, err = s.store.CloseDay(ctx, employeeID, day, now)
	default:
		return Result{}, ErrUnknownAction
	}
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", action, err)
	}

	before := priorState(rec, action, applied)
	after, outcome, err := Next(before, action)
	if err != nil {
		return Result{}, err
	}
	if after != StateOf(&rec) || outcome.Applied() != applied {
		return Result{}, fmt.Errorf("%s: %w: %s -> %s, stored %s", action, ErrTransitionMismatch, before, after, StateOf(&rec))
	}
	if s.onClock != nil {
		s.onClock(action == ActionClockIn, applied)
	}
	return Result{Record: rec, Outcome: outcome}, nil
}

// priorState rebuilds the day's state as it was before the write that
// produced rec.
func priorState(rec Record, action Action, applied bool) State {
	if !applied {
		return StateOf(&rec)
	}
	prior := rec
	switch action {
	case ActionClockIn:
		prior.CheckIn = nil
	case ActionClockOut:
		prior.CheckOut = nil
	}
	return StateOf(&prior)
}

// TodayRecord returns nil when the employee has no record today.
func (s *Service) TodayRecord(ctx context.Context, employeeID string) (*Record, error) {
	rec, err := s.store.Get(ctx, employeeID, s.Today())
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// SetStatus is the HR edit path for non-present statuses and overtime.
func (s *Service) SetStatus(ctx context.Context, employeeID string, day time.Time, status Status, overtime decimal.Decimal) (Record, error) {
	if _, ok := ParseStatus(string(status)); !ok {
		return Record{}, ErrInvalidStatus
	}
	if overtime.IsNegative() || overtime.GreaterThan(maxOvertime) {
		return Record{}, ErrInvalidOvertime
	}
	return s.store.SetStatus(ctx, employeeID, LocalDate(day, time.UTC), status, overtime.Round(2))
}

func (s *Service) Summary(ctx context.Context, day time.Time) (DaySummary, []Record, error) {
	records, err := s.store.ListDay(ctx, day)
	if err != nil {
		return DaySummary{}, nil, err
	}
	total, err := s.store.CountRosterEmployees(ctx)
	if err != nil {
		return DaySummary{}, nil, err
	}
	return Summarize(day, total, records), records, nil
}

func (s *Service) ForDay(ctx context.Context, day time.Time) ([]Record, error) {
	return s.store.ListDay(ctx, day)
}

func (s *Service) ForClient(ctx context.Context, clientID string, day time.Time) ([]Record, error) {
	return s.store.ListClientDay(ctx, clientID, day)
}

func (s *Service) History(ctx context.Context, employeeID string, from, to time.Time) ([]Record, error) {
	from, to = s.normalizeRange(from, to)
	return s.store.ListEmployee(ctx, employeeID, from, to)
}

func (s *Service) Range(ctx context.Context, from, to time.Time) ([]Record, error) {
	from, to = s.normalizeRange(from, to)
	return s.store.ListRange(ctx, from, to)
}

// normalizeRange defaults an open range to the last 30 days ending today.
func (s *Service) normalizeRange(from, to time.Time) (time.Time, time.Time) {
	if to.IsZero() {
		to = s.Today()
	}
	if from.IsZero() {
		from = to.AddDate(0, 0, -30)
	}
	return from, to
}
