package reports

import (
	"context"
	"time"

	"hrportal/internal/domain/attendance"
	"hrportal/internal/domain/core"
)

// Registry is the read side of the domain registry the dashboards need.
type Registry interface {
	Counts(ctx context.Context) (core.Counts, error)
	ListEmployees(ctx context.Context, status string) ([]core.Employee, error)
	GetEmployee(ctx context.Context, employeeID string) (core.Employee, error)
	GetClientByUserID(ctx context.Context, userID string) (core.Client, error)
	ListAssignments(ctx context.Context, filter core.AssignmentFilter) ([]core.Assignment, error)
	ListActivities(ctx context.Context, filter core.ActivityFilter) ([]core.ActivityLog, error)
}

type Attendance interface {
	Today() time.Time
	Location() *time.Location
	Summary(ctx context.Context, day time.Time) (attendance.DaySummary, []attendance.Record, error)
	ForClient(ctx context.Context, clientID string, day time.Time) ([]attendance.Record, error)
	History(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.Record, error)
}

type Service struct {
	registry   Registry
	attendance Attendance
}

func NewService(registry Registry, attendance Attendance) *Service {
	return &Service{registry: registry, attendance: attendance}
}

type HRDashboard struct {
	Counts          core.Counts
	Attendance      attendance.DaySummary
	ActiveEmployees []core.Employee
}

func (s *Service) HRDashboard(ctx context.Context) (HRDashboard, error) {
	counts, err := s.registry.Counts(ctx)
	if err != nil {
		return HRDashboard{}, err
	}
	summary, _, err := s.attendance.Summary(ctx, s.attendance.Today())
	if err != nil {
		return HRDashboard{}, err
	}
	active, err := s.registry.ListEmployees(ctx, core.EmployeeStatusActive)
	if err != nil {
		return HRDashboard{}, err
	}
	return HRDashboard{Counts: counts, Attendance: summary, ActiveEmployees: active}, nil
}

type OperationRow struct {
	Employee   core.Employee
	Attendance *attendance.Record
	Activities []core.ActivityLog
}

type OperationBoard struct {
	Day  time.Time
	Rows []OperationRow
}

// Operation lists every active employee with today's attendance and activity.
func (s *Service) Operation(ctx context.Context) (OperationBoard, error) {
	day := s.attendance.Today()
	employees, err := s.registry.ListEmployees(ctx, core.EmployeeStatusActive)
	if err != nil {
		return OperationBoard{}, err
	}
	_, records, err := s.attendance.Summary(ctx, day)
	if err != nil {
		return OperationBoard{}, err
	}
	from, to := s.dayBounds(day, day)
	activities, err := s.registry.ListActivities(ctx, core.ActivityFilter{From: from, To: to})
	if err != nil {
		return OperationBoard{}, err
	}

	byEmployee := make(map[string]*attendance.Record, len(records))
	for i := range records {
		byEmployee[records[i].EmployeeID] = &records[i]
	}
	logs := make(map[string][]core.ActivityLog)
	for _, a := range activities {
		logs[a.EmployeeID] = append(logs[a.EmployeeID], a)
	}

	board := OperationBoard{Day: day, Rows: make([]OperationRow, 0, len(employees))}
	for _, emp := range employees {
		board.Rows = append(board.Rows, OperationRow{
			Employee:   emp,
			Attendance: byEmployee[emp.ID],
			Activities: logs[emp.ID],
		})
	}
	return board, nil
}

type EmployeeHistory struct {
	Employee   core.Employee
	From       time.Time
	To         time.Time
	Attendance []attendance.Record
	Activities []core.ActivityLog
}

// EmployeeHistory covers the inclusive calendar range [from, to]. Zero bounds
// default to the last 30 days.
func (s *Service) EmployeeHistory(ctx context.Context, employeeID string, from, to time.Time) (EmployeeHistory, error) {
	emp, err := s.registry.GetEmployee(ctx, employeeID)
	if err != nil {
		return EmployeeHistory{}, err
	}
	if to.IsZero() {
		to = s.attendance.Today()
	}
	if from.IsZero() {
		from = to.AddDate(0, 0, -30)
	}
	records, err := s.attendance.History(ctx, employeeID, from, to)
	if err != nil {
		return EmployeeHistory{}, err
	}
	start, end := s.dayBounds(from, to)
	activities, err := s.registry.ListActivities(ctx, core.ActivityFilter{EmployeeID: employeeID, From: start, To: end})
	if err != nil {
		return EmployeeHistory{}, err
	}
	return EmployeeHistory{Employee: emp, From: from, To: to, Attendance: records, Activities: activities}, nil
}

type ClientDashboard struct {
	Client      core.Client
	Day         time.Time
	Assignments []core.Assignment
	Attendance  []attendance.Record
}

// ClientDashboard shows a client account its placed employees and their day.
func (s *Service) ClientDashboard(ctx context.Context, userID string) (ClientDashboard, error) {
	client, err := s.registry.GetClientByUserID(ctx, userID)
	if err != nil {
		return ClientDashboard{}, err
	}
	assignments, err := s.registry.ListAssignments(ctx, core.AssignmentFilter{ClientID: client.ID, ActiveOnly: true})
	if err != nil {
		return ClientDashboard{}, err
	}
	day := s.attendance.Today()
	records, err := s.attendance.ForClient(ctx, client.ID, day)
	if err != nil {
		return ClientDashboard{}, err
	}
	return ClientDashboard{Client: client, Day: day, Assignments: assignments, Attendance: records}, nil
}

// dayBounds turns calendar dates into instants covering both whole local days.
func (s *Service) dayBounds(from, to time.Time) (time.Time, time.Time) {
	loc := s.attendance.Location()
	start := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, loc)
	end := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, 1).Add(-time.Nanosecond)
	return start, end
}
