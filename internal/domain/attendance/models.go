package attendance

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPresent Status = "hadir"
	StatusSick    Status = "sakit"
	StatusLeave   Status = "izin"
	StatusAbsent  Status = "alfa"
)

var Statuses = []Status{StatusPresent, StatusSick, StatusLeave, StatusAbsent}

func ParseStatus(value string) (Status, bool) {
	status := Status(strings.ToLower(strings.TrimSpace(value)))
	for _, known := range Statuses {
		if status == known {
			return status, true
		}
	}
	return status, false
}

// Record is one employee's attendance for one calendar day.
// Date is the local calendar date stored as UTC midnight.
type Record struct {
	ID            string          `json:"id"`
	EmployeeID    string          `json:"employeeId"`
	EmployeeName  string          `json:"employeeName,omitempty"`
	Date          time.Time       `json:"date"`
	Status        Status          `json:"status"`
	CheckIn       *time.Time      `json:"checkIn,omitempty"`
	CheckOut      *time.Time      `json:"checkOut,omitempty"`
	OvertimeHours decimal.Decimal `json:"overtimeHours"`
}

func (r *Record) State() State {
	return StateOf(r)
}

type DaySummary struct {
	Date    time.Time `json:"date"`
	Total   int       `json:"total"`
	Present int       `json:"present"`
	Sick    int       `json:"sick"`
	Leave   int       `json:"leave"`
	Absent  int       `json:"absent"`
}

// Summarize counts present/sick/leave records; everyone else counts as absent.
func Summarize(day time.Time, total int, records []Record) DaySummary {
	out := DaySummary{Date: day, Total: total}
	for _, rec := range records {
		switch rec.Status {
		case StatusPresent:
			out.Present++
		case StatusSick:
			out.Sick++
		case StatusLeave:
			out.Leave++
		}
	}
	out.Absent = total - out.Present - out.Sick - out.Leave
	if out.Absent < 0 {
		out.Absent = 0
	}
	return out
}

// LocalDate maps an instant to its calendar date in loc, as UTC midnight.
func LocalDate(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
