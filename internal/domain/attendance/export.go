package attendance

import (
	"encoding/csv"
	"io"
	"time"
)

var exportHeader = []string{"date", "employee", "status", "check_in", "check_out", "overtime_hours"}

// WriteCSV renders records with times shown in loc.
func WriteCSV(w io.Writer, records []Record, loc *time.Location) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(exportHeader); err != nil {
		return err
	}
	for _, rec := range records {
		if err := writer.Write([]string{
			rec.Date.Format("2006-01-02"),
			rec.EmployeeName,
			string(rec.Status),
			clockText(rec.CheckIn, loc),
			clockText(rec.CheckOut, loc),
			rec.OvertimeHours.StringFixed(2),
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func clockText(t *time.Time, loc *time.Location) string {
	if t == nil {
		return ""
	}
	return t.In(loc).Format("15:04:05")
}
