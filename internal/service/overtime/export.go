package overtime

import (
	"bytes"
	"fmt"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/overtime"
	"github.com/xuri/excelize/v2"
)

const (
	exportPageSize = 100
	exportSheet    = "Overtime"
)

var exportHeaders = []string{
	"Date", "Employee", "Type", "Status", "Punch In", "Punch Out", "Duration (min)", "Hours", "Source", "Notes",
}

func (s *OvertimeServiceImpl) writeWorkbook(records []overtime.Record) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(exportSheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, err
	}

	for i, h := range exportHeaders {
		if err := f.SetCellValue(exportSheet, cell(i, 1), h); err != nil {
			return nil, err
		}
	}
	if err := f.SetCellStyle(exportSheet, cell(0, 1), cell(len(exportHeaders)-1, 1), headerStyle); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(exportSheet, "A", "A", 12); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(exportSheet, "B", "F", 24); err != nil {
		return nil, err
	}

	for i, r := range records {
		row := i + 2
		loc := s.location(r)
		name := r.EmployeeID
		if r.EmployeeName != nil {
			name = *r.EmployeeName
		}

		values := []any{
			r.Date.String(),
			name,
			string(r.Type),
			string(r.Status),
			r.PunchIn.In(loc).Format(time.DateTime),
			"",
			"",
			"",
			r.Source,
			"",
		}
		if r.PunchOut != nil {
			values[5] = r.PunchOut.In(loc).Format(time.DateTime)
		}
		if r.Notes != nil {
			values[9] = *r.Notes
		}
		if r.DurationMinutes != nil {
			values[6] = *r.DurationMinutes
			hours, _ := overtime.MinutesToHours(int64(*r.DurationMinutes)).Float64()
			values[7] = hours
		}

		if err := f.SetSheetRow(exportSheet, cell(0, row), &values); err != nil {
			return nil, err
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col+1, row)
	return name
}

func exportFilename(filter overtime.OvertimeFilter) string {
	from, to := "all", "all"
	if filter.StartDate != nil && *filter.StartDate != "" {
		from = *filter.StartDate
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		to = *filter.EndDate
	}
	return fmt.Sprintf("overtime_%s_%s.xlsx", from, to)
}
