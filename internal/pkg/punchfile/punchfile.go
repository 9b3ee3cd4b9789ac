// Package punchfile reads punch exports from attendance devices and HR
// spreadsheets into punch requests.
//
// Tabular files (CSV and XLSX) need a header row; columns are matched by the
// JSON field names of attendance.PunchRequest and unknown columns are ignored.
package punchfile

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/attendance"
	"github.com/xuri/excelize/v2"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

var ErrUnknownFormat = errors.New("unknown punch file format")

// FormatFromPath picks a format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")) {
	case "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	case "xlsx":
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, path)
}

// Read decodes every record in r. JSON input is either an array of records or
// an object with an attendance_records array, the same body the bulk endpoint takes.
func Read(r io.Reader, format Format) ([]attendance.PunchRequest, error) {
	switch format {
	case FormatJSON:
		return readJSON(r)
	case FormatCSV:
		rows, err := csv.NewReader(r).ReadAll()
		if err != nil {
			return nil, fmt.Errorf("failed to read csv: %w", err)
		}
		return fromRows(rows)
	case FormatXLSX:
		return readXLSX(r)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

func readJSON(r io.Reader) ([]attendance.PunchRequest, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, "[") {
		var records []attendance.PunchRequest
		if err := json.Unmarshal(raw, &records); err != nil {
			return nil, fmt.Errorf("failed to decode json: %w", err)
		}
		return records, nil
	}

	var body attendance.BulkPunchRequest
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("failed to decode json: %w", err)
	}
	return body.Records, nil
}

func readXLSX(r io.Reader) ([]attendance.PunchRequest, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("xlsx has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	return fromRows(rows)
}

var columns = map[string]func(*attendance.PunchRequest, string){
	"employee_id":      func(p *attendance.PunchRequest, v string) { p.EmployeeID = v },
	"device_user_id":   func(p *attendance.PunchRequest, v string) { p.DeviceUserID = v },
	"date":             func(p *attendance.PunchRequest, v string) { p.Date = v },
	"check_time":       func(p *attendance.PunchRequest, v string) { p.CheckTime = v },
	"check_type":       func(p *attendance.PunchRequest, v string) { p.CheckType = strings.ToUpper(v) },
	"device_ip":        func(p *attendance.PunchRequest, v string) { p.DeviceIP = v },
	"punch_in":         func(p *attendance.PunchRequest, v string) { p.PunchIn = v },
	"punch_in_source":  func(p *attendance.PunchRequest, v string) { p.PunchInSource = v },
	"punch_out":        func(p *attendance.PunchRequest, v string) { p.PunchOut = v },
	"punch_out_source": func(p *attendance.PunchRequest, v string) { p.PunchOutSource = v },
}

func fromRows(rows [][]string) ([]attendance.PunchRequest, error) {
	if len(rows) == 0 {
		return nil, errors.New("file has no header row")
	}

	setters := make([]func(*attendance.PunchRequest, string), len(rows[0]))
	known := 0
	for i, name := range rows[0] {
		if set, ok := columns[strings.ToLower(strings.TrimSpace(name))]; ok {
			setters[i] = set
			known++
		}
	}
	if known == 0 {
		return nil, errors.New("header row has no recognised columns")
	}

	records := make([]attendance.PunchRequest, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		var p attendance.PunchRequest
		for i, cell := range row {
			if i < len(setters) && setters[i] != nil {
				setters[i](&p, strings.TrimSpace(cell))
			}
		}
		records = append(records, p)
	}
	return records, nil
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
