package punchfile

import (
	"bytes"
	"strings"
	"testing"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/attendance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{path: "punches.json", want: FormatJSON},
		{path: "/tmp/Export.CSV", want: FormatCSV},
		{path: "march.xlsx", want: FormatXLSX},
		{path: "punches.txt", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatFromPath(tt.path)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRead_JSON(t *testing.T) {
	array := `[{"device_user_id":"1001","date":"2024-03-04","check_time":"2024-03-04 08:00:00","check_type":"IN"}]`
	records, err := Read(strings.NewReader(array), FormatJSON)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "1001", records[0].DeviceUserID)
	assert.Equal(t, "IN", records[0].CheckType)

	wrapped := `{"attendance_records":[{"employee_id":"e1","date":"2024-03-04","punch_in":"2024-03-04 08:00","punch_out":"2024-03-04 17:00"}]}`
	records, err = Read(strings.NewReader(wrapped), FormatJSON)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.True(t, records[0].IsManualPair())

	_, err = Read(strings.NewReader("{"), FormatJSON)
	assert.Error(t, err)
}

func TestRead_CSV(t *testing.T) {
	input := "Device_User_ID,date,check_time,check_type,note\n" +
		"1001,2024-03-04,2024-03-04 08:01:00,in,late bus\n" +
		",,,,\n" +
		"1001,2024-03-04,2024-03-04 17:05:00,OUT,\n"

	records, err := Read(strings.NewReader(input), FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, []attendance.PunchRequest{
		{DeviceUserID: "1001", Date: "2024-03-04", CheckTime: "2024-03-04 08:01:00", CheckType: "IN"},
		{DeviceUserID: "1001", Date: "2024-03-04", CheckTime: "2024-03-04 17:05:00", CheckType: "OUT"},
	}, records)

	_, err = Read(strings.NewReader("foo,bar\n1,2\n"), FormatCSV)
	assert.ErrorContains(t, err, "no recognised columns")
}

func TestRead_XLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"employee_id", "date", "punch_in", "punch_out"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"e1", "2024-03-04", "2024-03-04 08:00", "2024-03-04 17:00"}))
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	require.NoError(t, f.Close())

	records, err := Read(&buf, FormatXLSX)
	require.NoError(t, err)
	assert.Equal(t, []attendance.PunchRequest{
		{EmployeeID: "e1", Date: "2024-03-04", PunchIn: "2024-03-04 08:00", PunchOut: "2024-03-04 17:00"},
	}, records)
}
