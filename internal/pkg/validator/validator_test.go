package validator

import (
	"errors"
	"testing"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/apperror"
)

func TestIsValidUUID(t *testing.T) {
	valid := []string{
		"0188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b", // valid UUIDv7
		"0188D0F2-7B8C-7B4A-8A2B-6B8B8B8B8B8B", // valid UUIDv7 (uppercase)
	}
	invalid := []string{
		"123e4567-e89b-12d3-a456-426614174000", // not v7
		"0188d0f27b8c7b4a8a2b6b8b8b8b8b8b",     // missing dashes
		"g188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b", // invalid hex
		"",                                     // empty
	}
	for _, uuid := range valid {
		if !IsValidUUID(uuid) {
			t.Errorf("IsValidUUID(%q) = false, want true", uuid)
		}
	}
	for _, uuid := range invalid {
		if IsValidUUID(uuid) {
			t.Errorf("IsValidUUID(%q) = true, want false", uuid)
		}
	}
}

func TestIsValidDate(t *testing.T) {
	valid := []string{"2023-01-01", "2000-12-31"}
	invalid := []string{"2023-13-01", "2023-01-32", "2023/01/01", "01-01-2023", ""}
	for _, s := range valid {
		_, ok := IsValidDate(s)
		if !ok {
			t.Errorf("IsValidDate(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		_, ok := IsValidDate(s)
		if ok {
			t.Errorf("IsValidDate(%q) = true, want false", s)
		}
	}
}

func TestIsInSlice(t *testing.T) {
	slice := []string{"a", "b", "c"}
	if !IsInSlice("a", slice) {
		t.Errorf("IsInSlice('a') = false, want true")
	}
	if IsInSlice("d", slice) {
		t.Errorf("IsInSlice('d') = true, want false")
	}
}

func TestValidationErrors_Error(t *testing.T) {
	errs := ValidationErrors{
		{Field: "date", Message: "invalid"},
		{Field: "check_time", Message: "required"},
	}
	got := errs.Error()
	want := "date: invalid; check_time: required"
	if got != want {
		t.Errorf("ValidationErrors.Error() = %q, want %q", got, want)
	}
	if !errors.Is(errs, apperror.ErrValidation) {
		t.Errorf("ValidationErrors should match apperror.ErrValidation")
	}
}

func TestValidationErrors_ToMap(t *testing.T) {
	errs := ValidationErrors{
		{Field: "date", Message: "invalid"},
		{Field: "check_time", Message: "required"},
	}
	got := errs.ToMap()
	want := map[string]string{"date": "invalid", "check_time": "required"}
	if len(got) != len(want) {
		t.Errorf("ValidationErrors.ToMap() length = %d, want %d", len(got), len(want))
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("ValidationErrors.ToMap()[%q] = %q, want %q", k, got[k], v)
		}
	}
}

type structCase struct {
	EmployeeID   string        `json:"employee_id" validate:"required_without=DeviceUserID"`
	DeviceUserID string        `json:"device_user_id"`
	Date         string        `json:"date" validate:"required,datetime=2006-01-02"`
	CheckType    string        `json:"check_type" validate:"omitempty,oneof=IN OUT"`
	Items        []structInner `json:"items" validate:"max=2,dive"`
}

type structInner struct {
	Minutes int `json:"minutes" validate:"gte=0"`
}

func TestStruct(t *testing.T) {
	ok := structCase{DeviceUserID: "42", Date: "2024-03-04", CheckType: "IN"}
	if err := Struct(ok); err != nil {
		t.Fatalf("Struct(valid) = %v, want nil", err)
	}

	bad := structCase{Date: "04-03-2024", CheckType: "SIDEWAYS", Items: []structInner{{Minutes: -1}}}
	err := Struct(bad)
	var errs ValidationErrors
	if !errors.As(err, &errs) {
		t.Fatalf("Struct(invalid) error = %T, want ValidationErrors", err)
	}

	got := errs.ToMap()
	want := map[string]string{
		"employee_id":      "employee_id is required when device_user_id is empty",
		"date":             "date must match layout 2006-01-02",
		"check_type":       "check_type must be one of: IN, OUT",
		"items[0].minutes": "minutes must be greater than or equal to 0",
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("Struct(invalid)[%q] = %q, want %q", k, got[k], v)
		}
	}
}
