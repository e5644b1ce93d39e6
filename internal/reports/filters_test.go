package reports

import (
	"testing"
	"time"
)

func TestGetDateRangeCustom(t *testing.T) {
	start, end, err := GetDateRange(DateRangeCustom, "2026-03-01", "2026-03-15")
	if err != nil {
		t.Fatal(err)
	}
	if start.Format("2006-01-02") != "2026-03-01" {
		t.Errorf("start = %v", start)
	}
	// End bound covers the whole final day
	if end.Hour() != 23 || end.Minute() != 59 {
		t.Errorf("end = %v, want end of day", end)
	}
}

func TestGetDateRangeCustomValidation(t *testing.T) {
	if _, _, err := GetDateRange(DateRangeCustom, "", ""); err == nil {
		t.Error("expected error for missing custom bounds")
	}
	if _, _, err := GetDateRange(DateRangeCustom, "2026-03-15", "2026-03-01"); err == nil {
		t.Error("expected error for inverted bounds")
	}
	if _, _, err := GetDateRange(DateRangeCustom, "15/03/2026", "2026-03-20"); err == nil {
		t.Error("expected error for bad date format")
	}
}

func TestGetDateRangePresets(t *testing.T) {
	tests := []struct {
		name      string
		dateRange string
		wantDays  float64
	}{
		{"daily is one day", DateRangeDaily, 1},
		{"weekly is seven days", DateRangeWeekly, 7},
		{"unknown falls back to weekly", "fortnightly", 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, err := GetDateRange(tt.dateRange, "", "")
			if err != nil {
				t.Fatal(err)
			}
			days := end.Sub(start).Hours() / 24
			if days < tt.wantDays-0.1 || days > tt.wantDays+0.1 {
				t.Errorf("range spans %.2f days, want ~%.0f", days, tt.wantDays)
			}
			if !start.Before(time.Now()) {
				t.Errorf("start %v should not be in the future", start)
			}
		})
	}
}
