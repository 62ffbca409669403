package logbook

import (
	"errors"
	"testing"
)

func TestComputeHoursWorked(t *testing.T) {
	tests := []struct {
		name       string
		start, end string
		want       float64
	}{
		{"正常白班", "08:00", "17:00", 9.00},
		{"跨越午夜", "22:00", "02:00", 4.00},
		{"非整点", "08:15", "12:35", 4.33},
		{"二十分钟", "09:00", "09:20", 0.33},
		{"四十五分钟", "13:00", "13:45", 0.75},
		{"差一分钟满一天", "00:00", "23:59", 23.98},
		{"相同时间", "08:00", "08:00", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeHoursWorked(MustClockTime(tt.start), MustClockTime(tt.end))
			if got != tt.want {
				t.Errorf("ComputeHoursWorked(%s, %s) 期望=%.2f，实际=%.2f", tt.start, tt.end, tt.want, got)
			}
		})
	}
}

func TestParseClockTime(t *testing.T) {
	valid := map[string]ClockTime{
		"00:00":    0,
		"08:30":    510,
		"23:59":    1439,
		"7:05":     425,
		"17:00:00": 1020,
	}
	for in, want := range valid {
		got, err := ParseClockTime(in)
		if err != nil {
			t.Errorf("ParseClockTime(%q) 不应失败: %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseClockTime(%q) 期望=%d，实际=%d", in, want, got)
		}
	}

	for _, in := range []string{"", "24:00", "12:60", "8", "ab:cd", "08:5", "123:00"} {
		if _, err := ParseClockTime(in); !errors.Is(err, ErrInvalidClockTime) {
			t.Errorf("ParseClockTime(%q) 期望 ErrInvalidClockTime，实际: %v", in, err)
		}
	}
}

func TestClockTime_String(t *testing.T) {
	if s := MustClockTime("7:05").String(); s != "07:05" {
		t.Errorf("期望 07:05，实际 %s", s)
	}
}
