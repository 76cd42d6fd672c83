package scheduler

import (
	"errors"
	"testing"
	"time"
)

func TestParseWalltime(t *testing.T) {
	tests := []struct {
		sched   SchedulerType
		in      string
		want    time.Duration
		wantErr bool
	}{
		{SchedulerSLURM, "00:05:00", 5 * time.Minute, false},
		{SchedulerSLURM, "2:30", 2*time.Hour + 30*time.Minute, false},
		{SchedulerSLURM, "90", 90 * time.Minute, false},
		{SchedulerSLURM, "1-12:00:00", 36 * time.Hour, false},
		{SchedulerSLURM, "abc", 0, true},
		{SchedulerSLURM, "1:2:3:4", 0, true},
		{SchedulerSLURM, "", 0, true},
		{SchedulerLSF, "00:05", 5 * time.Minute, false},
		{SchedulerLSF, "45", 45 * time.Minute, false},
		{SchedulerLSF, "01:00:00", 0, true},
		{SchedulerLSF, "-5", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseWalltime(tt.sched, tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidTimeFormat) {
				t.Errorf("ParseWalltime(%s, %q) err = %v; want ErrInvalidTimeFormat", tt.sched, tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseWalltime(%s, %q) unexpected error: %v", tt.sched, tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseWalltime(%s, %q) = %v; want %v", tt.sched, tt.in, got, tt.want)
		}
	}

	if _, err := ParseWalltime(SchedulerUnknown, "00:05"); !errors.Is(err, ErrUnsupportedScheduler) {
		t.Errorf("unknown scheduler err = %v", err)
	}
}

func TestFormatWalltime(t *testing.T) {
	if got := FormatWalltime(SchedulerSLURM, 36*time.Hour+5*time.Second); got != "1-12:00:05" {
		t.Errorf("SLURM format = %q", got)
	}
	if got := FormatWalltime(SchedulerSLURM, 5*time.Minute); got != "00:05:00" {
		t.Errorf("SLURM format = %q", got)
	}
	if got := FormatWalltime(SchedulerLSF, 90*time.Minute); got != "01:30" {
		t.Errorf("LSF format = %q", got)
	}
	if got := FormatWalltime(SchedulerLSF, 0); got != "" {
		t.Errorf("zero duration = %q", got)
	}
}
