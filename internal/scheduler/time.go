package scheduler

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseWalltime parses a walltime in the syntax of the given scheduler.
// SLURM accepts [days-]hours:minutes:seconds, hours:minutes and minutes;
// LSF accepts [hours:]minutes.
func ParseWalltime(t SchedulerType, s string) (time.Duration, error) {
	switch t {
	case SchedulerSLURM:
		return parseSlurmTimeSpec(s)
	case SchedulerLSF:
		return parseLsfTime(s)
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedScheduler, string(t))
}

// FormatWalltime renders d in the syntax of the given scheduler.
func FormatWalltime(t SchedulerType, d time.Duration) string {
	if t == SchedulerLSF {
		return formatLsfTime(d)
	}
	return formatSlurmTimeSpec(d)
}

func parseSlurmTimeSpec(timeStr string) (time.Duration, error) {
	timeStr = strings.TrimSpace(timeStr)
	if timeStr == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidTimeFormat)
	}

	var days int64
	hms := timeStr
	if idx := strings.Index(hms, "-"); idx >= 0 {
		parsed, err := strconv.ParseInt(hms[:idx], 10, 64)
		if err != nil || parsed < 0 {
			return 0, fmt.Errorf("%w: %s", ErrInvalidTimeFormat, timeStr)
		}
		days = parsed
		hms = strings.TrimSpace(hms[idx+1:])
	}

	fields, err := parseTimeFields(hms, timeStr)
	if err != nil {
		return 0, err
	}

	var hours, minutes, seconds int64
	switch len(fields) {
	case 3:
		hours, minutes, seconds = fields[0], fields[1], fields[2]
	case 2:
		hours, minutes = fields[0], fields[1]
	case 1:
		minutes = fields[0]
	default:
		return 0, fmt.Errorf("%w: %s", ErrInvalidTimeFormat, timeStr)
	}

	totalSeconds := days*24*3600 + hours*3600 + minutes*60 + seconds
	return time.Duration(totalSeconds) * time.Second, nil
}

func formatSlurmTimeSpec(d time.Duration) string {
	if d <= 0 {
		return ""
	}
	total := int64(d.Seconds())
	days := total / (24 * 3600)
	rem := total % (24 * 3600)
	hours := rem / 3600
	rem %= 3600
	minutes := rem / 60
	seconds := rem % 60
	if days > 0 {
		return fmt.Sprintf("%d-%02d:%02d:%02d", days, hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}

// parseLsfTime parses LSF walltime format: HH:MM or MM
func parseLsfTime(timeStr string) (time.Duration, error) {
	timeStr = strings.TrimSpace(timeStr)
	if timeStr == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidTimeFormat)
	}

	fields, err := parseTimeFields(timeStr, timeStr)
	if err != nil {
		return 0, err
	}

	var hours, minutes int64
	switch len(fields) {
	case 2:
		hours, minutes = fields[0], fields[1]
	case 1:
		minutes = fields[0]
	default:
		return 0, fmt.Errorf("%w: %s (use [hours:]minutes)", ErrInvalidTimeFormat, timeStr)
	}

	return time.Duration(hours*3600+minutes*60) * time.Second, nil
}

// formatLsfTime formats a duration as LSF walltime (HH:MM)
func formatLsfTime(d time.Duration) string {
	if d <= 0 {
		return ""
	}
	total := int64(d.Seconds())
	hours := total / 3600
	minutes := (total % 3600) / 60
	return fmt.Sprintf("%02d:%02d", hours, minutes)
}

// parseTimeFields splits a colon-separated time into non-negative integers.
func parseTimeFields(s, orig string) ([]int64, error) {
	parts := strings.Split(s, ":")
	out := make([]int64, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%w: %s", ErrInvalidTimeFormat, orig)
		}
		out = append(out, n)
	}
	return out, nil
}
