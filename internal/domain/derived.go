package domain

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// Derived-metrics engine: pure functions turning stored rows into the
// status/trend/alert classifications the dashboard and report views show.

// KpiStatusValue is the traffic-light classification of a KPI.
type KpiStatusValue string

const (
	StatusGreen  KpiStatusValue = "green"
	StatusYellow KpiStatusValue = "yellow"
	StatusRed    KpiStatusValue = "red"
)

// KpiTrend is the short-window direction of a KPI.
type KpiTrend string

const (
	TrendUp     KpiTrend = "up"
	TrendDown   KpiTrend = "down"
	TrendStable KpiTrend = "stable"
)

// DefaultWarningThreshold is the ratio from target that turns a KPI yellow.
const DefaultWarningThreshold = 0.10

// alertThreshold is the ratio beyond target that triggers an alert row.
const alertThreshold = 0.10

// KpiStatusFor classifies a KPI value against its target. A KPI with no
// entries yet is green: absence of data is not failure.
func KpiStatusFor(value, target float64, targetType KpiTargetType, warningThreshold float64) KpiStatusValue {
	if targetType == TargetMinimum {
		if value >= target {
			return StatusGreen
		}
		if value >= target*(1-warningThreshold) {
			return StatusYellow
		}
		return StatusRed
	}
	if value <= target {
		return StatusGreen
	}
	if value <= target*(1+warningThreshold) {
		return StatusYellow
	}
	return StatusRed
}

// KpiTrendOf classifies the direction of a value sequence, most recent last.
// Only the last 3 points are considered; fewer than 2 points is stable.
func KpiTrendOf(values []float64) KpiTrend {
	if len(values) < 2 {
		return TrendStable
	}
	recent := values
	if len(recent) > 3 {
		recent = recent[len(recent)-3:]
	}
	first := recent[0]
	last := recent[len(recent)-1]
	changePercent := (last - first) / math.Max(math.Abs(first), 1) * 100
	if changePercent > 5 {
		return TrendUp
	}
	if changePercent < -5 {
		return TrendDown
	}
	return TrendStable
}

// ShouldAlert reports whether a KPI entry value is far enough outside the
// target (10% beyond it, in the failing direction) to create an alert.
func ShouldAlert(value, target float64, targetType KpiTargetType) bool {
	if targetType == TargetMinimum {
		return value < target*(1-alertThreshold)
	}
	return value > target*(1+alertThreshold)
}

// AlertMessageFor formats the message embedded in a threshold alert.
func AlertMessageFor(kpiName string, value, target float64, targetType KpiTargetType) string {
	return fmt.Sprintf("%s is outside target range: %s (target: %s %s)",
		kpiName, formatNumber(value), targetType, formatNumber(target))
}

// TargetMet reports whether a final value satisfies the target direction.
func TargetMet(value, target float64, targetType KpiTargetType) bool {
	if targetType == TargetMinimum {
		return value >= target
	}
	return value <= target
}

// CompletionPercent is the rounded completed/total ratio, 0 when total is 0.
func CompletionPercent(completed, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

// formatNumber renders a float without trailing zeros, the way the SPA
// displays raw KPI values.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// AddDays shifts a YYYY-MM-DD date by a day offset.
func AddDays(date string, days int) (string, error) {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return "", fmt.Errorf("parse date %q: %w", date, err)
	}
	return t.AddDate(0, 0, days).Format(DateLayout), nil
}

// DateInRange reports whether date falls inside the inclusive window.
// YYYY-MM-DD strings compare correctly lexicographically.
func DateInRange(date, start, end string) bool {
	return date >= start && date <= end
}
