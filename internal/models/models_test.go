package models

import (
	"testing"
	"time"
)

func TestNormalizeSeverity(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"low", SeverityLow},
		{"medium", SeverityMedium},
		{"high", SeverityHigh},
		{"critical", SeverityCritical},
		{"", SeverityMedium},
		{"URGENT", SeverityMedium},
		{"High", SeverityMedium},
	}
	for _, tc := range tests {
		if got := NormalizeSeverity(tc.in); got != tc.want {
			t.Errorf("NormalizeSeverity(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestPeriodWindow(t *testing.T) {
	tests := []struct {
		period string
		want   time.Duration
	}{
		{PeriodRealtime, 15 * time.Minute},
		{PeriodHourly, time.Hour},
		{PeriodDaily, 24 * time.Hour},
		{PeriodWeekly, 7 * 24 * time.Hour},
		{"", 15 * time.Minute},
		{"monthly", 15 * time.Minute},
	}
	for _, tc := range tests {
		if got := PeriodWindow(tc.period); got != tc.want {
			t.Errorf("PeriodWindow(%q) = %v, want %v", tc.period, got, tc.want)
		}
	}
}

func TestValidAlertTransition(t *testing.T) {
	for _, status := range []string{AlertStatusActive, AlertStatusResolved, AlertStatusInvestigating} {
		if !ValidAlertTransition(status) {
			t.Errorf("ValidAlertTransition(%q) = false, want true", status)
		}
	}
	// stale is reserved for the background sweeper
	for _, status := range []string{AlertStatusStale, "", "closed"} {
		if ValidAlertTransition(status) {
			t.Errorf("ValidAlertTransition(%q) = true, want false", status)
		}
	}
}

func TestNormalizeConfidence(t *testing.T) {
	if got := NormalizeConfidence("high"); got != ConfidenceHigh {
		t.Errorf("NormalizeConfidence(high) = %q", got)
	}
	if got := NormalizeConfidence("certain"); got != ConfidenceMedium {
		t.Errorf("NormalizeConfidence(certain) = %q, want medium", got)
	}
}
