package schedule_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/paintworks/pw_backend/internal/core/domain"
	"github.com/paintworks/pw_backend/internal/utils/schedule"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"", 0},
		{"40", 40},
		{"  12.5  ", 12.5},
		{"-3", 0},
		{"2 weeks", 80},
		{"3 days", 24},
		{"5 hours", 5},
		{"1 week, 2 days", 56},
		{"2 Weeks 1 day and 4 hours", 92},
		{"1week", 40},
		{"about a fortnight", 0},
		{"soon", 0},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, schedule.ParseDuration(tt.input))
		})
	}
}

func TestParseDurationPlainNumberWins(t *testing.T) {
	// "100" parses as hours even though a phrase scan would find nothing.
	assert.Equal(t, 100.0, schedule.ParseDuration("100"))
}

func TestEstimateProgress(t *testing.T) {
	tests := []struct {
		name        string
		duration    string
		hoursWorked float64
		current     domain.ProjectStatus
		wantPercent int
		wantStatus  domain.ProjectStatus
	}{
		{
			name:     "halfway through two weeks",
			duration: "2 weeks", hoursWorked: 40, current: domain.StatusInProgress,
			wantPercent: 50, wantStatus: domain.StatusInProgress,
		},
		{
			name:     "all hours logged suggests completed",
			duration: "3 days", hoursWorked: 24, current: domain.StatusInProgress,
			wantPercent: 100, wantStatus: domain.StatusCompleted,
		},
		{
			name:     "overshoot clamps to one hundred",
			duration: "8", hoursWorked: 20, current: domain.StatusApproved,
			wantPercent: 100, wantStatus: domain.StatusCompleted,
		},
		{
			name:     "first hours move a quotation to in-progress",
			duration: "40", hoursWorked: 4, current: domain.StatusQuotation,
			wantPercent: 10, wantStatus: domain.StatusInProgress,
		},
		{
			name:     "no duration declared yields zero percent",
			duration: "", hoursWorked: 10, current: domain.StatusQuotation,
			wantPercent: 0, wantStatus: domain.StatusQuotation,
		},
		{
			name:     "zero hours on a started project suggests quotation",
			duration: "2 weeks", hoursWorked: 0, current: domain.StatusApproved,
			wantPercent: 0, wantStatus: domain.StatusQuotation,
		},
		{
			name:     "negative hours treated as zero",
			duration: "2 weeks", hoursWorked: -5, current: domain.StatusQuotation,
			wantPercent: 0, wantStatus: domain.StatusQuotation,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			est := schedule.EstimateProgress(tt.duration, tt.hoursWorked, tt.current)
			assert.Equal(t, tt.wantPercent, est.Percent)
			assert.Equal(t, tt.wantStatus, est.SuggestedStatus)
		})
	}
}
