package services_test

import (
	"testing"
	"time"

	"bookrental/internal/services"

	"github.com/stretchr/testify/assert"
)

func TestOverdueFee(t *testing.T) {
	due := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		now  time.Time
		want int64
	}{
		{"returned early", due.Add(-72 * time.Hour), 0},
		{"returned on time", due, 0},
		{"inside grace window", due.Add(12 * time.Hour), 0},
		{"grace window boundary", due.Add(24 * time.Hour), 0},
		{"just past grace window", due.Add(24*time.Hour + time.Millisecond), 300},
		{"one full day beyond grace", due.Add(48 * time.Hour), 300},
		{"second day started", due.Add(48*time.Hour + time.Second), 600},
		{"ten days overdue", due.Add(10 * 24 * time.Hour), 2700},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, services.OverdueFee(due, tt.now))
		})
	}
}

func TestOverdueFee_GrowsWithOverdueTime(t *testing.T) {
	due := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	var previous int64
	for h := 0; h <= 24*30; h++ {
		fee := services.OverdueFee(due, due.Add(time.Duration(h)*time.Hour))
		assert.GreaterOrEqual(t, fee, previous, "fee decreased at %dh", h)
		assert.Zero(t, fee%services.FeePerUnit)
		previous = fee
	}
}

func TestDueAt(t *testing.T) {
	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 3, 8, 12, 0, 0, 0, time.UTC), services.DueAt(start))
}
