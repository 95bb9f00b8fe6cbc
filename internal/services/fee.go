package services

import "time"

const (
	// RentalPeriod is how long a book may be kept before it is overdue.
	RentalPeriod = 7 * 24 * time.Hour
	// GracePeriod is the overdue time during which no fee accrues.
	GracePeriod = 24 * time.Hour
	// FeeUnit is the overdue time charged at FeePerUnit.
	FeeUnit = 24 * time.Hour
	// FeePerUnit is charged for every started FeeUnit beyond the grace period,
	// in currency minor units.
	FeePerUnit int64 = 300
)

// DueAt returns the due date of a rental starting at checkedOutAt.
func DueAt(checkedOutAt time.Time) time.Time {
	return checkedOutAt.Add(RentalPeriod)
}

// OverdueFee returns the fee owed when returning at now a book due at dueAt.
func OverdueFee(dueAt, now time.Time) int64 {
	overdue := now.Sub(dueAt)
	if overdue <= GracePeriod {
		return 0
	}
	beyond := overdue - GracePeriod
	units := int64(beyond / FeeUnit)
	if beyond%FeeUnit != 0 {
		units++
	}
	return units * FeePerUnit
}
