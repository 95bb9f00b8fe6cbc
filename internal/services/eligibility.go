package services

import "bookrental/internal/models"

// DenyReason explains why a checkout is not allowed.
type DenyReason string

const (
	ReasonNone          DenyReason = ""
	ReasonAgeRestricted DenyReason = "age-restricted"
	ReasonNotFound      DenyReason = "not-found"
)

// Decision is the outcome of an eligibility check.
type Decision struct {
	Allowed bool
	Reason  DenyReason
}

// CanRent decides whether a resolved (user, book) pair may be rented.
// A nil candidate means the pair could not be resolved.
func CanRent(candidate *models.RentalCandidate) Decision {
	if candidate == nil {
		return Decision{Reason: ReasonNotFound}
	}
	if candidate.UserAge < candidate.MinimumAge {
		return Decision{Reason: ReasonAgeRestricted}
	}
	return Decision{Allowed: true}
}
