package services

import (
	"errors"
	"log"
	"time"

	"bookrental/internal/models"
	"bookrental/internal/repositories"
)

// RentalService runs the rental lifecycle: check-out, listing and return.
type RentalService struct {
	rentalRepo repositories.RentalRepository
	publisher  EventPublisher
	now        func() time.Time
}

// NewRentalService creates a new RentalService. publisher may be nil.
func NewRentalService(rentalRepo repositories.RentalRepository, publisher EventPublisher) *RentalService {
	return &RentalService{
		rentalRepo: rentalRepo,
		publisher:  publisher,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the time source. Used by tests.
func (s *RentalService) WithClock(now func() time.Time) *RentalService {
	s.now = now
	return s
}

// CheckOut rents a book to a user for RentalPeriod.
func (s *RentalService) CheckOut(cmd CheckOutCommand) (*models.Rental, error) {
	candidate, err := s.rentalRepo.FindCandidate(cmd.UserID, cmd.BookID)
	if err != nil && !errors.Is(err, repositories.ErrRecordNotFound) {
		return nil, persistenceError("failed to resolve rental candidate", err)
	}

	decision := CanRent(candidate)
	switch decision.Reason {
	case ReasonNotFound:
		return nil, newError(ErrNotFound, "no matching user_id or book_id", err)
	case ReasonAgeRestricted:
		return nil, &EligibilityError{Reason: decision.Reason}
	}

	rental := &models.Rental{
		UserID: cmd.UserID,
		BookID: cmd.BookID,
		DueAt:  DueAt(s.now()).Truncate(time.Second),
	}
	if err := s.rentalRepo.Create(rental); err != nil {
		return nil, persistenceError("rental failed", err)
	}
	log.Printf("Book %d rented by user %d (rental %d, due %s)", rental.BookID, rental.UserID, rental.ID, rental.DueDate())

	publishEvent(s.publisher, RentalEvent{
		Type:       EventRentalCheckedOut,
		RentalID:   rental.ID,
		UserID:     rental.UserID,
		BookID:     rental.BookID,
		DueAt:      rental.DueAt,
		OccurredAt: s.now(),
	})
	return rental, nil
}

// ListRentals returns the user's open rentals with book details.
func (s *RentalService) ListRentals(userID uint) ([]models.RentalDetail, error) {
	if userID == 0 {
		return nil, newError(ErrUnauthorized, "user identity is required", nil)
	}
	details, err := s.rentalRepo.ListByUser(userID)
	if err != nil {
		return nil, persistenceError("failed to list rentals", err)
	}
	return details, nil
}

// CheckIn returns a rented book. The rental is closed only when the paid fee
// equals the overdue fee exactly; otherwise nothing changes.
func (s *RentalService) CheckIn(cmd CheckInCommand) (*models.Receipt, error) {
	rental, err := s.rentalRepo.GetByUser(cmd.UserID, cmd.RentalID)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, newError(ErrNotFound, "no rental matches user_id and rental_id", err)
		}
		return nil, persistenceError("failed to look up rental", err)
	}

	now := s.now()
	fee := OverdueFee(rental.DueAt, now)
	if cmd.PaidFee != float64(fee) {
		return nil, &PaymentMismatchError{Required: fee, Paid: cmd.PaidFee}
	}

	if err := s.rentalRepo.Delete(cmd.UserID, cmd.RentalID); err != nil {
		// A concurrent return closed the rental between lookup and delete.
		if errors.Is(err, repositories.ErrNoRowsAffected) {
			return nil, newError(ErrNotFound, "no rental matches user_id and rental_id", err)
		}
		return nil, persistenceError("book return failed", err)
	}
	log.Printf("Rental %d returned by user %d (charge %d)", rental.ID, cmd.UserID, fee)

	publishEvent(s.publisher, RentalEvent{
		Type:       EventRentalReturned,
		RentalID:   rental.ID,
		UserID:     rental.UserID,
		BookID:     rental.BookID,
		DueAt:      rental.DueAt,
		Fee:        fee,
		OccurredAt: now,
	})
	return &models.Receipt{
		RentalID:   rental.ID,
		BookID:     rental.BookID,
		Fee:        fee,
		ReturnedAt: now,
	}, nil
}
