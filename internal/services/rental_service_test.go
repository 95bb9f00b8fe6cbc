package services_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"bookrental/internal/models"
	"bookrental/internal/repositories"
	"bookrental/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockEventPublisher is a mock implementation of services.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(exchange, routingKey string, body []byte) error {
	args := m.Called(exchange, routingKey, body)
	return args.Error(0)
}

// MockRentalStore is a mock implementation of repositories.RentalRepository
type MockRentalStore struct {
	mock.Mock
}

func (m *MockRentalStore) FindCandidate(userID, bookID uint) (*models.RentalCandidate, error) {
	args := m.Called(userID, bookID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RentalCandidate), args.Error(1)
}

func (m *MockRentalStore) Create(rental *models.Rental) error {
	args := m.Called(rental)
	return args.Error(0)
}

func (m *MockRentalStore) GetByUser(userID, rentalID uint) (*models.Rental, error) {
	args := m.Called(userID, rentalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Rental), args.Error(1)
}

func (m *MockRentalStore) ListByUser(userID uint) ([]models.RentalDetail, error) {
	args := m.Called(userID)
	return args.Get(0).([]models.RentalDetail), args.Error(1)
}

func (m *MockRentalStore) Delete(userID, rentalID uint) error {
	args := m.Called(userID, rentalID)
	return args.Error(0)
}

type rentalFixture struct {
	users   *repositories.MockUserRepository
	books   *repositories.MockBookRepository
	rentals *repositories.MockRentalRepository
	service *services.RentalService
	now     time.Time
}

// newRentalFixture wires an in-memory store with one adult user (ID 1, age
// 20) and two books: ID 1 for 25+ and ID 2 for 18+.
func newRentalFixture(t *testing.T, publisher services.EventPublisher) *rentalFixture {
	t.Helper()

	f := &rentalFixture{
		users: repositories.NewMockUserRepository(),
		books: repositories.NewMockBookRepository(),
		now:   time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC),
	}
	f.rentals = repositories.NewMockRentalRepository(f.users, f.books)
	f.service = services.NewRentalService(f.rentals, publisher).
		WithClock(func() time.Time { return f.now })

	require.NoError(t, f.users.Create(&models.User{Email: "a@x.com", PasswordHash: "x", Age: 20}))
	require.NoError(t, f.books.Create(&models.Book{Title: "Adults Only", Author: "A", MinimumAge: 25}))
	require.NoError(t, f.books.Create(&models.Book{Title: "Teen Novel", Author: "B", MinimumAge: 18}))
	return f
}

func TestRentalService_CheckOut(t *testing.T) {
	f := newRentalFixture(t, nil)

	_, err := f.service.CheckOut(services.CheckOutCommand{UserID: 1, BookID: 1})
	var eligibilityErr *services.EligibilityError
	require.ErrorAs(t, err, &eligibilityErr)
	assert.Equal(t, services.ReasonAgeRestricted, eligibilityErr.Reason)
	assert.ErrorIs(t, err, services.ErrNotEligible)
	assert.Zero(t, f.rentals.Count())

	rental, err := f.service.CheckOut(services.CheckOutCommand{UserID: 1, BookID: 2})
	require.NoError(t, err)
	assert.NotZero(t, rental.ID)
	assert.Equal(t, f.now.Add(7*24*time.Hour), rental.DueAt)
	assert.Equal(t, "2024-03-08 09:30:00", rental.DueDate())
	assert.Equal(t, 1, f.rentals.Count())
}

func TestRentalService_CheckOut_NotFound(t *testing.T) {
	f := newRentalFixture(t, nil)

	_, err := f.service.CheckOut(services.CheckOutCommand{UserID: 1, BookID: 99})
	assert.ErrorIs(t, err, services.ErrNotFound)

	_, err = f.service.CheckOut(services.CheckOutCommand{UserID: 42, BookID: 2})
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestRentalService_CheckOut_AgeProperty(t *testing.T) {
	users := repositories.NewMockUserRepository()
	books := repositories.NewMockBookRepository()
	service := services.NewRentalService(repositories.NewMockRentalRepository(users, books), nil)
	require.NoError(t, books.Create(&models.Book{Title: "Restricted", MinimumAge: 18}))

	for age := services.MinUserAge; age <= 30; age++ {
		user := &models.User{Email: fmt.Sprintf("u%d@x.com", age), Age: age}
		require.NoError(t, users.Create(user))

		_, err := service.CheckOut(services.CheckOutCommand{UserID: user.ID, BookID: 1})
		if age < 18 {
			assert.ErrorIs(t, err, services.ErrNotEligible, "age %d", age)
		} else {
			assert.NoError(t, err, "age %d", age)
		}
	}
}

func TestRentalService_ConcurrentRentalsOfSameBook(t *testing.T) {
	f := newRentalFixture(t, nil)

	for i := 0; i < 3; i++ {
		_, err := f.service.CheckOut(services.CheckOutCommand{UserID: 1, BookID: 2})
		require.NoError(t, err)
	}
	assert.Equal(t, 3, f.rentals.Count())
}

func TestRentalService_RoundTrip(t *testing.T) {
	f := newRentalFixture(t, nil)

	rental, err := f.service.CheckOut(services.CheckOutCommand{UserID: 1, BookID: 2})
	require.NoError(t, err)

	receipt, err := f.service.CheckIn(services.CheckInCommand{UserID: 1, RentalID: rental.ID, PaidFee: 0})
	require.NoError(t, err)
	assert.Equal(t, rental.ID, receipt.RentalID)
	assert.Equal(t, uint(2), receipt.BookID)
	assert.Zero(t, receipt.Fee)
	assert.Zero(t, f.rentals.Count())

	// A retried return finds nothing to close.
	_, err = f.service.CheckIn(services.CheckInCommand{UserID: 1, RentalID: rental.ID, PaidFee: 0})
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestRentalService_CheckIn_Overdue(t *testing.T) {
	f := newRentalFixture(t, nil)

	rental, err := f.service.CheckOut(services.CheckOutCommand{UserID: 1, BookID: 2})
	require.NoError(t, err)

	// Three days past the due date: one grace day, two charged days.
	f.now = rental.DueAt.Add(72 * time.Hour)

	for _, paid := range []float64{0, 300, 900, 600 + 1, 600.5} {
		_, err := f.service.CheckIn(services.CheckInCommand{UserID: 1, RentalID: rental.ID, PaidFee: paid})
		var paymentErr *services.PaymentMismatchError
		require.ErrorAs(t, err, &paymentErr)
		assert.Equal(t, int64(600), paymentErr.Required)
		assert.Equal(t, paid, paymentErr.Paid)
		assert.Equal(t, 1, f.rentals.Count(), "rental must stay open after paying %v", paid)
	}

	receipt, err := f.service.CheckIn(services.CheckInCommand{UserID: 1, RentalID: rental.ID, PaidFee: 600})
	require.NoError(t, err)
	assert.Equal(t, int64(600), receipt.Fee)
	assert.Equal(t, f.now, receipt.ReturnedAt)
	assert.Zero(t, f.rentals.Count())
}

func TestRentalService_CheckIn_WithinGraceWindow(t *testing.T) {
	f := newRentalFixture(t, nil)

	rental, err := f.service.CheckOut(services.CheckOutCommand{UserID: 1, BookID: 2})
	require.NoError(t, err)

	f.now = rental.DueAt.Add(23 * time.Hour)
	_, err = f.service.CheckIn(services.CheckInCommand{UserID: 1, RentalID: rental.ID, PaidFee: 0})
	assert.NoError(t, err)
}

func TestRentalService_CheckIn_OtherUsersRental(t *testing.T) {
	f := newRentalFixture(t, nil)
	require.NoError(t, f.users.Create(&models.User{Email: "b@x.com", Age: 30}))

	rental, err := f.service.CheckOut(services.CheckOutCommand{UserID: 1, BookID: 2})
	require.NoError(t, err)

	_, err = f.service.CheckIn(services.CheckInCommand{UserID: 2, RentalID: rental.ID})
	assert.ErrorIs(t, err, services.ErrNotFound)
	assert.Equal(t, 1, f.rentals.Count())
}

func TestRentalService_ListRentals(t *testing.T) {
	f := newRentalFixture(t, nil)

	details, err := f.service.ListRentals(1)
	require.NoError(t, err)
	assert.Empty(t, details)

	_, err = f.service.CheckOut(services.CheckOutCommand{UserID: 1, BookID: 2})
	require.NoError(t, err)

	details, err = f.service.ListRentals(1)
	require.NoError(t, err)
	require.Len(t, details, 1)
	assert.Equal(t, "Teen Novel", details[0].Title)
	assert.Equal(t, 18, details[0].MinimumAge)
	assert.Equal(t, "2024-03-08 09:30:00", details[0].DueDate)

	_, err = f.service.ListRentals(0)
	assert.ErrorIs(t, err, services.ErrUnauthorized)
}

func TestRentalService_PublishesEvents(t *testing.T) {
	publisher := new(MockEventPublisher)
	f := newRentalFixture(t, publisher)

	publisher.On("Publish", services.EventsExchange, services.EventRentalCheckedOut, mock.Anything).Return(nil).Once()
	rental, err := f.service.CheckOut(services.CheckOutCommand{UserID: 1, BookID: 2})
	require.NoError(t, err)

	// A broker failure does not undo the return.
	publisher.On("Publish", services.EventsExchange, services.EventRentalReturned, mock.Anything).
		Return(errors.New("connection reset")).Once()
	_, err = f.service.CheckIn(services.CheckInCommand{UserID: 1, RentalID: rental.ID})
	require.NoError(t, err)

	publisher.AssertExpectations(t)
	body := publisher.Calls[0].Arguments.Get(2).([]byte)
	assert.Contains(t, string(body), `"type":"rental.checked_out"`)
	assert.Contains(t, string(body), `"book_id":2`)
}

func TestRentalService_PersistenceFailures(t *testing.T) {
	store := new(MockRentalStore)
	service := services.NewRentalService(store, nil)
	dbErr := errors.New("connection refused")

	store.On("FindCandidate", uint(1), uint(2)).Return(nil, dbErr).Once()
	_, err := service.CheckOut(services.CheckOutCommand{UserID: 1, BookID: 2})
	assert.ErrorIs(t, err, services.ErrPersistence)
	assert.ErrorIs(t, err, dbErr)

	store.On("FindCandidate", uint(1), uint(2)).Return(&models.RentalCandidate{UserAge: 20, MinimumAge: 18}, nil).Once()
	store.On("Create", mock.AnythingOfType("*models.Rental")).Return(repositories.ErrNoRowsAffected).Once()
	_, err = service.CheckOut(services.CheckOutCommand{UserID: 1, BookID: 2})
	assert.ErrorIs(t, err, services.ErrPersistence)

	store.On("GetByUser", uint(1), uint(5)).Return(&models.Rental{ID: 5, UserID: 1, BookID: 2, DueAt: time.Now().Add(time.Hour)}, nil).Once()
	store.On("Delete", uint(1), uint(5)).Return(dbErr).Once()
	_, err = service.CheckIn(services.CheckInCommand{UserID: 1, RentalID: 5})
	assert.ErrorIs(t, err, services.ErrPersistence)

	store.AssertExpectations(t)
}

func TestRentalService_CheckIn_LosesConcurrentReturn(t *testing.T) {
	store := new(MockRentalStore)
	service := services.NewRentalService(store, nil)

	// The lookup still sees the rental but another request deletes it first.
	store.On("GetByUser", uint(1), uint(5)).Return(&models.Rental{ID: 5, UserID: 1, BookID: 2, DueAt: time.Now().Add(time.Hour)}, nil).Once()
	store.On("Delete", uint(1), uint(5)).Return(repositories.ErrNoRowsAffected).Once()

	_, err := service.CheckIn(services.CheckInCommand{UserID: 1, RentalID: 5})
	assert.ErrorIs(t, err, services.ErrNotFound)
	assert.NotErrorIs(t, err, services.ErrPersistence)
	store.AssertExpectations(t)
}
