package models

import "time"

// DueDateLayout is the format used for due dates in API responses.
const DueDateLayout = "2006-01-02 15:04:05"

// Rental is an open checkout. The row is deleted when the book is returned.
type Rental struct {
	ID     uint      `json:"rental_id" gorm:"column:rental_id;primaryKey;autoIncrement"`
	UserID uint      `json:"user_id" gorm:"index;not null"`
	BookID uint      `json:"book_id" gorm:"index;not null"`
	DueAt  time.Time `json:"-" gorm:"column:limit_date;not null"`
}

func (Rental) TableName() string {
	return "book_rental"
}

// DueDate returns the due timestamp formatted for clients.
func (r Rental) DueDate() string {
	return r.DueAt.Format(DueDateLayout)
}

// RentalCandidate is the (user age, book minimum age) pair resolved for a
// prospective checkout.
type RentalCandidate struct {
	UserAge    int
	MinimumAge int
}

// RentalDetail is a rental joined with its book, as listed to the renter.
type RentalDetail struct {
	RentalID   uint      `json:"rental_id"`
	BookID     uint      `json:"book_id"`
	Title      string    `json:"title"`
	Author     string    `json:"author"`
	MinimumAge int       `json:"limit_age" gorm:"column:limit_age"`
	DueAt      time.Time `json:"-" gorm:"column:limit_date"`
	DueDate    string    `json:"limit_date" gorm:"-"`
}

// Receipt confirms a completed return.
type Receipt struct {
	RentalID   uint      `json:"rental_id"`
	BookID     uint      `json:"book_id"`
	Fee        int64     `json:"charge"`
	ReturnedAt time.Time `json:"returned_at"`
}
