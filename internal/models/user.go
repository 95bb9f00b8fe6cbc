package models

import "time"

// User represents a registered library member.
type User struct {
	ID           uint      `json:"user_id" gorm:"column:user_id;primaryKey;autoIncrement"`
	Email        string    `json:"email" gorm:"uniqueIndex;type:varchar(50);not null"`
	PasswordHash string    `json:"-" gorm:"column:passwd;type:varchar(255);not null"` // No json tag for security
	Age          int       `json:"age" gorm:"not null"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName keeps the table name used by the existing schema.
func (User) TableName() string {
	return "book_user"
}

// UserToken is a server-side session token issued on register or login.
// A user may hold any number of them at once.
type UserToken struct {
	ID        uint      `json:"-" gorm:"primaryKey;autoIncrement"`
	UserID    uint      `json:"user_id" gorm:"index;not null"`
	Token     string    `json:"token" gorm:"type:varchar(512);not null"`
	CreatedAt time.Time `json:"created_at"`
}

func (UserToken) TableName() string {
	return "book_user_token"
}
