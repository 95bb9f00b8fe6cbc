package models

// Book represents a catalog entry. The catalog is maintained outside this
// service; rentals only read it.
type Book struct {
	ID         uint   `json:"id" gorm:"primaryKey;autoIncrement"`
	Title      string `json:"title" gorm:"type:varchar(255);not null"`
	Author     string `json:"author" gorm:"type:varchar(255)"`
	MinimumAge int    `json:"limit_age" gorm:"column:limit_age;not null;default:0"`
}

func (Book) TableName() string {
	return "book"
}
