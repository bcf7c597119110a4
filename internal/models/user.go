package models

const (
	MaxNameLength         = 100
	MaxEmailLength        = 256
	MaxProfileImageLength = 500
)

// User passwords are stored exactly as supplied; see DESIGN.md.
type User struct {
	BaseModel
	FirstName    string  `json:"firstName" gorm:"type:varchar(100);not null"`
	LastName     string  `json:"lastName" gorm:"type:varchar(100);not null"`
	Email        string  `json:"email" gorm:"type:varchar(256);uniqueIndex;not null"`
	Password     string  `json:"-" gorm:"type:text;not null"`
	ProfileImage *string `json:"profileImage,omitempty" gorm:"type:varchar(500)"`
}
