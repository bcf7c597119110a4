package models

import "math"

const (
	MaxProductTitleLength = 200
	MaxImageURLLength     = 500
)

type Product struct {
	BaseModel
	Title       string    `json:"title" gorm:"type:varchar(200);not null"`
	Description string    `json:"description" gorm:"type:text;not null"`
	Price       float64   `json:"price" gorm:"type:decimal(10,2);not null;default:0"`
	ImageURL    string    `json:"imageUrl" gorm:"type:varchar(500);not null"`
	CategoryID  uint      `json:"categoryId" gorm:"not null;index"`
	Category    *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
}

// RoundPrice keeps two fractional digits, rounding half away from zero.
func RoundPrice(price float64) float64 {
	return math.Round(price*100) / 100
}
