package models

const MaxCategoryTitleLength = 100

type Category struct {
	BaseModel
	Title    string    `json:"title" gorm:"type:varchar(100);not null"`
	Products []Product `json:"products,omitempty" gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`
}
