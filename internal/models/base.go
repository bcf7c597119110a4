package models

import "time"

type BaseModel struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	CreatedAt time.Time `json:"createdAt" gorm:"not null"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"not null"`
}

// Touch stamps the modification time. Callers use it on every update so the
// timestamp moves even when no other column changed.
func (b *BaseModel) Touch(now time.Time) {
	b.UpdatedAt = now.UTC()
}
