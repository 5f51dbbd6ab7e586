package domain

import "time"

type Product struct {
	ID          uint64    `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string    `json:"name" gorm:"size:255;not null"`
	Price       int64     `json:"price" gorm:"not null"`
	Stock       int64     `json:"stock" gorm:"not null;default:0"`
	Image       string    `json:"image" gorm:"size:512"`
	Description string    `json:"description" gorm:"type:text"`
	CreatedAt   time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}
