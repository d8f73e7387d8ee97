package models

import "time"

type Student struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"index"`
	BirthDate Date   `gorm:"index"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
