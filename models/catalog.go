package models

import "time"

// Table is a physical restaurant table identified by its printed code.
type Table struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Code      string    `gorm:"type:varchar(64);not null;uniqueIndex" json:"code"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// Menu is an entry of the menu catalog.
type Menu struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(128);not null;uniqueIndex" json:"name"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type CreateTableRequest struct {
	Code string `json:"code" binding:"required"`
}

type CreateMenuRequest struct {
	Name string `json:"name" binding:"required"`
}

// IdentityResponse is returned by the get-or-create endpoints.
type IdentityResponse struct {
	ID int64 `json:"id"`
}
