package model

import "time"

type BaseModel struct {
	ID        string    `json:"_id" db:"id"`
	CreatedAt time.Time `json:"createdAt,omitempty" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt,omitempty" db:"updated_at"`
}
