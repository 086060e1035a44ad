package model

import "time"

// School is a tenant of the console.
type School struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	City      string    `json:"city"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateSchoolRequest is the payload for registering a school.
type CreateSchoolRequest struct {
	Name string `json:"name" binding:"required,min=3,max=255"`
	City string `json:"city" binding:"required,min=2,max=128"`
}

// UpdateSchoolRequest is the payload for renaming a school.
type UpdateSchoolRequest struct {
	Name string `json:"name" binding:"required,min=3,max=255"`
	City string `json:"city" binding:"required,min=2,max=128"`
}
