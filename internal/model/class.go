package model

import "time"

// Class is a school class (turma), e.g. "7ºA".
type Class struct {
	ID        int       `json:"id"`
	SchoolID  int       `json:"school_id"`
	Name      string    `json:"name"`
	Year      int       `json:"year"` // grade year, 1..12
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateClassRequest is the payload for creating a class.
type CreateClassRequest struct {
	SchoolID int    `json:"school_id" binding:"required"`
	Name     string `json:"name" binding:"required,min=1,max=32"`
	Year     int    `json:"year" binding:"required,min=1,max=12"`
}

// UpdateClassRequest is the payload for updating a class.
type UpdateClassRequest struct {
	Name string `json:"name" binding:"required,min=1,max=32"`
	Year int    `json:"year" binding:"required,min=1,max=12"`
}
