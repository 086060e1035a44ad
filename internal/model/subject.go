package model

import "time"

// Subject is a taught discipline, e.g. "Matemática".
type Subject struct {
	ID        int       `json:"id"`
	SchoolID  int       `json:"school_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateSubjectRequest is the payload for creating a subject.
type CreateSubjectRequest struct {
	SchoolID int    `json:"school_id" binding:"required"`
	Name     string `json:"name" binding:"required,min=2,max=128"`
}

// UpdateSubjectRequest is the payload for updating a subject.
type UpdateSubjectRequest struct {
	Name string `json:"name" binding:"required,min=2,max=128"`
}
