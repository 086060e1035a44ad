package model

import "time"

// Student is an enrolled student record.
type Student struct {
	ID        int       `json:"id"`
	SchoolID  int       `json:"school_id"`
	ClassID   *int      `json:"class_id,omitempty"`
	Name      string    `json:"name"`
	Number    string    `json:"number"` // student enrollment number, unique per school
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateStudentRequest is the payload for enrolling a student.
type CreateStudentRequest struct {
	SchoolID int    `json:"school_id" binding:"required"`
	ClassID  *int   `json:"class_id"`
	Name     string `json:"name" binding:"required,min=3,max=255"`
	Number   string `json:"number" binding:"required,min=1,max=32"`
}

// UpdateStudentRequest is the payload for updating a student.
type UpdateStudentRequest struct {
	ClassID *int   `json:"class_id"`
	Name    string `json:"name" binding:"required,min=3,max=255"`
	Number  string `json:"number" binding:"required,min=1,max=32"`
}
