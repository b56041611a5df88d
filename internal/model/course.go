package model

import "time"

// Course is a class offered by the academy.  MaxStudents caps the
// occupancy of every slot scheduled for the course.
type Course struct {
	ID          uint64    // courses.id
	Name        string    // courses.name
	MaxStudents int       // courses.max_students
	IsActive    bool      // courses.is_active
	CreatedAt   time.Time // courses.created_at
	UpdatedAt   time.Time // courses.updated_at
}
