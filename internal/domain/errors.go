package domain

import "errors"

var (
	// ErrNotEnrolled is returned when the requesting student has no active
	// enrollment in the course. Checked before any matching work begins.
	ErrNotEnrolled = errors.New("student not enrolled in course")
	// ErrCourseNotFound indicates the course does not exist in the store.
	ErrCourseNotFound = errors.New("course not found")
)
