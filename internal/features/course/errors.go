package course

import "errors"

var (
	ErrCourseNotFound  = errors.New("course not found")
	ErrNotCourseOwner  = errors.New("course does not belong to this educator")
	ErrInvalidRating   = errors.New("rating must be between 1 and 5")
	ErrInvalidDiscount = errors.New("discount must be between 0 and 100")
	ErrInvalidPrice    = errors.New("price must not be negative")
	ErrNotEnrolled     = errors.New("user is not enrolled in this course")
)
