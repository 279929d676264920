package purchase

import "errors"

var (
	ErrPurchaseNotFound   = errors.New("purchase not found")
	ErrAlreadyEnrolled    = errors.New("user already owns this course")
	ErrCourseUnavailable  = errors.New("course is not available for purchase")
	ErrInvalidPurchaseRef = errors.New("purchase reference is not a valid id")
)
