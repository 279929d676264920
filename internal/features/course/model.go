package course

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/edumart/server-go/pkg/pagination"
	"github.com/edumart/server-go/pkg/types"
)

// Lecture is one entry of a chapter, ordered by LectureOrder.
type Lecture struct {
	LectureID       string  `json:"lectureId"`
	LectureTitle    string  `json:"lectureTitle"`
	LectureDuration float64 `json:"lectureDuration"`
	LectureURL      string  `json:"lectureUrl"`
	IsPreviewFree   bool    `json:"isPreviewFree"`
	LectureOrder    int     `json:"lectureOrder"`
}

// Chapter groups ordered lectures. The whole chapter tree is stored as one
// jsonb document, mirroring the legacy course shape.
type Chapter struct {
	ChapterID      string    `json:"chapterId"`
	ChapterOrder   int       `json:"chapterOrder"`
	ChapterTitle   string    `json:"chapterTitle"`
	ChapterContent []Lecture `json:"chapterContent"`
}

// Course represents a published or draft marketplace course.
type Course struct {
	types.BaseModel

	Title       string      `gorm:"type:varchar(200);not null;column:course_title" json:"courseTitle"`
	Description string      `gorm:"type:text;not null;column:course_description" json:"courseDescription"`
	Thumbnail   string      `gorm:"type:text;not null;column:course_thumbnail" json:"courseThumbnail"`
	Price       types.Money `gorm:"type:numeric(10,2);not null;column:course_price" json:"coursePrice"`
	Discount    int         `gorm:"type:int;not null;default:0" json:"discount"`
	Published   bool        `gorm:"type:boolean;not null;default:true;column:is_published" json:"isPublished"`
	EducatorID  string      `gorm:"type:varchar(64);not null;column:educator_id;index" json:"educator"`
	Content     []Chapter   `gorm:"type:jsonb;serializer:json;column:course_content" json:"courseContent"`

	Ratings []Rating `gorm:"foreignKey:CourseID" json:"courseRatings"`

	// EnrolledStudents carries the enrolled user ids on detail responses;
	// membership itself lives in the enrollments table.
	EnrolledStudents []string `gorm:"-" json:"enrolledStudents"`
}

// TableName overrides the default table name.
func (Course) TableName() string { return "courses" }

// LectureCount returns the total number of lectures across all chapters.
func (c Course) LectureCount() int {
	var n int
	for _, chapter := range c.Content {
		n += len(chapter.ChapterContent)
	}
	return n
}

// Rating is one user's rating of a course; a later submission by the same
// user replaces the earlier one.
type Rating struct {
	CourseID  uuid.UUID `gorm:"type:uuid;primaryKey;column:course_id" json:"-"`
	UserID    string    `gorm:"type:varchar(64);primaryKey;column:user_id" json:"userId"`
	Rating    int       `gorm:"type:int;not null" json:"rating"`
	CreatedAt time.Time `gorm:"column:created_at" json:"-"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"-"`
}

// TableName overrides the default table name.
func (Rating) TableName() string { return "course_ratings" }

// Enrollment is one row per (course, user) membership. A single row backs
// both the user's enrolled-courses view and the course's enrolled-students
// view, so the two can never diverge.
type Enrollment struct {
	CourseID  uuid.UUID `gorm:"type:uuid;primaryKey;column:course_id" json:"courseId"`
	UserID    string    `gorm:"type:varchar(64);primaryKey;column:user_id" json:"userId"`
	CreatedAt time.Time `gorm:"column:created_at" json:"createdAt"`
}

// TableName overrides the default table name.
func (Enrollment) TableName() string { return "enrollments" }

// CreateInput carries data for creating a new course.
type CreateInput struct {
	Title       string
	Description string
	Thumbnail   string
	Price       types.Money
	Discount    int
	EducatorID  string
	Content     []Chapter
}

// UpdateInput captures mutable course fields for partial updates.
type UpdateInput struct {
	Title           *string
	Description     *string
	Price           *types.Money
	Discount        *int
	Published       *bool
	ContentProvided bool
	Content         []Chapter
}

// ListPublished retrieves published courses for the public catalog.
func ListPublished(db *gorm.DB, params pagination.Params) ([]Course, int64, error) {
	query := db.Model(&Course{}).Where("is_published = ?", true)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var courses []Course
	err := query.
		Preload("Ratings").
		Order("created_at DESC").
		Offset(params.Skip).
		Limit(params.Limit).
		Find(&courses).Error

	return courses, total, err
}

// ListByEducator retrieves all courses owned by an educator, drafts included.
func ListByEducator(db *gorm.DB, educatorID string) ([]Course, error) {
	var courses []Course
	err := db.
		Preload("Ratings").
		Where("educator_id = ?", educatorID).
		Order("created_at DESC").
		Find(&courses).Error
	return courses, err
}

// Get retrieves a course by id with its ratings.
func Get(db *gorm.DB, id uuid.UUID) (Course, error) {
	var c Course
	if err := db.Preload("Ratings").First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c, ErrCourseNotFound
		}
		return c, err
	}
	return c, nil
}

// Create inserts a new course.
func Create(db *gorm.DB, input CreateInput) (Course, error) {
	if input.Discount < 0 || input.Discount > 100 {
		return Course{}, ErrInvalidDiscount
	}
	if input.Price.IsNegative() {
		return Course{}, ErrInvalidPrice
	}

	c := Course{
		Title:       input.Title,
		Description: input.Description,
		Thumbnail:   input.Thumbnail,
		Price:       input.Price,
		Discount:    input.Discount,
		Published:   true,
		EducatorID:  input.EducatorID,
		Content:     input.Content,
	}

	if err := db.Create(&c).Error; err != nil {
		return Course{}, err
	}

	return c, nil
}

// Update applies a partial update to a course owned by the educator.
func Update(db *gorm.DB, id uuid.UUID, educatorID string, input UpdateInput) (Course, error) {
	c, err := Get(db, id)
	if err != nil {
		return c, err
	}

	if c.EducatorID != educatorID {
		return c, ErrNotCourseOwner
	}

	if input.Title != nil {
		c.Title = *input.Title
	}
	if input.Description != nil {
		c.Description = *input.Description
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return c, ErrInvalidPrice
		}
		c.Price = *input.Price
	}
	if input.Discount != nil {
		if *input.Discount < 0 || *input.Discount > 100 {
			return c, ErrInvalidDiscount
		}
		c.Discount = *input.Discount
	}
	if input.Published != nil {
		c.Published = *input.Published
	}
	if input.ContentProvided {
		c.Content = input.Content
	}

	if err := db.Save(&c).Error; err != nil {
		return c, err
	}

	return c, nil
}

// UpsertRating records a user's rating; resubmission replaces the prior value.
func UpsertRating(db *gorm.DB, courseID uuid.UUID, userID string, rating int) error {
	if rating < 1 || rating > 5 {
		return ErrInvalidRating
	}

	r := Rating{CourseID: courseID, UserID: userID, Rating: rating}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "course_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"rating", "updated_at"}),
	}).Create(&r).Error
}

// Enroll records membership; re-delivery of the same enrollment is a no-op.
func Enroll(db *gorm.DB, courseID uuid.UUID, userID string) error {
	e := Enrollment{CourseID: courseID, UserID: userID}
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&e).Error
}

// IsEnrolled reports whether the user holds the course.
func IsEnrolled(db *gorm.DB, courseID uuid.UUID, userID string) (bool, error) {
	var count int64
	err := db.Model(&Enrollment{}).
		Where("course_id = ? AND user_id = ?", courseID, userID).
		Count(&count).Error
	return count > 0, err
}

// ListEnrolled retrieves the courses a user is enrolled in.
func ListEnrolled(db *gorm.DB, userID string) ([]Course, error) {
	var courses []Course
	err := db.
		Preload("Ratings").
		Joins("JOIN enrollments ON enrollments.course_id = courses.id").
		Where("enrollments.user_id = ?", userID).
		Order("enrollments.created_at DESC").
		Find(&courses).Error
	return courses, err
}

// EnrolledUserIDs retrieves the ids of users enrolled in a course.
func EnrolledUserIDs(db *gorm.DB, courseID uuid.UUID) ([]string, error) {
	var ids []string
	err := db.Model(&Enrollment{}).
		Where("course_id = ?", courseID).
		Order("created_at").
		Pluck("user_id", &ids).Error
	return ids, err
}
