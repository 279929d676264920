package progress

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/edumart/server-go/pkg/types"
)

// CourseProgress tracks which lectures of a course a user has completed.
// The lecture id list is stored as one jsonb document per (user, course).
type CourseProgress struct {
	UserID           string    `gorm:"type:varchar(64);primaryKey;column:user_id" json:"userId"`
	CourseID         uuid.UUID `gorm:"type:uuid;primaryKey;column:course_id" json:"courseId"`
	Completed        bool      `gorm:"type:boolean;not null;default:false" json:"completed"`
	LectureCompleted []string  `gorm:"type:jsonb;serializer:json;column:lecture_completed" json:"lectureCompleted"`

	types.TimestampModel
}

// TableName overrides the default table name.
func (CourseProgress) TableName() string { return "course_progress" }

// Get retrieves a user's progress for a course. A missing record yields nil,
// so callers can tell a course that was never started apart from one with an
// empty completion list.
func Get(db *gorm.DB, userID string, courseID uuid.UUID) (*CourseProgress, error) {
	var p CourseProgress
	err := db.First(&p, "user_id = ? AND course_id = ?", userID, courseID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// AddLecture marks a lecture as completed, set-style: recording the same
// lecture twice leaves the list unchanged. Once every lecture of the course
// is in the list the Completed flag flips on and stays on. It reports
// whether anything was added.
func AddLecture(db *gorm.DB, userID string, courseID uuid.UUID, lectureID string, totalLectures int) (bool, error) {
	var added bool

	err := db.Transaction(func(tx *gorm.DB) error {
		var p CourseProgress
		err := tx.First(&p, "user_id = ? AND course_id = ?", userID, courseID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			added = true
			return tx.Create(&CourseProgress{
				UserID:           userID,
				CourseID:         courseID,
				Completed:        totalLectures == 1,
				LectureCompleted: []string{lectureID},
			}).Error
		}
		if err != nil {
			return err
		}

		for _, id := range p.LectureCompleted {
			if id == lectureID {
				return nil
			}
		}

		p.LectureCompleted = append(p.LectureCompleted, lectureID)
		if totalLectures > 0 && len(p.LectureCompleted) >= totalLectures {
			p.Completed = true
		}
		added = true
		return tx.Save(&p).Error
	})

	return added, err
}
