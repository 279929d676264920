package educator

import (
	"time"

	"gorm.io/gorm"

	"github.com/edumart/server-go/internal/features/user"
	"github.com/edumart/server-go/pkg/types"
)

// EnrolledStudent pairs a student with the course they enrolled in.
type EnrolledStudent struct {
	Student      user.User `json:"student"`
	CourseTitle  string    `json:"courseTitle"`
	PurchaseDate time.Time `json:"purchaseDate"`
}

// Earnings sums the completed purchase amounts across an educator's courses.
func Earnings(db *gorm.DB, educatorID string) (types.Money, error) {
	var row struct {
		Total types.Money
	}
	err := db.Raw(`
		SELECT COALESCE(SUM(purchases.amount), 0) AS total
		FROM purchases
		JOIN courses ON courses.id = purchases.course_id
		WHERE courses.educator_id = ? AND purchases.status = ?`,
		educatorID, types.PurchaseStatusCompleted,
	).Scan(&row).Error
	return row.Total, err
}

// EnrolledStudents lists everyone enrolled in the educator's courses, most
// recent first.
func EnrolledStudents(db *gorm.DB, educatorID string) ([]EnrolledStudent, error) {
	type enrollmentRow struct {
		ID          string
		Email       string
		Name        string
		ImageURL    string
		CourseTitle string
		CreatedAt   time.Time
	}

	var rows []enrollmentRow
	err := db.Raw(`
		SELECT users.id, users.email, users.name, users.image_url,
		       courses.course_title, enrollments.created_at
		FROM enrollments
		JOIN courses ON courses.id = enrollments.course_id
		JOIN users ON users.id = enrollments.user_id
		WHERE courses.educator_id = ?
		ORDER BY enrollments.created_at DESC`,
		educatorID,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	students := make([]EnrolledStudent, 0, len(rows))
	for _, row := range rows {
		students = append(students, EnrolledStudent{
			Student: user.User{
				ID:       row.ID,
				Email:    row.Email,
				Name:     row.Name,
				ImageURL: row.ImageURL,
			},
			CourseTitle:  row.CourseTitle,
			PurchaseDate: row.CreatedAt,
		})
	}

	return students, nil
}
