package dto

import (
	"time"

	"github.com/noah-isme/course-feedback-api/internal/models"
)

// CourseDateLayout renders course creation dates.
const CourseDateLayout = "02 Jan 2006"

// CourseData is the wire form of a course.
type CourseData struct {
	CourseID          string `json:"courseId"`
	CourseName        string `json:"courseName"`
	CreationDate      string `json:"creationDate"`
	TimeZone          string `json:"timeZone"`
	CreationTimestamp int64  `json:"creationTimestamp"`
	DeletionTimestamp int64  `json:"deletionTimestamp,omitempty"`
}

// NewCourseData snapshots a course. The creation date is rendered in the course's own time zone.
func NewCourseData(course models.Course) CourseData {
	created := course.CreatedAt
	if loc, err := time.LoadLocation(course.TimeZone); err == nil {
		created = created.In(loc)
	}
	data := CourseData{
		CourseID:          course.ID,
		CourseName:        course.Name,
		CreationDate:      created.Format(CourseDateLayout),
		TimeZone:          course.TimeZone,
		CreationTimestamp: course.CreatedAt.UnixMilli(),
	}
	if course.DeletedAt != nil {
		data.DeletionTimestamp = course.DeletedAt.UnixMilli()
	}
	return data
}

// CoursesData wraps a list of courses.
type CoursesData struct {
	Courses []CourseData `json:"courses"`
}

// NewCoursesData snapshots a list of courses, never producing a null list.
func NewCoursesData(courses []models.Course) CoursesData {
	out := CoursesData{Courses: make([]CourseData, 0, len(courses))}
	for _, c := range courses {
		out.Courses = append(out.Courses, NewCourseData(c))
	}
	return out
}
