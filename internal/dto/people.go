package dto

import "github.com/noah-isme/course-feedback-api/internal/models"

// StudentData is the wire form of a course enrollment.
type StudentData struct {
	CourseID    string `json:"courseId"`
	Email       string `json:"email"`
	Name        string `json:"name"`
	TeamName    string `json:"teamName"`
	SectionName string `json:"sectionName"`
	Comments    string `json:"comments"`
	JoinState   string `json:"joinState"`
}

// Join states reported for students and instructors.
const (
	JoinStateJoined    = "JOINED"
	JoinStateNotJoined = "NOT_JOINED"
)

// NewStudentData snapshots a student.
func NewStudentData(student models.Student) StudentData {
	state := JoinStateNotJoined
	if student.IsRegistered() {
		state = JoinStateJoined
	}
	return StudentData{
		CourseID:    student.CourseID,
		Email:       student.Email,
		Name:        student.Name,
		TeamName:    student.Team,
		SectionName: student.Section,
		Comments:    student.Comments,
		JoinState:   state,
	}
}

// InstructorData is the wire form of a course instructor.
type InstructorData struct {
	CourseID              string          `json:"courseId"`
	Email                 string          `json:"email"`
	GoogleID              string          `json:"googleId,omitempty"`
	Name                  string          `json:"name"`
	Role                  string          `json:"role"`
	DisplayedToStudentsAs string          `json:"displayedToStudentsAs"`
	IsDisplayedToStudents bool            `json:"isDisplayedToStudents"`
	JoinState             string          `json:"joinState"`
	Privileges            map[string]bool `json:"privileges"`
}

// NewInstructorData snapshots an instructor with its effective privileges.
func NewInstructorData(instructor models.Instructor) InstructorData {
	data := InstructorData{
		CourseID:              instructor.CourseID,
		Email:                 instructor.Email,
		Name:                  instructor.Name,
		Role:                  string(instructor.Role),
		DisplayedToStudentsAs: instructor.DisplayName,
		IsDisplayedToStudents: instructor.IsDisplayedToStudents,
		JoinState:             JoinStateNotJoined,
		Privileges:            instructor.EffectivePrivileges(),
	}
	if instructor.IsRegistered() {
		data.GoogleID = *instructor.GoogleID
		data.JoinState = JoinStateJoined
	}
	return data
}

// AccountData is the wire form of an account.
type AccountData struct {
	GoogleID         string `json:"googleId"`
	Name             string `json:"name"`
	Email            string `json:"email"`
	Institute        string `json:"institute"`
	IsInstructor     bool   `json:"isInstructor"`
	CreatedTimestamp int64  `json:"createdAtTimeStamp"`
}

// NewAccountData snapshots an account.
func NewAccountData(account models.Account) AccountData {
	return AccountData{
		GoogleID:         account.GoogleID,
		Name:             account.Name,
		Email:            account.Email,
		Institute:        account.Institute,
		IsInstructor:     account.IsInstructor,
		CreatedTimestamp: account.CreatedAt.UnixMilli(),
	}
}

// MessageOutput carries a plain confirmation message.
type MessageOutput struct {
	Message string `json:"message"`
}
