package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// InstructorRole names a preset bundle of course privileges.
type InstructorRole string

const (
	RoleCoOwner  InstructorRole = "Co-owner"
	RoleManager  InstructorRole = "Manager"
	RoleObserver InstructorRole = "Observer"
	RoleTutor    InstructorRole = "Tutor"
	RoleCustom   InstructorRole = "Custom"
)

// Course level privilege names.
const (
	PrivilegeModifyCourse                  = "canmodifycourse"
	PrivilegeModifyInstructor              = "canmodifyinstructor"
	PrivilegeModifySession                 = "canmodifysession"
	PrivilegeModifyStudent                 = "canmodifystudent"
	PrivilegeViewStudentInSection          = "canviewstudentinsection"
	PrivilegeSubmitSessionInSection        = "cansubmitsessioninsection"
	PrivilegeViewSessionInSection          = "canviewsessioninsection"
	PrivilegeModifySessionCommentInSection = "canmodifysessioncommentinsection"
)

// Privileges maps privilege names to grants and is stored as JSONB.
type Privileges map[string]bool

// Allows reports whether the named privilege is granted.
func (p Privileges) Allows(name string) bool {
	return p[name]
}

// Value marshals privileges to JSON for persistence.
func (p Privileges) Value() (driver.Value, error) {
	if p == nil {
		p = Privileges{}
	}
	data, err := json.Marshal(map[string]bool(p))
	if err != nil {
		return nil, fmt.Errorf("marshal instructor privileges: %w", err)
	}
	return data, nil
}

// Scan unmarshals JSON payloads into the privilege map.
func (p *Privileges) Scan(value interface{}) error {
	if value == nil {
		*p = Privileges{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T for Privileges", value)
	}
	out := Privileges{}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &out); err != nil {
			return fmt.Errorf("unmarshal instructor privileges: %w", err)
		}
	}
	*p = out
	return nil
}

// PrivilegesForRole returns the preset privileges of a role. Custom starts empty.
func PrivilegesForRole(role InstructorRole) Privileges {
	switch role {
	case RoleCoOwner:
		return Privileges{
			PrivilegeModifyCourse:                  true,
			PrivilegeModifyInstructor:              true,
			PrivilegeModifySession:                 true,
			PrivilegeModifyStudent:                 true,
			PrivilegeViewStudentInSection:          true,
			PrivilegeSubmitSessionInSection:        true,
			PrivilegeViewSessionInSection:          true,
			PrivilegeModifySessionCommentInSection: true,
		}
	case RoleManager:
		return Privileges{
			PrivilegeModifyInstructor:              true,
			PrivilegeModifySession:                 true,
			PrivilegeModifyStudent:                 true,
			PrivilegeViewStudentInSection:          true,
			PrivilegeSubmitSessionInSection:        true,
			PrivilegeViewSessionInSection:          true,
			PrivilegeModifySessionCommentInSection: true,
		}
	case RoleObserver:
		return Privileges{
			PrivilegeViewStudentInSection: true,
			PrivilegeViewSessionInSection: true,
		}
	case RoleTutor:
		return Privileges{
			PrivilegeViewStudentInSection:   true,
			PrivilegeSubmitSessionInSection: true,
			PrivilegeViewSessionInSection:   true,
		}
	default:
		return Privileges{}
	}
}

// Instructor links an identity to a course with a role and privileges.
type Instructor struct {
	CourseID              string         `db:"course_id" json:"courseId" validate:"required"`
	Email                 string         `db:"email" json:"email" validate:"required,email"`
	GoogleID              *string        `db:"google_id" json:"googleId,omitempty"`
	Name                  string         `db:"name" json:"name" validate:"required"`
	Role                  InstructorRole `db:"role" json:"role" validate:"required,oneof=Co-owner Manager Observer Tutor Custom"`
	DisplayName           string         `db:"display_name" json:"displayedName"`
	IsDisplayedToStudents bool           `db:"is_displayed_to_students" json:"isDisplayedToStudents"`
	Privileges            Privileges     `db:"privileges" json:"privileges,omitempty"`
}

// EffectivePrivileges returns explicit privileges for Custom instructors and the role preset otherwise.
func (i Instructor) EffectivePrivileges() Privileges {
	if i.Role == RoleCustom {
		if i.Privileges == nil {
			return Privileges{}
		}
		return i.Privileges
	}
	return PrivilegesForRole(i.Role)
}

// IsRegistered reports whether the instructor has joined with an account.
func (i Instructor) IsRegistered() bool {
	return i.GoogleID != nil && *i.GoogleID != ""
}
