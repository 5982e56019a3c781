package action

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/noah-isme/course-feedback-api/internal/models"
	"github.com/noah-isme/course-feedback-api/internal/service"
	appErrors "github.com/noah-isme/course-feedback-api/pkg/errors"
)

const (
	idOfTypicalCourse1          = "idOfTypicalCourse1"
	idOfTypicalCourse2          = "idOfTypicalCourse2"
	idOfInstructor1OfCourse1    = "idOfInstructor1OfCourse1"
	idOfInstructor2OfCourse1    = "idOfInstructor2OfCourse1"
	idOfInstructor1OfCourse2    = "idOfInstructor1OfCourse2"
	idOfStudent1InCourse1       = "student1InCourse1"
	idOfUnregisteredUser        = "unregisteredUser"
	idOfAdmin                   = "admin.user"
	typicalInstitute            = "TEAMMATES Test Institute 1"
	firstFeedbackSessionName    = "First feedback session"
	upcomingFeedbackSessionName = "Upcoming feedback session"
)

var typicalNow = time.Date(2026, time.March, 2, 12, 0, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }

// fakeLogic is an in-memory Logic seeded with a typical bundle.
type fakeLogic struct {
	mu          sync.Mutex
	accounts    map[string]models.Account
	courses     map[string]models.Course
	instructors []models.Instructor
	students    []models.Student
	sessions    []models.FeedbackSession
	mutations   int
	now         time.Time
}

func newTypicalLogic() *fakeLogic {
	created := typicalNow.Add(-30 * 24 * time.Hour)
	return &fakeLogic{
		accounts: map[string]models.Account{
			idOfInstructor1OfCourse1: {GoogleID: idOfInstructor1OfCourse1, Name: "Instructor 1 of Course 1", Email: "instr1@course1.tmt", Institute: typicalInstitute, IsInstructor: true},
			idOfInstructor2OfCourse1: {GoogleID: idOfInstructor2OfCourse1, Name: "Instructor 2 of Course 1", Email: "instr2@course1.tmt", Institute: typicalInstitute, IsInstructor: true},
			idOfInstructor1OfCourse2: {GoogleID: idOfInstructor1OfCourse2, Name: "Instructor 1 of Course 2", Email: "instr1@course2.tmt", Institute: typicalInstitute, IsInstructor: true},
			idOfStudent1InCourse1:    {GoogleID: idOfStudent1InCourse1, Name: "Student 1", Email: "student1InCourse1@gmail.tmt", Institute: typicalInstitute},
		},
		courses: map[string]models.Course{
			idOfTypicalCourse1: {ID: idOfTypicalCourse1, Name: "Typical Course 1 with 2 Evals", TimeZone: "Africa/Johannesburg", Institute: typicalInstitute, CreatedAt: created},
			idOfTypicalCourse2: {ID: idOfTypicalCourse2, Name: "Typical Course 2 with 1 Evals", TimeZone: "Asia/Singapore", Institute: typicalInstitute, CreatedAt: created},
		},
		instructors: []models.Instructor{
			{CourseID: idOfTypicalCourse1, Email: "instr1@course1.tmt", GoogleID: strPtr(idOfInstructor1OfCourse1), Name: "Instructor 1 of Course 1", Role: models.RoleCoOwner},
			{CourseID: idOfTypicalCourse1, Email: "instr2@course1.tmt", GoogleID: strPtr(idOfInstructor2OfCourse1), Name: "Instructor 2 of Course 1", Role: models.RoleManager},
			{CourseID: idOfTypicalCourse2, Email: "instr1@course2.tmt", GoogleID: strPtr(idOfInstructor1OfCourse2), Name: "Instructor 1 of Course 2", Role: models.RoleCoOwner},
		},
		students: []models.Student{
			{CourseID: idOfTypicalCourse1, Email: "student1InCourse1@gmail.tmt", GoogleID: strPtr(idOfStudent1InCourse1), Name: "student1 In Course1", Team: "Team 1.1", Section: "Section 1"},
		},
		sessions: []models.FeedbackSession{
			{
				CourseID:     idOfTypicalCourse1,
				Name:         firstFeedbackSessionName,
				CreatorEmail: "instr1@course1.tmt",
				CreatedAt:    created,
				StartTime:    typicalNow.Add(-24 * time.Hour),
				EndTime:      typicalNow.Add(24 * time.Hour),
				TimeZone:     "Africa/Johannesburg",
			},
			{
				CourseID:     idOfTypicalCourse2,
				Name:         upcomingFeedbackSessionName,
				CreatorEmail: "instr1@course2.tmt",
				CreatedAt:    created,
				StartTime:    typicalNow.Add(30 * 24 * time.Hour),
				EndTime:      typicalNow.Add(31 * 24 * time.Hour),
				TimeZone:     "Asia/Singapore",
			},
		},
		now: typicalNow,
	}
}

func (f *fakeLogic) GetCourse(ctx context.Context, id string) (*models.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	course, ok := f.courses[id]
	if !ok {
		return nil, appErrors.EntityNotFound("Course")
	}
	return &course, nil
}

func (f *fakeLogic) CreateCourseAndInstructor(ctx context.Context, googleID string, req service.CreateCourseRequest) (*models.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	account, ok := f.accounts[googleID]
	if !ok {
		return nil, appErrors.EntityNotFound("Account")
	}
	if _, exists := f.courses[req.CourseID]; exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "course already exists")
	}
	course := models.Course{ID: req.CourseID, Name: req.Name, TimeZone: req.TimeZone, Institute: account.Institute, CreatedAt: typicalNow}
	f.courses[course.ID] = course
	f.instructors = append(f.instructors, models.Instructor{CourseID: course.ID, Email: account.Email, GoogleID: strPtr(googleID), Name: account.Name, Role: models.RoleCoOwner})
	f.mutations++
	return &course, nil
}

func (f *fakeLogic) GetCoursesForInstructor(ctx context.Context, googleID string, status models.CourseStatus) ([]models.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Course
	for _, instructor := range f.instructors {
		if instructor.GoogleID == nil || *instructor.GoogleID != googleID {
			continue
		}
		course, ok := f.courses[instructor.CourseID]
		if !ok || course.IsSoftDeleted() != (status == models.CourseStatusSoftDeleted) {
			continue
		}
		out = append(out, course)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeLogic) setDeletedAt(id string, deletedAt *time.Time) (*models.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	course, ok := f.courses[id]
	if !ok {
		return nil, appErrors.EntityNotFound("Course")
	}
	if deletedAt == nil || course.DeletedAt == nil {
		course.DeletedAt = deletedAt
		f.mutations++
	}
	f.courses[id] = course
	return &course, nil
}

func (f *fakeLogic) MoveCourseToRecycleBin(ctx context.Context, id string) (*models.Course, error) {
	f.mu.Lock()
	now := f.now
	f.mu.Unlock()
	return f.setDeletedAt(id, &now)
}

func (f *fakeLogic) RestoreCourseFromRecycleBin(ctx context.Context, id string) (*models.Course, error) {
	return f.setDeletedAt(id, nil)
}

func (f *fakeLogic) DeleteCourseCascade(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.courses, id)
	f.mutations++
	return nil
}

func (f *fakeLogic) GetFeedbackSession(ctx context.Context, courseID, name string) (*models.FeedbackSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.sessions {
		if s.CourseID == courseID && s.Name == name {
			session := s
			return &session, nil
		}
	}
	return nil, appErrors.EntityNotFound("FeedbackSession")
}

func (f *fakeLogic) DeleteFeedbackSessionCascade(ctx context.Context, courseID, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.sessions[:0]
	for _, s := range f.sessions {
		if s.CourseID != courseID || s.Name != name {
			kept = append(kept, s)
		}
	}
	f.sessions = kept
	f.mutations++
	return nil
}

func (f *fakeLogic) GetOngoingSessions(ctx context.Context, rangeStart, rangeEnd time.Time) ([]models.InstituteSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.InstituteSession
	for _, s := range f.sessions {
		if s.DeletedAt != nil || !s.StartTime.Before(rangeEnd) || !s.EndTime.After(rangeStart) {
			continue
		}
		out = append(out, models.InstituteSession{FeedbackSession: s, Institute: f.courses[s.CourseID].Institute})
	}
	return out, nil
}

func (f *fakeLogic) GetAccount(ctx context.Context, googleID string) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	account, ok := f.accounts[googleID]
	if !ok {
		return nil, appErrors.EntityNotFound("Account")
	}
	return &account, nil
}

func (f *fakeLogic) ResolveRoles(ctx context.Context, googleID string) (service.UserRoles, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var roles service.UserRoles
	for _, i := range f.instructors {
		if i.GoogleID != nil && *i.GoogleID == googleID {
			roles.IsInstructor = true
		}
	}
	for _, s := range f.students {
		if s.GoogleID != nil && *s.GoogleID == googleID {
			roles.IsStudent = true
		}
	}
	return roles, nil
}

func (f *fakeLogic) GetInstructorForGoogleID(ctx context.Context, courseID, googleID string) (*models.Instructor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, i := range f.instructors {
		if i.CourseID == courseID && i.GoogleID != nil && *i.GoogleID == googleID {
			instructor := i
			return &instructor, nil
		}
	}
	return nil, appErrors.EntityNotFound("Instructor")
}

func (f *fakeLogic) GetInstructorForEmail(ctx context.Context, courseID, email string) (*models.Instructor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, i := range f.instructors {
		if i.CourseID == courseID && i.Email == email {
			instructor := i
			return &instructor, nil
		}
	}
	return nil, appErrors.EntityNotFound("Instructor")
}

func (f *fakeLogic) GetStudent(ctx context.Context, courseID, email string) (*models.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.students {
		if s.CourseID == courseID && s.Email == email {
			student := s
			return &student, nil
		}
	}
	return nil, appErrors.EntityNotFound("Student")
}

func (f *fakeLogic) GetStudentForGoogleID(ctx context.Context, courseID, googleID string) (*models.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.students {
		if s.CourseID == courseID && s.GoogleID != nil && *s.GoogleID == googleID {
			student := s
			return &student, nil
		}
	}
	return nil, appErrors.EntityNotFound("Student")
}

func (f *fakeLogic) DeleteStudentsForGoogleID(ctx context.Context, googleID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.students[:0]
	for _, s := range f.students {
		if s.GoogleID == nil || *s.GoogleID != googleID {
			kept = append(kept, s)
		}
	}
	f.students = kept
	f.mutations++
	return nil
}

func (f *fakeLogic) PersistDataBundle(ctx context.Context, bundle *models.DataBundle) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range bundle.Accounts {
		f.accounts[a.GoogleID] = a
	}
	for _, c := range bundle.Courses {
		f.courses[c.ID] = c
	}
	f.mutations++
	return nil
}

func (f *fakeLogic) RemoveDataBundle(ctx context.Context, bundle *models.DataBundle) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range bundle.Accounts {
		delete(f.accounts, a.GoogleID)
	}
	for _, c := range bundle.Courses {
		delete(f.courses, c.ID)
	}
	f.mutations++
	return nil
}

func (f *fakeLogic) course(id string) models.Course {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.courses[id]
}

func (f *fakeLogic) advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func (f *fakeLogic) mutationCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mutations
}
