package service

import (
	"context"
	"sort"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/course-feedback-api/internal/models"
	appErrors "github.com/noah-isme/course-feedback-api/pkg/errors"
)

type bundleAccountStore interface {
	Upsert(ctx context.Context, exec sqlx.ExtContext, account *models.Account) error
	Delete(ctx context.Context, exec sqlx.ExtContext, googleID string) error
}

type bundleCourseStore interface {
	Upsert(ctx context.Context, exec sqlx.ExtContext, course *models.Course) error
	DeleteCascade(ctx context.Context, exec sqlx.ExtContext, id string) error
}

type bundleInstructorStore interface {
	Upsert(ctx context.Context, exec sqlx.ExtContext, instructor *models.Instructor) error
}

type bundleStudentStore interface {
	Upsert(ctx context.Context, exec sqlx.ExtContext, student *models.Student) error
	DeleteByEmails(ctx context.Context, exec sqlx.ExtContext, courseID string, emails []string) error
}

type bundleSessionStore interface {
	Upsert(ctx context.Context, exec sqlx.ExtContext, session *models.FeedbackSession) error
}

// BundleStores groups the repositories a data bundle touches.
type BundleStores struct {
	Accounts    bundleAccountStore
	Courses     bundleCourseStore
	Instructors bundleInstructorStore
	Students    bundleStudentStore
	Sessions    bundleSessionStore
}

// DataBundleService seeds and removes labelled entity sets atomically.
type DataBundleService struct {
	tx        txProvider
	stores    BundleStores
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewDataBundleService constructs the data bundle service.
func NewDataBundleService(tx txProvider, stores BundleStores, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *DataBundleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DataBundleService{tx: tx, stores: stores, cache: cache, validator: validate, logger: logger}
}

// PersistDataBundle upserts every entity of the bundle in one transaction.
func (s *DataBundleService) PersistDataBundle(ctx context.Context, bundle *models.DataBundle) error {
	if bundle == nil {
		return appErrors.Clone(appErrors.ErrInvalidParameters, "data bundle is required")
	}
	if bundle.IsEmpty() {
		return nil
	}
	if err := s.validator.Struct(bundle); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInvalidParameters.Code, appErrors.ErrInvalidParameters.Status, "invalid data bundle")
	}

	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		for _, label := range sortedKeys(bundle.Accounts) {
			account := bundle.Accounts[label]
			if err := s.stores.Accounts.Upsert(ctx, tx, &account); err != nil {
				return err
			}
		}
		for _, label := range sortedKeys(bundle.Courses) {
			course := bundle.Courses[label]
			if course.Institute == "" {
				course.Institute = models.DefaultInstitute
			}
			if err := s.stores.Courses.Upsert(ctx, tx, &course); err != nil {
				return err
			}
		}
		for _, label := range sortedKeys(bundle.Instructors) {
			instructor := bundle.Instructors[label]
			if instructor.Role != models.RoleCustom {
				instructor.Privileges = models.PrivilegesForRole(instructor.Role)
			}
			if err := s.stores.Instructors.Upsert(ctx, tx, &instructor); err != nil {
				return err
			}
		}
		for _, label := range sortedKeys(bundle.Students) {
			student := bundle.Students[label]
			if err := s.stores.Students.Upsert(ctx, tx, &student); err != nil {
				return err
			}
		}
		for _, label := range sortedKeys(bundle.FeedbackSessions) {
			session := bundle.FeedbackSessions[label]
			if err := s.stores.Sessions.Upsert(ctx, tx, &session); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist data bundle")
	}

	_ = s.cache.Invalidate(ctx, courseCachePrefix+"*")
	s.logger.Info("data bundle persisted",
		zap.Int("accounts", len(bundle.Accounts)),
		zap.Int("courses", len(bundle.Courses)),
		zap.Int("sessions", len(bundle.FeedbackSessions)))
	return nil
}

// RemoveDataBundle deletes the bundle's accounts and cascades every course that the bundle
// defines or staffs. Students enrolled in courses the bundle does not otherwise touch are
// removed one by one so those courses survive. Absent entities are ignored.
func (s *DataBundleService) RemoveDataBundle(ctx context.Context, bundle *models.DataBundle) error {
	if bundle == nil {
		return appErrors.Clone(appErrors.ErrInvalidParameters, "data bundle is required")
	}
	if bundle.IsEmpty() {
		return nil
	}
	courseIDs := ownedCourseIDs(bundle)
	strays := strayStudents(bundle, courseIDs)

	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		for _, id := range courseIDs {
			if err := s.stores.Courses.DeleteCascade(ctx, tx, id); err != nil {
				return err
			}
		}
		for _, courseID := range sortedKeys(strays) {
			if err := s.stores.Students.DeleteByEmails(ctx, tx, courseID, strays[courseID]); err != nil {
				return err
			}
		}
		for _, label := range sortedKeys(bundle.Accounts) {
			if err := s.stores.Accounts.Delete(ctx, tx, bundle.Accounts[label].GoogleID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to remove data bundle")
	}

	_ = s.cache.Invalidate(ctx, courseCachePrefix+"*")
	s.logger.Info("data bundle removed",
		zap.Int("courses", len(courseIDs)),
		zap.Int("student_courses", len(strays)),
		zap.Int("accounts", len(bundle.Accounts)))
	return nil
}

func (s *DataBundleService) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// ownedCourseIDs lists the courses a bundle defines, staffs with instructors or holds sessions in.
func ownedCourseIDs(bundle *models.DataBundle) []string {
	seen := map[string]struct{}{}
	add := func(id string) {
		if id != "" {
			seen[id] = struct{}{}
		}
	}
	for _, c := range bundle.Courses {
		add(c.ID)
	}
	for _, i := range bundle.Instructors {
		add(i.CourseID)
	}
	for _, fs := range bundle.FeedbackSessions {
		add(fs.CourseID)
	}
	return sortedKeys(seen)
}

// strayStudents groups, by course, the emails of students whose course is not cascaded.
func strayStudents(bundle *models.DataBundle, cascaded []string) map[string][]string {
	skip := make(map[string]struct{}, len(cascaded))
	for _, id := range cascaded {
		skip[id] = struct{}{}
	}
	out := map[string][]string{}
	for _, label := range sortedKeys(bundle.Students) {
		st := bundle.Students[label]
		if _, ok := skip[st.CourseID]; ok || st.CourseID == "" {
			continue
		}
		out[st.CourseID] = append(out[st.CourseID], st.Email)
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
