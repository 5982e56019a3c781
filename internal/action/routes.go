package action

import "net/http"

// Route binds an HTTP verb and path to an action factory.
type Route struct {
	Method string
	Path   string
	Name   string
	New    func(Deps) Action
}

// Routes lists every action exposed under the API prefix.
func Routes() []Route {
	return []Route{
		{Method: http.MethodPut, Path: "/bin/course", Name: "bin_course", New: NewBinCourse},
		{Method: http.MethodDelete, Path: "/bin/course", Name: "restore_course", New: NewRestoreCourse},
		{Method: http.MethodGet, Path: "/course", Name: "get_course", New: NewGetCourse},
		{Method: http.MethodPost, Path: "/course", Name: "create_course", New: NewCreateCourse},
		{Method: http.MethodDelete, Path: "/course", Name: "delete_course", New: NewDeleteCourse},
		{Method: http.MethodGet, Path: "/courses", Name: "get_courses", New: NewGetCourses},
		{Method: http.MethodGet, Path: "/sessions/ongoing", Name: "get_ongoing_sessions", New: NewGetOngoingSessions},
		{Method: http.MethodGet, Path: "/sessions/ongoing/export", Name: "export_ongoing_sessions", New: NewExportOngoingSessions},
		{Method: http.MethodGet, Path: "/session", Name: "get_feedback_session", New: NewGetFeedbackSession},
		{Method: http.MethodDelete, Path: "/session", Name: "delete_feedback_session", New: NewDeleteFeedbackSession},
		{Method: http.MethodGet, Path: "/student", Name: "get_student", New: NewGetStudent},
		{Method: http.MethodDelete, Path: "/students", Name: "delete_student", New: NewDeleteStudent},
		{Method: http.MethodGet, Path: "/instructor", Name: "get_instructor", New: NewGetInstructor},
		{Method: http.MethodGet, Path: "/account", Name: "get_account", New: NewGetAccount},
		{Method: http.MethodPost, Path: "/databundle", Name: "persist_data_bundle", New: NewPersistDataBundle},
		{Method: http.MethodPut, Path: "/databundle", Name: "remove_data_bundle", New: NewRemoveDataBundle},
		{Method: http.MethodPost, Path: "/auth/dev-login", Name: "dev_login", New: NewDevLogin},
	}
}
