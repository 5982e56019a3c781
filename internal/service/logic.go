package service

// Logic is the single facade the action layer talks to.
type Logic struct {
	*CourseService
	*FeedbackSessionService
	*AccountService
	*StudentService
	*DataBundleService
}
