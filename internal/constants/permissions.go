package constants

const (
	ReviewCaseStudies  = "review_case_studies"
	ViewPendingQueue   = "view_pending_queue"
	ViewCaseStudyLog   = "view_case_study_log"
	DeleteAnyCaseStudy = "delete_any_case_study"
)
