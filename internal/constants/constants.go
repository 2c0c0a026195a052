package constants

const (
	AppName            = "wellmeing"
	DefaultKeyringUser = "openai-api-key"
	DefaultModel       = "gpt-4o-mini"
	DefaultConfigPath  = "~/.config/wellmeing/wellmeing.db"
	Version            = "v0.3.0"

	// ServeLockfileName marks a database held open by a running serve.
	ServeLockfileName = "wellmeing-serve.lock"

	// TimestampFormat is the sortable wire format of every stored timestamp.
	TimestampFormat = "2006-01-02T15:04:05"

	// DateFormat is the standard date format used for display (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// Habit limits
	MaxHabits            = 10
	MaxMetrics           = 10
	MaxHabitNameLength   = 50
	MaxMetricNameLength  = 50
	MaxDescriptionLength = 500
	MaxGoalLength        = 500
	MaxNotesLength       = 500

	// Usage limits
	MaxDailySubmissions = 20
	TokenUsageLimit     = 100000

	// Report limits
	MaxReportTitleLength   = 50
	MaxReportContentLength = 2000
	ReportCooldownDays     = 7

	// Profile limits
	MinUsernameLength = 4
	MaxUsernameLength = 32
	MinBioLength      = 8
	MaxBioLength      = 500

	// History windows in days
	WeekWindow  = 7
	MonthWindow = 30
)
