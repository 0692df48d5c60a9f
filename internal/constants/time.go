package constants

const (
	// DateFormat is the day key format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the reminder time-of-day format (HH:MM)
	TimeFormat = "15:04"
)
