package constants

const (
	// Setting keys, shared with the export document
	SettingAIProvider          = "aiProvider"
	SettingAPIKey              = "apiKey"
	SettingEnableNotifications = "enableNotifications"
	SettingTimezone            = "timezone"

	// Default Settings Values
	DefaultNotificationsEnabled = false
	DefaultTimezone             = "Local" // Use system local timezone by default
)
