package core

import "time"

// Settings represents the main configuration for the application
type Settings struct {
	Subscribers []int64          // Subscriber IDs eligible for signal fan-out
	Telegram    TelegramSettings // Telegram notification settings
	Report      ReportSettings   // Scheduled profit report settings
}

// TelegramSettings holds configuration for Telegram integration
type TelegramSettings struct {
	Enabled bool    // Whether Telegram notifications are enabled
	Token   string  // Telegram bot token
	Users   []int64 // List of authorized user IDs
	Admins  []int64 // Users allowed to log profits and simulate signals
}

// ReportSettings holds configuration for the periodic profit summary
type ReportSettings struct {
	Enabled  bool          // Whether the scheduled report is enabled
	Interval time.Duration // How often the summary is broadcast
}

// IsAdmin reports whether the given user may run admin-only commands
func (s TelegramSettings) IsAdmin(userID int64) bool {
	for _, id := range s.Admins {
		if id == userID {
			return true
		}
	}
	return false
}
