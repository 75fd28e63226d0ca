package entity

// Settings is the process-wide mutable configuration. The scheduler reads
// it on every admission decision.
type Settings struct {
	MaxConcurrent int  `json:"max_concurrent"`
	AutoRetry     bool `json:"auto_retry"`
	CleanupDays   int  `json:"cleanup_days"`
}

func DefaultSettings() Settings {
	return Settings{
		MaxConcurrent: 2,
		AutoRetry:     false,
		CleanupDays:   7,
	}
}

// SettingsPatch is a partial update; nil fields are left unchanged.
type SettingsPatch struct {
	MaxConcurrent *int  `json:"max_concurrent,omitempty"`
	AutoRetry     *bool `json:"auto_retry,omitempty"`
	CleanupDays   *int  `json:"cleanup_days,omitempty"`
}
