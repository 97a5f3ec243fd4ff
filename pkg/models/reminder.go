package models

// ReminderSettings holds a user's daily reminder preferences. Delivery is
// owned by the presentation layer; the scheduler only decides when to fire.
type ReminderSettings struct {
	UserID   string `json:"user_id" db:"user_id"`
	Enabled  bool   `json:"enabled" db:"enabled"`
	Hour     int    `json:"hour" db:"hour"` // Hour of day (0-23)
	Timezone string `json:"timezone" db:"timezone"`
}
