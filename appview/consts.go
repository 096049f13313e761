package appview

import "time"

const (
	SessionName     = "smsly-session"
	SessionId       = "sid"
	SessionUsername = "username"

	DefaultSessionTTL = 72 * time.Hour
)
