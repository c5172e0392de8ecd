package entity

import "time"

// Well-known setting keys consumed by this service. Settings are read-only
// here; mutation belongs to the admin surface.
const (
	SettingNotifyAdminOnMembership = "notify_admin_on_membership"
)

type Setting struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}
