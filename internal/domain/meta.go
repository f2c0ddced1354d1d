package domain

import "time"

// RefreshMeta is the singleton record driving the freshness gate. It is
// replaced wholesale on each refresh; Locked doubles as the advisory
// mutual-exclusion flag across refresh attempts.
type RefreshMeta struct {
	Fingerprint string    `db:"fingerprint"`
	ReportDate  time.Time `db:"report_date"`
	Locked      bool      `db:"locked"`
	UpdatedAt   time.Time `db:"updated_at"`
}
