package models

import "time"

// AuditLogEntry is a read-only historical record.
type AuditLogEntry struct {
	Actor     string    `yaml:"actor" json:"actor"`
	Action    string    `yaml:"action" json:"action"`
	Timestamp time.Time `yaml:"timestamp" json:"timestamp"`
	Target    string    `yaml:"target" json:"target"`
}
