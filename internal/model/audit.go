package model

// AuditEntry is a single time-stamped line of the dashboard audit log.
type AuditEntry struct {
	Timestamp string `json:"timestamp"`
	Message   string `json:"message"`
}

func (e AuditEntry) String() string {
	return e.Timestamp + ": " + e.Message
}
