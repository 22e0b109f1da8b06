package constants

// LogStatus is the canonical status for rows in extraction_log.
type LogStatus string

// Stable values (store these exact strings in the DB).
const (
	LogStatusSuccess  LogStatus = "SUCCESS"  // envelope success=true
	LogStatusDegraded LogStatus = "DEGRADED" // extraction ok, structuring failed
	LogStatusFailed   LogStatus = "FAILED"   // extraction/classification failure
)
