package logging

// Field name constants keep structured log keys consistent across packages
// (rip worker, encode worker, identifier, mover, oversight, control surface).
const (
	FieldJobID     = "job_id"
	FieldDrive     = "drive_id"
	FieldStatus    = "status"
	FieldEventType = "event"
	FieldErrorHint = "error_hint"
	FieldComponent = "component"
	FieldTitle     = "title"
	FieldPath      = "path"
	FieldDuration  = "duration"
	FieldRequestID = "request_id"
)
