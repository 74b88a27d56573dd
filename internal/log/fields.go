package log

// Common field names for structured logging.
const (
	FieldComponent = "component"
	FieldSessionID = "session_id"
	FieldOperation = "operation"
	FieldGroupID   = "group_id"
	FieldItem      = "item"
	FieldValue     = "value"
	FieldTotal     = "total"
	FieldLimit     = "limit"
	FieldSignal    = "signal"
	FieldError     = "error"
	FieldTemplate  = "template"
	FieldMethod    = "method"
	FieldPath      = "path"
	FieldStatus    = "status"
	FieldDuration  = "duration_ms"
	FieldAddr      = "addr"
)

// Component names.
const (
	ComponentLedger   = "ledger"
	ComponentSession  = "session"
	ComponentTemplate = "template"
	ComponentStore    = "store"
	ComponentHTTP     = "http"
	ComponentTUI      = "tui"
)
