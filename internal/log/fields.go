package log

// Common field names for structured logging.
const (
	FieldComponent   = "component"
	FieldRequestID   = "request_id"
	FieldClientIP    = "client_ip"
	FieldMethod      = "method"
	FieldPath        = "path"
	FieldStatusCode  = "status_code"
	FieldDuration    = "duration_ms"
	FieldError       = "error"
	FieldOperation   = "operation"
	FieldTxID        = "transaction_id"
	FieldAmountCents = "amount_cents"
	FieldCurrency    = "currency"
	FieldSheetsRef   = "sheets_ref"
)

// Components defines standard component names.
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentLedger  = "ledger"
	ComponentStorage = "storage"
	ComponentAMQP    = "amqp"
	ComponentWorker  = "worker"
	ComponentSheets  = "sheets"
	ComponentScan    = "scan"
	ComponentOCR     = "ocr"
)

// Operations defines standard operation names.
const (
	OpCreate = "create"
	OpDelete = "delete"
	OpSync   = "sync"
	OpScan   = "scan"
)
