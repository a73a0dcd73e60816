package log

// Common field names for structured logging
const (
	FieldComponent     = "component"
	FieldRequestID     = "request_id"
	FieldClientIP      = "client_ip"
	FieldMethod        = "method"
	FieldPath          = "path"
	FieldStatusCode    = "status_code"
	FieldDuration      = "duration_ms"
	FieldError         = "error"
	FieldOperation     = "operation"
	FieldTransactionID = "transaction_id"
	FieldAccountName   = "account"
	FieldCategory      = "category"
	FieldAmount        = "amount"
	FieldYear          = "year"
	FieldMonth         = "month"
	FieldBackend       = "backend"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentService = "service"
	ComponentStorage = "storage"
	ComponentMemory  = "memory"
	ComponentAMQP    = "amqp"
	ComponentWorker  = "worker"
	ComponentBackend = "backend"
)

// Operations defines standard operation names
const (
	OpCreate    = "create"
	OpList      = "list"
	OpDelete    = "delete"
	OpSummarize = "summarize"
	OpExport    = "export"
	OpResolve   = "resolve"
	OpStartup   = "startup"
	OpShutdown  = "shutdown"
)
