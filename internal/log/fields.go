package log

// Common field names for structured logging
const (
	FieldComponent = "component"
	FieldUserID    = "user_id"
	FieldChatID    = "chat_id"
	FieldKind      = "kind"
	FieldCategory  = "category"
	FieldAmount    = "amount"
	FieldRefCode   = "ref_code"
	FieldPeriod    = "period"
	FieldEvent     = "event"
	FieldError     = "error"
	FieldOperation = "operation"
	FieldDuration  = "duration_ms"
	FieldSuccess   = "success"
)

// Components defines standard component names
const (
	ComponentApp      = "finbot"
	ComponentBot      = "bot"
	ComponentTelegram = "telegram"
	ComponentStorage  = "storage"
	ComponentAMQP     = "amqp"
	ComponentSession  = "session"
	ComponentLedger   = "ledger"
)

// Operations defines standard operation names
const (
	OpRecord   = "record"
	OpDelete   = "delete"
	OpList     = "list"
	OpSum      = "sum"
	OpParse    = "parse"
	OpPublish  = "publish"
	OpMigrate  = "migrate"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)
