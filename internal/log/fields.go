package log

// Common field names for structured logging
const (
	FieldComponent     = "component"
	FieldError         = "error"
	FieldCacheKey      = "cache_key"
	FieldTransactionID = "transaction_id"
	FieldLabel         = "label"
	FieldCount         = "count"
	FieldItemCount     = "item_count"
	FieldSeq           = "seq"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentBackend = "backend"
)
