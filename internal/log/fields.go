package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldQuery      = "query"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldUserAgent  = "user_agent"
	FieldReferer    = "referer"
	FieldSuccess    = "success"
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldAction     = "action"
	FieldEntity     = "entity"
	FieldEntityID   = "entity_id"
	FieldUserID     = "user_id"
	FieldSignals    = "signals"
	FieldView       = "view"
	FieldYear       = "year"
	FieldMonth      = "month"
)

// Component names
const (
	ComponentApp          = "app"
	ComponentHTTP         = "http"
	ComponentActions      = "actions"
	ComponentViews        = "views"
	ComponentAMQP         = "amqp"
	ComponentWorker       = "worker"
	ComponentExport       = "export"
	ComponentCache        = "cache"
	ComponentInvalidation = "invalidation"
	ComponentSecurity     = "security"
	ComponentTrace        = "trace"
	ComponentAuth         = "auth"
	ComponentBackend      = "backend"
)

// Operation names
const (
	OpEmit = "emit"
)

// LogFields builds structured log attributes.
type LogFields map[string]any

func NewFields() LogFields {
	return make(LogFields)
}

func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

func (f LogFields) WithRequestID(requestID string) LogFields {
	f[FieldRequestID] = requestID
	return f
}

func (f LogFields) WithClientIP(ip string) LogFields {
	f[FieldClientIP] = ip
	return f
}

func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithMutation adds the fields describing one mutation action.
func (f LogFields) WithMutation(action, entity, entityID, userID string) LogFields {
	f[FieldAction] = action
	f[FieldEntity] = entity
	if entityID != "" {
		f[FieldEntityID] = entityID
	}
	f[FieldUserID] = userID
	return f
}

func (f LogFields) WithHTTPRequest(method, path, query, userAgent, referer string) LogFields {
	f[FieldMethod] = method
	f[FieldPath] = path
	if query != "" {
		f[FieldQuery] = query
	}
	if userAgent != "" {
		f[FieldUserAgent] = userAgent
	}
	if referer != "" {
		f[FieldReferer] = referer
	}
	return f
}

func (f LogFields) WithHTTPResponse(statusCode int, durationMs int64, success bool) LogFields {
	f[FieldStatusCode] = statusCode
	f[FieldDuration] = durationMs
	f[FieldSuccess] = success
	return f
}

// ToSlice converts LogFields to slog key/value pairs.
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
