package log

import "sort"

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldModule     = "module"
	FieldAction     = "action"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldQuery      = "query"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldUserAgent  = "user_agent"
	FieldSuccess    = "success"
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldLocale     = "locale"
	FieldCurrency   = "currency"
	FieldAmount     = "amount"
	FieldInput      = "input"
	FieldRule       = "rule"
)

// Components defines standard component names
const (
	ComponentApp        = "app"
	ComponentHTTP       = "http"
	ComponentParser     = "amount_parser"
	ComponentFormatter  = "amount_formatter"
	ComponentSeparators = "separator_resolver"
	ComponentValidation = "validation"
	ComponentSettings   = "settings"
	ComponentStorage    = "storage"
	ComponentAMQP       = "amqp"
	ComponentCLI        = "cli"
	ComponentCache      = "cache"
	ComponentWorker     = "worker"
)

// Operations defines standard operation names
const (
	OpParse    = "parse"
	OpFormat   = "format"
	OpResolve  = "resolve"
	OpInfer    = "infer"
	OpValidate = "validate"
	OpRead     = "read"
	OpUpdate   = "update"
	OpPublish  = "publish"
	OpShutdown = "shutdown"
	OpStartup  = "startup"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithComponent adds component field
func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

// WithModule adds module field
func (f LogFields) WithModule(module string) LogFields {
	if module != "" {
		f[FieldModule] = module
	}
	return f
}

// WithAction adds action field
func (f LogFields) WithAction(action string) LogFields {
	if action != "" {
		f[FieldAction] = action
	}
	return f
}

// WithRequestID adds request ID field
func (f LogFields) WithRequestID(requestID string) LogFields {
	f[FieldRequestID] = requestID
	return f
}

// WithClientIP adds client IP field
func (f LogFields) WithClientIP(ip string) LogFields {
	f[FieldClientIP] = ip
	return f
}

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithLocale adds locale and currency fields
func (f LogFields) WithLocale(locale, currency string) LogFields {
	f[FieldLocale] = locale
	if currency != "" {
		f[FieldCurrency] = currency
	}
	return f
}

// WithAmount adds the canonical amount field
func (f LogFields) WithAmount(amount float64) LogFields {
	f[FieldAmount] = amount
	return f
}

// WithInput adds the raw user input field
func (f LogFields) WithInput(input string) LogFields {
	f[FieldInput] = input
	return f
}

// WithRule adds the validation rule name
func (f LogFields) WithRule(rule string) LogFields {
	f[FieldRule] = rule
	return f
}

// WithHTTPRequest adds HTTP request fields
func (f LogFields) WithHTTPRequest(method, path, query, userAgent string) LogFields {
	f[FieldMethod] = method
	f[FieldPath] = path
	f[FieldQuery] = query
	f[FieldUserAgent] = userAgent
	return f
}

// WithHTTPResponse adds HTTP response fields
func (f LogFields) WithHTTPResponse(statusCode int, durationMs int64, success bool) LogFields {
	f[FieldStatusCode] = statusCode
	f[FieldDuration] = durationMs
	f[FieldSuccess] = success
	return f
}

// ToSlice converts LogFields to a slice for slog, ordered by key so
// output is stable.
func (f LogFields) ToSlice() []any {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	slice := make([]any, 0, len(f)*2)
	for _, k := range keys {
		slice = append(slice, k, f[k])
	}
	return slice
}
