package errors

// ErrorBuilder accumulates the fields of a ClassifiedError. Methods mutate
// the receiver and return it so calls can be chained.
type ErrorBuilder struct {
	err ClassifiedError
}

// NewError starts an error in the given category with SeverityError and
// RetryNever. The category constructors below apply their own defaults.
func NewError(category ErrorCategory, message string) *ErrorBuilder {
	return &ErrorBuilder{err: ClassifiedError{
		category: category,
		severity: SeverityError,
		retry:    RetryNever,
		message:  message,
	}}
}

// WrapError is NewError with cause attached.
func WrapError(cause error, category ErrorCategory, message string) *ErrorBuilder {
	return NewError(category, message).WithCause(cause)
}

func (b *ErrorBuilder) WithSeverity(s ErrorSeverity) *ErrorBuilder { b.err.severity = s; return b }
func (b *ErrorBuilder) WithRetry(r RetryStrategy) *ErrorBuilder    { b.err.retry = r; return b }
func (b *ErrorBuilder) WithCause(cause error) *ErrorBuilder        { b.err.cause = cause; return b }

// WithContext records a key/value pair that adapters emit as log attributes.
func (b *ErrorBuilder) WithContext(key string, value any) *ErrorBuilder {
	b.err.context = b.err.context.with(key, value)
	return b
}

func (b *ErrorBuilder) Fatal() *ErrorBuilder      { return b.WithSeverity(SeverityFatal) }
func (b *ErrorBuilder) Warning() *ErrorBuilder    { return b.WithSeverity(SeverityWarning) }
func (b *ErrorBuilder) Retryable() *ErrorBuilder  { return b.WithRetry(RetryBackoff) }
func (b *ErrorBuilder) UserAction() *ErrorBuilder { return b.WithRetry(RetryUserAction) }

// Build returns a snapshot; further builder calls do not affect it.
func (b *ErrorBuilder) Build() *ClassifiedError {
	out := b.err
	return &out
}

type categoryDefault struct {
	severity ErrorSeverity
	retry    RetryStrategy
}

var categoryDefaults = map[ErrorCategory]categoryDefault{
	CategoryConfig:     {SeverityFatal, RetryUserAction},
	CategoryValidation: {SeverityFatal, RetryUserAction},
	CategoryNetwork:    {SeverityError, RetryBackoff},
	CategoryGit:        {SeverityError, RetryBackoff},
	CategoryTemplate:   {SeverityFatal, RetryNever},
	CategoryRender:     {SeverityError, RetryNever},
	CategoryHook:       {SeverityFatal, RetryNever},
	CategoryAsset:      {SeverityFatal, RetryNever},
	CategoryImage:      {SeverityWarning, RetryNever},
	CategoryFileSystem: {SeverityFatal, RetryNever},
	CategoryCanceled:   {SeverityError, RetryNever},
	CategoryInternal:   {SeverityFatal, RetryNever},
}

func newDefault(category ErrorCategory, message string) *ErrorBuilder {
	d := categoryDefaults[category]
	return NewError(category, message).WithSeverity(d.severity).WithRetry(d.retry)
}

// ConfigError and ValidationError are fatal and need the user to fix input.
func ConfigError(message string) *ErrorBuilder     { return newDefault(CategoryConfig, message) }
func ValidationError(message string) *ErrorBuilder { return newDefault(CategoryValidation, message) }

// NetworkError and GitError are retried with backoff.
func NetworkError(message string) *ErrorBuilder { return newDefault(CategoryNetwork, message) }
func GitError(message string) *ErrorBuilder     { return newDefault(CategoryGit, message) }

func TemplateError(message string) *ErrorBuilder   { return newDefault(CategoryTemplate, message) }
func RenderError(message string) *ErrorBuilder     { return newDefault(CategoryRender, message) }
func HookError(message string) *ErrorBuilder       { return newDefault(CategoryHook, message) }
func AssetError(message string) *ErrorBuilder      { return newDefault(CategoryAsset, message) }
func FileSystemError(message string) *ErrorBuilder { return newDefault(CategoryFileSystem, message) }
func CanceledError(message string) *ErrorBuilder   { return newDefault(CategoryCanceled, message) }
func InternalError(message string) *ErrorBuilder   { return newDefault(CategoryInternal, message) }

// ImageError is a warning: a failed optimization leaves the original image.
func ImageError(message string) *ErrorBuilder { return newDefault(CategoryImage, message) }
