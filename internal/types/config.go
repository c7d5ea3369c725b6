package types

type RunMode string

const (
	// ModeLocal is the mode for running the console service on a developer machine
	ModeLocal RunMode = "local"
	// ModeAPI is the mode for running the console service behind the web console
	ModeAPI RunMode = "api"
)

type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// DraftStoreType selects where in-progress drafts are kept
type DraftStoreType string

const (
	DraftStoreMemory DraftStoreType = "memory"
	DraftStoreRedis  DraftStoreType = "redis"
)

const (
	HeaderAuthorization = "Authorization"
	HeaderEnvironment   = "X-Environment-ID"
	HeaderRequestID     = "X-Request-ID"
	HeaderAPIKey        = "x-api-key"
)
