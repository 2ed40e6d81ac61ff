package core

// Logger is any leveled logger.
// Trailing args may carry an error, a map of extra fields or the acting
// session.Admin (implementations decide what to do with each).
type Logger interface {
	Enable(enabled bool)
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
