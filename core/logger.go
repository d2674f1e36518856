package core

// Logger is implemented by every logging backend of the app.
// args may carry errors, context maps and at most one Principal.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}

// Principal identifies who performed a logged request.
type Principal struct {
	SchoolCode string
	SchoolName string
	Role       Role
}
