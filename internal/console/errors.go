package console

import "errors"

// CompileError reports source that could not be turned into a program.
// No callback has run when it is returned.
type CompileError struct {
	Message string
}

func (e *CompileError) Error() string {
	return e.Message
}

// InitError reports an uncaught error raised by _init. The loop never started.
type InitError struct {
	Message string
}

func (e *InitError) Error() string {
	return e.Message
}

// RuntimeError reports an uncaught error raised by _update or _draw. The
// frame in progress was discarded and the loop halted.
type RuntimeError struct {
	Message string
}

func (e *RuntimeError) Error() string {
	return e.Message
}

// runtimePrefix marks loop errors when shown to the player.
const runtimePrefix = "Runtime Error: "

// Describe formats a program error for display. Runtime errors carry a
// prefix so they can be told apart from load problems.
func Describe(err error) string {
	if err == nil {
		return ""
	}
	var rt *RuntimeError
	if errors.As(err, &rt) {
		return runtimePrefix + rt.Message
	}
	return err.Error()
}
