package errors

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/pkg/errors"
)

// deepestStack returns the stack recorded closest to the root cause.
func deepestStack(err error) errors.StackTrace {
	var st errors.StackTrace
	for err != nil {
		if t, ok := err.(interface{ StackTrace() errors.StackTrace }); ok {
			st = t.StackTrace()
		}
		c, ok := err.(causer)
		if !ok {
			break
		}
		err = c.Cause()
	}
	return st
}

// callerFrames drops the frames of this package and of the runtime, so the
// first frame is where the error was created.
func callerFrames(st errors.StackTrace) errors.StackTrace {
	for len(st) != 0 && frameIn(st[0], "vault/errors/", "/runtime/", "/_test/") {
		st = st[1:]
	}
	for len(st) != 0 && frameIn(st[len(st)-1], "/runtime/") {
		st = st[:len(st)-1]
	}
	return st
}

func frameIn(f errors.Frame, dirs ...string) bool {
	file, _ := frameSource(f)
	for _, d := range dirs {
		if strings.Contains(file, d) {
			return true
		}
	}
	return false
}

func frameSource(f errors.Frame) (file string, line int) {
	pc := uintptr(f) - 1
	if fn := runtime.FuncForPC(pc); fn != nil {
		return fn.FileLine(pc)
	}
	return "unknown", 0
}

// Format prints the message for %s. %v appends the [file:line] the error
// was created at and %+v prefixes the message with the whole stack.
func (e *wrappedError) Format(s fmt.State, verb rune) {
	st := callerFrames(deepestStack(e))
	full := verb == 'v' && s.Flag('+')
	if full && len(st) != 0 {
		fmt.Fprintf(s, "%+v\n", st)
	}
	io.WriteString(s, e.Error())
	if verb == 'v' && !full && len(st) != 0 {
		file, line := frameSource(st[0])
		if i := strings.Index(file, "github.com/"); i >= 0 {
			file = file[i+len("github.com/"):]
		}
		fmt.Fprintf(s, " [%s:%d]", file, line)
	}
}
