package helpers

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
)

// PrettyPrintedStack describes the calling goroutine's stack with one call
// per line, most recent first. It's used to report internal errors.
func PrettyPrintedStack() string {
	pcs := make([]uintptr, 64)
	frames := runtime.CallersFrames(pcs[:runtime.Callers(2, pcs)])
	sb := strings.Builder{}

	for {
		frame, more := frames.Next()

		// Only keep the last path component of the package
		name := frame.Function
		if slash := strings.LastIndexByte(name, '/'); slash != -1 {
			name = name[slash+1:]
		}

		if sb.Len() > 0 {
			sb.WriteByte('\n')
		}
		dir, file := filepath.Split(frame.File)
		fmt.Fprintf(&sb, "%s (%s:%d)", name, filepath.Join(filepath.Base(dir), file), frame.Line)

		if !more {
			break
		}
	}

	return sb.String()
}
