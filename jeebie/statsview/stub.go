//go:build !statsview

package statsview

import "log/slog"

// Launch logs that the stats server is not built in.
func Launch(address string) string {
	slog.Warn("Stats server not available - build with -tags statsview to enable")
	return ""
}

// Available reports whether the stats server was built in.
func Available() bool {
	return false
}
