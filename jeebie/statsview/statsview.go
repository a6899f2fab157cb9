//go:build statsview

package statsview

import (
	"log/slog"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
)

// Launch starts the stats server on a new goroutine and returns its URL.
func Launch(address string) string {
	if address == "" {
		address = DefaultAddress
	}
	viewer.SetConfiguration(viewer.WithAddr(address))

	go func() {
		mgr := statsview.New()
		if err := mgr.Start(); err != nil {
			slog.Warn("Stats server stopped", "error", err)
		}
	}()

	url := "http://" + address + path
	slog.Info("Stats server available", "url", url)
	return url
}

// Available reports whether the stats server was built in.
func Available() bool {
	return true
}
