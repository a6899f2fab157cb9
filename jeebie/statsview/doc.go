// Package statsview serves runtime statistics (heap, goroutines, GC pauses)
// over HTTP while the emulator runs, to spot allocation churn in the tick
// loop. It is only built with the statsview tag; without it Launch is a
// no-op and Available reports false.
//
// After launch the charts are at http://localhost:12600/debug/statsview and
// pprof at http://localhost:12600/debug/pprof/.
package statsview

// DefaultAddress is the listen address used when none is given.
const DefaultAddress = "localhost:12600"

const path = "/debug/statsview"
