package otel

import (
	"os"
	"strconv"
	"sync/atomic"
)

var keyTrace atomic.Bool

func init() {
	keyTrace.Store(traceFromEnv(os.Getenv("SHOPPER_TRACE")))
}

// traceFromEnv treats any non-empty value as on, except ones ParseBool
// reads as false ("0", "false", ...).
func traceFromEnv(v string) bool {
	if v == "" {
		return false
	}
	on, err := strconv.ParseBool(v)
	return err != nil || on
}

// TraceEnabled reports whether key presses should be recorded as ui.key
// events. It starts from SHOPPER_TRACE.
func TraceEnabled() bool { return keyTrace.Load() }

// SetTrace turns key tracing on or off for the rest of the process.
func SetTrace(on bool) { keyTrace.Store(on) }
