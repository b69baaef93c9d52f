package service

import (
	"log/slog"

	"github.com/eventvms/vms/internal/metrics"
)

// logMirrorResult inspects the outcome of a mirror-sink write. Mirror
// failures are logged and counted, never propagated: the primary store
// write has already committed by the time the mirror is attempted, and
// the mirror is allowed to go stale.
func logMirrorResult(op string, err error) {
	if err == nil {
		return
	}
	metrics.MirrorFailuresTotal.Inc()
	slog.Warn("mirror write failed", "op", op, "error", err)
}
