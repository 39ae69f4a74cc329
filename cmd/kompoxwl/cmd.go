package main

import (
	"context"
	"time"

	"github.com/yaegashi/kompoxwl/internal/logging"
)

// withCmdRunLogger emits a start log line and returns a context with the
// resourceId attached, plus a cleanup function emitting the end line.
//
// Usage:
//
//	ctx, cleanup := withCmdRunLogger(ctx, "workload.render", path)
//	defer func() { cleanup(err) }()
//
// Log message format:
// - Start:   CMD:<operation>/S
// - Success: CMD:<operation>/EOK (with err, elapsed)
// - Failure: CMD:<operation>/EFAIL (with err, elapsed)
//
// All lines are INFO. The runId comes from the logger set in PersistentPreRunE.
func withCmdRunLogger(ctx context.Context, operation, resourceID string) (context.Context, func(err error)) {
	startAt := time.Now()

	logger := logging.FromContext(ctx).With("resourceId", resourceID)
	ctx = logging.WithLogger(ctx, logger)
	logger.Info(ctx, "CMD:"+operation+"/S")

	cleanup := func(err error) {
		elapsed := time.Since(startAt).Seconds()
		msg := "CMD:" + operation + "/EOK"
		var errStr string
		if err != nil {
			msg = "CMD:" + operation + "/EFAIL"
			errStr = err.Error()
			if len(errStr) > 32 {
				errStr = errStr[:32] + "..."
			}
		}
		logger.Info(ctx, msg, "err", errStr, "elapsed", elapsed)
	}
	return ctx, cleanup
}
