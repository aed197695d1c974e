package mcp

import (
	"context"
	"os"
	"time"

	"classreport/internal/logging"
)

// ParentPollInterval is how often WatchParent checks the parent PID.
var ParentPollInterval = 2 * time.Second

// WatchParent cancels the server context once the process that launched it
// goes away, so a stdio server never outlives its client.
//
// It must not read stdin: the stdio transport owns that stream.
func WatchParent(ctx context.Context, cancel context.CancelFunc) {
	go watchParent(ctx, cancel, os.Getppid, ParentPollInterval)
}

func watchParent(ctx context.Context, cancel context.CancelFunc, parent func() int, every time.Duration) {
	ppid := parent()
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if parent() == ppid {
				continue
			}
			logging.New("mcp").Warn("parent process exited, shutting down", "parent_pid", ppid)
			cancel()
			return
		}
	}
}
