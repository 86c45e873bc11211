// Command unitrack is the terminal front-end of the Unitrack portfolio
// tracker.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/unitrack/unitrack/logger"
)

func main() {
	// Until the config is loaded, logging follows UNITRACK_LOG_* alone.
	logger.SetGlobalLogger(logger.NewFromEnv(""))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := newApp(os.Stdout, os.Stderr).execute(ctx, os.Args[1:])
	stop()
	os.Exit(int(code))
}
