package main

import (
	"context"
	"hoopstats/cmd/hoopstats/commands"
	"hoopstats/lib/osutil"
	"hoopstats/lib/telemetry"
)

func main() {
	telemetry.InitSlog(false)

	ctx, stop := osutil.SignalContext(context.Background())
	defer stop()
	commands.ExecuteContext(ctx)
}
