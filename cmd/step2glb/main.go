// step2glb converts STEP/STP CAD files to GLB, trying each installed CAD backend in turn.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/Faultbox/cadconv/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	cmd := cli.STEPToGLB().Command()
	cmd.SetContext(ctx)
	code := cli.Execute(cmd)
	stop()
	os.Exit(code)
}
