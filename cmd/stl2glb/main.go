// stl2glb converts STL meshes to GLB.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/Faultbox/cadconv/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	cmd := cli.STLToGLB().Command()
	cmd.SetContext(ctx)
	code := cli.Execute(cmd)
	stop()
	os.Exit(code)
}
