// meshcheck runs a mesh through the STL conversion pipeline and prints its statistics.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/Faultbox/cadconv/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	cmd := cli.MeshCheck()
	cmd.SetContext(ctx)
	code := cli.Execute(cmd)
	stop()
	os.Exit(code)
}
