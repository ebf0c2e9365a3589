// Command typewise sorts, classifies and compares JSON or YAML values under the
// typewise total order.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/amp-labs/typewise/shutdown"
)

func main() {
	handler := shutdown.New()

	ctx, stop := handler.Listen(context.Background())

	err := newRootCommand().ExecuteContext(ctx)

	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, "typewise:", err) //nolint:errcheck
		os.Exit(exitCode(err))
	}
}
