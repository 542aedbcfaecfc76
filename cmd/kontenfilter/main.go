// Command kontenfilter partitions spreadsheet rows into a cleaned workbook and
// an excluded-items workbook, from the command line or as an HTTP service.
//
//	kontenfilter partition laporan.xlsx --sheet "Media Sosial" -k promo -k diskon
//	kontenfilter serve
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/JonMunkholm/kontenfilter/internal/core"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := newRootCommand().ExecuteContext(ctx)
	stop()
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, describeError(err))
		}
		os.Exit(1)
	}
}

// describeError prefers the user-facing message and support code when the
// error maps to one.
func describeError(err error) string {
	if core.IsUserFacing(err) {
		return core.FormatUserError(err)
	}
	return err.Error()
}
