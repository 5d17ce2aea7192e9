package printer

import (
	"context"
	"os"
)

// ConsolePrinter is the process wide printer used by the package level
// helpers.
var ConsolePrinter = New(os.Stdout)

func Ctx(ctx context.Context) *Printer {
	return ConsolePrinter.Ctx(ctx)
}

func FatalError(err error) {
	ConsolePrinter.FatalError(err)
}
