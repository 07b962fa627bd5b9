package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/alhadhrami/bizreport/internal/cli"
	"github.com/alhadhrami/bizreport/pkg/bizreport"
)

func main() {
	// Recover from panics to ensure graceful exits with stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "panic: %v\n%s\n", r, debug.Stack())
			os.Exit(bizreport.ExitPanic)
		}
	}()

	if os.Getenv("BIZREPORT_TEST_PANIC") == "1" {
		panic("intentional test panic")
	}

	if err := cli.Execute(); err != nil {
		os.Exit(bizreport.ExitCodeForError(err))
	}
}
