package main

import (
	"context"
	"fmt"
	"os"

	"go.llib.dev/objfile/internal/objcat"
)

func main() {
	cmd := objcat.NewCommand(os.Stdin, os.Stdout, os.Stderr)
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
