package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

func main() {
	os.Exit(run())
}

func run() int {
	if err := newRootCommand().Execute(); err != nil {
		if errors.Is(err, context.Canceled) {
			return 1
		}
		fmt.Fprintln(os.Stderr, "dubboard:", err)
		return 1
	}
	return 0
}
