package main

import (
	"fmt"
	"os"

	"github.com/danmuck/ghoslerctl/internal/cli"
	"github.com/danmuck/ghoslerctl/internal/observability"
)

func main() {
	observability.InitLogger("ghoslerctl")
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "ghoslerctl: %v\n", err)
		os.Exit(1)
	}
}
