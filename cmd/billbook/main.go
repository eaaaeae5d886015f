package main

import (
	"context"
	"fmt"
	"os"

	"github.com/andy/billbook/internal/app"
	"github.com/andy/billbook/internal/cli"
)

func main() {
	// If the user asked for help, avoid initializing the full app (which may prompt)
	skipInit := false
	verbose := false
	for _, a := range os.Args[1:] {
		switch a {
		case "-h", "--help", "help":
			skipInit = true
		case "-v", "--verbose":
			verbose = true
		}
	}

	if !skipInit {
		ctx := context.Background()
		a, err := app.New(ctx, app.Options{Verbose: verbose})
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to initialize app: %v\n", err)
			os.Exit(1)
		}
		defer a.Close()
		cli.SetApp(a)
	}

	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
