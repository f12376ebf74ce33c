package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/spf13/afero"

	"github.com/seitarof/gen-builder/internal/cli"
)

var version = "dev"

func main() {
	cfg, err := cli.ParseArgs(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}
	if cfg.ShowVersion {
		fmt.Println(version)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	runner, err := cli.NewDefaultRunner(cfg, afero.NewOsFs(), os.Stderr)
	if err != nil {
		log.Fatal(err)
	}
	if _, err := runner.Run(ctx, cfg); err != nil {
		if errors.Is(err, cli.ErrBuildersFailed) {
			stop()
			os.Exit(1)
		}
		log.Fatal(err)
	}
}
