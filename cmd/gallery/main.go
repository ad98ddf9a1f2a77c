package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/gophgallery/internal/client/cli"
	"github.com/dmitrijs2005/gophgallery/internal/client/config"
	"github.com/dmitrijs2005/gophgallery/internal/flagx"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	app := cli.NewApp(cfg)

	args := flagx.Positional(os.Args[1:], []string{"-a", "-o", "-t", "-i", "-c", "-config"})
	if len(args) == 0 {
		app.Run(ctx)
		return
	}

	if err := app.Exec(ctx, args); err != nil {
		log.Printf("%v", err)
		stop()
		os.Exit(1)
	}
}
