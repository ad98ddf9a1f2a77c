package cli

import (
	"bufio"
	"context"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/dmitrijs2005/gophgallery/internal/client/client"
	"github.com/dmitrijs2005/gophgallery/internal/client/config"
	"github.com/dmitrijs2005/gophgallery/internal/server/models"
	"golang.org/x/term"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// isTerminal is a test seam for term.IsTerminal.
var isTerminal = term.IsTerminal

type App struct {
	config      *config.Config
	client      client.Client
	reader      *bufio.Reader
	out         io.Writer
	interactive bool
	items       []models.GalleryItem
	Mode        Mode
}

func NewApp(c *config.Config) *App {
	hc := &http.Client{Timeout: c.RequestTimeout}

	return &App{
		config:      c,
		client:      client.NewHTTPClient(c.ServerURL, hc),
		reader:      bufio.NewReader(os.Stdin),
		out:         os.Stdout,
		interactive: isTerminal(int(os.Stdin.Fd())) && isTerminal(int(os.Stdout.Fd())),
	}
}

func (a *App) setMode(mode Mode) {
	if a.Mode != mode {
		a.Mode = mode
		log.Printf("Switched to %s mode\n", mode)
	}
}

func (a *App) getStatus() string {
	if a.Mode == "" {
		return ""
	}
	return "(" + string(a.Mode) + ")"
}

// Run starts the interactive loop and blocks until the user exits or stdin
// is exhausted.
func (a *App) Run(ctx context.Context) {
	log.Println("Welcome to the gallery CLI (type 'help' for commands)")

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go a.StartOnlineStatusWatcher(watchCtx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.getStatus, a.reader)
}

// Exec runs a single command given on the command line.
func (a *App) Exec(ctx context.Context, args []string) error {
	_, err := dispatch(ctx, a, args)
	return err
}

func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
			err := a.client.Ping(pingCtx)
			cancel()

			if err != nil {
				a.setMode(ModeOffline)
			} else {
				a.setMode(ModeOnline)
			}

		case <-ctx.Done():
			return
		}
	}
}
