// Command fridgechef is a terminal client for the FridgeChef API.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pageza/fridgechef/backend/internal/client"
)

func main() {
	defaultServer := os.Getenv("FRIDGECHEF_API_URL")
	if defaultServer == "" {
		defaultServer = "http://localhost:3001/api"
	}

	server := flag.String("server", defaultServer, "FridgeChef API base URL")
	image := flag.String("image", "", "Fridge photo to analyze on start")
	plain := flag.Bool("plain", false, "Disable colors and borders")
	timeout := flag.Duration("timeout", client.DefaultTimeout, "Per-request timeout")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	api := client.New(*server, client.WithHTTPClient(&http.Client{Timeout: *timeout}))

	healthCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	if _, err := api.Health(healthCtx); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %s (%s)\n", err, *server)
	}
	cancel()

	a := newApp(api, os.Stdin, os.Stdout, *plain)
	if *image != "" {
		a.handle(ctx, "")
		a.handle(ctx, "photo "+*image)
	}
	if err := a.run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
