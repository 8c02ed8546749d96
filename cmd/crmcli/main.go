// Command crmcli is a terminal client for the CRM API.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/muhammadheryan/crm/client/api"
	"github.com/muhammadheryan/crm/client/cli"
	"github.com/muhammadheryan/crm/client/session"
)

const defaultServer = "http://localhost:8080"

func main() {
	server := os.Getenv("CRM_SERVER")
	if server == "" {
		server = defaultServer
	}

	path := os.Getenv("CRM_SESSION_FILE")
	if path == "" {
		p, err := session.DefaultPath()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		path = p
	}

	sess := session.New(session.NewFileStore(path))
	if err := sess.Init(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := cli.New(api.New(server, sess), os.Stdin, os.Stdout)
	if err := app.Run(ctx, os.Args[1:]); err != nil {
		if errors.Is(err, api.ErrSessionExpired) {
			fmt.Fprintln(os.Stderr, "Not logged in or session expired. Run: crmcli login -email you@example.com")
			os.Exit(2)
		}
		if errors.Is(err, cli.ErrUsage) {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
