package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gauntlet/internal/cli/command"
	httpclient "gauntlet/internal/cli/http"
	"gauntlet/internal/cli/repl"
	"gauntlet/internal/cli/state"
)

const defaultBaseURL = "http://127.0.0.1:3000"

func main() {
	baseURL := flag.String("base", defaultBaseURL, "Server base URL")
	timeout := flag.Duration("timeout", 30*time.Second, "Request timeout")
	flag.Parse()

	statePath := defaultStatePath()
	tokenState, err := state.Load(statePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "gauntlet-cli: %v\n", err)
		os.Exit(1)
	}

	client := httpclient.New(*baseURL, *timeout, func() string {
		return tokenState.Token
	})
	session := repl.New(client, command.Registry(), &tokenState, statePath)
	session.Run(context.Background())
}

func defaultStatePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".gauntlet-cli.json"
	}
	return filepath.Join(home, ".gauntlet", "cli.json")
}
