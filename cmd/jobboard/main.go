// cmd/jobboard/main.go
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/pterm/pterm"

	"jobboard/internal/applied"
	"jobboard/internal/client"
	"jobboard/internal/common/config"
	commonhttp "jobboard/internal/common/http"
	"jobboard/internal/common/logger"
)

func main() {
	root := newRootCmd(buildApp)
	if err := root.Execute(); err != nil {
		if !errors.Is(err, errShown) {
			pterm.Error.Println(err)
		}
		os.Exit(1)
	}
}

// buildApp wires the client from configs/config.yaml and the environment.
// Logs go to stderr so they never mix with tables on stdout.
func buildApp(verbose bool) (*app, error) {
	cfg, err := config.LoadClient()
	if err != nil {
		return nil, fmt.Errorf("config load failed: %w", err)
	}

	level := "warn"
	if verbose {
		level = "debug"
	}
	log := logger.NewZapAdapter(logger.New(level, "console", "stderr"))

	api, err := client.New(cfg.Client.APIBaseURL, commonhttp.NewClient(config.GetDuration(cfg.Client.Timeout)), log)
	if err != nil {
		return nil, err
	}

	return &app{
		api:     api,
		applied: applied.NewStore(applied.NewFileStorage(cfg.Client.AppliedStatePath), log),
		logger:  log,
		out:     os.Stdout,
	}, nil
}
