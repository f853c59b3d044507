package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/Adda-Baaj/todo-api-client/internal/config"
	"github.com/Adda-Baaj/todo-api-client/internal/logger"
	"github.com/Adda-Baaj/todo-api-client/pkg/todoapi"
	"github.com/spf13/cobra"
)

var (
	baseURLFlag string
	rootCmd     = &cobra.Command{
		Use:           "todoctl",
		Short:         "CLI client for the todo REST API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func main() {
	rootCmd.PersistentFlags().StringVarP(&baseURLFlag, "base-url", "b", "", "API base URL (overrides API_BASE_URL)")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	_ = logger.Close()

	if err != nil {
		if todoapi.IsNotFound(err) {
			fmt.Fprintln(os.Stderr, "task not found")
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

// loadConfig reads config, applies flag overrides and initializes logging on stderr.
func loadConfig() (*config.Config, logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if baseURLFlag != "" {
		cfg.APIBaseURL = baseURLFlag
	}
	cfg.LogOutput = "stderr"

	log, err := logger.Init(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, log, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
