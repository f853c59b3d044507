package main

import (
	"os"

	"github.com/Adda-Baaj/todo-api-client/internal/app"
	"github.com/spf13/cobra"
)

func init() {
	// sync
	var watch bool
	syncCmd := &cobra.Command{
		Use:   "sync",
		Short: "Mirror remote tasks locally and publish changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mirror, err := newMirror(cmd)
			if err != nil {
				return err
			}
			defer mirror.Close()

			if watch {
				return mirror.Run(cmd.Context())
			}
			res, err := mirror.RunOnce(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(os.Stdout, res)
		},
	}
	syncCmd.Flags().BoolVarP(&watch, "watch", "w", false, "Keep syncing on the configured interval")
	rootCmd.AddCommand(syncCmd)

	// local
	localCmd := &cobra.Command{
		Use:   "local",
		Short: "Print the locally mirrored tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mirror, err := newMirror(cmd)
			if err != nil {
				return err
			}
			defer mirror.Close()

			tasks, err := mirror.LocalTasks()
			if err != nil {
				return err
			}
			return printJSON(os.Stdout, tasks)
		},
	}
	rootCmd.AddCommand(localCmd)
}

func newMirror(cmd *cobra.Command) (*app.Mirror, error) {
	cfg, log, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return app.NewMirror(cmd.Context(), cfg, log)
}
