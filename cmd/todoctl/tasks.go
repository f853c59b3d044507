package main

import (
	"fmt"
	"os"

	"github.com/Adda-Baaj/todo-api-client/internal/app"
	"github.com/Adda-Baaj/todo-api-client/pkg/todoapi"
	"github.com/spf13/cobra"
)

func init() {
	// list
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List all tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := newRuntime(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			tasks, err := rt.ListTasks(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(os.Stdout, tasks)
		},
	}
	rootCmd.AddCommand(listCmd)

	// get
	getCmd := &cobra.Command{
		Use:   "get TASK_ID",
		Short: "Get a task by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			task, err := rt.GetTask(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(os.Stdout, task)
		},
	}
	rootCmd.AddCommand(getCmd)

	// add
	var task todoapi.TaskDto
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Create a task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if task.Title == "" || task.UserID == "" {
				return fmt.Errorf("--title and --user-id required")
			}
			rt, err := newRuntime(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			created, err := rt.AddTask(cmd.Context(), task)
			if err != nil {
				return err
			}
			return printJSON(os.Stdout, created)
		},
	}
	addCmd.Flags().StringVarP(&task.Title, "title", "t", "", "Task title (required)")
	addCmd.Flags().StringVarP(&task.UserID, "user-id", "u", "", "Owner user ID (required)")
	addCmd.Flags().StringVar(&task.ID, "id", "", "Task ID sent to the server")
	addCmd.Flags().BoolVar(&task.Finished, "finished", false, "Mark the task as completed")
	_ = addCmd.MarkFlagRequired("title")
	_ = addCmd.MarkFlagRequired("user-id")
	rootCmd.AddCommand(addCmd)
}

func newRuntime(cmd *cobra.Command) (*app.Runtime, error) {
	cfg, log, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return app.NewRuntime(cmd.Context(), cfg, log)
}
