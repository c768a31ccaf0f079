package cmd

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jefftp/ilandinfo/client"
	"github.com/jefftp/ilandinfo/util"
)

var (
	taskCmd = &cobra.Command{
		Use:   "task",
		Short: "Inspect iland Cloud tasks",
		Long:  "Command to inspect asynchronous tasks running in the iland Cloud.",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}
	taskWatchCmd = &cobra.Command{
		Use:   "watch <uuid>",
		Short: "Watch a task until it completes",
		Long:  "Command to poll a task by UUID, printing its progress until it completes.",
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if _, err := uuid.Parse(args[0]); err != nil {
				return fmt.Errorf("Invalid task UUID: %v", args[0])
			}
			return util.CheckRequiredSettings(requiredArgs)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return watchTask(args[0])
		},
	}
)

func init() {
	taskCmd.AddCommand(taskWatchCmd)
	RootCmd.AddCommand(taskCmd)
}

func watchTask(taskUUID string) error {

	apiClient, err := newAPIClient()
	if err != nil {
		return err
	}

	return apiClient.WatchTask(taskUUID, os.Stdout, client.DefaultWatchInterval)
}
