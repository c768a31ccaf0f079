package cmd

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jefftp/ilandinfo/inventory"
	"github.com/jefftp/ilandinfo/util"
)

var (
	requiredArgs = []string{
		"credentials_file",
	}
	listCmd = &cobra.Command{
		Use:       "list <object>",
		Short:     "Display a list of objects",
		Long:      "Command to display a list of inventory objects of the given type.",
		ValidArgs: inventory.Objects(),
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return util.CheckRequiredSettings(requiredArgs)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return listObjects(args[0], os.Stdout)
		},
	}
)

func init() {
	RootCmd.AddCommand(listCmd)
}

func listObjects(object string, out io.Writer) error {

	entityKey, err := inventory.EntityKey(object)
	if err != nil {
		return err
	}

	apiClient, err := newAPIClient()
	if err != nil {
		return err
	}

	inv, err := apiClient.GetUserInventory()
	if err != nil {
		return err
	}

	return inventory.WriteRows(out, object, inventory.Flatten(inv, entityKey))
}
