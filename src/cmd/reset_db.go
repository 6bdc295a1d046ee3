package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/openprocure/samsync/src/utils/common"
	"github.com/openprocure/samsync/src/utils/config"
	"github.com/openprocure/samsync/src/utils/model"
)

func init() {
	RootCmd.AddCommand(resetDbCmd)
}

var resetDbCmd = &cobra.Command{
	Use:   "reset-db",
	Short: "Drop and recreate the database schema, all data is lost",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		conf, ok := common.GetConfig[*config.Config](applicationCtx)
		if !ok {
			return errors.New("configuration not attached to the context")
		}
		return model.ResetSchema(applicationCtx, conf)
	},
}
