package cmd

import (
	"github.com/spf13/cobra"

	"github.com/openprocure/samsync/src/sync"
)

func init() {
	RootCmd.AddCommand(syncCmd)
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Crawl the opportunity catalog and save contracts to the database",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		controller, err := sync.NewController(conf)
		if err != nil {
			return
		}

		err = controller.Start()
		if err != nil {
			return
		}

		// Wait for SIGINT or for the crawl to finish on its own
		select {
		case <-applicationCtx.Done():
		case <-controller.CtxRunning.Done():
		}

		controller.StopWait()

		return
	},
}
