package sync

import (
	"github.com/openprocure/samsync/src/utils/config"
	"github.com/openprocure/samsync/src/utils/model"
	"github.com/openprocure/samsync/src/utils/samgov"
	"github.com/openprocure/samsync/src/utils/task"

	monitor_syncer "github.com/openprocure/samsync/src/utils/monitoring/syncer"
)

type Controller struct {
	*task.Task
}

// Main class that orchestrates syncing functionalities.
// Sets up crawling the opportunity catalog and storing contracts.
func NewController(config *config.Config) (self *Controller, err error) {
	self = new(Controller)

	self.Task = task.NewTask(config, "controller")

	db, err := model.NewConnection(self.Ctx, config, "samsync")
	if err != nil {
		return
	}

	client := samgov.NewClient(config)
	store := NewStore(db)

	monitor := monitor_syncer.NewMonitor().
		WithMaxHistorySize(30)

	server := NewServer(config).
		WithMonitor(monitor)

	crawler := NewCrawler(config).
		WithCatalog(client).
		WithStore(store).
		WithMonitor(monitor)

	processor := NewProcessor(config).
		WithCatalog(client).
		WithStore(store).
		WithMonitor(monitor).
		WithInputChannel(crawler.Output)

	self.Task = self.Task.
		WithSubtask(monitor.Task).
		WithSubtask(server.Task).
		WithSubtask(processor.Task).
		WithSubtask(crawler.Task).
		WithSubtaskFunc(func() error {
			// Stop everything once the crawl finished and the workers
			// drained, there is nothing left to do until the next run
			select {
			case <-processor.CtxRunning.Done():
				self.Log.Info("Pipeline drained, stopping")
				go self.Stop()
			case <-self.StopChannel:
			}
			return nil
		})

	return
}
