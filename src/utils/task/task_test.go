package task

import (
	"testing"
	"time"

	"go.uber.org/atomic"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/openprocure/samsync/src/utils/config"
)

func TestTaskTestSuite(t *testing.T) {
	suite.Run(t, new(TaskTestSuite))
}

type TaskTestSuite struct {
	suite.Suite
	config *config.Config
}

func (s *TaskTestSuite) SetupSuite() {
	s.config = config.Default()
}

func (s *TaskTestSuite) TestLifecycle() {
	var task *Task
	task = NewTask(s.config, "test").
		WithSubtaskFunc(func() error {
			<-task.StopChannel
			return nil
		})

	require.NoError(s.T(), task.Start())

	select {
	case <-task.CtxRunning.Done():
		s.T().Fatal("task finished before being stopped")
	case <-time.After(10 * time.Millisecond):
	}

	task.StopWait()
	<-task.CtxRunning.Done()
}

func (s *TaskTestSuite) TestSubtaskFuncFinishesTask() {
	task := NewTask(s.config, "test").
		WithSubtaskFunc(func() error {
			return nil
		})

	require.NoError(s.T(), task.Start())

	select {
	case <-task.CtxRunning.Done():
	case <-time.After(time.Second):
		s.T().Fatal("task did not finish")
	}
}

func (s *TaskTestSuite) TestWorkerPoolDrainsBeforeFinish() {
	var counter atomic.Int64

	task := NewTask(s.config, "test").
		WithWorkerPool(2, 10)

	require.NoError(s.T(), task.Start())

	for i := 0; i < 5; i++ {
		task.SubmitToWorker(func() {
			time.Sleep(5 * time.Millisecond)
			counter.Inc()
		})
	}

	task.StopWait()
	require.EqualValues(s.T(), 5, counter.Load())
}

func (s *TaskTestSuite) TestWorkerQueueFillFactor() {
	task := NewTask(s.config, "test").
		WithWorkerPool(1, 4)

	require.Zero(s.T(), task.GetWorkerQueueFillFactor())

	require.NoError(s.T(), task.Start())

	block := make(chan struct{})
	// First submission occupies the only worker, the rest pile up
	for i := 0; i < 3; i++ {
		task.SubmitToWorker(func() {
			<-block
		})
	}

	require.Eventually(s.T(), func() bool {
		return task.GetWorkerQueueFillFactor() > 0
	}, time.Second, time.Millisecond)

	close(block)
	task.StopWait()
	require.Zero(s.T(), task.GetWorkerQueueFillFactor())
}

func (s *TaskTestSuite) TestStopCascadesToSubtasks() {
	stopped := make(chan struct{})

	child := NewTask(s.config, "child").
		WithSubtaskFunc(func() error {
			<-stopped
			return nil
		}).
		WithOnStop(func() {
			close(stopped)
		})

	parent := NewTask(s.config, "parent").
		WithSubtask(child)

	require.NoError(s.T(), parent.Start())
	parent.StopWait()

	select {
	case <-child.CtxRunning.Done():
	case <-time.After(time.Second):
		s.T().Fatal("child did not stop")
	}
}
