package tasks

// TaskSchedulerInterface defines the interface for the background
// ingest scheduler: queue management and worker pool lifecycle.
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
}
