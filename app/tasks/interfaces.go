package tasks

import (
	"github.com/hanulkim/blog-discovery/app/docs"
)

// TaskSchedulerInterface defines the interface for task scheduling operations.
// Used by the main application and the API to manage background task
// processing: queue management, worker pool control and shutdown.
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
}

// RegeneratorInterface is the part of the document regenerator the tasks need
type RegeneratorInterface interface {
	Run(kind string) (*docs.Result, error)
}
