package api

import (
	"github.com/hanulkim/blog-discovery/app/database"
	"github.com/hanulkim/blog-discovery/app/discovery"
	"github.com/hanulkim/blog-discovery/app/docs"
	"github.com/hanulkim/blog-discovery/app/tasks"
)

type RegeneratorInterface interface {
	Run(kind string) (*docs.Result, error)
}

var _ RegeneratorInterface = (*docs.Regenerator)(nil)

type Handler struct {
	engine      *discovery.Service
	regenerator RegeneratorInterface
	contents    database.ContentStore
	documents   database.DocumentStore
	configCache *docs.ConfigCache
	scheduler   tasks.TaskSchedulerInterface
}
