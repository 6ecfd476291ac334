package api

import (
	"github.com/gin-gonic/gin"

	"reelforge/state"
)

// Submitter queues a render request for the worker. Implemented by the Kafka
// producer in production and by fakes in tests.
type Submitter interface {
	PublishJSON(key string, payload interface{}) error
}

// NewRouter constructs a Gin engine with registered routes.
func NewRouter(store state.Store, submitter Submitter) *gin.Engine {
	r := gin.New()
	// Minimal middleware: recovery; logger optional to reduce verbosity
	r.Use(gin.Recovery())

	// Register resource routers
	RegisterRenderRoutes(r, store, submitter)
	RegisterHealthRoutes(r)
	return r
}
