package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"reelforge/pipeline"
	"reelforge/script"
	"reelforge/state"
	"reelforge/types"
)

type renderController struct {
	store     state.Store
	submitter Submitter
}

// RegisterRenderRoutes wires the render job endpoints.
func RegisterRenderRoutes(r *gin.Engine, store state.Store, submitter Submitter) {
	ctrl := &renderController{store: store, submitter: submitter}

	r.POST("/api/render", ctrl.submit)
	r.GET("/api/jobs/:id", ctrl.status)
	r.GET("/api/jobs", ctrl.list)
}

// submit validates the script, records a pending job and queues the request.
// POST /api/render
func (ctrl *renderController) submit(c *gin.Context) {
	var s types.Script
	if err := c.ShouldBindJSON(&s); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload: " + err.Error()})
		return
	}

	if err := script.Validate(&s); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	jobID := uuid.NewString()
	record := &types.RenderJob{ID: jobID, ScriptID: s.ID, State: types.JobPending}
	if err := ctrl.store.Save(c.Request.Context(), record); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record job"})
		return
	}

	req := pipeline.RenderRequest{JobID: jobID, Script: &s}
	if err := ctrl.submitter.PublishJSON(jobID, req); err != nil {
		log.Printf("[api] failed to queue job %s: %v", jobID, err)
		record.State = types.JobFailed
		record.Error = "failed to queue render request"
		_ = ctrl.store.Save(c.Request.Context(), record)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "failed to queue render request"})
		return
	}

	log.Printf("[api] queued render job %s (%d scenes, %s)", jobID, len(s.Scenes), s.ContentType)
	c.JSON(http.StatusAccepted, gin.H{"job_id": jobID, "state": types.JobPending})
}

// status returns one job record.
// GET /api/jobs/:id
func (ctrl *renderController) status(c *gin.Context) {
	job, err := ctrl.store.Get(c.Request.Context(), c.Param("id"))
	if err == state.ErrJobNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, job)
}

// list returns all known jobs.
// GET /api/jobs
func (ctrl *renderController) list(c *gin.Context) {
	jobs, err := ctrl.store.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": jobs, "count": len(jobs)})
}
