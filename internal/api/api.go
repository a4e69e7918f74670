// Package api exposes the read-only worker history endpoints. It carries no
// reconciliation logic; both routes are projections over the tasks table,
// and missing rows are "no data", never an error.
package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mohans/taskwatch/internal/store"
)

const (
	defaultWorkerLimit = 100

	// Only the most recent runs say anything meaningful about a worker.
	workerRunLimit = 100
)

// Server serves the v1 read API.
type Server struct {
	store  *store.Store
	logger *zap.Logger
}

func New(st *store.Store, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{store: st, logger: logger}
}

// Routes builds the gin engine with all v1 routes mounted.
func (s *Server) Routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	v1 := r.Group("/v1")
	v1.GET("/worker-groups/:workerGroup/workers", s.listWorkerGroup)
	v1.GET("/worker-groups/:workerGroup/workers/:workerId", s.describeWorker)
	return r
}

func (s *Server) listWorkerGroup(c *gin.Context) {
	workerGroup := c.Param("workerGroup")
	limit := defaultWorkerLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}

	workers, err := s.store.DistinctWorkers(c.Request.Context(), workerGroup, limit)
	if err != nil {
		s.logger.Error("list worker group failed", zap.String("workerGroup", workerGroup), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}

	resp := listWorkerGroupResponse{WorkerGroup: workerGroup, Workers: []workerRef{}}
	for _, id := range workers {
		resp.Workers = append(resp.Workers, workerRef{WorkerID: id})
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) describeWorker(c *gin.Context) {
	workerGroup := c.Param("workerGroup")
	workerID := c.Param("workerId")

	rows, err := s.store.WorkerRuns(c.Request.Context(), workerID, workerRunLimit)
	if err != nil {
		s.logger.Error("describe worker failed", zap.String("workerId", workerID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}

	resp := describeWorkerResponse{
		WorkerGroup: workerGroup,
		WorkerID:    workerID,
		Tasks:       []taskRun{},
	}
	for _, r := range rows {
		resp.Tasks = append(resp.Tasks, taskRunFromRow(r))
	}
	c.JSON(http.StatusOK, resp)
}
