// Package api exposes placement run submission and retrieval over HTTP,
// following the teacher's internal/api.Server structure (gin + gin-contrib/cors).
package api

import (
	"encoding/json"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dagplacer/space4ai-placer/internal/obslog"
	"github.com/dagplacer/space4ai-placer/internal/store"
	"github.com/dagplacer/space4ai-placer/pkg/evaluator"
	"github.com/dagplacer/space4ai-placer/pkg/ioconfig"
	"github.com/dagplacer/space4ai-placer/pkg/performance"
	"github.com/dagplacer/space4ai-placer/pkg/search"
	"github.com/dagplacer/space4ai-placer/pkg/sysmodel"
)

// Server is the placement-run HTTP service.
type Server struct {
	router *gin.Engine
	repo   *store.Repository
	port   string
}

// NewServer builds a Server backed by repo, listening on port.
func NewServer(repo *store.Repository, port string) *Server {
	router := gin.Default()

	cfg := cors.DefaultConfig()
	cfg.AllowOrigins = []string{"http://localhost:3000", "http://localhost:8080"}
	cfg.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	cfg.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	router.Use(cors.New(cfg))

	s := &Server{router: router, repo: repo, port: port}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.router.Group("/api/v1")

	api.POST("/runs", s.createRun)
	api.GET("/runs", s.listRuns)
	api.GET("/runs/:id", s.getRun)
	api.GET("/runs/:id/solutions", s.listSolutions)
	api.GET("/runs/:id/solutions/:rank", s.getSolutionByRank)
	api.GET("/runs/:id/trials", s.getTrials)
	api.GET("/health", s.healthCheck)
}

// Start blocks serving on s.port.
func (s *Server) Start() error {
	return s.router.Run(":" + s.port)
}

func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "time": time.Now()})
}

type createRunRequest struct {
	ConfigPath            string `json:"config_path" binding:"required"`
	MaxIterations         int    `json:"max_iterations"`
	NumTopSolutions       int    `json:"num_top_solutions"`
	LocalSearchIterations int    `json:"local_search_iterations"`
	Parallel              int    `json:"parallel"`
	Reproducible          bool   `json:"reproducible"`
}

// createRun loads a configuration file from disk, runs the search driver
// synchronously, and persists the run plus its elite set. A production
// deployment would hand this off to a worker queue; this mirrors the
// teacher's synchronous createSimulation handler, generalized to a
// longer-running operation.
func (s *Server) createRun(c *gin.Context) {
	var req createRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	run := &store.Run{
		ID:           uuid.NewString(),
		ConfigPath:   req.ConfigPath,
		StartTime:    time.Now(),
		Status:       "running",
		Reproducible: req.Reproducible,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if err := s.repo.CreateRun(run); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	data, err := os.ReadFile(req.ConfigPath)
	if err != nil {
		s.repo.FinishRun(run.ID, "failed", err.Error())
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sys, cfg, err := sysmodel.LoadConfig(data)
	if err != nil {
		s.repo.FinishRun(run.ID, "failed", err.Error())
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	table, err := performance.Build(sys, cfg)
	if err != nil {
		s.repo.FinishRun(run.ID, "failed", err.Error())
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	driverCfg := search.DriverConfig{
		RandomGreedy: search.RandomGreedyConfig{
			MaxIterations:   orDefault(req.MaxIterations, 200),
			NumTopSolutions: orDefault(req.NumTopSolutions, 5),
			Reproducible:    req.Reproducible,
			Parallel:        orDefault(req.Parallel, 4),
		},
		LocalSearchIterations: orDefault(req.LocalSearchIterations, 500),
		Reproducible:          req.Reproducible,
		Parallel:              orDefault(req.Parallel, 4),
	}

	elite := search.SearchDriver(sys, table, driverCfg)
	if elite.Size() == 0 {
		s.repo.FinishRun(run.ID, "infeasible", "no feasible solution found")
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "no feasible solution found", "run_id": run.ID})
		return
	}

	for rank, result := range elite.All() {
		report := evaluator.Check(sys, result.Solution, table)
		doc, err := ioconfig.Encode(sys, result.Solution, report)
		if err != nil {
			obslog.Warn("api: encoding rank %d of run %s: %v", rank, run.ID, err)
			continue
		}
		raw, err := json.Marshal(doc)
		if err != nil {
			obslog.Warn("api: marshaling rank %d of run %s: %v", rank, run.ID, err)
			continue
		}
		s.repo.SaveEliteSolution(&store.EliteSolution{
			RunID:        run.ID,
			Rank:         rank,
			Cost:         result.Cost,
			Feasible:     report.Feasible,
			SolutionJSON: string(raw),
			CreatedAt:    time.Now(),
		})
	}

	s.repo.FinishRun(run.ID, "completed", "")
	c.JSON(http.StatusCreated, gin.H{"run_id": run.ID, "elite_count": elite.Size()})
}

func (s *Server) listRuns(c *gin.Context) {
	runs, err := s.repo.ListRuns()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, runs)
}

func (s *Server) getRun(c *gin.Context) {
	run, err := s.repo.GetRun(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
		return
	}
	c.JSON(http.StatusOK, run)
}

func (s *Server) listSolutions(c *gin.Context) {
	sols, err := s.repo.GetEliteSolutions(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, sols)
}

func (s *Server) getSolutionByRank(c *gin.Context) {
	rank, err := strconv.Atoi(c.Param("rank"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "rank must be an integer"})
		return
	}
	sol, err := s.repo.GetEliteSolutionByRank(c.Param("id"), rank)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, sol)
}

func (s *Server) getTrials(c *gin.Context) {
	phase := c.Query("phase")
	logs, err := s.repo.GetTrialLogs(c.Param("id"), phase)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, logs)
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
