// Package handlers exposes the HTTP API over the orchestrator and the
// analysis engine.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"dev.simplylaw.agent/internal/agents"
	"dev.simplylaw.agent/internal/conversation"
	"dev.simplylaw.agent/internal/debate"
	"dev.simplylaw.agent/internal/documents"
	"dev.simplylaw.agent/internal/llm"
	"dev.simplylaw.agent/internal/orchestrator"
)

// ChatRequest is a routed case request with optional documents.
type ChatRequest struct {
	Message   string               `json:"message" binding:"required"`
	Documents []documents.Document `json:"documents,omitempty"`
}

// AnalyzeRequest invokes the collaborative analysis path directly.
type AnalyzeRequest struct {
	Question      string               `json:"question" binding:"required"`
	Documents     []documents.Document `json:"documents,omitempty"`
	MaxIterations int                  `json:"max_iterations,omitempty"`
}

// DraftRequest asks the communication agent for a client-facing draft.
type DraftRequest struct {
	Message   string               `json:"message" binding:"required"`
	Documents []documents.Document `json:"documents,omitempty"`
}

// APIResponse is the uniform response envelope.
type APIResponse struct {
	Status string `json:"status"`
	Data   any    `json:"data,omitempty"`
	Error  string `json:"error,omitempty"`
}

// AnalysisHandler serves the case-analysis API.
type AnalysisHandler struct {
	orchestrator *orchestrator.Orchestrator
	engine       *debate.Engine
	store        *conversation.Store
	coms         agents.Adapter
	provider     llm.Provider
	log          *logrus.Logger
}

func NewAnalysisHandler(orch *orchestrator.Orchestrator, engine *debate.Engine, store *conversation.Store, coms agents.Adapter, provider llm.Provider, log *logrus.Logger) *AnalysisHandler {
	if log == nil {
		log = logrus.New()
	}
	return &AnalysisHandler{
		orchestrator: orch,
		engine:       engine,
		store:        store,
		coms:         coms,
		provider:     provider,
		log:          log,
	}
}

// Chat routes a request through intent classification and dispatch.
func (h *AnalysisHandler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{Status: "error", Error: "invalid request format"})
		return
	}

	result, err := h.orchestrator.Process(c.Request.Context(), req.Message, req.Documents)
	if err != nil {
		h.respondAnalysisError(c, err)
		return
	}

	c.JSON(http.StatusOK, APIResponse{Status: "success", Data: result})
}

// Analyze is the direct entry point for collaborative analysis.
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{Status: "error", Error: "invalid request format"})
		return
	}

	docContext := documents.BuildContext(req.Documents)

	result, err := h.engine.RunBounded(c.Request.Context(), req.Question, docContext, req.MaxIterations)
	if err != nil {
		h.respondAnalysisError(c, err)
		return
	}

	c.JSON(http.StatusOK, APIResponse{Status: "success", Data: result})
}

// DraftCommunication invokes the communication agent directly.
func (h *AnalysisHandler) DraftCommunication(c *gin.Context) {
	var req DraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{Status: "error", Error: "invalid request format"})
		return
	}

	draft, err := h.coms.Speak(c.Request.Context(), req.Message+"\n\n"+documents.BuildContext(req.Documents))
	if err != nil {
		h.respondAnalysisError(c, err)
		return
	}

	c.JSON(http.StatusOK, APIResponse{Status: "success", Data: gin.H{"draft": draft}})
}

// ExportConversation returns the audit dump of a finished conversation.
func (h *AnalysisHandler) ExportConversation(c *gin.Context) {
	dump, err := h.store.Export(c.Param("id"))
	if err != nil {
		var notFound *conversation.ErrNotFound
		if errors.As(err, &notFound) {
			c.JSON(http.StatusNotFound, APIResponse{Status: "error", Error: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, APIResponse{Status: "error", Error: err.Error()})
		return
	}
	c.Data(http.StatusOK, "application/json", dump)
}

// ListAgents describes the available agent roles.
func (h *AnalysisHandler) ListAgents(c *gin.Context) {
	c.JSON(http.StatusOK, APIResponse{
		Status: "success",
		Data: []gin.H{
			{"name": agents.RoleDocu, "description": "Logical, evidence-driven document analyst"},
			{"name": agents.RoleSherlock, "description": "Strategic, investigative case analyst"},
			{"name": agents.RoleComs, "description": "Client communication formatter"},
		},
	})
}

// Health reports service and provider health.
func (h *AnalysisHandler) Health(c *gin.Context) {
	status := "healthy"
	providerStatus := "ok"
	if err := h.provider.HealthCheck(); err != nil {
		status = "degraded"
		providerStatus = err.Error()
	}
	c.JSON(http.StatusOK, gin.H{
		"status":   status,
		"provider": providerStatus,
	})
}

// respondAnalysisError maps analysis failures to a clear "analysis could not
// be completed" response instead of a generic 500.
func (h *AnalysisHandler) respondAnalysisError(c *gin.Context, err error) {
	h.log.WithError(err).Error("analysis failed")

	var turnErr *debate.TurnError
	var genErr *llm.GenerationError
	if errors.As(err, &turnErr) || errors.As(err, &genErr) {
		c.JSON(http.StatusBadGateway, APIResponse{
			Status: "error",
			Error:  "analysis could not be completed: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusInternalServerError, APIResponse{Status: "error", Error: err.Error()})
}
