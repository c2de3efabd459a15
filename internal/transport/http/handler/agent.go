package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"agenthub/internal/app"
	"agenthub/internal/transport/http/middleware"
	"agenthub/internal/transport/http/response"
)

type AgentHandler struct {
	agentService *app.AgentService
}

type CreateAgentRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description"`
	Prompt      string `json:"prompt" binding:"required"`
	Provider    string `json:"provider"`
	IsPublic    bool   `json:"is_public"`
	Categories  []uint `json:"categories"`
}

type UpdateAgentRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Prompt      *string `json:"prompt"`
	Provider    *string `json:"provider"`
	IsPublic    *bool   `json:"is_public"`
	Categories  *[]uint `json:"categories"`
}

func NewAgentHandler(agentService *app.AgentService) *AgentHandler {
	return &AgentHandler{agentService: agentService}
}

func (h *AgentHandler) Create(c *gin.Context) {
	user := middleware.UserFromContext(c)
	if user == nil {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "authentication required")
		return
	}

	var req CreateAgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	// Boundary rule: a public agent must launch with at least one category.
	if req.IsPublic && len(req.Categories) == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "public agents require at least one category")
		return
	}

	agent, err := h.agentService.CreateAgent(c.Request.Context(), app.CreateAgentInput{
		OwnerID:     user.ID,
		Name:        req.Name,
		Description: req.Description,
		Prompt:      req.Prompt,
		Provider:    req.Provider,
		IsPublic:    req.IsPublic,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		case errors.Is(err, app.ErrAgentNameExists):
			response.Error(c, http.StatusConflict, response.CodeConflict, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "create agent failed")
		}
		return
	}

	if err := h.agentService.AssignCategories(c.Request.Context(), agent.ID, req.Categories); err != nil {
		if errors.Is(err, app.ErrInvalidInput) {
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "unknown category id")
		} else {
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "assign categories failed")
		}
		return
	}

	response.Created(c, agent)
}

// ListOwn returns every agent the caller owns, public and private.
func (h *AgentHandler) ListOwn(c *gin.Context) {
	user := middleware.UserFromContext(c)
	if user == nil {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "authentication required")
		return
	}
	agents, err := h.agentService.GetAgentsByOwner(user.ID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list agents failed")
		return
	}
	response.OK(c, agents)
}

func (h *AgentHandler) ListPrivate(c *gin.Context) {
	user := middleware.UserFromContext(c)
	if user == nil {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "authentication required")
		return
	}
	agents, err := h.agentService.GetPrivateAgents(user.ID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list private agents failed")
		return
	}
	response.OK(c, agents)
}

func (h *AgentHandler) ListPublic(c *gin.Context) {
	categoryID := parseUintQuery(c, "category_id")
	limit := parseIntQuery(c, "limit")
	offset := parseIntQuery(c, "offset")

	agents, err := h.agentService.GetPublicAgents(c.Request.Context(), categoryID, limit, offset)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list public agents failed")
		return
	}
	response.OK(c, agents)
}

// ListUserPublic returns another user's public agents.
func (h *AgentHandler) ListUserPublic(c *gin.Context) {
	userID, err := parseUintParam(c, "id")
	if err != nil || userID == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid user id")
		return
	}
	agents, err := h.agentService.GetPublicAgentsByUser(userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list public agents failed")
		return
	}
	response.OK(c, agents)
}

func (h *AgentHandler) Get(c *gin.Context) {
	user := middleware.UserFromContext(c)
	if user == nil {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "authentication required")
		return
	}
	agentID, err := parseUintParam(c, "id")
	if err != nil || agentID == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid agent id")
		return
	}

	agent, err := h.agentService.GetAgentByID(agentID, user.ID)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrAgentNotFound):
			response.Error(c, http.StatusNotFound, response.CodeNotFound, err.Error())
		case errors.Is(err, app.ErrForbidden):
			response.Error(c, http.StatusForbidden, response.CodeForbidden, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "get agent failed")
		}
		return
	}
	response.OK(c, agent)
}

func (h *AgentHandler) Update(c *gin.Context) {
	user := middleware.UserFromContext(c)
	if user == nil {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "authentication required")
		return
	}
	agentID, err := parseUintParam(c, "id")
	if err != nil || agentID == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid agent id")
		return
	}

	var req UpdateAgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	agent, err := h.agentService.UpdateAgent(c.Request.Context(), agentID, user.ID, app.UpdateAgentInput{
		Name:        req.Name,
		Description: req.Description,
		Prompt:      req.Prompt,
		Provider:    req.Provider,
		IsPublic:    req.IsPublic,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrAgentNotFound):
			// Same shape whether the id is missing or owned by someone else.
			response.Error(c, http.StatusNotFound, response.CodeNotFound, err.Error())
		case errors.Is(err, app.ErrAgentNameExists):
			response.Error(c, http.StatusConflict, response.CodeConflict, err.Error())
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "update agent failed")
		}
		return
	}

	// Category reassignment happens only when the agent ends up public and
	// the payload supplied a category list.
	if agent.IsPublic && req.Categories != nil {
		if err := h.agentService.ReplaceCategories(c.Request.Context(), agent.ID, *req.Categories); err != nil {
			if errors.Is(err, app.ErrInvalidInput) {
				response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "unknown category id")
			} else {
				response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "reassign categories failed")
			}
			return
		}
	}

	response.OK(c, agent)
}

func (h *AgentHandler) Delete(c *gin.Context) {
	user := middleware.UserFromContext(c)
	if user == nil {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "authentication required")
		return
	}
	agentID, err := parseUintParam(c, "id")
	if err != nil || agentID == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid agent id")
		return
	}

	deleted, err := h.agentService.DeleteAgent(c.Request.Context(), agentID, user.ID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "delete agent failed")
		return
	}
	if !deleted {
		response.Error(c, http.StatusNotFound, response.CodeNotFound, "agent not found")
		return
	}
	response.OK(c, gin.H{"deleted_agent_id": agentID})
}

func parseUintParam(c *gin.Context, key string) (uint, error) {
	u, err := strconv.ParseUint(c.Param(key), 10, 64)
	return uint(u), err
}

func parseUintQuery(c *gin.Context, key string) uint {
	s := c.Query(key)
	if s == "" {
		return 0
	}
	u, _ := strconv.ParseUint(s, 10, 64)
	return uint(u)
}

func parseIntQuery(c *gin.Context, key string) int {
	s := c.Query(key)
	if s == "" {
		return 0
	}
	n, _ := strconv.Atoi(s)
	return n
}
