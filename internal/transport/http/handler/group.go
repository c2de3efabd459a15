package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"agenthub/internal/app"
	"agenthub/internal/transport/http/middleware"
	"agenthub/internal/transport/http/response"
)

type GroupHandler struct {
	authService  *app.AuthService
	agentService *app.AgentService
}

type CreateGroupRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description"`
}

type ShareAgentRequest struct {
	AgentID uint `json:"agent_id" binding:"required"`
}

func NewGroupHandler(authService *app.AuthService, agentService *app.AgentService) *GroupHandler {
	return &GroupHandler{authService: authService, agentService: agentService}
}

func (h *GroupHandler) Create(c *gin.Context) {
	var req CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	group, err := h.authService.CreateGroup(req.Name, req.Description)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrGroupExists):
			response.Error(c, http.StatusConflict, response.CodeConflict, err.Error())
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "create group failed")
		}
		return
	}
	response.Created(c, group)
}

// Join adds the current user to a group.
func (h *GroupHandler) Join(c *gin.Context) {
	user := middleware.UserFromContext(c)
	if user == nil {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "authentication required")
		return
	}
	groupID, err := parseUintParam(c, "id")
	if err != nil || groupID == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid group id")
		return
	}

	if err := h.authService.JoinGroup(user.ID, groupID); err != nil {
		switch {
		case errors.Is(err, app.ErrGroupNotFound):
			response.Error(c, http.StatusNotFound, response.CodeNotFound, err.Error())
		case errors.Is(err, app.ErrAlreadyInGroup):
			response.Error(c, http.StatusConflict, response.CodeConflict, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "join group failed")
		}
		return
	}
	response.OK(c, gin.H{"joined_group_id": groupID})
}

// ShareAgent exposes one of the caller's agents to a group.
func (h *GroupHandler) ShareAgent(c *gin.Context) {
	user := middleware.UserFromContext(c)
	if user == nil {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "authentication required")
		return
	}
	groupID, err := parseUintParam(c, "id")
	if err != nil || groupID == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid group id")
		return
	}
	var req ShareAgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	agent, err := h.agentService.GetAgentByIDAndOwner(req.AgentID, user.ID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "share agent failed")
		return
	}
	if agent == nil {
		// Not found and not owned look the same on purpose.
		response.Error(c, http.StatusNotFound, response.CodeNotFound, "agent not found")
		return
	}

	if err := h.authService.ShareAgent(agent.ID, groupID); err != nil {
		switch {
		case errors.Is(err, app.ErrGroupNotFound):
			response.Error(c, http.StatusNotFound, response.CodeNotFound, err.Error())
		case errors.Is(err, app.ErrAgentAlreadyShared):
			response.Error(c, http.StatusConflict, response.CodeConflict, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "share agent failed")
		}
		return
	}
	response.OK(c, gin.H{"shared_agent_id": agent.ID, "group_id": groupID})
}

// Mine lists the groups the current user belongs to.
func (h *GroupHandler) Mine(c *gin.Context) {
	user := middleware.UserFromContext(c)
	if user == nil {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "authentication required")
		return
	}
	groups, err := h.authService.GetUserGroups(user.ID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list groups failed")
		return
	}
	response.OK(c, groups)
}
