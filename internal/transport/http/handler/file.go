package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"agenthub/internal/app"
	"agenthub/internal/transport/http/middleware"
	"agenthub/internal/transport/http/response"
)

const maxUploadSize = 20 << 20 // 20 MB

type FileHandler struct {
	fileService *app.FileService
}

func NewFileHandler(fileService *app.FileService) *FileHandler {
	return &FileHandler{fileService: fileService}
}

// Upload accepts a multipart form with "file" and an agent_id query param.
func (h *FileHandler) Upload(c *gin.Context) {
	user := middleware.UserFromContext(c)
	if user == nil {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "authentication required")
		return
	}

	agentID := parseUintQuery(c, "agent_id")
	if agentID == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid agent id")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "missing file")
		return
	}
	if fileHeader.Size > maxUploadSize {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "file too large (max 20MB)")
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "read upload failed")
		return
	}
	defer f.Close()

	file, err := h.fileService.SaveFile(c.Request.Context(), app.SaveFileInput{
		AgentID:     agentID,
		UserID:      user.ID,
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
		Content:     f,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrForbidden):
			response.Error(c, http.StatusForbidden, response.CodeForbidden, "not authorized to upload files for this agent")
		case errors.Is(err, app.ErrUnsupportedFileType):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		case errors.Is(err, app.ErrFileExists):
			response.Error(c, http.StatusConflict, response.CodeConflict, err.Error())
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "file upload failed")
		}
		return
	}

	response.Created(c, gin.H{
		"message": "file uploaded successfully",
		"file":    file,
	})
}

func (h *FileHandler) List(c *gin.Context) {
	user := middleware.UserFromContext(c)
	if user == nil {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "authentication required")
		return
	}

	agentID := parseUintQuery(c, "agent_id")
	if agentID == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid agent id")
		return
	}

	files, err := h.fileService.GetFiles(agentID, user.ID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list files failed")
		return
	}
	if files == nil {
		response.Error(c, http.StatusForbidden, response.CodeForbidden, "not authorized to list files for this agent")
		return
	}
	response.OK(c, files)
}
