package handler

import (
	"errors"
	"net/http"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"agenthub/internal/app"
	"agenthub/internal/transport/http/response"
)

const (
	categoryNameMinLen = 5
	categoryNameMaxLen = 100
)

type CategoryHandler struct {
	categoryService *app.CategoryService
}

type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type UpdateCategoryRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

func NewCategoryHandler(categoryService *app.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// validateCategoryName applies the boundary rules: 5-100 chars after trim,
// letters/digits/space/hyphen/apostrophe only.
func validateCategoryName(name string) error {
	name = strings.TrimSpace(name)
	if n := utf8.RuneCountInString(name); n < categoryNameMinLen || n > categoryNameMaxLen {
		return errors.New("category name must be between 5 and 100 characters")
	}
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' || r == '\'' {
			continue
		}
		return errors.New("category name may only contain letters, digits, spaces, hyphens and apostrophes")
	}
	return nil
}

func (h *CategoryHandler) Create(c *gin.Context) {
	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}
	if err := validateCategoryName(req.Name); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		return
	}

	category, err := h.categoryService.CreateCategory(req.Name, req.Description)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrCategoryExists):
			response.Error(c, http.StatusConflict, response.CodeConflict, err.Error())
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "create category failed")
		}
		return
	}
	response.Created(c, category)
}

func (h *CategoryHandler) List(c *gin.Context) {
	categories, err := h.categoryService.GetAllCategories()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list categories failed")
		return
	}
	response.OK(c, categories)
}

func (h *CategoryHandler) Get(c *gin.Context) {
	categoryID, err := parseUintParam(c, "id")
	if err != nil || categoryID == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid category id")
		return
	}

	category, err := h.categoryService.GetCategoryByID(categoryID)
	if err != nil {
		if errors.Is(err, app.ErrCategoryNotFound) {
			response.Error(c, http.StatusNotFound, response.CodeNotFound, err.Error())
		} else {
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "get category failed")
		}
		return
	}
	response.OK(c, category)
}

func (h *CategoryHandler) Update(c *gin.Context) {
	categoryID, err := parseUintParam(c, "id")
	if err != nil || categoryID == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid category id")
		return
	}

	var req UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}
	if req.Name != nil {
		if err := validateCategoryName(*req.Name); err != nil {
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
			return
		}
	}

	category, err := h.categoryService.UpdateCategory(c.Request.Context(), categoryID, app.UpdateCategoryInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrCategoryNotFound):
			response.Error(c, http.StatusNotFound, response.CodeNotFound, err.Error())
		case errors.Is(err, app.ErrCategoryExists):
			response.Error(c, http.StatusConflict, response.CodeConflict, err.Error())
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "update category failed")
		}
		return
	}
	response.OK(c, category)
}

func (h *CategoryHandler) Delete(c *gin.Context) {
	categoryID, err := parseUintParam(c, "id")
	if err != nil || categoryID == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid category id")
		return
	}

	deleted, err := h.categoryService.DeleteCategory(c.Request.Context(), categoryID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "delete category failed")
		return
	}
	if !deleted {
		response.Error(c, http.StatusNotFound, response.CodeNotFound, "category not found")
		return
	}
	response.OK(c, gin.H{"deleted_category_id": categoryID})
}
