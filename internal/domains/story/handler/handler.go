package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"storyshare-backend/internal/domains/story/model"
	"storyshare-backend/internal/domains/story/service"
	"storyshare-backend/internal/shared/middleware"
	"storyshare-backend/internal/shared/response"
	"storyshare-backend/pkg/logger"
)

// publicListingPath is where non-owners get redirected when they try to
// touch someone else's story. Fail closed, but unobtrusively: no error
// page, just back to the neutral public listing (the source app's policy).
const publicListingPath = "/api/v1/stories"

// =====================================================
// STORY HANDLER
// =====================================================

type StoryHandler struct {
	storyService service.ServiceInterface
}

func NewStoryHandler(storyService service.ServiceInterface) *StoryHandler {
	return &StoryHandler{
		storyService: storyService,
	}
}

// renderError maps a service error to exactly one HTTP outcome.
// Each handler returns immediately after calling it - there is no
// render-404-then-fall-through-to-success path here.
func (h *StoryHandler) renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrStoryNotFound):
		response.NotFound(c, "Story not found")
	case errors.Is(err, model.ErrNotStoryOwner):
		// Redirect-to-list semantics, not an error page
		c.Redirect(http.StatusSeeOther, publicListingPath)
	default:
		var storyErr *model.StoryError
		if errors.As(err, &storyErr) {
			response.ErrorResponse(c, http.StatusBadRequest, storyErr.Code, storyErr.Message)
			return
		}

		// Validation errors from ozzo arrive as plain errors
		if isValidationError(err) {
			response.ErrorResponse(c, http.StatusBadRequest, model.ErrCodeValidation, err.Error())
			return
		}

		// Infrastructure failure: log for operators, hide detail
		logger.Error("story operation failed", err)
		response.InternalServerError(c, "Something went wrong")
	}
}

// CreateStory creates new story
// POST /api/v1/stories
func (h *StoryHandler) CreateStory(c *gin.Context) {
	// Step 1: Acting identity from the auth middleware
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	// Step 2: Bind request body
	var req model.CreateStoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	// Step 3: Validate request
	if err := req.Validate(); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, model.ErrCodeValidation, err.Error())
		return
	}

	// Step 4: Call service
	story, err := h.storyService.CreateStory(c.Request.Context(), userID, req)
	if err != nil {
		h.renderError(c, err)
		return
	}

	// Step 5: Return success
	response.Success(c, http.StatusCreated, story)
}

// ListPublicStories lists all public stories
// GET /api/v1/stories
func (h *StoryHandler) ListPublicStories(c *gin.Context) {
	list, err := h.storyService.ListPublicStories(c.Request.Context())
	if err != nil {
		h.renderError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, list.Stories, &response.Meta{Total: list.Total})
}

// ListMyStories lists the caller's own stories, private included
// GET /api/v1/stories/me
func (h *StoryHandler) ListMyStories(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	list, err := h.storyService.ListMyStories(c.Request.Context(), userID)
	if err != nil {
		h.renderError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, list.Stories, &response.Meta{Total: list.Total})
}

// ListStoriesByAuthor lists one user's public stories
// GET /api/v1/stories/user/:id
func (h *StoryHandler) ListStoriesByAuthor(c *gin.Context) {
	authorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid user ID")
		return
	}

	// An empty list is a normal outcome, not a 404
	list, err := h.storyService.ListStoriesByAuthor(c.Request.Context(), authorID)
	if err != nil {
		h.renderError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, list.Stories, &response.Meta{Total: list.Total})
}

// GetStory gets a single story by id
// GET /api/v1/stories/:id
func (h *StoryHandler) GetStory(c *gin.Context) {
	storyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid story ID")
		return
	}

	story, err := h.storyService.GetStory(c.Request.Context(), storyID)
	if err != nil {
		h.renderError(c, err)
		return
	}

	response.Success(c, http.StatusOK, story)
}

// GetStoryForEdit gets a story for the edit form; owner only
// GET /api/v1/stories/:id/edit
func (h *StoryHandler) GetStoryForEdit(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	storyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid story ID")
		return
	}

	story, err := h.storyService.GetStoryForEdit(c.Request.Context(), userID, storyID)
	if err != nil {
		h.renderError(c, err)
		return
	}

	response.Success(c, http.StatusOK, story)
}

// UpdateStory replaces a story's title/body/status; owner only
// PUT /api/v1/stories/:id
func (h *StoryHandler) UpdateStory(c *gin.Context) {
	// Step 1: Acting identity
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	// Step 2: Parse story ID
	storyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid story ID")
		return
	}

	// Step 3: Bind request body
	var req model.UpdateStoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	// Step 4: Validate request
	if err := req.Validate(); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, model.ErrCodeValidation, err.Error())
		return
	}

	// Step 5: Call service
	story, err := h.storyService.UpdateStory(c.Request.Context(), userID, storyID, req)
	if err != nil {
		h.renderError(c, err)
		return
	}

	// Step 6: Return success
	response.Success(c, http.StatusOK, story)
}

// DeleteStory permanently removes a story; owner only
// DELETE /api/v1/stories/:id
func (h *StoryHandler) DeleteStory(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	storyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid story ID")
		return
	}

	if err := h.storyService.DeleteStory(c.Request.Context(), userID, storyID); err != nil {
		h.renderError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message": "Story deleted successfully",
	})
}

// isValidationError distinguishes ozzo validation errors from
// infrastructure failures.
func isValidationError(err error) bool {
	var errs validation.Errors
	if errors.As(err, &errs) {
		return true
	}

	var obj validation.ErrorObject
	return errors.As(err, &obj)
}
