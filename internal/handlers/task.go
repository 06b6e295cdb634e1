package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/yukikurage/student-planner-api/internal/constants"
	"github.com/yukikurage/student-planner-api/internal/dto"
	apierrors "github.com/yukikurage/student-planner-api/internal/errors"
	"github.com/yukikurage/student-planner-api/internal/middleware"
	"github.com/yukikurage/student-planner-api/internal/services"
	"github.com/yukikurage/student-planner-api/internal/utils"
)

type TaskHandler struct {
	taskService *services.TaskService
	logger      *log.Logger
}

func NewTaskHandler(taskService *services.TaskService, logger *log.Logger) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		logger:      logger,
	}
}

// ListTasks returns every task owned by the current user as a bare array.
// status, page and limit are optional filters.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	input := services.ListTasksInput{
		OwnerID:    userID,
		Pagination: utils.GetPaginationParams(c),
	}
	if status, ok := c.GetQuery("status"); ok && status != "" {
		input.Status = &status
	}

	tasks, total, err := h.taskService.ListTasks(c.Request.Context(), input)
	if err != nil {
		h.respondTaskError(c, err)
		return
	}

	c.Header(constants.TotalCountHeader, strconv.FormatInt(total, 10))
	c.JSON(http.StatusOK, dto.ToTaskDTOs(tasks))
}

// GetTask returns a specific task by ID
func (h *TaskHandler) GetTask(c *gin.Context) {
	userID, taskID, ok := h.taskScope(c)
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(c.Request.Context(), taskID, userID)
	if err != nil {
		h.respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.TaskEnvelope{Task: dto.ToTaskDTO(*task)})
}

// CreateTask creates a new task
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateTaskRequest struct {
		Title       string  `json:"title"`
		Description *string `json:"description"`
		Desc        *string `json:"desc"`
		Status      string  `json:"status"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	description := req.Description
	if description == nil {
		description = req.Desc
	}
	input := services.CreateTaskInput{
		Title:   req.Title,
		Status:  req.Status,
		OwnerID: userID,
	}
	if description != nil {
		input.Description = *description
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), input)
	if err != nil {
		h.respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.TaskEnvelope{
		Message: "Task created successfully",
		Task:    dto.ToTaskDTO(*task),
	})
}

// UpdateTask applies a partial update. Serves both PUT and PATCH.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID, taskID, ok := h.taskScope(c)
	if !ok {
		return
	}

	type UpdateTaskRequest struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		Desc        *string `json:"desc"`
		Status      *string `json:"status"`
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input := services.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
	}
	if input.Description == nil {
		input.Description = req.Desc
	}

	task, err := h.taskService.UpdateTask(c.Request.Context(), taskID, userID, input)
	if err != nil {
		h.respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.TaskEnvelope{
		Message: "Task updated successfully",
		Task:    dto.ToTaskDTO(*task),
	})
}

// DeleteTask deletes a task and echoes its id
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, taskID, ok := h.taskScope(c)
	if !ok {
		return
	}

	id, err := h.taskService.DeleteTask(c.Request.Context(), taskID, userID)
	if err != nil {
		h.respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.DeleteTaskResponse{Success: true, ID: id})
}

// TaskStats returns per-column counts for the current user
func (h *TaskHandler) TaskStats(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	counts, err := h.taskService.TaskStats(c.Request.Context(), userID)
	if err != nil {
		h.respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskStatsDTO(counts))
}

// GenerateTasks generates task suggestions from text using AI
func (h *TaskHandler) GenerateTasks(c *gin.Context) {
	if _, exists := middleware.GetUserID(c); !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type GenerateTasksRequest struct {
		Text string `json:"text" binding:"required"`
	}

	var req GenerateTasksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	generatedTasks, err := h.taskService.GenerateTasks(c.Request.Context(), req.Text)
	if err != nil {
		h.respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks": generatedTasks,
	})
}

func (h *TaskHandler) taskScope(c *gin.Context) (userID, taskID string, ok bool) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return "", "", false
	}
	taskID, exists = middleware.GetTaskID(c)
	if !exists {
		apierrors.BadRequest(c, "Invalid task ID")
		return "", "", false
	}
	return userID, taskID, true
}

// respondTaskError maps service errors to responses. Missing and foreign
// tasks are logged under different reasons.
func (h *TaskHandler) respondTaskError(c *gin.Context, err error) {
	entry := h.logger.WithFields(log.Fields{
		"method": c.Request.Method,
		"path":   c.Request.URL.Path,
	})
	if userID, ok := middleware.GetUserID(c); ok {
		entry = entry.WithField("user_id", userID)
	}

	switch {
	case errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrTitleEmpty):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrTaskNotFound):
		entry.WithField("reason", "not_found").Info("task lookup failed")
		apierrors.NotFound(c, "Task not found")
	case errors.Is(err, services.ErrTaskForbidden):
		entry.WithField("reason", "not_owner").Warn("task access denied")
		apierrors.Forbidden(c, "You do not have access to this task")
	case errors.Is(err, services.ErrAIServiceNotConfigured):
		apierrors.ServiceUnavailable(c, "AI service is not configured. Please set OPENAI_API_KEY environment variable.")
	case errors.Is(err, services.ErrAINoTasksGenerated),
		errors.Is(err, services.ErrAINoValidTasks):
		apierrors.BadRequest(c, err.Error())
	default:
		entry.WithError(err).Error("task request failed")
		apierrors.InternalError(c, "Internal server error")
	}
}
