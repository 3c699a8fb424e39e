package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"fieldops-http-service/internal/app/middleware"
	"fieldops-http-service/internal/domain/models"
	"fieldops-http-service/internal/domain/services"
	"fieldops-http-service/internal/domain/services/container"
	"fieldops-http-service/internal/error/code"
	"fieldops-http-service/internal/error/response"
	"fieldops-http-service/pkg/logger"

	"github.com/gin-gonic/gin"
)

// InterfaceEditRequestController defines the edit request controller interface
type InterfaceEditRequestController interface {
	SubmitEditRequest()
	GetEditRequests()
	ApproveEditRequest()
	RejectEditRequest()
}

// EditRequestController handles edit request arbitration endpoints
type EditRequestController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewEditRequestController creates a new edit request controller
func NewEditRequestController(ctx *gin.Context, container *container.ServiceContainer) *EditRequestController {
	return &EditRequestController{
		Ctx:       ctx,
		Container: container,
	}
}

// SubmitEditRequestRequest proposes a single-field change to a work order
type SubmitEditRequestRequest struct {
	FieldName     string `json:"field_name" binding:"required" example:"status"`
	ProposedValue string `json:"proposed_value" binding:"required" example:"Locked"`
	Reason        string `json:"reason" example:"Work verified on site"`
}

// HandleEditRequestFunc returns a Gin handler for edit request endpoints
func HandleEditRequestFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewEditRequestController(ctx, container)

		switch method {
		case "submitEditRequest":
			controller.SubmitEditRequest()
		case "getEditRequests":
			controller.GetEditRequests()
		case "approveEditRequest":
			controller.ApproveEditRequest()
		case "rejectEditRequest":
			controller.RejectEditRequest()
		default:
			ctx.JSON(http.StatusBadRequest, gin.H{
				"code":    400,
				"message": "invalid method",
				"data":    nil,
			})
		}
	}
}

// SubmitEditRequest files a pending edit request against a work order
// @Summary      Submit Edit Request
// @Description  Propose a single-field change to a work order; an admin reviews it later
// @Tags         EditRequest
// @Accept       json
// @Produce      json
// @Param        id path int true "Work order ID"
// @Param        request body SubmitEditRequestRequest true "Proposed change"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  ErrorResponse  "Work order not found"
// @Router       /work-orders/{id}/edit-requests [post]
// @Security     BearerAuth
func (c *EditRequestController) SubmitEditRequest() {
	workOrderID, err := strconv.ParseUint(c.Ctx.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c.Ctx, "Invalid work order ID")
		return
	}

	var req SubmitEditRequestRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "Invalid request parameters: "+err.Error())
		return
	}

	username, _ := callerIdentity(c.Ctx)

	editRequestService := c.Container.GetService("edit_request").(services.InterfaceEditRequestService)
	request, err := editRequestService.Submit(uint(workOrderID), req.FieldName, req.ProposedValue, req.Reason, username)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			response.Fail(c.Ctx, code.ErrWorkOrderNotFound, nil)
			return
		}
		logger.Error("submit edit request: %v", err)
		response.Fail(c.Ctx, code.ErrDatabase, nil)
		return
	}

	if notify, ok := c.Container.GetService("notify").(services.InterfaceNotifyService); ok && notify != nil {
		notify.PublishEditRequestCreated(request)
	}
	middleware.PurgeCache()

	response.Success(c.Ctx, request)
}

// GetEditRequests lists edit requests for review
// @Summary      List Edit Requests
// @Description  List edit requests joined with their parent work order, optionally filtered by status, newest first
// @Tags         EditRequest
// @Produce      json
// @Param        status query string false "Filter by status: Pending, Approved, Rejected"
// @Success      200  {object}  response.Response
// @Router       /edit-requests [get]
// @Security     BearerAuth
func (c *EditRequestController) GetEditRequests() {
	statusFilter := c.Ctx.Query("status")

	editRequestService := c.Container.GetService("edit_request").(services.InterfaceEditRequestService)
	requests, err := editRequestService.ListEditRequests(statusFilter)
	if err != nil {
		logger.Error("list edit requests: %v", err)
		response.Fail(c.Ctx, code.ErrDatabase, nil)
		return
	}

	response.Success(c.Ctx, gin.H{
		"total": len(requests),
		"data":  requests,
	})
}

// ApproveEditRequest approves a pending edit request
// @Summary      Approve Edit Request
// @Description  Approve a pending request and apply the proposed value to the work order when the field is allow-listed
// @Tags         EditRequest
// @Produce      json
// @Param        id path int true "Edit request ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  ErrorResponse  "Edit request not found"
// @Failure      409  {object}  ErrorResponse  "Already reviewed"
// @Router       /edit-requests/{id}/approve [post]
// @Security     BearerAuth
func (c *EditRequestController) ApproveEditRequest() {
	c.review(true)
}

// RejectEditRequest rejects a pending edit request
// @Summary      Reject Edit Request
// @Description  Reject a pending request without touching the work order
// @Tags         EditRequest
// @Produce      json
// @Param        id path int true "Edit request ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  ErrorResponse  "Edit request not found"
// @Failure      409  {object}  ErrorResponse  "Already reviewed"
// @Router       /edit-requests/{id}/reject [post]
// @Security     BearerAuth
func (c *EditRequestController) RejectEditRequest() {
	c.review(false)
}

func (c *EditRequestController) review(approve bool) {
	id, err := strconv.ParseUint(c.Ctx.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c.Ctx, "Invalid edit request ID")
		return
	}

	username, _ := callerIdentity(c.Ctx)

	editRequestService := c.Container.GetService("edit_request").(services.InterfaceEditRequestService)

	var reviewed *models.EditRequest
	if approve {
		reviewed, err = editRequestService.Approve(uint(id), username)
	} else {
		reviewed, err = editRequestService.Reject(uint(id), username)
	}
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			response.Fail(c.Ctx, code.ErrEditRequestNotFound, nil)
		case errors.Is(err, services.ErrInvalidState):
			response.Fail(c.Ctx, code.ErrEditRequestFinalized, nil)
		default:
			logger.Error("review edit request %d: %v", id, err)
			response.Fail(c.Ctx, code.ErrDatabase, nil)
		}
		return
	}

	if notify, ok := c.Container.GetService("notify").(services.InterfaceNotifyService); ok && notify != nil {
		notify.PublishEditRequestReviewed(reviewed)
	}
	middleware.PurgeCache()
	response.Success(c.Ctx, reviewed)
}
