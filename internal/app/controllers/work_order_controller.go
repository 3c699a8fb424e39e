package controllers

import (
	"encoding/base64"
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

// InterfaceWorkOrderController defines the work order controller interface
type InterfaceWorkOrderController interface {
	CreateWorkOrder()
	GetWorkOrders()
	GetWorkOrder()
	UpdateWorkOrder()
}

// WorkOrderController handles work order requests
type WorkOrderController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewWorkOrderController creates a new work order controller
func NewWorkOrderController(ctx *gin.Context, container *container.ServiceContainer) *WorkOrderController {
	return &WorkOrderController{
		Ctx:       ctx,
		Container: container,
	}
}

// FacilityRequest is the facility payload nested in a work order creation.
// Images are base64 encoded.
type FacilityRequest struct {
	Type          string  `json:"type" binding:"required" example:"water_station"`
	Description   string  `json:"description" example:"Main pump house"`
	Governorate   string  `json:"governorate" example:"Aswan"`
	District      string  `json:"district" example:"Kom Ombo"`
	CityOrVillage string  `json:"city_or_village" example:"Al Raghama"`
	Lat           float64 `json:"lat" binding:"required" example:"24.476"`
	Lon           float64 `json:"lon" binding:"required" example:"32.943"`
	ExternalImage string  `json:"external_image"`
}

// CreateWorkOrderRequest creates a work order together with its facility
type CreateWorkOrderRequest struct {
	Facility        FacilityRequest `json:"facility" binding:"required"`
	MaintenanceType string          `json:"maintenance_type" binding:"required" example:"pump_replacement"`
	BeforeImage     string          `json:"before_image"`
	AfterImage      string          `json:"after_image"`
}

// UpdateWorkOrderRequest is a self-service edit while the window is open
type UpdateWorkOrderRequest struct {
	MaintenanceType *string `json:"maintenance_type" example:"pipe_repair"`
	BeforeImage     *string `json:"before_image"`
	AfterImage      *string `json:"after_image"`
}

// HandleWorkOrderFunc returns a Gin handler for work order requests
func HandleWorkOrderFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewWorkOrderController(ctx, container)

		switch method {
		case "createWorkOrder":
			controller.CreateWorkOrder()
		case "getWorkOrders":
			controller.GetWorkOrders()
		case "getWorkOrder":
			controller.GetWorkOrder()
		case "updateWorkOrder":
			controller.UpdateWorkOrder()
		default:
			ctx.JSON(http.StatusBadRequest, gin.H{
				"code":    400,
				"message": "invalid method",
				"data":    nil,
			})
		}
	}
}

// callerIdentity reads the identity the auth middleware stored.
func callerIdentity(ctx *gin.Context) (username, role string) {
	return ctx.GetString("username"), ctx.GetString("role")
}

// decodeImage decodes an optional base64 image field.
func decodeImage(field, value string) ([]byte, error) {
	if value == "" {
		return nil, nil
	}
	data, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return nil, errors.New("invalid base64 in " + field)
	}
	return data, nil
}

// CreateWorkOrder creates a work order with its facility
// @Summary      Create Work Order
// @Description  Create a facility and its work order in one step; the serial and edit window are assigned server side
// @Tags         WorkOrder
// @Accept       json
// @Produce      json
// @Param        request body CreateWorkOrderRequest true "Work order parameters"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  ErrorResponse  "Bad request"
// @Failure      409  {object}  ErrorResponse  "Serial conflict"
// @Router       /work-orders [post]
// @Security     BearerAuth
func (c *WorkOrderController) CreateWorkOrder() {
	var req CreateWorkOrderRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "Invalid request parameters: "+err.Error())
		return
	}

	externalImage, err := decodeImage("facility.external_image", req.Facility.ExternalImage)
	if err != nil {
		response.ParamError(c.Ctx, err.Error())
		return
	}
	beforeImage, err := decodeImage("before_image", req.BeforeImage)
	if err != nil {
		response.ParamError(c.Ctx, err.Error())
		return
	}
	afterImage, err := decodeImage("after_image", req.AfterImage)
	if err != nil {
		response.ParamError(c.Ctx, err.Error())
		return
	}

	username, _ := callerIdentity(c.Ctx)

	facility := &models.Facility{
		Type:          req.Facility.Type,
		Description:   req.Facility.Description,
		Governorate:   req.Facility.Governorate,
		District:      req.Facility.District,
		City:          req.Facility.CityOrVillage,
		Lat:           req.Facility.Lat,
		Lon:           req.Facility.Lon,
		ExternalImage: externalImage,
	}

	facilityService := c.Container.GetService("facility").(services.InterfaceFacilityService)
	facilityService.EnrichFacility(facility)

	order := &models.WorkOrder{
		MaintenanceType: req.MaintenanceType,
		BeforeImage:     beforeImage,
		AfterImage:      afterImage,
	}

	workOrderService := c.Container.GetService("work_order").(services.InterfaceWorkOrderService)
	if err := workOrderService.CreateWorkOrder(username, facility, order); err != nil {
		if errors.Is(err, services.ErrConstraintViolation) {
			response.Fail(c.Ctx, code.ErrSerialConflict, nil)
			return
		}
		logger.Error("create work order: %v", err)
		response.Fail(c.Ctx, code.ErrDatabase, nil)
		return
	}
	order.Facility = facility

	if notify, ok := c.Container.GetService("notify").(services.InterfaceNotifyService); ok && notify != nil {
		notify.PublishWorkOrderCreated(order)
	}
	middleware.PurgeCache()

	response.Success(c.Ctx, order)
}

// GetWorkOrders lists work orders visible to the caller
// @Summary      List Work Orders
// @Description  Technicians see their own work orders, admins see all, newest first
// @Tags         WorkOrder
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /work-orders [get]
// @Security     BearerAuth
func (c *WorkOrderController) GetWorkOrders() {
	username, role := callerIdentity(c.Ctx)

	workOrderService := c.Container.GetService("work_order").(services.InterfaceWorkOrderService)
	orders, err := workOrderService.ListWorkOrders(role, username)
	if err != nil {
		logger.Error("list work orders: %v", err)
		response.Fail(c.Ctx, code.ErrDatabase, nil)
		return
	}

	response.Success(c.Ctx, gin.H{
		"total": len(orders),
		"data":  orders,
	})
}

// GetWorkOrder fetches one work order
// @Summary      Get Work Order
// @Description  Fetch a work order with its facility by id
// @Tags         WorkOrder
// @Produce      json
// @Param        id path int true "Work order ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  ErrorResponse  "Not found"
// @Router       /work-orders/{id} [get]
// @Security     BearerAuth
func (c *WorkOrderController) GetWorkOrder() {
	id, err := strconv.ParseUint(c.Ctx.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c.Ctx, "Invalid work order ID")
		return
	}

	workOrderService := c.Container.GetService("work_order").(services.InterfaceWorkOrderService)
	order, err := workOrderService.GetWorkOrderByID(uint(id))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			response.Fail(c.Ctx, code.ErrWorkOrderNotFound, nil)
			return
		}
		logger.Error("get work order %d: %v", id, err)
		response.Fail(c.Ctx, code.ErrDatabase, nil)
		return
	}

	username, role := callerIdentity(c.Ctx)
	if role != models.RoleAdmin && order.Technician != username {
		response.Fail(c.Ctx, code.ErrNotOwner, nil)
		return
	}

	response.Success(c.Ctx, order)
}

// UpdateWorkOrder applies a self-service edit
// @Summary      Update Work Order
// @Description  Owner-only edit of maintenance type and images while the edit window is open
// @Tags         WorkOrder
// @Accept       json
// @Produce      json
// @Param        id path int true "Work order ID"
// @Param        request body UpdateWorkOrderRequest true "Fields to change"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  ErrorResponse  "Not owner"
// @Failure      409  {object}  ErrorResponse  "Edit window closed"
// @Router       /work-orders/{id} [put]
// @Security     BearerAuth
func (c *WorkOrderController) UpdateWorkOrder() {
	id, err := strconv.ParseUint(c.Ctx.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c.Ctx, "Invalid work order ID")
		return
	}

	var req UpdateWorkOrderRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "Invalid request parameters: "+err.Error())
		return
	}

	changes := services.SelfEdit{
		MaintenanceType: req.MaintenanceType,
	}
	if req.BeforeImage != nil {
		data, err := decodeImage("before_image", *req.BeforeImage)
		if err != nil {
			response.ParamError(c.Ctx, err.Error())
			return
		}
		changes.BeforeImage = data
	}
	if req.AfterImage != nil {
		data, err := decodeImage("after_image", *req.AfterImage)
		if err != nil {
			response.ParamError(c.Ctx, err.Error())
			return
		}
		changes.AfterImage = data
	}

	username, _ := callerIdentity(c.Ctx)

	workOrderService := c.Container.GetService("work_order").(services.InterfaceWorkOrderService)
	order, err := workOrderService.UpdateOwnWorkOrder(uint(id), username, changes)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			response.Fail(c.Ctx, code.ErrWorkOrderNotFound, nil)
		case errors.Is(err, services.ErrNotOwner):
			response.Fail(c.Ctx, code.ErrNotOwner, nil)
		case errors.Is(err, services.ErrInvalidState):
			response.Fail(c.Ctx, code.ErrEditWindowClosed, nil)
		default:
			logger.Error("update work order %d: %v", id, err)
			response.Fail(c.Ctx, code.ErrDatabase, nil)
		}
		return
	}

	middleware.PurgeCache()
	response.Success(c.Ctx, order)
}
