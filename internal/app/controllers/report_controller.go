package controllers

import (
	"net/http"

	"fieldops-http-service/internal/domain/services"
	"fieldops-http-service/internal/domain/services/container"
	"fieldops-http-service/internal/error/code"
	"fieldops-http-service/internal/error/response"
	"fieldops-http-service/pkg/logger"

	"github.com/gin-gonic/gin"
)

// InterfaceReportController defines the reporting controller interface
type InterfaceReportController interface {
	GetDashboard()
	GetLocationOptions()
	FilterWorkOrders()
}

// ReportController handles dashboard and filtered listing endpoints
type ReportController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewReportController creates a new report controller
func NewReportController(ctx *gin.Context, container *container.ServiceContainer) *ReportController {
	return &ReportController{
		Ctx:       ctx,
		Container: container,
	}
}

// HandleReportFunc returns a Gin handler for reporting endpoints
func HandleReportFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewReportController(ctx, container)

		switch method {
		case "getDashboard":
			controller.GetDashboard()
		case "getLocationOptions":
			controller.GetLocationOptions()
		case "filterWorkOrders":
			controller.FilterWorkOrders()
		default:
			ctx.JSON(http.StatusBadRequest, gin.H{
				"code":    400,
				"message": "invalid method",
				"data":    nil,
			})
		}
	}
}

// GetDashboard returns the dashboard counters
// @Summary      Dashboard Stats
// @Description  Work order and pending edit request counters for the admin dashboard
// @Tags         Report
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /reports/dashboard [get]
// @Security     BearerAuth
func (c *ReportController) GetDashboard() {
	reportService := c.Container.GetService("report").(services.InterfaceReportService)
	stats, err := reportService.GetDashboardStats()
	if err != nil {
		logger.Error("dashboard stats: %v", err)
		response.Fail(c.Ctx, code.ErrDatabase, nil)
		return
	}

	response.Success(c.Ctx, stats)
}

// GetLocationOptions returns the cascading location filter choices
// @Summary      Location Filter Options
// @Description  Governorate, district and city choices given the selections above them; "All" means unrestricted
// @Tags         Report
// @Produce      json
// @Param        governorate query string false "Selected governorate"
// @Param        district query string false "Selected district"
// @Success      200  {object}  response.Response
// @Router       /reports/locations [get]
// @Security     BearerAuth
func (c *ReportController) GetLocationOptions() {
	governorate := c.Ctx.Query("governorate")
	district := c.Ctx.Query("district")

	reportService := c.Container.GetService("report").(services.InterfaceReportService)
	options, err := reportService.GetLocationOptions(governorate, district)
	if err != nil {
		logger.Error("location options: %v", err)
		response.Fail(c.Ctx, code.ErrDatabase, nil)
		return
	}

	response.Success(c.Ctx, options)
}

// FilterWorkOrders lists work orders by facility location
// @Summary      Filter Work Orders
// @Description  List all work orders whose facility matches the location filter, newest first
// @Tags         Report
// @Produce      json
// @Param        governorate query string false "Governorate or All"
// @Param        district query string false "District or All"
// @Param        city query string false "City or village or All"
// @Success      200  {object}  response.Response
// @Router       /reports/work-orders [get]
// @Security     BearerAuth
func (c *ReportController) FilterWorkOrders() {
	filter := services.LocationFilter{
		Governorate: c.Ctx.Query("governorate"),
		District:    c.Ctx.Query("district"),
		City:        c.Ctx.Query("city"),
	}

	reportService := c.Container.GetService("report").(services.InterfaceReportService)
	orders, err := reportService.FilterWorkOrders(filter)
	if err != nil {
		logger.Error("filter work orders: %v", err)
		response.Fail(c.Ctx, code.ErrDatabase, nil)
		return
	}

	response.Success(c.Ctx, gin.H{
		"total": len(orders),
		"data":  orders,
	})
}
