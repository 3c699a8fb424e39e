package controllers

import (
	"net/http"

	"fieldops-http-service/internal/domain/services"
	"fieldops-http-service/internal/domain/services/container"
	"fieldops-http-service/internal/error/code"
	"fieldops-http-service/internal/error/response"

	"github.com/gin-gonic/gin"
)

// InterfaceJWTController defines the authentication controller interface
type InterfaceJWTController interface {
	Login()
}

// JWTController handles authentication requests
type JWTController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewJWTController creates a new authentication controller
func NewJWTController(ctx *gin.Context, container *container.ServiceContainer) *JWTController {
	return &JWTController{
		Ctx:       ctx,
		Container: container,
	}
}

// LoginRequest represents a login request
type LoginRequest struct {
	Username string `json:"username" binding:"required" example:"tech1"`
	Password string `json:"password" binding:"required" example:"tech1pass"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Code    int         `json:"code" example:"401"`
	Message string      `json:"message" example:"Invalid username or password"`
	Data    interface{} `json:"data"`
}

// HandleJWTFunc returns a Gin handler for authentication requests
func HandleJWTFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewJWTController(ctx, container)

		switch method {
		case "login":
			controller.Login()
		default:
			ctx.JSON(http.StatusBadRequest, gin.H{
				"code":    400,
				"message": "invalid method",
				"data":    nil,
			})
		}
	}
}

// Login handles user login
// @Summary      User Login
// @Description  Validate credentials against the seeded user table and return a JWT carrying the role
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login request parameters"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  ErrorResponse  "Bad request"
// @Failure      401  {object}  ErrorResponse  "Unauthorized"
// @Router       /auth/login [post]
func (c *JWTController) Login() {
	var req LoginRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "Invalid request parameters")
		return
	}

	jwtService := c.Container.GetService("jwt").(services.InterfaceJWTService)

	result, err := jwtService.Login(req.Username, req.Password)
	if err != nil {
		response.Fail(c.Ctx, code.ErrUserPasswordIncorrect, nil)
		return
	}

	response.Success(c.Ctx, result)
}
