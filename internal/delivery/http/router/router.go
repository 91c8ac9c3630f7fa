// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"pethub/internal/delivery/http/middleware"
	"pethub/internal/delivery/http/router/handler"
	"pethub/internal/domain/entity"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AccountHandler      *handler.AccountHandler
	AdminHandler        *handler.AdminHandler
	AuthMiddleware      *middleware.AuthMiddleware
	RateLimitMiddleware *middleware.RateLimitMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	accountHandler *handler.AccountHandler
	adminHandler   *handler.AdminHandler
	authMW         *middleware.AuthMiddleware
	rateLimitMW    *middleware.RateLimitMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		accountHandler: params.AccountHandler,
		adminHandler:   params.AdminHandler,
		authMW:         params.AuthMiddleware,
		rateLimitMW:    params.RateLimitMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
// Every route except /health requires a verified credential; the further
// gates (registration, approval, role) vary per group.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Auth routes: mutating endpoints, throttled per caller.
	authGroup := e.Group("/auth")
	authGroup.Use(r.authMW.Authenticate)
	authGroup.Use(r.rateLimitMW.Throttle)
	{
		authGroup.POST("/register", r.accountHandler.Register)
		// Upgrade requests need a registered account but not an approved
		// role: a pending vet may not re-request, which the lifecycle
		// manager enforces, but a rejected owner may try again.
		authGroup.POST("/request-role", r.accountHandler.RequestRole, r.authMW.LoadUser)
		authGroup.POST("/refresh-session", r.accountHandler.RefreshSession, r.authMW.LoadUser)
	}

	// User routes: session reads.
	userGroup := e.Group("/user")
	userGroup.Use(r.authMW.Authenticate)
	{
		// Session works for unregistered identities too, so no LoadUser.
		userGroup.GET("", r.accountHandler.GetSession)
		userGroup.GET("/role-history", r.accountHandler.RoleHistory, r.authMW.LoadUser)
	}

	// Admin routes: require an approved admin role.
	adminGroup := e.Group("/admin")
	adminGroup.Use(r.authMW.Authenticate)
	adminGroup.Use(r.authMW.LoadUser)
	adminGroup.Use(r.authMW.RequireApproved)
	adminGroup.Use(r.authMW.RequireRole(entity.RoleAdmin))
	{
		adminGroup.GET("/pending-requests", r.adminHandler.ListPending)
		adminGroup.POST("/approve-role", r.adminHandler.Approve)
		adminGroup.POST("/reject-role", r.adminHandler.Reject)
		adminGroup.GET("/users", r.adminHandler.ListUsers)
		adminGroup.GET("/claims-consistency/:userId", r.adminHandler.CheckConsistency)
		adminGroup.POST("/repair-claims/:userId", r.adminHandler.RepairClaims)
	}
}
