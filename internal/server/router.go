package server

import (
	"net/http"

	"auction-board/internal/realtime"
	handler "auction-board/services/auction/handler"
	"auction-board/utils"

	"github.com/gin-gonic/gin"
)

// Dependencies are the services the router exposes
type Dependencies struct {
	Bids     handler.BidServiceInterface
	Sessions handler.SessionServiceInterface
	Display  handler.DisplayInterface
	// Realtime serves /ws when set
	Realtime *realtime.Server
}

// SetupRouter configures all Gin routes for the application
func SetupRouter(deps Dependencies) *gin.Engine {
	router := gin.New() // New router without default middleware for full control over middleware and logging

	router.Use(gin.Recovery())          // recover from panics
	router.Use(RequestLoggerMiddleware) // custom request logging

	bidHandler := handler.NewBidHandler(deps.Bids)
	sessionHandler := handler.NewSessionHandler(deps.Sessions, deps.Display)
	exportHandler := handler.NewExportHandler(deps.Sessions, deps.Bids)

	router.GET("/health", func(c *gin.Context) {
		utils.JSONResponse(c, http.StatusOK, gin.H{"ok": true}, "healthy")
	})
	router.GET("/current-session", sessionHandler.CurrentSessionHandler)

	sessions := router.Group("/sessions")
	{
		sessions.POST("", sessionHandler.CreateSessionHandler)
		sessions.GET("", sessionHandler.ListSessionsHandler)
		sessions.GET("/:session_id", sessionHandler.GetSessionHandler)
		sessions.PATCH("/:session_id", sessionHandler.UpdateSessionHandler)
		sessions.POST("/:session_id/close", sessionHandler.CloseSessionHandler)

		sessions.GET("/:session_id/bids", bidHandler.ListBidsHandler)
		sessions.POST("/:session_id/bids", bidHandler.UpsertBidHandler)
		sessions.DELETE("/:session_id/bids", bidHandler.ResetBidsHandler)
		sessions.DELETE("/:session_id/bids/:bid_id", bidHandler.DeleteBidHandler)
		sessions.GET("/:session_id/summary", bidHandler.SummaryHandler)
		sessions.GET("/:session_id/export", exportHandler.ExportCSVHandler)
	}

	if deps.Display != nil {
		dashboardHandler := handler.NewDashboardHandler(deps.Display)
		dashboard := router.Group("/dashboard")
		{
			dashboard.GET("", dashboardHandler.GetDashboardHandler)
			dashboard.PUT("/selection", dashboardHandler.SelectionHandler)
		}
	}

	if deps.Realtime != nil {
		router.GET("/ws", deps.Realtime.HandleWebSocket)
	}

	return router
}
