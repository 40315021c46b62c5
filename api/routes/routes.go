package routes

import (
	"net/http"

	"github.com/ArowuTest/lottery-rounds/internal/config"
	"github.com/ArowuTest/lottery-rounds/internal/handlers"
	"github.com/ArowuTest/lottery-rounds/internal/middleware"
	"github.com/ArowuTest/lottery-rounds/pkg/jwt"
	"github.com/gin-gonic/gin"
)

// HandlerDependencies holds the handlers mounted by SetupRouter
type HandlerDependencies struct {
	RoundHandler    *handlers.RoundHandler
	DrawHandler     *handlers.DrawHandler
	ClaimHandler    *handlers.ClaimHandler
	SettingsHandler *handlers.SystemSettingsHandler
	EventHandler    *handlers.EventHandler
}

// SetupRouter sets up the router
func SetupRouter(cfg *config.Config, deps HandlerDependencies, issuer *jwt.TokenIssuer) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.Server.AllowedHosts))

	// Public routes
	public := router.Group("/api/v1")
	{
		public.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		public.GET("/rounds", deps.RoundHandler.ListRounds)
		public.GET("/rounds/:id", deps.RoundHandler.GetRound)
		public.GET("/rounds/:id/entries", deps.RoundHandler.GetEntries)
		public.GET("/rounds/:id/entries/:address", deps.RoundHandler.EntriesOf)

		// anyone may trigger the draw of a closed round
		public.POST("/rounds/:id/draw", deps.DrawHandler.TriggerDraw)
		public.GET("/rounds/:id/draw", deps.DrawHandler.GetRoundDraw)
		public.GET("/draws/:requestId", deps.DrawHandler.GetRequestStatus)
		public.GET("/draws/:requestId/proof", deps.DrawHandler.GetProof)

		public.GET("/settings", deps.SettingsHandler.GetSettings)

		public.GET("/events", deps.EventHandler.ListEvents)
		public.GET("/events/stream", deps.EventHandler.StreamEvents)
	}

	// Oracle routes
	oracle := router.Group("/api/v1/oracle")
	oracle.Use(middleware.OracleKeyMiddleware(cfg.Oracle.CallbackKeyHash))
	{
		oracle.POST("/callback", deps.DrawHandler.OracleCallback)
	}

	// Protected routes
	protected := router.Group("/api/v1")
	protected.Use(middleware.JWTAuthMiddleware(issuer))
	{
		protected.POST("/rounds/:id/entries", deps.RoundHandler.PurchaseEntries)
		protected.POST("/rounds/:id/claim", deps.ClaimHandler.Claim)
	}

	// Admin routes: the token role and the configured admin list must both agree
	admin := router.Group("/api/v1")
	admin.Use(middleware.JWTAuthMiddleware(issuer), middleware.RequireRole(jwt.RoleAdmin))
	{
		admin.POST("/rounds", deps.RoundHandler.CreateRound)
		admin.PUT("/settings/fee-recipient", deps.SettingsHandler.UpdateFeeRecipient)
	}

	return router
}
