// Package server assembles the HTTP routes of the API.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "spendwise/internal/docs" // registers the swagger document
	"spendwise/internal/handlers"
	"spendwise/internal/middleware"
	"spendwise/internal/services"
)

// Options tune the router for its environment.
type Options struct {
	CORSAllowedOrigin string
	// RequestLogging adds a log line per request.
	RequestLogging bool
}

// NewRouter wires services and handlers over db and registers every route.
func NewRouter(db *gorm.DB, opts Options) *gin.Engine {
	userService := services.NewUserService(db)
	recordService := services.NewRecordService(db)
	budgetService := services.NewBudgetService(db)

	authHandler := handlers.NewAuthHandler(userService)
	recordHandler := handlers.NewRecordHandler(recordService, userService)
	budgetHandler := handlers.NewBudgetHandler(budgetService, userService)

	router := gin.New()
	router.Use(gin.Recovery())
	if opts.RequestLogging {
		router.Use(middleware.RequestLogging())
	}
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.CORS(opts.CORSAllowedOrigin))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Public routes
	router.POST("/auth/register/", authHandler.Register)
	router.POST("/auth/login/", authHandler.Login)
	router.POST("/api/token/", authHandler.ObtainToken)
	router.POST("/api/token/refresh/", authHandler.RefreshToken)

	// Protected routes
	protected := router.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/auth/profile/", authHandler.GetProfile)
	protected.PATCH("/auth/change-password/", authHandler.ChangePassword)
	protected.PATCH("/auth/change-username/", authHandler.ChangeUsername)

	records := protected.Group("/records")
	records.POST("/create/", recordHandler.CreateRecord)
	records.POST("/list/", recordHandler.ListRecords)
	records.PUT("/update/:id/", recordHandler.UpdateRecord)
	records.PATCH("/update/:id/", recordHandler.UpdateRecord)
	records.DELETE("/delete/", recordHandler.DeleteRecord)

	budgets := protected.Group("/budgets")
	budgets.POST("/create/", budgetHandler.CreateBudget)
	budgets.GET("/last-update/", budgetHandler.LastBudgetUpdate)
	budgets.POST("/", budgetHandler.ListBudgets)
	budgets.PATCH("/update/:id/", budgetHandler.UpdateBudget)
	budgets.DELETE("/delete/", budgetHandler.DeleteBudget)

	recordResource := protected.Group("/api/records")
	recordResource.GET("/", recordHandler.ListResource)
	recordResource.POST("/", recordHandler.CreateResource)
	recordResource.GET("/:id/", recordHandler.GetResource)
	recordResource.PUT("/:id/", recordHandler.UpdateResource)
	recordResource.PATCH("/:id/", recordHandler.UpdateResource)
	recordResource.DELETE("/:id/", recordHandler.DeleteResource)

	budgetResource := protected.Group("/api/budgets")
	budgetResource.GET("/", budgetHandler.ListResource)
	budgetResource.POST("/", budgetHandler.CreateResource)
	budgetResource.GET("/:id/", budgetHandler.GetResource)
	budgetResource.PUT("/:id/", budgetHandler.UpdateResource)
	budgetResource.PATCH("/:id/", budgetHandler.UpdateResource)
	budgetResource.DELETE("/:id/", budgetHandler.DeleteResource)

	return router
}
