package router

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-api/config"
	"github.com/yeremiapane/restaurant-api/controllers"
	"github.com/yeremiapane/restaurant-api/kds"
	"github.com/yeremiapane/restaurant-api/middlewares"
	"github.com/yeremiapane/restaurant-api/repository"
	"github.com/yeremiapane/restaurant-api/services"
	"github.com/yeremiapane/restaurant-api/utils"
)

// Deps is everything the HTTP surface needs. Publisher and Images default to the hub and
// a disk store under cfg.UploadDir.
type Deps struct {
	Config    *config.Config
	DB        *gorm.DB
	Log       *logrus.Logger
	Hub       *kds.Hub
	Publisher kds.Publisher
	Images    services.ImageStore
}

func SetupRouter(d Deps) *gin.Engine {
	utils.RegisterValidators()

	cfg := d.Config
	if d.Hub == nil {
		d.Hub = kds.NewHub(d.Log)
	}
	if d.Publisher == nil {
		d.Publisher = d.Hub
	}
	if d.Images == nil {
		d.Images = services.NewDiskImageStore(cfg.UploadDir, cfg.PublicBaseURL)
	}

	repo := repository.New(d.DB)
	tokens := utils.NewTokenService([]byte(cfg.JWTSecret), cfg.TokenTTL)
	hasher := utils.NewPasswordHasher(cfg.BcryptCost)

	authService := services.NewAuthService(repo, hasher, tokens, d.Log)
	catalogService := services.NewCatalogService(repo, d.Images, d.Publisher, d.Log)
	tableService := services.NewTableService(repo, d.Publisher, d.Log)
	orderService := services.NewOrderService(repo, d.Publisher, d.Log)

	userCtrl := controllers.NewUserController(authService)
	ingredientCtrl := controllers.NewIngredientController(catalogService)
	dishCtrl := controllers.NewDishController(catalogService)
	tableCtrl := controllers.NewTableController(tableService)
	orderCtrl := controllers.NewOrderController(orderService)
	kdsCtrl := controllers.NewKDSController(d.Hub, cfg.CORSOrigin)

	r := gin.New()
	r.Use(middlewares.LoggerMiddleware(d.Log))
	r.Use(middlewares.Recovery())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares(cfg.CORSOrigin))

	r.NoRoute(func(c *gin.Context) {
		utils.RespondError(c, utils.NotFound("Route was not found."))
	})

	// Only image files are served from the upload directory.
	uploads := r.Group("/uploads", func(c *gin.Context) {
		if !isImagePath(c.Request.URL.Path) {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}
		c.Next()
	})
	uploads.Static("/", cfg.UploadDir)

	r.GET("/ping", func(c *gin.Context) {
		utils.RespondJSON(c, http.StatusOK, "pong", nil)
	})

	authed := middlewares.AuthMiddleware(tokens, authService)

	// Auth
	limiter := middlewares.NewRateLimiter(cfg.AuthRateLimit, cfg.AuthRateBurst)
	auth := r.Group("/auth", limiter.RateLimit())
	{
		auth.POST("/signup", userCtrl.Signup)
		auth.POST("/login", userCtrl.Login)
	}

	// Admin: catalog
	admin := r.Group("/", authed, middlewares.IsAdmin())
	{
		admin.GET("/ingredients", ingredientCtrl.GetAllIngredients)
		admin.GET("/ingredients/:id", ingredientCtrl.GetIngredientByID)
		admin.POST("/ingredients", ingredientCtrl.CreateIngredient)
		admin.PUT("/ingredients/:id", ingredientCtrl.UpdateIngredient)

		admin.GET("/dishes", dishCtrl.GetAllDishes)
		admin.GET("/dishes/:id", dishCtrl.GetDishByID)
		admin.POST("/dishes", dishCtrl.CreateDish)
		admin.PUT("/dishes/:id", dishCtrl.UpdateDish)
		admin.PATCH("/dishes/:id/partial", dishCtrl.PartialUpdateDish)
		admin.POST("/dishes/:id/image", dishCtrl.UploadDishImage)

		admin.POST("/tables", tableCtrl.CreateTable)
		admin.PUT("/tables/:id", tableCtrl.UpdateTable)
	}

	// Any authenticated staff
	staff := r.Group("/", authed)
	{
		staff.GET("/tables", tableCtrl.GetAllTables)
		staff.GET("/tables/:id", tableCtrl.GetTableByID)
	}

	// Waiter
	waiter := r.Group("/", authed, middlewares.IsWaiter())
	{
		waiter.GET("/tables/:id/orders", tableCtrl.GetTableOrders)
		waiter.PATCH("/tables/:id/changeStatus", tableCtrl.UpdateTableStatus)

		waiter.GET("/orders", orderCtrl.GetAllOrders)
		waiter.GET("/orders/:id", orderCtrl.GetOrderByID)
		waiter.POST("/orders", orderCtrl.CreateOrder)
		waiter.PUT("/orders/:id", orderCtrl.UpdateOrder)
		waiter.DELETE("/orders/:id", orderCtrl.DeleteOrder)
	}

	// Kitchen display
	r.GET("/kds/ws",
		middlewares.WebSocketAuthMiddleware(tokens, authService),
		middlewares.RequireWebSocket(),
		kdsCtrl.KDSHandler,
	)

	return r
}

func isImagePath(path string) bool {
	lower := strings.ToLower(path)
	for _, ext := range []string{".jpg", ".jpeg", ".png", ".gif", ".webp"} {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
