package router

import (
	"time"

	"github.com/TORRES240325/panel-socios-final/internal/config"
	"github.com/TORRES240325/panel-socios-final/internal/handler"
	"github.com/TORRES240325/panel-socios-final/internal/middleware"
	"github.com/TORRES240325/panel-socios-final/internal/repository"
	"github.com/TORRES240325/panel-socios-final/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.CORSOrigin))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(cfg.RateLimit, time.Minute))
	r.Use(middleware.Timeout(cfg.RequestTimeout))

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	keyRepo := repository.NewKeyRepository(db)
	sesionRepo := repository.NewSesionRepository(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, sesionRepo, cfg)
	usuarioSvc := service.NewUsuarioService(usuarioRepo, cfg.BcryptCost)
	saldoSvc := service.NewSaldoService(usuarioRepo)
	productoSvc := service.NewProductoService(productoRepo, keyRepo)
	inventarioSvc := service.NewInventarioService(productoRepo, keyRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usuariosH := handler.NewUsuariosHandler(usuarioSvc, saldoSvc)
	productosH := handler.NewProductosHandler(productoSvc, inventarioSvc)
	inventarioH := handler.NewInventarioHandler(inventarioSvc, cfg.StockAlertThreshold)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, cfg.DBTimeout))

	jwtMW := middleware.JWTAuth(cfg.JWTSecret, sesionRepo)

	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(cfg.LoginRateLimit), authH.Login)
		auth.POST("/logout", jwtMW, authH.Logout)
	}

	// Protected routes: only administrators can obtain a token.
	v1 := r.Group("/v1", jwtMW)
	{
		usuarios := v1.Group("/usuarios")
		{
			usuarios.GET("", usuariosH.Listar)
			usuarios.POST("", usuariosH.Crear)
			usuarios.GET("/:id", usuariosH.ObtenerPorID)
			usuarios.POST("/:id/saldo", usuariosH.AjustarSaldo)
		}

		prods := v1.Group("/productos")
		{
			prods.GET("", productosH.Listar)
			prods.POST("", productosH.Crear)
			prods.GET("/:id", productosH.ObtenerPorID)
			prods.PUT("/:id", productosH.Actualizar)
			prods.DELETE("/:id", productosH.Eliminar)
			prods.GET("/:id/keys", inventarioH.ListarKeys)
			prods.POST("/:id/keys", inventarioH.AgregarKeys)
			prods.GET("/:id/stock", inventarioH.Stock)
		}

		v1.POST("/keys/:id/usar", inventarioH.MarcarUsada)
		v1.GET("/inventario/alertas", inventarioH.ObtenerAlertas)
	}

	// Swagger UI outside production only
	if !cfg.IsProduction() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
