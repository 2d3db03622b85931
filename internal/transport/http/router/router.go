package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"bookstore/internal/core/auth"
	"bookstore/internal/core/cache"
	"bookstore/internal/core/config"
	"bookstore/internal/domain"
	"bookstore/internal/transport/http/handler"
	mdw "bookstore/internal/transport/http/middleware"
)

type Deps struct {
	Cfg   *config.Config
	JWTer *auth.JWTer
	Cache *cache.Cache // nil 时限流退化为进程内令牌桶
	Users domain.UserRepository

	Auth  *handler.AuthHandler
	User  *handler.UserHandler
	Books *handler.BookHandler
}

func New(l *zap.Logger, d Deps) *gin.Engine {
	if d.Cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	rl := d.Cfg.RateLimit
	r.Use(
		mdw.RequestID(),
		globalLimiter(d, rl),
		mdw.ConcurrencyLimit(rl.ConcurrencyMax),
		mdw.MaxBodyBytes(1<<20),
		mdw.Timeout(10*time.Second),
		ginzap.RecoveryWithZap(l, true),
		mdw.Metrics(),
		mdw.AccessLog(l),
		cors.Default(),
	)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")

	requireAuth := mdw.RequireAuth(d.JWTer, d.Users)
	adminOnly := mdw.RequireRole(domain.RoleAdmin)

	// 认证：register/login/refresh 走更严的限流窗口
	ar := api.Group("/auth")
	if d.Cache != nil {
		ar.Use(mdw.RateLimitRedis(d.Cache, "auth", rl.AuthRequests, time.Duration(rl.AuthWindowSec)*time.Second))
	}
	ar.POST("/register", d.Auth.Register)
	ar.POST("/login", d.Auth.Login)
	ar.POST("/refresh", d.Auth.Refresh)
	ar.POST("/logout", requireAuth, d.Auth.Logout)

	// 用户
	me := api.Group("/users/me", requireAuth)
	me.GET("", d.User.Me)
	me.PUT("", d.User.UpdateMe)
	me.PUT("/password", d.User.ChangePassword)
	me.DELETE("", d.User.DeleteMe)

	users := api.Group("/users", requireAuth, adminOnly)
	users.GET("", d.User.List)
	users.GET("/:id", d.User.GetByID)
	users.PUT("/:id/role", d.User.UpdateRole)
	users.DELETE("/:id", d.User.Delete)

	// 图书：读公开，写仅 admin，购买仅 user
	api.GET("/books", d.Books.List)
	api.GET("/books/:id", d.Books.GetByID)

	books := api.Group("/books", requireAuth)
	books.POST("", adminOnly, d.Books.Create)
	books.PUT("/:id", adminOnly, d.Books.Update)
	books.DELETE("/:id", adminOnly, d.Books.Delete)
	books.GET("/my-books", adminOnly, d.Books.MyBooks)
	books.POST("/buy", mdw.RequireRole(domain.RoleUser), d.Books.Buy)

	return r
}

func globalLimiter(d Deps, rl config.RateLimit) gin.HandlerFunc {
	window := time.Duration(rl.WindowSec) * time.Second
	if d.Cache != nil {
		return mdw.RateLimitRedis(d.Cache, "global", rl.Requests, window)
	}
	// 令牌桶近似同样的请求预算
	rps := rate.Limit(float64(rl.Requests) / window.Seconds())
	return mdw.RateLimitPerIP(rps, rl.Requests)
}
