package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stcker/backend/internal/config"
	"github.com/stcker/backend/internal/logging"
	"github.com/stcker/backend/internal/model"
	"github.com/stcker/backend/internal/ratelimit"
	"github.com/stcker/backend/internal/session"
	"go.uber.org/zap"
)

// Rate-limit budgets per operation, counted per day.
const (
	loginLimit    = 20
	accountLimit  = 10
	profileLimit  = 5
	shoppingLimit = 100
)

// RouterDeps - 라우터 구성에 필요한 의존성
type RouterDeps struct {
	Logger         *zap.Logger
	Cookies        config.CookieConfig
	AllowedOrigins []string
	AllowedDomain  string
	TrustedProxies []string
	Refresher      *session.Refresher
	Limiter        *ratelimit.Limiter

	Auth    *AuthHandler
	Social  *SocialHandler
	User    *UserHandler
	Product *ProductHandler
	Request *RequestHandler
	Order   *OrderHandler
}

// newEngine - 클라이언트 IP 판별 방식을 고정한 gin 엔진 생성
// 신뢰 프록시가 없으면 X-Forwarded-For 등 헤더를 보지 않고 RemoteAddr만 사용한다.
func newEngine(trustedProxies []string) (*gin.Engine, error) {
	router := gin.New()
	if len(trustedProxies) == 0 {
		router.ForwardedByClientIP = false
		if err := router.SetTrustedProxies(nil); err != nil {
			return nil, err
		}
		return router, nil
	}
	if err := router.SetTrustedProxies(trustedProxies); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}
	return router, nil
}

func NewRouter(d RouterDeps) (*gin.Engine, error) {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}

	router, err := newEngine(d.TrustedProxies)
	if err != nil {
		return nil, err
	}
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		d.Logger.Error("panic recovered", zap.Any("panic", recovered), zap.String("path", c.Request.URL.Path))
		c.AbortWithStatusJSON(http.StatusInternalServerError, model.ErrorResponse{Error: "Server error"})
	}))
	router.Use(logging.Middleware(d.Logger))
	router.Use(CORSMiddleware(d.AllowedOrigins, d.AllowedDomain))
	router.Use(SessionMiddleware(d.Refresher, d.Cookies))

	// 헬스 체크 및 API 문서
	router.GET("/ping", Ping)
	router.GET("/", Root)
	router.GET("/swagger/doc.json", OpenAPIDoc)

	limit := func(operation string, n int64) gin.HandlerFunc {
		return RateLimit(d.Limiter, operation, n)
	}

	api := router.Group("/api/v1")

	auth := api.Group("/auth")
	auth.POST("/login", limit("login", loginLimit), d.Auth.Login)
	auth.POST("/logout", d.Auth.Logout)
	auth.POST("/register", limit("register", accountLimit), d.Auth.Register)
	auth.POST("/verify-email", limit("verifyEmail", accountLimit), d.Auth.VerifyEmail)
	auth.POST("/resend-verification", limit("resendVerificationMail", accountLimit), d.Auth.ResendVerification)
	auth.POST("/password-reset/request", limit("sendPasswordResetMail", accountLimit), d.Auth.RequestPasswordReset)
	auth.POST("/password-reset", limit("resetPassword", accountLimit), d.Auth.ResetPassword)
	auth.GET("/me", d.User.Me)

	auth.POST("/google/login", d.Social.GoogleLogin)
	auth.POST("/google/signup", d.Social.GoogleSignup)
	auth.GET("/google/url", d.Social.GoogleURL)
	auth.POST("/google/callback", d.Social.GoogleCallback)

	// 로그인 사용자 전용
	me := api.Group("/me")
	me.PUT("/password", limit("changePassword", profileLimit), RequireAuth(), d.User.ChangePassword)
	me.PUT("/profile", limit("editProfile", profileLimit), RequireAuth(), d.User.EditProfile)
	me.POST("/cart/:productId", limit("addToCart", shoppingLimit), RequireAuth(), d.User.AddToCart)
	me.DELETE("/cart/:productId", limit("removeFromCart", shoppingLimit), RequireAuth(), d.User.RemoveFromCart)
	me.POST("/favourites/:productId", limit("toggleFavourites", shoppingLimit), RequireAuth(), d.User.ToggleFavourite)
	me.GET("/orders", RequireAuth(), d.Order.MyOrders)

	customers := api.Group("/customers", RequireAdmin())
	customers.GET("", d.User.ListCustomers)
	customers.GET("/:id", d.User.GetCustomer)

	products := api.Group("/products")
	products.GET("", d.Product.ListProducts)
	products.GET("/presign", RequireAdmin(), d.Product.PresignImage)
	products.GET("/:id", d.Product.GetProduct)
	products.POST("", RequireAdmin(), d.Product.CreateProduct)
	products.PUT("/:id", RequireAdmin(), d.Product.UpdateProduct)
	products.DELETE("/:id", RequireAdmin(), d.Product.DeleteProduct)

	requests := api.Group("/requests")
	requests.POST("", limit("createRequest", accountLimit), d.Request.CreateRequest)
	requests.GET("", RequireAdmin(), d.Request.ListRequests)
	requests.DELETE("", RequireAdmin(), d.Request.DeleteRequests)
	requests.GET("/:id", RequireAdmin(), d.Request.GetRequest)
	requests.POST("/:id/reply", RequireAdmin(), d.Request.ReplyRequest)
	requests.DELETE("/:id", RequireAdmin(), d.Request.DeleteRequest)

	orders := api.Group("/orders")
	orders.GET("", RequireAdmin(), d.Order.ListOrders)
	orders.GET("/:id", RequireAuth(), d.Order.GetOrder)
	orders.PUT("/:id", RequireAdmin(), d.Order.UpdateOrder)

	return router, nil
}
