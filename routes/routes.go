package routes

import (
	"net/http"
	"time"

	"bookingbridge/handlers"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterPaymentRoutes registers checkout and verification endpoints.
func RegisterPaymentRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api")
	{
		api.POST("/create-checkout-session", hb.CreateCheckoutSession)
		api.POST("/verify-payment", hb.VerifyPayment)
	}
	r.GET("/payment-success", hb.PaymentSuccess)
}

// RegisterSchedulingRoutes registers the standalone job registration endpoint.
func RegisterSchedulingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.POST("/api/connecteam-booking", hb.RegisterJob)
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.Health)
}

// RegisterStaticRoutes serves the booking front end from dir, if set.
func RegisterStaticRoutes(r *gin.Engine, dir string) {
	if dir == "" {
		return
	}
	r.NoRoute(func(c *gin.Context) {
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Not Found"})
			return
		}
		http.FileServer(http.Dir(dir)).ServeHTTP(c.Writer, c.Request)
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle, staticDir string) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	RegisterPaymentRoutes(r, hb)
	RegisterSchedulingRoutes(r, hb)
	RegisterHealthRoute(r, hb)
	RegisterStaticRoutes(r, staticDir)
}
