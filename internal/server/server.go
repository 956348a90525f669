package server

import (
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"github.com/diagtap/diagtap/internal/config"
	"github.com/diagtap/diagtap/internal/handler"
	"github.com/diagtap/diagtap/internal/iputil"
	"github.com/diagtap/diagtap/internal/logger"
	"github.com/diagtap/diagtap/internal/security"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// tokenSubject is the fixed subject admin tokens are issued for.
const tokenSubject = "admin"

// Dependencies holds the dependencies needed by the server.
type Dependencies struct {
	Config   *config.Config
	Facility *logger.Facility
}

// Server represents the HTTP admin/intake server
type Server struct {
	router   *gin.Engine
	config   *config.Config
	facility *logger.Facility
	// Rate limiting specific
	limiters   map[string]*rate.Limiter
	limiterMu  sync.Mutex
	rateLimit  rate.Limit
	burstLimit int
}

// NewServer creates a new server instance with its dependencies.
func NewServer(deps Dependencies) *Server {
	if deps.Config == nil {
		panic("server: Config dependency cannot be nil")
	}
	if deps.Facility == nil {
		panic("server: Facility dependency cannot be nil")
	}

	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())

	if deps.Config.Server.CORS.Enabled {
		router.Use(corsMiddleware(deps.Config.Server.CORS.AllowedOrigins, deps.Config.Server.CORS.MaxAge))
	}

	server := &Server{
		router:   router,
		config:   deps.Config,
		facility: deps.Facility,
		limiters: make(map[string]*rate.Limiter),
	}

	// Initialize rate limiter settings
	if deps.Config.Server.RequestLimits.RateLimit > 0 {
		// Convert requests per minute to requests per second
		server.rateLimit = rate.Limit(float64(deps.Config.Server.RequestLimits.RateLimit) / 60.0)
		// Allow bursts up to the per-minute limit
		server.burstLimit = deps.Config.Server.RequestLimits.RateLimit
	} else {
		server.rateLimit = rate.Inf // No limit
		server.burstLimit = 0
	}

	server.setupRoutes()
	return server
}

// setupRoutes configures the HTTP routes
func (s *Server) setupRoutes() {
	// Health check endpoint (no rate limit, no auth)
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	s.router.HEAD("/health", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	// Version endpoint (no rate limit, no auth)
	s.router.GET("/version", handler.VersionHandler)

	// Log intake - rate limited
	logGroup := s.router.Group("/log")
	if s.rateLimit != rate.Inf {
		logGroup.Use(s.rateLimitMiddleware())
	}
	logGroup.POST("", handler.NewLogHandler(handler.LogHandlerDependencies{
		Facility: s.facility,
		Config:   s.config,
	}))

	// Read-only diagnostics
	s.router.GET("/logs", handler.NewDrainHandler(s.facility))
	s.router.GET("/level", handler.NewLevelGetHandler(s.facility))
	s.router.GET("/queue", handler.NewQueueModeGetHandler(s.facility))

	// Mutating admin endpoints - token protected when a secret is set
	admin := s.router.Group("/")
	if s.config.Security.Token.Secret != "" {
		admin.Use(s.tokenAuthMiddleware())
	}
	admin.PUT("/level", handler.NewLevelSetHandler(s.facility))
	admin.PUT("/queue", handler.NewQueueModeSetHandler(s.facility))
}

// rateLimitMiddleware creates a Gin middleware for rate limiting based on IP.
func (s *Server) rateLimitMiddleware() gin.HandlerFunc {
	// Pre-parse trusted proxies once for the middleware
	parsedTrustedProxies, err := iputil.ParseCIDRs(s.config.Server.TrustedProxies)
	if err != nil {
		s.facility.Critical("server", "Failed to parse trusted proxies for rate limiter: %v", err)
		return func(c *gin.Context) {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error (rate limiter config)"})
		}
	}

	return func(c *gin.Context) {
		ip := iputil.GetClientIP(c.Request, parsedTrustedProxies)

		s.limiterMu.Lock()
		limiter, exists := s.limiters[ip]
		if !exists {
			limiter = rate.NewLimiter(s.rateLimit, s.burstLimit)
			s.limiters[ip] = limiter
		}
		s.limiterMu.Unlock()

		if !limiter.Allow() {
			s.facility.Info("server", "Rate limit exceeded for IP: %s", ip)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded"})
			return
		}

		c.Next()
	}
}

// tokenAuthMiddleware validates the admin token on mutating endpoints.
func (s *Server) tokenAuthMiddleware() gin.HandlerFunc {
	secret := s.config.Security.Token.Secret
	return func(c *gin.Context) {
		token := c.GetHeader("X-Diagtap-Token")
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}
		ok, err := security.ValidateToken(secret, tokenSubject, token)
		if err != nil || !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "invalid token"})
			return
		}
		c.Next()
	}
}

// Handler exposes the underlying HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.facility.Info("server", "Starting server on %s", addr)
	return s.router.Run(addr)
}

// corsMiddleware creates a middleware for CORS
func corsMiddleware(allowedOrigins []string, maxAge int) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		found := false
		for _, allowedOrigin := range allowedOrigins {
			if allowedOrigin == "*" || allowedOrigin == origin {
				c.Writer.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
				found = true
				break
			}
		}

		if !found {
			// Origin not allowed
			if c.Request.Method == "OPTIONS" {
				c.AbortWithStatus(http.StatusForbidden)
			} else {
				c.Next()
			}
			return
		}

		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, PUT, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, X-Diagtap-Token, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		if maxAge > 0 {
			c.Writer.Header().Set("Access-Control-Max-Age", strconv.Itoa(maxAge))
		}

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
