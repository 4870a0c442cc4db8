// Package router builds the Gin engine for the Unseen API.
package router

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	authhandler "unseen/internal/feature/auth/transport/handler"
	platformhandler "unseen/internal/platform/http/handler"
	jwtmw "unseen/internal/platform/jwt"
	"unseen/internal/shared/ratelimiter"
)

// Public endpoint paths.
const (
	PathSignup   = "/auth/signup"
	PathLogin    = "/auth/login"
	PathValidate = "/auth/validate"
)

// Option customizes the router.
type Option func(*options)

type options struct {
	limiter *ratelimiter.RateLimiter
}

// WithAuthRateLimit throttles signup and login per client IP.
func WithAuthRateLimit(rl *ratelimiter.RateLimiter) Option {
	return func(o *options) { o.limiter = rl }
}

// NewRouter wires the auth endpoints. verifier checks bearer tokens on /auth/validate.
func NewRouter(authHandler *authhandler.AuthHandler, verifier jwtmw.Verifier, opts ...Option) *gin.Engine {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	throttle := ratelimiter.Middleware(o.limiter)

	r := gin.New()
	r.Use(gin.Recovery(), cors.Default())

	// public
	r.GET("/", platformhandler.Index(PathSignup, PathLogin, PathValidate))
	r.GET("/healthz", platformhandler.Health)
	r.HEAD("/healthz", platformhandler.Health)
	r.POST(PathSignup, throttle, authHandler.Signup)
	r.POST(PathLogin, throttle, authHandler.Login)

	// requires a bearer token
	r.GET(PathValidate, jwtmw.AuthRequired(verifier), authHandler.Validate)

	return r
}
