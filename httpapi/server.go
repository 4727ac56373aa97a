// Package httpapi exposes the gateway over JSON/HTTP with gin.
package httpapi

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"stylebook/auth"
	"stylebook/booking"
	"stylebook/gateway"
	"stylebook/profile"
	"stylebook/review"
)

// API is the subset of *gateway.Gateway served over HTTP.
type API interface {
	Register(ctx context.Context, username, password, role string) (auth.Account, error)
	Authenticate(ctx context.Context, username, password string) (gateway.Session, error)
	Whoami(token string) (gateway.Principal, error)
	UpsertProfile(ctx context.Context, token string, in gateway.ProfileInput) (int64, error)
	MyProfile(ctx context.Context, token string) (profile.Profile, error)
	ListProfiles(ctx context.Context, token, locationFilter string) ([]profile.Profile, error)
	GetProfile(ctx context.Context, token string, id int64) (profile.Profile, error)
	CreateBooking(ctx context.Context, token string, in gateway.BookingInput) (int64, error)
	ListBookingsForClient(ctx context.Context, token string, clientAccountID int64) ([]booking.Booking, error)
	ListBookingsForProfile(ctx context.Context, token string, profileID int64) ([]booking.Booking, error)
	TransitionStatus(ctx context.Context, token string, bookingID int64, newStatus string) error
	BookingHistory(ctx context.Context, token string, bookingID int64) ([]booking.Event, error)
	AddReview(ctx context.Context, token string, profileID int64, rating int, comment string) (int64, error)
	AverageRating(ctx context.Context, token string, profileID int64) (float64, error)
	ListReviews(ctx context.Context, token string, profileID int64) ([]review.Review, error)
}

type Options struct {
	CORSOrigins       []string
	AuthRatePerMinute int
}

type Server struct {
	api         API
	authLimiter *ipLimiter
	engine      *gin.Engine
}

func NewServer(api API, opts Options) *Server {
	if opts.AuthRatePerMinute <= 0 {
		opts.AuthRatePerMinute = 10
	}
	s := &Server{
		api:         api,
		authLimiter: newIPLimiter(opts.AuthRatePerMinute),
	}
	s.engine = s.routes(opts)
	return s
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

// SweepLimiters periodically forgets rate limiters of idle clients until ctx ends.
func (s *Server) SweepLimiters(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.authLimiter.sweep(time.Hour)
		}
	}
}

// maxProfileBodyBytes leaves room for a base64 image at the gateway's size limit.
const maxProfileBodyBytes = 3 << 20

func (s *Server) routes(opts Options) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(TraceID())

	corsConfig := cors.DefaultConfig()
	if len(opts.CORSOrigins) == 0 || (len(opts.CORSOrigins) == 1 && opts.CORSOrigins[0] == "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = opts.CORSOrigins
	}
	corsConfig.AddAllowHeaders("Authorization")
	corsConfig.AddExposeHeaders("X-Trace-ID")
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	api.Use(BearerToken())

	authGroup := api.Group("/auth")
	authGroup.Use(s.authLimiter.RateLimit())
	authGroup.POST("/register", s.handleRegister)
	authGroup.POST("/login", s.handleLogin)

	api.GET("/me", s.handleWhoami)

	api.GET("/profiles", s.handleListProfiles)
	api.GET("/profiles/me", s.handleMyProfile)
	api.PUT("/profiles/me", MaxBodyBytes(maxProfileBodyBytes), s.handleUpsertProfile)
	api.GET("/profiles/:id", s.handleGetProfile)
	api.GET("/profiles/:id/bookings", s.handleProfileBookings)
	api.GET("/profiles/:id/reviews", s.handleListReviews)
	api.POST("/profiles/:id/reviews", s.handleAddReview)
	api.GET("/profiles/:id/rating", s.handleAverageRating)

	api.POST("/bookings", s.handleCreateBooking)
	api.GET("/bookings", s.handleClientBookings)
	api.PATCH("/bookings/:id/status", s.handleTransition)
	api.GET("/bookings/:id/events", s.handleBookingHistory)

	return router
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respondBadRequest(c)
		return 0, false
	}
	return id, true
}
