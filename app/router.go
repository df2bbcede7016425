package app

import (
	"bitwise74/event-api/app/checkin"
	"bitwise74/event-api/app/event"
	"bitwise74/event-api/app/registration"
	"bitwise74/event-api/app/root"
	"bitwise74/event-api/app/user"
	"bitwise74/event-api/aws"
	"bitwise74/event-api/db"
	"bitwise74/event-api/internal"
	"bitwise74/event-api/internal/service"
	"bitwise74/event-api/internal/store"
	"bitwise74/event-api/pkg/middleware"
	"bitwise74/event-api/pkg/security"
	"context"
	"fmt"
	"strings"
	"time"

	cache "github.com/chenyahui/gin-cache"
	"github.com/chenyahui/gin-cache/persist"
	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	gray  = "\x1b[90m"
	reset = "\x1b[0m"
)

// Replaced by a redis store in NewRouter when cache.redis.addr is set
var cacheStore persist.CacheStore = persist.NewMemoryStore(time.Minute)

// NewRouter connects to everything the app needs, starts the background jobs
// and returns the HTTP router. Jobs stop when ctx is done
func NewRouter(ctx context.Context) (*gin.Engine, error) {
	makeLogger()

	gormDB, err := db.New()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database, %w", err)
	}

	mailer, err := service.NewMailerFromConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize mailer, %w", err)
	}

	if addr := viper.GetString("cache.redis.addr"); addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:         addr,
			Password:     viper.GetString("cache.redis.password"),
			DB:           viper.GetInt("cache.redis.db"),
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		})

		if err := rdb.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("failed to connect to redis, %w", err)
		}

		cacheStore = persist.NewRedisStore(rdb)
		zap.L().Debug("Response cache backed by redis", zap.String("addr", addr))
	}

	st := store.New(gormDB)

	d := &internal.Deps{
		DB:        gormDB,
		Store:     st,
		Argon:     security.New(),
		Mailer:    mailer,
		Registrar: service.NewRegistrar(st, mailer),
		CheckIn:   service.NewCheckInService(st),
	}

	if viper.GetBool("storage.enabled") {
		s3, err := aws.NewS3(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize S3 client, %w", err)
		}

		d.Banners = service.NewBannerUploader(s3.C, *s3.Bucket, s3.PublicURL)
	}

	sched := service.NewScheduler()

	if err := sched.Add("event_sweeper", viper.GetString("sweeper.schedule"), service.EventSweeper(st)); err != nil {
		return nil, err
	}

	// Reset tokens live for a day so there's no rush cleaning them up
	if err := sched.Add("reset_token_cleanup", viper.GetString("cleanup.schedule"), service.TokenCleanup(st)); err != nil {
		return nil, err
	}

	sched.Start(ctx)

	return Routes(d), nil
}

// Routes builds the router on top of ready dependencies
func Routes(d *internal.Deps) *gin.Engine {
	router := gin.New()

	origins := strings.Split(viper.GetString("host.cors"), ",")

	router.Use(
		cors.New(cors.Config{
			AllowOrigins:     origins,
			AllowMethods:     []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "TurnstileToken"},
			ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		ginzap.RecoveryWithZap(zap.L(), true),
		middleware.NewRequestIDMiddleware(),
		ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
			TimeFormat: "15:04:05.000",
			UTC:        true,
			Skipper: func(c *gin.Context) bool {
				return c.Request.Method == "HEAD"
			},
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{}

				if v := c.GetString("requestID"); v != "" {
					fields = append(fields, zap.String("request_id", v))
				}

				if v := c.GetString("userID"); v != "" {
					fields = append(fields, zap.String("userID", v))
				}

				return fields
			},
		}),
	)

	router.HandleMethodNotAllowed = true
	router.RedirectFixedPath = true
	router.MaxMultipartMemory = 5 << 20

	rateLimit := viper.GetInt("security.rate_limit")
	if rateLimit <= 0 {
		rateLimit = 5
	}

	jwt := middleware.NewJWTMiddleware(d.DB)
	turnstile := middleware.NewTurnstileMiddleware()
	jsonBody := middleware.BodySizeLimiter(1 << 20)
	rateLimiter := middleware.RateLimiterMiddleware(middleware.RateLimiterConfig{
		RequestsPerSecond: rateLimit,
		Burst:             rateLimit * 2,
	})

	m := router.Group("/api/v1")
	{
		// HEAD /api/v1/heartbeat 		-> Used to check if the server is alive
		m.HEAD("/heartbeat", func(c *gin.Context) { root.Heartbeat(c, d) })
		m.GET("/heartbeat", func(c *gin.Context) { root.Heartbeat(c, d) })
	}

	u := m.Group("/users", jsonBody)
	{
		// POST /api/v1/users/register 	-> Registers a new user and logs them in
		u.POST("/register", rateLimiter, func(c *gin.Context) { user.UserRegister(c, d) })

		// POST /api/v1/users/login 	-> Logs in a user and returns a JWT token
		u.POST("/login", rateLimiter, func(c *gin.Context) { user.UserLogin(c, d) })

		// POST /api/v1/users/logout 	-> Ends the current session
		u.POST("/logout", jwt, func(c *gin.Context) { user.UserLogout(c, d) })

		// GET /api/v1/users/me		-> Returns the logged in user
		u.GET("/me", jwt, func(c *gin.Context) { user.UserFetch(c, d) })

		// PUT /api/v1/users/me		-> Updates the name or avatar of the logged in user
		u.PUT("/me", jwt, func(c *gin.Context) { user.UserUpdate(c, d) })

		// POST /api/v1/users/reset-password 		-> Mails a password reset link
		u.POST("/reset-password", rateLimiter, func(c *gin.Context) { user.UserResetRequest(c, d) })

		// POST /api/v1/users/reset-password/:token 	-> Sets a new password
		u.POST("/reset-password/:token", rateLimiter, func(c *gin.Context) { user.UserReset(c, d) })
	}

	e := m.Group("/events")
	{
		// POST /api/v1/events		-> Creates an event
		e.POST("", jwt, jsonBody, func(c *gin.Context) { event.EventCreate(c, d) })

		// GET /api/v1/events		-> Lists the caller's events
		e.GET("", jwt, func(c *gin.Context) { event.EventList(c, d) })

		// GET /api/v1/events/:id	-> Public view of an event
		e.GET("/:id", cacheFor(15), func(c *gin.Context) { event.EventFetch(c, d) })

		// PATCH /api/v1/events/:id	-> Updates an event
		e.PATCH("/:id", jwt, jsonBody, func(c *gin.Context) { event.EventEdit(c, d) })

		// DELETE /api/v1/events/:id	-> Deletes an event with everything registered for it
		e.DELETE("/:id", jwt, func(c *gin.Context) { event.EventDelete(c, d) })

		// PUT /api/v1/events/:id/banner	-> Uploads a banner image
		e.PUT("/:id/banner", jwt, middleware.BodySizeLimiter(viper.GetInt64("upload.max_size")<<20+1<<20), func(c *gin.Context) { event.EventBanner(c, d) })
	}

	// GET /api/v1/attendees/:eventId	-> Lists the attendees of an event
	m.GET("/attendees/:eventId", jwt, func(c *gin.Context) { event.EventAttendees(c, d) })

	// POST /api/v1/register-event/:eventId	-> Registers for an event and mails the ticket
	m.POST("/register-event/:eventId", rateLimiter, turnstile, jsonBody, func(c *gin.Context) { registration.Register(c, d) })

	// PUT /api/v1/check-in/:ticketId	-> Checks a ticket in
	m.PUT("/check-in/:ticketId", jwt, func(c *gin.Context) { checkin.CheckIn(c, d) })

	return router
}

func makeLogger() {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncoderConfig.EncodeTime = func(t time.Time, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + t.Format("15:04:05.000") + reset)
	}
	cfg.EncoderConfig.EncodeCaller = func(ec zapcore.EntryCaller, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + ec.TrimmedPath() + reset)
	}

	if lvl, err := zapcore.ParseLevel(viper.GetString("app.log_level")); err == nil {
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	cfg.DisableStacktrace = true

	log, _ := cfg.Build()
	zap.ReplaceGlobals(log)
}

func cacheFor(sec int) gin.HandlerFunc {
	return cache.CacheByRequestURI(cacheStore, time.Second*time.Duration(sec))
}
