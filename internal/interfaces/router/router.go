package router

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	authsvc "egdc-backend/internal/application/auth"
	cssvc "egdc-backend/internal/application/casestudies"
	orgsvc "egdc-backend/internal/application/organizations"
	refsvc "egdc-backend/internal/application/references"
	searchsvc "egdc-backend/internal/application/search"
	seedsvc "egdc-backend/internal/application/seed"
	statssvc "egdc-backend/internal/application/stats"
	uploadsvc "egdc-backend/internal/application/uploads"
	"egdc-backend/internal/config"
	"egdc-backend/internal/constants"
	"egdc-backend/internal/infrastructure/database"
	authhandler "egdc-backend/internal/interfaces/handlers/auth"
	cshandler "egdc-backend/internal/interfaces/handlers/casestudies"
	healthhandler "egdc-backend/internal/interfaces/handlers/health"
	orghandler "egdc-backend/internal/interfaces/handlers/organizations"
	refhandler "egdc-backend/internal/interfaces/handlers/references"
	searchhandler "egdc-backend/internal/interfaces/handlers/search"
	seedhandler "egdc-backend/internal/interfaces/handlers/seed"
	statshandler "egdc-backend/internal/interfaces/handlers/stats"
	userhandler "egdc-backend/internal/interfaces/handlers/users"
	"egdc-backend/internal/middleware"
)

type gormDBPinger struct {
	db *gorm.DB
}

func (g *gormDBPinger) Ping() error {
	if g == nil || g.db == nil {
		return nil
	}
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// CreateApp wires the full API: global middleware, the ops surface, then the
// catalog routes. Redis is optional (health counters degrade to zero); the
// database is optional too so the app can boot for smoke checks without a
// DSN, with only the ops endpoints live.
func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
	})

	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix: cfg.FrontendURLEndsWith,
		DevPassword:   cfg.DevPassword,
	}))

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, nil, nil, err
		}
		rdb = redis.NewClient(opts)
	}
	app.Use(middleware.HealthMarker(rdb))
	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())

	hh := &healthhandler.Handlers{
		Rdb:            rdb,
		HealthAdminKey: cfg.HealthAdminKey,
	}
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "Welcome to EGDC Repository API"})
	})
	app.Get("/reset", hh.Reset)
	app.Get("/health/json", hh.JSON)
	app.Get("/health/errors", hh.Errors)

	app.Static("/static", cfg.StaticDir)

	var db *gorm.DB
	if cfg.DatabaseURL != "" {
		var errDB error
		db, errDB = database.Open(cfg.DatabaseURL)
		if errDB != nil {
			return nil, nil, nil, errDB
		}
		if err := database.AutoMigrate(db); err != nil {
			return nil, nil, nil, err
		}
		hh.DB = &gormDBPinger{db: db}
	}

	if db != nil {
		auth := &authsvc.Service{
			DB:        db,
			SecretKey: cfg.SecretKey,
			TokenTTL:  time.Duration(cfg.AccessTokenExpireMinutes) * time.Minute,
		}
		requireAuth := middleware.RequireAuth(auth)

		uploads := &uploadsvc.Service{Storage: &uploadsvc.DiskStorage{
			Dir:       cfg.UploadDir,
			URLPrefix: cfg.PublicBasePath,
		}}

		ah := &authhandler.Handlers{Service: auth}
		app.Post("/api/v1/login/access-token", ah.Login)

		csh := &cshandler.Handlers{
			Service: &cssvc.Service{DB: db},
			Uploads: uploads,
		}
		cg := app.Group("/api/v1/case-studies")
		cg.Get("/", csh.ListPublished)
		cg.Get("/pending", requireAuth, middleware.AuthorizePermission(constants.ViewPendingQueue), csh.ListPending)
		cg.Post("/preview", requireAuth, csh.Preview)
		cg.Post("/", requireAuth, csh.Create)
		cg.Get("/:id", csh.Get)
		cg.Put("/:id", requireAuth, csh.Update)
		cg.Patch("/:id/review", requireAuth, middleware.AuthorizePermission(constants.ReviewCaseStudies), csh.Review)
		cg.Delete("/:id", requireAuth, csh.Delete)
		cg.Get("/:id/events", requireAuth, middleware.AuthorizePermission(constants.ViewCaseStudyLog), csh.Events)

		sh := &searchhandler.Handlers{Service: &searchsvc.Service{DB: db}}
		app.Get("/api/v1/search", sh.Search)
		app.Get("/api/v1/search/facets", sh.Facets)

		rh := &refhandler.Handlers{Service: &refsvc.Service{DB: db}}
		app.Get("/api/v1/reference-data", rh.All)

		sth := &statshandler.Handlers{Service: &statssvc.Service{DB: db}}
		app.Get("/api/v1/stats", sth.Dashboard)

		oh := &orghandler.Handlers{Service: &orgsvc.Service{DB: db}}
		app.Get("/api/v1/organizations", oh.List)
		app.Post("/api/v1/organizations", oh.Create)

		uh := &userhandler.Handlers{CaseStudies: csh.Service}
		app.Get("/api/v1/users/me/case-studies", requireAuth, uh.MyCaseStudies)

		sdh := &seedhandler.Handlers{Service: &seedsvc.Service{DB: db}, SeedKey: cfg.SeedKey}
		app.Post("/api/v1/seed", sdh.Run)
	}

	return app, db, rdb, nil
}

// Handler adapts the Fiber app to net/http for serverless entry points.
func Handler(app *fiber.App) http.Handler {
	return adaptor.FiberApp(app)
}
