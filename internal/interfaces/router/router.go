package router

import (
	bidsvc "bazaar-backend/internal/application/bids"
	listsvc "bazaar-backend/internal/application/listings"
	notifsvc "bazaar-backend/internal/application/notifications"
	offersvc "bazaar-backend/internal/application/offers"
	usersvc "bazaar-backend/internal/application/users"
	authcore "bazaar-backend/internal/auth"
	"bazaar-backend/internal/config"
	"bazaar-backend/internal/infrastructure/database"
	authhandler "bazaar-backend/internal/interfaces/handlers/auth"
	bidhandler "bazaar-backend/internal/interfaces/handlers/bids"
	healthhandler "bazaar-backend/internal/interfaces/handlers/health"
	listhandler "bazaar-backend/internal/interfaces/handlers/listings"
	notifhandler "bazaar-backend/internal/interfaces/handlers/notifications"
	offerhandler "bazaar-backend/internal/interfaces/handlers/offers"
	userhandler "bazaar-backend/internal/interfaces/handlers/users"
	"bazaar-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
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

	sessionHandler, rdb, err := middleware.Session(middleware.SessionConfig{
		Secret:            cfg.SessionSecret,
		RedisURL:          cfg.RedisURL,
		AllowCrossSiteDev: cfg.AllowCrossSiteDev,
		IsProduction:      cfg.Env == "production",
	})
	if err != nil {
		return nil, nil, nil, err
	}
	app.Use(sessionHandler)
	app.Use(middleware.HealthMarker(rdb))
	app.Use(middleware.RequestID())
	app.Use(middleware.RouteLogger())

	hh := &healthhandler.Handlers{
		Rdb:            rdb,
		DB:             nil,
		HealthAdminKey: cfg.HealthAdminKey,
	}
	app.Get("/reset", hh.Reset)
	app.Get("/health/json", hh.JSON)
	app.Get("/health/errors", hh.Errors)

	var db *gorm.DB
	if cfg.DatabaseURL != "" {
		var errDB error
		db, errDB = database.Open(cfg.DatabaseURL)
		if errDB != nil {
			return nil, nil, nil, errDB
		}
		hh.DB = &gormDBPinger{db: db}
	}

	sessionCfg := middleware.SessionConfig{
		Secret:            cfg.SessionSecret,
		RedisURL:          cfg.RedisURL,
		AllowCrossSiteDev: cfg.AllowCrossSiteDev,
		IsProduction:      cfg.Env == "production",
	}

	var userFinder authcore.UserFinder
	if db != nil {
		userFinder = &authcore.GormUserFinder{DB: db}
	}
	ah := &authhandler.Handlers{
		UserFinder: userFinder,
		Rdb:        rdb,
		Config:     sessionCfg,
	}
	authGroup := app.Group("/api/v1/auth")
	authGroup.Post("/login", ah.Login)
	authGroup.Get("/me", ah.Me)
	authGroup.Delete("/logout", ah.Logout)

	if db != nil && rdb != nil {
		notifier := &notifsvc.Service{DB: db, Rdb: rdb}

		// Users: registration and profiles are public
		us := &usersvc.Service{DB: db}
		uh := &userhandler.Handlers{Service: us}
		app.Post("/api/v1/users/register", uh.Register)
		app.Get("/api/v1/users/profile/:user_id", uh.ViewProfile)

		// Listings: reads are public, writes require auth
		ls := &listsvc.Service{DB: db}
		lh := &listhandler.Handlers{Service: ls}
		app.Get("/api/v1/listings/get-all-active-listings", lh.All)
		app.Get("/api/v1/listings/get-listing/:listing_id", lh.Get)
		lg := app.Group("/api/v1/listings", middleware.RequireAuth())
		lg.Post("/create-listing", lh.Create)
		lg.Get("/my-listings", lh.Mine)
		lg.Post("/cancel-listing", lh.Cancel)

		// Bids: the history is public, everything else requires auth
		bs := &bidsvc.Service{DB: db, Notifier: notifier, Currency: cfg.Currency}
		bh := &bidhandler.Handlers{Service: bs}
		app.Get("/api/v1/listings/:listing_id/bids", bh.ListingBids)
		bg := app.Group("/api/v1/bids", middleware.RequireAuth())
		bg.Post("/place-bid", bh.PlaceBid)
		bg.Get("/my-bids", bh.MyBids)
		bg.Delete("/retract-bid/:bid_id", bh.RetractBid)

		// Offers: participants only
		osvc := &offersvc.Service{DB: db, Notifier: notifier, Currency: cfg.Currency}
		oh := &offerhandler.Handlers{Service: osvc}
		og := app.Group("/api/v1/offers", middleware.RequireAuth())
		og.Post("/create-offer", oh.CreateOffer)
		og.Post("/respond/:offer_id", oh.Respond)
		og.Post("/withdraw/:offer_id", oh.Withdraw)
		og.Get("/listing/:listing_id", oh.ListingOffers)
		og.Get("/my-offers", oh.MyOffers)

		// Notifications
		nh := &notifhandler.Handlers{Service: notifier}
		ng := app.Group("/api/v1/notifications", middleware.RequireAuth())
		ng.Get("/my-notifications", nh.Mine)
		ng.Patch("/mark-read/:notification_id", nh.MarkRead)
	}

	return app, db, rdb, nil
}
