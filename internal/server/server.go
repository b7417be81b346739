package server

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"recordwizard/config"
	"recordwizard/internal/catalog"
	"recordwizard/internal/predict"
	"recordwizard/internal/session"
	"recordwizard/internal/session/inmemory"
	"recordwizard/internal/session/redisstore"
	"recordwizard/internal/wizard"
)

// Run wires the service together and serves until the listener stops.
func Run(cfg *config.Config) error {
	if err := cfg.Server.Validate(); err != nil {
		return err
	}
	if err := cfg.Prediction.Validate(); err != nil {
		return err
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())

	// Unified HTTP error handler with structured JSON and logging
	baseLogger := log.New(log.Writer(), "[HTTP] ", log.LstdFlags)
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		msg := err.Error()
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if he.Message != nil {
				msg = fmt.Sprint(he.Message)
			}
		}
		req := c.Request()
		baseLogger.Printf("%d %s %s from %s: %v", code, req.Method, req.URL.Path, c.RealIP(), err)
		if !c.Response().Committed {
			_ = c.JSON(code, map[string]interface{}{"error": msg})
		}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization", "Cookie"},
		AllowCredentials: true,
	}))

	e.GET("/healthz", func(c echo.Context) error { return c.String(200, "ok") })
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	ctx := context.Background()
	wizardLogger := log.New(log.Writer(), "[WIZARD] ", log.LstdFlags)

	client := predict.NewClient(
		cfg.Prediction.BaseURL,
		cfg.Prediction.Timeout,
		cfg.Prediction.MaxRetries,
		cfg.Prediction.Backoff,
	)
	cache := NewInitCache(client, log.New(log.Writer(), "[INIT] ", log.LstdFlags))

	flatList, err := catalog.Load(ctx, cfg.Catalog.Source)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	index, err := catalog.NewIndex(flatList)
	if err != nil {
		return fmt.Errorf("index catalog: %w", err)
	}
	baseLogger.Printf("catalog loaded: %d entries", len(flatList))

	factory := session.Factory(func() *wizard.Machine {
		m := wizard.NewMachine(wizard.Options{
			Client:          cache,
			Language:        cfg.Wizard.Language,
			AgencyThreshold: cfg.Wizard.ConfidenceThreshold,
			LinkThreshold:   cfg.Wizard.LinkThreshold,
			Normalizer:      wizard.ScaleNormalizer(cfg.Wizard.ScoreScale),
			Logger:          wizardLogger,
			Debug:           cfg.General.Debug,
		})
		m.SetFlatList(flatList)
		return m
	})

	var store session.Store
	if cfg.Storage.Redis.Addr != "" {
		rdb, err := redisstore.Conn(ctx, cfg.Storage.Redis.Addr, cfg.Storage.Redis.Password, cfg.Storage.Redis.DB)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		store = redisstore.NewStore(rdb, factory, cfg.Server.SessionTTL)
		baseLogger.Printf("sessions stored in redis at %s", cfg.Storage.Redis.Addr)
	} else {
		store = inmemory.NewStore(factory, cfg.Server.SessionTTL)
		baseLogger.Printf("sessions stored in process memory")
	}

	handler := &WizardHandler{
		Store:    store,
		Secret:   []byte(cfg.Server.JWTSecret),
		TokenTTL: cfg.Server.SessionTTL,
		Index:    index,
		Logger:   wizardLogger,
	}
	handler.Register(e.Group("/api"))

	refresher := &Refresher{
		Cache:  cache,
		Spec:   cfg.Wizard.RefreshCron,
		Logger: log.New(log.Writer(), "[SCHED] ", log.LstdFlags),
	}
	if err := refresher.Start(); err != nil {
		return fmt.Errorf("start refresher: %w", err)
	}

	baseLogger.Printf("listening on %s", cfg.Server.Address)
	return e.Start(cfg.Server.Address)
}
