package main

import (
	"flag"
	"fmt"

	"github.com/gin-gonic/gin"

	"atlas/api/middleware"
	"atlas/api/routes"
	"atlas/config"
	"atlas/db"
	"atlas/logger"
	"atlas/services"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "config/config.yaml", "Path to the configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}
	logger.Init(cfg.Logs.Level, cfg.Logs.Format)
	logger.Info("starting server", "driver", cfg.Database.Driver, "port", cfg.Backend.Port)

	conn, err := db.Connect(cfg.Database)
	if err != nil {
		panic("Failed to connect to the database: " + err.Error())
	}

	deps := routes.Deps{DB: conn}

	if cfg.Redis.Addr != "" {
		cache, err := services.NewCache(cfg.Redis)
		if err != nil {
			logger.Warn("redis unavailable, running without cache", "err", err)
		} else {
			deps.Cache = cache
			defer cache.Close()
		}
	}

	if cfg.RabbitMQ.URL != "" {
		events, err := services.NewEventPublisher(cfg.RabbitMQ.URL)
		if err != nil {
			logger.Warn("rabbitmq unavailable, running without event feed", "err", err)
		} else {
			deps.Events = events
			defer events.Close()
		}
	}

	router := gin.Default()
	router.Use(middleware.Prometheus())

	routes.Setup(router, routes.NewServices(deps))

	addr := fmt.Sprintf("%s:%d", cfg.Backend.Host, cfg.Backend.Port)
	if err := router.Run(addr); err != nil {
		panic(err)
	}
}
