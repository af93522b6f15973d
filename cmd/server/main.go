package main

import (
	"fmt"
	"log"
	"os"

	"github.com/benbeisheim/solochess-backend/internal/config"
	"github.com/benbeisheim/solochess-backend/internal/controller"
	"github.com/benbeisheim/solochess-backend/internal/middleware"
	"github.com/benbeisheim/solochess-backend/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	log.SetPrefix(cfg.LogPrefix)

	gameManager := service.NewGameManager(service.WithEngine(cfg.EngineDepth, cfg.EngineDelay))
	app := newApp(cfg, service.NewGameService(gameManager))

	log.Printf("listening on %s (engine depth %d)", cfg.Addr, cfg.EngineDepth)
	log.Fatal(app.Listen(cfg.Addr))
}

func newApp(cfg config.Config, gameService *service.GameService) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: "solochess",
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, " + middleware.PlayerIDHeader,
		AllowMethods:     "GET, POST, OPTIONS",
		AllowCredentials: true,
	}))

	gameController := controller.NewGameController(gameService)
	wsController := controller.NewWebSocketController(gameService)

	app.Use("/ws", middleware.EnsurePlayerID())
	app.Get("/ws/game/:gameId", middleware.WebSocketUpgrade(), websocket.New(wsController.HandleConnection, websocket.Config{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		Origins:         cfg.Origins(),
	}))

	api := app.Group("/api", middleware.EnsurePlayerID())
	gameController.RegisterRoutes(api)

	return app
}
