package controller

import (
	"errors"

	"github.com/benbeisheim/solochess-backend/internal/model"
	"github.com/benbeisheim/solochess-backend/internal/service"
	"github.com/gofiber/fiber/v2"
)

type GameController struct {
	gameService *service.GameService
}

func NewGameController(gameService *service.GameService) *GameController {
	return &GameController{gameService: gameService}
}

// errorStatus maps domain errors onto HTTP status codes.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrGameNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, model.ErrInvalidSquare), errors.Is(err, model.ErrInvalidFEN):
		return fiber.StatusBadRequest
	case errors.Is(err, model.ErrIllegalMove),
		errors.Is(err, model.ErrUndoUnavailable),
		errors.Is(err, model.ErrNotYourTurn),
		errors.Is(err, model.ErrGameOver),
		errors.Is(err, model.ErrStaleMove),
		errors.Is(err, model.ErrGameFull),
		errors.Is(err, service.ErrNotAPlayer):
		return fiber.StatusConflict
	}
	return fiber.StatusInternalServerError
}

func sendError(c *fiber.Ctx, err error) error {
	return c.Status(errorStatus(err)).JSON(fiber.Map{
		"error": err.Error(),
	})
}

func playerID(c *fiber.Ctx) string {
	id, _ := c.Locals("playerID").(string)
	return id
}

func (gc *GameController) CreateGame(c *fiber.Ctx) error {
	var opts service.CreateOptions
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&opts); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
			})
		}
	}

	created, err := gc.gameService.CreateGame(playerID(c), opts)
	if err != nil {
		status := errorStatus(err)
		if status == fiber.StatusInternalServerError && !errors.Is(err, service.ErrGameExists) {
			status = fiber.StatusBadRequest
		}
		return c.Status(status).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"message": "Game created",
		"game_id": created.ID,
		"name":    created.Name,
		"color":   created.Color,
	})
}

func (gc *GameController) JoinGame(c *fiber.Ctx) error {
	color, err := gc.gameService.JoinGame(c.Params("gameId"), playerID(c))
	if err != nil {
		return sendError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Game joined",
		"color":   color,
	})
}

func (gc *GameController) GetGameState(c *fiber.Ctx) error {
	gameState, err := gc.gameService.GetGameState(c.Params("gameId"))
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(gameState)
}

func (gc *GameController) GetFEN(c *fiber.Ctx) error {
	fen, err := gc.gameService.GetFEN(c.Params("gameId"))
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(fiber.Map{"fen": fen})
}

func (gc *GameController) Select(c *fiber.Ctx) error {
	var pos model.Position
	if err := c.BodyParser(&pos); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	destinations, err := gc.gameService.Select(c.Params("gameId"), playerID(c), pos)
	if err != nil {
		return sendError(c, err)
	}
	if destinations == nil {
		destinations = []model.Destination{}
	}
	return c.JSON(fiber.Map{
		"selectedSquare": pos,
		"legalMoves":     destinations,
	})
}

func (gc *GameController) Confirm(c *fiber.Ctx) error {
	var pos model.Position
	if err := c.BodyParser(&pos); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	ply, err := gc.gameService.Confirm(c.Params("gameId"), playerID(c), pos)
	if err != nil {
		return sendError(c, err)
	}
	return gc.plyResponse(c, ply)
}

func (gc *GameController) MakeMove(c *fiber.Ctx) error {
	var move model.WSMove
	if err := c.BodyParser(&move); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	ply, err := gc.gameService.HandleMove(c.Params("gameId"), playerID(c), move)
	if err != nil {
		return sendError(c, err)
	}
	return gc.plyResponse(c, ply)
}

func (gc *GameController) plyResponse(c *fiber.Ctx, ply model.Ply) error {
	state, err := gc.gameService.GetGameState(c.Params("gameId"))
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(fiber.Map{
		"ply":   ply,
		"state": state,
	})
}

func (gc *GameController) NewGame(c *fiber.Ctx) error {
	if err := gc.gameService.NewGame(c.Params("gameId"), playerID(c)); err != nil {
		return sendError(c, err)
	}
	return gc.GetGameState(c)
}

func (gc *GameController) Undo(c *fiber.Ctx) error {
	if err := gc.gameService.Undo(c.Params("gameId"), playerID(c)); err != nil {
		return sendError(c, err)
	}
	return gc.GetGameState(c)
}

// RegisterRoutes mounts the REST API on router.
func (gc *GameController) RegisterRoutes(router fiber.Router) {
	gameRoutes := router.Group("/game")
	gameRoutes.Post("/create", gc.CreateGame)
	gameRoutes.Post("/join/:gameId", gc.JoinGame)
	gameRoutes.Get("/:gameId", gc.GetGameState)
	gameRoutes.Get("/:gameId/fen", gc.GetFEN)
	gameRoutes.Post("/:gameId/select", gc.Select)
	gameRoutes.Post("/:gameId/confirm", gc.Confirm)
	gameRoutes.Post("/:gameId/move", gc.MakeMove)
	gameRoutes.Post("/:gameId/new", gc.NewGame)
	gameRoutes.Post("/:gameId/undo", gc.Undo)
}
