package controller

import (
	"lecturenotes-be/internal/dto"
	"lecturenotes-be/internal/pkg/serverutils"
	"lecturenotes-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ICommunityController interface {
	RegisterRoutes(r fiber.Router)
	Feed(ctx *fiber.Ctx) error
	ToggleLike(ctx *fiber.Ctx) error
	AddComment(ctx *fiber.Ctx) error
	ListComments(ctx *fiber.Ctx) error
}

type communityController struct {
	communityService service.ICommunityService
}

func NewCommunityController(communityService service.ICommunityService) ICommunityController {
	return &communityController{
		communityService: communityService,
	}
}

func (c *communityController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/community/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get("notes", c.Feed)
	h.Post("notes/:id/like", c.ToggleLike)
	h.Post("notes/:id/comments", c.AddComment)
	h.Get("notes/:id/comments", c.ListComments)
}

func (c *communityController) Feed(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)
	page := ctx.QueryInt("page", 1)

	res, err := c.communityService.Feed(ctx.Context(), userId, page)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list community notes", res))
}

func (c *communityController) ToggleLike(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)
	noteId, _ := uuid.Parse(ctx.Params("id"))

	res, err := c.communityService.ToggleLike(ctx.Context(), userId, noteId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success toggle like", res))
}

func (c *communityController) AddComment(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)
	noteId, _ := uuid.Parse(ctx.Params("id"))

	var req dto.CreateCommentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.communityService.AddComment(ctx.Context(), userId, noteId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create comment", res))
}

func (c *communityController) ListComments(ctx *fiber.Ctx) error {
	noteId, _ := uuid.Parse(ctx.Params("id"))

	res, err := c.communityService.ListComments(ctx.Context(), noteId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list comments", res))
}
