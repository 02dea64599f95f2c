package controller

import (
	"lecturenotes-be/internal/pkg/serverutils"
	"lecturenotes-be/internal/service"
	"lecturenotes-be/pkg/apperror"

	"github.com/gofiber/fiber/v2"
)

type ISlidesController interface {
	RegisterRoutes(r fiber.Router)
	Convert(ctx *fiber.Ctx) error
}

type slidesController struct {
	slidesService service.ISlidesService
	uploadDir     string
}

func NewSlidesController(slidesService service.ISlidesService, uploadDir string) ISlidesController {
	return &slidesController{
		slidesService: slidesService,
		uploadDir:     uploadDir,
	}
}

func (c *slidesController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/slides/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("convert", c.Convert)
}

func (c *slidesController) Convert(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return apperror.NewValidation("A presentation file is required")
	}

	upload, err := saveMultipartFile(ctx, fileHeader, c.uploadDir)
	if err != nil {
		return err
	}

	language := ctx.FormValue("language", "")

	res, err := c.slidesService.Convert(ctx.Context(), userId, upload, language)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success convert slides", res))
}
