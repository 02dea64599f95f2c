package controller

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"

	"lecturenotes-be/internal/dto"
	"lecturenotes-be/internal/pkg/serverutils"
	"lecturenotes-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type INoteController interface {
	RegisterRoutes(r fiber.Router)
	Generate(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	ToggleShare(ctx *fiber.Ctx) error
	SemanticSearch(ctx *fiber.Ctx) error
}

type noteController struct {
	noteService service.INoteService
	uploadDir   string
}

func NewNoteController(noteService service.INoteService, uploadDir string) INoteController {
	return &noteController{
		noteService: noteService,
		uploadDir:   uploadDir,
	}
}

func (c *noteController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/note/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get("semantic-search", c.SemanticSearch)
	h.Post("generate", c.Generate)
	h.Get("", c.List)
	h.Get(":id", c.Show)
	h.Put(":id/share", c.ToggleShare)
	h.Delete(":id", c.Delete)
}

func (c *noteController) Generate(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)

	var req dto.GenerateNoteRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	upload, err := c.saveUpload(ctx)
	if err != nil {
		return err
	}

	res, err := c.noteService.Generate(ctx.Context(), userId, &req, upload)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success generate note", res))
}

func (c *noteController) List(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)

	res, err := c.noteService.List(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list notes", res))
}

func (c *noteController) Show(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)
	id, _ := uuid.Parse(ctx.Params("id"))

	res, err := c.noteService.Show(ctx.Context(), userId, id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show note", res))
}

func (c *noteController) Delete(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)
	id, _ := uuid.Parse(ctx.Params("id"))

	if err := c.noteService.Delete(ctx.Context(), userId, id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success delete note", nil))
}

func (c *noteController) ToggleShare(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)
	id, _ := uuid.Parse(ctx.Params("id"))

	var req dto.ToggleShareRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	res, err := c.noteService.ToggleShare(ctx.Context(), userId, id, req.IsShared)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success update note sharing", res))
}

func (c *noteController) SemanticSearch(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)
	q := ctx.Query("q", "")

	res, err := c.noteService.SemanticSearch(ctx.Context(), userId, q)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success semantic search notes", res))
}

// saveUpload writes the optional "file" form part to the upload dir and
// returns its handle, or nil when the request carries no file.
func (c *noteController) saveUpload(ctx *fiber.Ctx) (*service.UploadedFile, error) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return nil, nil
	}
	return saveMultipartFile(ctx, fileHeader, c.uploadDir)
}

func saveMultipartFile(ctx *fiber.Ctx, fileHeader *multipart.FileHeader, uploadDir string) (*service.UploadedFile, error) {
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		return nil, err
	}

	dstPath := filepath.Join(uploadDir, fmt.Sprintf("%s-%s", uuid.New().String(), filepath.Base(fileHeader.Filename)))
	if err := ctx.SaveFile(fileHeader, dstPath); err != nil {
		return nil, err
	}

	return &service.UploadedFile{
		Path:     dstPath,
		Filename: fileHeader.Filename,
		MimeType: fileHeader.Header.Get("Content-Type"),
	}, nil
}

func currentUserId(ctx *fiber.Ctx) uuid.UUID {
	userIdStr, _ := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)
	return userId
}
