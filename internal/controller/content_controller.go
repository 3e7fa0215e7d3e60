package controller

import (
	"errors"
	"strconv"

	"tg-content-bot/internal/pkg/serverutils"
	"tg-content-bot/internal/service"
	"tg-content-bot/internal/vectorstore"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IContentController interface {
	RegisterRoutes(r fiber.Router)
	GetRoot(ctx *fiber.Ctx) error
	GetChildren(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	GetBreadcrumb(ctx *fiber.Ctx) error
	Search(ctx *fiber.Ctx) error
}

type contentController struct {
	contentService service.IContentService
	searchService  service.ISearchService
}

func NewContentController(contentService service.IContentService, searchService service.ISearchService) IContentController {
	return &contentController{
		contentService: contentService,
		searchService:  searchService,
	}
}

func (c *contentController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/content/v1")
	h.Get("", c.GetRoot)
	h.Get("search", c.Search)
	h.Get(":id", c.Show)
	h.Get(":id/children", c.GetChildren)
	h.Get(":id/breadcrumb", c.GetBreadcrumb)
}

func (c *contentController) GetRoot(ctx *fiber.Ctx) error {
	res, err := c.contentService.GetChildren(ctx.Context(), nil)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get root content", res))
}

func (c *contentController) GetChildren(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid content id")
	}

	res, err := c.contentService.GetChildren(ctx.Context(), &id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get children", res))
}

func (c *contentController) Show(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid content id")
	}

	res, err := c.contentService.GetContent(ctx.Context(), id)
	if err != nil {
		return err
	}
	if res == nil {
		return &serverutils.NotFoundError{Message: "content not found"}
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get content", res))
}

func (c *contentController) GetBreadcrumb(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid content id")
	}

	res, err := c.contentService.GetBreadcrumb(ctx.Context(), id)
	if err != nil {
		return err
	}
	if res == nil {
		return &serverutils.NotFoundError{Message: "content not found"}
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get breadcrumb", res))
}

func (c *contentController) Search(ctx *fiber.Ctx) error {
	query := ctx.Query("q")
	if query == "" {
		return fiber.NewError(fiber.StatusBadRequest, "query parameter 'q' is required")
	}

	topK := 0
	if raw := ctx.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return fiber.NewError(fiber.StatusBadRequest, "limit must be a positive integer")
		}
		topK = parsed
	}

	res, err := c.searchService.Search(ctx.Context(), query, topK)
	if err != nil {
		if errors.Is(err, vectorstore.ErrDisabled) {
			return fiber.NewError(fiber.StatusServiceUnavailable, "semantic search is disabled")
		}
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success search content", res))
}
