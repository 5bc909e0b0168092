package handler

import (
	"context"
	"errors"
	"time"

	"github.com/LatinRickshaw/social-media-agentic-solution/internal/config"
	"github.com/LatinRickshaw/social-media-agentic-solution/internal/decision"
	"github.com/LatinRickshaw/social-media-agentic-solution/internal/dto"
	"github.com/LatinRickshaw/social-media-agentic-solution/internal/middleware"
	"github.com/LatinRickshaw/social-media-agentic-solution/internal/model"
	"github.com/LatinRickshaw/social-media-agentic-solution/internal/quality"
	"github.com/LatinRickshaw/social-media-agentic-solution/internal/repository"
	"github.com/LatinRickshaw/social-media-agentic-solution/internal/response"
	"github.com/LatinRickshaw/social-media-agentic-solution/internal/usecase"
	"github.com/LatinRickshaw/social-media-agentic-solution/internal/util"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type GenerationService interface {
	GeneratePost(ctx context.Context, req dto.GeneratePostRequest) (*model.Post, error)
	GenerateAllPlatforms(ctx context.Context, req dto.GenerateAllRequest) (*dto.GenerateAllResponse, error)
	RegenerateImage(ctx context.Context, id uuid.UUID) (*model.Post, error)
	RegeneratePost(ctx context.Context, id uuid.UUID, req dto.RegenerateRequest) (*model.Post, error)
}

type AutomationService interface {
	Evaluate(ctx context.Context, req dto.EvaluateRequest) (*decision.Result, error)
	EvaluatePost(ctx context.Context, id uuid.UUID) (*dto.EvaluatePostResponse, error)
	Publish(ctx context.Context, id uuid.UUID) (*dto.PublishResponse, error)
}

type ReviewService interface {
	Get(ctx context.Context, id uuid.UUID) (*dto.PostDetail, error)
	List(ctx context.Context, filter repository.PostFilter, page, pageSize int) ([]model.Post, int64, error)
	Approve(ctx context.Context, id uuid.UUID, req dto.ApproveRequest) (*model.Post, error)
	Reject(ctx context.Context, id uuid.UUID, req dto.RejectRequest) (*model.Post, error)
	RecordMetrics(ctx context.Context, id uuid.UUID, req dto.MetricsRequest) (*model.PerformanceMetric, error)
	Analytics(ctx context.Context) ([]model.AnalyticsSummary, error)
}

type PostHandler struct {
	generation GenerationService
	automation AutomationService
	review     ReviewService
}

func NewPostHandler(generation GenerationService, automation AutomationService, review ReviewService) *PostHandler {
	return &PostHandler{generation: generation, automation: automation, review: review}
}

func (h *PostHandler) RegisterRoutes(app *fiber.App) {
	// generation calls several models per request
	generateLimit := middleware.RateLimiter("generate", 5, time.Minute)

	posts := app.Group("/posts")
	posts.Post("/generate", generateLimit, h.Generate)
	posts.Post("/generate-all", generateLimit, h.GenerateAll)
	posts.Get("", h.List)
	posts.Get("/:id", h.Get)
	posts.Post("/:id/evaluate", h.EvaluatePost)
	posts.Post("/:id/approve", h.Approve)
	posts.Post("/:id/reject", h.Reject)
	posts.Post("/:id/publish", h.Publish)
	posts.Post("/:id/regenerate", generateLimit, h.Regenerate)
	posts.Post("/:id/regenerate-image", generateLimit, h.RegenerateImage)
	posts.Post("/:id/metrics", h.RecordMetrics)

	app.Get("/analytics", h.Analytics)
	app.Post("/evaluate", h.Evaluate)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
}

func (h *PostHandler) Generate(c *fiber.Ctx) error {
	var req dto.GeneratePostRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}
	post, err := h.generation.GeneratePost(c.UserContext(), req)
	if err != nil {
		return fail(c, "failed to generate post", err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusCreated,
		Message: "Success generate post",
		Data:    post,
	})
}

func (h *PostHandler) GenerateAll(c *fiber.Ctx) error {
	var req dto.GenerateAllRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}
	resp, err := h.generation.GenerateAllPlatforms(c.UserContext(), req)
	if err != nil {
		return fail(c, "failed to generate posts", err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusCreated,
		Message: "Success generate posts",
		Data:    resp,
	})
}

func (h *PostHandler) List(c *fiber.Ctx) error {
	page, pageSize := util.ParsePagination(c)
	filter := repository.PostFilter{
		Platform: c.Query("platform"),
		Status:   model.PostStatus(c.Query("status")),
	}
	posts, total, err := h.review.List(c.UserContext(), filter, page, pageSize)
	if err != nil {
		return fail(c, "failed to list posts", err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:       fiber.StatusOK,
		Message:    "Success list posts",
		Data:       posts,
		Pagination: response.NewPagination(page, pageSize, total),
	})
}

func (h *PostHandler) Get(c *fiber.Ctx) error {
	id, err := postID(c)
	if err != nil {
		return badRequest(c, err)
	}
	post, err := h.review.Get(c.UserContext(), id)
	if err != nil {
		return fail(c, "failed to get post", err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusOK,
		Message: "Success get post",
		Data:    post,
	})
}

func (h *PostHandler) EvaluatePost(c *fiber.Ctx) error {
	id, err := postID(c)
	if err != nil {
		return badRequest(c, err)
	}
	resp, err := h.automation.EvaluatePost(c.UserContext(), id)
	if err != nil {
		return fail(c, "failed to evaluate post", err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusOK,
		Message: "Success evaluate post",
		Data:    resp,
	})
}

func (h *PostHandler) Approve(c *fiber.Ctx) error {
	id, err := postID(c)
	if err != nil {
		return badRequest(c, err)
	}
	var req dto.ApproveRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, err)
		}
	}
	post, err := h.review.Approve(c.UserContext(), id, req)
	if err != nil {
		return fail(c, "failed to approve post", err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusOK,
		Message: "Success approve post",
		Data:    post,
	})
}

func (h *PostHandler) Reject(c *fiber.Ctx) error {
	id, err := postID(c)
	if err != nil {
		return badRequest(c, err)
	}
	var req dto.RejectRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}
	if req.Reason == "" {
		return fail(c, "failed to reject post", util.NewFormError("reason is required", map[string]string{"reason": "required"}))
	}
	post, err := h.review.Reject(c.UserContext(), id, req)
	if err != nil {
		return fail(c, "failed to reject post", err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusOK,
		Message: "Success reject post",
		Data:    post,
	})
}

func (h *PostHandler) Publish(c *fiber.Ctx) error {
	id, err := postID(c)
	if err != nil {
		return badRequest(c, err)
	}
	resp, err := h.automation.Publish(c.UserContext(), id)
	if err != nil {
		return fail(c, "failed to publish post", err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusOK,
		Message: "Success publish post",
		Data:    resp,
	})
}

func (h *PostHandler) Regenerate(c *fiber.Ctx) error {
	id, err := postID(c)
	if err != nil {
		return badRequest(c, err)
	}
	var req dto.RegenerateRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, err)
		}
	}
	post, err := h.generation.RegeneratePost(c.UserContext(), id, req)
	if err != nil {
		return fail(c, "failed to regenerate post", err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusOK,
		Message: "Success regenerate post",
		Data:    post,
	})
}

func (h *PostHandler) RegenerateImage(c *fiber.Ctx) error {
	id, err := postID(c)
	if err != nil {
		return badRequest(c, err)
	}
	post, err := h.generation.RegenerateImage(c.UserContext(), id)
	if err != nil {
		return fail(c, "failed to regenerate image", err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusOK,
		Message: "Success regenerate image",
		Data:    post,
	})
}

func (h *PostHandler) RecordMetrics(c *fiber.Ctx) error {
	id, err := postID(c)
	if err != nil {
		return badRequest(c, err)
	}
	var req dto.MetricsRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}
	m, err := h.review.RecordMetrics(c.UserContext(), id, req)
	if err != nil {
		return fail(c, "failed to record metrics", err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusCreated,
		Message: "Success record metrics",
		Data:    m,
	})
}

func (h *PostHandler) Analytics(c *fiber.Ctx) error {
	summary, err := h.review.Analytics(c.UserContext())
	if err != nil {
		return fail(c, "failed to load analytics", err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusOK,
		Message: "Success get analytics",
		Data:    summary,
	})
}

func (h *PostHandler) Evaluate(c *fiber.Ctx) error {
	var req dto.EvaluateRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}
	result, err := h.automation.Evaluate(c.UserContext(), req)
	if err != nil {
		return fail(c, "failed to evaluate content", err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusOK,
		Message: "Success evaluate content",
		Data:    result,
	})
}

func postID(c *fiber.Ctx) (uuid.UUID, error) {
	return uuid.Parse(c.Params("id"))
}

func badRequest(c *fiber.Ctx, err error) error {
	return util.ErrorResponse(c, util.ErrorResponseFormat{
		Code:    fiber.StatusBadRequest,
		Message: "invalid request",
	}, err)
}

// fail maps domain errors to HTTP status codes.
func fail(c *fiber.Ctx, message string, err error) error {
	code := fiber.StatusInternalServerError

	var formErr *util.FormError
	switch {
	case errors.As(err, &formErr):
		code = fiber.StatusBadRequest
		message = formErr.Message
	case errors.Is(err, config.ErrUnknownPlatform), errors.Is(err, quality.ErrEmptyContent):
		code = fiber.StatusBadRequest
	case errors.Is(err, repository.ErrPostNotFound):
		code = fiber.StatusNotFound
		message = "post not found"
	case errors.Is(err, model.ErrInvalidTransition),
		errors.Is(err, repository.ErrStatusConflict),
		errors.Is(err, usecase.ErrNotPublished):
		code = fiber.StatusConflict
	}

	return util.ErrorResponse(c, util.ErrorResponseFormat{
		Code:    code,
		Message: message,
	}, err)
}
