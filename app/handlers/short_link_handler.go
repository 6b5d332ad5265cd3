package handlers

import (
	"context"
	"log"
	"time"

	"github.com/amirphl/Kusanagi/app/dto"
	"github.com/amirphl/Kusanagi/app/middleware"
	businessflow "github.com/amirphl/Kusanagi/business_flow"
	"github.com/amirphl/Kusanagi/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// ShortLinkHandlerInterface defines the contract for short link handlers
type ShortLinkHandlerInterface interface {
	Create(c fiber.Ctx) error
	List(c fiber.Ctx) error
	Update(c fiber.Ctx) error
	Delete(c fiber.Ctx) error
	ExportCSV(c fiber.Ctx) error
	ExportExcel(c fiber.Ctx) error
	Visit(c fiber.Ctx) error
}

// ShortLinkHandler handles short link management and public resolution
type ShortLinkHandler struct {
	linkFlow   businessflow.ShortLinkFlow
	visitFlow  businessflow.ShortLinkVisitFlow
	exportFlow businessflow.ShortLinkExportFlow
	validator  *validator.Validate
}

// NewShortLinkHandler creates a new short link handler
func NewShortLinkHandler(
	linkFlow businessflow.ShortLinkFlow,
	visitFlow businessflow.ShortLinkVisitFlow,
	exportFlow businessflow.ShortLinkExportFlow,
) *ShortLinkHandler {
	return &ShortLinkHandler{
		linkFlow:   linkFlow,
		visitFlow:  visitFlow,
		exportFlow: exportFlow,
		validator:  validator.New(),
	}
}

func (h *ShortLinkHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *ShortLinkHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// caller builds the flow caller from auth middleware locals.
// Returns nil when the request is anonymous.
func (h *ShortLinkHandler) caller(c fiber.Ctx) *businessflow.Caller {
	userID, ok := c.Locals("user_id").(uint)
	if !ok {
		return nil
	}
	email, _ := c.Locals("email").(string)
	return &businessflow.Caller{UserID: userID, Email: email}
}

// Create creates a new short link
// @Summary Create Short Link
// @Description Shorten a URL. Authentication is optional; anonymous requests create ownerless links.
// @Tags ShortLinks
// @Accept json
// @Produce json
// @Param request body dto.ShortenRequest true "URL to shorten"
// @Success 201 {object} dto.APIResponse{data=dto.ShortenResponse} "Short link created"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/links [post]
func (h *ShortLinkHandler) Create(c fiber.Ctx) error {
	var req dto.ShortenRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	result, err := h.linkFlow.Shorten(h.createRequestContext(c, "/api/v1/links"), &req, h.caller(c), metadata)
	if err != nil {
		log.Println("Create short link failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create short link", "SHORTEN_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, result.Message, result)
}

// List returns the caller's active short links
// @Summary List Short Links
// @Description List all active short links owned by the authenticated user
// @Tags ShortLinks
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.ListShortLinksResponse} "Short links retrieved"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/links [get]
// @Security BearerAuth
func (h *ShortLinkHandler) List(c fiber.Ctx) error {
	caller := h.caller(c)
	if caller == nil {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHORIZED", nil)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	result, err := h.linkFlow.List(h.createRequestContext(c, "/api/v1/links"), caller, metadata)
	if err != nil {
		log.Println("List short links failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list short links", "LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Short links retrieved", result)
}

// Update replaces the destination URL of an owned short link
// @Summary Update Short Link
// @Description Replace the original URL of a short link owned by the authenticated user
// @Tags ShortLinks
// @Accept json
// @Produce json
// @Param code path string true "Short code"
// @Param request body dto.UpdateShortLinkRequest true "New destination URL"
// @Success 200 {object} dto.APIResponse{data=dto.ShortLinkDTO} "Short link updated"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 404 {object} dto.APIResponse "Short link not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/links/{code} [patch]
// @Security BearerAuth
func (h *ShortLinkHandler) Update(c fiber.Ctx) error {
	caller := h.caller(c)
	if caller == nil {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHORIZED", nil)
	}

	code := c.Params("code")
	if code == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Short code is required", "INVALID_REQUEST", nil)
	}

	var req dto.UpdateShortLinkRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	result, err := h.linkFlow.Update(h.createRequestContext(c, "/api/v1/links/"+code), code, &req, caller, metadata)
	if err != nil {
		if businessflow.IsShortLinkNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Short link not found", "SHORT_LINK_NOT_FOUND", nil)
		}

		log.Println("Update short link failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update short link", "UPDATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Short link updated", result)
}

// Delete soft-deletes an owned short link
// @Summary Delete Short Link
// @Description Soft-delete a short link owned by the authenticated user. Deletion is permanent.
// @Tags ShortLinks
// @Produce json
// @Param code path string true "Short code"
// @Success 200 {object} dto.APIResponse "Short link deleted"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 404 {object} dto.APIResponse "Short link not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/links/{code} [delete]
// @Security BearerAuth
func (h *ShortLinkHandler) Delete(c fiber.Ctx) error {
	caller := h.caller(c)
	if caller == nil {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHORIZED", nil)
	}

	code := c.Params("code")
	if code == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Short code is required", "INVALID_REQUEST", nil)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	err := h.linkFlow.Delete(h.createRequestContext(c, "/api/v1/links/"+code), code, caller, metadata)
	if err != nil {
		if businessflow.IsShortLinkNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Short link not found", "SHORT_LINK_NOT_FOUND", nil)
		}

		log.Println("Delete short link failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete short link", "DELETE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Short link deleted", nil)
}

// ExportCSV downloads the caller's active short links as CSV
// @Summary Export Short Links CSV
// @Tags ShortLinks
// @Produce text/csv
// @Success 200 {string} string "CSV file"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/links/export/csv [get]
// @Security BearerAuth
func (h *ShortLinkHandler) ExportCSV(c fiber.Ctx) error {
	caller := h.caller(c)
	if caller == nil {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHORIZED", nil)
	}

	filename, data, err := h.exportFlow.ExportCSV(h.createRequestContext(c, "/api/v1/links/export/csv"), caller)
	if err != nil {
		log.Println("Export short links CSV failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to export short links", "EXPORT_FAILED", nil)
	}

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}

// ExportExcel downloads the caller's active short links as an xlsx workbook
// @Summary Export Short Links Excel
// @Tags ShortLinks
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {string} string "Excel file"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/links/export/excel [get]
// @Security BearerAuth
func (h *ShortLinkHandler) ExportExcel(c fiber.Ctx) error {
	caller := h.caller(c)
	if caller == nil {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHORIZED", nil)
	}

	filename, data, err := h.exportFlow.ExportExcel(h.createRequestContext(c, "/api/v1/links/export/excel"), caller)
	if err != nil {
		log.Println("Export short links Excel failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to export short links", "EXPORT_FAILED", nil)
	}

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}

// Visit resolves a short link, counts the click and redirects
// @Summary Visit Short Link
// @Description Resolve a short code and redirect to its destination. Owned links resolve only for their owner.
// @Tags ShortLinks
// @Produce json
// @Param code path string true "Short code"
// @Success 302 {string} string "Redirect"
// @Failure 401 {object} any "Unauthorized"
// @Failure 404 {object} any "Not found"
// @Failure 500 {object} any "Internal error"
// @Router /s/{code} [get]
func (h *ShortLinkHandler) Visit(c fiber.Ctx) error {
	code := c.Params("code")
	if code == "" {
		return c.Status(fiber.StatusBadRequest).SendString("invalid short link")
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	url, err := h.visitFlow.Visit(h.createRequestContextWithTimeout(c, "/s/"+code, 10*time.Second), code, h.caller(c), metadata)
	if err != nil {
		if businessflow.IsShortLinkNotFound(err) {
			middleware.CountShortLinkVisit("not_found")
			return c.Status(fiber.StatusNotFound).SendString("not found")
		}
		if businessflow.IsShortLinkUnauthorized(err) {
			middleware.CountShortLinkVisit("unauthorized")
			return c.Status(fiber.StatusUnauthorized).SendString("unauthorized")
		}
		middleware.CountShortLinkVisit("error")
		log.Println("Visit short link failed", err)
		return c.Status(fiber.StatusInternalServerError).SendString("internal error")
	}

	middleware.CountShortLinkVisit("resolved")
	return c.Redirect().Status(fiber.StatusFound).To(url)
}

func (h *ShortLinkHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return h.createRequestContextWithTimeout(c, endpoint, 30*time.Second)
}

func (h *ShortLinkHandler) createRequestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)

	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.TimeoutKey, timeout)
	ctx = context.WithValue(ctx, utils.CancelFuncKey, cancel)

	return ctx
}
