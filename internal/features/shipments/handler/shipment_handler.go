package handler

import (
	"errors"
	"strings"
	"time"

	"ocean-tracker/internal/core/auth"
	"ocean-tracker/internal/core/logger"
	"ocean-tracker/internal/features/shipments/domain"
	"ocean-tracker/internal/features/shipments/ports"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// IdempotencyHeader lets clients safely retry POST /send.
const IdempotencyHeader = "Idempotency-Key"

// ShipmentHandler handles HTTP requests for shipments.
type ShipmentHandler struct {
	service ports.ShipmentService
}

// NewShipmentHandler creates a new ShipmentHandler.
func NewShipmentHandler(service ports.ShipmentService) *ShipmentHandler {
	return &ShipmentHandler{service: service}
}

// ErrorResponse represents an error response with Ray ID.
type ErrorResponse struct {
	// Message is the error description.
	Message string `json:"message"`
	// Error carries the underlying cause for server errors.
	Error string `json:"error,omitempty"`
	// RayID is the unique request identifier for tracing.
	RayID string `json:"ray_id"`
}

// SendShipmentRequest is the body of POST /api/shipments/send.
type SendShipmentRequest struct {
	ItemTypes        []string `json:"itemTypes"`
	RecipientID      string   `json:"recipientId"`
	RecipientName    string   `json:"recipientName"`
	RecipientEmail   string   `json:"recipientEmail"`
	RecipientAddress string   `json:"recipientAddress"`
	RecipientPhone   string   `json:"recipientPhone"`
	Branch           string   `json:"branch"`
	Notes            string   `json:"notes"`
}

// DirectShipmentRequest is the body of POST /api/shipments/admin.
type DirectShipmentRequest struct {
	TrackingNumber    string     `json:"trackingNumber"`
	Status            string     `json:"status"`
	Origin            string     `json:"origin"`
	Destination       string     `json:"destination"`
	EstimatedDelivery *time.Time `json:"estimatedDelivery"`
	SenderID          string     `json:"senderId"`
	SenderName        string     `json:"senderName"`
	RecipientID       string     `json:"recipientId"`
	RecipientName     string     `json:"recipientName"`
	RecipientEmail    string     `json:"recipientEmail"`
	DriverID          string     `json:"driverId"`
	DriverName        string     `json:"driverName"`
	ItemTypes         []string   `json:"itemTypes"`
	Notes             string     `json:"notes"`
}

// SetStatusRequest is the body of PUT /admin/:id/status.
type SetStatusRequest struct {
	Status     string  `json:"status"`
	Location   string  `json:"location"`
	DriverID   string  `json:"driverId"`
	DriverName string  `json:"driverName"`
	Notes      *string `json:"notes"`
}

// AssignDriverRequest is the body of PUT /admin/:id/assign-driver.
type AssignDriverRequest struct {
	DriverID   string `json:"driverId"`
	DriverName string `json:"driverName"`
	Location   string `json:"location"`
}

// ConfirmHandoverRequest is the body of PUT /admin/:id/confirm-handover.
type ConfirmHandoverRequest struct {
	AdminNote string `json:"adminNote"`
	Location  string `json:"location"`
}

// StepRequest is the optional body of driver and recipient steps.
type StepRequest struct {
	Note     string `json:"note"`
	Location string `json:"location"`
}

// StatsResponse is the admin dashboard aggregation.
type StatsResponse struct {
	Total    int64                   `json:"total"`
	ByStatus map[domain.Status]int64 `json:"byStatus"`
}

// RegisterRoutes mounts every shipment route under /api/shipments.
// Literal paths are registered before /:id so they are never captured by it.
func (h *ShipmentHandler) RegisterRoutes(router fiber.Router, secret string) {
	api := router.Group("/api/shipments")
	authn := auth.Middleware(secret)

	api.Get("/track/:trackingNumber", h.Track)
	api.Post("/send", authn, h.CreateSend)

	admin := api.Group("/admin", authn, auth.RequireRole(auth.RoleAdmin))
	admin.Post("", h.CreateDirect)
	admin.Get("", h.ListAdmin)
	admin.Get("/stats", h.Stats)
	admin.Put("/:id/status", h.SetStatus)
	admin.Put("/:id/assign-driver", h.AssignDriver)
	admin.Put("/:id/confirm-handover", h.ConfirmHandover)
	admin.Put("/:id/deliver", h.DeliverToRecipient)

	driver := api.Group("/driver", authn, auth.RequireRole(auth.RoleDriver))
	driver.Get("", h.ListDriver)
	driver.Put("/:id/request-pickup", h.RequestPickup)
	driver.Put("/:id/pickup", h.RequestPickup)
	driver.Put("/:id/handover", h.RequestHandover)

	api.Get("/user", authn, h.ListSent)
	api.Put("/user/:id/confirm-pickup", authn, h.ConfirmPickup)
	api.Get("/incoming", authn, h.ListIncoming)
	api.Put("/recipient/:id/confirm-delivery", authn, h.ConfirmDelivery)

	api.Get("/:id", authn, h.Get)
}

// Track godoc
// @Summary Track a shipment
// @Description Public lookup of a shipment and its tracking history by tracking number
// @Tags shipments
// @Produce json
// @Param trackingNumber path string true "Tracking Number"
// @Success 200 {object} domain.Shipment
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/shipments/track/{trackingNumber} [get]
func (h *ShipmentHandler) Track(c *fiber.Ctx) error {
	s, err := h.service.Track(c.Context(), c.Params("trackingNumber"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(s)
}

// CreateSend godoc
// @Summary Send a shipment
// @Description Creates a Pending shipment for the authenticated sender
// @Tags shipments
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param Idempotency-Key header string false "Client chosen key for safe retries"
// @Param shipment body SendShipmentRequest true "Shipment details"
// @Success 201 {object} domain.Shipment
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/shipments/send [post]
func (h *ShipmentHandler) CreateSend(c *fiber.Ctx) error {
	var req SendShipmentRequest
	if err := c.BodyParser(&req); err != nil {
		return h.badBody(c)
	}

	s, err := h.service.CreateSend(c.Context(), actorFrom(c), domain.SendRequest{
		ItemTypes:        req.ItemTypes,
		RecipientID:      req.RecipientID,
		RecipientName:    req.RecipientName,
		RecipientEmail:   req.RecipientEmail,
		RecipientAddress: req.RecipientAddress,
		RecipientPhone:   req.RecipientPhone,
		Branch:           req.Branch,
		Notes:            req.Notes,
	}, c.Get(IdempotencyHeader))
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(s)
}

// CreateDirect godoc
// @Summary Create a shipment as admin
// @Description Inserts a shipment with the given status; a tracking number is generated when omitted
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param shipment body DirectShipmentRequest true "Shipment"
// @Success 201 {object} domain.Shipment
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/shipments/admin [post]
func (h *ShipmentHandler) CreateDirect(c *fiber.Ctx) error {
	var req DirectShipmentRequest
	if err := c.BodyParser(&req); err != nil {
		return h.badBody(c)
	}

	direct := domain.DirectRequest{
		TrackingNumber: strings.ToUpper(strings.TrimSpace(req.TrackingNumber)),
		Status:         domain.Status(strings.TrimSpace(req.Status)),
		Origin:         req.Origin,
		Destination:    req.Destination,
		SenderID:       req.SenderID,
		SenderName:     req.SenderName,
		RecipientID:    req.RecipientID,
		RecipientName:  req.RecipientName,
		RecipientEmail: req.RecipientEmail,
		DriverID:       req.DriverID,
		DriverName:     req.DriverName,
		ItemTypes:      req.ItemTypes,
		Notes:          req.Notes,
	}
	if req.EstimatedDelivery != nil {
		direct.EstimatedDelivery = *req.EstimatedDelivery
	}

	s, err := h.service.CreateDirect(c.Context(), actorFrom(c), direct)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(s)
}

// ListAdmin godoc
// @Summary List all shipments
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Param status query string false "Exact status"
// @Param search query string false "Tracking number, sender or recipient name"
// @Success 200 {array} domain.Shipment
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /api/shipments/admin [get]
func (h *ShipmentHandler) ListAdmin(c *fiber.Ctx) error {
	return h.list(c, domain.ViewAdmin, domain.ListFilters{
		Status: c.Query("status"),
		Search: c.Query("search"),
	})
}

// Stats godoc
// @Summary Shipment counts per status
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} StatsResponse
// @Failure 403 {object} ErrorResponse
// @Router /api/shipments/admin/stats [get]
func (h *ShipmentHandler) Stats(c *fiber.Ctx) error {
	counts, err := h.service.StatusCounts(c.Context(), actorFrom(c))
	if err != nil {
		return h.fail(c, err)
	}

	var total int64
	for _, n := range counts {
		total += n
	}
	return c.JSON(StatsResponse{Total: total, ByStatus: counts})
}

// SetStatus godoc
// @Summary Set a shipment status
// @Description Admin override; any enumerated status is accepted
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Shipment ID"
// @Param body body SetStatusRequest true "New status"
// @Success 200 {object} domain.Shipment
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/shipments/admin/{id}/status [put]
func (h *ShipmentHandler) SetStatus(c *fiber.Ctx) error {
	var req SetStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return h.badBody(c)
	}

	status, err := domain.ParseStatus(req.Status)
	if err != nil {
		return h.fail(c, err)
	}

	return h.transition(c, domain.ActionSetStatus, domain.TransitionInput{
		Status:     status,
		Location:   req.Location,
		DriverID:   req.DriverID,
		DriverName: req.DriverName,
		Notes:      req.Notes,
	})
}

// AssignDriver godoc
// @Summary Assign a driver
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Shipment ID"
// @Param body body AssignDriverRequest true "Driver"
// @Success 200 {object} domain.Shipment
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/shipments/admin/{id}/assign-driver [put]
func (h *ShipmentHandler) AssignDriver(c *fiber.Ctx) error {
	var req AssignDriverRequest
	if err := c.BodyParser(&req); err != nil {
		return h.badBody(c)
	}

	return h.transition(c, domain.ActionAssignDriver, domain.TransitionInput{
		DriverID:   req.DriverID,
		DriverName: req.DriverName,
		Location:   req.Location,
	})
}

// ConfirmHandover godoc
// @Summary Confirm a driver handover
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Shipment ID"
// @Param body body ConfirmHandoverRequest false "Admin note"
// @Success 200 {object} domain.Shipment
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/shipments/admin/{id}/confirm-handover [put]
func (h *ShipmentHandler) ConfirmHandover(c *fiber.Ctx) error {
	var req ConfirmHandoverRequest
	if err := parseOptional(c, &req); err != nil {
		return h.badBody(c)
	}

	return h.transition(c, domain.ActionConfirmHandover, domain.TransitionInput{
		Note:     req.AdminNote,
		Location: req.Location,
	})
}

// DeliverToRecipient godoc
// @Summary Mark a shipment delivered to the recipient
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Shipment ID"
// @Param body body StepRequest false "Location"
// @Success 200 {object} domain.Shipment
// @Failure 404 {object} ErrorResponse
// @Router /api/shipments/admin/{id}/deliver [put]
func (h *ShipmentHandler) DeliverToRecipient(c *fiber.Ctx) error {
	var req StepRequest
	if err := parseOptional(c, &req); err != nil {
		return h.badBody(c)
	}
	return h.transition(c, domain.ActionDeliverToRecipient, domain.TransitionInput{Location: req.Location})
}

// ListDriver godoc
// @Summary List the driver's active shipments
// @Tags driver
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} domain.Shipment
// @Failure 403 {object} ErrorResponse
// @Router /api/shipments/driver [get]
func (h *ShipmentHandler) ListDriver(c *fiber.Ctx) error {
	return h.list(c, domain.ViewDriver, domain.ListFilters{})
}

// RequestPickup godoc
// @Summary Request pickup from the sender
// @Tags driver
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Shipment ID"
// @Param body body StepRequest false "Note and location"
// @Success 200 {object} domain.Shipment
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/shipments/driver/{id}/request-pickup [put]
func (h *ShipmentHandler) RequestPickup(c *fiber.Ctx) error {
	var req StepRequest
	if err := parseOptional(c, &req); err != nil {
		return h.badBody(c)
	}
	return h.transition(c, domain.ActionRequestPickup, domain.TransitionInput{Note: req.Note, Location: req.Location})
}

// RequestHandover godoc
// @Summary Hand the shipment over to the branch
// @Tags driver
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Shipment ID"
// @Param body body StepRequest false "Note and location"
// @Success 200 {object} domain.Shipment
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/shipments/driver/{id}/handover [put]
func (h *ShipmentHandler) RequestHandover(c *fiber.Ctx) error {
	var req StepRequest
	if err := parseOptional(c, &req); err != nil {
		return h.badBody(c)
	}
	return h.transition(c, domain.ActionRequestHandover, domain.TransitionInput{Note: req.Note, Location: req.Location})
}

// ListSent godoc
// @Summary List shipments sent (or received and confirmed) by the caller
// @Tags user
// @Produce json
// @Security ApiKeyAuth
// @Param status query string false "Comma separated status allow-list"
// @Success 200 {array} domain.Shipment
// @Failure 400 {object} ErrorResponse
// @Router /api/shipments/user [get]
func (h *ShipmentHandler) ListSent(c *fiber.Ctx) error {
	statuses, err := domain.ParseStatusList(c.Query("status"))
	if err != nil {
		return h.fail(c, err)
	}
	return h.list(c, domain.ViewSent, domain.ListFilters{Statuses: statuses})
}

// ConfirmPickup godoc
// @Summary Confirm the driver picked the shipment up
// @Tags user
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Shipment ID"
// @Success 200 {object} domain.Shipment
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/shipments/user/{id}/confirm-pickup [put]
func (h *ShipmentHandler) ConfirmPickup(c *fiber.Ctx) error {
	var req StepRequest
	if err := parseOptional(c, &req); err != nil {
		return h.badBody(c)
	}
	return h.transition(c, domain.ActionConfirmPickup, domain.TransitionInput{Location: req.Location})
}

// ListIncoming godoc
// @Summary List shipments on their way to the caller
// @Tags user
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} domain.Shipment
// @Router /api/shipments/incoming [get]
func (h *ShipmentHandler) ListIncoming(c *fiber.Ctx) error {
	return h.list(c, domain.ViewIncoming, domain.ListFilters{})
}

// ConfirmDelivery godoc
// @Summary Confirm receipt of a delivered shipment
// @Tags user
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Shipment ID"
// @Param body body StepRequest false "Confirmation note"
// @Success 200 {object} domain.Shipment
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/shipments/recipient/{id}/confirm-delivery [put]
func (h *ShipmentHandler) ConfirmDelivery(c *fiber.Ctx) error {
	var req StepRequest
	if err := parseOptional(c, &req); err != nil {
		return h.badBody(c)
	}
	return h.transition(c, domain.ActionConfirmDelivery, domain.TransitionInput{Note: req.Note, Location: req.Location})
}

// Get godoc
// @Summary Get a shipment
// @Tags shipments
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Shipment ID"
// @Success 200 {object} domain.Shipment
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/shipments/{id} [get]
func (h *ShipmentHandler) Get(c *fiber.Ctx) error {
	s, err := h.service.Get(c.Context(), c.Params("id"), actorFrom(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(s)
}

func (h *ShipmentHandler) transition(c *fiber.Ctx, action domain.Action, in domain.TransitionInput) error {
	s, err := h.service.Transition(c.Context(), c.Params("id"), action, actorFrom(c), in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(s)
}

func (h *ShipmentHandler) list(c *fiber.Ctx, view domain.View, filters domain.ListFilters) error {
	list, err := h.service.List(c.Context(), actorFrom(c), view, filters)
	if err != nil {
		return h.fail(c, err)
	}
	if list == nil {
		list = []*domain.Shipment{}
	}
	return c.JSON(list)
}

// parseOptional decodes the body only when one was sent.
func parseOptional(c *fiber.Ctx, out any) error {
	if len(c.Body()) == 0 {
		return nil
	}
	return c.BodyParser(out)
}

func actorFrom(c *fiber.Ctx) domain.Actor {
	claims, ok := auth.FromCtx(c)
	if !ok {
		return domain.Actor{}
	}
	return domain.Actor{
		Role:   domain.Role(claims.Role),
		ID:     claims.ID,
		UserID: claims.UserID,
		Name:   claims.Name,
	}
}

func rayID(c *fiber.Ctx) string {
	id, _ := c.Locals("requestid").(string)
	return id
}

func (h *ShipmentHandler) badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
		Message: "Invalid request body",
		RayID:   rayID(c),
	})
}

func (h *ShipmentHandler) fail(c *fiber.Ctx, err error) error {
	status, message := statusFor(err)
	resp := ErrorResponse{Message: message, RayID: rayID(c)}

	if status == fiber.StatusInternalServerError {
		resp.Error = err.Error()
		logger.Get().Error("Shipment request failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("ray_id", resp.RayID),
			zap.Error(err),
		)
	}
	return c.Status(status).JSON(resp)
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, "Shipment not found"
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, "Access denied"
	case errors.Is(err, domain.ErrInvalidStatus), errors.Is(err, domain.ErrValidation):
		return fiber.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrDuplicateTrackingNumber):
		return fiber.StatusConflict, "Tracking number already exists"
	case errors.Is(err, domain.ErrPreconditionFailed), errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict, err.Error()
	default:
		return fiber.StatusInternalServerError, "Server error"
	}
}
