package handlers

import (
	"net/http"

	request "devis_broker/internal/adapter/http/dto/request"
	response "devis_broker/internal/adapter/http/dto/response"
	"devis_broker/internal/domain/entities"
	"devis_broker/internal/domain/lifecycle"
	"devis_broker/internal/usecase"
	"devis_broker/pkg"

	"github.com/gin-gonic/gin"
)

var (
	errInvalidQuotePayload = pkg.NewDomainErrorSimple("INVALID_QUOTE_INPUT", "Invalid quote payload", http.StatusBadRequest)
	errInvalidOffer        = pkg.NewDomainErrorSimple("INVALID_OFFER", "Offer amount must be a positive number", http.StatusBadRequest)
)

// QuoteHandler serves the quote endpoints of the three dashboards. Every
// response is projected for the calling role.

type QuoteHandler struct {
	usecase usecase.IQuoteUseCase
}

func NewQuoteHandler(uc usecase.IQuoteUseCase) *QuoteHandler {
	return &QuoteHandler{usecase: uc}
}

// CreateQuote godoc
// @Summary Request a quote
// @Description Creates a pending quote. Without forwarder_id the first active forwarder is assigned.
// @Tags quotes
// @Accept json
// @Produce json
// @Param X-Actor-ID header string true "Customer id"
// @Param X-Actor-Role header string true "customer"
// @Param quote body request.CreateQuoteRequest true "Quote request"
// @Success 201 {object} response.QuoteResponse
// @Failure 400 {object} pkg.HTTPError
// @Failure 422 {object} pkg.HTTPError "Unknown or inactive forwarder"
// @Router /quotes [post]
func (h *QuoteHandler) CreateQuote(c *gin.Context) {
	actor, ok := actorFromRequest(c)
	if !ok {
		return
	}
	var payload request.CreateQuoteRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeError(c, errInvalidQuotePayload)
		return
	}
	cmd, err := payload.ToCommand()
	if err != nil {
		writeError(c, errInvalidQuotePayload.WithDetails(map[string]any{"reason": err.Error()}))
		return
	}

	q, err := h.usecase.CreateQuote(c.Request.Context(), actor, cmd)
	if err != nil {
		writeError(c, mapUseCaseError(err))
		return
	}
	c.JSON(http.StatusCreated, response.FromQuote(q, actor.Role))
}

// ListQuotes godoc
// @Summary List quotes visible to the caller
// @Tags quotes
// @Produce json
// @Param status query string false "Status filter"
// @Param page query int false "Page (1-based)"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.QuotePageResponse
// @Router /quotes [get]
func (h *QuoteHandler) ListQuotes(c *gin.Context) {
	actor, ok := actorFromRequest(c)
	if !ok {
		return
	}
	var query request.ListQuotesRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		writeError(c, errInvalidRequest)
		return
	}

	page, err := h.usecase.ListQuotes(c.Request.Context(), actor, query.ToQuery())
	if err != nil {
		writeError(c, mapUseCaseError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromQuotePage(page, actor.Role))
}

// GetQuote godoc
// @Summary Get a quote
// @Tags quotes
// @Produce json
// @Param id path string true "Quote id"
// @Success 200 {object} response.QuoteResponse
// @Failure 403 {object} pkg.HTTPError
// @Failure 404 {object} pkg.HTTPError
// @Router /quotes/{id} [get]
func (h *QuoteHandler) GetQuote(c *gin.Context) {
	actor, ok := actorFromRequest(c)
	if !ok {
		return
	}
	q, err := h.usecase.GetQuote(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		writeError(c, mapUseCaseError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromQuote(q, actor.Role))
}

// UpdateQuote godoc
// @Summary Edit a pending quote
// @Tags quotes
// @Accept json
// @Produce json
// @Param id path string true "Quote id"
// @Param quote body request.UpdateQuoteRequest true "Fields to change"
// @Success 200 {object} response.QuoteResponse
// @Failure 409 {object} pkg.HTTPError
// @Router /quotes/{id} [patch]
func (h *QuoteHandler) UpdateQuote(c *gin.Context) {
	actor, ok := actorFromRequest(c)
	if !ok {
		return
	}
	var payload request.UpdateQuoteRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeError(c, errInvalidQuotePayload)
		return
	}
	q, err := h.usecase.UpdateDetails(c.Request.Context(), c.Param("id"), actor, payload.ToCommand())
	if err != nil {
		writeError(c, mapUseCaseError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromQuote(q, actor.Role))
}

// AddAttachments godoc
// @Summary Attach files to a pending quote
// @Tags quotes
// @Accept json
// @Produce json
// @Param id path string true "Quote id"
// @Param attachments body request.AddAttachmentsRequest true "File references"
// @Success 200 {object} response.QuoteResponse
// @Router /quotes/{id}/attachments [post]
func (h *QuoteHandler) AddAttachments(c *gin.Context) {
	actor, ok := actorFromRequest(c)
	if !ok {
		return
	}
	var payload request.AddAttachmentsRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeError(c, errInvalidQuotePayload)
		return
	}
	q, err := h.usecase.AddAttachments(c.Request.Context(), c.Param("id"), actor, payload.ToAttachments())
	if err != nil {
		writeError(c, mapUseCaseError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromQuote(q, actor.Role))
}

// AssignForwarder godoc
// @Summary Route an unassigned quote to a forwarder
// @Tags quotes
// @Accept json
// @Produce json
// @Param id path string true "Quote id"
// @Param assignment body request.AssignForwarderRequest true "Forwarder"
// @Success 200 {object} response.QuoteResponse
// @Failure 409 {object} pkg.HTTPError "Already assigned or no longer pending"
// @Router /quotes/{id}/assign [patch]
func (h *QuoteHandler) AssignForwarder(c *gin.Context) {
	actor, ok := actorFromRequest(c)
	if !ok {
		return
	}
	var payload request.AssignForwarderRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeError(c, errInvalidRequest)
		return
	}
	q, err := h.usecase.AssignForwarder(c.Request.Context(), c.Param("id"), actor, payload.ForwarderID)
	if err != nil {
		writeError(c, mapUseCaseError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromQuote(q, actor.Role))
}

// RespondQuote godoc
// @Summary Send or replace the offer
// @Tags quotes
// @Accept json
// @Produce json
// @Param id path string true "Quote id"
// @Param offer body request.RespondQuoteRequest true "Offer"
// @Success 200 {object} response.QuoteResponse
// @Failure 409 {object} pkg.HTTPError "Invalid transition or expired quote"
// @Router /quotes/{id}/respond [patch]
func (h *QuoteHandler) RespondQuote(c *gin.Context) {
	actor, ok := actorFromRequest(c)
	if !ok {
		return
	}
	var payload request.RespondQuoteRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeError(c, errInvalidOffer)
		return
	}
	offer, err := payload.ToPayload()
	if err != nil {
		writeError(c, errInvalidOffer)
		return
	}
	h.transition(c, actor, lifecycle.ActionRespond, offer)
}

// @Summary Refuse a quote
// @Tags quotes
// @Param id path string true "Quote id"
// @Success 200 {object} response.QuoteResponse
// @Router /quotes/{id}/refuse [patch]
func (h *QuoteHandler) RefuseQuote(c *gin.Context) {
	h.simpleTransition(c, lifecycle.ActionRefuse)
}

// @Summary Cancel a quote
// @Tags quotes
// @Param id path string true "Quote id"
// @Success 200 {object} response.QuoteResponse
// @Router /quotes/{id}/cancel [patch]
func (h *QuoteHandler) CancelQuote(c *gin.Context) {
	h.simpleTransition(c, lifecycle.ActionCancel)
}

// @Summary Archive a closed quote
// @Tags quotes
// @Param id path string true "Quote id"
// @Success 200 {object} response.QuoteResponse
// @Router /quotes/{id}/archive [patch]
func (h *QuoteHandler) ArchiveQuote(c *gin.Context) {
	h.simpleTransition(c, lifecycle.ActionArchive)
}

// @Summary Mark an accepted quote processed
// @Tags quotes
// @Param id path string true "Quote id"
// @Success 200 {object} response.QuoteResponse
// @Router /quotes/{id}/process [patch]
func (h *QuoteHandler) ProcessQuote(c *gin.Context) {
	h.simpleTransition(c, lifecycle.ActionProcess)
}

func (h *QuoteHandler) simpleTransition(c *gin.Context, action lifecycle.Action) {
	actor, ok := actorFromRequest(c)
	if !ok {
		return
	}
	h.transition(c, actor, action, lifecycle.ResponsePayload{})
}

func (h *QuoteHandler) transition(c *gin.Context, actor entities.Actor, action lifecycle.Action, payload lifecycle.ResponsePayload) {
	q, err := h.usecase.Transition(c.Request.Context(), c.Param("id"), actor, action, payload)
	if err != nil {
		writeError(c, mapUseCaseError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromQuote(q, actor.Role))
}
