package handlers

import (
	"net/http"

	request "devis_broker/internal/adapter/http/dto/request"
	response "devis_broker/internal/adapter/http/dto/response"
	"devis_broker/internal/usecase"

	"github.com/gin-gonic/gin"
)

type ForwarderHandler struct {
	usecase usecase.IForwarderUseCase
}

func NewForwarderHandler(uc usecase.IForwarderUseCase) *ForwarderHandler {
	return &ForwarderHandler{usecase: uc}
}

// RegisterForwarder godoc
// @Summary Register a forwarder
// @Tags forwarders
// @Accept json
// @Produce json
// @Param forwarder body request.RegisterForwarderRequest true "Forwarder"
// @Success 201 {object} response.ForwarderResponse
// @Router /forwarders [post]
func (h *ForwarderHandler) RegisterForwarder(c *gin.Context) {
	actor, ok := actorFromRequest(c)
	if !ok {
		return
	}
	var payload request.RegisterForwarderRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeError(c, errInvalidRequest)
		return
	}
	f, err := h.usecase.Register(c.Request.Context(), actor, payload.Name)
	if err != nil {
		writeError(c, mapUseCaseError(err))
		return
	}
	c.JSON(http.StatusCreated, response.FromForwarder(f))
}

// ListForwarders godoc
// @Summary List forwarders
// @Tags forwarders
// @Produce json
// @Success 200 {array} response.ForwarderResponse
// @Router /forwarders [get]
func (h *ForwarderHandler) ListForwarders(c *gin.Context) {
	actor, ok := actorFromRequest(c)
	if !ok {
		return
	}
	fs, err := h.usecase.List(c.Request.Context(), actor)
	if err != nil {
		writeError(c, mapUseCaseError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromForwarders(fs))
}

// SetForwarderActive godoc
// @Summary Enable or disable a forwarder for assignment
// @Tags forwarders
// @Accept json
// @Produce json
// @Param id path string true "Forwarder id"
// @Param state body request.SetForwarderActiveRequest true "Active flag"
// @Success 200 {object} response.ForwarderResponse
// @Router /forwarders/{id}/active [patch]
func (h *ForwarderHandler) SetForwarderActive(c *gin.Context) {
	actor, ok := actorFromRequest(c)
	if !ok {
		return
	}
	var payload request.SetForwarderActiveRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeError(c, errInvalidRequest)
		return
	}
	f, err := h.usecase.SetActive(c.Request.Context(), actor, c.Param("id"), *payload.Active)
	if err != nil {
		writeError(c, mapUseCaseError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromForwarder(f))
}
