package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eyalfuks51/wedding-Eyal/internal/api/dto"
	"github.com/eyalfuks51/wedding-Eyal/internal/domain"
	"github.com/eyalfuks51/wedding-Eyal/internal/types"
)

// getEventHandler
// @Summary      Gets the public event page content
// @Description  Returns the event's content configuration for the landing
// page, served from cache when warm.
// @Tags         Events
// @Produce      json
// @Param        slug  path      string  true  "Event slug"
// @Success      200   {object}  domain.PublicEvent
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /events/{slug} [get]
func (h *Handler) getEventHandler(c *gin.Context) {
	event, err := h.eventService.PublicEvent(c.Request.Context(), c.Param("slug"))
	if errors.Is(err, types.ErrNotFound) {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "event not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "unexpected error occurred while fetching event"})
		return
	}
	c.JSON(http.StatusOK, event)
}

// submitRSVPHandler
// @Summary      Submits a guest RSVP
// @Description  Records the guest's response against the event, matching the
// invitation by phone, and mirrors the row to the event's spreadsheet.
// @Tags         Events
// @Accept       json
// @Produce      json
// @Param        slug  path      string           true  "Event slug"
// @Param        rsvp  body      dto.RSVPRequest  true  "RSVP submission"
// @Success      200   {object}  dto.InvitationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /events/{slug}/rsvp [post]
func (h *Handler) submitRSVPHandler(c *gin.Context) {
	var req dto.RSVPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid Request: " + err.Error()})
		return
	}

	inv, err := h.eventService.SubmitRSVP(c.Request.Context(), c.Param("slug"), domain.RSVPSubmission{
		FullName:     req.FullName,
		Phone:        req.Phone,
		Attending:    *req.Attending,
		GuestsCount:  req.GuestsCount,
		NeedsParking: req.NeedsParking,
	})
	if errors.Is(err, types.ErrNotFound) {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "event not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "unexpected error occurred while recording rsvp"})
		return
	}
	c.JSON(http.StatusOK, dto.ToInvitationResponse(*inv))
}
