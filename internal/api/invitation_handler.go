package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eyalfuks51/wedding-Eyal/internal/api/dto"
	"github.com/eyalfuks51/wedding-Eyal/internal/domain"
	"github.com/eyalfuks51/wedding-Eyal/internal/types"
)

// listInvitationsHandler
// @Summary      Lists an event's invitations
// @Tags         Invitations
// @Produce      json
// @Param        slug  path      string  true  "Event slug"
// @Success      200   {object}  dto.InvitationsResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /events/{slug}/invitations [get]
func (h *Handler) listInvitationsHandler(c *gin.Context) {
	invitations, err := h.invitationService.ListForEvent(c.Request.Context(), c.Param("slug"))
	if errors.Is(err, types.ErrNotFound) {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "event not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "unexpected error occurred while fetching invitations"})
		return
	}
	c.JSON(http.StatusOK, dto.ToInvitationResponseList(invitations))
}

// createInvitationHandler
// @Summary      Creates an invitation
// @Tags         Invitations
// @Accept       json
// @Produce      json
// @Param        slug        path      string                       true  "Event slug"
// @Param        invitation  body      dto.CreateInvitationRequest  true  "Invitation"
// @Success      201         {object}  dto.InvitationResponse
// @Failure      400         {object}  dto.ErrorResponse
// @Failure      404         {object}  dto.ErrorResponse
// @Failure      500         {object}  dto.ErrorResponse
// @Router       /events/{slug}/invitations [post]
func (h *Handler) createInvitationHandler(c *gin.Context) {
	var req dto.CreateInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid Request: " + err.Error()})
		return
	}

	// New invitations join the automation flow unless explicitly opted out.
	isAutomated := true
	if req.IsAutomated != nil {
		isAutomated = *req.IsAutomated
	}

	inv := domain.Invitation{
		GroupName:    req.GroupName,
		PhoneNumbers: req.PhoneNumbers,
		InvitedPax:   req.InvitedPax,
		RSVPStatus:   domain.RSVPPending,
		IsAutomated:  isAutomated,
	}

	err := h.invitationService.Create(c.Request.Context(), c.Param("slug"), &inv)
	if errors.Is(err, types.ErrNotFound) {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "event not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "unexpected error occurred while creating invitation"})
		return
	}
	c.JSON(http.StatusCreated, dto.ToInvitationResponse(inv))
}

// updateInvitationHandler
// @Summary      Updates an invitation
// @Tags         Invitations
// @Accept       json
// @Produce      json
// @Param        id          path      string                       true  "Invitation id"
// @Param        invitation  body      dto.UpdateInvitationRequest  true  "Invitation"
// @Success      200         {object}  dto.InvitationResponse
// @Failure      400         {object}  dto.ErrorResponse
// @Failure      404         {object}  dto.ErrorResponse
// @Failure      500         {object}  dto.ErrorResponse
// @Router       /invitations/{id} [patch]
func (h *Handler) updateInvitationHandler(c *gin.Context) {
	var req dto.UpdateInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid Request: " + err.Error()})
		return
	}

	inv := domain.Invitation{
		ID:           c.Param("id"),
		GroupName:    req.GroupName,
		PhoneNumbers: req.PhoneNumbers,
		InvitedPax:   req.InvitedPax,
		RSVPStatus:   domain.RSVPStatus(req.RSVPStatus),
		IsAutomated:  req.IsAutomated,
	}

	err := h.invitationService.Update(c.Request.Context(), &inv)
	if errors.Is(err, types.ErrNotFound) {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "invitation not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "unexpected error occurred while updating invitation"})
		return
	}
	c.JSON(http.StatusOK, dto.ToInvitationResponse(inv))
}

// deleteInvitationHandler
// @Summary      Deletes an invitation
// @Tags         Invitations
// @Produce      json
// @Param        id  path  string  true  "Invitation id"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /invitations/{id} [delete]
func (h *Handler) deleteInvitationHandler(c *gin.Context) {
	err := h.invitationService.Delete(c.Request.Context(), c.Param("id"))
	if errors.Is(err, types.ErrNotFound) {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "invitation not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "unexpected error occurred while deleting invitation"})
		return
	}
	c.Status(http.StatusNoContent)
}
