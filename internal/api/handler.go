package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eyalfuks51/wedding-Eyal/internal/api/dto"
	"github.com/eyalfuks51/wedding-Eyal/internal/services"
	"github.com/eyalfuks51/wedding-Eyal/internal/whatsapp"
	"github.com/eyalfuks51/wedding-Eyal/internal/worker"
)

type Handler struct {
	automationService services.AutomationService
	reminderService   services.ReminderService
	eventService      services.EventService
	invitationService services.InvitationService
	sender            whatsapp.Sender
	jobManager        *worker.JobManager
	appCtx            context.Context
}

func NewHandler(
	automationService services.AutomationService,
	reminderService services.ReminderService,
	eventService services.EventService,
	invitationService services.InvitationService,
	sender whatsapp.Sender,
	jobManager *worker.JobManager,
	ctx context.Context,
) *Handler {
	return &Handler{
		automationService: automationService,
		reminderService:   reminderService,
		eventService:      eventService,
		invitationService: invitationService,
		sender:            sender,
		jobManager:        jobManager,
		appCtx:            ctx,
	}
}

// runAutomationHandler
// @Summary      Runs the date-driven stage engine
// @Description  Evaluates every active reminder stage and queues message-log
// rows for recipients inside an open calendar window. force_run bypasses the
// past-events guard.
// @Tags         Automation
// @Accept       json
// @Produce      json
// @Param        options  body      dto.RunRequest  false  "Run options"
// @Success      200      {object}  domain.AutomationSummary
// @Failure      500      {object}  dto.ErrorResponse
// @Router       /automation/run [post]
func (h *Handler) runAutomationHandler(c *gin.Context) {
	var req dto.RunRequest
	// An empty or invalid body means a plain scheduled trigger.
	_ = c.ShouldBindJSON(&req)

	summary, err := h.automationService.Run(c.Request.Context(), req.ForceRun)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "Failed to fetch settings",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, summary)
}

// runRemindersHandler
// @Summary      Runs the cooldown reminder scheduler
// @Description  Nudges pending invitations of reminder-enabled events within
// the operating-hours window. force_run bypasses time and cooldown gates;
// event_id narrows the run to one event.
// @Tags         Automation
// @Accept       json
// @Produce      json
// @Param        options  body      dto.ReminderRunRequest  false  "Run options"
// @Success      200      {object}  domain.ReminderSummary
// @Failure      500      {object}  dto.ErrorResponse
// @Router       /reminders/run [post]
func (h *Handler) runRemindersHandler(c *gin.Context) {
	var req dto.ReminderRunRequest
	_ = c.ShouldBindJSON(&req)

	summary, err := h.reminderService.Run(c.Request.Context(), services.ReminderRunOptions{
		ForceRun: req.ForceRun,
		EventID:  req.EventID,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "Internal server error",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, summary)
}

// toggleJobHandler
// @Summary      Starts or stops the background automation job
// @Description  Toggles the ticker job based on its current state. If it is
// running, it will be stopped; if it is stopped, it will be started.
// @Tags         Automation
// @Produce      json
// @Success      200  {object}  dto.JobResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /automation/toggle-job [put]
func (h *Handler) toggleJobHandler(c *gin.Context) {
	var err error
	var response dto.JobResponse

	if h.jobManager.IsRunning() {
		err = h.jobManager.Stop()
		response = dto.JobResponse{Status: "stopped"}
	} else {
		err = h.jobManager.Start(h.appCtx)
		response = dto.JobResponse{Status: "started"}
	}

	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, response)
}
