package handlers

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ShaanNarendran/KRONOSButBetter/internal/calendar"
	"github.com/ShaanNarendran/KRONOSButBetter/internal/event"
	"github.com/ShaanNarendran/KRONOSButBetter/internal/fleet"
	"github.com/ShaanNarendran/KRONOSButBetter/internal/models"
	"github.com/ShaanNarendran/KRONOSButBetter/internal/services"
	"github.com/ShaanNarendran/KRONOSButBetter/internal/state"
	"github.com/ShaanNarendran/KRONOSButBetter/internal/utils"
)

type DashboardHandler struct {
	store      *state.FleetStore
	simService services.ISimulationService
	publisher  *event.SimulationPublisher
}

func NewDashboardHandler(store *state.FleetStore, simService services.ISimulationService, publisher *event.SimulationPublisher) *DashboardHandler {
	return &DashboardHandler{
		store:      store,
		simService: simService,
		publisher:  publisher,
	}
}

func (h *DashboardHandler) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/kronos/api/v1")
	api.GET("/fleet", h.GetFleet)
	api.GET("/fleet/summary", h.GetSummary)
	api.GET("/fleet/health-distribution", h.GetHealthDistribution)
	api.GET("/calendar", h.GetCalendar)
	api.GET("/explanations", h.GetExplanations)
	api.POST("/simulation/rerun", h.RerunSimulation)
	api.POST("/simulation/reload", h.ReloadSimulation)
	api.GET("/health", h.Health)
}

// GetFleet returns the per-train view models for one simulated day. A day
// with no record is not an error; the client gets an empty fleet.
func (h *DashboardHandler) GetFleet(c *gin.Context) {
	day, ok := parseDay(c)
	if !ok {
		return
	}

	viewModels := fleet.Transform(h.store.Log(), day, time.Now())
	c.JSON(http.StatusOK, utils.CreateSuccessResponse(viewModels))
}

func (h *DashboardHandler) GetSummary(c *gin.Context) {
	day, ok := parseDay(c)
	if !ok {
		return
	}

	summary := fleet.Summarize(h.store.Log(), day)
	c.JSON(http.StatusOK, utils.CreateSuccessResponse(summary))
}

func (h *DashboardHandler) GetHealthDistribution(c *gin.Context) {
	day, ok := parseDay(c)
	if !ok {
		return
	}

	viewModels := fleet.Transform(h.store.Log(), day, time.Now())
	c.JSON(http.StatusOK, utils.CreateSuccessResponse(fleet.HealthDistribution(viewModels)))
}

// GetCalendar returns the month grid the date picker renders. Year and month
// default to the current month.
func (h *DashboardHandler) GetCalendar(c *gin.Context) {
	now := time.Now()
	year := now.Year()
	month := int(now.Month())

	if raw := c.Query("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, utils.CreateErrorResponse("Bad Request", "year must be an integer"))
			return
		}
		year = parsed
	}
	if raw := c.Query("month"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 12 {
			c.JSON(http.StatusBadRequest, utils.CreateErrorResponse("Bad Request", "month must be an integer between 1 and 12"))
			return
		}
		month = parsed
	}

	selectedDay := 0
	if raw := c.Query("selected_day"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			selectedDay = parsed
		}
	}

	grid := calendar.MonthGrid(year, time.Month(month), selectedDay, now)
	c.JSON(http.StatusOK, utils.CreateSuccessResponse(grid))
}

func (h *DashboardHandler) GetExplanations(c *gin.Context) {
	explanations := h.store.Explanations()

	if raw := c.Query("day"); raw != "" {
		day, err := strconv.Atoi(raw)
		if err != nil || day < 1 {
			c.JSON(http.StatusBadRequest, utils.CreateErrorResponse("Bad Request", "day must be a positive integer"))
			return
		}
		filtered := []models.DayExplanation{}
		for _, explanation := range explanations {
			if explanation.Day == day {
				filtered = append(filtered, explanation)
			}
		}
		explanations = filtered
	}

	c.JSON(http.StatusOK, utils.CreateSuccessResponse(explanations))
}

type rerunRequest struct {
	StartDay        int            `json:"start_day"`
	ManualOverrides map[string]any `json:"manual_overrides"`
}

// RerunSimulation recomputes the log from a given day with manual overrides.
// The current log is replaced only after the gateway reports success; a
// failed rerun leaves it untouched.
func (h *DashboardHandler) RerunSimulation(c *gin.Context) {
	var req rerunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.CreateErrorResponse("Bad Request", err.Error()))
		return
	}
	if req.StartDay < 1 {
		c.JSON(http.StatusBadRequest, utils.CreateErrorResponse("Bad Request", "start_day must be a positive integer"))
		return
	}

	refreshed, err := h.simService.Rerun(c.Request.Context(), req.StartDay, req.ManualOverrides)
	if err != nil {
		log.Printf("Rerun from day %d failed: %v", req.StartDay, err)
		h.publishEvent(c, event.SimulationEvent{
			EventType: event.RerunFailed,
			StartDay:  req.StartDay,
		})
		c.JSON(http.StatusBadGateway, utils.CreateErrorResponse("Bad Gateway", "Simulation rerun failed; previous plan kept"))
		return
	}

	h.store.ReplaceLog(refreshed)
	h.publishEvent(c, event.SimulationEvent{
		EventType:  event.RerunCompleted,
		StartDay:   req.StartDay,
		DaysLoaded: len(refreshed),
	})

	c.JSON(http.StatusOK, utils.CreateSuccessResponse(fleet.Summarize(refreshed, req.StartDay)))
}

// ReloadSimulation forces a walk of the full retrieval chain and swaps in
// whatever it produces, explanations included.
func (h *DashboardHandler) ReloadSimulation(c *gin.Context) {
	refreshed := h.simService.LoadLog(c.Request.Context())
	h.store.ReplaceLog(refreshed)
	h.store.ReplaceExplanations(h.simService.FetchExplanations(c.Request.Context()))

	h.publishEvent(c, event.SimulationEvent{
		EventType:  event.LogRefreshed,
		DaysLoaded: len(refreshed),
	})

	c.JSON(http.StatusOK, utils.CreateSuccessResponse(gin.H{"days_loaded": len(refreshed)}))
}

func (h *DashboardHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, utils.CreateSuccessResponse(gin.H{
		"status":    "ok",
		"store":     h.store.Stats(),
		"publisher": h.publisher.GetMetrics(),
	}))
}

func (h *DashboardHandler) publishEvent(c *gin.Context, evt event.SimulationEvent) {
	if err := h.publisher.PublishEvent(c.Request.Context(), evt); err != nil {
		log.Printf("Failed to publish %s event: %v", evt.EventType, err)
	}
}

// parseDay reads the required day query parameter. It writes the 400 itself
// so handlers can simply bail out.
func parseDay(c *gin.Context) (int, bool) {
	raw := c.Query("day")
	if raw == "" {
		c.JSON(http.StatusBadRequest, utils.CreateErrorResponse("Bad Request", "day query parameter is required"))
		return 0, false
	}
	day, err := strconv.Atoi(raw)
	if err != nil || day < 1 {
		c.JSON(http.StatusBadRequest, utils.CreateErrorResponse("Bad Request", "day must be a positive integer"))
		return 0, false
	}
	return day, true
}
