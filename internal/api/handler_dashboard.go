package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"nurse-triage-backend/internal/advisory"
	"nurse-triage-backend/internal/model"
	"nurse-triage-backend/internal/registry"
	"nurse-triage-backend/internal/vitals"
)

type vitalsView struct {
	model.VitalsReading
	Time string `json:"time"`
}

type dashboardResponse struct {
	PatientID      string                 `json:"patient_id"`
	Patient        *registry.Registered   `json:"patient,omitempty"`
	Vitals         *vitalsView            `json:"vitals"`
	Classification *vitals.Classification `json:"classification"`
	Advisory       advisory.Advice        `json:"advisory"`
	Error          string                 `json:"error,omitempty"`
	Audit          []model.AuditEntry     `json:"audit"`
	AutoRefresh    bool                   `json:"auto_refresh"`
	IntervalSecs   int                    `json:"interval_seconds"`
}

// GetDashboard handles GET /api/dashboard.
func (h *Handler) GetDashboard(c *gin.Context) {
	resp := dashboardResponse{
		PatientID: h.patientID(),
		Audit:     h.Log.Entries(),
	}
	if h.Registry != nil {
		resp.Patient = h.Registry.Current()
	}
	if h.Scheduler != nil {
		resp.AutoRefresh = h.Scheduler.Running()
		resp.IntervalSecs = int(h.Scheduler.Interval().Seconds())
	}

	if frame, ok := h.Board.Snapshot(); ok {
		if frame.Reading != nil {
			resp.Vitals = &vitalsView{VitalsReading: *frame.Reading, Time: frame.Reading.Time()}
		}
		resp.Classification = frame.Classification
		resp.Advisory = frame.Advice
		resp.Error = frame.Error
	}

	c.JSON(http.StatusOK, resp)
}

// GetAudit handles GET /api/audit.
func (h *Handler) GetAudit(c *gin.Context) {
	entries := h.Log.Entries()
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = e.String()
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries, "lines": lines, "max": h.Log.Max()})
}

// GetThresholds handles GET /api/thresholds.
func (h *Handler) GetThresholds(c *gin.Context) {
	c.JSON(http.StatusOK, vitals.Thresholds())
}

// GetVitalsHistory handles GET /api/vitals/history?limit=N from the EHR store.
func (h *Handler) GetVitalsHistory(c *gin.Context) {
	if h.Store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "EHR database is not configured"})
		return
	}

	limit := 20
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > 500 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 500"})
			return
		}
		limit = n
	}

	id := h.patientID()
	rows, err := h.Store.RecentVitals(c.Request.Context(), id, limit)
	if err != nil {
		abortWithError(c, err)
		return
	}

	readings := make([]vitalsView, 0, len(rows))
	for _, row := range rows {
		r := row.Reading()
		readings = append(readings, vitalsView{VitalsReading: r, Time: r.Time()})
	}
	c.JSON(http.StatusOK, gin.H{"patient_id": id, "readings": readings})
}

type analyzeRequest struct {
	HeartRate     int     `json:"hr" binding:"required,gt=0"`
	BloodPressure string  `json:"bp" binding:"required"`
	Temperature   float64 `json:"temp" binding:"required,gt=0"`
}

type analyzeResponse struct {
	Classification vitals.Classification `json:"classification"`
	Advisory       advisory.Advice       `json:"advisory"`
}

// AnalyzeVitals handles POST /api/vitals/analyze. Nothing is audited,
// presented or paged.
func (h *Handler) AnalyzeVitals(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	r := model.VitalsReading{HeartRate: req.HeartRate, BloodPressure: req.BloodPressure, Temperature: req.Temperature}
	cl, err := vitals.Classify(r)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, analyzeResponse{Classification: cl, Advisory: h.Advisor.Template(r, cl.Critical)})
}
