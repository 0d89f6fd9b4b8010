package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"obralink/internal/rates"
)

// RatesHandler exposes the latest reference-rate snapshot.
type RatesHandler struct {
	rates *rates.Service
}

// NewRatesHandler creates a new RatesHandler.
func NewRatesHandler(rateService *rates.Service) *RatesHandler {
	return &RatesHandler{rates: rateService}
}

// ReadingResponse represents one rate reading. Rate is present only when
// the reading is ready; loading and unavailable readings carry no value.
type ReadingResponse struct {
	State     string     `json:"state"`
	Rate      string     `json:"rate,omitempty"`
	FetchedAt *time.Time `json:"fetched_at,omitempty"`
}

// SnapshotResponse represents the latest pair of readings.
type SnapshotResponse struct {
	Foreign ReadingResponse `json:"foreign"`
	Index   ReadingResponse `json:"index"`
}

func readingJSON(r rates.Reading) ReadingResponse {
	resp := ReadingResponse{State: r.State.String()}
	if r.State == rates.StateReady {
		resp.Rate = r.Rate.String()
		at := r.FetchedAt
		resp.FetchedAt = &at
	}
	return resp
}

// GetLatest returns the latest known rate snapshot.
// @Summary     Get latest rates
// @Description Get the latest known FX and construction index readings
// @Tags        rates
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} SnapshotResponse "Latest readings"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /rates/latest [get]
func (h *RatesHandler) GetLatest(c *gin.Context) {
	if _, err := getOrgID(c); err != nil {
		respondWithError(c, err)
		return
	}

	snap := h.rates.Latest()

	c.JSON(http.StatusOK, gin.H{
		"foreign": readingJSON(snap.Foreign),
		"index":   readingJSON(snap.Index),
	})
}

// RefreshRates forces a synchronous refresh of both rates.
// @Summary     Refresh rates
// @Description Fetch both rates now and return the refreshed snapshot
// @Tags        rates
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} SnapshotResponse "Refreshed readings"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /rates/refresh [post]
func (h *RatesHandler) RefreshRates(c *gin.Context) {
	if _, err := getOrgID(c); err != nil {
		respondWithError(c, err)
		return
	}

	snap := h.rates.Refresh(c.Request.Context())

	c.JSON(http.StatusOK, gin.H{
		"foreign": readingJSON(snap.Foreign),
		"index":   readingJSON(snap.Index),
	})
}
