package maps

import (
	"net/http"

	"vacation_planner_backend/internal/geo"
	"vacation_planner_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// Handler exposes the maps endpoints.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// LookupAddress handles GET /api/v1/maps/address-lookup?q=...
func (h *Handler) LookupAddress(c *gin.Context) {
	var req LookupRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "query 'q' is required (min 3 chars)", nil)
		return
	}

	results, err := h.svc.SearchAddress(c.Request.Context(), req.Query)
	if err != nil {
		if IsParseError(err) {
			httpkit.Error(c, http.StatusBadGateway, "address lookup returned an unreadable response", nil)
			return
		}
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, results)
}

// Distance handles GET /api/v1/maps/distance?fromLat=..&fromLon=..&toLat=..&toLon=..[&speed=..]
func (h *Handler) Distance(c *gin.Context) {
	var req DistanceRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "fromLat, fromLon, toLat and toLon must be valid coordinates", nil)
		return
	}

	result := geo.Estimate(
		geo.Point{Lat: *req.FromLat, Lon: *req.FromLon},
		geo.Point{Lat: *req.ToLat, Lon: *req.ToLon},
		req.Speed,
	)

	httpkit.OK(c, DistanceResponse{
		Result:            result,
		TravelTimeDisplay: geo.FormatTravelTime(result.TravelMinutes),
	})
}
