package handler

import (
	"net/http"
	"strconv"

	"spotlike/internal/engine"
	"spotlike/internal/middleware"
	"spotlike/pkg/geo"

	"github.com/gin-gonic/gin"
)

type NearbyHandler struct {
	eng *engine.Engine
}

func NewNearbyHandler(eng *engine.Engine) *NearbyHandler {
	return &NearbyHandler{eng: eng}
}

// Nearby lists other users within the server radius of the caller's supplied
// coordinate, closest first. This is a read-only query: the live coordinate
// is fine here, only like validation insists on recorded pings.
func (h *NearbyHandler) Nearby(c *gin.Context) {
	userID := middleware.GetUserID(c)
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lon, errLon := strconv.ParseFloat(c.Query("lon"), 64)
	if errLat != nil || errLon != nil || !geo.ValidCoordinate(lat, lon) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lat and lon query params required"})
		return
	}
	results, err := h.eng.Nearby(userID, lat, lon)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "nearby query failed"})
		return
	}
	out := make([]gin.H, 0, len(results))
	for _, r := range results {
		row := userView(&r.User, r.LikesReceived)
		row["distance_m"] = r.DistanceMeters
		out = append(out, row)
	}
	c.JSON(http.StatusOK, gin.H{"results": out})
}
