package httpapi

import (
	"net/http"
)

// GetChampionIcon resolves a champion key to its Data Dragon icon, so
// the UI never has to track patch versions itself.
func (h *Handler) GetChampionIcon(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetChampionIcon")
	defer span.End()

	championKey := r.PathValue("championKey")
	writeJSON(ctx, w, http.StatusOK, map[string]string{
		"champion": championKey,
		"version":  h.ddragon.Version(ctx),
		"icon_url": h.ddragon.ChampionIconURL(ctx, championKey),
	})
}
