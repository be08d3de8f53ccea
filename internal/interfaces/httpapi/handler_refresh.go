package httpapi

import (
	"errors"
	"net/http"

	"github.com/wardvision/scout/internal/usecase"
)

func (h *Handler) RefreshPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RefreshPlayer")
	defer span.End()

	playerID := r.PathValue("playerID")
	player, err := h.refreshService.RefreshPlayer(ctx, playerID)
	if err != nil {
		if errors.Is(err, usecase.ErrDependencyUnavailable) {
			h.logger.WarnContext(ctx, "player refresh scrape failed", "player_id", playerID, "error", err)
			writeJSON(ctx, w, http.StatusServiceUnavailable, map[string]any{
				"success": false,
				"error":   err.Error(),
			})
			return
		}
		h.logger.WarnContext(ctx, "player refresh failed", "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, map[string]any{
		"success": true,
		"stats":   player.Stats,
		"player":  player,
	})
}

func (h *Handler) StartTeamRefresh(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.StartTeamRefresh")
	defer span.End()

	teamID := r.PathValue("teamID")
	result, err := h.refreshService.StartTeamRefresh(ctx, teamID)
	if err != nil {
		h.logger.WarnContext(ctx, "start team refresh failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusAccepted, map[string]any{
		"success": true,
		"status":  result.Status,
		"total":   result.Total,
	})
}

func (h *Handler) GetRefreshStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetRefreshStatus")
	defer span.End()

	teamID := r.PathValue("teamID")
	job, err := h.refreshService.JobStatus(ctx, teamID)
	if err != nil {
		h.logger.WarnContext(ctx, "refresh status lookup failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, job)
}
