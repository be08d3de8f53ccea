package httpapi

import (
	"net/http"
)

func (h *Handler) AnalyzeTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AnalyzeTeam")
	defer span.End()

	teamID := r.PathValue("teamID")
	report, err := h.analysisService.Analyze(ctx, teamID)
	if err != nil {
		h.logger.WarnContext(ctx, "team analysis failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, report)
}
