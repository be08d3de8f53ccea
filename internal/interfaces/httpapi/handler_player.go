package httpapi

import (
	"fmt"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/wardvision/scout/internal/domain/roster"
	"github.com/wardvision/scout/internal/usecase"
)

func (h *Handler) ImportPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ImportPlayers")
	defer span.End()

	var req importPlayersRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid request body: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	players, err := h.rosterService.ImportPlayers(ctx, usecase.ImportPlayersInput{
		TeamID:       req.TeamID,
		PlayerInput:  req.Players,
		Role:         req.Role,
		IsSubstitute: req.IsSubstitute,
		Overwrite:    req.Overwrite,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "import players failed", "team_id", req.TeamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusCreated, map[string]any{
		"success": true,
		"players": players,
	})
}

func (h *Handler) UpdatePlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdatePlayer")
	defer span.End()

	playerID := r.PathValue("playerID")

	var req updatePlayerRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid request body: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	input := usecase.UpdatePlayerInput{
		GameName:     req.GameName,
		TagLine:      req.TagLine,
		Role:         req.Role,
		IsSubstitute: req.IsSubstitute,
	}
	if req.ManualStats != nil {
		input.ManualStats = &usecase.ManualStats{
			Tier:         req.ManualStats.Tier,
			Division:     req.ManualStats.Division,
			LP:           req.ManualStats.LP,
			SeasonGames:  req.ManualStats.SeasonGames,
			SeasonWins:   req.ManualStats.SeasonWins,
			SeasonLosses: req.ManualStats.SeasonLosses,
			Champions:    req.ManualStats.Champions,
			Masteries:    req.ManualStats.Masteries,
		}
	}
	if req.PreviousSeasonTier != nil || req.PeakTier != nil {
		input.RankExtras = &roster.RankExtras{
			PreviousSeasonTier: req.PreviousSeasonTier,
			PeakTier:           req.PeakTier,
		}
	}

	player, err := h.rosterService.UpdatePlayer(ctx, playerID, input)
	if err != nil {
		h.logger.WarnContext(ctx, "update player failed", "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, player)
}

func (h *Handler) DeletePlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeletePlayer")
	defer span.End()

	playerID := r.PathValue("playerID")
	if err := h.rosterService.DeletePlayer(ctx, playerID); err != nil {
		h.logger.WarnContext(ctx, "delete player failed", "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, map[string]any{"success": true})
}

// PreviewMultiLink parses an op.gg multisearch link (or pasted names)
// without touching the roster, so the UI can show what an import would
// add before it commits.
func (h *Handler) PreviewMultiLink(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PreviewMultiLink")
	defer span.End()

	var req multiLinkRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid request body: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	identities, err := h.rosterService.ParsePlayerInput(req.Link)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, map[string]any{
		"success": true,
		"players": identities,
	})
}
