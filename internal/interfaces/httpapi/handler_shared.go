package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/wardvision/scout/external/ddragon"
	"github.com/wardvision/scout/internal/domain/roster"
	"github.com/wardvision/scout/internal/platform/logging"
	"github.com/wardvision/scout/internal/usecase"
)

type Handler struct {
	rosterService   *usecase.RosterService
	refreshService  *usecase.RefreshService
	analysisService *usecase.AnalysisService
	ddragon         *ddragon.Client
	logger          *logging.Logger
	validator       *validator.Validate
}

func NewHandler(
	rosterService *usecase.RosterService,
	refreshService *usecase.RefreshService,
	analysisService *usecase.AnalysisService,
	ddragonClient *ddragon.Client,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		rosterService:   rosterService,
		refreshService:  refreshService,
		analysisService: analysisService,
		ddragon:         ddragonClient,
		logger:          logger,
		validator:       validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

type setSeasonRequest struct {
	SeasonName string `json:"season_name" validate:"required,max=100"`
}

type createTeamRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

type updateTeamRequest struct {
	Name     *string `json:"name" validate:"omitempty,max=100"`
	IsMyTeam *bool   `json:"is_my_team"`
}

type importPlayersRequest struct {
	TeamID string `json:"team_id" validate:"required"`
	// Players is a riot ID, a name-tag slug, an op.gg multisearch link,
	// or several of those separated by newlines or commas.
	Players      string `json:"players" validate:"required"`
	Role         string `json:"role" validate:"omitempty,oneof=top jungle mid bot support fill"`
	IsSubstitute bool   `json:"is_substitute"`
	Overwrite    bool   `json:"overwrite"`
}

type updatePlayerRequest struct {
	GameName           *string             `json:"game_name" validate:"omitempty,max=100"`
	TagLine            *string             `json:"tag_line" validate:"omitempty,max=10"`
	Role               *string             `json:"role" validate:"omitempty,oneof=top jungle mid bot support fill"`
	IsSubstitute       *bool               `json:"is_substitute"`
	ManualStats        *manualStatsRequest `json:"manual_stats"`
	PreviousSeasonTier *string             `json:"previous_season_tier" validate:"omitempty,max=40"`
	PeakTier           *string             `json:"peak_tier" validate:"omitempty,max=40"`
}

type manualStatsRequest struct {
	Tier         string                `json:"tier" validate:"required,max=40"`
	Division     *int                  `json:"division" validate:"omitempty,min=1,max=4"`
	LP           int                   `json:"lp" validate:"gte=0"`
	SeasonGames  int                   `json:"season_games" validate:"gte=0"`
	SeasonWins   int                   `json:"season_wins" validate:"gte=0"`
	SeasonLosses int                   `json:"season_losses" validate:"gte=0"`
	Champions    []roster.ChampionStat `json:"champions"`
	Masteries    []roster.Mastery      `json:"masteries"`
}

type multiLinkRequest struct {
	Link string `json:"link" validate:"required"`
}
