package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerTournamentRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /api/tournament", handler.GetTournament)
	mux.HandleFunc("PUT /api/season", handler.SetSeasonName)
}

func registerTeamRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /api/teams", handler.CreateTeam)
	mux.HandleFunc("PUT /api/teams/{teamID}", handler.UpdateTeam)
	mux.HandleFunc("DELETE /api/teams/{teamID}", handler.DeleteTeam)
	mux.HandleFunc("POST /api/teams/{teamID}/refresh", handler.StartTeamRefresh)
	mux.HandleFunc("GET /api/teams/{teamID}/refresh/status", handler.GetRefreshStatus)
}

func registerPlayerRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /api/players", handler.ImportPlayers)
	mux.HandleFunc("PUT /api/players/{playerID}", handler.UpdatePlayer)
	mux.HandleFunc("DELETE /api/players/{playerID}", handler.DeletePlayer)
	mux.HandleFunc("POST /api/players/{playerID}/refresh", handler.RefreshPlayer)
	mux.HandleFunc("POST /api/import/multi-link", handler.PreviewMultiLink)
	mux.HandleFunc("GET /api/champions/{championKey}/icon", handler.GetChampionIcon)
}

func registerAnalysisRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /api/teams/{teamID}/analysis", handler.AnalyzeTeam)
}
