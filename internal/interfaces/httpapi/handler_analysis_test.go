package httpapi

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRouter_Analysis(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)

	_, myTeam := doJSON(t, router, http.MethodPost, "/api/teams", `{"name":"Us"}`)
	myTeamID, _ := myTeam["id"].(string)
	code, _ := doJSON(t, router, http.MethodPut, "/api/teams/"+myTeamID, `{"is_my_team":true}`)
	require.Equal(t, http.StatusOK, code)

	_, imported := doJSON(t, router, http.MethodPost, "/api/players",
		`{"team_id":"`+myTeamID+`","players":"OurMid#NA1","role":"mid"}`)
	players, _ := imported["players"].([]any)
	require.Len(t, players, 1)
	ourMid, _ := players[0].(map[string]any)
	ourMidID, _ := ourMid["id"].(string)

	code, _ = doJSON(t, router, http.MethodPut, "/api/players/"+ourMidID,
		`{"manual_stats":{"tier":"DIAMOND","lp":50,"season_games":40,"season_wins":25,"season_losses":15,`+
			`"champions":[{"champion_name":"Orianna","champion_key":"Orianna","games":30,"wins":20,"losses":10,"winrate":66.7}]}}`)
	require.Equal(t, http.StatusOK, code)

	_, opponent := doJSON(t, router, http.MethodPost, "/api/teams", `{"name":"Them"}`)
	opponentID, _ := opponent["id"].(string)

	_, imported = doJSON(t, router, http.MethodPost, "/api/players",
		`{"team_id":"`+opponentID+`","players":"EnemyMid#NA1","role":"mid"}`)
	players, _ = imported["players"].([]any)
	enemyMid, _ := players[0].(map[string]any)
	enemyMidID, _ := enemyMid["id"].(string)

	code, _ = doJSON(t, router, http.MethodPut, "/api/players/"+enemyMidID,
		`{"manual_stats":{"tier":"MASTER","lp":120,"season_games":68,"season_wins":44,"season_losses":24,`+
			`"champions":[{"champion_name":"Ahri","champion_key":"Ahri","games":60,"wins":40,"losses":20,"winrate":66.7},`+
			`{"champion_name":"Lux","champion_key":"Lux","games":5,"wins":2,"losses":3,"winrate":40},`+
			`{"champion_name":"Zed","champion_key":"Zed","games":3,"wins":2,"losses":1,"winrate":66.7}]}}`)
	require.Equal(t, http.StatusOK, code)

	code, report := doJSON(t, router, http.MethodGet, "/api/teams/"+opponentID+"/analysis", "")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "Us", report["my_team"])
	require.Equal(t, "Them", report["opponent"])

	bans, _ := report["bans"].([]any)
	require.NotEmpty(t, bans)
	topBan, _ := bans[0].(map[string]any)
	require.Equal(t, "Ahri", topBan["champion"])

	picks, _ := report["picks"].([]any)
	require.NotEmpty(t, picks)
	topPick, _ := picks[0].(map[string]any)
	require.Equal(t, "Orianna", topPick["champion"])

	flags, _ := report["flags"].([]any)
	require.Len(t, flags, 1)
	flagged, _ := flags[0].(map[string]any)
	require.Equal(t, "EnemyMid", flagged["player"])
	pool, _ := flagged["pool"].(map[string]any)
	require.Equal(t, "one_trick", pool["flag"])
}

func TestRouter_AnalysisRequiresMyTeam(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)

	_, opponent := doJSON(t, router, http.MethodPost, "/api/teams", `{"name":"Them"}`)
	opponentID, _ := opponent["id"].(string)

	code, body := doJSON(t, router, http.MethodGet, "/api/teams/"+opponentID+"/analysis", "")
	require.Equal(t, http.StatusBadRequest, code)
	require.Contains(t, body["error"], "no team marked as yours")
}
