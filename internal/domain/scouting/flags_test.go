package scouting

import (
	"testing"

	"github.com/wardvision/scout/internal/domain/roster"
)

func champ(name string, games int) roster.ChampionStat {
	return roster.ChampionStat{ChampionName: name, Games: games}
}

func TestEvaluatePool_EmptyPool(t *testing.T) {
	t.Parallel()

	got := EvaluatePool(DefaultFlagConfig(), nil)
	if got.Flag != "" {
		t.Fatalf("expected no flag for empty pool, got %q", got.Flag)
	}
}

func TestEvaluatePool_OneTrick(t *testing.T) {
	t.Parallel()

	pool := []roster.ChampionStat{
		champ("Ahri", 60),
		champ("Lux", 5),
		champ("Syndra", 3),
	}

	got := EvaluatePool(DefaultFlagConfig(), pool)
	if got.Flag != FlagOneTrick {
		t.Fatalf("expected one_trick, got %q", got.Flag)
	}
	if got.Champion != "Ahri" || got.Games != 60 {
		t.Fatalf("unexpected champion: %+v", got)
	}
	if got.Share < 0.88 || got.Share > 0.89 {
		t.Fatalf("unexpected share: %f", got.Share)
	}
}

func TestEvaluatePool_CloseSecondNotFlagged(t *testing.T) {
	t.Parallel()

	pool := []roster.ChampionStat{
		champ("Jinx", 20),
		champ("Kaisa", 18),
	}

	got := EvaluatePool(DefaultFlagConfig(), pool)
	if got.Flag != "" {
		t.Fatalf("expected no flag, got %q", got.Flag)
	}
}

func TestEvaluatePool_Main(t *testing.T) {
	t.Parallel()

	pool := []roster.ChampionStat{
		champ("Riven", 30),
		champ("Fiora", 12),
		champ("Camille", 10),
	}

	// 30/12 = 2.5, required is max(2.0 - 20*0.0125, 1.5) = 1.75.
	got := EvaluatePool(DefaultFlagConfig(), pool)
	if got.Flag != FlagMain {
		t.Fatalf("expected main, got %q", got.Flag)
	}
	if got.Champion != "Riven" {
		t.Fatalf("unexpected champion: %+v", got)
	}
}

func TestEvaluatePool_SingleChampionPool(t *testing.T) {
	t.Parallel()

	got := EvaluatePool(DefaultFlagConfig(), []roster.ChampionStat{champ("Shaco", 25)})
	if got.Flag != FlagOneTrick {
		t.Fatalf("expected one_trick for solo pool, got %q", got.Flag)
	}
	if got.Share != 1.0 {
		t.Fatalf("expected full share, got %f", got.Share)
	}
}

func TestEvaluatePool_TiedTopNotFlagged(t *testing.T) {
	t.Parallel()

	pool := []roster.ChampionStat{
		champ("Zed", 40),
		champ("Yasuo", 40),
	}

	got := EvaluatePool(DefaultFlagConfig(), pool)
	if got.Flag != "" {
		t.Fatalf("expected no flag on tied top champions, got %q", got.Flag)
	}
}

func TestEvaluatePool_InputOrderIgnored(t *testing.T) {
	t.Parallel()

	pool := []roster.ChampionStat{
		champ("Lux", 5),
		champ("Ahri", 60),
		champ("Syndra", 3),
	}

	got := EvaluatePool(DefaultFlagConfig(), pool)
	if got.Flag != FlagOneTrick || got.Champion != "Ahri" {
		t.Fatalf("expected one_trick Ahri regardless of input order, got %+v", got)
	}
}
