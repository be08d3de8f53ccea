package scrape

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/cockroachdb/errors"
)

// defaultTagLine is assumed when the input carries no tag at all.
const defaultTagLine = "NA1"

// Identity is a parsed riot ID.
type Identity struct {
	GameName string `json:"game_name"`
	TagLine  string `json:"tag_line"`
}

var nameSeparatorRegex = regexp.MustCompile(`\n|%0A|,`)

// ParsePlayerInput accepts whatever a user pastes into the add-player
// box: a single "name#tag", a "name-tag" slug, a bare name, or a full
// op.gg multisearch link holding a whole team.
func ParsePlayerInput(text string) ([]Identity, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.New("empty player input")
	}
	if strings.Contains(text, "op.gg") {
		return ParseMultiLink(text)
	}
	return []Identity{parseRiotID(text)}, nil
}

// ParseMultiLink extracts the riot IDs from an op.gg multisearch URL's
// summoners parameter.
func ParseMultiLink(rawURL string) ([]Identity, error) {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, errors.Wrap(err, "parse multi link")
	}

	summoners := parsed.Query().Get("summoners")
	if unescaped, err := url.QueryUnescape(summoners); err == nil {
		summoners = unescaped
	}

	var out []Identity
	for _, name := range nameSeparatorRegex.Split(summoners, -1) {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		out = append(out, parseRiotID(name))
	}
	if len(out) == 0 {
		return nil, errors.Newf("no summoners found in link %s", rawURL)
	}

	return out, nil
}

// parseRiotID splits a single entry. "#" wins over "-" because tags can
// legitimately follow either; a bare name gets the region default.
func parseRiotID(name string) Identity {
	if idx := strings.LastIndex(name, "#"); idx >= 0 {
		return Identity{
			GameName: strings.TrimSpace(name[:idx]),
			TagLine:  strings.TrimSpace(name[idx+1:]),
		}
	}
	if idx := strings.LastIndex(name, "-"); idx >= 0 && !strings.HasPrefix(name, "http") {
		return Identity{
			GameName: strings.TrimSpace(name[:idx]),
			TagLine:  strings.TrimSpace(name[idx+1:]),
		}
	}
	return Identity{GameName: name, TagLine: defaultTagLine}
}
