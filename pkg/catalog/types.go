// Package catalog implements the crawl pipeline against the Roblox explore
// and games endpoints: cursor pagination, bulk detail lookups, and the merge
// of both record sets by universe id.
package catalog

// notAvailable is the sentinel written for string fields absent from an
// upstream payload.
const notAvailable = "N/A"

// DefaultBatchSize is the number of universe ids submitted per detail request.
const DefaultBatchSize = 50

// Game is the lightweight record collected from the explore endpoint.
type Game struct {
	UniverseID  int64
	Name        string
	PlayerCount int64
	Upvotes     int64
	Downvotes   int64
}

// GameDetails is the record returned by the games endpoint for one universe.
type GameDetails struct {
	UniverseID        int64
	Name              string
	Genre             string
	Created           string
	Updated           string
	MaxPlayers        int64
	PlayabilityStatus string
	IsExperimental    bool
	Price             int64
	Visits            int64
	Developer         string
	ThumbnailURL      string
}

// MergedGame is a GameDetails joined with the vote and player counters from
// the matching explore record. This is the unit written to the output file.
type MergedGame struct {
	GameDetails
	PlayerCount int64
	Upvotes     int64
	Downvotes   int64
}

// Wire format of the explore endpoint. Games are grouped into sorts;
// universeId is nullable and a null id excludes the item.
type exploreResponse struct {
	Sorts              []exploreSort `json:"sorts"`
	NextSortsPageToken string        `json:"nextSortsPageToken"`
}

type exploreSort struct {
	Games []exploreGame `json:"games"`
}

type exploreGame struct {
	UniverseID     *int64 `json:"universeId"`
	Name           string `json:"name"`
	PlayerCount    int64  `json:"playerCount"`
	TotalUpVotes   int64  `json:"totalUpVotes"`
	TotalDownVotes int64  `json:"totalDownVotes"`
}

// toGame maps an explore item to a Game, applying sentinel defaults.
// Callers must have checked UniverseID for nil.
func (g exploreGame) toGame() Game {
	name := g.Name
	if name == "" {
		name = notAvailable
	}
	return Game{
		UniverseID:  *g.UniverseID,
		Name:        name,
		PlayerCount: g.PlayerCount,
		Upvotes:     g.TotalUpVotes,
		Downvotes:   g.TotalDownVotes,
	}
}

// Wire format of the games (detail) endpoint.
type gamesResponse struct {
	Data []gameDetailPayload `json:"data"`
}

type gameDetailPayload struct {
	ID                *int64        `json:"id"`
	Name              string        `json:"name"`
	Genre             string        `json:"genre"`
	Created           string        `json:"created"`
	Updated           string        `json:"updated"`
	MaxPlayers        int64         `json:"maxPlayers"`
	PlayabilityStatus string        `json:"playabilityStatus"`
	IsExperimental    bool          `json:"isExperimental"`
	Price             *int64        `json:"price"`
	Visits            int64         `json:"visits"`
	Creator           detailCreator `json:"creator"`
	ThumbnailURL      string        `json:"thumbnailUrl"`
}

type detailCreator struct {
	Name string `json:"name"`
}

// toDetails maps a detail payload to a GameDetails, applying sentinel
// defaults for absent fields. Callers must have checked ID for nil.
func (p gameDetailPayload) toDetails() GameDetails {
	d := GameDetails{
		UniverseID:        *p.ID,
		Name:              stringOr(p.Name),
		Genre:             stringOr(p.Genre),
		Created:           stringOr(p.Created),
		Updated:           stringOr(p.Updated),
		MaxPlayers:        p.MaxPlayers,
		PlayabilityStatus: stringOr(p.PlayabilityStatus),
		IsExperimental:    p.IsExperimental,
		Visits:            p.Visits,
		Developer:         stringOr(p.Creator.Name),
		ThumbnailURL:      stringOr(p.ThumbnailURL),
	}
	if p.Price != nil {
		d.Price = *p.Price
	}
	return d
}

func stringOr(s string) string {
	if s == "" {
		return notAvailable
	}
	return s
}
