// Package export serializes merged game records to a CSV file.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/robcrawl/roblox-games-crawler/pkg/catalog"
)

// Header is the fixed column set of the output file, one column per
// MergedGame field, no index column.
var Header = []string{
	"UniverseId",
	"Name",
	"Genre",
	"Created Date",
	"Updated Date",
	"Max Players",
	"Playability Status",
	"Is Experimental",
	"Price",
	"Visits",
	"Developer",
	"Thumbnail URL",
	"PlayerCount",
	"Upvotes",
	"Downvotes",
}

// Marshal renders games as CSV: header row first, then one row per record.
func Marshal(games []catalog.MergedGame) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(Header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	for _, g := range games {
		row := []string{
			strconv.FormatInt(g.UniverseID, 10),
			g.Name,
			g.Genre,
			g.Created,
			g.Updated,
			strconv.FormatInt(g.MaxPlayers, 10),
			g.PlayabilityStatus,
			strconv.FormatBool(g.IsExperimental),
			strconv.FormatInt(g.Price, 10),
			strconv.FormatInt(g.Visits, 10),
			g.Developer,
			g.ThumbnailURL,
			strconv.FormatInt(g.PlayerCount, 10),
			strconv.FormatInt(g.Upvotes, 10),
			strconv.FormatInt(g.Downvotes, 10),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}

	return buf.Bytes(), nil
}

// WriteFile serializes games to path, overwriting any existing file.
func WriteFile(path string, games []catalog.MergedGame) error {
	data, err := Marshal(games)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	return nil
}
