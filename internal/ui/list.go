package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"

	"radar/internal/models"
)

var _ list.Item = releaseItem{}

// releaseItem wraps [models.Release] to implement [list.Item].
// Excluded releases stay in the list but render crossed out of the batch.
type releaseItem struct {
	release  models.Release
	excluded bool
}

func (i releaseItem) FilterValue() string { return i.release.Name }

func (i releaseItem) Title() string {
	marker := "[x]"
	if i.excluded {
		marker = "[ ]"
	}
	return fmt.Sprintf("%s %s", marker, i.release.Name)
}

func (i releaseItem) Description() string {
	return fmt.Sprintf("%s • %s • %s (%d tracks)",
		i.release.ArtistName, i.release.Type, i.release.ReleaseDate, i.release.TotalTracks)
}
