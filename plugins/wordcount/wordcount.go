package wordcount

import (
	"fmt"
	"strings"

	"github.com/rivo/uniseg"

	"github.com/bethropolis/folio/internal/plugin"
)

// Ensure WordCount implements plugin.Plugin
var _ plugin.Plugin = (*WordCount)(nil)

// WordCount registers the :wc command, which reports counts for the
// selection, or for the whole document when nothing is selected.
type WordCount struct {
	api plugin.EditorAPI
}

// Stats are the counts of one piece of text.
type Stats struct {
	Blocks     int
	Words      int
	Characters int
}

// New creates a new instance of the WordCount plugin.
func New() plugin.Plugin {
	return &WordCount{}
}

func (p *WordCount) Name() string {
	return "wordcount"
}

func (p *WordCount) Initialize(api plugin.EditorAPI) error {
	p.api = api
	if err := api.RegisterCommand("wc", p.executeWordCount); err != nil {
		return fmt.Errorf("failed to register 'wc' command: %w", err)
	}
	return nil
}

func (p *WordCount) Shutdown() error {
	return nil
}

func (p *WordCount) executeWordCount(args []string) error {
	if p.api == nil {
		return fmt.Errorf("wordcount plugin not initialized with API")
	}
	scope := "Selection"
	content := p.api.GetSelectedText()
	if content == "" {
		scope = "Document"
		content = p.api.GetDocumentText()
	}
	s := Count(content)
	p.api.SetStatusMessage("%s: %d blocks, %d words, %d characters", scope, s.Blocks, s.Words, s.Characters)
	return nil
}

// Count computes the stats of plain text where blocks are separated by
// newlines. Characters are grapheme clusters, newlines excluded.
func Count(content string) Stats {
	var s Stats
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		s.Blocks++
		s.Words += len(strings.Fields(line))
		s.Characters += uniseg.GraphemeClusterCount(line)
	}
	return s
}
