package prefs

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads a preference file and overlays it on the defaults. A missing
// path yields the defaults; a malformed file is an error so a typo never
// silently resets the templates.
func Load(path string) (Prefs, error) {
	loaded := Default()

	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return loaded, nil
	}

	content, err := os.ReadFile(trimmed)
	if err != nil {
		if os.IsNotExist(err) {
			return loaded, nil
		}
		return loaded, fmt.Errorf("read prefs file: %w", err)
	}

	if err := yaml.Unmarshal(content, &loaded); err != nil {
		return Default(), fmt.Errorf("parse prefs file %s: %w", trimmed, err)
	}

	if err := loaded.validate(); err != nil {
		return Default(), fmt.Errorf("prefs file %s: %w", trimmed, err)
	}
	return loaded, nil
}

func (p *Prefs) validate() error {
	if p.MaxResults < 1 {
		return fmt.Errorf("max_results must be at least 1")
	}
	if p.MaxCovers < 0 {
		return fmt.Errorf("max_covers cannot be negative")
	}
	if p.IssuePreference < IssueDefault || p.IssuePreference > IssueSlovakOldest {
		return fmt.Errorf("issue_preference out of range")
	}
	for _, list := range [][]TemplateItem{
		p.TitleTemplate, p.SeriesTemplate, p.PublisherTemplate,
		p.CommentBlocks, p.TagBlocks, p.IdentifierExports,
	} {
		for _, item := range list {
			if item.Token == "" {
				return fmt.Errorf("template item with empty token")
			}
			if item.Token == TokenText && strings.TrimSpace(item.Text) == "" {
				return fmt.Errorf("text template item without text")
			}
		}
	}
	if p.PublisherMappings == nil {
		p.PublisherMappings = map[string]string{}
	}
	if p.SeriesMappings == nil {
		p.SeriesMappings = map[string]string{}
	}
	if p.CategoryMappings == nil {
		p.CategoryMappings = map[string][]string{}
	}
	return nil
}
