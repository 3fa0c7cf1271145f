package ssmcp

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms HTML content into Markdown.
	// Returns ECONVERT if no content survives conversion.
	Convert(html string) (string, error)
}

// Pruner drops low-information blocks from HTML.
type Pruner interface {
	Prune(html string) (string, error)
}

// Pruning threshold modes.
const (
	ThresholdFixed   = "fixed"
	ThresholdDynamic = "dynamic"
)

// PruneConfig controls significance pruning.
type PruneConfig struct {
	Threshold     float64
	ThresholdType string
	MinWords      int
}

// DefaultPruneConfig returns the default pruning settings.
func DefaultPruneConfig() PruneConfig {
	return PruneConfig{
		Threshold:     0.30,
		ThresholdType: ThresholdDynamic,
		MinWords:      1,
	}
}

// Validate returns an error if the config contains invalid fields.
func (c PruneConfig) Validate() error {
	if c.ThresholdType != ThresholdFixed && c.ThresholdType != ThresholdDynamic {
		return Errorf(EINVALID, "unknown threshold type %q", c.ThresholdType)
	}
	if c.MinWords < 0 {
		return Errorf(EINVALID, "minimum word threshold must not be negative")
	}
	return nil
}

// MarkdownOptions are the stylistic options of Markdown generation.
type MarkdownOptions struct {
	IgnoreImages      bool
	IgnoreLinks       bool
	SkipInternalLinks bool
	EscapeHTML        bool
	// BodyWidth wraps paragraphs at this many columns; 0 disables wrapping.
	BodyWidth     int
	IncludeSupSub bool
}

// DefaultMarkdownOptions returns the default Markdown options.
func DefaultMarkdownOptions() MarkdownOptions {
	return MarkdownOptions{
		IgnoreImages:      true,
		IgnoreLinks:       true,
		SkipInternalLinks: true,
		EscapeHTML:        true,
		BodyWidth:         0,
		IncludeSupSub:     true,
	}
}
