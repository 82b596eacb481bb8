package scraper

// PassageConfig describes the markup shape of a rendered passage page: where
// the content lives, which elements mark verse boundaries and which elements
// carry annotations only.
type PassageConfig struct {
	// ContentClassPrefix is matched against the start of a div's class
	// attribute to find the single passage container.
	ContentClassPrefix string `yaml:"content_class_prefix" json:"content_class_prefix"`
	// ChapterNumSelector marks the opening of verse 1.
	ChapterNumSelector string `yaml:"chapter_num_selector" json:"chapter_num_selector"`
	// VerseNumSelector marks every other verse; its text holds the number.
	VerseNumSelector string `yaml:"verse_num_selector" json:"verse_num_selector"`
	// AnnotationSelector matches footnotes, cross-references, headings and
	// anything else whose text must not reach verse text.
	AnnotationSelector string `yaml:"annotation_selector" json:"annotation_selector"`
}

// SiteConfig describes where passage pages are fetched from.
type SiteConfig struct {
	BaseURL    string `yaml:"base_url" json:"base_url"`
	SearchPath string `yaml:"search_path" json:"search_path"`
}

// DefaultPassageConfig returns the markup signature used by BibleGateway
// passage pages.
func DefaultPassageConfig() PassageConfig {
	return PassageConfig{
		ContentClassPrefix: "passage-content",
		ChapterNumSelector: "span.chapternum",
		VerseNumSelector:   "sup.versenum",
		AnnotationSelector: "sup, h1, h2, h3, h4, h5, h6, ol, div.footnotes, div.crossrefs, " +
			".publisher-info-bottom, script, style",
	}
}

// DefaultSiteConfig returns the BibleGateway site layout.
func DefaultSiteConfig() SiteConfig {
	return SiteConfig{
		BaseURL:    "https://www.biblegateway.com",
		SearchPath: "/passage/",
	}
}

// Merge returns c with every empty field filled from defaults.
func (c PassageConfig) Merge(defaults PassageConfig) PassageConfig {
	if c.ContentClassPrefix == "" {
		c.ContentClassPrefix = defaults.ContentClassPrefix
	}
	if c.ChapterNumSelector == "" {
		c.ChapterNumSelector = defaults.ChapterNumSelector
	}
	if c.VerseNumSelector == "" {
		c.VerseNumSelector = defaults.VerseNumSelector
	}
	if c.AnnotationSelector == "" {
		c.AnnotationSelector = defaults.AnnotationSelector
	}
	return c
}
