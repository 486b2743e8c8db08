package tasks

import (
	"sort"
	"time"
)

// BucketKey identifies a display section.
type BucketKey string

const (
	BucketOverdue     BucketKey = "overdue"
	BucketDueToday    BucketKey = "dueToday"
	BucketDueTomorrow BucketKey = "dueTomorrow"
	BucketDueThisWeek BucketKey = "dueThisWeek"
	BucketCompleted   BucketKey = "completed"
)

// Filter sentinels that disable the corresponding filter.
const (
	AllCourses = "All Courses"
	AllTypes   = "All Types"
)

// defaultSectionTitles are the hardcoded title fallbacks.
var defaultSectionTitles = map[BucketKey]string{
	BucketOverdue:     "Overdue",
	BucketDueToday:    "Due Today",
	BucketDueTomorrow: "Due Tomorrow",
	BucketDueThisWeek: "Due This Week",
	BucketCompleted:   "Completed",
}

// SectionConfig controls one display section.
type SectionConfig struct {
	Enabled       bool
	Title         string
	ShowCountdown bool
	Collapsible   bool
	// Priority orders sections; lower is displayed first.
	Priority int
}

// Config is the host-supplied widget configuration. The categorization
// engine consumes it but does not own or persist it.
type Config struct {
	Title             string
	ShowTitle         bool
	ShowRefreshButton bool

	ShowFilters         bool
	DefaultCourseFilter string
	DefaultTypeFilter   string

	Sections map[BucketKey]SectionConfig

	AutoRefresh     bool
	RefreshInterval time.Duration
}

// DefaultConfig returns the stock widget configuration.
func DefaultConfig() Config {
	return Config{
		Title:             "Notification Center",
		ShowTitle:         true,
		ShowRefreshButton: true,

		ShowFilters:         true,
		DefaultCourseFilter: AllCourses,
		DefaultTypeFilter:   AllTypes,

		Sections: map[BucketKey]SectionConfig{
			BucketOverdue:     {Enabled: true, Title: defaultSectionTitles[BucketOverdue], ShowCountdown: true, Priority: 1},
			BucketDueToday:    {Enabled: true, Title: defaultSectionTitles[BucketDueToday], Priority: 2},
			BucketDueTomorrow: {Enabled: true, Title: defaultSectionTitles[BucketDueTomorrow], Priority: 3},
			BucketDueThisWeek: {Enabled: true, Title: defaultSectionTitles[BucketDueThisWeek], ShowCountdown: true, Collapsible: true, Priority: 4},
			BucketCompleted:   {Enabled: true, Title: defaultSectionTitles[BucketCompleted], Collapsible: true, Priority: 5},
		},

		AutoRefresh:     false,
		RefreshInterval: 5 * time.Minute,
	}
}

// Merge overlays host-provided section overrides onto the defaults. Sections
// the host does not mention keep their default settings; overridden sections
// with an empty title inherit the hardcoded fallback.
func Merge(overrides map[BucketKey]SectionConfig) Config {
	cfg := DefaultConfig()
	for key, override := range overrides {
		if override.Title == "" {
			override.Title = defaultSectionTitles[key]
		}
		if override.Priority == 0 {
			if base, ok := cfg.Sections[key]; ok {
				override.Priority = base.Priority
			}
		}
		cfg.Sections[key] = override
	}
	return cfg
}

// SortedSections returns the enabled section keys in display order.
func (c Config) SortedSections() []BucketKey {
	keys := make([]BucketKey, 0, len(c.Sections))
	for key, section := range c.Sections {
		if section.Enabled {
			keys = append(keys, key)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		return c.Sections[keys[i]].Priority < c.Sections[keys[j]].Priority
	})
	return keys
}

// SectionTitle returns the configured title for a section, falling back to
// the hardcoded default.
func (c Config) SectionTitle(key BucketKey) string {
	if section, ok := c.Sections[key]; ok && section.Title != "" {
		return section.Title
	}
	return defaultSectionTitles[key]
}
