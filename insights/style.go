package insights

import (
	"math"
	"sort"
	"strings"
	"time"

	"tryrack-backend/models"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// styleKeywords are the style tags tracked by the wardrobe analytics.
var styleKeywords = []string{
	"minimalist", "formal", "casual", "elegant", "vintage", "modern",
	"classic", "trendy", "bohemian", "street", "business", "sporty",
	"romantic", "edgy", "preppy", "grunge", "feminine", "masculine",
}

// ColorShare is one entry of the color palette distribution.
type ColorShare struct {
	Color      string  `json:"color"`
	Percentage float64 `json:"percentage"`
}

// StyleShift describes how often a style tag appears in recent items
// compared to older ones.
type StyleShift struct {
	RecentPercentage   float64 `json:"recent_percentage"`
	PreviousPercentage float64 `json:"previous_percentage"`
	Change             float64 `json:"change"`
	Trend              string  `json:"trend"`
}

// StyleEvolution compares the last 30 days of additions against the rest
// of the wardrobe.
type StyleEvolution struct {
	RecentPeriod   string                `json:"recent_period"`
	PreviousPeriod string                `json:"previous_period"`
	Changes        map[string]StyleShift `json:"changes"`
}

// StyleInsights is the full analytics payload for a wardrobe.
type StyleInsights struct {
	StylePreferences     map[string]float64 `json:"style_preferences"`
	ColorPalette         []ColorShare       `json:"color_palette"`
	CategoryDistribution map[string]float64 `json:"category_distribution"`
	AverageFormality     float64            `json:"average_formality"`
	StyleEvolution       *StyleEvolution    `json:"style_evolution"`
}

// EmptyInsights is the payload for a wardrobe with no items.
func EmptyInsights() StyleInsights {
	return StyleInsights{
		StylePreferences:     map[string]float64{},
		ColorPalette:         []ColorShare{},
		CategoryDistribution: map[string]float64{},
	}
}

// Calculate derives all style insights from the given wardrobe items.
func Calculate(items []models.WardrobeItem) StyleInsights {
	return StyleInsights{
		StylePreferences:     stylePreferences(items),
		ColorPalette:         colorPalette(items),
		CategoryDistribution: categoryDistribution(items),
		AverageFormality:     averageFormality(items),
		StyleEvolution:       styleEvolution(items, time.Now().UTC()),
	}
}

// stylePreferences returns, per style keyword, the percentage of items
// tagged with it. Keywords no item carries are omitted.
func stylePreferences(items []models.WardrobeItem) map[string]float64 {
	preferences := map[string]float64{}
	if len(items) == 0 {
		return preferences
	}

	counts := map[string]int{}
	for _, item := range items {
		tags := map[string]bool{}
		for _, tag := range StringList(item.Tags) {
			tags[strings.ToLower(tag)] = true
		}
		for _, keyword := range styleKeywords {
			if tags[keyword] {
				counts[keyword]++
			}
		}
	}

	for keyword, count := range counts {
		preferences[keyword] = round1(float64(count) / float64(len(items)) * 100)
	}
	return preferences
}

// colorPalette counts every color occurrence across the wardrobe and
// returns each color's share, most common first.
func colorPalette(items []models.WardrobeItem) []ColorShare {
	counts := map[string]int{}
	total := 0
	for _, item := range items {
		for _, color := range StringList(item.Colors) {
			normalized := normalizeColor(color)
			if normalized == "" {
				continue
			}
			counts[normalized]++
			total++
		}
	}

	if total == 0 {
		return []ColorShare{}
	}

	colors := make([]string, 0, len(counts))
	for color := range counts {
		colors = append(colors, color)
	}
	sort.Slice(colors, func(i, j int) bool {
		if counts[colors[i]] != counts[colors[j]] {
			return counts[colors[i]] > counts[colors[j]]
		}
		return colors[i] < colors[j]
	})

	titler := cases.Title(language.English)
	palette := make([]ColorShare, 0, len(colors))
	for _, color := range colors {
		palette = append(palette, ColorShare{
			Color:      titler.String(color),
			Percentage: round1(float64(counts[color]) / float64(total) * 100),
		})
	}
	return palette
}

func categoryDistribution(items []models.WardrobeItem) map[string]float64 {
	distribution := map[string]float64{}
	if len(items) == 0 {
		return distribution
	}

	counts := map[string]int{}
	for _, item := range items {
		if item.Category != "" {
			counts[strings.ToLower(item.Category)]++
		}
	}
	for category, count := range counts {
		distribution[category] = round1(float64(count) / float64(len(items)) * 100)
	}
	return distribution
}

// averageFormality is the mean formality of items that carry one,
// expressed as a 0-100 percentage.
func averageFormality(items []models.WardrobeItem) float64 {
	sum := 0.0
	n := 0
	for _, item := range items {
		if item.Formality != nil {
			sum += *item.Formality
			n++
		}
	}
	if n == 0 {
		return 0.0
	}
	return round1(sum / float64(n) * 100)
}

// styleEvolution compares style tag frequency between items added in the
// 30 days before now and everything older. Needs at least 4 items and a
// non-empty bucket on both sides; only shifts of 5 points or more are
// reported. Returns nil when there is nothing significant to report.
func styleEvolution(items []models.WardrobeItem, now time.Time) *StyleEvolution {
	if len(items) < 4 {
		return nil
	}

	cutoff := now.Add(-30 * 24 * time.Hour)
	var recent, older []models.WardrobeItem
	for _, item := range items {
		if item.CreatedAt.UTC().Before(cutoff) {
			older = append(older, item)
		} else {
			recent = append(recent, item)
		}
	}
	if len(recent) == 0 || len(older) == 0 {
		return nil
	}

	recentCounts := styleTagCounts(recent)
	olderCounts := styleTagCounts(older)

	changes := map[string]StyleShift{}
	for _, keyword := range styleKeywords {
		recentCount, okRecent := recentCounts[keyword]
		olderCount, okOlder := olderCounts[keyword]
		if !okRecent && !okOlder {
			continue
		}

		recentPct := float64(recentCount) / float64(len(recent)) * 100
		olderPct := float64(olderCount) / float64(len(older)) * 100
		change := recentPct - olderPct
		if math.Abs(change) < 5.0 {
			continue
		}

		trend := "up"
		if change < 0 {
			trend = "down"
		}
		changes[keyword] = StyleShift{
			RecentPercentage:   round1(recentPct),
			PreviousPercentage: round1(olderPct),
			Change:             round1(change),
			Trend:              trend,
		}
	}

	if len(changes) == 0 {
		return nil
	}
	return &StyleEvolution{
		RecentPeriod:   "Last 30 days",
		PreviousPeriod: "Before last 30 days",
		Changes:        changes,
	}
}

func styleTagCounts(items []models.WardrobeItem) map[string]int {
	counts := map[string]int{}
	for _, item := range items {
		for _, tag := range StringList(item.Tags) {
			tag = strings.ToLower(tag)
			if containsString(styleKeywords, tag) {
				counts[tag]++
			}
		}
	}
	return counts
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
