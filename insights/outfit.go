// Package insights derives outfit compatibility suggestions and wardrobe
// analytics from a user's items. Scoring is rule-based: category pairing
// rules plus simplified color theory (neutrals, complementary and analogous
// hues) and style tag matching.
package insights

import (
	"encoding/json"
	"math"
	"sort"
	"strings"

	"tryrack-backend/models"

	"gorm.io/datatypes"
)

// categoryPairs maps a generic category to the categories it pairs with.
// Underwear is never suggested as part of an outfit.
var categoryPairs = map[string][]string{
	"top":         {"bottom", "shoes", "outerwear", "accessories"},
	"bottom":      {"top", "shoes", "outerwear", "accessories"},
	"dress":       {"shoes", "outerwear", "accessories"},
	"outerwear":   {"top", "bottom", "shoes", "accessories"},
	"shoes":       {"top", "bottom", "dress", "outerwear"},
	"accessories": {"top", "bottom", "dress", "outerwear"},
	"underwear":   {},
}

// categoryAliases collapses specific garment names into the generic
// categories used by the pairing rules ("sweater" -> "top").
var categoryAliases = map[string]string{
	"shirt":    "top",
	"t-shirt":  "top",
	"tshirt":   "top",
	"blouse":   "top",
	"sweater":  "top",
	"hoodie":   "top",
	"jacket":   "top",
	"cardigan": "top",
	"polo":     "top",
	"tank":     "top",
	"tank top": "top",

	"pant":     "bottom",
	"pants":    "bottom",
	"jeans":    "bottom",
	"chino":    "bottom",
	"chinos":   "bottom",
	"trouser":  "bottom",
	"trousers": "bottom",
	"short":    "bottom",
	"shorts":   "bottom",
	"skirt":    "bottom",

	"coat":     "outerwear",
	"blazer":   "outerwear",
	"overcoat": "outerwear",
	"parka":    "outerwear",
}

// neutralColors pair well with almost anything. Matched by substring so
// "navy blue" and "dark gray" still count.
var neutralColors = []string{
	"black", "white", "gray", "grey", "navy", "beige", "tan", "brown",
	"charcoal", "ivory", "cream", "khaki", "olive", "burgundy",
}

// complementaryHues are opposite pairs on the color wheel.
var complementaryHues = map[string]string{
	"red":    "green",
	"orange": "blue",
	"yellow": "purple",
	"green":  "red",
	"blue":   "orange",
	"purple": "yellow",
}

// analogousGroups are adjacent hues that work well together.
var analogousGroups = [][]string{
	{"red", "orange", "yellow"},
	{"yellow", "green", "blue"},
	{"blue", "purple", "pink"},
	{"red", "pink", "purple"},
}

// NormalizeCategory maps a free-form category name onto a generic pairing
// category. Unknown names pass through lowercased.
func NormalizeCategory(category string) string {
	normalized := strings.ToLower(strings.TrimSpace(category))
	if generic, ok := categoryAliases[normalized]; ok {
		return generic
	}
	return normalized
}

func normalizeColor(color string) string {
	return strings.ToLower(strings.TrimSpace(color))
}

func isNeutralColor(color string) bool {
	normalized := normalizeColor(color)
	for _, neutral := range neutralColors {
		if strings.Contains(normalized, neutral) {
			return true
		}
	}
	return false
}

// baseHue extracts the actual hue from a compound color name: the last
// word ("navy blue" -> "blue", "light green" -> "green").
func baseHue(color string) string {
	tokens := strings.Fields(color)
	if len(tokens) == 0 {
		return color
	}
	return tokens[len(tokens)-1]
}

// colorCompatibility scores two color sets. Either side neutral scores
// 0.9, complementary hues 0.8, analogous hues 0.7, matching hues 0.6,
// anything else 0.3. Unknown colors on either side score a neutral 0.5.
func colorCompatibility(itemColors, otherColors []string) float64 {
	if len(itemColors) == 0 || len(otherColors) == 0 {
		return 0.5
	}

	for _, c := range itemColors {
		if isNeutralColor(c) {
			return 0.9
		}
	}
	for _, c := range otherColors {
		if isNeutralColor(c) {
			return 0.9
		}
	}

	for _, itemColor := range itemColors {
		itemColor = normalizeColor(itemColor)
		for _, otherColor := range otherColors {
			otherColor = normalizeColor(otherColor)
			itemBase := baseHue(itemColor)
			otherBase := baseHue(otherColor)

			if complementaryHues[itemBase] == otherBase || complementaryHues[otherBase] == itemBase {
				return 0.8
			}

			for _, group := range analogousGroups {
				if containsString(group, itemBase) && containsString(group, otherBase) {
					return 0.7
				}
			}

			if itemBase == otherBase || strings.Contains(otherColor, itemBase) || strings.Contains(itemColor, otherBase) {
				return 0.6
			}
		}
	}

	return 0.3
}

// outfitStyleKeywords are the style tags considered when pairing items.
var outfitStyleKeywords = []string{
	"formal", "casual", "sporty", "elegant", "vintage", "modern",
	"classic", "trendy", "minimalist", "bohemian", "street", "business",
}

// styleCompatibility scores two tag sets: identical style keyword sets
// score 0.9, everything else a neutral 0.5.
func styleCompatibility(itemTags, otherTags []string) float64 {
	if len(itemTags) == 0 || len(otherTags) == 0 {
		return 0.5
	}

	itemStyles := styleKeywordSet(itemTags, outfitStyleKeywords)
	otherStyles := styleKeywordSet(otherTags, outfitStyleKeywords)

	if len(itemStyles) > 0 && len(otherStyles) > 0 && equalSets(itemStyles, otherStyles) {
		return 0.9
	}
	return 0.5
}

func styleKeywordSet(tags, keywords []string) map[string]bool {
	set := make(map[string]bool)
	for _, tag := range tags {
		tag = strings.ToLower(tag)
		if containsString(keywords, tag) {
			set[tag] = true
		}
	}
	return set
}

func equalSets(a, b map[string]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if !b[k] {
			return false
		}
	}
	return true
}

func containsString(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}

// Match is a wardrobe item scored for compatibility with a base item.
type Match struct {
	Item    models.WardrobeItem `json:"item"`
	Score   float64             `json:"score"`
	Reasons []string            `json:"reasons"`
}

// CompatibleItems scores wardrobe against the base item and returns the
// matches worth suggesting, best first. Only clean items in categories
// that pair with the base category are considered; matches scoring below
// 0.4 are dropped. Color carries 70% of the weight, style 30%.
func CompatibleItems(baseCategory string, baseColors, baseTags []string, wardrobe []models.WardrobeItem) []Match {
	pairable := categoryPairs[NormalizeCategory(baseCategory)]
	if len(pairable) == 0 {
		return []Match{}
	}

	matches := []Match{}
	for _, item := range wardrobe {
		if !containsString(pairable, NormalizeCategory(item.Category)) && !containsString(pairable, item.Category) {
			continue
		}
		if item.Status != models.ItemStatusClean {
			continue
		}

		colorScore := colorCompatibility(baseColors, StringList(item.Colors))
		styleScore := styleCompatibility(baseTags, StringList(item.Tags))
		score := colorScore*0.7 + styleScore*0.3
		if score < 0.4 {
			continue
		}

		var reasons []string
		if colorScore >= 0.8 {
			reasons = append(reasons, "Excellent color match")
		} else if colorScore >= 0.6 {
			reasons = append(reasons, "Good color compatibility")
		}
		if styleScore >= 0.8 {
			reasons = append(reasons, "Matching style")
		}
		if reasons == nil {
			reasons = []string{"Compatible item"}
		}

		matches = append(matches, Match{
			Item:    item,
			Score:   math.Round(score*100) / 100,
			Reasons: reasons,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	return matches
}

// StringList decodes a JSON string-array column. Missing or malformed
// columns decode to nil.
func StringList(raw datatypes.JSON) []string {
	if len(raw) == 0 {
		return nil
	}
	var values []string
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil
	}
	return values
}
