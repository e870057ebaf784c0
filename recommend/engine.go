package recommend

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"time"
)

// oversampleFactor controls how many candidate outfits are generated per
// requested recommendation so the weakest ones can be filtered out.
const oversampleFactor = 3

// Engine assembles and scores outfit combinations. The random source is
// injected so tests can seed it and assert exact candidate sequences.
type Engine struct {
	rng *rand.Rand
}

func NewEngine() *Engine {
	return &Engine{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// NewSeededEngine returns an engine with a deterministic random source.
func NewSeededEngine(seed int64) *Engine {
	return &Engine{rng: rand.New(rand.NewSource(seed))}
}

// GenerateRecommendations builds up to count scored outfits from the given
// wardrobe. Missing buckets degrade the result instead of failing: if no
// valid combination can be assembled the returned slice is empty.
func (e *Engine) GenerateRecommendations(
	wardrobe []ClothingItem,
	event string,
	weather *Weather,
	prefs *Preferences,
	count int,
) []OutfitRecommendation {
	if count < 1 {
		return nil
	}

	recommendations := make([]OutfitRecommendation, 0, count*oversampleFactor)
	for i := 0; i < count*oversampleFactor; i++ {
		rec := e.buildCombination(wardrobe, event, weather, prefs)
		if rec != nil {
			recommendations = append(recommendations, *rec)
		}
	}

	sort.SliceStable(recommendations, func(i, j int) bool {
		return recommendations[i].Confidence > recommendations[j].Confidence
	})
	if len(recommendations) > count {
		recommendations = recommendations[:count]
	}
	return recommendations
}

// buildCombination assembles one candidate outfit, or nil when the draw
// lands on the top+bottom branch and either bucket is empty.
func (e *Engine) buildCombination(
	items []ClothingItem,
	event string,
	weather *Weather,
	prefs *Preferences,
) *OutfitRecommendation {
	buckets := partition(items)
	tops := buckets[bucketTops]
	bottoms := buckets[bucketBottoms]
	shoes := buckets[bucketShoes]
	outerwear := buckets[bucketOuterwear]
	dresses := buckets[bucketDresses]
	accessories := buckets[bucketAccessories]

	var outfit []ClothingItem
	var reasoningParts []string
	var confidenceFactors []float64

	// 30% chance to build around a dress when one exists.
	if len(dresses) > 0 && e.rng.Float64() > 0.7 {
		dress := dresses[e.rng.Intn(len(dresses))]
		outfit = append(outfit, dress)
		reasoningParts = append(reasoningParts, fmt.Sprintf("Selected %s as the main piece", dress.Name))
		confidenceFactors = append(confidenceFactors, 0.8)
	} else {
		if len(tops) == 0 || len(bottoms) == 0 {
			return nil
		}
		top := tops[e.rng.Intn(len(tops))]
		bottom := bottoms[e.rng.Intn(len(bottoms))]
		confidenceFactors = append(confidenceFactors, ColorHarmony(top.Color, bottom.Color))
		outfit = append(outfit, top, bottom)
		reasoningParts = append(reasoningParts, fmt.Sprintf("Paired %s with %s", top.Name, bottom.Name))
	}

	if len(shoes) > 0 {
		outfit = append(outfit, shoes[e.rng.Intn(len(shoes))])
		confidenceFactors = append(confidenceFactors, 0.7)
	}

	if weather != nil && needsOuterwear(*weather) && len(outerwear) > 0 {
		outer := outerwear[e.rng.Intn(len(outerwear))]
		outfit = append(outfit, outer)
		reasoningParts = append(reasoningParts, fmt.Sprintf("Added %s for weather", outer.Name))
		confidenceFactors = append(confidenceFactors, 0.8)
	}

	// 40% chance to finish with an accessory.
	if len(accessories) > 0 && e.rng.Float64() > 0.6 {
		outfit = append(outfit, accessories[e.rng.Intn(len(accessories))])
		confidenceFactors = append(confidenceFactors, 0.6)
	}

	weatherAppropriate := isWeatherAppropriate(outfit, weather)
	eventMatch := matchesEvent(outfit, event)
	styleScore := calculateStyleScore(outfit, prefs)

	baseConfidence := 0.5
	if len(confidenceFactors) > 0 {
		var sum float64
		for _, f := range confidenceFactors {
			sum += f
		}
		baseConfidence = sum / float64(len(confidenceFactors))
	}
	weatherBonus := -0.3
	if weatherAppropriate {
		weatherBonus = 0.2
	}
	eventBonus := -0.1
	if eventMatch {
		eventBonus = 0.2
	}
	confidence := clamp01(baseConfidence + weatherBonus + eventBonus + styleScore*0.1)

	reasoning := strings.Join(reasoningParts, "; ")
	if weather != nil {
		condition := weather.Condition
		if condition == "" {
			condition = "current"
		}
		reasoning += fmt.Sprintf(" (for %s weather)", condition)
	}
	if event != "" {
		reasoning += fmt.Sprintf(" (suitable for %s)", event)
	}

	ids := make([]string, len(outfit))
	for i, item := range outfit {
		ids[i] = item.ID
	}
	return &OutfitRecommendation{
		Items:              ids,
		Confidence:         confidence,
		Reasoning:          reasoning,
		WeatherAppropriate: weatherAppropriate,
		EventMatch:         eventMatch,
		StyleScore:         styleScore,
	}
}

func partition(items []ClothingItem) map[bucket][]ClothingItem {
	buckets := make(map[bucket][]ClothingItem, 6)
	for _, item := range items {
		b, ok := typeBuckets[item.Type]
		if !ok {
			continue
		}
		buckets[b] = append(buckets[b], item)
	}
	return buckets
}

// ColorHarmony scores how well two colors pair, case-insensitively.
// Exact match 0.9, same harmony group 0.8, either neutral 0.7, else 0.5.
// An item without a color never beats the default.
func ColorHarmony(color1, color2 string) float64 {
	c1 := strings.ToLower(color1)
	c2 := strings.ToLower(color2)
	if c1 == "" || c2 == "" {
		return 0.5
	}
	if c1 == c2 {
		return 0.9
	}
	for _, colors := range colorHarmonyGroups {
		if containsString(colors, c1) && containsString(colors, c2) {
			return 0.8
		}
	}
	if containsString(colorHarmonyGroups["neutral"], c1) || containsString(colorHarmonyGroups["neutral"], c2) {
		return 0.7
	}
	return 0.5
}

func needsOuterwear(weather Weather) bool {
	return weather.Temperature < 15 || outerwearConditions[weather.Condition]
}

func isWeatherAppropriate(outfit []ClothingItem, weather *Weather) bool {
	if weather == nil {
		return true
	}
	keywords := weatherKeywords[weatherBand(weather.Temperature)]
	for _, item := range outfit {
		if containsString(keywords, item.Type) {
			return true
		}
		for _, tag := range item.Tags {
			if containsString(keywords, tag) {
				return true
			}
		}
	}
	return false
}

func matchesEvent(outfit []ClothingItem, event string) bool {
	if event == "" {
		return true
	}
	key := strings.ToLower(event)
	styles, ok := eventStyles[key]
	if !ok {
		return true
	}
	formalQualifies := key == "work" || key == "formal"
	for _, item := range outfit {
		if item.IsFormal && formalQualifies {
			return true
		}
		for _, tag := range item.Tags {
			if containsString(styles, tag) {
				return true
			}
		}
	}
	return false
}

func calculateStyleScore(outfit []ClothingItem, prefs *Preferences) float64 {
	if prefs == nil {
		return 0.5
	}
	score := 0.5

	if len(prefs.FavoriteColors) > 0 {
		favorites := lowered(prefs.FavoriteColors)
		for _, item := range outfit {
			if item.Color != "" && containsString(favorites, strings.ToLower(item.Color)) {
				score += 0.2
				break
			}
		}
	}

	if len(prefs.PreferredStyles) > 0 {
		var outfitTags []string
		for _, item := range outfit {
			outfitTags = append(outfitTags, lowered(item.Tags)...)
		}
		for _, style := range prefs.PreferredStyles {
			if containsString(outfitTags, strings.ToLower(style)) {
				score += 0.2
				break
			}
		}
	}

	if score > 1.0 {
		score = 1.0
	}
	return score
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func containsString(items []string, lookFor string) bool {
	for _, item := range items {
		if item == lookFor {
			return true
		}
	}
	return false
}

func lowered(items []string) []string {
	result := make([]string, len(items))
	for i, item := range items {
		result[i] = strings.ToLower(item)
	}
	return result
}
