package recommend

import "time"

// ClothingItem is the normalized, in-memory view of a wardrobe piece the
// engine works with. Callers map their persisted rows into this shape.
type ClothingItem struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Type       string     `json:"type"`
	Color      string     `json:"color"`
	Tags       []string   `json:"tags"`
	UsageCount int        `json:"usage_count"`
	LastWorn   *time.Time `json:"last_worn"`
	IsFormal   bool       `json:"is_formal"`
	IsSeasonal bool       `json:"is_seasonal"`
}

type Weather struct {
	Temperature float64 `json:"temperature"`
	Condition   string  `json:"condition"`
}

type Preferences struct {
	FavoriteColors  []string `json:"favorite_colors"`
	PreferredStyles []string `json:"preferred_styles"`
}

type OutfitRecommendation struct {
	Items              []string `json:"items"`
	Confidence         float64  `json:"confidence"`
	Reasoning          string   `json:"reasoning"`
	WeatherAppropriate bool     `json:"weather_appropriate"`
	EventMatch         bool     `json:"event_match"`
	StyleScore         float64  `json:"style_score"`
}

// ItemUsage is the slimmed item view used in usage reports.
type ItemUsage struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	UsageCount int    `json:"usage_count"`
}

type WardrobeUsageReport struct {
	TotalItems        int            `json:"total_items"`
	AverageUsage      float64        `json:"average_usage"`
	RarelyWorn        []ItemUsage    `json:"rarely_worn"`
	MostWorn          []ItemUsage    `json:"most_worn"`
	ColorDistribution map[string]int `json:"color_distribution"`
	TypeDistribution  map[string]int `json:"type_distribution"`
	Suggestions       []string       `json:"suggestions"`
}
