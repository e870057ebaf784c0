package recommend

import (
	"math"
	"sort"
	"strings"
)

const (
	rarelyWornCap = 10
	mostWornCap   = 5
)

// AnalyzeWardrobeUsage computes aggregate usage statistics over a wardrobe
// and derives qualitative sustainability suggestions. Pure function of its
// input: no randomness, no side effects.
func AnalyzeWardrobeUsage(items []ClothingItem) WardrobeUsageReport {
	if len(items) == 0 {
		return WardrobeUsageReport{
			RarelyWorn:        []ItemUsage{},
			MostWorn:          []ItemUsage{},
			ColorDistribution: map[string]int{},
			TypeDistribution:  map[string]int{},
			Suggestions:       []string{},
		}
	}

	totalItems := len(items)
	var totalUsage int
	for _, item := range items {
		totalUsage += item.UsageCount
	}
	averageUsage := float64(totalUsage) / float64(totalItems)

	// Rarely worn keeps input order and is capped, most worn is the global
	// top five with ties broken by original position.
	rarelyWorn := []ItemUsage{}
	for _, item := range items {
		if float64(item.UsageCount) < averageUsage*0.5 {
			rarelyWorn = append(rarelyWorn, usageOf(item))
		}
	}
	rarelyWornTotal := len(rarelyWorn)
	if rarelyWornTotal > rarelyWornCap {
		rarelyWorn = rarelyWorn[:rarelyWornCap]
	}

	sorted := make([]ClothingItem, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].UsageCount > sorted[j].UsageCount
	})
	mostWorn := []ItemUsage{}
	for i, item := range sorted {
		if i >= mostWornCap {
			break
		}
		mostWorn = append(mostWorn, usageOf(item))
	}

	colorDistribution := map[string]int{}
	typeDistribution := map[string]int{}
	for _, item := range items {
		colorDistribution[strings.ToLower(item.Color)]++
		typeDistribution[item.Type]++
	}

	suggestions := []string{}
	if float64(rarelyWornTotal) > float64(totalItems)*0.3 {
		suggestions = append(suggestions, "Consider donating or repurposing items you rarely wear")
	}
	if float64(colorDistribution["black"]) > float64(totalItems)*0.4 {
		suggestions = append(suggestions, "Try adding more colorful items to diversify your wardrobe")
	}
	if typeDistribution["jeans"] > 5 {
		suggestions = append(suggestions, "You have many jeans - consider other bottom types for variety")
	}

	return WardrobeUsageReport{
		TotalItems:        totalItems,
		AverageUsage:      math.Round(averageUsage*10) / 10,
		RarelyWorn:        rarelyWorn,
		MostWorn:          mostWorn,
		ColorDistribution: colorDistribution,
		TypeDistribution:  typeDistribution,
		Suggestions:       suggestions,
	}
}

func usageOf(item ClothingItem) ItemUsage {
	return ItemUsage{ID: item.ID, Name: item.Name, UsageCount: item.UsageCount}
}
