package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

type ExternalStoreItem struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Brand        string   `json:"brand"`
	Price        float64  `json:"price"`
	Color        string   `json:"color"`
	Category     string   `json:"category"`
	Sizes        []string `json:"sizes"`
	ImageURL     string   `json:"image_url"`
	StoreName    string   `json:"store_name"`
	StoreURL     string   `json:"store_url"`
	Description  string   `json:"description"`
	Rating       float64  `json:"rating"`
	Availability string   `json:"availability"`
	ShippingCost float64  `json:"shipping_cost"`
}

type StoreSearchFilter struct {
	Query    string
	Category string
	Color    string
	MinPrice *float64
	MaxPrice *float64
	Size     string
	Limit    int
}

type PriceQuote struct {
	StoreName    string  `json:"store_name"`
	ItemName     string  `json:"item_name"`
	Price        float64 `json:"price"`
	ShippingCost float64 `json:"shipping_cost"`
	TotalCost    float64 `json:"total_cost"`
	Rating       float64 `json:"rating"`
	Availability string  `json:"availability"`
	URL          string  `json:"url"`
}

type ExternalStoreProvider interface {
	SearchItems(ctx context.Context, filter StoreSearchFilter) ([]ExternalStoreItem, error)
	CheckPriceComparison(ctx context.Context, itemName string, category string) ([]PriceQuote, error)
	SupportedStores() []string
}

// ExternalStoreService filters a fixed mock catalogue. Real marketplace
// APIs would slot in behind the same interface.
type ExternalStoreService struct{}

var storeNames = []string{"Fashion Hub", "Style Central", "Trendy Closet"}

type catalogueEntry struct {
	id           string
	name         string
	brand        string
	price        float64
	color        string
	category     string
	sizes        []string
	description  string
	rating       float64
	availability string
	shippingCost float64
}

var mockCatalogue = []catalogueEntry{
	{"ext_001", "Classic White Button-Down Shirt", "Professional Wear Co.", 45.99, "white", "shirts",
		[]string{"XS", "S", "M", "L", "XL"}, "Crisp white cotton shirt perfect for professional settings", 4.5, "In Stock", 5.99},
	{"ext_002", "Dark Wash Skinny Jeans", "Denim Masters", 79.99, "dark blue", "pants",
		[]string{"26", "28", "30", "32", "34"}, "Comfortable stretch denim jeans with modern fit", 4.2, "In Stock", 7.99},
	{"ext_003", "Little Black Dress", "Evening Elegance", 129.99, "black", "dresses",
		[]string{"XS", "S", "M", "L"}, "Timeless black dress suitable for any formal occasion", 4.8, "Limited Stock", 0.00},
	{"ext_004", "Casual Blazer", "Smart Casual", 89.99, "navy", "jackets",
		[]string{"S", "M", "L", "XL"}, "Versatile blazer that transitions from office to dinner", 4.3, "In Stock", 5.99},
	{"ext_005", "Leather Ankle Boots", "Walk in Style", 149.99, "brown", "shoes",
		[]string{"6", "7", "8", "9", "10"}, "Premium leather boots with comfortable sole", 4.6, "In Stock", 9.99},
	{"ext_006", "Silk Scarf", "Luxury Accessories", 35.99, "multicolor", "accessories",
		[]string{"One Size"}, "Elegant silk scarf with vibrant pattern", 4.4, "In Stock", 3.99},
	{"ext_007", "Cozy Knit Sweater", "Warmth & Style", 65.99, "cream", "sweaters",
		[]string{"XS", "S", "M", "L", "XL"}, "Soft cashmere-blend sweater for chilly days", 4.7, "In Stock", 5.99},
	{"ext_008", "High-Waisted Trousers", "Modern Fits", 69.99, "black", "pants",
		[]string{"XS", "S", "M", "L"}, "Tailored trousers with flattering high-waist cut", 4.1, "In Stock", 6.99},
}

func (s ExternalStoreService) SearchItems(ctx context.Context, filter StoreSearchFilter) ([]ExternalStoreItem, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	query := strings.ToLower(filter.Query)

	var matched []catalogueEntry
	for _, entry := range mockCatalogue {
		if query != "" && !entryMatchesQuery(entry, query) {
			continue
		}
		if filter.Category != "" && entry.category != strings.ToLower(filter.Category) {
			continue
		}
		if filter.Color != "" && !strings.Contains(strings.ToLower(entry.color), strings.ToLower(filter.Color)) {
			continue
		}
		if filter.MinPrice != nil && entry.price < *filter.MinPrice {
			continue
		}
		if filter.MaxPrice != nil && entry.price > *filter.MaxPrice {
			continue
		}
		if filter.Size != "" && !sizeAvailable(entry.sizes, filter.Size) {
			continue
		}
		matched = append(matched, entry)
	}
	if len(matched) > limit {
		matched = matched[:limit]
	}

	// Spread results across the configured stores the way an aggregator
	// would, then sort by price and rating.
	items := make([]ExternalStoreItem, 0, len(matched))
	for i, entry := range matched {
		storeName := storeNames[i%len(storeNames)]
		storeSlug := strings.ReplaceAll(strings.ToLower(storeName), " ", "")
		items = append(items, ExternalStoreItem{
			ID:           fmt.Sprintf("ext_%s_%s", strings.ReplaceAll(strings.ToLower(storeName), " ", "_"), entry.id),
			Name:         entry.name,
			Brand:        entry.brand,
			Price:        entry.price,
			Color:        entry.color,
			Category:     entry.category,
			Sizes:        entry.sizes,
			ImageURL:     "/api/placeholder/300/400",
			StoreName:    storeName,
			StoreURL:     fmt.Sprintf("https://www.%s.com/product/%s", storeSlug, entry.id),
			Description:  entry.description,
			Rating:       entry.rating,
			Availability: entry.availability,
			ShippingCost: entry.shippingCost,
		})
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Price != items[j].Price {
			return items[i].Price < items[j].Price
		}
		return items[i].Rating > items[j].Rating
	})
	return items, nil
}

func (s ExternalStoreService) CheckPriceComparison(ctx context.Context, itemName string, category string) ([]PriceQuote, error) {
	items, err := s.SearchItems(ctx, StoreSearchFilter{Query: itemName, Category: category, Limit: 10})
	if err != nil {
		return nil, err
	}

	quotes := make([]PriceQuote, 0, len(items))
	for _, item := range items {
		quotes = append(quotes, PriceQuote{
			StoreName:    item.StoreName,
			ItemName:     item.Name,
			Price:        item.Price,
			ShippingCost: item.ShippingCost,
			TotalCost:    item.Price + item.ShippingCost,
			Rating:       item.Rating,
			Availability: item.Availability,
			URL:          item.StoreURL,
		})
	}
	sort.SliceStable(quotes, func(i, j int) bool {
		return quotes[i].TotalCost < quotes[j].TotalCost
	})
	return quotes, nil
}

func (s ExternalStoreService) SupportedStores() []string {
	return storeNames
}

func entryMatchesQuery(entry catalogueEntry, query string) bool {
	for _, value := range []string{entry.name, entry.brand, entry.description, entry.category} {
		if strings.Contains(strings.ToLower(value), query) {
			return true
		}
	}
	return false
}

func sizeAvailable(sizes []string, size string) bool {
	for _, s := range sizes {
		if s == size {
			return true
		}
	}
	return false
}
