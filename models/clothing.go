package models

import (
	"time"

	"github.com/lib/pq"
)

type ClothingItem struct {
	JsonModel
	Name string `json:"name"`
	// e.g. shirt, t-shirt, jeans, shoes, dress, jacket, accessories
	ClothingType string         `json:"clothing_type"`
	Color        string         `json:"color"`
	Size         *string        `json:"size"`
	Brand        *string        `json:"brand"`
	Price        *float64       `json:"price"`
	Tags         pq.StringArray `gorm:"type:text[]" json:"tags"`
	UsageCount   int            `gorm:"default:0" json:"usage_count"`
	LastWorn     *time.Time     `json:"last_worn"`
	IsFormal     bool           `gorm:"default:false" json:"is_formal"`
	IsSeasonal   bool           `gorm:"default:false" json:"is_seasonal"`

	Owner   UserAccount `json:"-"`
	OwnerID uint        `json:"-"`

	ImageURL         *string `json:"image_url"`
	ImageStatus      string  `json:"image_status"`      // draft, uploaded
	ProcessingStatus string  `json:"processing_status"` // idle, pending, completed, failed
	ProcessErrorMsg  *string `json:"process_error_message"`
	// dominant colors extracted from the item image by the worker, hex encoded
	DominantColors pq.StringArray `gorm:"type:text[]" json:"dominant_colors"`

	// business catalogue items are browsable by other users
	IsBusinessItem bool      `gorm:"default:false" json:"is_business_item"`
	BusinessID     *uint     `json:"business_id"`
	Business       *Business `json:"-"`
}

type Outfit struct {
	JsonModel
	Name    string      `json:"name"`
	Owner   UserAccount `json:"-"`
	OwnerID uint        `json:"-"`
	// clothing item ids composing the outfit
	ItemIDs          pq.Int64Array `gorm:"type:bigint[]" json:"items"`
	Event            *string       `json:"event"`
	WeatherTemp      *float64      `json:"weather_temp"`
	WeatherCondition *string       `json:"weather_condition"`
	Rating           *int          `json:"rating"`
	LastWorn         *time.Time    `json:"last_worn"`
	WearCount        int           `gorm:"default:0" json:"wear_count"`
}

type Business struct {
	JsonModel
	Name        string  `json:"name"`
	Description *string `gorm:"type:text" json:"description"`
	Owner       UserAccount
	OwnerID     uint           `json:"-"`
	Catalogue   []ClothingItem `gorm:"foreignKey:BusinessID" json:"-"`
}
