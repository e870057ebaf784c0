package models

import (
	"time"

	"github.com/lib/pq"
)

type JsonModel struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type UserAccount struct {
	JsonModel
	Name     string `json:"name"`
	Email    string `json:"email" gorm:"unique"`
	Password string `json:"-"`
	Banned   bool   `gorm:"default:false" json:"-"`
	LastIp   string `json:"-"`
	//"STARTED_AUTH", "FINISHED_AUTH"
	Status   string   `json:"-"`
	GoogleID string   `json:"-"`
	Platform Platform `sql:"type:ENUM('ios', 'android', 'web')" json:"platform"`
	// individual or business account
	UserType string `gorm:"default:individual" json:"user_type"`

	// style preferences consumed by the recommendation engine
	FavoriteColors  pq.StringArray `gorm:"type:text[]" json:"favorite_colors"`
	PreferredStyles pq.StringArray `gorm:"type:text[]" json:"preferred_styles"`

	ReceiveNotifications bool   `json:"receive_notifications"`
	AvatarURL            string `json:"avatar_url"`

	Items      []ClothingItem `gorm:"foreignKey:OwnerID" json:"-"`
	Outfits    []Outfit       `gorm:"foreignKey:OwnerID" json:"-"`
	Businesses []Business     `gorm:"foreignKey:OwnerID" json:"-"`
}

type UserPushToken struct {
	JsonModel
	UserAccountID uint
	UserAccount   UserAccount `json:"user_account"`
	Platform      Platform    `sql:"type:ENUM('ios', 'android', 'web')" json:"platform"`
	Token         string      `json:"token"`
	Active        bool        `gorm:"default:false" json:"-"`
}

type UserPushIn struct {
	Token    string `json:"token"`
	Platform string `json:"platform" validate:"required,platform"`
}

type UserSettingsIn struct {
	ReceiveNotifications *bool    `json:"receive_notifications"`
	FavoriteColors       []string `json:"favorite_colors"`
	PreferredStyles      []string `json:"preferred_styles"`
}
