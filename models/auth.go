package models

type RegisterIn struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
	Platform string `json:"platform" validate:"required"`
	UserType string `json:"user_type" validate:"omitempty,oneof=individual business"`
}

type LoginIn struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type GoogleAuthSignIn struct {
	IdToken  string `json:"idToken" validate:"required"`
	Platform string `json:"platform" validate:"required"`
}

type TokenOut struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

type UserMeInfoOut struct {
	Id                   string   `json:"id"`
	Name                 string   `json:"name"`
	Email                string   `json:"email"`
	UserType             string   `json:"user_type"`
	AvatarURL            string   `json:"avatar_url"`
	FavoriteColors       []string `json:"favorite_colors"`
	PreferredStyles      []string `json:"preferred_styles"`
	ReceiveNotifications bool     `json:"receive_notifications"`
}
