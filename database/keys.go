package database

// Logical key layout, shared by every handler.
const (
	ProductsKey       = "produtos"
	MLAccessTokenKey  = "ml_access_token"
	MLRefreshTokenKey = "ml_refresh_token"
)

func UserKey(id string) string { return "usuario:" + id }

func EmailKey(email string) string { return "email:" + email }

func GoogleKey(googleID string) string { return "google:" + googleID }

func FavoritesKey(userID string) string { return "favoritos:" + userID }
