package constants

const (
	AppStorefront = "storefront"
	AudienceShop  = "audience-shop"
	RoleAdmin     = "admin"
)
