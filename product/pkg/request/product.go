package request

type FindProducts struct {
	Category     string `json:"category"`
	FeaturedOnly bool   `json:"featuredOnly"`
}
