package models

// Image is a single gallery entry served to the storefront.
type Image struct {
	ID  int    `json:"id"`
	Src string `json:"src"`
	Alt string `json:"alt"`
}
