package model

// Room is a salon of the restaurant.  Tables in a room are labelled
// "Masa 1" .. "Masa N" where N is TableCount.
type Room struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	TableCount int    `json:"table_count"`
}
