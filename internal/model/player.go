package model

// ClientPlayer is the JSON view of a seat. The engine seat carries the ID "engine".
type ClientPlayer struct {
	ID       string `json:"name"`
	Color    Color  `json:"color"`
	Engine   bool   `json:"engine"`
	TimeUsed int64  `json:"timeUsed"` // milliseconds
}
