package model

// Location mirrors the 'locations' table.  A location is a rental hub that
// vehicles are attached to and that customers search by.
type Location struct {
	ID        uint64  `json:"id"`
	Name      string  `json:"name"`
	Address   string  `json:"address"`
	City      string  `json:"city"`
	State     string  `json:"state"`
	ZipCode   string  `json:"zip_code"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}
