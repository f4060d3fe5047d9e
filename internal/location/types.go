package location

// Location is a named place devices are installed at. Names are unique.
// Locations are created on first use and never updated or deleted.
type Location struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
