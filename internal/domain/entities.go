package domain

// Station is a named radio source of the archive together with the token the
// archive expects in its search query
type Station struct {
	Name  string // Display name, unique within the catalog
	Token string // Value of the stanice[] query parameter
}

// Broadcast is one archived programme returned by a search
type Broadcast struct {
	Title       string
	URI         string // Playable stream URI
	Description string
	Date        string // As printed by the archive, not parsed
}
