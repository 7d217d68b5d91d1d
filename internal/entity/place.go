package entity

// Value Objects vindos da API de busca de lugares. Não são persistidos
// como entidade própria: só passam pelo cache de buscas e viram Lead.

type PlaceSummary struct {
	ID               string   `json:"place_id"`
	Name             string   `json:"name"`
	FormattedAddress string   `json:"formatted_address"`
	Types            []string `json:"types,omitempty"`
}

type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type PlaceDetail struct {
	ID               string    `json:"place_id"`
	Name             string    `json:"name"`
	FormattedAddress string    `json:"formatted_address"`
	Phone            string    `json:"formatted_phone_number,omitempty"`
	Website          string    `json:"website,omitempty"`
	Types            []string  `json:"types,omitempty"`
	Location         *GeoPoint `json:"location,omitempty"`
}
