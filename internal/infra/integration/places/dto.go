package places

// Formato de resposta da Places Web Service API.

type latLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type geometry struct {
	Location latLng `json:"location"`
}

type placeResult struct {
	PlaceID          string    `json:"place_id"`
	Name             string    `json:"name"`
	FormattedAddress string    `json:"formatted_address"`
	Phone            string    `json:"formatted_phone_number"`
	Website          string    `json:"website"`
	Types            []string  `json:"types"`
	Geometry         *geometry `json:"geometry"`
}

type textSearchResponse struct {
	Results      []placeResult `json:"results"`
	Status       string        `json:"status"`
	ErrorMessage string        `json:"error_message"`
}

type detailsResponse struct {
	Result       placeResult `json:"result"`
	Status       string      `json:"status"`
	ErrorMessage string      `json:"error_message"`
}
