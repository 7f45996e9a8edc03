package flights

type locationsResponse struct {
	Data []struct {
		IATACode string `json:"iataCode"`
	} `json:"data"`
}

type offersResponse struct {
	Data []flightOffer `json:"data"`
}

type flightOffer struct {
	Price struct {
		Total string `json:"total"`
	} `json:"price"`
	Itineraries []itinerary `json:"itineraries"`
}

type itinerary struct {
	Segments []segment `json:"segments"`
}

type segment struct {
	Departure endpoint `json:"departure"`
	Arrival   endpoint `json:"arrival"`
}

type endpoint struct {
	IATACode string `json:"iataCode"`
	At       string `json:"at"`
}
