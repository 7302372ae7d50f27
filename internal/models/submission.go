package models

// Submission is the task agent's final structured answer for one run.
// It is produced once by the external agent and consumed read-only here.
type Submission struct {
	Flights   []FlightChoice  `json:"flights"`
	Lodging   []LodgingChoice `json:"lodging"`
	Dining    []DiningChoice  `json:"dining"`
	Itinerary []ItineraryItem `json:"itinerary"`
	TotalCost float64         `json:"total_cost"`
	Rationale string          `json:"rationale,omitempty"`
}

type FlightChoice struct {
	FlightNumber string  `json:"flight_number"`
	Airline      string  `json:"airline"`
	From         string  `json:"from"`
	To           string  `json:"to"`
	DepartTime   string  `json:"depart_time,omitempty"`
	ArriveTime   string  `json:"arrive_time,omitempty"`
	Price        float64 `json:"price"`
}

type LodgingChoice struct {
	PropertyName  string  `json:"property_name"`
	Rating        float64 `json:"rating,omitempty"`
	PricePerNight float64 `json:"price_per_night"`
	TotalPrice    float64 `json:"total_price,omitempty"`
	CheckIn       string  `json:"check_in,omitempty"`
	CheckOut      string  `json:"check_out,omitempty"`
	City          string  `json:"city,omitempty"`
}

type DiningChoice struct {
	Name       string  `json:"name"`
	Rating     float64 `json:"rating,omitempty"`
	PriceLevel string  `json:"price_level,omitempty"`
	City       string  `json:"city,omitempty"`
}

// ItineraryItem is one scheduled activity. Times are local "HH:MM"; Day is
// an ISO date. Lat/Lon are optional and only used by the geo validator.
type ItineraryItem struct {
	Day       string  `json:"day"`
	Activity  string  `json:"activity"`
	StartTime string  `json:"start_time,omitempty"`
	EndTime   string  `json:"end_time,omitempty"`
	Location  string  `json:"location,omitempty"`
	Lat       float64 `json:"lat,omitempty"`
	Lon       float64 `json:"lon,omitempty"`
	Outdoor   bool    `json:"outdoor,omitempty"`
}
