// Package schemas holds the embedded JSON Schemas used to validate
// scenario files, agent submissions, and per-tool call arguments.
package schemas

import _ "embed"

//go:embed submission.schema.json
var SubmissionSchemaJSON string

//go:embed scenario.schema.json
var ScenarioSchemaJSON string

//go:embed tools/flight_search.json
var FlightSearchArgsJSON string

//go:embed tools/hotel_search.json
var HotelSearchArgsJSON string

//go:embed tools/restaurant_search.json
var RestaurantSearchArgsJSON string

//go:embed tools/weather.json
var WeatherArgsJSON string

//go:embed tools/route_lookup.json
var RouteLookupArgsJSON string

// ToolArgSchemas maps tool names to their argument schema documents.
// The sandbox compiles these once at startup; a tool without an entry
// here is not callable.
var ToolArgSchemas = map[string]string{
	"flight_search":     FlightSearchArgsJSON,
	"hotel_search":      HotelSearchArgsJSON,
	"restaurant_search": RestaurantSearchArgsJSON,
	"weather":           WeatherArgsJSON,
	"route_lookup":      RouteLookupArgsJSON,
}
