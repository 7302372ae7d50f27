package submission

import (
	"fmt"

	"github.com/agentbeats/veritrail/internal/models"
)

// ExtractClaims maps a validated submission to its atomic factual claims
// using a fixed extraction schema: claims come only from typed fields,
// never from free-text rationale. Each claim is traceable to exactly one
// submission field via its FieldPath.
//
// The schema, per section:
//   - flights[i]:  price, airline, route (from-to) keyed by flight_number
//   - lodging[i]:  price_per_night, and total_price/rating when stated
//   - dining[i]:   identity (the restaurant must exist in ledger results),
//     and rating when stated
func ExtractClaims(sub *models.Submission) []models.Claim {
	var claims []models.Claim

	for i, f := range sub.Flights {
		if f.FlightNumber == "" {
			continue
		}
		path := fmt.Sprintf("/flights/%d", i)
		claims = append(claims, models.Claim{
			Entity: models.EntityFlight, EntityID: f.FlightNumber,
			Attribute: "price", Value: f.Price, FieldPath: path + "/price",
		})
		if f.Airline != "" {
			claims = append(claims, models.Claim{
				Entity: models.EntityFlight, EntityID: f.FlightNumber,
				Attribute: "airline", Value: f.Airline, FieldPath: path + "/airline",
			})
		}
		if f.From != "" && f.To != "" {
			claims = append(claims, models.Claim{
				Entity: models.EntityFlight, EntityID: f.FlightNumber,
				Attribute: "route", Value: f.From + "-" + f.To, FieldPath: path + "/from",
			})
		}
	}

	for i, l := range sub.Lodging {
		if l.PropertyName == "" {
			continue
		}
		path := fmt.Sprintf("/lodging/%d", i)
		claims = append(claims, models.Claim{
			Entity: models.EntityLodging, EntityID: l.PropertyName,
			Attribute: "price_per_night", Value: l.PricePerNight, FieldPath: path + "/price_per_night",
		})
		if l.TotalPrice > 0 {
			claims = append(claims, models.Claim{
				Entity: models.EntityLodging, EntityID: l.PropertyName,
				Attribute: "total_price", Value: l.TotalPrice, FieldPath: path + "/total_price",
			})
		}
		if l.Rating > 0 {
			claims = append(claims, models.Claim{
				Entity: models.EntityLodging, EntityID: l.PropertyName,
				Attribute: "rating", Value: l.Rating, FieldPath: path + "/rating",
			})
		}
	}

	for i, d := range sub.Dining {
		if d.Name == "" {
			continue
		}
		path := fmt.Sprintf("/dining/%d", i)
		claims = append(claims, models.Claim{
			Entity: models.EntityRestaurant, EntityID: d.Name,
			Attribute: "name", Value: d.Name, FieldPath: path + "/name",
		})
		if d.Rating > 0 {
			claims = append(claims, models.Claim{
				Entity: models.EntityRestaurant, EntityID: d.Name,
				Attribute: "rating", Value: d.Rating, FieldPath: path + "/rating",
			})
		}
	}

	return claims
}
