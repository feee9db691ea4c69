package geo

import (
	"context"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/platefit/fulfillment/internal/models"
)

// restaurant locations live in a single redis GEO set keyed by restaurant id
const restaurantGeoKey = "restaurants:geo"

// Finder answers "which restaurants can fulfill an order placed here" using
// the redis geospatial index. Restaurant onboarding keeps the set current.
type Finder struct {
	client *redis.Client
}

// NewFinder creates new Finder instance
func NewFinder(client *redis.Client) *Finder {
	return &Finder{client: client}
}

// UpsertRestaurant adds or moves a restaurant location in the geo set
func (f *Finder) UpsertRestaurant(ctx context.Context, restaurantID uuid.UUID, lat, lon float64) error {
	return f.client.GeoAdd(ctx, restaurantGeoKey, &redis.GeoLocation{
		Name:      restaurantID.String(),
		Latitude:  lat,
		Longitude: lon,
	}).Err()
}

// RemoveRestaurant drops a restaurant from the geo set
func (f *Finder) RemoveRestaurant(ctx context.Context, restaurantID uuid.UUID) error {
	return f.client.ZRem(ctx, restaurantGeoKey, restaurantID.String()).Err()
}

// FindCandidates returns restaurants within radiusKm of the point, closest
// first. An empty result is not an error; the caller decides what it means.
func (f *Finder) FindCandidates(ctx context.Context, lat, lon, radiusKm float64) ([]models.Candidate, error) {
	locations, err := f.client.GeoSearchLocation(ctx, restaurantGeoKey, &redis.GeoSearchLocationQuery{
		GeoSearchQuery: redis.GeoSearchQuery{
			Latitude:   lat,
			Longitude:  lon,
			Radius:     radiusKm,
			RadiusUnit: "km",
			Sort:       "ASC",
		},
		WithDist: true,
	}).Result()
	if err != nil {
		return nil, err
	}

	candidates := make([]models.Candidate, 0, len(locations))
	for _, loc := range locations {
		id, err := uuid.Parse(loc.Name)
		if err != nil {
			continue
		}
		candidates = append(candidates, models.Candidate{
			RestaurantID: id,
			DistanceKm:   loc.Dist,
		})
	}

	return candidates, nil
}
