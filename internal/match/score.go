package match

import (
	"math"
	"strings"

	"friendfinder/backend/internal/models"
)

// Term weights. Absent attributes contribute 0 without renormalizing.
const (
	weightLocation     = 0.3
	weightInterests    = 0.3
	weightActivities   = 0.2
	weightAvailability = 0.2

	// Location score decays linearly to 0 at this distance.
	maxDistanceKM = 100.0

	earthRadiusKM = 6371.0
)

// Score computes a compatibility score between two profiles in [0, 1],
// rounded to 2 decimal places. Each term only contributes when both users
// have the relevant attribute populated, so the result is symmetric:
// Score(a, b) == Score(b, a).
func Score(self, other *models.User) float64 {
	var score float64

	if self.Latitude != nil && self.Longitude != nil &&
		other.Latitude != nil && other.Longitude != nil {
		d := Haversine(*self.Latitude, *self.Longitude, *other.Latitude, *other.Longitude)
		score += weightLocation * math.Max(0, 1-d/maxDistanceKM)
	}

	if self.Interests != "" && other.Interests != "" {
		score += weightInterests * jaccard(SplitTags(self.Interests), SplitTags(other.Interests))
	}

	if self.Activities != "" && other.Activities != "" {
		score += weightActivities * jaccard(SplitTags(self.Activities), SplitTags(other.Activities))
	}

	if self.Availability != "" && other.Availability != "" {
		if self.Availability == other.Availability {
			score += weightAvailability * 1.0
		} else {
			score += weightAvailability * 0.5
		}
	}

	return math.Round(score*100) / 100
}

// Haversine returns the great-circle distance in kilometers between two
// latitude/longitude points.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKM * c
}

// SplitTags parses a comma-separated tag string into a lowercased set.
// Empty entries are dropped.
func SplitTags(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tag := range strings.Split(s, ",") {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag != "" {
			set[tag] = struct{}{}
		}
	}
	return set
}

func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	inter := 0
	for tag := range a {
		if _, ok := b[tag]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}
