package review

import (
	"math"

	"clinicbook/models"
)

// AverageRating computes the mean of the given reviews' ratings, rounded
// to one decimal place. An empty slice yields 0.
func AverageRating(reviews []models.Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	sum := 0
	for i := range reviews {
		sum += reviews[i].Rating
	}
	avg := float64(sum) / float64(len(reviews))
	return math.Round(avg*10) / 10
}

// Distribution buckets the reviews by star value, five stars first, with
// each bucket's share of the total as a percentage rounded to one decimal
// place. An empty slice yields all-zero buckets.
func Distribution(reviews []models.Review) []models.StarBucket {
	counts := [6]int{}
	for i := range reviews {
		r := reviews[i].Rating
		if r >= 1 && r <= 5 {
			counts[r]++
		}
	}
	buckets := make([]models.StarBucket, 0, 5)
	for stars := 5; stars >= 1; stars-- {
		pct := 0.0
		if len(reviews) > 0 {
			pct = math.Round(float64(counts[stars])/float64(len(reviews))*1000) / 10
		}
		buckets = append(buckets, models.StarBucket{
			Stars:      stars,
			Count:      counts[stars],
			Percentage: pct,
		})
	}
	return buckets
}

// Stats builds the full rating summary for a set of approved reviews.
func Stats(reviews []models.Review) models.RatingStats {
	return models.RatingStats{
		TotalReviews:  len(reviews),
		AverageRating: AverageRating(reviews),
		Breakdown:     Distribution(reviews),
	}
}
