package models

import "github.com/shopspring/decimal"

// AverageRating returns the mean of ratings rounded half-to-even to one
// decimal place, or zero when there are none.
func AverageRating(ratings []decimal.Decimal) decimal.Decimal {
	if len(ratings) == 0 {
		return decimal.Zero
	}

	sum := decimal.Sum(ratings[0], ratings[1:]...)
	return sum.Div(decimal.NewFromInt(int64(len(ratings)))).RoundBank(1)
}

// ProductRating derives a product's rating from its reviews.
func ProductRating(reviews []Review) decimal.Decimal {
	ratings := make([]decimal.Decimal, len(reviews))
	for i, r := range reviews {
		ratings[i] = r.Rating
	}
	return AverageRating(ratings)
}
