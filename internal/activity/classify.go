package activity

import (
	"github.com/i474232898/activity-finder/internal/common"
)

var outdoorKeywords = []string{"sun", "clear", "partly cloudy"}

// Classify picks the outdoor tag set when the summary mentions sun, clear or
// partly cloudy anywhere (plain substring match, so "sunday" counts as sun),
// and the indoor set otherwise.
func Classify(summary ForecastSummary) ActivityTagSet {
	if common.HasAnyFold(string(summary), outdoorKeywords...) {
		return OutdoorActivities.clone()
	}
	return IndoorActivities.clone()
}

// CategorizeForecast buckets a summary for the forecast panel image. It is
// independent of Classify and the two may disagree.
func CategorizeForecast(summary ForecastSummary) ForecastCategory {
	s := string(summary)
	switch {
	case common.HasAnyFold(s, "snow", "sleet", "flurr", "blizzard"):
		return CategorySnowy
	case common.HasAnyFold(s, "rain", "shower", "drizzle", "thunder", "storm"):
		return CategoryRainy
	case common.HasAnyFold(s, "cloud", "overcast", "fog", "haze"):
		return CategoryCloudy
	default:
		return CategorySunny
	}
}

func (s ActivityTagSet) clone() ActivityTagSet {
	tags := make([]string, len(s.Tags))
	copy(tags, s.Tags)
	return ActivityTagSet{Kind: s.Kind, Tags: tags}
}
