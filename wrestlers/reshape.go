package wrestlers

import (
	"math"
	"sort"

	"ringstats-backend/models"
)

// TallyMatches counts decided matches. Draws stay at zero: the published
// careerStats contract only ever reported wins and losses, and Draw results
// surface through WrestlerStats.UnclassifiedMatches instead.
func TallyMatches(matches []models.Match) models.CareerStats {
	stats := models.CareerStats{TotalMatches: len(matches)}
	for _, m := range matches {
		switch m.Outcome() {
		case models.OutcomeWin:
			stats.Wins++
		case models.OutcomeLoss:
			stats.Losses++
		}
	}
	if decided := stats.Wins + stats.Losses; decided > 0 {
		stats.WinPercentage = math.Round(float64(stats.Wins)*1000/float64(decided)) / 10
	}
	return stats
}

// Reshape returns a copy of w with CareerStats recomputed from its matches.
func Reshape(w models.Wrestler) models.Wrestler {
	w.CareerStats = TallyMatches(w.RecentMatches)
	return w
}

// MomentumScore is the difference between the two most recent yearly ratings,
// scaled by 100 and rounded half up, so -0.5 rounds to 0.
func MomentumScore(ratings map[string]models.YearlyRating) int {
	years := sortedYears(ratings)
	if len(years) < 2 {
		return 0
	}
	delta := ratings[years[0]].Rating - ratings[years[1]].Rating
	return int(math.Floor(delta*100 + 0.5))
}

// sortedYears returns the rating keys newest first.
func sortedYears(ratings map[string]models.YearlyRating) []string {
	years := make([]string, 0, len(ratings))
	for y := range ratings {
		years = append(years, y)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(years)))
	return years
}

type YearRating struct {
	Year   string  `json:"year"`
	Rating float64 `json:"rating"`
	Votes  int     `json:"votes"`
}

// WrestlerStats is the per-wrestler breakdown served by the stats route.
type WrestlerStats struct {
	ID                  string             `json:"id"`
	Name                string             `json:"name"`
	CareerStats         models.CareerStats `json:"careerStats"`
	MomentumScore       int                `json:"momentumScore"`
	AverageRating       float64            `json:"averageRating"`
	YearlyRatings       []YearRating       `json:"yearlyRatings"`
	UnclassifiedMatches int                `json:"unclassifiedMatches"`
}

func StatsFor(w models.Wrestler) WrestlerStats {
	career := TallyMatches(w.RecentMatches)
	years := sortedYears(w.YearlyRatings)
	yearly := make([]YearRating, 0, len(years))
	for _, y := range years {
		r := w.YearlyRatings[y]
		yearly = append(yearly, YearRating{Year: y, Rating: r.Rating, Votes: r.Votes})
	}
	return WrestlerStats{
		ID:                  w.ID,
		Name:                w.Name,
		CareerStats:         career,
		MomentumScore:       MomentumScore(w.YearlyRatings),
		AverageRating:       w.AverageRating,
		YearlyRatings:       yearly,
		UnclassifiedMatches: career.TotalMatches - career.Wins - career.Losses,
	}
}
