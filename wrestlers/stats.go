package wrestlers

import (
	"math"
	"sort"

	"ringstats-backend/models"
)

type Bucket struct {
	Range string `json:"range"`
	Count int    `json:"count"`
}

type Breakdown struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

type Dashboard struct {
	TotalWrestlers          int              `json:"totalWrestlers"`
	AverageRating           float64          `json:"averageRating"`
	TopRatedWrestler        *models.Wrestler `json:"topRatedWrestler"`
	RatingDistribution      []Bucket         `json:"ratingDistribution"`
	AgeDistribution         []Bucket         `json:"ageDistribution"`
	PromotionBreakdown      []Breakdown      `json:"promotionBreakdown"`
	ExperienceBreakdown     []Breakdown      `json:"experienceBreakdown"`
	WrestlingStyleBreakdown []Breakdown      `json:"wrestlingStyleBreakdown"`
	HometownBreakdown       []Breakdown      `json:"hometownBreakdown"`
}

const topHometowns = 10

// ComputeDashboard derives the dashboard from a fetched collection. It returns
// nil for an empty collection and never modifies ws.
func ComputeDashboard(ws []models.Wrestler) *Dashboard {
	if len(ws) == 0 {
		return nil
	}

	ratingBuckets := []Bucket{
		{Range: "9.0-10.0"}, {Range: "8.0-8.9"}, {Range: "7.0-7.9"},
		{Range: "6.0-6.9"}, {Range: "5.0-5.9"}, {Range: "0.0-4.9"},
	}
	ageBuckets := []Bucket{
		{Range: "18-25"}, {Range: "26-35"}, {Range: "36-45"}, {Range: "46-55"}, {Range: "56+"},
	}

	promotions := newCounter()
	experiences := newCounter()
	styles := newCounter()
	hometowns := newCounter()

	var total float64
	top := 0
	for i, w := range ws {
		total += w.AverageRating
		if w.AverageRating > ws[top].AverageRating {
			top = i
		}
		ratingBuckets[ratingBucket(w.AverageRating)].Count++
		ageBuckets[ageBucket(w.Age)].Count++
		promotions.add(w.Promotion)
		experiences.add(w.Experience)
		styles.add(w.WrestlingStyle)
		hometowns.add(w.Hometown)
	}

	topRated := ws[top]
	return &Dashboard{
		TotalWrestlers:          len(ws),
		AverageRating:           math.Round(total/float64(len(ws))*100) / 100,
		TopRatedWrestler:        &topRated,
		RatingDistribution:      ratingBuckets,
		AgeDistribution:         ageBuckets,
		PromotionBreakdown:      promotions.sorted(0),
		ExperienceBreakdown:     experiences.sorted(0),
		WrestlingStyleBreakdown: styles.sorted(0),
		HometownBreakdown:       hometowns.sorted(topHometowns),
	}
}

func ratingBucket(r float64) int {
	switch {
	case r >= 9:
		return 0
	case r >= 8:
		return 1
	case r >= 7:
		return 2
	case r >= 6:
		return 3
	case r >= 5:
		return 4
	default:
		return 5
	}
}

// ageBucket puts unknown ages (0) in the youngest bucket.
func ageBucket(age int) int {
	switch {
	case age <= 25:
		return 0
	case age <= 35:
		return 1
	case age <= 45:
		return 2
	case age <= 55:
		return 3
	default:
		return 4
	}
}

// counter keeps first-seen order so ties after the stable sort are deterministic.
type counter struct {
	order  []string
	counts map[string]int
}

func newCounter() *counter {
	return &counter{counts: map[string]int{}}
}

func (c *counter) add(v string) {
	if v == "" {
		v = unknown
	}
	if _, ok := c.counts[v]; !ok {
		c.order = append(c.order, v)
	}
	c.counts[v]++
}

func (c *counter) sorted(limit int) []Breakdown {
	out := make([]Breakdown, 0, len(c.order))
	for _, v := range c.order {
		out = append(out, Breakdown{Value: v, Count: c.counts[v]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
