package models

import "strings"

type Wrestler struct {
	ID             string                  `json:"id"`
	Name           string                  `json:"name"`
	Nickname       string                  `json:"nickname,omitempty"`
	RealName       string                  `json:"realName,omitempty"`
	Image          string                  `json:"image"`
	Age            int                     `json:"age"`
	Height         string                  `json:"height"`
	Weight         string                  `json:"weight"`
	Hometown       string                  `json:"hometown"`
	SignatureMoves []string                `json:"signatureMoves"`
	Championships  []string                `json:"championships"`
	RecentMatches  []Match                 `json:"recentMatches"`
	MomentumScore  int                     `json:"momentumScore"`
	CareerStats    CareerStats             `json:"careerStats"`
	Bio            string                  `json:"bio,omitempty"`
	Promotion      string                  `json:"promotion,omitempty"`
	Brand          string                  `json:"brand,omitempty"`
	Experience     string                  `json:"experience,omitempty"`
	WrestlingStyle string                  `json:"wrestlingStyle,omitempty"`
	AverageRating  float64                 `json:"averageRating"`
	TotalVotes     int                     `json:"totalVotes"`
	YearlyRatings  map[string]YearlyRating `json:"yearlyRatings,omitempty"`
	SocialMedia    map[string]string       `json:"socialMedia,omitempty"`
	Trainers       []string                `json:"trainers,omitempty"`
	AlterEgos      []string                `json:"alterEgos,omitempty"`
	Roles          []string                `json:"roles,omitempty"`
	ImageSource    string                  `json:"imageSource,omitempty"`
	AllImageURLs   []string                `json:"allImageUrls,omitempty"`
}

type CareerStats struct {
	TotalMatches  int     `json:"totalMatches"`
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	Draws         int     `json:"draws"`
	WinPercentage float64 `json:"winPercentage"`
}

type YearlyRating struct {
	Rating float64 `json:"rating"`
	Votes  int     `json:"votes"`
}

type Match struct {
	Opponent string `json:"opponent"`
	Result   string `json:"result"`
	Date     string `json:"date"`
	Event    string `json:"event"`
}

// Outcome is the classified result of a Match.
type Outcome int

const (
	OutcomeUnknown Outcome = iota
	OutcomeWin
	OutcomeLoss
	OutcomeDraw
)

func (o Outcome) String() string {
	switch o {
	case OutcomeWin:
		return "Win"
	case OutcomeLoss:
		return "Loss"
	case OutcomeDraw:
		return "Draw"
	default:
		return "Unknown"
	}
}

// Outcome classifies the stored result. Only the canonical spellings "Win",
// "Loss" and "Draw" count; anything else is Unknown.
func (m Match) Outcome() Outcome {
	switch m.Result {
	case "Win":
		return OutcomeWin
	case "Loss":
		return OutcomeLoss
	case "Draw":
		return OutcomeDraw
	default:
		return OutcomeUnknown
	}
}

// ParseOutcome reads a hand-entered result, accepting the short forms W, L
// and D in any case.
func ParseOutcome(s string) Outcome {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "win", "w":
		return OutcomeWin
	case "loss", "l":
		return OutcomeLoss
	case "draw", "d":
		return OutcomeDraw
	default:
		return OutcomeUnknown
	}
}
