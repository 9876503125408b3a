package wrestlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"ringstats-backend/models"
)

// RawRecord is a stored wrestler payload in one of the two shapes the scrapers
// have produced over time. It is resolved once by DecodeRaw and turned into a
// models.Wrestler by Normalize; nothing past that boundary looks at raw fields.
type RawRecord interface {
	rawRecord()
}

// LegacyRecord is the scraper v1 shape: identity at the top level and the
// parsed profile nested under parsed_data.profile.
type LegacyRecord struct {
	WrestlerID flexString `json:"wrestler_id"`
	StatsURL   string     `json:"stats_url"`
	ScrapedAt  string     `json:"scraped_at"`
	ParsedData struct {
		Profile    profileFields   `json:"profile"`
		Statistics json.RawMessage `json:"statistics"`
	} `json:"parsed_data"`
	profileFields
	mediaFields
}

// CurrentRecord is the flat shape written by the current scrapers.
type CurrentRecord struct {
	ID          flexString `json:"id"`
	CagematchID flexString `json:"cagematch_id"`
	profileFields
	mediaFields
}

func (LegacyRecord) rawRecord()  {}
func (CurrentRecord) rawRecord() {}

type profileFields struct {
	Name           string               `json:"name"`
	Nicknames      []string             `json:"nicknames"`
	RealName       string               `json:"real_name"`
	AgeNumeric     flexInt              `json:"age_numeric"`
	Age            flexInt              `json:"age"`
	Height         flexString           `json:"height"`
	Weight         flexString           `json:"weight"`
	Hometown       string               `json:"hometown"`
	Birthplace     string               `json:"birthplace"`
	SignatureMoves []string             `json:"signature_moves"`
	Championships  []string             `json:"championships"`
	Promotion      string               `json:"promotion"`
	Brand          string               `json:"brand"`
	Experience     string               `json:"experience"`
	WrestlingStyle string               `json:"wrestling_style"`
	AverageRating  flexFloat            `json:"average_rating"`
	RatingCamel    flexFloat            `json:"averageRating"`
	TotalVotes     flexInt              `json:"total_votes"`
	YearlyRatings  map[string]rawYearly `json:"yearly_ratings"`
	SocialMedia    map[string]string    `json:"social_media"`
	Trainers       []string             `json:"trainers"`
	AlterEgos      []string             `json:"alter_egos"`
	Roles          []string             `json:"roles"`
}

type mediaFields struct {
	ProfileURL    string         `json:"profile_url"`
	ImageURL      string         `json:"image_url"`
	ImageSource   string         `json:"image_source"`
	AllImageURLs  []string       `json:"all_image_urls"`
	RecentMatches []models.Match `json:"recent_matches"`
}

type rawYearly struct {
	Rating flexFloat `json:"rating"`
	Votes  flexInt   `json:"votes"`
}

// DecodeRaw resolves the payload shape. A record carrying parsed_data is
// legacy; everything else is current.
func DecodeRaw(data []byte) (RawRecord, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("decode wrestler record: %w", err)
	}
	if pd, ok := probe["parsed_data"]; ok && !isNull(pd) {
		var rec LegacyRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			return nil, fmt.Errorf("decode legacy wrestler record: %w", err)
		}
		return rec, nil
	}
	var rec CurrentRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode wrestler record: %w", err)
	}
	return rec, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// flexFloat accepts a JSON number or a numeric string. Anything unparseable
// decodes as 0 so sparse scraper output never fails a whole record.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(strings.Trim(string(b), `"`))
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = flexFloat(v)
	return nil
}

var leadingInt = regexp.MustCompile(`^\s*-?\d+`)

// flexInt takes the leading integer of a number or string ("42 years" -> 42).
type flexInt int

func (n *flexInt) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if v, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
		*n = flexInt(int(v))
		return nil
	}
	m := leadingInt.FindString(s)
	if m == "" {
		*n = 0
		return nil
	}
	v, _ := strconv.Atoi(strings.TrimSpace(m))
	*n = flexInt(v)
	return nil
}

// flexString accepts strings and bare numbers (ids and weights show up as both).
type flexString string

func (s *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*s = ""
		return nil
	}
	if b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = flexString(v)
		return nil
	}
	*s = flexString(string(b))
	return nil
}
