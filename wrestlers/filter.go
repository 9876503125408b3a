package wrestlers

import (
	"net/url"
	"sort"
	"strconv"
	"strings"

	"ringstats-backend/models"
)

// Filter holds the advanced search fields as the user typed them. Empty
// fields do not constrain the result.
type Filter struct {
	Name           string `json:"name"`
	Promotion      string `json:"promotion"`
	Brand          string `json:"brand"`
	MinRating      string `json:"minRating"`
	MaxRating      string `json:"maxRating"`
	MinAge         string `json:"minAge"`
	MaxAge         string `json:"maxAge"`
	Experience     string `json:"experience"`
	WrestlingStyle string `json:"wrestlingStyle"`
	Hometown       string `json:"hometown"`
}

var filterKeys = []string{
	"name", "promotion", "brand", "minRating", "maxRating",
	"minAge", "maxAge", "experience", "wrestlingStyle", "hometown",
}

// FilterFromQuery builds a Filter from a query lookup such as fiber's c.Query
// or url.Values.Get.
func FilterFromQuery(get func(string) string) Filter {
	return Filter{
		Name:           get("name"),
		Promotion:      get("promotion"),
		Brand:          get("brand"),
		MinRating:      get("minRating"),
		MaxRating:      get("maxRating"),
		MinAge:         get("minAge"),
		MaxAge:         get("maxAge"),
		Experience:     get("experience"),
		WrestlingStyle: get("wrestlingStyle"),
		Hometown:       get("hometown"),
	}
}

// Values encodes the non-empty fields as query parameters.
func (f Filter) Values() url.Values {
	v := url.Values{}
	fields := f.fields()
	for i, key := range filterKeys {
		if s := strings.TrimSpace(fields[i]); s != "" {
			v.Set(key, s)
		}
	}
	return v
}

func (f Filter) fields() []string {
	return []string{
		f.Name, f.Promotion, f.Brand, f.MinRating, f.MaxRating,
		f.MinAge, f.MaxAge, f.Experience, f.WrestlingStyle, f.Hometown,
	}
}

func (f Filter) IsEmpty() bool {
	return len(f.Values()) == 0
}

// Apply returns the records matching every set field, in input order.
func (f Filter) Apply(ws []models.Wrestler) []models.Wrestler {
	p := f.compile()
	out := make([]models.Wrestler, 0, len(ws))
	for _, w := range ws {
		if p.match(w) {
			out = append(out, w)
		}
	}
	return out
}

type predicate struct {
	name       string
	promotion  string
	brand      string
	experience string
	style      string
	hometown   string
	ratingSet  bool
	minRating  float64
	maxRating  float64
	ageSet     bool
	minAge     float64
	maxAge     float64
}

func (f Filter) compile() predicate {
	p := predicate{
		name:       strings.ToLower(strings.TrimSpace(f.Name)),
		promotion:  strings.TrimSpace(f.Promotion),
		brand:      strings.TrimSpace(f.Brand),
		experience: strings.TrimSpace(f.Experience),
		style:      strings.TrimSpace(f.WrestlingStyle),
		hometown:   strings.TrimSpace(f.Hometown),
	}
	var minSet, maxSet bool
	p.minRating, minSet = parseBound(f.MinRating, 0)
	p.maxRating, maxSet = parseBound(f.MaxRating, 10)
	p.ratingSet = minSet || maxSet
	p.minAge, minSet = parseAgeBound(f.MinAge, 0)
	p.maxAge, maxSet = parseAgeBound(f.MaxAge, 100)
	p.ageSet = minSet || maxSet
	return p
}

// parseBound treats blank and unparseable input as unset.
func parseBound(s string, def float64) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return def, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def, false
	}
	return v, true
}

// parseAgeBound reads the leading integer of s, so "30.5" and "30 years" both
// mean 30. Input without leading digits is unset.
func parseAgeBound(s string, def float64) (float64, bool) {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return def, false
	}
	v, err := strconv.Atoi(s[:end])
	if err != nil {
		return def, false
	}
	return float64(v), true
}

func (p predicate) match(w models.Wrestler) bool {
	if p.name != "" &&
		!strings.Contains(strings.ToLower(w.Name), p.name) &&
		!strings.Contains(strings.ToLower(w.Nickname), p.name) {
		return false
	}
	if p.promotion != "" && w.Promotion != p.promotion {
		return false
	}
	if p.brand != "" && w.Brand != p.brand {
		return false
	}
	if p.experience != "" && w.Experience != p.experience {
		return false
	}
	if p.style != "" && w.WrestlingStyle != p.style {
		return false
	}
	if p.hometown != "" && w.Hometown != p.hometown {
		return false
	}
	if p.ratingSet && (w.AverageRating < p.minRating || w.AverageRating > p.maxRating) {
		return false
	}
	if p.ageSet {
		age := float64(w.Age)
		if age < p.minAge || age > p.maxAge {
			return false
		}
	}
	return true
}

// FilterOptions lists the distinct values offered by the search dropdowns.
type FilterOptions struct {
	Promotions      []string `json:"promotions"`
	Brands          []string `json:"brands"`
	Experiences     []string `json:"experiences"`
	WrestlingStyles []string `json:"wrestlingStyles"`
	Hometowns       []string `json:"hometowns"`
}

func Options(ws []models.Wrestler) FilterOptions {
	var promotions, brands, experiences, styles, hometowns []string
	for _, w := range ws {
		promotions = append(promotions, w.Promotion)
		brands = append(brands, w.Brand)
		experiences = append(experiences, w.Experience)
		styles = append(styles, w.WrestlingStyle)
		hometowns = append(hometowns, w.Hometown)
	}
	return FilterOptions{
		Promotions:      uniqueSorted(promotions),
		Brands:          uniqueSorted(brands),
		Experiences:     uniqueSorted(experiences),
		WrestlingStyles: uniqueSorted(styles),
		Hometowns:       uniqueSorted(hometowns),
	}
}

func uniqueSorted(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := []string{}
	for _, v := range values {
		if v == "" || v == unknown {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
