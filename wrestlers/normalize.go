package wrestlers

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"ringstats-backend/models"
)

const unknown = "Unknown"

var reCagematchNr = regexp.MustCompile(`nr=(\d+)`)

// Normalize maps either stored shape onto the single internal representation.
// Profile values win over top-level ones, matching how the scrapers layered
// their output.
func Normalize(r RawRecord) models.Wrestler {
	switch rec := r.(type) {
	case LegacyRecord:
		return build(string(rec.WrestlerID), rec.ParsedData.Profile, rec.profileFields, rec.mediaFields)
	case *LegacyRecord:
		return build(string(rec.WrestlerID), rec.ParsedData.Profile, rec.profileFields, rec.mediaFields)
	case CurrentRecord:
		return build(firstNonEmpty(string(rec.ID), string(rec.CagematchID)), rec.profileFields, rec.profileFields, rec.mediaFields)
	case *CurrentRecord:
		return build(firstNonEmpty(string(rec.ID), string(rec.CagematchID)), rec.profileFields, rec.profileFields, rec.mediaFields)
	default:
		return models.Wrestler{}
	}
}

func build(id string, profile, top profileFields, media mediaFields) models.Wrestler {
	name := firstNonEmpty(profile.Name, top.Name)

	age := int(profile.AgeNumeric)
	if age == 0 {
		age = int(profile.Age)
	}
	if age == 0 {
		age = int(top.AgeNumeric)
	}

	rating := float64(profile.AverageRating)
	if rating == 0 {
		rating = float64(top.RatingCamel)
	}
	if rating == 0 {
		rating = float64(top.AverageRating)
	}

	yearly := profile.YearlyRatings
	if len(yearly) == 0 {
		yearly = top.YearlyRatings
	}
	ratings := make(map[string]models.YearlyRating, len(yearly))
	for year, yr := range yearly {
		ratings[year] = models.YearlyRating{Rating: float64(yr.Rating), Votes: int(yr.Votes)}
	}

	w := models.Wrestler{
		ID:             id,
		Name:           name,
		Nickname:       firstOf(profile.Nicknames, top.Nicknames),
		RealName:       firstNonEmpty(top.RealName, profile.RealName, name),
		Image:          bestImage(media, name),
		Age:            age,
		Height:         firstNonEmpty(string(profile.Height), string(top.Height), unknown),
		Weight:         firstNonEmpty(string(profile.Weight), string(top.Weight), unknown),
		Hometown:       firstNonEmpty(profile.Birthplace, profile.Hometown, top.Hometown, unknown),
		SignatureMoves: nonNil(orSlice(profile.SignatureMoves, top.SignatureMoves)),
		Championships:  nonNil(orSlice(profile.Championships, top.Championships)),
		RecentMatches:  media.RecentMatches,
		MomentumScore:  MomentumScore(ratings),
		Promotion:      firstNonEmpty(profile.Promotion, top.Promotion),
		Brand:          firstNonEmpty(profile.Brand, top.Brand),
		Experience:     firstNonEmpty(profile.Experience, top.Experience),
		WrestlingStyle: firstNonEmpty(profile.WrestlingStyle, top.WrestlingStyle),
		AverageRating:  rating,
		TotalVotes:     int(firstNonZero(profile.TotalVotes, top.TotalVotes)),
		YearlyRatings:  ratings,
		SocialMedia:    orMap(profile.SocialMedia, top.SocialMedia),
		Trainers:       orSlice(profile.Trainers, top.Trainers),
		AlterEgos:      orSlice(profile.AlterEgos, top.AlterEgos),
		Roles:          orSlice(profile.Roles, top.Roles),
		ImageSource:    media.ImageSource,
		AllImageURLs:   media.AllImageURLs,
	}
	if w.RecentMatches == nil {
		w.RecentMatches = []models.Match{}
	}
	w.Bio = generateBio(firstNonEmpty(profile.Birthplace, profile.Hometown, top.Hometown), w.Experience, w.WrestlingStyle, w.Trainers)
	return Reshape(w)
}

func bestImage(media mediaFields, name string) string {
	if media.ImageURL != "" {
		return media.ImageURL
	}
	if len(media.AllImageURLs) > 0 {
		return media.AllImageURLs[0]
	}
	if m := reCagematchNr.FindStringSubmatch(media.ProfileURL); m != nil {
		return fmt.Sprintf("https://www.cagematch.net/pictures/profile/%s.jpg", m[1])
	}
	return "https://via.placeholder.com/400x300/1a1a1a/ffffff?text=" + url.PathEscape(name)
}

func generateBio(birthplace, experience, style string, trainers []string) string {
	var parts []string
	if birthplace != "" {
		parts = append(parts, "Born in "+birthplace)
	}
	if experience != "" {
		parts = append(parts, fmt.Sprintf("Has %s of in-ring experience", experience))
	}
	if style != "" {
		parts = append(parts, fmt.Sprintf("Known for %s wrestling style", style))
	}
	if len(trainers) > 0 {
		parts = append(parts, "Trained by "+strings.Join(trainers, ", "))
	}
	if len(parts) == 0 {
		return "Professional wrestler with extensive experience in the industry."
	}
	return strings.Join(parts, ". ") + "."
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func firstNonZero(values ...flexInt) flexInt {
	for _, v := range values {
		if v != 0 {
			return v
		}
	}
	return 0
}

func firstOf(lists ...[]string) string {
	for _, l := range lists {
		if len(l) > 0 {
			return l[0]
		}
	}
	return ""
}

func orSlice(a, b []string) []string {
	if len(a) > 0 {
		return a
	}
	return b
}

func orMap(a, b map[string]string) map[string]string {
	if len(a) > 0 {
		return a
	}
	return b
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
