package lead

// Normalized origin labels
const (
	OriginGoogle    = "Google"
	OriginMeta      = "Meta"
	OriginLinkedIn  = "LinkedIn"
	OriginWebsite   = "Website"
	OriginReferral  = "Referral"
	OriginEmail     = "Email Marketing"
	OriginUntracked = "Untracked"
	OriginOther     = "Other"
)

// Origins lists every label DeriveOrigin can produce
var Origins = []string{
	OriginGoogle,
	OriginMeta,
	OriginLinkedIn,
	OriginWebsite,
	OriginReferral,
	OriginEmail,
	OriginUntracked,
	OriginOther,
}

// DeriveOrigin maps the raw channel tag and utm_source tag to a normalized
// origin label. Ad-platform UTM tags take precedence over channel tags.
// Leads carrying neither tag are Untracked; unrecognized tags are Other.
func DeriveOrigin(source, utmSource string) string {
	switch utmSource {
	case "google-ads", "go-ads":
		return OriginGoogle
	case "meta-ads":
		return OriginMeta
	}

	switch source {
	case "google-ads":
		return OriginGoogle
	case "linkedin":
		return OriginLinkedIn
	case "website":
		return OriginWebsite
	case "referral":
		return OriginReferral
	case "email":
		return OriginEmail
	}

	if source == "" && utmSource == "" {
		return OriginUntracked
	}
	return OriginOther
}
