package pattern

import (
	"regexp"
	"strings"
)

var (
	CompanyNamePattern        = regexp.MustCompile(`(?im)(?:company|business|corporate|registered)\s+name\s*[:\-]?\s*([^\n]+)`)
	RegistrationNumberPattern = regexp.MustCompile(`(?i)(?:registration|reg\.|certificate|permit|license)\s*(?:no\.?|number|#)\s*[:\-]?\s*([A-Z0-9][A-Z0-9\-]*)`)
	TINPattern                = regexp.MustCompile(`(?i)\bTIN\b\s*(?:no\.?|number|#)?\s*[:\-]?\s*(\d[\d\- ]{7,}\d)`)
	DateIssuedPattern         = regexp.MustCompile(`(?im)(?:date\s+issued|date\s+of\s+issue|issued\s+on)\s*[:\-]?\s*([^\n]+)`)
	ExpiryDatePattern         = regexp.MustCompile(`(?im)(?:valid\s+until|expiry\s+date|expiration\s+date|expires\s+on)\s*[:\-]?\s*([^\n]+)`)
)

// FirstMatch returns the trimmed first capture group of re's first match in
// text, or nil when there is no match or the group is blank.
func FirstMatch(text string, re *regexp.Regexp) *string {
	if re == nil || text == "" {
		return nil
	}
	groups := re.FindStringSubmatch(text)
	if len(groups) < 2 {
		return nil
	}
	value := strings.TrimSpace(groups[1])
	if value == "" {
		return nil
	}
	return &value
}
