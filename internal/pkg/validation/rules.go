package validation

import (
	"regexp"
	"strings"
)

// Validation rule patterns
var (
	// Email: something@something.tld, no whitespace and a single @ on each side.
	// Whitespace covers \v, the Unicode separators and U+FEFF as well as \s.
	EmailPattern = `^[^\s\v\p{Z}\x{FEFF}@]+@[^\s\v\p{Z}\x{FEFF}@]+\.[^\s\v\p{Z}\x{FEFF}@]+$`

	// Mobile numbers are plain ASCII digits
	MobilePattern = `^[0-9]+$`

	// Upload names must carry an image extension. Matching is case-sensitive.
	ImageNamePattern = `\.(jpg|jpeg|png)$`
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	Email     *regexp.Regexp
	Mobile    *regexp.Regexp
	ImageName *regexp.Regexp
}{
	Email:     regexp.MustCompile(EmailPattern),
	Mobile:    regexp.MustCompile(MobilePattern),
	ImageName: regexp.MustCompile(ImageNamePattern),
}

// Options offered by the admin UI. The server only requires the fields to be non-empty.
var (
	Designations = []string{"HR", "Manager", "Sales"}
	Genders      = []string{"Male", "Female"}
	Courses      = []string{"MCA", "BCA", "BSC"}
)

// IsBlank reports whether a value is empty after trimming whitespace.
func IsBlank(value string) bool {
	return strings.TrimSpace(value) == ""
}

// IsValidEmail checks the basic local@domain.tld shape.
func IsValidEmail(email string) bool {
	return CompiledPatterns.Email.MatchString(email)
}

// IsNumeric checks that the value is made of ASCII digits only.
func IsNumeric(value string) bool {
	return CompiledPatterns.Mobile.MatchString(value)
}

// IsAllowedImageName checks that an uploaded file name ends in .jpg, .jpeg or .png.
func IsAllowedImageName(filename string) bool {
	return CompiledPatterns.ImageName.MatchString(filename)
}

// NormalizeCourses drops blank and repeated tags, keeping first-seen order.
func NormalizeCourses(courses []string) []string {
	seen := make(map[string]struct{}, len(courses))
	out := make([]string, 0, len(courses))
	for _, c := range courses {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}
