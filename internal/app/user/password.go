package user

import "regexp"

// Go's RE2 engine has no lookahead, so the rule
// ^(?=.*[A-Z])(?=.*[a-z])(?=.*\d)(?=.*[@$!%*#?&])[A-Za-z\d@$!%*#?&]{8,}$
// is split into one anchored charset/length pattern and one pattern per class.
var (
	passwordCharset = regexp.MustCompile(`^[A-Za-z\d@$!%*#?&]{8,}$`)
	passwordClasses = []*regexp.Regexp{
		regexp.MustCompile(`[A-Z]`),
		regexp.MustCompile(`[a-z]`),
		regexp.MustCompile(`\d`),
		regexp.MustCompile(`[@$!%*#?&]`),
	}
)

// IsStrongPassword reports whether password has at least 8 characters drawn only from
// letters, digits and @$!%*#?&, with at least one upper-case letter, one lower-case
// letter, one digit and one of those special characters.
func IsStrongPassword(password string) bool {
	if !passwordCharset.MatchString(password) {
		return false
	}

	for _, class := range passwordClasses {
		if !class.MatchString(password) {
			return false
		}
	}
	return true
}
