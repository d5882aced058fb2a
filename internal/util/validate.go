package util

import "regexp"

var (
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	emailRegex    = regexp.MustCompile(`^\S+@\S+\.\S+$`)
)

// ValidateEmail reports whether the input looks like an email address.
func ValidateEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// ValidateUsername returns the list of format rules the username violates.
// An empty list means the username is acceptable.
func ValidateUsername(username string) []string {
	var errs []string
	if len(username) < 3 {
		errs = append(errs, "Username must be at least 3 characters long")
	}
	if len(username) > 30 {
		errs = append(errs, "Username must be at most 30 characters long")
	}
	if !usernameRegex.MatchString(username) {
		errs = append(errs, "Username can only contain letters, numbers, and underscores")
	}
	return errs
}

// ValidatePassword returns the list of rules the password violates.
func ValidatePassword(password string) []string {
	var errs []string
	if len(password) < 8 {
		errs = append(errs, "Password must be at least 8 characters long")
	}
	if len(password) > 100 {
		errs = append(errs, "Password must be at most 100 characters long")
	}
	return errs
}

// ValidateMessageContent returns the list of rules the content violates.
func ValidateMessageContent(content string) []string {
	var errs []string
	if len(content) < 10 {
		errs = append(errs, "Message content must be at least 10 characters long")
	}
	if len(content) > 400 {
		errs = append(errs, "Message content cannot exceed 400 characters")
	}
	return errs
}
