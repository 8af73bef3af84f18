package validate

import (
	"regexp"
	"strings"
)

// Institutional addresses are a 9-digit student number at the campus domain.
const schoolEmailPattern = `^[0-9]{9}@gordoncollege\.edu\.ph$`

var schoolEmailRe = regexp.MustCompile(`(?i)` + schoolEmailPattern)

const (
	minNameLen     = 2
	minPasswordLen = 6
)

type RegisterInput struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Department string `json:"department"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ValidateRegister checks a registration form. In strict mode the email
// must match the institutional pattern; otherwise a plain shape check is
// enough. Duplicate-email detection is the caller's job (store lookup).
func ValidateRegister(in RegisterInput, strict bool) Fields {
	errs := Fields{}

	if !validEmail(in.Email, strict) {
		if strict {
			errs["email"] = "Please use your school email (e.g., 202311512@gordoncollege.edu.ph)"
		} else {
			errs["email"] = "Please enter a valid email address."
		}
	}
	if len(strings.TrimSpace(in.Name)) < minNameLen {
		errs["name"] = "Name must be at least 2 characters long."
	}
	if len(in.Password) < minPasswordLen {
		errs["password"] = "Password must be at least 6 characters long."
	}
	if strings.TrimSpace(in.Department) == "" {
		errs["department"] = "Please select your department."
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ValidateLogin checks the login form fields only; credential verification
// happens against the store afterwards.
func ValidateLogin(in LoginInput, strict bool) Fields {
	errs := Fields{}

	if !validEmail(in.Email, strict) {
		if strict {
			errs["email"] = "Please use your valid school email (e.g., 202311512@gordoncollege.edu.ph)"
		} else {
			errs["email"] = "Please enter a valid email address."
		}
	}
	if in.Password == "" {
		errs["password"] = "Password is required."
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// NormalizeEmail lowercases and trims the address the way the store keys it.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validEmail(email string, strict bool) bool {
	e := strings.TrimSpace(email)
	if e == "" {
		return false
	}
	if strict {
		return schoolEmailRe.MatchString(e)
	}
	return strings.Contains(e, "@")
}
