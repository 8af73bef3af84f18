// Package validate holds the field validation rules shared by the entry
// and account forms. Every rule collects into a field-keyed message map;
// nothing in here panics on bad input.
package validate

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gcclean/waste-backend/internal/models"
)

// Fields maps a form field name to a single human-readable message.
type Fields map[string]string

// CollectorExists reports whether a collector name is already taken.
// It is the only check backed by the store; errors from it propagate.
type CollectorExists func(name string) (bool, error)

type EntryInput struct {
	Type      string `json:"type"`
	Quantity  string `json:"quantity"`
	Location  string `json:"location"`
	Date      string `json:"date"`
	Collector string `json:"collector"`
}

type Options struct {
	Strict bool      // enforce the 2024-01-01 date floor
	Now    time.Time // zero means time.Now()
}

const (
	lettersPattern = `^[A-Za-z\s]+$`
	minLocationLen = 3
	minEntryDate   = "2024-01-01"
	dateLayout     = "2006-01-02"
)

var lettersRe = regexp.MustCompile(lettersPattern)

// ValidateEntry checks a submission against the field rules and the global
// collector uniqueness constraint. Every field is evaluated independently;
// the uniqueness lookup is skipped when the collector name already failed
// its format rule. On success the returned entry has trimmed strings, a
// parsed quantity and CreatedAt stamped.
func ValidateEntry(in EntryInput, exists CollectorExists, opts Options) (models.Entry, Fields, error) {
	errs := Fields{}

	checkType(in.Type, errs)
	qty := checkQuantity(in.Quantity, errs)
	checkLocation(in.Location, errs)
	checkDate(in.Date, opts, errs)

	collector := strings.TrimSpace(in.Collector)
	if in.Collector == "" || !lettersRe.MatchString(collector) {
		errs["collector"] = "Collector name must contain only letters and spaces."
	} else if exists != nil {
		taken, err := exists(collector)
		if err != nil {
			return models.Entry{}, nil, err
		}
		if taken {
			errs["collector"] = "Collector name already exists."
		}
	}

	if len(errs) > 0 {
		return models.Entry{}, errs, nil
	}
	return models.Entry{
		Type:      strings.TrimSpace(in.Type),
		Quantity:  qty,
		Location:  strings.TrimSpace(in.Location),
		Date:      strings.TrimSpace(in.Date),
		Collector: collector,
		CreatedAt: time.Now(),
	}, nil, nil
}

// ValidateEntryUpdate checks the mutable fields of an edit. The collector
// is immutable after creation and is never re-checked here.
func ValidateEntryUpdate(in EntryInput, opts Options) (models.EntryUpdate, Fields) {
	errs := Fields{}

	checkType(in.Type, errs)
	qty := checkQuantity(in.Quantity, errs)
	checkLocation(in.Location, errs)
	checkDate(in.Date, opts, errs)

	if len(errs) > 0 {
		return models.EntryUpdate{}, errs
	}
	return models.EntryUpdate{
		Type:     strings.TrimSpace(in.Type),
		Quantity: qty,
		Location: strings.TrimSpace(in.Location),
		Date:     strings.TrimSpace(in.Date),
	}, nil
}

func checkType(v string, errs Fields) {
	if v == "" || !lettersRe.MatchString(strings.TrimSpace(v)) {
		errs["type"] = "Type must contain only letters and spaces."
	}
}

func checkQuantity(v string, errs Fields) float64 {
	s := strings.TrimSpace(v)
	if s == "" {
		errs["quantity"] = "Quantity must be a positive number."
		return 0
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || n <= 0 {
		errs["quantity"] = "Quantity must be a positive number."
		return 0
	}
	return n
}

func checkLocation(v string, errs Fields) {
	if len(strings.TrimSpace(v)) < minLocationLen {
		errs["location"] = "Location must be at least 3 characters long."
	}
}

func checkDate(v string, opts Options, errs Fields) {
	if strings.TrimSpace(v) == "" {
		errs["date"] = "Please select a date."
		return
	}
	d, err := time.ParseInLocation(dateLayout, strings.TrimSpace(v), time.UTC)
	if err != nil {
		errs["date"] = "Invalid date format."
		return
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if d.After(today) {
		errs["date"] = "Date cannot be in the future."
		return
	}
	if opts.Strict {
		min, _ := time.ParseInLocation(dateLayout, minEntryDate, time.UTC)
		if d.Before(min) {
			errs["date"] = "Date cannot be before 2024."
		}
	}
}
