package report

import (
	"strings"

	"attendpulse/pkg/contracts/domain"
)

// Bucket is one of the three row classifications derived from a row's
// day label, plus the discard outcome for rows that carry no usable
// identity.
type Bucket string

const (
	BucketSunday    Bucket = "sunday"
	BucketWednesday Bucket = "wednesday"
	BucketSpecial   Bucket = "special"
	BucketDiscard   Bucket = "discard"
)

// RowClassifier routes register rows into weekday buckets by their day
// label. Label matching is case-insensitive and whitespace-tolerant;
// each weekday accepts several configured spellings.
type RowClassifier struct {
	sunday    map[string]struct{}
	wednesday map[string]struct{}
}

// NewRowClassifier creates a classifier from the accepted label sets
func NewRowClassifier(sundayLabels, wednesdayLabels []string) *RowClassifier {
	return &RowClassifier{
		sunday:    labelSet(sundayLabels),
		wednesday: labelSet(wednesdayLabels),
	}
}

// Classify assigns the row to a bucket. Rows with a blank location are
// discarded regardless of day label, as are rows with a blank label;
// any other label outside both weekday sets goes to the special bucket.
func (c *RowClassifier) Classify(row domain.Row) Bucket {
	if strings.TrimSpace(row.Location) == "" {
		return BucketDiscard
	}

	label := normalizeLabel(row.Day)
	if label == "" {
		return BucketDiscard
	}

	if _, ok := c.sunday[label]; ok {
		return BucketSunday
	}
	if _, ok := c.wednesday[label]; ok {
		return BucketWednesday
	}
	return BucketSpecial
}

func labelSet(labels []string) map[string]struct{} {
	set := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		if normalized := normalizeLabel(l); normalized != "" {
			set[normalized] = struct{}{}
		}
	}
	return set
}

func normalizeLabel(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}
