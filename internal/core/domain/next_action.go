package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/salesops_app/internal/apperrors"
)

// NextActionDateLayout is used when a next-action date is rendered in an audit entry.
const NextActionDateLayout = "Jan 2, 2006"

// NormalizeNextAction trims the action text and collapses empty or
// whitespace-only input to nil. Apply it before comparing or storing.
func NormalizeNextAction(action *string) *string {
	if action == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*action)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// ValidateNextActionPair enforces that action and date are both set or both nil.
// The action must already be normalized.
func ValidateNextActionPair(action *string, date *time.Time) error {
	if (action == nil) != (date == nil) {
		return fmt.Errorf("%w: next action and next action date must be set together", apperrors.ErrValidation)
	}
	return nil
}

// NextActionChange compares a stored next action with a proposed one.
type NextActionChange struct {
	OldAction *string
	OldDate   *time.Time
	NewAction *string
	NewDate   *time.Time
}

// Changed reports whether the action text or the date (to the millisecond)
// differs. Nil dates compare as zero.
func (c NextActionChange) Changed() bool {
	oldAction, newAction := NormalizeNextAction(c.OldAction), NormalizeNextAction(c.NewAction)
	if (oldAction == nil) != (newAction == nil) {
		return true
	}
	if oldAction != nil && *oldAction != *newAction {
		return true
	}
	return millis(c.OldDate) != millis(c.NewDate)
}

// Details renders both sides for the audit trail, dates in loc.
func (c NextActionChange) Details(loc *time.Location) string {
	return fmt.Sprintf("Next action changed from %s to %s",
		describeNextAction(NormalizeNextAction(c.OldAction), c.OldDate, loc),
		describeNextAction(NormalizeNextAction(c.NewAction), c.NewDate, loc))
}

func describeNextAction(action *string, date *time.Time, loc *time.Location) string {
	text := "None"
	if action != nil {
		text = fmt.Sprintf("%q", *action)
	}
	when := "None"
	if date != nil {
		if loc == nil {
			loc = time.UTC
		}
		when = date.In(loc).Format(NextActionDateLayout)
	}
	return fmt.Sprintf("%s (%s)", text, when)
}

func millis(t *time.Time) int64 {
	if t == nil {
		return 0
	}
	return t.UnixMilli()
}
