// Package segment defines the business-line catalog used to route dialogs
// and classify leads. The set of segments is fixed at compile time.
package segment

import "strings"

// Segment is one of the agency's business lines.
type Segment string

const (
	Specialist   Segment = "specialist"
	Business     Segment = "business"
	Event        Segment = "event"
	Teambuilding Segment = "teambuilding"
)

// Fallback is used when a brief completes without an explicit segment choice.
const Fallback = Specialist

// CallbackPrefix marks segment-selection callback data: "seg_<segment>".
const CallbackPrefix = "seg_"

var titles = map[Segment]string{
	Specialist:   "Специалист / Эксперт",
	Business:     "Бизнес",
	Event:        "Эвент",
	Teambuilding: "Тимбилдинг",
}

// All lists the known segments in menu order.
func All() []Segment {
	return []Segment{Specialist, Business, Event, Teambuilding}
}

// IsKnown reports whether value names one of the four segments.
func IsKnown(value string) bool {
	_, ok := titles[Segment(value)]
	return ok
}

// TitleOf returns the display title of a segment. Unknown values come back
// as-is so a formatter never renders an empty segment line.
func TitleOf(s Segment) string {
	if title, ok := titles[s]; ok {
		return title
	}
	return string(s)
}

// CallbackData builds the callback payload for a segment button.
func CallbackData(s Segment) string {
	return CallbackPrefix + string(s)
}

// FromCallbackData extracts the segment from "seg_<segment>" callback data.
// The second result is false when the payload is not a segment selection or
// names an unknown segment.
func FromCallbackData(data string) (Segment, bool) {
	if !strings.HasPrefix(data, CallbackPrefix) {
		return "", false
	}
	value := strings.TrimPrefix(data, CallbackPrefix)
	if !IsKnown(value) {
		return "", false
	}
	return Segment(value), true
}
