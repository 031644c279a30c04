package gamedata

import "fmt"

// MissingReferenceError reports a mandatory cross-reference that is absent.
type MissingReferenceError struct {
	Kind     string // kind of the missing entity, e.g. "kingdom"
	Key      string // the missing key
	Referrer string // the entity holding the reference, e.g. "weapon 1042"
}

func (e MissingReferenceError) Error() string {
	return fmt.Sprintf("missing %s %s referenced by %s", e.Kind, e.Key, e.Referrer)
}

// MalformedIdentifierError reports a campaign task id outside the Campaign_<kingdom>_<level>_<order> scheme.
type MalformedIdentifierError struct {
	ID string
}

func (e MalformedIdentifierError) Error() string {
	return fmt.Sprintf("malformed campaign task id %q", e.ID)
}

// CurrentEventError reports that the current week-long kingdom event is not unique.
type CurrentEventError struct {
	Matches int
	Day     string
}

func (e CurrentEventError) Error() string {
	if e.Matches == 0 {
		return fmt.Sprintf("no week-long kingdom event covers %s", e.Day)
	}
	return fmt.Sprintf("%d week-long kingdom events cover %s, expected exactly one", e.Matches, e.Day)
}

// IndexOutOfRangeError reports a raw index outside one of the fixed lookup tables.
type IndexOutOfRangeError struct {
	Table    string
	Index    int
	Referrer string
}

func (e IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("%s index %d out of range for %s", e.Table, e.Index, e.Referrer)
}

// DateFormatError reports a release date that does not follow MM/DD/YYYY hh:mm:ss AM/PM.
type DateFormatError struct {
	Feed  string
	Value string
	Err   error
}

func (e DateFormatError) Error() string {
	return fmt.Sprintf("invalid %s release date %q: %v", e.Feed, e.Value, e.Err)
}

func (e DateFormatError) Unwrap() error { return e.Err }
