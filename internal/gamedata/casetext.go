package gamedata

import (
	"fmt"
	"strconv"
	"strings"
)

// NoData marks a campaign display value that the data dump does not provide.
const NoData = "`?`"

// Case is the casing a renderer applies to a CaseText.
type Case int

const (
	AsIs Case = iota
	Upper
	Lower
)

func (c Case) String() string {
	switch c {
	case Upper:
		return "upper"
	case Lower:
		return "lower"
	default:
		return "asis"
	}
}

func (c Case) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Case) UnmarshalText(text []byte) error {
	switch string(text) {
	case "upper":
		*c = Upper
	case "lower":
		*c = Lower
	case "asis", "":
		*c = AsIs
	default:
		return fmt.Errorf("unknown case %q", text)
	}
	return nil
}

// CaseText is a raw display string tagged with the casing to apply at render time.
type CaseText struct {
	Raw  string `json:"raw"`
	Case Case   `json:"case"`
}

// NewCaseText builds an as-is CaseText from a raw task value, using NoData
// when the value is absent.
func NewCaseText(v any) CaseText {
	switch val := v.(type) {
	case nil:
		return CaseText{Raw: NoData}
	case string:
		return CaseText{Raw: val}
	case float64:
		return CaseText{Raw: strconv.FormatFloat(val, 'f', -1, 64)}
	default:
		return CaseText{Raw: fmt.Sprint(val)}
	}
}

// IsNoData reports whether the value is the NoData sentinel.
func (t CaseText) IsNoData() bool {
	return t.Raw == NoData
}

// As returns a copy tagged with the given case.
func (t CaseText) As(c Case) CaseText {
	t.Case = c
	return t
}

// String applies the case. The NoData sentinel is always returned verbatim.
func (t CaseText) String() string {
	if t.IsNoData() {
		return t.Raw
	}
	switch t.Case {
	case Upper:
		return strings.ToUpper(t.Raw)
	case Lower:
		return strings.ToLower(t.Raw)
	default:
		return t.Raw
	}
}
