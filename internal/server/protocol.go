package server

import (
	"errors"
	"fmt"
	"sort"

	json "github.com/goccy/go-json"

	"github.com/lawnchairsociety/gowdata/internal/i18n"
	"github.com/lawnchairsociety/gowdata/internal/search"
	"github.com/lawnchairsociety/gowdata/internal/world"
)

// Request operations.
const (
	OpLocales = "locales"
	OpSearch  = "search"
	OpGet     = "get"
	OpSuggest = "suggest"
	OpDigest  = "digest"
	OpSummary = "summary"
)

const defaultSuggestions = 5

// Request is one query from a client. Locale may be a locale code, a BCP 47
// tag or an Accept-Language list; empty means the connection's locale.
type Request struct {
	ID     string `json:"id,omitempty"`
	Op     string `json:"op"`
	Kind   string `json:"kind,omitempty"`
	Query  string `json:"query,omitempty"`
	Locale string `json:"locale,omitempty"`
	Entity int    `json:"entity,omitempty"`
	Limit  int    `json:"limit,omitempty"`
}

type Response struct {
	ID          string              `json:"id,omitempty"`
	Op          string              `json:"op"`
	Locale      string              `json:"locale,omitempty"`
	Results     []world.Result      `json:"results,omitempty"`
	Total       int                 `json:"total,omitempty"`
	Suggestions []search.Suggestion `json:"suggestions,omitempty"`
	Locales     []LocaleInfo        `json:"locales,omitempty"`
	Digests     map[string]string   `json:"digests,omitempty"`
	Summary     *SummaryInfo        `json:"summary,omitempty"`
	Error       string              `json:"error,omitempty"`
}

type LocaleInfo struct {
	Code string `json:"code"`
	Tag  string `json:"tag"`
}

type SummaryInfo struct {
	Counts    map[string]int `json:"counts"`
	Spoilers  int            `json:"spoilers"`
	Events    int            `json:"events"`
	Soulforge int            `json:"soulforge"`
	Campaign  int            `json:"campaign"`
	Gaps      int            `json:"gaps"`
}

// ErrInvalidRequest marks a request the client should not have sent. It
// counts toward the invalid request lockout.
var ErrInvalidRequest = errors.New("invalid request")

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidRequest, fmt.Sprintf(format, args...))
}

// Handler answers requests against one loaded world.
type Handler struct {
	world      *world.World
	locales    *i18n.Registry
	maxResults int
}

func NewHandler(w *world.World, locales *i18n.Registry, maxResults int) *Handler {
	return &Handler{world: w, locales: locales, maxResults: maxResults}
}

// HandleMessage decodes and answers one raw message. A returned error is
// also set on the response.
func (h *Handler) HandleMessage(data []byte, fallback i18n.Locale) (Response, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		err = invalidf("malformed JSON: %v", err)
		return Response{Error: err.Error()}, err
	}
	return h.Handle(req, fallback)
}

// Handle answers one decoded request.
func (h *Handler) Handle(req Request, fallback i18n.Locale) (Response, error) {
	locale := fallback
	if req.Locale != "" {
		locale = h.locales.Match(req.Locale)
	}
	resp := Response{ID: req.ID, Op: req.Op, Locale: locale.Code}

	var err error
	switch req.Op {
	case OpLocales:
		resp.Locale = ""
		for _, l := range h.locales.Locales() {
			resp.Locales = append(resp.Locales, LocaleInfo{Code: l.Code, Tag: l.Tag.String()})
		}
	case OpSearch:
		err = h.search(req, locale.Code, &resp)
	case OpGet:
		err = h.get(req, locale.Code, &resp)
	case OpSuggest:
		if req.Query == "" {
			err = invalidf("suggest requires a query")
			break
		}
		resp.Suggestions, err = h.suggest(req.Kind, req.Query, locale.Code, req.Limit)
	case OpDigest:
		resp.Digests = h.world.Digests(locale.Code)
	case OpSummary:
		resp.Locale = ""
		s := h.world.Summary()
		resp.Summary = &SummaryInfo{
			Counts:    s.Counts,
			Spoilers:  s.Spoilers,
			Events:    s.Events,
			Soulforge: s.Soulforge,
			Campaign:  s.Campaign,
			Gaps:      len(s.Gaps),
		}
	case "":
		err = invalidf("missing op")
	default:
		err = invalidf("unknown op %q", req.Op)
	}

	if err != nil {
		var kindErr world.UnknownKindError
		if errors.As(err, &kindErr) {
			err = invalidf("%v", kindErr)
		}
		resp.Error = err.Error()
	}
	return resp, err
}

func (h *Handler) search(req Request, locale string, resp *Response) error {
	if req.Query == "" {
		return invalidf("search requires a query")
	}
	results, err := h.world.Search(req.Kind, req.Query, locale)
	if err != nil {
		return err
	}
	resp.Total = len(results)
	if h.maxResults > 0 && len(results) > h.maxResults {
		results = results[:h.maxResults]
	}
	resp.Results = results
	if len(results) == 0 {
		resp.Suggestions, err = h.suggest(req.Kind, req.Query, locale, defaultSuggestions)
	}
	return err
}

func (h *Handler) get(req Request, locale string, resp *Response) error {
	if req.Kind == "" {
		return invalidf("get requires a kind")
	}
	res, ok, err := h.world.Get(req.Kind, req.Entity, locale)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%s %d not found", req.Kind, req.Entity)
	}
	resp.Results = []world.Result{res}
	resp.Total = 1
	return nil
}

// suggest ranks names of one kind, or of every kind merged when kind is empty.
func (h *Handler) suggest(kind, query, locale string, n int) ([]search.Suggestion, error) {
	if n <= 0 {
		n = defaultSuggestions
	}
	kinds := world.Kinds
	if kind != "" {
		kinds = []string{kind}
	}

	var merged []search.Suggestion
	seen := make(map[string]bool)
	for _, k := range kinds {
		ix, err := h.world.Index(k)
		if err != nil {
			return nil, err
		}
		for _, s := range ix.Suggest(query, locale, n) {
			if !seen[s.Name] {
				seen[s.Name] = true
				merged = append(merged, s)
			}
		}
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Score > merged[j].Score
	})
	if len(merged) > n {
		merged = merged[:n]
	}
	return merged, nil
}
