package server

import (
	"errors"
	"testing"
)

func TestHandle(t *testing.T) {
	h := NewHandler(testWorld(t), testRegistry(t), 25)
	en := testRegistry(t).Default()

	tests := []struct {
		name       string
		req        Request
		wantLocale string
		wantIDs    []int
		wantErr    bool
		invalid    bool
	}{
		{"search default locale", Request{Op: OpSearch, Query: "goblin rider"}, "en", []int{6000}, false, false},
		{"search by code", Request{Op: OpSearch, Query: "koboldreiter", Locale: "de"}, "de", []int{6000}, false, false},
		{"search by accept-language", Request{Op: OpSearch, Query: "kobold", Locale: "de-AT,de;q=0.9"}, "de", []int{6000}, false, false},
		{"search one kind", Request{Op: OpSearch, Kind: "kingdom", Query: "spire"}, "en", []int{3000}, false, false},
		{"get", Request{Op: OpGet, Kind: "pet", Entity: 5000}, "en", []int{5000}, false, false},
		{"get missing", Request{Op: OpGet, Kind: "pet", Entity: 1}, "en", nil, true, false},
		{"get without kind", Request{Op: OpGet, Entity: 5000}, "en", nil, true, true},
		{"unknown kind", Request{Op: OpSearch, Kind: "room", Query: "x"}, "en", nil, true, true},
		{"empty query", Request{Op: OpSearch}, "en", nil, true, true},
		{"unknown op", Request{Op: "delete"}, "en", nil, true, true},
		{"missing op", Request{}, "en", nil, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := h.Handle(tt.req, en)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Handle() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got := errors.Is(err, ErrInvalidRequest); got != tt.invalid {
				t.Errorf("invalid = %v, want %v (err %v)", got, tt.invalid, err)
			}
			if err != nil && resp.Error == "" {
				t.Error("response does not carry the error")
			}
			if resp.Locale != tt.wantLocale {
				t.Errorf("Locale = %q, want %q", resp.Locale, tt.wantLocale)
			}
			var ids []int
			for _, r := range resp.Results {
				ids = append(ids, r.ID)
			}
			if len(ids) != len(tt.wantIDs) {
				t.Fatalf("result ids = %v, want %v", ids, tt.wantIDs)
			}
			for i := range ids {
				if ids[i] != tt.wantIDs[i] {
					t.Errorf("result ids = %v, want %v", ids, tt.wantIDs)
				}
			}
		})
	}
}

func TestHandleMessage_MalformedJSON(t *testing.T) {
	h := NewHandler(testWorld(t), testRegistry(t), 25)
	resp, err := h.HandleMessage([]byte("{op:"), testRegistry(t).Default())
	if !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("HandleMessage() error = %v, want ErrInvalidRequest", err)
	}
	if resp.Error == "" {
		t.Error("response does not carry the error")
	}
}

func TestHandle_SearchSuggestsWhenNothingMatches(t *testing.T) {
	h := NewHandler(testWorld(t), testRegistry(t), 25)
	resp, err := h.Handle(Request{Op: OpSearch, Query: "goblin ridr"}, testRegistry(t).Default())
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if len(resp.Results) != 0 {
		t.Errorf("Results = %v, want none", resp.Results)
	}
	if len(resp.Suggestions) == 0 || resp.Suggestions[0].Name != "Goblin Rider" {
		t.Errorf("Suggestions = %v, want Goblin Rider first", resp.Suggestions)
	}
}

func TestHandle_MaxResults(t *testing.T) {
	h := NewHandler(testWorld(t), testRegistry(t), 2)
	resp, err := h.Handle(Request{Op: OpSearch, Query: "spire"}, testRegistry(t).Default())
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if resp.Total != 4 || len(resp.Results) != 2 {
		t.Errorf("Total = %d, len(Results) = %d, want 4 and 2", resp.Total, len(resp.Results))
	}
}

func TestHandle_InfoOps(t *testing.T) {
	h := NewHandler(testWorld(t), testRegistry(t), 25)
	en := testRegistry(t).Default()

	resp, err := h.Handle(Request{Op: OpLocales}, en)
	if err != nil || len(resp.Locales) != 2 || resp.Locales[1].Code != "de" {
		t.Errorf("locales = %+v, %v", resp.Locales, err)
	}

	resp, err = h.Handle(Request{Op: OpDigest, Locale: "de"}, en)
	if err != nil || len(resp.Digests) != 5 || resp.Digests["troop"] == "" {
		t.Errorf("digest = %v, %v", resp.Digests, err)
	}

	resp, err = h.Handle(Request{Op: OpSummary}, en)
	if err != nil || resp.Summary == nil || resp.Summary.Counts["troop"] != 1 {
		t.Errorf("summary = %+v, %v", resp.Summary, err)
	}

	resp, err = h.Handle(Request{Op: OpSuggest, Kind: "troop", Query: "goblin", Limit: 1}, en)
	if err != nil || len(resp.Suggestions) != 1 {
		t.Errorf("suggest = %v, %v", resp.Suggestions, err)
	}
}
