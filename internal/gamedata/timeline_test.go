package gamedata

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

func TestParseReleaseDate(t *testing.T) {
	tests := []struct {
		input   string
		want    time.Time
		wantErr bool
	}{
		{"03/14/2024 05:00:00 PM UTC", time.Date(2024, 3, 14, 17, 0, 0, 0, time.UTC), false},
		{"1/2/2024 12:00:00 AM PST", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), false},
		{"12/31/2023 12:30:15 PM", time.Date(2023, 12, 31, 12, 30, 15, 0, time.UTC), false},
		{"2024-03-14 17:00:00", time.Time{}, true},
		{"03/14/2024", time.Time{}, true},
		{"13/14/2024 05:00:00 PM UTC", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseReleaseDate(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error for %q, got %v", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseReleaseDate(%q) failed: %v", tt.input, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseReleaseDate(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestPopulateReleaseDatesSortsSpoilers(t *testing.T) {
	g := populatedFixture(t)

	var got []SpoilerType
	for i, s := range g.Spoilers {
		got = append(got, s.Type)
		if i > 0 && s.Date.Before(g.Spoilers[i-1].Date) {
			t.Errorf("Spoiler %d out of order: %v before %v", i, s.Date, g.Spoilers[i-1].Date)
		}
	}
	want := []SpoilerType{SpoilerRoom, SpoilerPet, SpoilerKingdom, SpoilerTroop, SpoilerWeapon, SpoilerWeapon, SpoilerClass}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected spoiler types %v, got %v", want, got)
	}

	if g.Troops[6000].ReleaseDate == nil || !g.Troops[6000].ReleaseDate.Equal(time.Date(2024, 3, 14, 17, 0, 0, 0, time.UTC)) {
		t.Errorf("Unexpected troop release date %v", g.Troops[6000].ReleaseDate)
	}
	if g.Classes[7000].ReleaseDate == nil {
		t.Error("Expected class release date from the QuestId feed")
	}
	if g.Troops[6001].ReleaseDate != nil {
		t.Error("Expected unreleased troop to keep a nil release date")
	}
}

func TestPopulateReleaseDatesBadDate(t *testing.T) {
	user := fixtureUser(t)
	user.EconomyModel.PetReleaseDates = []RawRelease{{PetID: 5000, Date: "soon"}}
	g := New(WithClock(fixedClock))
	g.SetRawData(fixtureWorld(), user, nil)

	err := g.Populate()
	var dateErr DateFormatError
	if !errors.As(err, &dateErr) {
		t.Fatalf("Expected DateFormatError, got %v", err)
	}
	if dateErr.Feed != "PetReleaseDates" || dateErr.Value != "soon" {
		t.Errorf("Unexpected error fields %+v", dateErr)
	}
}

func TestPopulateEvents(t *testing.T) {
	g := populatedFixture(t)

	if len(g.Events) != 2 {
		t.Fatalf("Expected 2 events, got %d", len(g.Events))
	}
	first, second := g.Events[0], g.Events[1]
	if !first.Start.Equal(time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Expected events sorted by start, first starts %v", first.Start)
	}
	if first.Type != "42" {
		t.Errorf("Expected unknown event type to fall back to its code, got %q", first.Type)
	}
	if second.Type != "[CAMPAIGN]" || second.KingdomID != 3000 {
		t.Errorf("Unexpected campaign event %+v", second)
	}
	if !second.End.Equal(time.Date(2024, 4, 22, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Expected event end truncated to the date, got %v", second.End)
	}
}

func TestSoulforgeWindows(t *testing.T) {
	g := populatedFixture(t)

	if len(g.SoulforgeWeapons) != 1 {
		t.Fatalf("Expected one soulforge window, got %d", len(g.SoulforgeWeapons))
	}
	window := g.SoulforgeWeapons[0]
	if window.KingdomID != 3000 {
		t.Errorf("Expected window for kingdom 3000, got %d", window.KingdomID)
	}
	// 1102 is not craftable and 1300 releases on the last day of the event.
	if !reflect.DeepEqual(window.WeaponIDs, []int{1100}) {
		t.Errorf("Expected weapons [1100], got %v", window.WeaponIDs)
	}
}

func TestSoulforgeWindowsWithoutReleaseDates(t *testing.T) {
	user := fixtureUser(t)
	user.EconomyModel.WeaponReleaseDates = nil
	g := New(WithClock(fixedClock))
	g.SetRawData(fixtureWorld(), user, nil)
	if err := g.Populate(); err != nil {
		t.Fatalf("Populate failed: %v", err)
	}

	if got := g.SoulforgeWeapons[0].WeaponIDs; !reflect.DeepEqual(got, []int{1100, 1300}) {
		t.Errorf("Expected weapons [1100 1300], got %v", got)
	}
}

func TestCurrentEventKingdom(t *testing.T) {
	week := func(start time.Time, kingdom int) Event {
		return Event{Start: start, End: start.AddDate(0, 0, 7), KingdomID: kingdom}
	}
	apr15 := time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		events  []Event
		want    int
		matches int
	}{
		{"single", []Event{week(apr15, 3000)}, 3000, 1},
		{"none", []Event{week(apr15.AddDate(0, 1, 0), 3000)}, 0, 0},
		{"ambiguous", []Event{week(apr15, 3000), week(apr15.AddDate(0, 0, -2), 3001)}, 0, 2},
		{"no kingdom", []Event{week(apr15, 0)}, 0, 0},
		{"too short", []Event{{Start: apr15, End: apr15.AddDate(0, 0, 6), KingdomID: 3000}}, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New(WithClock(fixedClock))
			g.Events = tt.events

			got, err := g.CurrentEventKingdom()
			if tt.matches == 1 {
				if err != nil || got != tt.want {
					t.Errorf("CurrentEventKingdom() = %d, %v; want %d", got, err, tt.want)
				}
				return
			}
			var eventErr CurrentEventError
			if !errors.As(err, &eventErr) {
				t.Fatalf("Expected CurrentEventError, got %v", err)
			}
			if eventErr.Matches != tt.matches {
				t.Errorf("Expected %d matches, got %d", tt.matches, eventErr.Matches)
			}
		})
	}
}

func TestCurrentEventCoversEndDay(t *testing.T) {
	start := time.Date(2024, 4, 11, 0, 0, 0, 0, time.UTC)
	g := New(WithClock(func() time.Time { return time.Date(2024, 4, 18, 23, 59, 0, 0, time.UTC) }))
	g.Events = []Event{{Start: start, End: start.AddDate(0, 0, 7), KingdomID: 3001}}

	if got, err := g.CurrentEventKingdom(); err != nil || got != 3001 {
		t.Errorf("Expected the event ending today to count, got %d, %v", got, err)
	}
}
