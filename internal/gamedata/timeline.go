package gamedata

import (
	"errors"
	"slices"
	"sort"
	"strconv"
	"strings"
	"time"
)

// releaseDateLayout matches "MM/DD/YYYY hh:mm:ss AM/PM"; the trailing zone
// name in the feed is dropped and the value read as UTC.
const releaseDateLayout = "1/2/2006 3:04:05 PM"

// NonCraftableWeapons lists weapons that never appear in the soulforge.
var NonCraftableWeapons = map[int]bool{}

func init() {
	for _, id := range []int{
		1102, 1114, 1070, 1073, 1119, 1118, 1108, 1109, 1203, 1092, 1067, 1094, 1179, 1178, 1069, 1127, 1096, 1134,
		1097, 1103, 1115, 1123, 1120, 1071, 1095, 1072, 1107, 1100, 1106, 1213, 1121, 1093, 1122, 1295, 1250, 1317,
		1294, 1239, 1223, 1222, 1272, 1252, 1287, 1275, 1251, 1238, 1224, 1296, 1273, 1274, 1286, 1225,
	} {
		NonCraftableWeapons[id] = true
	}
}

// ParseReleaseDate parses a release feed date such as "03/14/2024 05:00:00 PM UTC".
func ParseReleaseDate(value string) (time.Time, error) {
	fields := strings.Fields(value)
	if len(fields) < 3 {
		return time.Time{}, errors.New("expected date, time and AM/PM fields")
	}
	return time.ParseInLocation(releaseDateLayout, strings.Join(fields[:3], " "), time.UTC)
}

// releasable is an entity that can carry a release date.
type releasable interface {
	SetReleaseDate(time.Time)
}

type releaseFeed struct {
	name    string
	spoiler SpoilerType
	entries []RawRelease
	id      func(RawRelease) int
	lookup  func(int) (releasable, bool)
}

func lookupIn[T releasable](m map[int]T) func(int) (releasable, bool) {
	return func(id int) (releasable, bool) {
		v, ok := m[id]
		return v, ok
	}
}

func (g *GameData) releaseFeeds() []releaseFeed {
	economy := g.user.EconomyModel
	return []releaseFeed{
		{"TroopReleaseDates", SpoilerTroop, economy.TroopReleaseDates,
			func(r RawRelease) int { return r.TroopID }, lookupIn(g.Troops)},
		{"PetReleaseDates", SpoilerPet, economy.PetReleaseDates,
			func(r RawRelease) int { return r.PetID }, lookupIn(g.Pets)},
		{"KingdomReleaseDates", SpoilerKingdom, economy.KingdomReleaseDates,
			func(r RawRelease) int { return r.KingdomID }, lookupIn(g.Kingdoms)},
		{"HeroClassReleaseDates", SpoilerClass, economy.HeroClassReleaseDates,
			func(r RawRelease) int { return r.QuestID }, lookupIn(g.Classes)},
		{"RoomReleaseDates", SpoilerRoom, economy.RoomReleaseDates,
			func(r RawRelease) int { return r.RoomID }, nil},
		{"WeaponReleaseDates", SpoilerWeapon, economy.WeaponReleaseDates,
			func(r RawRelease) int { return r.WeaponID }, lookupIn(g.Weapons)},
	}
}

func (g *GameData) populateReleaseDates() error {
	for _, feed := range g.releaseFeeds() {
		for _, release := range feed.entries {
			date, err := ParseReleaseDate(release.Date)
			if err != nil {
				return DateFormatError{Feed: feed.name, Value: release.Date, Err: err}
			}
			id := feed.id(release)

			// Rooms have no entity map; they only feed the spoiler list.
			if feed.lookup != nil {
				entity, ok := feed.lookup(id)
				if !ok {
					g.tolerate(string(feed.spoiler), strconv.Itoa(id), feed.name)
					continue
				}
				entity.SetReleaseDate(date)
			}
			g.Spoilers = append(g.Spoilers, Spoiler{Type: feed.spoiler, Date: date, ID: id})
		}
	}

	for _, raw := range g.user.LiveEvents {
		eventType, ok := EventTypes[raw.Type]
		if !ok {
			eventType = strconv.Itoa(raw.Type)
		}
		g.Events = append(g.Events, Event{
			Start:     unixDate(raw.StartDate),
			End:       unixDate(raw.EndDate),
			Type:      eventType,
			Name:      raw.Name,
			Gacha:     raw.GachaTroop,
			KingdomID: raw.Kingdom,
		})
	}

	g.SoulforgeWeapons = g.soulforgeWindows()

	sort.SliceStable(g.Events, func(i, j int) bool {
		return g.Events[i].Start.Before(g.Events[j].Start)
	})
	sort.SliceStable(g.Spoilers, func(i, j int) bool {
		return g.Spoilers[i].Date.Before(g.Spoilers[j].Date)
	})
	return nil
}

// soulforgeWindows lists, per week-long kingdom event, the craftable weapons
// of that kingdom already released before the event ends.
func (g *GameData) soulforgeWindows() []SoulforgeWindow {
	ids := make([]int, 0, len(g.Weapons))
	for id := range g.Weapons {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	var windows []SoulforgeWindow
	for _, event := range g.Events {
		if !event.IsWeekLongKingdomEvent() {
			continue
		}
		weaponIDs := []int{}
		for _, id := range ids {
			weapon := g.Weapons[id]
			if weapon.Kingdom == nil || weapon.Kingdom.ID != event.KingdomID || NonCraftableWeapons[id] {
				continue
			}
			if weapon.ReleaseDate != nil && !truncateDay(*weapon.ReleaseDate).Before(event.End) {
				continue
			}
			weaponIDs = append(weaponIDs, id)
		}
		windows = append(windows, SoulforgeWindow{
			Start:     event.Start,
			End:       event.End,
			KingdomID: event.KingdomID,
			WeaponIDs: weaponIDs,
		})
	}
	return windows
}

// CurrentEventKingdom returns the kingdom of the single week-long kingdom event covering today.
func (g *GameData) CurrentEventKingdom() (int, error) {
	today := truncateDay(g.now())
	var matches []Event
	for _, event := range g.Events {
		if event.IsWeekLongKingdomEvent() && event.Covers(today) {
			matches = append(matches, event)
		}
	}
	if len(matches) != 1 {
		return 0, CurrentEventError{Matches: len(matches), Day: today.Format(time.DateOnly)}
	}
	return matches[0].KingdomID, nil
}

func unixDate(sec int64) time.Time {
	return truncateDay(time.Unix(sec, 0))
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
