// ABOUTME: Unit tests for Charm-based storage helpers.
// ABOUTME: Tests key formats, prefix resolution, filtering and ordering without a live KV store.
package charm

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stevenrego/FitSync-Pro/internal/models"
	"github.com/stevenrego/FitSync-Pro/internal/storage"
)

func TestPrefixesAreDistinct(t *testing.T) {
	prefixes := []string{
		ProfilePrefix, ExercisePrefix, PlanPrefix, FoodPrefix, EntryPrefix,
		TotalsPrefix, SessionPrefix, ActivityPrefix, AdjustmentPrefix,
	}
	for i, a := range prefixes {
		if !strings.HasSuffix(a, ":") {
			t.Errorf("prefix %q should end with ':'", a)
		}
		for j, b := range prefixes {
			if i != j && strings.HasPrefix(a, b) {
				t.Errorf("prefix %q shadows %q", b, a)
			}
		}
	}
}

func TestCompositeKeys(t *testing.T) {
	profileID := uuid.MustParse("11111111-1111-4111-8111-111111111111")
	planID := uuid.MustParse("22222222-2222-4222-8222-222222222222")

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"totals", totalsKey(profileID, "2026-03-14"), "totals:11111111-1111-4111-8111-111111111111:2026-03-14"},
		{"activity", activityKey(&models.ActivityRecord{ProfileID: profileID, Date: "2026-03-14", Source: models.SourceGarmin}),
			"activity:11111111-1111-4111-8111-111111111111:2026-03-14:garmin"},
		{"adjustment", adjustmentKey(planID, "2026-03-09"), "adjustment:22222222-2222-4222-8222-222222222222:2026-03-09"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("key = %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestExtractIDAndKeyType(t *testing.T) {
	id := uuid.New()
	key := PlanPrefix + id.String()

	if got := extractID(key, PlanPrefix); got != id.String() {
		t.Errorf("extractID = %q, want %q", got, id.String())
	}
	if got := keyType(key); got != "plan" {
		t.Errorf("keyType = %q, want plan", got)
	}
}

func TestFilterKeys(t *testing.T) {
	keys := [][]byte{
		[]byte("plan:abc1"),
		[]byte("plan:abc2"),
		[]byte("profile:abc1"),
		[]byte("plan:def"),
	}

	got := filterKeys(keys, "plan:abc")
	if diff := cmp.Diff([]string{"plan:abc1", "plan:abc2"}, got); diff != "" {
		t.Errorf("filterKeys mismatch (-want +got):\n%s", diff)
	}
	if got := filterKeys(keys, "food:"); got != nil {
		t.Errorf("expected no matches, got %v", got)
	}
}

func TestResolveKey(t *testing.T) {
	key, err := resolveKey([]string{"plan:abc1"}, "abc")
	if err != nil || key != "plan:abc1" {
		t.Errorf("resolveKey = %q, %v", key, err)
	}

	_, err = resolveKey(nil, "zzz")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	_, err = resolveKey([]string{"plan:abc1"}, "")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("empty prefix should be ErrNotFound, got %v", err)
	}

	_, err = resolveKey([]string{"plan:abc1", "plan:abc2"}, "abc")
	if err == nil || !strings.Contains(err.Error(), "ambiguous prefix abc") {
		t.Errorf("expected ambiguous prefix error, got %v", err)
	}
}

func TestDecodeAllSkipsInvalid(t *testing.T) {
	values := [][]byte{
		[]byte(`{"name":"Rice","calories_per_100g":130}`),
		[]byte(`not json`),
		[]byte(`{"name":"Oats","calories_per_100g":389}`),
	}

	foods := decodeAll[models.Food](values)
	if len(foods) != 2 {
		t.Fatalf("decoded %d foods, want 2", len(foods))
	}
	if foods[1].Name != "Oats" || foods[1].CaloriesPer100g != 389 {
		t.Errorf("second food = %+v", foods[1])
	}
}

func TestInWindow(t *testing.T) {
	from := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 7)

	tests := []struct {
		name     string
		t        time.Time
		from, to time.Time
		want     bool
	}{
		{"at start", from, from, to, true},
		{"inside", from.Add(36 * time.Hour), from, to, true},
		{"at end excluded", to, from, to, false},
		{"before", from.Add(-time.Second), from, to, false},
		{"open start", from.AddDate(-1, 0, 0), time.Time{}, to, true},
		{"open end", to.AddDate(1, 0, 0), from, time.Time{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := inWindow(tt.t, tt.from, tt.to); got != tt.want {
				t.Errorf("inWindow = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMatchesFood(t *testing.T) {
	oats := models.NewFood("Rolled Oats", 389, 16.9, 66.3, 6.9).WithBrand("Quaker")

	for search, want := range map[string]bool{
		"":      true,
		"oats":  true,
		"QUAK":  true,
		"rice":  false,
		"olled": true,
	} {
		if got := matchesFood(oats, search); got != want {
			t.Errorf("matchesFood(%q) = %v, want %v", search, got, want)
		}
	}
}

func TestSortPlansNewestFirst(t *testing.T) {
	now := time.Now()
	old := &models.Plan{ID: uuid.New(), CreatedAt: now.Add(-time.Hour)}
	mid := &models.Plan{ID: uuid.New(), CreatedAt: now.Add(-time.Minute)}
	recent := &models.Plan{ID: uuid.New(), CreatedAt: now}

	plans := []*models.Plan{old, recent, mid}
	sortPlans(plans)

	if plans[0] != recent || plans[1] != mid || plans[2] != old {
		t.Error("plans not sorted newest first")
	}
}

func TestSortEntriesByDateThenLoggingOrder(t *testing.T) {
	now := time.Now()
	a := &models.FoodEntry{ID: uuid.New(), Date: "2026-03-15", CreatedAt: now}
	b := &models.FoodEntry{ID: uuid.New(), Date: "2026-03-14", CreatedAt: now.Add(time.Hour)}
	c := &models.FoodEntry{ID: uuid.New(), Date: "2026-03-14", CreatedAt: now}

	entries := []*models.FoodEntry{a, b, c}
	sortEntries(entries)

	if entries[0] != c || entries[1] != b || entries[2] != a {
		t.Error("entries not sorted by date then created time")
	}
}

func TestSortPrescriptionsByOrderIndex(t *testing.T) {
	rx := []models.ExercisePrescription{
		{ExerciseName: "Plank", OrderIndex: 3},
		{ExerciseName: "Squats", OrderIndex: 1},
		{ExerciseName: "Lunges", OrderIndex: 2},
	}
	sortPrescriptions(rx)

	var names []string
	for _, r := range rx {
		names = append(names, r.ExerciseName)
	}
	if diff := cmp.Diff([]string{"Squats", "Lunges", "Plank"}, names); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}
