package people

import (
	"io"
	"testing"

	"pothipatra/internal/bridge"
	"pothipatra/internal/models"
	"pothipatra/internal/store"
	"pothipatra/internal/utils"
)

type scriptedHost struct {
	fn func(method, payload string) (string, error)
}

func (h *scriptedHost) Call(method, payload string) (string, error) {
	return h.fn(method, payload)
}

func testLogger() *utils.Logger { return utils.NewLogger(io.Discard) }

func testStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	return s
}

func newHostedAdapter(t *testing.T, fn func(method, payload string) (string, error)) *Adapter {
	t.Helper()
	reg := bridge.NewRegistry()
	reg.SetHost(&scriptedHost{fn: fn})
	mon := bridge.NewMonitor(reg)
	mon.Announce()
	return New(bridge.NewCorrelator(reg, mon), mon, testStore(t), testLogger())
}

func newOfflineAdapter(t *testing.T) (*Adapter, *store.Store) {
	t.Helper()
	reg := bridge.NewRegistry()
	mon := bridge.NewMonitor(reg)
	db := testStore(t)
	return New(bridge.NewCorrelator(reg, mon), mon, db, testLogger()), db
}

func TestCategoriesFallBackToDefaults(t *testing.T) {
	a, _ := newOfflineAdapter(t)

	cats, out := a.Categories()
	if !out.OK() {
		t.Fatalf("absent bridge must not be an error for categories: %+v", out)
	}
	if out.Source != bridge.SourceLocal {
		t.Fatalf("fallback outcome should be marked local, got %v", out.Source)
	}
	if len(cats) == 0 {
		t.Fatal("default category list must not be empty")
	}
}

func TestCategoriesThroughHost(t *testing.T) {
	a := newHostedAdapter(t, func(method, payload string) (string, error) {
		if method != bridge.CapGetCategories {
			t.Fatalf("unexpected method %q", method)
		}
		return `[{"id":"identity","name":"Identity","count":4}]`, nil
	})

	cats, out := a.Categories()
	if !out.OK() || len(cats) != 1 || cats[0].Count != 4 {
		t.Fatalf("categories mismatch: %+v %+v", cats, out)
	}
}

func TestSubcategoriesFilterByCategory(t *testing.T) {
	a, _ := newOfflineAdapter(t)

	subs, out := a.Subcategories("identity")
	if !out.OK() || len(subs) == 0 {
		t.Fatalf("expected identity subcategories, got %+v %+v", subs, out)
	}
	for _, s := range subs {
		if s.CategoryID != "identity" {
			t.Fatalf("foreign subcategory leaked: %+v", s)
		}
	}
}

func TestMergeFalseFromHostIsFailure(t *testing.T) {
	a := newHostedAdapter(t, func(method, payload string) (string, error) {
		return "false", nil
	})

	out := a.Merge("P1", "P2")
	if out.Status != bridge.StatusFailure || out.Kind != bridge.KindHostError {
		t.Fatalf("merge=false should be a host-error so the UI keeps its selection, got %+v", out)
	}
}

func TestMergeValidation(t *testing.T) {
	a, _ := newOfflineAdapter(t)
	if out := a.Merge("", "P2"); out.Kind != bridge.KindValidation {
		t.Fatalf("missing keep id should be a validation error, got %+v", out)
	}
	if out := a.Merge("P1", "P1"); out.Kind != bridge.KindValidation {
		t.Fatalf("self-merge should be a validation error, got %+v", out)
	}
}

func TestLocalMergeMovesDocumentsAndDropsProfile(t *testing.T) {
	a, db := newOfflineAdapter(t)
	db.SaveProfiles([]models.Profile{{ID: "P1", Name: "Asha"}, {ID: "P2", Name: "Asha R"}})
	db.SaveDocuments([]models.StoredDocument{
		{ID: "D1", PersonID: "P1"},
		{ID: "D2", PersonID: "P2"},
	})

	if out := a.Merge("P1", "P2"); !out.OK() {
		t.Fatalf("local merge failed: %+v", out)
	}

	profiles, _ := db.Profiles()
	if len(profiles) != 1 || profiles[0].ID != "P1" {
		t.Fatalf("merged profile should be gone, got %+v", profiles)
	}
	docs, _ := db.Documents()
	for _, d := range docs {
		if d.PersonID != "P1" {
			t.Fatalf("document not reassigned: %+v", d)
		}
	}
}

func TestProfileRoundTripLocal(t *testing.T) {
	a, _ := newOfflineAdapter(t)

	if out := a.UpdateProfile("P1", models.Profile{Name: "Asha", Relationship: "self"}); !out.OK() {
		t.Fatalf("update failed: %+v", out)
	}
	p, out := a.Profile("P1")
	if !out.OK() || p.Name != "Asha" {
		t.Fatalf("profile mismatch: %+v %+v", p, out)
	}
}

func TestUpdateProfileValidation(t *testing.T) {
	a, _ := newOfflineAdapter(t)
	if out := a.UpdateProfile("P1", models.Profile{Name: "  "}); out.Kind != bridge.KindValidation {
		t.Fatalf("blank name should be a validation error, got %+v", out)
	}
}

func TestSetPrimaryUserLocal(t *testing.T) {
	a, db := newOfflineAdapter(t)
	db.SaveProfiles([]models.Profile{
		{ID: "P1", Name: "Asha", IsPrimary: true},
		{ID: "P2", Name: "Ravi"},
	})

	if out := a.SetPrimaryUser("P2"); !out.OK() {
		t.Fatalf("set primary failed: %+v", out)
	}
	profiles, _ := db.Profiles()
	for _, p := range profiles {
		if p.ID == "P2" && !p.IsPrimary {
			t.Fatal("P2 should be primary")
		}
		if p.ID == "P1" && p.IsPrimary {
			t.Fatal("P1 should no longer be primary")
		}
	}
}

func TestPersonsFromLocalProfiles(t *testing.T) {
	a, db := newOfflineAdapter(t)
	db.SaveProfiles([]models.Profile{{ID: "P1", Name: "Asha", Relationship: "self"}})

	persons, out := a.Persons()
	if !out.OK() || len(persons) != 1 || persons[0].Name != "Asha" {
		t.Fatalf("persons mismatch: %+v %+v", persons, out)
	}
}

func TestMalformedHostJSONIsParseError(t *testing.T) {
	a := newHostedAdapter(t, func(method, payload string) (string, error) {
		return `[{"id":`, nil
	})

	_, out := a.Categories()
	if out.Status != bridge.StatusFailure || out.Kind != bridge.KindParseError {
		t.Fatalf("expected parse-error, got %+v", out)
	}
}
