// Package people adapts the host's browsing surface: document folders
// (categories and subcategories), persons, profiles and relationships.
// Everything here is a synchronous JSON-string getter on the host; the
// fallback serves the default folder tree and the locally persisted
// profiles and documents records.
package people

import (
	"encoding/json"
	"strings"
	"sync"

	"pothipatra/internal/bridge"
	"pothipatra/internal/models"
	"pothipatra/internal/store"
	"pothipatra/internal/utils"
)

type Adapter struct {
	cor *bridge.Correlator
	mon *bridge.Monitor
	db  *store.Store
	log *utils.Logger

	mu      sync.Mutex
	decided bool
	local   bool
}

func New(cor *bridge.Correlator, mon *bridge.Monitor, db *store.Store, log *utils.Logger) *Adapter {
	return &Adapter{cor: cor, mon: mon, db: db, log: log}
}

func (a *Adapter) useLocal() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.decided {
		a.decided = true
		a.local = !a.mon.IsReady()
		if a.local {
			a.log.Warn("people: bridge not ready, serving local defaults")
		}
	}
	return a.local
}

// defaultCategories is the folder tree shown before any host is connected.
func defaultCategories() []models.Category {
	return []models.Category{
		{ID: "identity", Name: "Identity", Icon: "badge"},
		{ID: "finance", Name: "Finance", Icon: "bank"},
		{ID: "property", Name: "Property", Icon: "home"},
		{ID: "health", Name: "Health", Icon: "heart"},
		{ID: "education", Name: "Education", Icon: "school"},
		{ID: "vehicle", Name: "Vehicle", Icon: "car"},
	}
}

func defaultSubcategories() []models.Subcategory {
	return []models.Subcategory{
		{ID: "aadhaar", CategoryID: "identity", Name: "Aadhaar"},
		{ID: "pan", CategoryID: "identity", Name: "PAN"},
		{ID: "passport", CategoryID: "identity", Name: "Passport"},
		{ID: "voter-id", CategoryID: "identity", Name: "Voter ID"},
		{ID: "bank-passbook", CategoryID: "finance", Name: "Bank Passbook"},
		{ID: "insurance", CategoryID: "finance", Name: "Insurance"},
		{ID: "deed", CategoryID: "property", Name: "Deed"},
		{ID: "prescription", CategoryID: "health", Name: "Prescription"},
		{ID: "marksheet", CategoryID: "education", Name: "Marksheet"},
		{ID: "driving-licence", CategoryID: "vehicle", Name: "Driving Licence"},
		{ID: "registration", CategoryID: "vehicle", Name: "Registration"},
	}
}

func defaultRelationships() []models.Relationship {
	return []models.Relationship{
		{ID: "self", Name: "Self"},
		{ID: "spouse", Name: "Spouse"},
		{ID: "child", Name: "Child"},
		{ID: "parent", Name: "Parent"},
		{ID: "sibling", Name: "Sibling"},
		{ID: "other", Name: "Other"},
	}
}

func localSuccess(v any) bridge.Outcome {
	raw, _ := json.Marshal(v)
	return bridge.Success(string(raw)).Local()
}

// Categories returns the top-level folder list.
func (a *Adapter) Categories() ([]models.Category, bridge.Outcome) {
	if a.useLocal() {
		cats := defaultCategories()
		return cats, localSuccess(cats)
	}
	var cats []models.Category
	out := bridge.Decode(a.cor.Sync(bridge.CapGetCategories, ""), &cats)
	return cats, out
}

// Subcategories returns the folders under one category.
func (a *Adapter) Subcategories(categoryID string) ([]models.Subcategory, bridge.Outcome) {
	if categoryID == "" {
		return nil, bridge.Failure(bridge.KindValidation, "category id required")
	}
	if a.useLocal() {
		subs := make([]models.Subcategory, 0)
		for _, s := range defaultSubcategories() {
			if s.CategoryID == categoryID {
				subs = append(subs, s)
			}
		}
		return subs, localSuccess(subs)
	}
	var subs []models.Subcategory
	out := bridge.Decode(a.cor.Sync(bridge.CapGetSubcategories, categoryID), &subs)
	return subs, out
}

// DocumentsBySubcategory lists the documents filed under one folder.
func (a *Adapter) DocumentsBySubcategory(subcategoryID string) ([]models.StoredDocument, bridge.Outcome) {
	if subcategoryID == "" {
		return nil, bridge.Failure(bridge.KindValidation, "subcategory id required")
	}
	if a.useLocal() {
		return a.localDocuments(func(d models.StoredDocument) bool {
			return d.SubcategoryID == subcategoryID
		})
	}
	var docs []models.StoredDocument
	out := bridge.Decode(a.cor.Sync(bridge.CapGetDocsBySubcategory, subcategoryID), &docs)
	return docs, out
}

// Persons lists every document holder.
func (a *Adapter) Persons() ([]models.Person, bridge.Outcome) {
	if a.useLocal() {
		profiles, err := a.db.Profiles()
		if err != nil {
			return nil, bridge.Failure(bridge.KindHostError, err.Error()).Local()
		}
		persons := make([]models.Person, 0, len(profiles))
		for _, p := range profiles {
			persons = append(persons, models.Person{
				ID:           p.ID,
				Name:         p.Name,
				Relationship: p.Relationship,
				IsPrimary:    p.IsPrimary,
			})
		}
		return persons, localSuccess(persons)
	}
	var persons []models.Person
	out := bridge.Decode(a.cor.Sync(bridge.CapGetAllPersons, ""), &persons)
	return persons, out
}

// DocumentsByPerson lists one holder's documents.
func (a *Adapter) DocumentsByPerson(personID string) ([]models.StoredDocument, bridge.Outcome) {
	if personID == "" {
		return nil, bridge.Failure(bridge.KindValidation, "person id required")
	}
	if a.useLocal() {
		return a.localDocuments(func(d models.StoredDocument) bool {
			return d.PersonID == personID
		})
	}
	var docs []models.StoredDocument
	out := bridge.Decode(a.cor.Sync(bridge.CapGetDocsByPerson, personID), &docs)
	return docs, out
}

// Merge folds mergeID's documents into keepID and removes mergeID. The host
// contract is a bare boolean; false maps to a host-error failure and the
// caller's selection state is left alone.
func (a *Adapter) Merge(keepID, mergeID string) bridge.Outcome {
	if keepID == "" || mergeID == "" {
		return bridge.Failure(bridge.KindValidation, "both person ids required")
	}
	if keepID == mergeID {
		return bridge.Failure(bridge.KindValidation, "cannot merge a person into itself")
	}
	if a.useLocal() {
		return a.localMerge(keepID, mergeID)
	}
	payload, _ := json.Marshal(map[string]string{"keepId": keepID, "mergeId": mergeID})
	out := a.cor.Sync(bridge.CapMergePersons, string(payload))
	if !out.OK() {
		return out
	}
	if strings.TrimSpace(out.Value) != "true" {
		return bridge.Failure(bridge.KindHostError, "merge was not applied")
	}
	return out
}

// Profile returns the editable record behind a person.
func (a *Adapter) Profile(id string) (models.Profile, bridge.Outcome) {
	var profile models.Profile
	if id == "" {
		return profile, bridge.Failure(bridge.KindValidation, "profile id required")
	}
	if a.useLocal() {
		profiles, err := a.db.Profiles()
		if err != nil {
			return profile, bridge.Failure(bridge.KindHostError, err.Error()).Local()
		}
		for _, p := range profiles {
			if p.ID == id {
				return p, localSuccess(p)
			}
		}
		return profile, bridge.Failure(bridge.KindHostError, "profile not found: "+id).Local()
	}
	out := bridge.Decode(a.cor.Sync(bridge.CapGetProfile, id), &profile)
	return profile, out
}

// UpdateProfile rewrites a profile. The host contract is a bare boolean.
func (a *Adapter) UpdateProfile(id string, profile models.Profile) bridge.Outcome {
	if id == "" {
		return bridge.Failure(bridge.KindValidation, "profile id required")
	}
	if strings.TrimSpace(profile.Name) == "" {
		return bridge.Failure(bridge.KindValidation, "profile name must not be empty")
	}
	profile.ID = id
	if a.useLocal() {
		profiles, err := a.db.Profiles()
		if err != nil {
			return bridge.Failure(bridge.KindHostError, err.Error()).Local()
		}
		updated := false
		for i, p := range profiles {
			if p.ID == id {
				profiles[i] = profile
				updated = true
				break
			}
		}
		if !updated {
			profiles = append(profiles, profile)
		}
		if err := a.db.SaveProfiles(profiles); err != nil {
			return bridge.Failure(bridge.KindHostError, err.Error()).Local()
		}
		return bridge.Success("true").Local()
	}
	raw, err := json.Marshal(profile)
	if err != nil {
		return bridge.Failure(bridge.KindValidation, err.Error())
	}
	out := a.cor.Sync(bridge.CapUpdateProfile, string(raw))
	if !out.OK() {
		return out
	}
	if strings.TrimSpace(out.Value) != "true" {
		return bridge.Failure(bridge.KindHostError, "profile update was not applied")
	}
	return out
}

// Relationships returns the selectable relationship labels.
func (a *Adapter) Relationships() ([]models.Relationship, bridge.Outcome) {
	if a.useLocal() {
		rels := defaultRelationships()
		return rels, localSuccess(rels)
	}
	var rels []models.Relationship
	out := bridge.Decode(a.cor.Sync(bridge.CapGetRelationships, ""), &rels)
	return rels, out
}

// SetPrimaryUser marks one person as the device owner.
func (a *Adapter) SetPrimaryUser(id string) bridge.Outcome {
	if id == "" {
		return bridge.Failure(bridge.KindValidation, "person id required")
	}
	if a.useLocal() {
		profiles, err := a.db.Profiles()
		if err != nil {
			return bridge.Failure(bridge.KindHostError, err.Error()).Local()
		}
		found := false
		for i := range profiles {
			profiles[i].IsPrimary = profiles[i].ID == id
			if profiles[i].ID == id {
				found = true
			}
		}
		if !found {
			return bridge.Failure(bridge.KindHostError, "profile not found: "+id).Local()
		}
		if err := a.db.SaveProfiles(profiles); err != nil {
			return bridge.Failure(bridge.KindHostError, err.Error()).Local()
		}
		return bridge.Success("true").Local()
	}
	return a.cor.Sync(bridge.CapSetPrimaryUser, id)
}

func (a *Adapter) localDocuments(keep func(models.StoredDocument) bool) ([]models.StoredDocument, bridge.Outcome) {
	docs, err := a.db.Documents()
	if err != nil {
		return nil, bridge.Failure(bridge.KindHostError, err.Error()).Local()
	}
	matched := make([]models.StoredDocument, 0)
	for _, d := range docs {
		if keep(d) {
			matched = append(matched, d)
		}
	}
	return matched, localSuccess(matched)
}

func (a *Adapter) localMerge(keepID, mergeID string) bridge.Outcome {
	profiles, err := a.db.Profiles()
	if err != nil {
		return bridge.Failure(bridge.KindHostError, err.Error()).Local()
	}
	keepFound, mergeFound := false, false
	kept := profiles[:0]
	for _, p := range profiles {
		switch p.ID {
		case keepID:
			keepFound = true
			kept = append(kept, p)
		case mergeID:
			mergeFound = true
		default:
			kept = append(kept, p)
		}
	}
	if !keepFound || !mergeFound {
		return bridge.Failure(bridge.KindHostError, "merge was not applied").Local()
	}
	docs, err := a.db.Documents()
	if err != nil {
		return bridge.Failure(bridge.KindHostError, err.Error()).Local()
	}
	for i := range docs {
		if docs[i].PersonID == mergeID {
			docs[i].PersonID = keepID
		}
	}
	if err := a.db.SaveDocuments(docs); err != nil {
		return bridge.Failure(bridge.KindHostError, err.Error()).Local()
	}
	if err := a.db.SaveProfiles(kept); err != nil {
		return bridge.Failure(bridge.KindHostError, err.Error()).Local()
	}
	return bridge.Success("true").Local()
}
