// Package models holds the typed shapes that cross the adapter boundary.
// Raw host JSON is converted into these immediately and never escapes the
// adapter layer untyped.
package models

import "encoding/json"

// DocumentSummary is a document reference as it appears inside a chat reply.
// The host is inconsistent about field names across flows (type vs name,
// holderName vs personName, number vs idNumber), so unmarshalling accepts
// both spellings and normalizes.
type DocumentSummary struct {
	ID         string `json:"id"`
	Type       string `json:"type"`
	HolderName string `json:"holderName"`
	Number     string `json:"number"`
	DOB        string `json:"dob,omitempty"`
	ExpiryDate string `json:"expiryDate,omitempty"`
}

func (d *DocumentSummary) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID         string `json:"id"`
		Type       string `json:"type"`
		Name       string `json:"name"`
		HolderName string `json:"holderName"`
		PersonName string `json:"personName"`
		Number     string `json:"number"`
		IDNumber   string `json:"idNumber"`
		DOB        string `json:"dob"`
		ExpiryDate string `json:"expiryDate"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	d.ID = raw.ID
	d.Type = firstOf(raw.Type, raw.Name)
	d.HolderName = firstOf(raw.HolderName, raw.PersonName)
	d.Number = firstOf(raw.Number, raw.IDNumber)
	d.DOB = raw.DOB
	d.ExpiryDate = raw.ExpiryDate
	return nil
}

func firstOf(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// ChatReply is the payload pushed into onChatResponse.
type ChatReply struct {
	Message   string            `json:"message"`
	Documents []DocumentSummary `json:"documents,omitempty"`
}

// ChatSession is one conversation in the host's chat history.
type ChatSession struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// ChatMessage is one turn within a session.
type ChatMessage struct {
	ID        string `json:"id"`
	Role      string `json:"role"` // "user" or "assistant"
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

// StoredID is one vaulted identity document in the storage listing.
type StoredID struct {
	ID         string `json:"id"`
	Type       string `json:"type"`
	HolderName string `json:"holderName"`
	Number     string `json:"number"`
	DOB        string `json:"dob,omitempty"`
	ExpiryDate string `json:"expiryDate,omitempty"`
	AddedAt    string `json:"addedAt,omitempty"`
}

// StorageListing is the payload pushed into onStorageResult.
type StorageListing struct {
	IDs []StoredID `json:"ids"`
}

// DeleteResult is the payload pushed into onDeleteResult.
type DeleteResult struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
}

// DocumentPreview is pushed into onDocumentPreview after the host has
// captured and classified a document, awaiting user approval.
type DocumentPreview struct {
	ID          string  `json:"id"`
	Type        string  `json:"type"`
	HolderName  string  `json:"holderName"`
	Number      string  `json:"number"`
	DOB         string  `json:"dob,omitempty"`
	ExpiryDate  string  `json:"expiryDate,omitempty"`
	ImageBase64 string  `json:"imageBase64,omitempty"`
	Confidence  float64 `json:"confidence,omitempty"`
}

// DocumentView is pushed into onDocumentView: the full image payload plus
// metadata for the purely local zoom/rotate viewer.
type DocumentView struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	HolderName  string `json:"holderName"`
	Number      string `json:"number"`
	ImageBase64 string `json:"imageBase64"`
}

// Category and Subcategory describe the folder hierarchy.
type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Icon  string `json:"icon,omitempty"`
	Count int    `json:"count,omitempty"`
}

type Subcategory struct {
	ID         string `json:"id"`
	CategoryID string `json:"categoryId"`
	Name       string `json:"name"`
	Count      int    `json:"count,omitempty"`
}

// Person is a document holder known to the host.
type Person struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Relationship  string `json:"relationship,omitempty"`
	DocumentCount int    `json:"documentCount,omitempty"`
	IsPrimary     bool   `json:"isPrimary,omitempty"`
}

// Profile is the editable detail record behind a person.
type Profile struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	DOB          string `json:"dob,omitempty"`
	Relationship string `json:"relationship,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Email        string `json:"email,omitempty"`
	IsPrimary    bool   `json:"isPrimary,omitempty"`
}

// Relationship is one selectable relationship label.
type Relationship struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// StoredDocument is the local fallback's document record, the browser-preview
// stand-in for the host vault.
type StoredDocument struct {
	ID            string `json:"id"`
	Type          string `json:"type"`
	SubcategoryID string `json:"subcategoryId,omitempty"`
	PersonID      string `json:"personId,omitempty"`
	HolderName    string `json:"holderName"`
	Number        string `json:"number"`
	DOB           string `json:"dob,omitempty"`
	ExpiryDate    string `json:"expiryDate,omitempty"`
	AddedAt       string `json:"addedAt,omitempty"`
}
