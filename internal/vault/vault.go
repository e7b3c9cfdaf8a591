// Package vault adapts the host's document storage surface: the stored-ID
// listing and deletion flows, the capture preview/approval flow, and the
// full-image view flow. The host pushes preview and view payloads
// unsolicited; approval responses travel through the correlator like any
// other callback-mode call.
package vault

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"pothipatra/internal/bridge"
	"pothipatra/internal/models"
	"pothipatra/internal/store"
	"pothipatra/internal/utils"
)

// ApprovalTimeout bounds how long the host may take to persist an approved
// document before the UI gets a timeout failure.
const ApprovalTimeout = 15 * time.Second

// ListTimeout bounds the storage listing and delete round trips.
const ListTimeout = 10 * time.Second

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
			a.log.Warn("vault: bridge not ready, serving from local store")
		}
	}
	return a.local
}

// StoredIDs lists every vaulted identity document.
func (a *Adapter) StoredIDs(ctx context.Context) ([]models.StoredID, bridge.Outcome) {
	if a.useLocal() {
		docs, err := a.db.Documents()
		if err != nil {
			return nil, bridge.Failure(bridge.KindHostError, err.Error()).Local()
		}
		ids := make([]models.StoredID, 0, len(docs))
		for _, d := range docs {
			ids = append(ids, models.StoredID{
				ID:         d.ID,
				Type:       d.Type,
				HolderName: d.HolderName,
				Number:     d.Number,
				DOB:        d.DOB,
				ExpiryDate: d.ExpiryDate,
				AddedAt:    d.AddedAt,
			})
		}
		raw, _ := json.Marshal(models.StorageListing{IDs: ids})
		return ids, bridge.Success(string(raw)).Local()
	}
	out := a.cor.Await(ctx, bridge.Request{
		Method:   bridge.CapGetAllStoredIDs,
		Callback: bridge.CbStorageResult,
		Timeout:  ListTimeout,
	})
	var listing models.StorageListing
	out = bridge.Decode(out, &listing)
	return listing.IDs, out
}

// Delete removes one stored document by id.
func (a *Adapter) Delete(ctx context.Context, id string) bridge.Outcome {
	if strings.TrimSpace(id) == "" {
		return bridge.Failure(bridge.KindValidation, "document id required")
	}
	if a.useLocal() {
		docs, err := a.db.Documents()
		if err != nil {
			return bridge.Failure(bridge.KindHostError, err.Error()).Local()
		}
		kept := docs[:0]
		found := false
		for _, d := range docs {
			if d.ID == id {
				found = true
				continue
			}
			kept = append(kept, d)
		}
		if !found {
			return bridge.Failure(bridge.KindHostError, "document not found: "+id).Local()
		}
		if err := a.db.SaveDocuments(kept); err != nil {
			return bridge.Failure(bridge.KindHostError, err.Error()).Local()
		}
		return bridge.Success(`{"success":true,"id":"` + id + `"}`).Local()
	}
	out := a.cor.Await(ctx, bridge.Request{
		Method:   bridge.CapDeleteID,
		Payload:  id,
		Callback: bridge.CbDeleteResult,
		Timeout:  ListTimeout,
	})
	var result models.DeleteResult
	out = bridge.Decode(out, &result)
	if out.OK() && !result.Success {
		return bridge.Failure(bridge.KindHostError, "host refused to delete "+id)
	}
	return out
}

// OnPreview subscribes to host-pushed document previews. The returned func
// tears the subscription down; a preview arriving after teardown is dropped.
func (a *Adapter) OnPreview(fn func(models.DocumentPreview)) func() {
	return a.cor.Subscribe(bridge.CbDocumentPreview, func(payload string) {
		var preview models.DocumentPreview
		if err := json.Unmarshal([]byte(payload), &preview); err != nil {
			a.log.Error("vault: malformed preview payload: %v", err)
			return
		}
		fn(preview)
	})
}

// OnView subscribes to host-pushed full-image document views.
func (a *Adapter) OnView(fn func(models.DocumentView)) func() {
	return a.cor.Subscribe(bridge.CbDocumentView, func(payload string) {
		var view models.DocumentView
		if err := json.Unmarshal([]byte(payload), &view); err != nil {
			a.log.Error("vault: malformed view payload: %v", err)
			return
		}
		fn(view)
	})
}

// Approve accepts the pending preview as-is. The host answers on
// onDocumentApproved, or pushes onApprovalError on failure.
func (a *Adapter) Approve(ctx context.Context) (models.StoredID, bridge.Outcome) {
	var saved models.StoredID
	if a.useLocal() {
		return saved, bridge.Failure(bridge.KindValidation, "no capture flow without a host").Local()
	}
	out := a.cor.Await(ctx, bridge.Request{
		Method:      bridge.CapApproveDocument,
		Callback:    bridge.CbDocumentApproved,
		ErrCallback: bridge.CbApprovalError,
		Timeout:     ApprovalTimeout,
	})
	out = bridge.Decode(out, &saved)
	return saved, out
}

// Reject discards the pending preview.
func (a *Adapter) Reject(ctx context.Context) bridge.Outcome {
	if a.useLocal() {
		return bridge.Failure(bridge.KindValidation, "no capture flow without a host").Local()
	}
	return a.cor.Await(ctx, bridge.Request{
		Method:      bridge.CapRejectDocument,
		Callback:    bridge.CbDocumentRejected,
		ErrCallback: bridge.CbApprovalError,
		Timeout:     ApprovalTimeout,
	})
}

// Edit corrects preview fields before approval. patch holds only the fields
// being changed; the holder name may never be blanked.
func (a *Adapter) Edit(ctx context.Context, patch models.DocumentPreview) (models.StoredID, bridge.Outcome) {
	var saved models.StoredID
	if patch.HolderName != "" && strings.TrimSpace(patch.HolderName) == "" {
		return saved, bridge.Failure(bridge.KindValidation, "holder name must not be blank")
	}
	if a.useLocal() {
		return saved, bridge.Failure(bridge.KindValidation, "no capture flow without a host").Local()
	}
	raw, err := json.Marshal(patch)
	if err != nil {
		return saved, bridge.Failure(bridge.KindValidation, err.Error())
	}
	out := a.cor.Await(ctx, bridge.Request{
		Method:      bridge.CapEditDocument,
		Payload:     string(raw),
		Callback:    bridge.CbDocumentApproved,
		ErrCallback: bridge.CbApprovalError,
		Timeout:     ApprovalTimeout,
	})
	out = bridge.Decode(out, &saved)
	return saved, out
}
