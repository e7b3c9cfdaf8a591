// Package bridge implements the client side of the PothiPatra host bridge:
// detection of the injected host object, and correlation of calls with the
// host's synchronous returns, pushed callbacks and timeouts.
package bridge

// Host is the surface the native shell injects into the process. Methods are
// addressed by name and all payloads cross the boundary as JSON strings, the
// same contract the WebView shell exposes to its page.
//
// A method that answers synchronously returns its JSON result directly. A
// method that answers out-of-band returns "" and the host later pushes the
// result into the callback slot registered for it (see Registry.Deliver).
type Host interface {
	Call(method string, payload string) (string, error)
}

// Capability names exposed by the host.
const (
	CapSendChatMessage   = "sendChatMessage"
	CapGetChatHistory    = "getChatHistory"
	CapGetChatMessages   = "getChatMessages"
	CapStartNewSession   = "startNewChatSession"
	CapSearchChatHistory = "searchChatHistory"

	CapGetAllStoredIDs = "getAllStoredIDs"
	CapDeleteID        = "deleteID"
	CapApproveDocument = "approveDocument"
	CapRejectDocument  = "rejectDocument"
	CapEditDocument    = "editDocument"

	CapGetCategories        = "getCategories"
	CapGetSubcategories     = "getSubcategories"
	CapGetDocsBySubcategory = "getDocumentsBySubcategory"
	CapGetAllPersons        = "getAllPersons"
	CapGetDocsByPerson      = "getDocumentsByPerson"
	CapMergePersons         = "mergePersons"
	CapGetProfile           = "getProfile"
	CapUpdateProfile        = "updateProfile"
	CapGetRelationships     = "getRelationships"
	CapSetPrimaryUser       = "setPrimaryUser"
)

// Callback slot names the host pushes into.
const (
	CbChatResponse     = "onChatResponse"
	CbStorageResult    = "onStorageResult"
	CbDeleteResult     = "onDeleteResult"
	CbDocumentPreview  = "onDocumentPreview"
	CbDocumentApproved = "onDocumentApproved"
	CbDocumentRejected = "onDocumentRejected"
	CbApprovalError    = "onApprovalError"
	CbDocumentView     = "onDocumentView"
)
