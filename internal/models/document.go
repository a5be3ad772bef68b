package models

// SourceKind records how a document's page count was obtained.
type SourceKind string

const (
	// SourceManual marks a document whose page count was typed in by the user.
	SourceManual SourceKind = "manual"
	// SourceUploaded marks a document whose page count was estimated from its bytes.
	SourceUploaded SourceKind = "uploaded"
)

// Document represents one document in a calculation.
type Document struct {
	// ID is the unique identifier for the document (UUID format).
	ID string `json:"id"`

	// BatchID is set once the document has been saved as part of a batch.
	BatchID string `json:"batch_id,omitempty"`

	// Name is the file name or the name given for a manual entry.
	Name string `json:"name"`

	// PageCount is always >= 1.
	PageCount int `json:"page_count"`

	// Cost is PageCount × price per page at the time it was computed.
	Cost float64 `json:"cost"`

	// UploadDate is the Unix timestamp when the document was added.
	UploadDate int64 `json:"upload_date"`

	// Source is manual or uploaded.
	Source SourceKind `json:"source_kind"`
}
