package types

// UploadDocumentResponse is the archive server's reply to POST /upload_document.
// Non-2xx replies may carry only the error field.
type UploadDocumentResponse struct {
	Success   bool   `json:"success"`
	DocNumber int    `json:"docnumber,omitempty"`
	Error     string `json:"error,omitempty"`
	Message   string `json:"message,omitempty"`
}

// ProcessingStatusRequest asks the archive which of the given documents are
// still under analysis.
type ProcessingStatusRequest struct {
	DocNumbers []int `json:"docnumbers"`
}

// ProcessingStatusResponse carries the subset still analyzing.
type ProcessingStatusResponse struct {
	Processing []int `json:"processing"`
}

// ProcessDocumentsRequest triggers server-side analysis for a freshly uploaded batch.
type ProcessDocumentsRequest struct {
	DocNumbers []int `json:"docnumbers"`
}
