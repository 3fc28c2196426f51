package tracing

// Span names.
const (
	SpanDownload = "download.process"
)

// Span attribute keys.
const (
	AttrDownloadID  = "download.id"
	AttrModID       = "mod.id"
	AttrURL         = "download.url"
	AttrFinalURL    = "download.final_url"
	AttrFilename    = "download.filename"
	AttrHTTPStatus  = "http.status_code"
	AttrBytes       = "download.bytes"
	AttrContentSize = "download.content_length"
	AttrOutcome     = "download.outcome"
)

// Span event names.
const (
	EventResponseReceived = "response.received"
	EventFileCreated      = "file.created"
)
