package main

// StatusClass buckets an HTTP outcome into the category shown on the report.
type StatusClass string

const (
	StatusSuccess         StatusClass = "Success"
	StatusRedirect        StatusClass = "Redirect"
	StatusClientError     StatusClass = "Client Error"
	StatusServerError     StatusClass = "Server Error"
	StatusConnectionError StatusClass = "Connection Error"
)

// classifyStatus maps a status code to its class. Code 0 means the request
// never produced a response.
func classifyStatus(code int) StatusClass {
	switch {
	case code <= 0:
		return StatusConnectionError
	case code < 300 && code >= 200:
		return StatusSuccess
	case code < 400:
		return StatusRedirect
	case code < 500:
		return StatusClientError
	default:
		return StatusServerError
	}
}

// PageRecord is one row of audit output. It is filled by a single Analyze
// call and not touched afterwards, except for the duplicate-title flag which
// can only be computed once the whole crawl has finished.
type PageRecord struct {
	URL                     string      `json:"url"`
	StatusCode              int         `json:"http_status"`
	StatusClass             StatusClass `json:"status_class"`
	Title                   string      `json:"title"`
	TitleLength             int         `json:"title_length"`
	TitleTagCount           int         `json:"title_tag_count"`
	MetaDescription         string      `json:"meta_description"`
	MetaDescriptionLength   int         `json:"meta_description_length"`
	H1Text                  string      `json:"h1_text"`
	H1Count                 int         `json:"h1_count"`
	TitleEqualsH1           bool        `json:"h1_equals_title"`
	SequentialH1Error       bool        `json:"sequential_h1_error"`
	WordCount               int         `json:"word_count"`
	CanonicalURL            string      `json:"canonical_url"`
	InternalLinkCount       int         `json:"internal_link_count"`
	ExternalLinkCount       int         `json:"external_link_count"`
	BrokenInternalLinkCount int         `json:"broken_internal_link_count"`
	MissingAltImageCount    int         `json:"missing_alt_image_count"`
	PageSizeBytes           int64       `json:"page_size_bytes"`
	IsHTTPS                 bool        `json:"is_https"`
	StructuredDataTypes     []string    `json:"structured_data_types"`
	LoadSeconds             float64     `json:"load_time_seconds"`
	DuplicateTitle          bool        `json:"duplicate_title"`
	Issues                  []Issue     `json:"issues"`
}

// HasIssue reports whether the record carries an issue with the given code.
func (r *PageRecord) HasIssue(code IssueCode) bool {
	for _, is := range r.Issues {
		if is.Code == code {
			return true
		}
	}
	return false
}

// LinkCheckResult is the outcome of one sampled HEAD probe. It only lives
// long enough to bump the broken counter.
type LinkCheckResult struct {
	URL    string
	Broken bool
}
