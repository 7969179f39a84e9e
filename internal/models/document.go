package models

// Metadata holds the scalar and list values attached to a document.
type Metadata map[string]interface{}

// Document is a unit of knowledge. Content is its identity.
type Document struct {
	Content  string
	Metadata Metadata
}

// Record is the persisted form of a Document.
type Record struct {
	Content   string
	Embedding []float32
	Metadata  Metadata
}

// Row is a knowledge base row as read back from the store.
type Row struct {
	Content  string   `json:"content"`
	Metadata Metadata `json:"metadata"`
}

// Match is a row returned by a vector similarity lookup.
type Match struct {
	Row
	Similarity float64 `json:"similarity"`
}

// String returns the metadata value under key, or "" if it is missing or not a string.
func (m Metadata) String(key string) string {
	if m == nil {
		return ""
	}
	s, _ := m[key].(string)
	return s
}

// Strings returns the list stored under key. Lists decoded from JSON
// come back as []interface{}, locally built ones as []string.
func (m Metadata) Strings(key string) []string {
	if m == nil {
		return nil
	}
	switch v := m[key].(type) {
	case []string:
		return v
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
