package audit

// Entry is one line in the hash-chained JSONL resolution log. All fields
// are structs and scalars (no map[string]any) to guarantee deterministic
// json.Marshal field order for reproducible hashing.
type Entry struct {
	Timestamp    string `json:"ts"`
	AssessmentID string `json:"assessment_id"`
	ItemRef      string `json:"item_ref,omitempty"`
	SessionMode  string `json:"session_mode"`
	Simulated    bool   `json:"simulated,omitempty"`
	Total        int    `json:"total"`
	Enabled      int    `json:"enabled"`
	Blocked      int    `json:"blocked"`
	PolicyHash   string `json:"policy_hash"`
	PrevHash     string `json:"prev_hash"`
}
