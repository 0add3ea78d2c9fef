package importance

// Entry pairs a feature with its global importance score.
type Entry struct {
	feature string
	score   float64
}

// New creates an importance entry.
func New(feature string, score float64) Entry {
	return Entry{feature: feature, score: score}
}

// Feature returns the feature name.
func (e Entry) Feature() string { return e.feature }

// Score returns the importance score.
func (e Entry) Score() float64 { return e.score }
