package result

// Result is a single retrieval hit: the chunk text, its source id and a relevance score.
type Result struct {
	id      string
	content string
	score   float64
}

// New creates a search result.
func New(id, content string, score float64) Result {
	return Result{id: id, content: content, score: score}
}

// ID returns the source chunk identifier.
func (r *Result) ID() string { return r.id }

// Content returns the chunk text.
func (r *Result) Content() string { return r.content }

// Score returns the relevance score.
func (r *Result) Score() float64 { return r.score }

// Texts returns the content of each result in order.
func Texts(rs []Result) []string {
	out := make([]string, len(rs))
	for i := range rs {
		out[i] = rs[i].content
	}
	return out
}
