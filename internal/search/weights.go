package search

import "github.com/tradecove/catalog-backend/pkg/config"

// Fuse blends the three ranking signals into one score. This is the
// same formula the ranked-search SQL computes in the database; it lives
// here as the documented fusion contract. Each input is expected in
// [0,1], and the fused score is monotone in every signal.
func Fuse(w config.Weights, semantic, lexical, popularity float64) float64 {
	return w.Semantic*semantic + w.Lexical*lexical + w.Popularity*popularity
}
