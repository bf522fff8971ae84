package nodelink

import (
	"slices"

	"github.com/matzehuels/trisieve/pkg/predicate"
)

// Annotate returns options that draw the witnesses of failing verdicts: an
// addable edge becomes a dashed pair, every other witness is highlighted.
func Annotate(verdicts []predicate.Verdict) Options {
	var opts Options
	for _, v := range verdicts {
		if v.OK {
			continue
		}
		if v.Name == predicate.NameMaximalTriangleFree && len(v.Vertices) == 2 {
			opts.Dashed = append(opts.Dashed, [2]int{v.Vertices[0], v.Vertices[1]})
			continue
		}
		for _, u := range v.Vertices {
			if !slices.Contains(opts.Highlight, u) {
				opts.Highlight = append(opts.Highlight, u)
			}
		}
	}
	return opts
}
