package extraction

// ComputeConfidence averages every paragraph confidence reported across all
// blocks of all pages. Paragraphs without a value are left out of the mean.
// It returns nil when the document has no pages or no paragraph reported a
// confidence, so "no signal" stays distinct from "zero confidence".
func ComputeConfidence(doc Document) *float64 {
	if len(doc.Pages) == 0 {
		return nil
	}
	var sum float64
	var n int
	for _, p := range doc.Pages {
		for _, b := range p.Blocks {
			for _, para := range b.Paragraphs {
				if para.Confidence == nil {
					continue
				}
				sum += *para.Confidence
				n++
			}
		}
	}
	if n == 0 {
		return nil
	}
	mean := sum / float64(n)
	return &mean
}
