package scoring

// Bucket classifies a timer duration into an expectation level.
type Bucket int

const (
	BucketShort    Bucket = iota // up to 60s
	BucketModerate               // 61s to 120s
	BucketExtended               // over 120s
)

// BucketFor returns the expectation bucket for a timer of the given seconds.
func BucketFor(seconds int) Bucket {
	switch {
	case seconds <= 60:
		return BucketShort
	case seconds <= 120:
		return BucketModerate
	default:
		return BucketExtended
	}
}

func (b Bucket) String() string {
	switch b {
	case BucketShort:
		return "short"
	case BucketModerate:
		return "moderate"
	default:
		return "extended"
	}
}

// TimeContext describes what an explanation of this length should look like.
func (b Bucket) TimeContext() string {
	switch b {
	case BucketShort:
		return "very short time (≤60s) - expect bullet points or a brief paragraph covering key ideas only"
	case BucketModerate:
		return "moderate time (60-120s) - expect 1-2 paragraphs with main concepts and an example"
	default:
		return "extended time (>120s) - expect well-developed explanation with examples, nuance, and structure"
	}
}

// CompletenessNote tells the grader how to judge completeness for this bucket.
func (b Bucket) CompletenessNote() string {
	switch b {
	case BucketShort:
		return "For this short timeframe, completeness means hitting 2-3 key points, not exhaustive coverage"
	case BucketModerate:
		return "Should cover main concepts with at least one concrete example or analogy"
	default:
		return "Should provide thorough coverage with examples, context, and possibly counterexamples"
	}
}
