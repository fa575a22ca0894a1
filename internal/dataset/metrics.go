package dataset

import "math"

// Summary holds the accuracy metrics derived from a run's outcome counts.
// All ratios are percentages rounded to two decimals.
type Summary struct {
	Accuracy     float64 `json:"accuracy"`
	Precision    float64 `json:"precision"`
	Recall       float64 `json:"recall"`
	F1Score      float64 `json:"f1_score"`
	Specificity  float64 `json:"specificity"`
	TotalSamples int     `json:"total_samples"`
	Counts       Counts  `json:"counts"`
}

// Summarize computes accuracy, precision, recall, F1 and specificity from
// the four outcome counts.
func Summarize(c Counts) Summary {
	s := Summary{TotalSamples: c.Total(), Counts: c}
	if s.TotalSamples == 0 {
		return s
	}

	s.Accuracy = round2(float64(c.TP+c.TN) / float64(s.TotalSamples) * 100)
	if c.TP+c.FP > 0 {
		s.Precision = round2(float64(c.TP) / float64(c.TP+c.FP) * 100)
	}
	if c.TP+c.FN > 0 {
		s.Recall = round2(float64(c.TP) / float64(c.TP+c.FN) * 100)
	}
	if s.Precision+s.Recall > 0 {
		s.F1Score = round2(2 * s.Precision * s.Recall / (s.Precision + s.Recall))
	}
	if c.TN+c.FP > 0 {
		s.Specificity = round2(float64(c.TN) / float64(c.TN+c.FP) * 100)
	}
	return s
}

// Grade converts an accuracy percentage into a letter grade.
func Grade(accuracy float64) string {
	switch {
	case accuracy >= 95:
		return "A+ (Excellent)"
	case accuracy >= 90:
		return "A (Very Good)"
	case accuracy >= 85:
		return "B+ (Good)"
	case accuracy >= 80:
		return "B (Satisfactory)"
	case accuracy >= 75:
		return "C+ (Average)"
	case accuracy >= 70:
		return "C (Below Average)"
	case accuracy >= 60:
		return "D (Poor)"
	default:
		return "F (Fail)"
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
