package evaluation

// ConfusionMatrix counts predictions against ground truth. Derived once per
// submission and never mutated; the four counts always sum to the master
// dataset size.
type ConfusionMatrix struct {
	TP int `json:"tp"`
	TN int `json:"tn"`
	FP int `json:"fp"`
	FN int `json:"fn"`
}

// Total returns the number of records the matrix accounts for.
func (m ConfusionMatrix) Total() int {
	return m.TP + m.TN + m.FP + m.FN
}

// BuildConfusionMatrix classifies every record of the master dataset against
// the predicted-positive set in a single pass.
func BuildConfusionMatrix(predicted PredictionSet, master *MasterDataset) ConfusionMatrix {
	var m ConfusionMatrix

	for id, isPositive := range master.classes {
		predictedPositive := predicted.Contains(id)

		switch {
		case isPositive && predictedPositive:
			m.TP++
		case isPositive && !predictedPositive:
			m.FN++
		case !isPositive && predictedPositive:
			m.FP++
		default:
			m.TN++
		}
	}

	return m
}

// GainMatrix weights each confusion cell. Immutable per competition.
type GainMatrix struct {
	TP float64 `json:"tp"`
	TN float64 `json:"tn"`
	FP float64 `json:"fp"`
	FN float64 `json:"fn"`
}

// IsZero reports an unconfigured gain matrix.
func (g GainMatrix) IsZero() bool {
	return g.TP == 0 && g.TN == 0 && g.FP == 0 && g.FN == 0
}

// Gain applies the linear cost matrix to the confusion counts.
func Gain(m ConfusionMatrix, g GainMatrix) float64 {
	return float64(m.TP)*g.TP + float64(m.TN)*g.TN + float64(m.FP)*g.FP + float64(m.FN)*g.FN
}
