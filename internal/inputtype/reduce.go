package inputtype

// Reducer folds one weekday bucket into a single chart value.
type Reducer interface {
	Reduce(values []float64) float64
}

// Sum adds the bucket. Used for sliders and time entries.
type Sum struct{}

func (Sum) Reduce(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	acc := values[0]
	for _, v := range values[1:] {
		acc += v
	}
	return acc
}

// Mean averages the bucket. Used for ratings.
type Mean struct{}

func (Mean) Reduce(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return Sum{}.Reduce(values) / float64(len(values))
}

// ReducerFor returns the aggregation rule of kind. Text and form values have
// no numeric semantics.
func ReducerFor(kind Kind) (Reducer, error) {
	switch kind {
	case Slider, Time:
		return Sum{}, nil
	case Rating:
		return Mean{}, nil
	default:
		return nil, ErrNotAggregatable
	}
}
