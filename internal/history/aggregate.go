package history

import (
	"fmt"
	"time"

	"github.com/julianstephens/wellmeing/internal/inputtype"
	"github.com/julianstephens/wellmeing/internal/models"
)

// Series is one value per weekday, indexed by WeekdayIndex.
type Series [DaysPerWeek]float64

// AggregateWeek reduces the values of one habit metric, over the calendar
// week offset weeks from now, into a Series. Submissions of each weekday are
// reduced with the metric's rule: sliders and times are summed, ratings
// averaged.
//
// An unknown habit or metric, or an empty history, yields zeros. Text and
// form metrics yield zeros and inputtype.ErrNotAggregatable. Submissions
// with no usable value for the metric are skipped.
func AggregateWeek(habits []models.Habit, habitName, metricName string, offset int, now time.Time) (Series, error) {
	var series Series

	habit, ok := findHabit(habits, habitName)
	if !ok {
		return series, nil
	}
	metric, ok := habit.Metric(metricName)
	if !ok {
		return series, nil
	}
	reducer, err := inputtype.ReducerFor(metric.Input)
	if err != nil {
		return series, fmt.Errorf("aggregate %s/%s: %w", habitName, metricName, err)
	}
	if len(habit.History) == 0 {
		return series, nil
	}

	start, end := WeekRange(now, offset)
	var buckets [DaysPerWeek][]float64
	for _, s := range habit.History {
		if !InWeek(s.Timestamp, start, end) {
			continue
		}
		v, ok := s.Value(metricName)
		if !ok || v == nil {
			continue
		}
		n, err := inputtype.ToNumber(v)
		if err != nil {
			continue
		}
		day := WeekdayIndex(s.Timestamp)
		buckets[day] = append(buckets[day], n)
	}

	for day, bucket := range buckets {
		series[day] = reducer.Reduce(bucket)
	}
	return series, nil
}

// Max is the largest value of the series, used to scale bars.
func (s Series) Max() float64 {
	max := 0.0
	for _, v := range s {
		if v > max {
			max = v
		}
	}
	return max
}

// Empty reports whether every day is zero.
func (s Series) Empty() bool {
	for _, v := range s {
		if v != 0 {
			return false
		}
	}
	return true
}

func findHabit(habits []models.Habit, name string) (models.Habit, bool) {
	for _, h := range habits {
		if h.Name == name {
			return h, true
		}
	}
	return models.Habit{}, false
}
