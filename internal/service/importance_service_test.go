package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"credit-scoring/internal/model"
)

func TestImportanceService_TopSortedAndTruncated(t *testing.T) {
	names := make([]string, 12)
	scores := make([]float64, 12)
	for i := range names {
		names[i] = fmt.Sprintf("f%02d", i)
		scores[i] = float64((i*7)%12) / 100
	}
	clf := &model.MockIntrospector{Names: names, Scores: scores}
	svc := NewImportanceService(clf)

	top, err := svc.Top(context.Background(), 10)
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	if len(top) != 10 {
		t.Fatalf("expected 10 pairs, got %d", len(top))
	}
	for i := 1; i < len(top); i++ {
		if top[i].Score > top[i-1].Score {
			t.Fatalf("expected descending order at %d: %+v", i, top)
		}
	}
	if top[0].Score != 0.11 {
		t.Fatalf("expected largest first, got %+v", top[0])
	}
}

func TestImportanceService_Unavailable(t *testing.T) {
	cases := map[string]model.Classifier{
		"not introspectable": &model.MockClassifier{Proba: []float64{0.5, 0.5}},
		"names error":        &model.MockIntrospector{NamesErr: errors.New("no steps")},
		"scores error":       &model.MockIntrospector{Names: []string{"a"}, ScoresErr: model.ErrImportanceUnavailable},
		"misaligned":         &model.MockIntrospector{Names: []string{"a", "b"}, Scores: []float64{1}},
		"empty":              &model.MockIntrospector{},
	}
	for name, clf := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewImportanceService(clf).Top(context.Background(), 10)
			if !errors.Is(err, ErrImportanceUnavailable) {
				t.Fatalf("expected ErrImportanceUnavailable, got %v", err)
			}
		})
	}
}

func TestImportanceService_NoLimit(t *testing.T) {
	clf := &model.MockIntrospector{Names: []string{"a", "b", "c"}, Scores: []float64{0.1, 0.3, 0.2}}
	top, err := NewImportanceService(clf).Top(context.Background(), 0)
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	if len(top) != 3 || top[0].Feature != "b" || top[2].Feature != "a" {
		t.Fatalf("unexpected order: %+v", top)
	}
}
