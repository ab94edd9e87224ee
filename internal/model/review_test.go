package model

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateReviewFields(t *testing.T) {
	testCases := []struct {
		name      string
		rating    int
		content   string
		badFields []string
	}{
		{"valid", 5, "great", nil},
		{"min rating with long content", 1, strings.Repeat("a", 300), nil},
		{"rating zero", 0, "fine", []string{"rating"}},
		{"rating six", 6, "fine", []string{"rating"}},
		{"empty content", 3, "", []string{"content"}},
		{"content over 300 runes", 3, strings.Repeat("후", 301), []string{"content"}},
		{"both invalid", 0, "", []string{"rating", "content"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateReviewFields(tc.rating, tc.content)
			if len(tc.badFields) == 0 {
				if err != nil {
					t.Fatalf("expected valid, got %v", err)
				}
				return
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if len(ve.Fields) != len(tc.badFields) {
				t.Fatalf("fields = %v, expected exactly %v", ve.Fields, tc.badFields)
			}
			for _, f := range tc.badFields {
				if _, ok := ve.Fields[f]; !ok {
					t.Errorf("missing message for field %q: %v", f, ve.Fields)
				}
			}
		})
	}
}

func TestComputeReviewStats(t *testing.T) {
	reviews := []ReviewWithEvent{
		{Review: Review{Rating: 5}},
		{Review: Review{Rating: 5}},
		{Review: Review{Rating: 4}},
		{Review: Review{Rating: 3}},
		{Review: Review{Rating: 3}},
		{Review: Review{Rating: 1}},
	}
	stats := ComputeReviewStats(reviews)
	if stats.Count != 6 {
		t.Fatalf("count = %d, expected 6", stats.Count)
	}
	if want := 21.0 / 6.0; stats.Average != want {
		t.Errorf("average = %f, expected %f", stats.Average, want)
	}
	expected := map[int]int{1: 1, 2: 0, 3: 2, 4: 1, 5: 2}
	for star, n := range expected {
		if stats.Histogram[star] != n {
			t.Errorf("histogram[%d] = %d, expected %d", star, stats.Histogram[star], n)
		}
	}
}

func TestComputeReviewStatsEmpty(t *testing.T) {
	stats := ComputeReviewStats(nil)
	if stats.Count != 0 || stats.Average != 0 {
		t.Errorf("empty stats = %+v, expected zero values", stats)
	}
	for star := 1; star <= 5; star++ {
		if stats.Histogram[star] != 0 {
			t.Errorf("histogram[%d] = %d, expected 0", star, stats.Histogram[star])
		}
	}
}
