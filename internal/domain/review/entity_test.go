// internal/domain/review/entity_test.go
package review

import "testing"

func TestMeanRating(t *testing.T) {
	tests := []struct {
		name    string
		ratings []int
		want    float64
		wantOK  bool
	}{
		{"typical", []int{5, 3, 4}, 4.0, true},
		{"single", []int{2}, 2.0, true},
		{"uneven", []int{5, 4}, 4.5, true},
		{"all fives", []int{5, 5, 5, 5}, 5.0, true},
		{"empty", nil, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := MeanRating(tt.ratings)
			if ok != tt.wantOK {
				t.Fatalf("MeanRating(%v) ok = %v, want %v", tt.ratings, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("MeanRating(%v) = %v, want %v", tt.ratings, got, tt.want)
			}
		})
	}
}
