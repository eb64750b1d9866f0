package ftorus

import (
	"errors"
	"math"
	"testing"

	"github.com/mahmoudnafifi/ffcc/pkg/fmath"
)

func TestSoftmaxSumsToOne(t *testing.T) {
	h := fmath.NewGrid(4, 4)
	for i := range h.Raw() {
		h.Raw()[i] = float64(i) * 0.3
	}
	pmf, err := Softmax(h)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(pmf.Sum()-1.0) > 1e-12 {
		t.Fatalf("sum: %f", pmf.Sum())
	}
	for _, v := range pmf.Raw() {
		if v < 0 {
			t.Fatalf("negative mass %f", v)
		}
	}
}

func TestSoftmaxSurvivesHugeScores(t *testing.T) {
	for _, offset := range []float64{-1e9, 1e9} {
		h := fmath.NewGrid(3, 3)
		for i := range h.Raw() {
			h.Raw()[i] = offset + float64(i)
		}
		pmf, err := Softmax(h)
		if err != nil {
			t.Fatal(err)
		}
		if s := pmf.Sum(); math.IsNaN(s) || math.Abs(s-1.0) > 1e-12 {
			t.Fatalf("offset %g: sum %f", offset, s)
		}
	}
}

func TestSoftmaxOfConstantIsUniform(t *testing.T) {
	h := fmath.NewGrid(4, 4)
	for i := range h.Raw() {
		h.Raw()[i] = 7.25
	}
	pmf, err := Softmax(h)
	if err != nil {
		t.Fatal(err)
	}
	for _, v := range pmf.Raw() {
		if math.Abs(v-1.0/16.0) > 1e-12 {
			t.Fatalf("not uniform: %f", v)
		}
	}
}

func TestSoftmaxRejectsNonSquare(t *testing.T) {
	if _, err := Softmax(fmath.NewGrid(4, 3)); !errors.Is(err, fmath.ErrNotSquare) {
		t.Fatalf("want ErrNotSquare, got %v", err)
	}
}
