package conflate

import (
	"errors"
	"testing"
)

func TestErrorRing_NilSafe(t *testing.T) {
	var r *errorRing

	// All operations should be safe on nil
	r.push(errors.New("test"))

	if r.all() != nil {
		t.Error("expected nil from nil ring")
	}
}

func TestErrorRing_ZeroSize(t *testing.T) {
	r := newErrorRing(0)
	if r != nil {
		t.Error("expected nil ring for size 0")
	}
}

func TestErrorRing_NegativeSize(t *testing.T) {
	r := newErrorRing(-1)
	if r != nil {
		t.Error("expected nil ring for negative size")
	}
}

func TestErrorRing_SingleError(t *testing.T) {
	r := newErrorRing(3)

	r.push(errors.New("error1"))

	errs := r.all()
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %d", len(errs))
	}
	if errs[0].Error() != "error1" {
		t.Error("expected same error instance")
	}
}

func TestErrorRing_FillsWithoutWrapping(t *testing.T) {
	r := newErrorRing(3)

	r.push(errors.New("error1"))
	r.push(errors.New("error2"))
	r.push(errors.New("error3"))

	errs := r.all()
	if len(errs) != 3 {
		t.Fatalf("expected 3 errors, got %d", len(errs))
	}

	// Oldest first
	if errs[0].Error() != "error1" {
		t.Error("expected error1 first")
	}
	if errs[1].Error() != "error2" {
		t.Error("expected error2 second")
	}
	if errs[2].Error() != "error3" {
		t.Error("expected error3 third")
	}
}

func TestErrorRing_WrapsAndEvictsOldest(t *testing.T) {
	r := newErrorRing(3)

	r.push(errors.New("error1"))
	r.push(errors.New("error2"))
	r.push(errors.New("error3"))
	r.push(errors.New("error4")) // Should evict error1

	errs := r.all()
	if len(errs) != 3 {
		t.Fatalf("expected 3 errors, got %d", len(errs))
	}
	if errs[0].Error() != "error2" {
		t.Error("expected error2 first after eviction")
	}
	if errs[2].Error() != "error4" {
		t.Error("expected error4 last")
	}
}
