package track

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilter_Apply(t *testing.T) {
	t.Parallel()

	batch := Batch{
		{ID: id(1), Class: 0, Confidence: 0.9},
		{ID: id(2), Class: 0, Confidence: 0.1},
		{ID: id(3), Class: 2, Confidence: 0.8},
		{ID: nil, Class: 0, Confidence: 0.7},
	}

	t.Run("confidence threshold", func(t *testing.T) {
		t.Parallel()
		f := NewFilter(0.5, nil)
		got := f.Apply(batch)
		assert.Len(t, got, 3)
		for _, o := range got {
			assert.GreaterOrEqual(t, o.Confidence, 0.5)
		}
	})

	t.Run("class allow list", func(t *testing.T) {
		t.Parallel()
		f := NewFilter(0, []int{0})
		got := f.Apply(batch)
		assert.Len(t, got, 3)
		for _, o := range got {
			assert.Equal(t, 0, o.Class)
		}
	})

	t.Run("combined", func(t *testing.T) {
		t.Parallel()
		f := NewFilter(0.25, []int{0})
		got := f.Apply(batch)
		// id 1 and the identity-less 0.7 detection survive
		assert.Len(t, got, 2)
	})

	t.Run("empty class set accepts all classes", func(t *testing.T) {
		t.Parallel()
		f := NewFilter(0, nil)
		assert.Equal(t, batch, f.Apply(batch))
	})

	t.Run("input not mutated", func(t *testing.T) {
		t.Parallel()
		f := NewFilter(0.5, []int{0})
		before := len(batch)
		f.Apply(batch)
		assert.Len(t, batch, before)
	})
}

func TestBatch_IdentifiedIDs(t *testing.T) {
	t.Parallel()

	b := Batch{
		{ID: id(7)},
		{ID: nil},
		{ID: id(7)},
		{ID: id(2)},
	}
	assert.Equal(t, []int64{7, 2}, b.IdentifiedIDs())
	assert.Empty(t, Batch{}.IdentifiedIDs())
}

func TestBox(t *testing.T) {
	t.Parallel()

	b := Box{X1: 10, Y1: 20, X2: 110, Y2: 70}
	assert.Equal(t, 100, b.Width())
	assert.Equal(t, 50, b.Height())
	assert.True(t, b.Valid())
	assert.False(t, Box{X1: 5, Y1: 5, X2: 5, Y2: 10}.Valid())
}

func TestObject_Label(t *testing.T) {
	t.Parallel()

	o := Object{ID: id(4), Confidence: 0.87}
	assert.Equal(t, "ID:4 (0.87)", o.Label())

	anon := Object{Class: 2, Confidence: 0.5}
	assert.Equal(t, "cls:2 (0.50)", anon.Label())
}
