package core

import (
	"context"
	"errors"
	"testing"

	"github.com/JonMunkholm/pmadmin/internal/store"
)

// sliceSource is an OrderedSource over a fixed id list.
type sliceSource struct {
	ids      []int64
	countErr error
	vanished map[int64]bool // positions that disappear between Count and IDAt
}

func (s sliceSource) Count(context.Context) (int64, error) {
	return int64(len(s.ids)), s.countErr
}

func (s sliceSource) IDAt(_ context.Context, pos int64) (int64, error) {
	if pos < 0 || pos >= int64(len(s.ids)) || s.vanished[pos] {
		return 0, store.ErrNoRows
	}
	return s.ids[pos], nil
}

func TestFindNeighbors(t *testing.T) {
	src := sliceSource{ids: []int64{11, 22, 33, 44}}

	tests := []struct {
		name     string
		src      OrderedSource
		pos      int64
		wantPrev int64
		wantNext int64
	}{
		{"first has no previous", src, 0, 0, 22},
		{"middle", src, 1, 11, 33},
		{"last has no next", src, 3, 33, 0},
		{"beyond count", src, 9, 0, 0},
		{"at count", src, 4, 0, 0},
		{"negative", src, -1, 0, 0},
		{"single row", sliceSource{ids: []int64{5}}, 0, 0, 0},
		{"empty", sliceSource{}, 0, 0, 0},
		{"vanished neighbor", sliceSource{ids: src.ids, vanished: map[int64]bool{2: true}}, 1, 11, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FindNeighbors(context.Background(), tt.src, tt.pos)
			if err != nil {
				t.Fatalf("FindNeighbors() error = %v", err)
			}
			if got.PreviousID != tt.wantPrev || got.NextID != tt.wantNext {
				t.Errorf("FindNeighbors() = (%d, %d), want (%d, %d)",
					got.PreviousID, got.NextID, tt.wantPrev, tt.wantNext)
			}
			if got.HasPrevious() != (tt.wantPrev != 0) || got.HasNext() != (tt.wantNext != 0) {
				t.Errorf("HasPrevious/HasNext = %v/%v", got.HasPrevious(), got.HasNext())
			}
		})
	}
}

func TestFindNeighborsStoreError(t *testing.T) {
	boom := errors.New("connection reset")
	_, err := FindNeighbors(context.Background(), sliceSource{countErr: boom}, 0)
	if !errors.Is(err, boom) {
		t.Errorf("FindNeighbors() error = %v, want %v", err, boom)
	}
}
