package book

import (
	"math/rand"
	"sort"
	"testing"
)

func TestTickTreeBasics(t *testing.T) {
	tr := newTickTree()
	if !tr.Empty() {
		t.Fatal("new tree should be empty")
	}
	if _, ok := tr.Min(); ok {
		t.Fatal("Min on empty tree should report !ok")
	}

	for _, k := range []int32{50, 10, 90, 30, 70} {
		tr.Insert(k)
	}
	tr.Insert(30) // 幂等

	if tr.Size() != 5 {
		t.Fatalf("size expected 5, got %d", tr.Size())
	}
	if min, _ := tr.Min(); min != 10 {
		t.Fatalf("min expected 10, got %d", min)
	}
	if max, _ := tr.Max(); max != 90 {
		t.Fatalf("max expected 90, got %d", max)
	}
	if nxt, _ := tr.Next(30); nxt != 50 {
		t.Fatalf("next(30) expected 50, got %d", nxt)
	}
	if prv, _ := tr.Prev(70); prv != 50 {
		t.Fatalf("prev(70) expected 50, got %d", prv)
	}
	if _, ok := tr.Next(90); ok {
		t.Fatal("next(max) should report !ok")
	}
	if _, ok := tr.Prev(10); ok {
		t.Fatal("prev(min) should report !ok")
	}
}

func TestTickTreeDelete(t *testing.T) {
	tr := newTickTree()
	for _, k := range []int32{5, 3, 8, 1, 4} {
		tr.Insert(k)
	}
	if !tr.Delete(3) {
		t.Fatal("delete existing key failed")
	}
	if tr.Delete(3) {
		t.Fatal("delete missing key should return false")
	}
	if tr.Contains(3) {
		t.Fatal("deleted key still present")
	}
	if tr.Size() != 4 {
		t.Fatalf("size expected 4, got %d", tr.Size())
	}
}

func TestTickTreeAscendDescend(t *testing.T) {
	tr := newTickTree()
	keys := []int32{7, 2, 9, 4, 1}
	for _, k := range keys {
		tr.Insert(k)
	}

	var asc []int32
	tr.Ascend(func(k int32) bool {
		asc = append(asc, k)
		return true
	})
	want := []int32{1, 2, 4, 7, 9}
	for i := range want {
		if asc[i] != want[i] {
			t.Fatalf("ascend order wrong: %v", asc)
		}
	}

	var got []int32
	tr.Descend(func(k int32) bool {
		got = append(got, k)
		return len(got) < 2 // 提前停
	})
	if len(got) != 2 || got[0] != 9 || got[1] != 7 {
		t.Fatalf("descend with early stop wrong: %v", got)
	}
}

// 随机插删，对照排序切片做参考实现
func TestTickTreeRandomAgainstReference(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	tr := newTickTree()
	ref := map[int32]bool{}

	for i := 0; i < 5000; i++ {
		k := int32(rng.Intn(500) + 1)
		if rng.Intn(2) == 0 {
			tr.Insert(k)
			ref[k] = true
		} else {
			if tr.Delete(k) != ref[k] {
				t.Fatalf("delete(%d) disagreed with reference at op %d", k, i)
			}
			delete(ref, k)
		}
	}

	keys := make([]int32, 0, len(ref))
	for k := range ref {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	var asc []int32
	tr.Ascend(func(k int32) bool {
		asc = append(asc, k)
		return true
	})
	if len(asc) != len(keys) {
		t.Fatalf("size mismatch: tree %d, reference %d", len(asc), len(keys))
	}
	for i := range keys {
		if asc[i] != keys[i] {
			t.Fatalf("order mismatch at %d: tree %d, reference %d", i, asc[i], keys[i])
		}
	}
	if tr.Size() != len(keys) {
		t.Fatalf("Size()=%d, want %d", tr.Size(), len(keys))
	}
}
