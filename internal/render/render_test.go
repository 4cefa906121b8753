package render

import (
	"bytes"
	"strings"
	"testing"

	"gophermatch.com/internal/book"
)

func TestLadderRendersBothSides(t *testing.T) {
	b := book.New(64)
	if _, err := b.Add(100, 10000, book.Bid); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := b.Add(50, 10100, book.Ask); err != nil {
		t.Fatalf("add: %v", err)
	}

	var buf bytes.Buffer
	Ladder(&buf, b)
	out := buf.String()

	if !strings.Contains(out, "$  100.00") {
		t.Fatalf("bid price missing:\n%s", out)
	}
	if !strings.Contains(out, "$  101.00") {
		t.Fatalf("ask price missing:\n%s", out)
	}
	// 10100 vs 10000 → 100 ticks / 10000 * 10000 = 100.0 bps
	if !strings.Contains(out, "100.0bps") {
		t.Fatalf("spread line wrong:\n%s", out)
	}
	// 100 手 → 10 格
	if !strings.Contains(out, strings.Repeat("█", 10)) {
		t.Fatalf("qty bar missing:\n%s", out)
	}
}

func TestLadderOneSided(t *testing.T) {
	b := book.New(64)
	if _, err := b.Add(10, 9000, book.Bid); err != nil {
		t.Fatalf("add: %v", err)
	}

	var buf bytes.Buffer
	Ladder(&buf, b)
	if !strings.Contains(buf.String(), "one-sided") {
		t.Fatalf("one-sided marker missing:\n%s", buf.String())
	}
}

// ask 侧展示顺序：价格从高到低
func TestLadderAskOrder(t *testing.T) {
	b := book.New(64)
	for _, tk := range []int32{10100, 10300, 10200} {
		if _, err := b.Add(10, tk, book.Ask); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	var buf bytes.Buffer
	Ladder(&buf, b)
	out := buf.String()

	hi := strings.Index(out, "103.00")
	mid := strings.Index(out, "102.00")
	lo := strings.Index(out, "101.00")
	if hi == -1 || mid == -1 || lo == -1 || !(hi < mid && mid < lo) {
		t.Fatalf("ask ladder order wrong (hi=%d mid=%d lo=%d):\n%s", hi, mid, lo, out)
	}
}
