package book

import (
	"math/rand"
	"testing"
)

// 铺 levels 个价位，每档 per 笔，卖盘从 base 往上
func seedAsks(b *testing.B, bk *Book, base int32, levels, per int) {
	b.Helper()
	for i := 0; i < levels; i++ {
		tick := base + int32(i)
		for j := 0; j < per; j++ {
			if _, err := bk.Add(1, tick, Ask); err != nil {
				b.Fatalf("seed: %v", err)
			}
		}
	}
}

func BenchmarkAdd(b *testing.B) {
	bk := New(b.N + 1)
	rng := rand.New(rand.NewSource(1))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tick := int32(rng.Intn(100000) + 5000)
		_, _ = bk.Add(10, tick, Bid)
	}
}

// 小市价单贴着盘口吃：每笔一个 full fill，这是最热的路径
func BenchmarkMarketSmallFill(b *testing.B) {
	bk := New(b.N + 1024)
	seedAsks(b, bk, 10000, 1, b.N)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = bk.Submit(Market, Buy, 1, 0)
	}
}

// 跨价位扫单：每档 200 笔 1 手的单，每笔市价吃 5 笔，约每 40 笔跨过一档
func BenchmarkMarketSweepLevels(b *testing.B) {
	bk := New(b.N*5 + 1024)
	seedAsks(b, bk, 10000, b.N*5/200+5, 200)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = bk.Submit(Market, Buy, 5, 0)
	}
}

func BenchmarkBestQuote(b *testing.B) {
	bk := New(4096)
	seedAsks(b, bk, 10000, 50, 10)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = bk.Best(Ask)
	}
}

// 撤单走注册表定位 + 队列线性扫
func BenchmarkCancelMidQueue(b *testing.B) {
	const per = 64
	bk := New(b.N + per + 16)
	ids := make([]uint64, 0, b.N)
	// 底座：一个 64 深的队列，被撤的单混在中间
	for i := 0; i < per; i++ {
		if _, err := bk.Add(1, 10000, Ask); err != nil {
			b.Fatalf("seed: %v", err)
		}
	}
	for i := 0; i < b.N; i++ {
		id, err := bk.Add(1, 10000, Ask)
		if err != nil {
			b.Fatalf("seed: %v", err)
		}
		ids = append(ids, id)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = bk.Cancel(ids[i])
	}
}

func BenchmarkModify(b *testing.B) {
	bk := New(1024)
	id, err := bk.Add(100, 10000, Bid)
	if err != nil {
		b.Fatalf("seed: %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = bk.Modify(id, int32(i%1000)+1)
	}
}
