// bench 是撮合核心的独立压测器：灌一个大簿，然后打随机市价单、
// 中位偏置的改单和撤单，报每类操作的延迟分布。只测 book 本体，
// 不走 actor/HTTP（要测整条链路用 wrk 打 matchd）。
package main

import (
	"flag"
	"fmt"
	"math"
	"math/rand"
	"os"
	"sort"
	"time"

	"gophermatch.com/internal/book"
	"gophermatch.com/internal/render"
)

func main() {
	var (
		levels   = flag.Int("levels", 10000, "number of random price levels to seed")
		perLevel = flag.Int("per-level", 10, "orders per seeded level")
		markets  = flag.Int("markets", 5000, "random market orders to fire")
		modifies = flag.Int("modifies", 500, "random modifies (mid-biased)")
		deletes  = flag.Int("deletes", 500, "random deletes (mid-biased)")
		poolCap  = flag.Int("pool", 1_000_000, "order pool capacity")
		seed     = flag.Int64("seed", time.Now().UnixNano(), "rng seed")
		ladder   = flag.Bool("render", false, "render the final book (small books only)")
	)
	flag.Parse()

	rng := rand.New(rand.NewSource(*seed))
	b := book.New(*poolCap)

	// 铺盘：宽价格带上随机档位，奇偶交替买卖
	const minSeedTick, maxSeedTick = 5000, 150000
	ids := make([]uint64, 0, *levels**perLevel)
	for i := 0; i < *levels; i++ {
		tick := int32(minSeedTick + rng.Intn(maxSeedTick-minSeedTick+1))
		side := book.Bid
		if i%2 == 1 {
			side = book.Ask
		}
		for j := 0; j < *perLevel; j++ {
			qty := int32(rng.Intn(901) + 100)
			id, err := b.Add(qty, tick, side)
			if err != nil {
				fmt.Fprintf(os.Stderr, "seed failed: %v\n", err)
				os.Exit(1)
			}
			ids = append(ids, id)
		}
	}
	rng.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
	fmt.Printf("seeded %d orders across %d levels (seed=%d)\n", len(ids), *levels, *seed)

	// 1) 随机市价单
	marketNs := make([]int64, 0, *markets)
	for i := 0; i < *markets; i++ {
		side := book.Buy
		if rng.Intn(2) == 1 {
			side = book.Sell
		}
		qty := int32(rng.Intn(1901) + 100)

		start := time.Now()
		_, _ = b.Submit(book.Market, side, qty, 0)
		marketNs = append(marketNs, time.Since(start).Nanoseconds())
	}
	report("market", marketNs)

	// 2) 改单：目标 ID 往中间偏（正态分布），模拟“活跃单都在簿中部”
	midPick := func() uint64 {
		mean := float64(len(ids)) / 2
		stddev := float64(len(ids)) / 5
		for {
			idx := int(math.Round(rng.NormFloat64()*stddev + mean))
			if idx >= 0 && idx < len(ids) {
				return ids[idx]
			}
		}
	}

	modifyNs := make([]int64, 0, *modifies)
	for i := 0; i < *modifies; i++ {
		id := midPick()
		qty := int32(rng.Intn(901) + 100)

		start := time.Now()
		_ = b.Modify(id, qty)
		modifyNs = append(modifyNs, time.Since(start).Nanoseconds())
	}
	report("modify", modifyNs)

	// 3) 撤单，同样中间偏置
	deleteNs := make([]int64, 0, *deletes)
	for i := 0; i < *deletes; i++ {
		id := midPick()

		start := time.Now()
		_ = b.Cancel(id)
		deleteNs = append(deleteNs, time.Since(start).Nanoseconds())
	}
	report("delete", deleteNs)

	fmt.Printf("final: best_bid=%d best_ask=%d pool_free=%d\n",
		b.Best(book.Bid), b.Best(book.Ask), b.PoolFree())

	if *ladder {
		render.Ladder(os.Stdout, b)
	}
}

func report(name string, ns []int64) {
	if len(ns) == 0 {
		return
	}
	sorted := append([]int64(nil), ns...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var sum int64
	for _, v := range sorted {
		sum += v
	}
	pct := func(p float64) int64 {
		idx := int(p * float64(len(sorted)-1))
		return sorted[idx]
	}
	fmt.Printf("%-7s n=%-6d avg=%6dns p50=%6dns p90=%6dns p99=%6dns max=%6dns\n",
		name, len(sorted), sum/int64(len(sorted)), pct(0.50), pct(0.90), pct(0.99), sorted[len(sorted)-1])
}
