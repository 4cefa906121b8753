package book

import "math/rand"

// SeedDemo 往空簿里灌演示数据：三档买盘（9000–10000）三档卖盘
// （10000–11000），每档两笔随机量。固定种子，保证渲染/演示可复现。
func (b *Book) SeedDemo() error {
	rng := rand.New(rand.NewSource(12))

	for i := 0; i < 3; i++ {
		tick := int32(9000 + rng.Intn(1001))
		if _, err := b.Add(int32(rng.Intn(100)+1), tick, Bid); err != nil {
			return err
		}
		if _, err := b.Add(int32(rng.Intn(100)+1), tick, Bid); err != nil {
			return err
		}
	}
	for i := 0; i < 3; i++ {
		tick := int32(10000 + rng.Intn(1001))
		if _, err := b.Add(int32(rng.Intn(100)+1), tick, Ask); err != nil {
			return err
		}
		if _, err := b.Add(int32(rng.Intn(100)+1), tick, Ask); err != nil {
			return err
		}
	}
	return nil
}
