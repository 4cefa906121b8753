package book

// Book 是单符号撮合簿。单写者：内部没有任何锁，调用方必须串行提交
// （服务层的 actor 负责这件事，见 internal/engine）。
//
// 四个协作结构：
//   - pool：定容订单池（ID 也由它发）
//   - bids/asks：两侧盘（密集价位数组 + 活跃集 + 盘口缓存）
//   - byID：订单 ID → (side, tick) 的注册表，modify/cancel 靠它定位
//
// 注册表不变量：有表项 ⇔ 对应价位队列里恰好有一个该 ID 的 live 记录。
// 部分成交不动表项，全部成交/撤单删表项。
type Book struct {
	pool *OrderPool
	bids *bookSide
	asks *bookSide
	byID map[uint64]slot
}

type slot struct {
	side BookSide
	tick int32
}

// BestEmpty 是对外的空盘哨兵（两侧统一用 -1，内部极性哨兵不出包）
const BestEmpty int32 = -1

func New(poolCap int) *Book {
	return &Book{
		pool: NewOrderPool(poolCap),
		bids: newBookSide(Bid),
		asks: newBookSide(Ask),
		byID: make(map[uint64]slot, 1024),
	}
}

func (b *Book) sideOf(s BookSide) *bookSide {
	if s == Bid {
		return b.bids
	}
	return b.asks
}

// Add 直接挂一笔不撮合的订单（种子数据和测试用的路径）。
// 越界价格和非正数量都报错，不再静默吞掉。
func (b *Book) Add(qty, tick int32, side BookSide) (uint64, error) {
	if tick < MinTick || tick > MaxTick {
		return 0, ErrTickOutOfRange
	}
	if qty <= 0 {
		return 0, ErrInvalidQty
	}
	return b.rest(qty, tick, side)
}

// rest 完成分配+入簿+登记，调用方已做参数校验
func (b *Book) rest(qty, tick int32, side BookSide) (uint64, error) {
	h, err := b.pool.Acquire(qty, tick)
	if err != nil {
		return 0, err
	}
	id := b.pool.at(h).ID
	b.sideOf(side).insert(h, tick)
	b.byID[id] = slot{side: side, tick: tick}
	return id, nil
}

// Submit 处理市价/限价单，返回 (成交量, 成交额[tick 计])。
//
// 市价单：对面盘无价格栅栏地吃，吃不完的部分丢弃，不挂簿。
// 限价单：先判断是否 marketable（bid: tick ≥ 对面最优卖价；ask 对称），
// 是就带栅栏进撮合循环，剩余量挂入本侧；不是就直接挂簿。
func (b *Book) Submit(typ OrderType, side Side, qty, limitTick int32) (Fill, error) {
	if qty <= 0 {
		return Fill{}, ErrInvalidQty
	}

	switch typ {
	case Market:
		fill, _ := b.fill(side, qty, 0)
		return fill, nil

	case Limit:
		if limitTick < MinTick || limitTick > MaxTick {
			return Fill{}, ErrTickOutOfRange
		}
		opp := b.sideOf(side.Opposite())
		marketable := false
		if best, ok := opp.bestTick(); ok {
			if side == Buy {
				marketable = limitTick >= best
			} else {
				marketable = limitTick <= best
			}
		}

		var fill Fill
		rem := qty
		if marketable {
			fill, rem = b.fill(side, qty, limitTick)
		}
		if rem > 0 {
			if _, err := b.rest(rem, limitTick, side.Rests()); err != nil {
				return fill, err
			}
		}
		return fill, nil

	default:
		return Fill{}, ErrBadOrderType
	}
}

// fill 是撮合循环：对面盘从 best 开始啃，limit==0 表示无栅栏（市价）。
// 返回聚合成交和 taker 剩余量。
//
// 价位内严格 FIFO。队头挂单量大于剩余量时部分成交：原地减量，
// 记录留在队头，注册表不动。否则全部成交：删注册表、还池、弹队头，
// 价位吃空时的簿记（含盘口缓存刷新）由 popFront 里完成。
// 遍历顺序保证栅栏一旦失败后面只会更差，直接收工。
func (b *Book) fill(side Side, qty int32, limit int32) (Fill, int32) {
	opp := b.sideOf(side.Opposite())
	var fill Fill

	for qty > 0 {
		tick, ok := opp.bestTick()
		if !ok {
			break
		}
		if limit > 0 {
			if side == Buy && tick > limit {
				break
			}
			if side == Sell && tick < limit {
				break
			}
		}

		q := opp.queueAt(tick)
		for qty > 0 && !q.empty() {
			h := q.front()
			o := b.pool.at(h)
			if o.Qty > qty {
				// 部分成交：挂单留在队头
				fill.Qty += int64(qty)
				fill.Notional += int64(qty) * int64(tick)
				o.Qty -= qty
				qty = 0
				break
			}
			// 全部成交
			fill.Qty += int64(o.Qty)
			fill.Notional += int64(o.Qty) * int64(tick)
			qty -= o.Qty
			delete(b.byID, o.ID)
			b.pool.Release(h)
			opp.popFront(tick)
		}
	}
	return fill, qty
}

// Modify 原地改量。改单不重置时间优先级：记录留在原队列位置。
// 改方向/改价走撤单重下。未知 ID 或非正数量返回 false。
func (b *Book) Modify(id uint64, newQty int32) bool {
	if newQty <= 0 {
		return false
	}
	sl, ok := b.byID[id]
	if !ok {
		return false
	}
	q := b.sideOf(sl.side).queueAt(sl.tick)
	for i := 0; i < q.len(); i++ {
		o := b.pool.at(q.at(i))
		if o.ID == id {
			o.Qty = newQty
			return true
		}
	}
	return false
}

// Cancel 撤单：删注册表、从价位队列摘掉、还池、做空价位簿记。
func (b *Book) Cancel(id uint64) bool {
	sl, ok := b.byID[id]
	if !ok {
		return false
	}
	delete(b.byID, id)

	side := b.sideOf(sl.side)
	q := side.queueAt(sl.tick)
	for i := 0; i < q.len(); i++ {
		h := q.at(i)
		if b.pool.at(h).ID == id {
			q.eraseAt(i)
			if q.empty() {
				side.onEmptied(sl.tick)
			}
			b.pool.Release(h)
			return true
		}
	}
	return false
}

// Best 返回一侧的盘口价位，空盘统一返回 BestEmpty。O(1)。
func (b *Book) Best(side BookSide) int32 {
	s := b.sideOf(side)
	tick, ok := s.bestTick()
	if !ok {
		return BestEmpty
	}
	return tick
}

/******************** 只读查询（测试/渲染/API） ********************/

// Orders 返回某价位上的挂单拷贝，队列顺序（队头在前）。
func (b *Book) Orders(side BookSide, tick int32) []OrderView {
	if tick < MinTick || tick > MaxTick {
		return nil
	}
	q := b.sideOf(side).queueAt(tick)
	if q.empty() {
		return nil
	}
	out := make([]OrderView, 0, q.len())
	for i := 0; i < q.len(); i++ {
		o := b.pool.at(q.at(i))
		out = append(out, OrderView{ID: o.ID, Tick: o.Tick, Qty: o.Qty})
	}
	return out
}

// WalkLevels 按撮合优先级遍历一侧的活跃价位，报每档合计量和单数。
func (b *Book) WalkLevels(side BookSide, fn func(tick int32, total int64, count int) bool) {
	s := b.sideOf(side)
	s.walkFromBest(func(tick int32) bool {
		q := s.queueAt(tick)
		var total int64
		for i := 0; i < q.len(); i++ {
			total += int64(b.pool.at(q.at(i)).Qty)
		}
		return fn(tick, total, q.len())
	})
}

// Depth 返回一侧前 n 档（n<=0 表示全部）
func (b *Book) Depth(side BookSide, n int) []LevelView {
	var out []LevelView
	b.WalkLevels(side, func(tick int32, total int64, count int) bool {
		out = append(out, LevelView{Tick: tick, Qty: total, Orders: count})
		return n <= 0 || len(out) < n
	})
	return out
}

type LevelView struct {
	Tick   int32
	Qty    int64
	Orders int
}

// PoolFree 返回池里剩余槽位数
func (b *Book) PoolFree() int {
	return b.pool.Free()
}

// ActiveCount 返回一侧活跃价位数
func (b *Book) ActiveCount(side BookSide) int {
	return b.sideOf(side).active.Size()
}

// CheckBest 交叉校验盘口缓存和全盘线性扫描（诊断用，正常不该用到）
func (b *Book) CheckBest(side BookSide) bool {
	s := b.sideOf(side)
	scan, ok := s.scanBest()
	cached, ok2 := s.bestTick()
	if ok != ok2 {
		return false
	}
	return !ok || scan == cached
}
