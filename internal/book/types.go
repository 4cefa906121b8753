package book

// 价格全部用整数 tick 表示：1 tick = 外部单位的 1/100
// 盘口只接受闭区间 [MinTick, MaxTick] 内的价格
const (
	MinTick    = 1
	MaxTick    = 200000
	PriceRange = MaxTick - MinTick + 1
)

// 主动方向（taker）
type Side uint8

const (
	Buy Side = iota + 1
	Sell
)

// 挂单方向（maker）
type BookSide uint8

const (
	Bid BookSide = iota + 1
	Ask
)

type OrderType uint8

const (
	Limit OrderType = iota + 1
	Market
)

func (s Side) String() string {
	if s == Sell {
		return "sell"
	}
	return "buy"
}

func (s BookSide) String() string {
	if s == Ask {
		return "ask"
	}
	return "bid"
}

// Opposite 返回 taker 要吃的那一侧
func (s Side) Opposite() BookSide {
	if s == Buy {
		return Ask
	}
	return Bid
}

// Rests 返回 taker 剩余量挂入的那一侧
func (s Side) Rests() BookSide {
	if s == Buy {
		return Bid
	}
	return Ask
}

// Fill 聚合一次撮合的结果。
// Notional 用整数 tick 计（qty*tick 累加），外层需要货币单位时自己除 100，
// 这样数值无损、可以精确回放。
type Fill struct {
	Qty      int64
	Notional int64
}

// OrderView 是给测试/查询用的只读拷贝，不暴露池内指针。
type OrderView struct {
	ID   uint64
	Tick int32
	Qty  int32
}
