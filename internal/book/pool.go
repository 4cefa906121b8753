package book

import "fmt"

// Order 是池里的一个槽位。Tick 分配后不再变；Qty 在部分成交/改单时原地改。
// live 标记槽位是否在簿内，用来抓 double-release 这类结构性 bug。
type Order struct {
	ID   uint64
	Tick int32
	Qty  int32
	live bool
}

// Handle 是池内槽位下标。用下标而不是指针：可拷贝、可比较、永不悬垂。
type Handle int32

const nilHandle Handle = -1

// OrderPool 是定容 arena：一块连续的 Order 数组加一个空闲下标栈。
// 热路径上零分配，句柄在订单存活期内稳定。
// 订单 ID 由池内的单调计数器发，从 1 开始，进程内不复用。
type OrderPool struct {
	orders []Order
	free   []Handle
	nextID uint64
}

func NewOrderPool(capacity int) *OrderPool {
	if capacity <= 0 {
		panic("book: pool capacity must be positive")
	}
	p := &OrderPool{
		orders: make([]Order, capacity),
		free:   make([]Handle, 0, capacity),
		nextID: 1,
	}
	// 栈顶是低下标，分配顺序稳定，方便测试断言
	for i := capacity - 1; i >= 0; i-- {
		p.free = append(p.free, Handle(i))
	}
	return p
}

// Acquire 取一个空闲槽位，写入 qty/tick 并分配新 ID。
// 池耗尽返回 ErrPoolExhausted——对引擎来说这是致命情况，由上层决定怎么死。
func (p *OrderPool) Acquire(qty, tick int32) (Handle, error) {
	if len(p.free) == 0 {
		return nilHandle, ErrPoolExhausted
	}
	h := p.free[len(p.free)-1]
	p.free = p.free[:len(p.free)-1]

	o := &p.orders[h]
	o.ID = p.nextID
	p.nextID++
	o.Tick = tick
	o.Qty = qty
	o.live = true
	return h, nil
}

// Release 归还槽位。句柄越界或槽位不是 live 状态说明调用方持有了
// 野句柄或释放了两次——这是结构性 bug，直接 panic。
func (p *OrderPool) Release(h Handle) {
	if h < 0 || int(h) >= len(p.orders) {
		panic(fmt.Sprintf("book: release of foreign handle %d (pool size %d)", h, len(p.orders)))
	}
	o := &p.orders[h]
	if !o.live {
		panic(fmt.Sprintf("book: double release of handle %d (order %d)", h, o.ID))
	}
	o.live = false
	p.free = append(p.free, h)
}

// at 返回槽位指针。只在 book 包内用，外部拿 OrderView 拷贝。
func (p *OrderPool) at(h Handle) *Order {
	return &p.orders[h]
}

// Free 返回空闲槽位数
func (p *OrderPool) Free() int {
	return len(p.free)
}

func (p *OrderPool) Cap() int {
	return len(p.orders)
}

// NextID 返回下一个将要分配的 ID（测试用）
func (p *OrderPool) NextID() uint64 {
	return p.nextID
}
