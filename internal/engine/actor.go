package engine

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"gophermatch.com/internal/book"
	"gophermatch.com/pkg/logger"
	"gophermatch.com/pkg/metrics"
)

type Config struct {
	MailboxSize int // 命令队列深度
	BusSize     int // 事件总线深度
}

// Actor 是 book 的唯一写入口：一个 goroutine 消费 mailbox，
// book 内部不加锁的前提就是它。查询也排队，读到的永远是一致状态。
type Actor struct {
	book *book.Book
	in   chan Command
	bus  *ChanBus

	seq         uint64 // 只在 Run goroutine 里动
	mailboxFull atomic.Uint64
}

func NewActor(b *book.Book, cfg Config) *Actor {
	if cfg.MailboxSize <= 0 {
		cfg.MailboxSize = 4096
	}
	return &Actor{
		book: b,
		in:   make(chan Command, cfg.MailboxSize),
		bus:  NewChanBus(cfg.BusSize),
	}
}

func (a *Actor) Events() <-chan Event { return a.bus.C() }

func (a *Actor) DroppedEvents() uint64 { return a.bus.Dropped() }

func (a *Actor) MailboxFull() uint64 { return a.mailboxFull.Load() }

// TryEnqueue 非阻塞入队。mailbox 满说明下游顶不住了，让上游拿到
// ErrEngineBusy 自己退避，别把压力闷在这里。
func (a *Actor) TryEnqueue(cmd Command) error {
	select {
	case a.in <- cmd:
		return nil
	default:
		a.mailboxFull.Add(1)
		return ErrEngineBusy
	}
}

// Do 同步走一圈：入队、等 actor 回写结果。HTTP 层用的就是它。
func (a *Actor) Do(ctx context.Context, cmd Command) (Result, error) {
	cmd.Resp = make(chan Result, 1)
	select {
	case a.in <- cmd:
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
	select {
	case res := <-cmd.Resp:
		return res, nil
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

// Run 是唯一碰 book 的 goroutine
func (a *Actor) Run(ctx context.Context) {
	if logger.Log != nil {
		logger.Info(ctx, "engine actor started",
			zap.Int("mailbox", cap(a.in)),
		)
	}
	for {
		select {
		case <-ctx.Done():
			if logger.Log != nil {
				logger.Info(ctx, "engine actor stopped",
					zap.Uint64("last_seq", a.seq),
					zap.Uint64("events_dropped", a.bus.Dropped()),
				)
			}
			return
		case cmd := <-a.in:
			res := a.apply(cmd)
			if cmd.Resp != nil {
				cmd.Resp <- res
			}
		}
	}
}

func (a *Actor) apply(cmd Command) Result {
	a.seq++
	res := Result{Seq: a.seq}
	start := time.Now()

	switch cmd.Type {
	case CmdSubmit:
		fill, err := a.book.Submit(cmd.OrderType, cmd.Side, cmd.Qty, cmd.Tick)
		res.Fill = fill
		res.Err = err
		if err != nil {
			a.reject(cmd, err)
			metrics.OrdersTotal.WithLabelValues("submit", "rejected").Inc()
			break
		}
		a.bus.TryPublish(Event{
			Type: EvExecuted, Seq: a.seq, ReqID: cmd.ReqID,
			Tick: cmd.Tick, Qty: fill.Qty, Notional: fill.Notional,
		})
		metrics.OrdersTotal.WithLabelValues("submit", "ok").Inc()
		metrics.TradeVolume.Add(float64(fill.Qty))
		metrics.TradeNotional.Add(float64(fill.Notional))

	case CmdRest:
		id, err := a.book.Add(cmd.Qty, cmd.Tick, cmd.RestSide)
		res.OrderID = id
		res.Err = err
		if err != nil {
			a.reject(cmd, err)
			metrics.OrdersTotal.WithLabelValues("rest", "rejected").Inc()
			break
		}
		a.bus.TryPublish(Event{
			Type: EvRested, Seq: a.seq, ReqID: cmd.ReqID,
			OrderID: id, Tick: cmd.Tick, Qty: int64(cmd.Qty),
		})
		metrics.OrdersTotal.WithLabelValues("rest", "ok").Inc()

	case CmdModify:
		ok := a.book.Modify(cmd.OrderID, cmd.NewQty)
		res.OK = ok
		if ok {
			a.bus.TryPublish(Event{
				Type: EvModified, Seq: a.seq, ReqID: cmd.ReqID,
				OrderID: cmd.OrderID, Qty: int64(cmd.NewQty),
			})
			metrics.OrdersTotal.WithLabelValues("modify", "ok").Inc()
		} else {
			metrics.OrdersTotal.WithLabelValues("modify", "miss").Inc()
		}

	case CmdCancel:
		ok := a.book.Cancel(cmd.OrderID)
		res.OK = ok
		if ok {
			a.bus.TryPublish(Event{
				Type: EvCancelled, Seq: a.seq, ReqID: cmd.ReqID,
				OrderID: cmd.OrderID,
			})
			metrics.OrdersTotal.WithLabelValues("cancel", "ok").Inc()
		} else {
			metrics.OrdersTotal.WithLabelValues("cancel", "miss").Inc()
		}

	case CmdQuery:
		res.BestBid = a.book.Best(book.Bid)
		res.BestAsk = a.book.Best(book.Ask)
		res.Bids = a.book.Depth(book.Bid, cmd.DepthN)
		res.Asks = a.book.Depth(book.Ask, cmd.DepthN)
	}

	metrics.ApplyDuration.WithLabelValues(opLabel(cmd.Type)).Observe(time.Since(start).Seconds())
	a.refreshGauges()
	return res
}

func (a *Actor) reject(cmd Command, err error) {
	a.bus.TryPublish(Event{
		Type: EvRejected, Seq: a.seq, ReqID: cmd.ReqID,
		OrderID: cmd.OrderID, Reason: err.Error(),
	})
}

func (a *Actor) refreshGauges() {
	metrics.BestTick.WithLabelValues("bid").Set(float64(a.book.Best(book.Bid)))
	metrics.BestTick.WithLabelValues("ask").Set(float64(a.book.Best(book.Ask)))
	metrics.PoolFree.Set(float64(a.book.PoolFree()))
}

func opLabel(t CmdType) string {
	switch t {
	case CmdSubmit:
		return "submit"
	case CmdRest:
		return "rest"
	case CmdModify:
		return "modify"
	case CmdCancel:
		return "cancel"
	default:
		return "query"
	}
}
