package engine

import (
	"context"
	"testing"
	"time"

	"gophermatch.com/internal/book"
)

func startActor(t *testing.T) (*Actor, context.CancelFunc) {
	t.Helper()
	b := book.New(1024)
	a := NewActor(b, Config{MailboxSize: 64, BusSize: 256})
	ctx, cancel := context.WithCancel(context.Background())
	go a.Run(ctx)
	t.Cleanup(cancel)
	return a, cancel
}

func do(t *testing.T, a *Actor, cmd Command) Result {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	res, err := a.Do(ctx, cmd)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	return res
}

func TestActorRestAndQuery(t *testing.T) {
	a, _ := startActor(t)

	res := do(t, a, Command{Type: CmdRest, RestSide: book.Bid, Qty: 100, Tick: 10000})
	if res.Err != nil {
		t.Fatalf("rest: %v", res.Err)
	}
	if res.OrderID == 0 {
		t.Fatal("rest should return an order id")
	}

	q := do(t, a, Command{Type: CmdQuery, DepthN: 5})
	if q.BestBid != 10000 {
		t.Fatalf("best bid expected 10000, got %d", q.BestBid)
	}
	if q.BestAsk != book.BestEmpty {
		t.Fatalf("best ask expected empty, got %d", q.BestAsk)
	}
	if len(q.Bids) != 1 || q.Bids[0].Qty != 100 {
		t.Fatalf("depth wrong: %+v", q.Bids)
	}
}

func TestActorSubmitMatches(t *testing.T) {
	a, _ := startActor(t)

	do(t, a, Command{Type: CmdRest, RestSide: book.Ask, Qty: 100, Tick: 10100})

	res := do(t, a, Command{Type: CmdSubmit, OrderType: book.Market, Side: book.Buy, Qty: 40})
	if res.Err != nil {
		t.Fatalf("submit: %v", res.Err)
	}
	if res.Fill.Qty != 40 || res.Fill.Notional != 40*10100 {
		t.Fatalf("unexpected fill %+v", res.Fill)
	}
}

func TestActorSeqMonotonic(t *testing.T) {
	a, _ := startActor(t)

	r1 := do(t, a, Command{Type: CmdQuery})
	r2 := do(t, a, Command{Type: CmdQuery})
	if r2.Seq != r1.Seq+1 {
		t.Fatalf("seq not monotonic: %d then %d", r1.Seq, r2.Seq)
	}
}

func TestActorModifyCancelRoundTrip(t *testing.T) {
	a, _ := startActor(t)

	res := do(t, a, Command{Type: CmdRest, RestSide: book.Ask, Qty: 10, Tick: 10500})
	id := res.OrderID

	if !do(t, a, Command{Type: CmdModify, OrderID: id, NewQty: 25}).OK {
		t.Fatal("modify should succeed")
	}
	if !do(t, a, Command{Type: CmdCancel, OrderID: id}).OK {
		t.Fatal("cancel should succeed")
	}
	if do(t, a, Command{Type: CmdCancel, OrderID: id}).OK {
		t.Fatal("second cancel should miss")
	}
}

func TestActorRejectedSubmitSurfacesError(t *testing.T) {
	a, _ := startActor(t)

	res := do(t, a, Command{Type: CmdSubmit, OrderType: book.Limit, Side: book.Buy, Qty: 10, Tick: book.MaxTick + 5})
	if res.Err != book.ErrTickOutOfRange {
		t.Fatalf("expected ErrTickOutOfRange, got %v", res.Err)
	}
}

// mailbox 满时 TryEnqueue 立即报 busy，不阻塞
func TestActorMailboxFull(t *testing.T) {
	b := book.New(64)
	a := NewActor(b, Config{MailboxSize: 1})
	// 不启动 Run，塞满 mailbox
	if err := a.TryEnqueue(Command{Type: CmdQuery}); err != nil {
		t.Fatalf("first enqueue: %v", err)
	}
	if err := a.TryEnqueue(Command{Type: CmdQuery}); err != ErrEngineBusy {
		t.Fatalf("expected ErrEngineBusy, got %v", err)
	}
	if a.MailboxFull() != 1 {
		t.Fatalf("mailboxFull counter expected 1, got %d", a.MailboxFull())
	}
}

func TestActorPublishesEvents(t *testing.T) {
	a, _ := startActor(t)

	do(t, a, Command{Type: CmdRest, RestSide: book.Bid, Qty: 5, Tick: 9900, ReqID: "r-1"})

	select {
	case ev := <-a.Events():
		if ev.Type != EvRested || ev.ReqID != "r-1" || ev.Tick != 9900 {
			t.Fatalf("unexpected event %+v", ev)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no event published")
	}
}

func TestActorDoHonorsContext(t *testing.T) {
	b := book.New(64)
	a := NewActor(b, Config{MailboxSize: 1})
	// 没有 Run goroutine：Do 必须靠 ctx 超时退出
	_ = a.TryEnqueue(Command{Type: CmdQuery}) // 占满 mailbox

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := a.Do(ctx, Command{Type: CmdQuery}); err == nil {
		t.Fatal("expected context error")
	}
}
