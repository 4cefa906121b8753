package engine

import (
	"errors"

	"gophermatch.com/internal/book"
)

// 命令类型：写命令和查询走同一个 mailbox，到 book 这层天然串行
type CmdType uint8

const (
	CmdSubmit CmdType = iota + 1 // 市价/限价撮合
	CmdRest                      // 直接挂簿不撮合（种子/测试路径）
	CmdModify                    // 改量
	CmdCancel                    // 撤单
	CmdQuery                     // 盘口 + 深度快照
)

// Command 入队后由 actor 串行消费。Resp 可选：带上（容量 1）就能拿
// 同步结果；不带就是 fire-and-forget，结果只进事件总线。
type Command struct {
	Type  CmdType
	ReqID string // 上游幂等/追踪用

	// Submit / Rest
	OrderType book.OrderType
	Side      book.Side
	RestSide  book.BookSide
	Qty       int32
	Tick      int32

	// Modify / Cancel
	OrderID uint64
	NewQty  int32

	// Query
	DepthN int

	Resp chan Result
}

// Result 是一条命令的终态
type Result struct {
	Seq     uint64
	OrderID uint64 // Rest 挂出的订单 ID
	Fill    book.Fill
	OK      bool // Modify/Cancel 的布尔结果
	BestBid int32
	BestAsk int32
	Bids    []book.LevelView
	Asks    []book.LevelView
	Err     error
}

type EventType uint8

const (
	EvExecuted  EventType = iota + 1 // 撮合完成（含零成交）
	EvRested                         // 挂簿
	EvModified                       // 改量成功
	EvCancelled                      // 撤单成功
	EvRejected                       // 参数/池子问题被拒
)

// Event 广播到事件总线。Seq 在 actor 内单调递增，用于对齐和排查。
type Event struct {
	Type  EventType
	Seq   uint64
	ReqID string

	OrderID  uint64
	Tick     int32
	Qty      int64
	Notional int64

	Reason string // 仅 EvRejected
}

var (
	ErrEngineBusy   = errors.New("engine busy: mailbox full")
	ErrEngineClosed = errors.New("engine closed")
)
