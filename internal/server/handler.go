package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"gophermatch.com/internal/book"
	"gophermatch.com/internal/engine"
	"gophermatch.com/pkg/common"
)

// Handler 把 HTTP 请求翻译成引擎命令。价格对外是货币单位（字符串，
// 两位小数），进引擎前换算成整数 tick，出引擎再换回去。
type Handler struct {
	act     *engine.Actor
	timeout time.Duration
}

func NewHandler(act *engine.Actor, timeout time.Duration) *Handler {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &Handler{act: act, timeout: timeout}
}

var hundred = decimal.NewFromInt(100)

// priceToTick 把 "100.50" 这样的外部价格换成 tick。超过两位小数拒绝。
func priceToTick(s string) (int32, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, err
	}
	t := d.Mul(hundred)
	if !t.IsInteger() {
		return 0, errors.New("price has sub-tick precision")
	}
	v := t.IntPart()
	if v < book.MinTick || v > book.MaxTick {
		return 0, book.ErrTickOutOfRange
	}
	return int32(v), nil
}

func tickToPrice(tick int32) string {
	if tick < 0 {
		return ""
	}
	return decimal.New(int64(tick), -2).StringFixed(2)
}

type submitReq struct {
	Type  string `json:"type" binding:"required,oneof=market limit"`
	Side  string `json:"side" binding:"required,oneof=buy sell"`
	Qty   int32  `json:"qty" binding:"required,gt=0"`
	Price string `json:"price"` // limit 必填
}

func (h *Handler) Submit(c *gin.Context) {
	var req submitReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 1001001, "bad request: "+err.Error())
		return
	}

	cmd := engine.Command{
		Type:  engine.CmdSubmit,
		ReqID: common.RequestIDFromGin(c),
	}
	if req.Type == "market" {
		cmd.OrderType = book.Market
	} else {
		cmd.OrderType = book.Limit
		tick, err := priceToTick(req.Price)
		if err != nil {
			common.Fail(c, http.StatusBadRequest, 1001002, "bad price: "+err.Error())
			return
		}
		cmd.Tick = tick
	}
	if req.Side == "buy" {
		cmd.Side = book.Buy
	} else {
		cmd.Side = book.Sell
	}
	cmd.Qty = req.Qty

	res, ok := h.do(c, cmd)
	if !ok {
		return
	}
	if res.Err != nil {
		h.failEngine(c, res.Err)
		return
	}
	common.Success(c, gin.H{
		"seq":            res.Seq,
		"filled_qty":     res.Fill.Qty,
		"notional_ticks": res.Fill.Notional,
		"notional":       decimal.New(res.Fill.Notional, -2).StringFixed(2),
	})
}

type restReq struct {
	Side  string `json:"side" binding:"required,oneof=bid ask"`
	Qty   int32  `json:"qty" binding:"required,gt=0"`
	Price string `json:"price" binding:"required"`
}

// Rest 直接挂簿不撮合（种子数据的加载路径）
func (h *Handler) Rest(c *gin.Context) {
	var req restReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 1001001, "bad request: "+err.Error())
		return
	}
	tick, err := priceToTick(req.Price)
	if err != nil {
		common.Fail(c, http.StatusBadRequest, 1001002, "bad price: "+err.Error())
		return
	}

	cmd := engine.Command{
		Type:  engine.CmdRest,
		ReqID: common.RequestIDFromGin(c),
		Qty:   req.Qty,
		Tick:  tick,
	}
	if req.Side == "bid" {
		cmd.RestSide = book.Bid
	} else {
		cmd.RestSide = book.Ask
	}

	res, ok := h.do(c, cmd)
	if !ok {
		return
	}
	if res.Err != nil {
		h.failEngine(c, res.Err)
		return
	}
	common.Success(c, gin.H{"order_id": res.OrderID, "seq": res.Seq})
}

type modifyReq struct {
	Qty int32 `json:"qty" binding:"required,gt=0"`
}

func (h *Handler) Modify(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		common.Fail(c, http.StatusBadRequest, 1001003, "bad order id")
		return
	}
	var req modifyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 1001001, "bad request: "+err.Error())
		return
	}

	res, ok := h.do(c, engine.Command{
		Type:    engine.CmdModify,
		ReqID:   common.RequestIDFromGin(c),
		OrderID: id,
		NewQty:  req.Qty,
	})
	if !ok {
		return
	}
	if !res.OK {
		common.Fail(c, http.StatusNotFound, 1004004, "order not found")
		return
	}
	common.Success(c, gin.H{"seq": res.Seq})
}

func (h *Handler) Cancel(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		common.Fail(c, http.StatusBadRequest, 1001003, "bad order id")
		return
	}

	res, ok := h.do(c, engine.Command{
		Type:    engine.CmdCancel,
		ReqID:   common.RequestIDFromGin(c),
		OrderID: id,
	})
	if !ok {
		return
	}
	if !res.OK {
		common.Fail(c, http.StatusNotFound, 1004004, "order not found")
		return
	}
	common.Success(c, gin.H{"seq": res.Seq})
}

// Book 返回两侧盘口和深度，?n= 控制档数（默认 10，0 = 全部）
func (h *Handler) Book(c *gin.Context) {
	n := 10
	if raw := c.Query("n"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			common.Fail(c, http.StatusBadRequest, 1001004, "bad depth")
			return
		}
		n = v
	}

	res, ok := h.do(c, engine.Command{
		Type:   engine.CmdQuery,
		ReqID:  common.RequestIDFromGin(c),
		DepthN: n,
	})
	if !ok {
		return
	}
	common.Success(c, gin.H{
		"best_bid":       res.BestBid,
		"best_ask":       res.BestAsk,
		"best_bid_price": tickToPrice(res.BestBid),
		"best_ask_price": tickToPrice(res.BestAsk),
		"bids":           levelsJSON(res.Bids),
		"asks":           levelsJSON(res.Asks),
	})
}

func levelsJSON(levels []book.LevelView) []gin.H {
	out := make([]gin.H, 0, len(levels))
	for _, lv := range levels {
		out = append(out, gin.H{
			"tick":   lv.Tick,
			"price":  tickToPrice(lv.Tick),
			"qty":    lv.Qty,
			"orders": lv.Orders,
		})
	}
	return out
}

// do 同步走一圈引擎，失败时直接写响应并返回 false
func (h *Handler) do(c *gin.Context, cmd engine.Command) (engine.Result, bool) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	res, err := h.act.Do(ctx, cmd)
	if err != nil {
		if errors.Is(err, engine.ErrEngineBusy) {
			common.Fail(c, http.StatusServiceUnavailable, 1005001, "engine busy")
		} else {
			common.Fail(c, http.StatusGatewayTimeout, 1005002, "engine timeout")
		}
		return engine.Result{}, false
	}
	return res, true
}

func (h *Handler) failEngine(c *gin.Context, err error) {
	switch {
	case errors.Is(err, book.ErrTickOutOfRange):
		common.Fail(c, http.StatusBadRequest, 1001005, "price out of range")
	case errors.Is(err, book.ErrInvalidQty):
		common.Fail(c, http.StatusBadRequest, 1001006, "quantity must be positive")
	case errors.Is(err, book.ErrPoolExhausted):
		common.Fail(c, http.StatusServiceUnavailable, 1005003, "order pool exhausted")
	default:
		common.Fail(c, http.StatusInternalServerError, 5000000, "internal error")
	}
}
