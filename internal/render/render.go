package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"gophermatch.com/internal/book"
)

// 终端配色沿用交易台惯例：卖红买绿，价差黄色
const (
	colorAsk    = "\033[1;31m"
	colorBid    = "\033[1;32m"
	colorSpread = "\033[1;33m"
	colorReset  = "\033[0m"
)

// barUnit: 每 10 手画一格
const barUnit = 10

// Ladder 把订单簿画成 ASCII 价位梯：卖盘从高到低、价差、买盘从高到低。
// 纯展示层，对 book 只读。
func Ladder(w io.Writer, b *book.Book) {
	fmt.Fprintln(w, "========== Orderbook =========")

	writeSide(w, b, book.Ask)
	writeSpread(w, b)
	writeSide(w, b, book.Bid)

	fmt.Fprintln(w, "==============================")
}

func writeSide(w io.Writer, b *book.Book, side book.BookSide) {
	color := colorBid
	if side == book.Ask {
		color = colorAsk
	}

	// WalkLevels 按撮合优先级吐价位（ask 从低到高），展示要从高到低
	var levels []book.LevelView
	b.WalkLevels(side, func(tick int32, total int64, count int) bool {
		levels = append(levels, book.LevelView{Tick: tick, Qty: total, Orders: count})
		return true
	})
	if side == book.Ask {
		for i, j := 0, len(levels)-1; i < j; i, j = i+1, j-1 {
			levels[i], levels[j] = levels[j], levels[i]
		}
	}

	for _, lv := range levels {
		price := decimal.New(int64(lv.Tick), -2).StringFixed(2)
		fmt.Fprintf(w, "\t%s$%8s%6d%s %s\n",
			color, price, lv.Qty, colorReset,
			strings.Repeat("█", int(lv.Qty)/barUnit),
		)
	}
}

func writeSpread(w io.Writer, b *book.Book) {
	bid := b.Best(book.Bid)
	ask := b.Best(book.Ask)
	if bid == book.BestEmpty || ask == book.BestEmpty {
		fmt.Fprintf(w, "\n%s======  one-sided  ======%s\n\n", colorSpread, colorReset)
		return
	}

	// 价差按基点：10000 * (ask - bid) / bid
	bps := decimal.NewFromInt(int64(ask - bid)).
		Mul(decimal.NewFromInt(10000)).
		Div(decimal.NewFromInt(int64(bid)))
	fmt.Fprintf(w, "\n%s======  %sbps  ======%s\n\n", colorSpread, bps.StringFixed(1), colorReset)
}
