package main

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/forest33/ittofeed/business/entity"
)

// fileDatePattern matches a leading 8-digit MMDDYYYY date in a capture
// file name.
var fileDatePattern = regexp.MustCompile(`^(\d{2})(\d{2})(\d{4})`)

// renderer writes one CSV line per record, two for two-sided quote
// records. Prices are fixed-point integers on the wire; priceScale moves
// the decimal point on output.
type renderer struct {
	w          *bufio.Writer
	delimiter  string
	priceScale int
	fracDigits int
	datePrefix string
}

func newRenderer(w io.Writer, cfg *entity.OutputConfig, inputName string) *renderer {
	r := &renderer{
		w:          bufio.NewWriter(w),
		delimiter:  cfg.Delimiter,
		priceScale: cfg.PriceScale,
		datePrefix: dateFromFileName(inputName),
	}
	if r.priceScale > 1 {
		r.fracDigits = len(strconv.Itoa(r.priceScale)) - 1
	}
	if *cfg.WithHeader {
		r.line("timestamp", "kind", "locate", "tracking", "optionId", "ref", "side", "size", "price", "aux")
	}
	return r
}

// dateFromFileName extracts the trading date from an 8-digit MMDDYYYY
// prefix of the capture file name, empty when the name carries none.
func dateFromFileName(name string) string {
	m := fileDatePattern.FindStringSubmatch(filepath.Base(name))
	if m == nil {
		return ""
	}
	month, _ := strconv.Atoi(m[1])
	day, _ := strconv.Atoi(m[2])
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return ""
	}
	return fmt.Sprintf("%s-%s-%sT", m[3], m[1], m[2])
}

func (r *renderer) handle(msg *entity.Message) {
	var (
		ts       = r.timestamp(msg.Timestamp)
		kind     = msg.Kind.String()
		locate   = strconv.FormatUint(uint64(msg.Locate), 10)
		tracking = strconv.FormatUint(uint64(msg.Tracking), 10)
	)

	row := func(optionID, ref, side, size, price, aux string) {
		r.line(ts, kind, locate, tracking, optionID, ref, side, size, price, aux)
	}

	switch p := msg.Payload.(type) {
	case *entity.SystemEvent:
		row("", "", "", "", "", string(p.EventCode))
	case *entity.OptionDirectory:
		row(u32(p.OptionID), "", string(p.OptionType), "", r.price(p.StrikePrice),
			fmt.Sprintf("%s/%s %02d-%02d-%02d", p.Symbol, p.UnderlyingSymbol,
				p.ExpirationYear, p.ExpirationMonth, p.ExpirationDay))
	case *entity.TradingAction:
		row(u32(p.OptionID), "", "", "", "", string(p.State))
	case *entity.OptionOpen:
		row(u32(p.OptionID), "", "", "", "", string(p.State))
	case *entity.AddOrderShort:
		row(u32(p.OptionID), u64(p.OrderRef), string(p.Side),
			strconv.FormatUint(uint64(p.Contracts), 10), r.price(uint32(p.Price)), "")
	case *entity.AddOrderLong:
		row(u32(p.OptionID), u64(p.OrderRef), string(p.Side), u32(p.Contracts), r.price(p.Price), "")
	case *entity.AddQuoteShort:
		row(u32(p.OptionID), u64(p.BidRef), "B",
			strconv.FormatUint(uint64(p.BidSize), 10), r.price(uint32(p.BidPrice)), "")
		row(u32(p.OptionID), u64(p.AskRef), "S",
			strconv.FormatUint(uint64(p.AskSize), 10), r.price(uint32(p.AskPrice)), "")
	case *entity.AddQuoteLong:
		row(u32(p.OptionID), u64(p.BidRef), "B", u32(p.BidSize), r.price(p.BidPrice), "")
		row(u32(p.OptionID), u64(p.AskRef), "S", u32(p.AskSize), r.price(p.AskPrice), "")
	case *entity.Executed:
		row("", u64(p.OrderRef), "", u32(p.Contracts), "",
			"cross="+u32(p.CrossNumber)+" match="+u32(p.MatchNumber))
	case *entity.ExecutedWithPrice:
		row("", u64(p.OrderRef), "", u32(p.Volume), r.price(p.Price),
			"cross="+u32(p.CrossNumber)+" match="+u32(p.MatchNumber)+" printable="+string(p.Printable))
	case *entity.OrderCancel:
		row("", u64(p.OrderRef), "", u32(p.Cancelled), "", "")
	case *entity.ReplaceShort:
		row("", u64(p.NewRef), "", strconv.FormatUint(uint64(p.Size), 10),
			r.price(uint32(p.Price)), "orig="+u64(p.OrigRef))
	case *entity.ReplaceLong:
		row("", u64(p.NewRef), "", u32(p.Size), r.price(p.Price), "orig="+u64(p.OrigRef))
	case *entity.SingleSideDelete:
		row("", u64(p.OrderRef), "", "", "", "")
	case *entity.SingleSideUpdate:
		row("", u64(p.OrderRef), "", u32(p.Size), r.price(p.Price), "reason="+string(p.Reason))
	case *entity.QuoteReplaceShort:
		row("", u64(p.NewBidRef), "B", strconv.FormatUint(uint64(p.BidSize), 10),
			r.price(uint32(p.BidPrice)), "orig="+u64(p.OrigBidRef))
		row("", u64(p.NewAskRef), "S", strconv.FormatUint(uint64(p.AskSize), 10),
			r.price(uint32(p.AskPrice)), "orig="+u64(p.OrigAskRef))
	case *entity.QuoteReplaceLong:
		row("", u64(p.NewBidRef), "B", u32(p.BidSize), r.price(p.BidPrice), "orig="+u64(p.OrigBidRef))
		row("", u64(p.NewAskRef), "S", u32(p.AskSize), r.price(p.AskPrice), "orig="+u64(p.OrigAskRef))
	case *entity.QuoteDelete:
		row("", u64(p.BidRef), "B", "", "", "")
		row("", u64(p.AskRef), "S", "", "", "")
	case *entity.CrossTrade:
		row(u32(p.OptionID), "", "", u32(p.Volume), r.price(p.Price),
			"cross="+u32(p.CrossNumber)+" match="+u32(p.MatchNumber)+" type="+string(p.CrossType))
	case *entity.NOII:
		row("", u32(p.AuctionID), string(p.ImbalanceSide), u32(p.ImbalanceContracts),
			r.price(p.ImbalancePrice),
			"type="+string(p.AuctionType)+" paired="+u32(p.PairedContracts))
	}
}

// timestamp renders the nanoseconds-since-midnight field as
// HH:MM:SS.nnnnnnnnn, prefixed with the capture date when one is known.
func (r *renderer) timestamp(ns uint64) string {
	seconds := ns / 1e9
	rem := ns % 1e9
	return fmt.Sprintf("%s%02d:%02d:%02d.%09d",
		r.datePrefix, seconds/3600, (seconds%3600)/60, seconds%60, rem)
}

func (r *renderer) price(v uint32) string {
	if r.fracDigits == 0 {
		return strconv.FormatUint(uint64(v), 10)
	}
	scale := uint32(r.priceScale)
	return fmt.Sprintf("%d.%0*d", v/scale, r.fracDigits, v%scale)
}

func (r *renderer) line(fields ...string) {
	_, _ = r.w.WriteString(strings.Join(fields, r.delimiter))
	_ = r.w.WriteByte('\n')
}

func (r *renderer) flush() error {
	return r.w.Flush()
}

func u32(v uint32) string {
	return strconv.FormatUint(uint64(v), 10)
}

func u64(v uint64) string {
	return strconv.FormatUint(v, 10)
}
