package currency

import (
	"strconv"
	"strings"
)

// FormatBTC renders a satoshi amount as a BTC string with up to eight
// decimals, trailing zeros stripped. A zero amount renders as "0", never an
// empty string.
func FormatBTC(sat int64) string {
	if sat == 0 {
		return "0"
	}
	neg := sat < 0
	if neg {
		sat = -sat
	}
	whole := sat / SatoshiPerBTC
	frac := sat % SatoshiPerBTC

	s := strconv.FormatInt(whole, 10)
	if frac > 0 {
		f := strings.TrimRight(padLeft(strconv.FormatInt(frac, 10), BTCDecimals), "0")
		s = s + "." + f
	}
	if neg {
		s = "-" + s
	}
	return s
}

// FormatFiat renders a whole-unit fiat amount with thousands separators and
// no fractional part.
func FormatFiat(unit int64) string {
	neg := unit < 0
	if neg {
		unit = -unit
	}
	s := strconv.FormatInt(unit, 10)
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

func padLeft(s string, width int) string {
	for len(s) < width {
		s = "0" + s
	}
	return s
}
