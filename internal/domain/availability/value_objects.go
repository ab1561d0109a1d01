package availability

import (
	"bytes"
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

const DateLayout = "2006-01-02"

var (
	ErrInvalidMoney = errors.New("invalid money amount")
	ErrInvalidDate  = errors.New("invalid date")
	ErrEmptyRange   = errors.New("range must contain at least one day")
)

// Money is an amount in the property currency, kept as a decimal so that
// splitting and discounting never accumulate float error.
type Money struct {
	amount decimal.Decimal
}

func NewMoney(amount decimal.Decimal) Money {
	return Money{amount: amount}
}

func MoneyFromFloat(f float64) Money {
	return Money{amount: decimal.NewFromFloat(f)}
}

func MoneyFromInt(i int64) Money {
	return Money{amount: decimal.NewFromInt(i)}
}

func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, ErrInvalidMoney
	}
	return Money{amount: d}, nil
}

func Zero() Money {
	return Money{amount: decimal.Zero}
}

func (m Money) Decimal() decimal.Decimal { return m.amount }
func (m Money) Add(o Money) Money        { return Money{amount: m.amount.Add(o.amount)} }
func (m Money) Sub(o Money) Money        { return Money{amount: m.amount.Sub(o.amount)} }
func (m Money) Mul(n int) Money          { return Money{amount: m.amount.Mul(decimal.NewFromInt(int64(n)))} }
func (m Money) IsPositive() bool         { return m.amount.IsPositive() }
func (m Money) IsZero() bool             { return m.amount.IsZero() }
func (m Money) Cmp(o Money) int          { return m.amount.Cmp(o.amount) }
func (m Money) Equal(o Money) bool       { return m.amount.Equal(o.amount) }
func (m Money) String() string           { return m.amount.StringFixed(2) }
func (m Money) Float64() float64         { return m.amount.InexactFloat64() }

// Div splits the amount into n equal parts, rounded to cents.
func (m Money) Div(n int) Money {
	if n <= 0 {
		return m
	}
	return Money{amount: m.amount.Div(decimal.NewFromInt(int64(n))).Round(2)}
}

// Percent returns p percent of the amount, rounded to cents.
func (m Money) Percent(p float64) Money {
	return Money{amount: m.amount.Mul(decimal.NewFromFloat(p)).Div(decimal.NewFromInt(100)).Round(2)}
}

func (m Money) Round() Money {
	return Money{amount: m.amount.Round(2)}
}

func (m Money) FloorAtZero() Money {
	if m.amount.IsNegative() {
		return Zero()
	}
	return m
}

func MaxMoney(a, b Money) Money {
	if a.Cmp(b) >= 0 {
		return a
	}
	return b
}

// MarshalJSON writes the exact amount. Rounding for display happens in String.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.amount.String())
}

func (m *Money) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return ErrInvalidMoney
	}
	m.amount = d
	return nil
}

// OptionalPrice is a nightly price that may be unresolved. A resolved price
// is always strictly positive.
type OptionalPrice struct {
	value    Money
	resolved bool
}

// PriceOf resolves to m only when m is positive; a zero or negative upstream
// figure is treated as "no price".
func PriceOf(m Money) OptionalPrice {
	if !m.IsPositive() {
		return OptionalPrice{}
	}
	return OptionalPrice{value: m, resolved: true}
}

func NoPrice() OptionalPrice {
	return OptionalPrice{}
}

func (p OptionalPrice) Get() (Money, bool) {
	return p.value, p.resolved
}

func (p OptionalPrice) IsResolved() bool {
	return p.resolved
}

func (p OptionalPrice) MarshalJSON() ([]byte, error) {
	if !p.resolved {
		return []byte("null"), nil
	}
	return p.value.MarshalJSON()
}

func (p *OptionalPrice) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*p = OptionalPrice{}
		return nil
	}
	var m Money
	if err := m.UnmarshalJSON(data); err != nil {
		return err
	}
	*p = PriceOf(m)
	return nil
}

// DateOf truncates t to its calendar day, expressed in UTC.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func ParseDate(s string) (time.Time, error) {
	if len(s) > len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// DateRange is the half-open day interval [From, To).
type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

func NewDateRange(from, to time.Time) (DateRange, error) {
	from, to = DateOf(from), DateOf(to)
	if !from.Before(to) {
		return DateRange{}, ErrEmptyRange
	}
	return DateRange{From: from, To: to}, nil
}

func ParseDateRange(from, to string) (DateRange, error) {
	f, err := ParseDate(from)
	if err != nil {
		return DateRange{}, err
	}
	t, err := ParseDate(to)
	if err != nil {
		return DateRange{}, err
	}
	return NewDateRange(f, t)
}

func (r DateRange) Nights() int {
	return int(r.To.Sub(r.From).Hours() / 24)
}

func (r DateRange) Days() []time.Time {
	days := make([]time.Time, 0, r.Nights())
	for d := r.From; d.Before(r.To); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

func (r DateRange) Contains(day time.Time) bool {
	day = DateOf(day)
	return !day.Before(r.From) && day.Before(r.To)
}

func (r DateRange) String() string {
	return FormatDate(r.From) + ".." + FormatDate(r.To)
}
