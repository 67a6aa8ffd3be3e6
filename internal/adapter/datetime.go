package adapter

import (
	"reflect"
	"strings"
	"sync"
	"time"
	"unsafe"

	jsoniter "github.com/json-iterator/go"
)

// Temporal types. Each is a distinct time.Time so the engine can pick a
// layout and zone policy per type; time.Time itself is handled as a legacy
// calendar date.
//
// The zero time.Time, 0001-01-01T00:00:00 UTC, is the null value of every
// temporal type: it is written as null and null reads back as it. That
// instant, NewLocalDate(1, time.January, 1) for example, has no non-null
// JSON form.
type (
	// Instant is a point on the UTC time line.
	Instant time.Time
	// LocalDate is a date without a zone.
	LocalDate time.Time
	// LocalTime is a time of day without a zone.
	LocalTime time.Time
	// LocalDateTime is a date and time without a zone.
	LocalDateTime time.Time
	// OffsetTime is a time of day with a UTC offset.
	OffsetTime time.Time
	// OffsetDateTime is a date and time with a UTC offset.
	OffsetDateTime time.Time
	// ZonedDateTime is a date and time in a named region.
	ZonedDateTime time.Time
)

func NewLocalDate(year int, month time.Month, day int) LocalDate {
	return LocalDate(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

func NewLocalTime(hour, minute, sec, nsec int) LocalTime {
	return LocalTime(time.Date(0, time.January, 1, hour, minute, sec, nsec, time.UTC))
}

func NewLocalDateTime(year int, month time.Month, day, hour, minute, sec, nsec int) LocalDateTime {
	return LocalDateTime(time.Date(year, month, day, hour, minute, sec, nsec, time.UTC))
}

func NewOffsetTime(hour, minute, sec, nsec int, offset *time.Location) OffsetTime {
	return OffsetTime(time.Date(0, time.January, 1, hour, minute, sec, nsec, offset))
}

func (t Instant) Time() time.Time        { return time.Time(t) }
func (t LocalDate) Time() time.Time      { return time.Time(t) }
func (t LocalTime) Time() time.Time      { return time.Time(t) }
func (t LocalDateTime) Time() time.Time  { return time.Time(t) }
func (t OffsetTime) Time() time.Time     { return time.Time(t) }
func (t OffsetDateTime) Time() time.Time { return time.Time(t) }
func (t ZonedDateTime) Time() time.Time  { return time.Time(t) }

func (t Instant) Equal(u Instant) bool               { return t.Time().Equal(u.Time()) }
func (t OffsetDateTime) Equal(u OffsetDateTime) bool { return t.Time().Equal(u.Time()) }
func (t ZonedDateTime) Equal(u ZonedDateTime) bool   { return t.Time().Equal(u.Time()) }

// Equal compares the two times of day on the UTC clock, ignoring the date.
func (t OffsetTime) Equal(u OffsetTime) bool {
	return clockNanos(t.Time()) == clockNanos(u.Time())
}

func clockNanos(t time.Time) int64 {
	u := t.UTC()
	return int64(u.Hour())*int64(time.Hour) + int64(u.Minute())*int64(time.Minute) +
		int64(u.Second())*int64(time.Second) + int64(u.Nanosecond())
}

// ZoneModifier picks the zone a value is written in, given its own zone.
type ZoneModifier func(*time.Location) *time.Location

var (
	UseOriginalZone ZoneModifier = func(loc *time.Location) *time.Location { return loc }
	ToUTC           ZoneModifier = func(*time.Location) *time.Location { return time.UTC }
)

// ToZone writes every value in loc.
func ToZone(loc *time.Location) ZoneModifier {
	return func(*time.Location) *time.Location { return loc }
}

// TimeFormat is the layout and zone policy of one temporal type. Zone is
// ignored by the local types.
type TimeFormat struct {
	Layout string
	Zone   ZoneModifier
}

type TimeFormats struct {
	Instant        TimeFormat
	LocalDate      TimeFormat
	LocalTime      TimeFormat
	LocalDateTime  TimeFormat
	OffsetTime     TimeFormat
	OffsetDateTime TimeFormat
	ZonedDateTime  TimeFormat
	Date           TimeFormat
}

const (
	LayoutLocalDate     = time.DateOnly
	LayoutLocalTime     = "15:04:05.999999999"
	LayoutLocalDateTime = "2006-01-02T15:04:05.999999999"
	LayoutOffsetTime    = "15:04:05.999999999Z07:00"
)

func DefaultTimeFormats() TimeFormats {
	return TimeFormats{
		Instant:        TimeFormat{Layout: time.RFC3339Nano, Zone: ToUTC},
		LocalDate:      TimeFormat{Layout: LayoutLocalDate},
		LocalTime:      TimeFormat{Layout: LayoutLocalTime},
		LocalDateTime:  TimeFormat{Layout: LayoutLocalDateTime},
		OffsetTime:     TimeFormat{Layout: LayoutOffsetTime, Zone: ToUTC},
		OffsetDateTime: TimeFormat{Layout: time.RFC3339Nano, Zone: ToUTC},
		ZonedDateTime:  TimeFormat{Layout: time.RFC3339Nano, Zone: ToUTC},
		Date:           TimeFormat{Layout: time.RFC3339Nano, Zone: ToUTC},
	}
}

// withDefaults fills every unset layout and zone from DefaultTimeFormats.
func (f TimeFormats) withDefaults() TimeFormats {
	d := DefaultTimeFormats()
	fill := func(dst *TimeFormat, def TimeFormat) {
		if dst.Layout == "" {
			dst.Layout = def.Layout
		}
		if dst.Zone == nil {
			dst.Zone = def.Zone
		}
	}
	fill(&f.Instant, d.Instant)
	fill(&f.LocalDate, d.LocalDate)
	fill(&f.LocalTime, d.LocalTime)
	fill(&f.LocalDateTime, d.LocalDateTime)
	fill(&f.OffsetTime, d.OffsetTime)
	fill(&f.OffsetDateTime, d.OffsetDateTime)
	fill(&f.ZonedDateTime, d.ZonedDateTime)
	fill(&f.Date, d.Date)
	return f
}

type temporalKind int

const (
	kindInstant temporalKind = iota
	kindLocalDate
	kindLocalTime
	kindLocalDateTime
	kindOffsetTime
	kindOffsetDateTime
	kindZonedDateTime
	kindDate
)

var temporalTypes = map[reflect.Type]temporalKind{
	reflect.TypeOf(Instant{}):        kindInstant,
	reflect.TypeOf(LocalDate{}):      kindLocalDate,
	reflect.TypeOf(LocalTime{}):      kindLocalTime,
	reflect.TypeOf(LocalDateTime{}):  kindLocalDateTime,
	reflect.TypeOf(OffsetTime{}):     kindOffsetTime,
	reflect.TypeOf(OffsetDateTime{}): kindOffsetDateTime,
	reflect.TypeOf(ZonedDateTime{}):  kindZonedDateTime,
	reflect.TypeOf(time.Time{}):      kindDate,
}

func (f TimeFormats) of(kind temporalKind) TimeFormat {
	switch kind {
	case kindInstant:
		return f.Instant
	case kindLocalDate:
		return f.LocalDate
	case kindLocalTime:
		return f.LocalTime
	case kindLocalDateTime:
		return f.LocalDateTime
	case kindOffsetTime:
		return f.OffsetTime
	case kindOffsetDateTime:
		return f.OffsetDateTime
	case kindZonedDateTime:
		return f.ZonedDateTime
	default:
		return f.Date
	}
}

// timeCodec reads and writes one temporal type. The zero value travels as
// null in both directions.
type timeCodec struct {
	kind   temporalKind
	layout string
	zone   ZoneModifier
}

func newTimeCodec(kind temporalKind, format TimeFormat) *timeCodec {
	zone := format.Zone
	if zone == nil {
		zone = UseOriginalZone
	}
	return &timeCodec{kind: kind, layout: format.Layout, zone: zone}
}

// All temporal types share time.Time's memory layout.
func (c *timeCodec) IsEmpty(ptr unsafe.Pointer) bool {
	return (*time.Time)(ptr).IsZero()
}

func (c *timeCodec) isNull(ptr unsafe.Pointer) bool { return c.IsEmpty(ptr) }

func (c *timeCodec) Encode(ptr unsafe.Pointer, stream *jsoniter.Stream) {
	t := *(*time.Time)(ptr)
	if t.IsZero() {
		stream.WriteNil()
		return
	}
	stream.WriteString(c.format(t))
}

func (c *timeCodec) Decode(ptr unsafe.Pointer, iter *jsoniter.Iterator) {
	if iter.ReadNil() {
		*(*time.Time)(ptr) = time.Time{}
		return
	}
	if iter.WhatIsNext() != jsoniter.StringValue {
		iter.ReportError("decode time", "expect string or null")
		return
	}
	t, err := c.parse(iter.ReadString())
	if err != nil {
		fail(iter, err)
		return
	}
	*(*time.Time)(ptr) = t
}

func (c *timeCodec) format(t time.Time) string {
	switch c.kind {
	case kindLocalDate, kindLocalTime, kindLocalDateTime:
		return t.Format(c.layout)
	case kindOffsetTime:
		_, offset := time.Now().In(c.zone(t.Location())).Zone()
		return t.In(time.FixedZone("", offset)).Format(c.layout)
	case kindZonedDateTime:
		t = t.In(c.zone(t.Location()))
		if region := regionName(t.Location()); region != "" {
			return t.Format(c.layout) + "[" + region + "]"
		}
		return t.Format(c.layout)
	default:
		return t.In(c.zone(t.Location())).Format(c.layout)
	}
}

func (c *timeCodec) parse(s string) (time.Time, error) {
	switch c.kind {
	case kindLocalDate, kindLocalTime, kindLocalDateTime:
		return time.ParseInLocation(c.layout, s, time.UTC)
	case kindInstant:
		t, err := time.Parse(c.layout, s)
		return t.UTC(), err
	case kindDate:
		t, err := time.Parse(c.layout, s)
		if err != nil {
			return time.Time{}, err
		}
		return t.In(time.Local), nil
	case kindZonedDateTime:
		var loc *time.Location
		if i := strings.LastIndexByte(s, '['); i > 0 && strings.HasSuffix(s, "]") {
			l, err := time.LoadLocation(s[i+1 : len(s)-1])
			if err != nil {
				return time.Time{}, err
			}
			s, loc = s[:i], l
		}
		t, err := time.Parse(c.layout, s)
		if err != nil || loc == nil {
			return t, err
		}
		return t.In(loc), nil
	default:
		return time.Parse(c.layout, s)
	}
}

var regions sync.Map // location name -> bool

// regionName reports the IANA name worth appending to a zoned value.
func regionName(loc *time.Location) string {
	name := loc.String()
	switch name {
	case "", "UTC", "Local":
		return ""
	}
	known, ok := regions.Load(name)
	if !ok {
		_, err := time.LoadLocation(name)
		known, _ = regions.LoadOrStore(name, err == nil)
	}
	if !known.(bool) {
		return ""
	}
	return name
}
