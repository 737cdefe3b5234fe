package asn1

import (
	"strconv"
	"strings"
	"time"
	"unsafe"

	"asn1codec.dev/asn1/constraint"
)

//region [UNIVERSAL 14] TIME / [UNIVERSAL 23] UTCTime

// UTCTime represents the corresponding ASN.1 type. Only dates between 1950
// and 2049 can be represented by this type (§3 "two-digit year, X.680 §11.8
// pivot at 50").
//
// See also section 47 of Rec. ITU-T X.680.
type UTCTime time.Time

// IsValid reports whether the year of t is between 1950 and 2049.
func (t UTCTime) IsValid() bool {
	year := time.Time(t).Year()
	return year >= 1950 && year < 2050
}

// String returns the time of t in the format YYMMDDhhmmssZ or
// YYMMDDhhmmss+hhmm.
func (t UTCTime) String() string {
	tt := time.Time(t)
	b := strings.Builder{}
	b.Grow(17)
	b.WriteString(itoaN(tt.Year()%100, 2))
	b.WriteString(itoaN(tt.Month(), 2))
	b.WriteString(itoaN(tt.Day(), 2))
	b.WriteString(itoaN(tt.Hour(), 2))
	b.WriteString(itoaN(tt.Minute(), 2))
	b.WriteString(itoaN(tt.Second(), 2))
	_, offset := tt.Zone()
	offset /= 60
	if offset == 0 {
		b.WriteByte('Z')
		return b.String()
	}
	if offset < 0 {
		b.WriteByte('-')
	} else {
		b.WriteByte('+')
	}
	b.WriteString(itoaN(offset/60, 2))
	b.WriteString(itoaN(offset%60, 2))
	return b.String()
}

func (UTCTime) Tag() Tag { return TagUTCTime }

func (UTCTime) TagTree() TagTree { return Leaf(TagUTCTime) }

func (UTCTime) Constraints() constraint.Set { return constraint.None }

func (UTCTime) Identifier() string { return "UTCTime" }

func (t UTCTime) EncodeWithTagAndConstraints(enc Encoder, tag Tag, c constraint.Set, _ string) error {
	return enc.EncodeUTCTime(tag, c, time.Time(t))
}

func (t *UTCTime) DecodeWithTagAndConstraints(dec Decoder, tag Tag, c constraint.Set, _ string) error {
	v, err := dec.DecodeUTCTime(tag, c)
	if err != nil {
		return err
	}
	*t = UTCTime(v)
	return nil
}

// itoaN returns the base 10 string representation of the absolute value of
// i, truncated or zero padded to exactly n digits.
func itoaN[T ~int](i T, n int) string {
	if i < 0 {
		i = -i
	}
	bs := make([]byte, n)
	for ; n > 0; n-- {
		bs[n-1] = '0' + byte(i%10)
		i /= 10
	}
	return unsafe.String(unsafe.SliceData(bs), len(bs))
}

//endregion

//region [UNIVERSAL 24] GeneralizedTime

// GeneralizedTime represents the corresponding ASN.1 type. This type can
// represent dates between years 1 and 9999.
//
// See also section 46 of Rec. ITU-T X.680.
type GeneralizedTime time.Time

// IsValid reports whether the year of t is between 1 and 9999.
func (t GeneralizedTime) IsValid() bool {
	year := time.Time(t).Year()
	return year >= 1 && year <= 9999
}

// String returns a string representation of t that matches its
// representation in ASN.1 notation.
func (t GeneralizedTime) String() string {
	tt := time.Time(t)
	b := strings.Builder{}
	b.Grow(29) // allocate enough space for nanosecond precision
	b.WriteString(itoaN(tt.Year()%10000, 4))
	b.WriteString(itoaN(tt.Month(), 2))
	b.WriteString(itoaN(tt.Day(), 2))
	b.WriteString(itoaN(tt.Hour(), 2))
	b.WriteString(itoaN(tt.Minute(), 2))
	b.WriteString(itoaN(tt.Second(), 2))
	if tt.Nanosecond() > 0 {
		s := strconv.FormatFloat(float64(tt.Nanosecond())/float64(time.Second), 'f', -1, 64)
		b.WriteString(s[1:])
	}
	if tt.Location() == time.Local {
		return b.String()
	}
	_, offset := tt.Zone()
	offset /= 60
	if offset == 0 {
		b.WriteByte('Z')
		return b.String()
	}
	if offset < 0 {
		b.WriteByte('-')
	} else {
		b.WriteByte('+')
	}
	b.WriteString(itoaN(offset/60, 2))
	b.WriteString(itoaN(offset%60, 2))
	return b.String()
}

func (GeneralizedTime) Tag() Tag { return TagGeneralizedTime }

func (GeneralizedTime) TagTree() TagTree { return Leaf(TagGeneralizedTime) }

func (GeneralizedTime) Constraints() constraint.Set { return constraint.None }

func (GeneralizedTime) Identifier() string { return "GeneralizedTime" }

func (t GeneralizedTime) EncodeWithTagAndConstraints(enc Encoder, tag Tag, c constraint.Set, _ string) error {
	return enc.EncodeGeneralizedTime(tag, c, time.Time(t))
}

func (t *GeneralizedTime) DecodeWithTagAndConstraints(dec Decoder, tag Tag, c constraint.Set, _ string) error {
	v, err := dec.DecodeGeneralizedTime(tag, c)
	if err != nil {
		return err
	}
	*t = GeneralizedTime(v)
	return nil
}

//endregion

//region [UNIVERSAL 14] TIME

// Time represents the abstract ASN.1 TIME type. This type can only hold a
// subset of valid ASN.1 TIME values, namely those that can be represented by
// a time instant; in particular recurrences or intervals are not supported.
// TIME itself has no dedicated Encoder/Decoder operation (applications
// instead pick one of its component forms - [GeneralizedTime], [UTCTime],
// [Date], [TimeOfDay], [DateTime] - each of which does), so Time is kept
// solely for its String() application-level convenience.
//
// See also section 38 of Rec. ITU-T X.680.
type Time time.Time

// String returns an ISO 8601 compatible representation of t.
func (t Time) String() string {
	tt := time.Time(t)
	b := strings.Builder{}
	b.Grow(34) // allocate enough space for nanosecond precision
	b.WriteString(itoaN(tt.Year(), 4))
	b.WriteByte('-')
	b.WriteString(itoaN(tt.Month(), 2))
	b.WriteByte('-')
	b.WriteString(itoaN(tt.Day(), 2))
	b.WriteByte('T')
	b.WriteString(itoaN(tt.Hour(), 2))
	b.WriteByte(':')
	b.WriteString(itoaN(tt.Minute(), 2))
	b.WriteByte(':')
	b.WriteString(itoaN(tt.Second(), 2))
	if tt.Nanosecond() > 0 {
		s := strconv.FormatFloat(float64(tt.Nanosecond())/float64(time.Second), 'f', -1, 64)
		b.WriteString(s[1:])
	}
	if tt.Location() == time.Local {
		return b.String()
	}
	_, offset := tt.Zone()
	offset /= 60
	if offset == 0 {
		b.WriteByte('Z')
		return b.String()
	}
	if offset < 0 {
		b.WriteByte('-')
	} else {
		b.WriteByte('+')
	}
	b.WriteString(itoaN(offset/60, 2))
	b.WriteByte(':')
	b.WriteString(itoaN(offset%60, 2))
	return b.String()
}

//endregion

//region [UNIVERSAL 31] DATE

// Date represents the ASN.1 DATE type. The value must not contain time or
// location information. DATE has no dedicated Encoder/Decoder operation in
// this implementation (§2's module list omits it); applications needing it
// on the wire can carry it through [RawValue] or as a constrained
// VisibleString, so Date here is kept solely for its String()/IsValid()
// application-level convenience.
//
// See also section 38 of Rec. ITU-T X.680.
type Date time.Time

// IsValid reports whether t only contains date information.
func (t Date) IsValid() bool {
	tt := time.Time(t)
	return tt.Hour() == 0 && tt.Minute() == 0 && tt.Second() == 0 && tt.Nanosecond() == 0 && tt.Location() == time.Local
}

func (d Date) String() string {
	tt := time.Time(d)
	b := strings.Builder{}
	b.Grow(10)
	b.WriteString(itoaN(tt.Year()%10000, 4))
	b.WriteByte('-')
	b.WriteString(itoaN(tt.Month(), 2))
	b.WriteByte('-')
	b.WriteString(itoaN(tt.Day(), 2))
	return b.String()
}

//endregion

//region [UNIVERSAL 32] TIME-OF-DAY

// TimeOfDay represents the ASN.1 TIME-OF-DAY type. See [Date] for why it
// carries no wire Encode/Decode capability.
type TimeOfDay time.Time

// IsValid reports whether t only contains time data.
func (t TimeOfDay) IsValid() bool {
	tt := time.Time(t)
	return tt.Year() == 1 && tt.Month() == 1 && tt.Day() == 1 && tt.Location() == time.Local
}

// String returns the ASN.1 notation of t.
func (t TimeOfDay) String() string {
	tt := time.Time(t)
	b := strings.Builder{}
	b.Grow(8)
	b.WriteString(itoaN(tt.Hour(), 2))
	b.WriteByte(':')
	b.WriteString(itoaN(tt.Minute(), 2))
	b.WriteByte(':')
	b.WriteString(itoaN(tt.Second(), 2))
	return b.String()
}

//endregion

//region [UNIVERSAL 33] DATE-TIME

// DateTime represents the ASN.1 DATE-TIME type. See [Date] for why it
// carries no wire Encode/Decode capability.
type DateTime time.Time

// IsValid reports whether t contains only date and time information.
func (t DateTime) IsValid() bool {
	tt := time.Time(t)
	return tt.Location() == time.Local
}

// String returns the ASN.1 notation of t.
func (t DateTime) String() string {
	tt := time.Time(t)
	b := strings.Builder{}
	b.Grow(19)
	b.WriteString(itoaN(tt.Year()%10000, 4))
	b.WriteByte('-')
	b.WriteString(itoaN(tt.Month(), 2))
	b.WriteByte('-')
	b.WriteString(itoaN(tt.Day(), 2))
	b.WriteByte('T')
	b.WriteString(itoaN(tt.Hour(), 2))
	b.WriteByte(':')
	b.WriteString(itoaN(tt.Minute(), 2))
	b.WriteByte(':')
	b.WriteString(itoaN(tt.Second(), 2))
	return b.String()
}

//endregion

//region [UNIVERSAL 34] DURATION

// Duration represents the ASN.1 DURATION type. Only durations that can be
// represented as a [time.Duration] are valid, i.e. durations cannot use
// units above hours. See [Date] for why it carries no wire Encode/Decode
// capability.
type Duration time.Duration

// String returns the ASN.1 notation of d.
func (d Duration) String() string {
	b := strings.Builder{}
	dd := time.Duration(d)
	if dd == 0 {
		return "PT0S"
	} else if dd < 0 {
		b.WriteString("-PT")
		dd = -dd
	} else {
		b.WriteString("PT")
	}
	h := int64(dd.Hours())
	if h != 0 {
		b.WriteString(strconv.FormatInt(h, 10))
		b.WriteByte('H')
		dd -= time.Duration(h) * time.Hour
	}
	b.Grow(16)
	m := int64(dd.Minutes())
	if m != 0 {
		b.WriteString(strconv.FormatInt(m, 10))
		b.WriteByte('M')
		dd -= time.Duration(m) * time.Minute
	}
	s := int64(dd.Seconds())
	if s != 0 {
		b.WriteString(strconv.FormatInt(s, 10))
		dd -= time.Duration(s) * time.Second
		if dd > 0 {
			s := strconv.FormatFloat(dd.Seconds(), 'f', -1, 64)
			b.WriteString(s[1:])
		}
		b.WriteByte('S')
	}
	return b.String()
}

//endregion
