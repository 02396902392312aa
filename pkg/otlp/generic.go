package otlp

import "strconv"

// genericValue mirrors an OTLP AnyValue's four scalar variants, regardless
// of whether it arrived as protobuf or JSON. Exactly one field is expected
// to be non-nil on a value actually populated by either codec.
type genericValue struct {
	Str    *string
	Int    *int64
	Double *float64
	Bool   *bool
}

// String renders the value to its canonical string form, string > int >
// double > bool, the first populated variant winning.
func (v genericValue) String() (string, bool) {
	switch {
	case v.Str != nil:
		return *v.Str, true
	case v.Int != nil:
		return strconv.FormatInt(*v.Int, 10), true
	case v.Double != nil:
		return strconv.FormatFloat(*v.Double, 'g', -1, 64), true
	case v.Bool != nil:
		if *v.Bool {
			return "true", true
		}
		return "false", true
	default:
		return "", false
	}
}

// AsInt truncates the value to an integer, accepting either an int or a
// double payload; used for counters that may arrive as either.
func (v genericValue) AsInt() (int64, bool) {
	switch {
	case v.Int != nil:
		return *v.Int, true
	case v.Double != nil:
		return int64(*v.Double), true
	default:
		return 0, false
	}
}

// AsFloat accepts either a double or int payload as a float64.
func (v genericValue) AsFloat() (float64, bool) {
	switch {
	case v.Double != nil:
		return *v.Double, true
	case v.Int != nil:
		return float64(*v.Int), true
	default:
		return 0, false
	}
}

type genericKV struct {
	Key   string
	Value genericValue
}

func flattenAttrs(kvs []genericKV) map[string]string {
	m := make(map[string]string, len(kvs))
	for _, kv := range kvs {
		if s, ok := kv.Value.String(); ok {
			m[kv.Key] = s
		}
	}
	return m
}

func lookupAttr(kvs []genericKV, key string) (genericValue, bool) {
	for _, kv := range kvs {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return genericValue{}, false
}

type genericDataPoint struct {
	Attrs        []genericKV
	AsIntValue   *int64
	AsDouble     *float64
	TimeUnixNano uint64
}

// numericValue returns the datapoint's value as both an int (truncating a
// double if present) and as a float, in the priority int-then-double that
// the metric projection rules use.
func (dp genericDataPoint) numericValue() (asInt int64, asFloat float64, ok bool) {
	switch {
	case dp.AsIntValue != nil:
		return *dp.AsIntValue, float64(*dp.AsIntValue), true
	case dp.AsDouble != nil:
		return int64(*dp.AsDouble), *dp.AsDouble, true
	default:
		return 0, 0, false
	}
}

type genericMetric struct {
	Name       string
	DataPoints []genericDataPoint
}

type genericLogRecord struct {
	TimeUnixNano uint64
	Body         *genericValue
	Attrs        []genericKV
}
