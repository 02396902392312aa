package otlp

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// jsonInt64 accepts an OTLP-JSON 64-bit integer encoded as either a JSON
// number or a numeric string (the latter is how the OTLP JSON mapping
// avoids float64 precision loss for int64/uint64 fields).
type jsonInt64 int64

func (j *jsonInt64) UnmarshalJSON(data []byte) error {
	var n int64
	if err := json.Unmarshal(data, &n); err == nil {
		*j = jsonInt64(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("jsonInt64: not a number or string: %s", data)
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("jsonInt64: malformed numeric string %q: %w", s, err)
	}
	*j = jsonInt64(n)
	return nil
}

type jsonUint64 uint64

func (j *jsonUint64) UnmarshalJSON(data []byte) error {
	var n uint64
	if err := json.Unmarshal(data, &n); err == nil {
		*j = jsonUint64(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("jsonUint64: not a number or string: %s", data)
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return fmt.Errorf("jsonUint64: malformed numeric string %q: %w", s, err)
	}
	*j = jsonUint64(n)
	return nil
}

type jsonAnyValue struct {
	StringValue *string     `json:"stringValue,omitempty"`
	IntValue    *jsonInt64  `json:"intValue,omitempty"`
	DoubleValue *float64    `json:"doubleValue,omitempty"`
	BoolValue   *bool       `json:"boolValue,omitempty"`
}

func (v jsonAnyValue) toGeneric() genericValue {
	g := genericValue{Str: v.StringValue, Double: v.DoubleValue, Bool: v.BoolValue}
	if v.IntValue != nil {
		n := int64(*v.IntValue)
		g.Int = &n
	}
	return g
}

type jsonKeyValue struct {
	Key   string       `json:"key"`
	Value jsonAnyValue `json:"value"`
}

func toGenericKVs(kvs []jsonKeyValue) []genericKV {
	out := make([]genericKV, 0, len(kvs))
	for _, kv := range kvs {
		out = append(out, genericKV{Key: kv.Key, Value: kv.Value.toGeneric()})
	}
	return out
}

type jsonNumberDataPoint struct {
	Attributes   []jsonKeyValue `json:"attributes"`
	TimeUnixNano *jsonUint64    `json:"timeUnixNano,omitempty"`
	AsInt        *jsonInt64     `json:"asInt,omitempty"`
	AsDouble     *float64       `json:"asDouble,omitempty"`
}

func (dp jsonNumberDataPoint) toGeneric() genericDataPoint {
	g := genericDataPoint{Attrs: toGenericKVs(dp.Attributes), AsDouble: dp.AsDouble}
	if dp.AsInt != nil {
		n := int64(*dp.AsInt)
		g.AsIntValue = &n
	}
	if dp.TimeUnixNano != nil {
		g.TimeUnixNano = uint64(*dp.TimeUnixNano)
	}
	return g
}

type jsonDataPoints struct {
	DataPoints []jsonNumberDataPoint `json:"dataPoints"`
}

type jsonMetric struct {
	Name  string          `json:"name"`
	Sum   *jsonDataPoints `json:"sum,omitempty"`
	Gauge *jsonDataPoints `json:"gauge,omitempty"`
}

func (m jsonMetric) toGeneric() genericMetric {
	g := genericMetric{Name: m.Name}
	if m.Sum != nil {
		for _, dp := range m.Sum.DataPoints {
			g.DataPoints = append(g.DataPoints, dp.toGeneric())
		}
	}
	if m.Gauge != nil {
		for _, dp := range m.Gauge.DataPoints {
			g.DataPoints = append(g.DataPoints, dp.toGeneric())
		}
	}
	return g
}

type jsonScopeMetrics struct {
	Metrics []jsonMetric `json:"metrics"`
}

type jsonResourceMetrics struct {
	ScopeMetrics []jsonScopeMetrics `json:"scopeMetrics"`
}

type jsonMetricsRequest struct {
	ResourceMetrics []jsonResourceMetrics `json:"resourceMetrics"`
}

func (r jsonMetricsRequest) toGeneric() []genericMetric {
	var out []genericMetric
	for _, rm := range r.ResourceMetrics {
		for _, sm := range rm.ScopeMetrics {
			for _, m := range sm.Metrics {
				out = append(out, m.toGeneric())
			}
		}
	}
	return out
}

type jsonLogRecord struct {
	TimeUnixNano *jsonUint64    `json:"timeUnixNano,omitempty"`
	Body         *jsonAnyValue  `json:"body,omitempty"`
	Attributes   []jsonKeyValue `json:"attributes"`
}

func (r jsonLogRecord) toGeneric() genericLogRecord {
	g := genericLogRecord{Attrs: toGenericKVs(r.Attributes)}
	if r.TimeUnixNano != nil {
		g.TimeUnixNano = uint64(*r.TimeUnixNano)
	}
	if r.Body != nil {
		v := r.Body.toGeneric()
		g.Body = &v
	}
	return g
}

type jsonScopeLogs struct {
	LogRecords []jsonLogRecord `json:"logRecords"`
}

type jsonResourceLogs struct {
	ScopeLogs []jsonScopeLogs `json:"scopeLogs"`
}

type jsonLogsRequest struct {
	ResourceLogs []jsonResourceLogs `json:"resourceLogs"`
}

func (r jsonLogsRequest) toGeneric() []genericLogRecord {
	var out []genericLogRecord
	for _, rl := range r.ResourceLogs {
		for _, sl := range rl.ScopeLogs {
			for _, lr := range sl.LogRecords {
				out = append(out, lr.toGeneric())
			}
		}
	}
	return out
}
