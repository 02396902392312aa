package otlp

import (
	commonpb "go.opentelemetry.io/proto/otlp/common/v1"
	collogpb "go.opentelemetry.io/proto/otlp/collector/logs/v1"
	colmetricpb "go.opentelemetry.io/proto/otlp/collector/metrics/v1"
	logpb "go.opentelemetry.io/proto/otlp/logs/v1"
	metricpb "go.opentelemetry.io/proto/otlp/metrics/v1"
)

func protoAnyValueToGeneric(v *commonpb.AnyValue) genericValue {
	if v == nil {
		return genericValue{}
	}
	switch val := v.Value.(type) {
	case *commonpb.AnyValue_StringValue:
		s := val.StringValue
		return genericValue{Str: &s}
	case *commonpb.AnyValue_IntValue:
		n := val.IntValue
		return genericValue{Int: &n}
	case *commonpb.AnyValue_DoubleValue:
		d := val.DoubleValue
		return genericValue{Double: &d}
	case *commonpb.AnyValue_BoolValue:
		b := val.BoolValue
		return genericValue{Bool: &b}
	default:
		return genericValue{}
	}
}

func protoKVsToGeneric(kvs []*commonpb.KeyValue) []genericKV {
	out := make([]genericKV, 0, len(kvs))
	for _, kv := range kvs {
		if kv == nil {
			continue
		}
		out = append(out, genericKV{Key: kv.Key, Value: protoAnyValueToGeneric(kv.Value)})
	}
	return out
}

func protoDataPointToGeneric(dp *metricpb.NumberDataPoint) genericDataPoint {
	g := genericDataPoint{
		Attrs:        protoKVsToGeneric(dp.Attributes),
		TimeUnixNano: dp.TimeUnixNano,
	}
	switch val := dp.Value.(type) {
	case *metricpb.NumberDataPoint_AsInt:
		n := val.AsInt
		g.AsIntValue = &n
	case *metricpb.NumberDataPoint_AsDouble:
		d := val.AsDouble
		g.AsDouble = &d
	}
	return g
}

func protoMetricToGeneric(m *metricpb.Metric) genericMetric {
	g := genericMetric{Name: m.Name}
	switch data := m.Data.(type) {
	case *metricpb.Metric_Sum:
		if data.Sum != nil {
			for _, dp := range data.Sum.DataPoints {
				g.DataPoints = append(g.DataPoints, protoDataPointToGeneric(dp))
			}
		}
	case *metricpb.Metric_Gauge:
		if data.Gauge != nil {
			for _, dp := range data.Gauge.DataPoints {
				g.DataPoints = append(g.DataPoints, protoDataPointToGeneric(dp))
			}
		}
	}
	return g
}

func protoMetricsToGeneric(req *colmetricpb.ExportMetricsServiceRequest) []genericMetric {
	var out []genericMetric
	for _, rm := range req.ResourceMetrics {
		if rm == nil {
			continue
		}
		for _, sm := range rm.ScopeMetrics {
			if sm == nil {
				continue
			}
			for _, m := range sm.Metrics {
				if m == nil {
					continue
				}
				out = append(out, protoMetricToGeneric(m))
			}
		}
	}
	return out
}

func protoLogRecordToGeneric(lr *logpb.LogRecord) genericLogRecord {
	g := genericLogRecord{
		TimeUnixNano: lr.TimeUnixNano,
		Attrs:        protoKVsToGeneric(lr.Attributes),
	}
	if lr.Body != nil {
		v := protoAnyValueToGeneric(lr.Body)
		g.Body = &v
	}
	return g
}

func protoLogsToGeneric(req *collogpb.ExportLogsServiceRequest) []genericLogRecord {
	var out []genericLogRecord
	for _, rl := range req.ResourceLogs {
		if rl == nil {
			continue
		}
		for _, sl := range rl.ScopeLogs {
			if sl == nil {
				continue
			}
			for _, lr := range sl.LogRecords {
				if lr == nil {
					continue
				}
				out = append(out, protoLogRecordToGeneric(lr))
			}
		}
	}
	return out
}
