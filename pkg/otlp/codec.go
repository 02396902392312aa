package otlp

import (
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/protobuf/proto"

	collogpb "go.opentelemetry.io/proto/otlp/collector/logs/v1"
	colmetricpb "go.opentelemetry.io/proto/otlp/collector/metrics/v1"

	"github.com/agenttop/agenttop/pkg/provider"
)

// ParseMetrics decodes an OTLP ExportMetricsServiceRequest body — protobuf
// first, JSON as a fallback — and projects its datapoints into ParsedMetric
// values using reg to recognize each metric's provider prefix. It never
// returns an error: a payload that is neither valid protobuf nor valid JSON
// yields an empty slice and a logged warning.
func ParseMetrics(body []byte, reg *provider.Registry) []ParsedMetric {
	metrics, ok := decodeMetrics(body)
	if !ok {
		slog.Warn("otlp: metrics payload did not decode as protobuf or JSON", "bytes", len(body))
		return nil
	}
	return projectMetrics(metrics, reg)
}

// ParseLogs decodes an OTLP ExportLogsServiceRequest body the same way and
// projects every record into a LogEvent, unfiltered.
func ParseLogs(body []byte) []LogEvent {
	records, ok := decodeLogs(body)
	if !ok {
		slog.Warn("otlp: logs payload did not decode as protobuf or JSON", "bytes", len(body))
		return nil
	}
	return projectLogs(records)
}

func decodeMetrics(body []byte) ([]genericMetric, bool) {
	var pbReq colmetricpb.ExportMetricsServiceRequest
	if err := proto.Unmarshal(body, &pbReq); err == nil {
		return protoMetricsToGeneric(&pbReq), true
	}
	var jsonReq jsonMetricsRequest
	if err := json.Unmarshal(body, &jsonReq); err == nil {
		return jsonReq.toGeneric(), true
	}
	return nil, false
}

func decodeLogs(body []byte) ([]genericLogRecord, bool) {
	var pbReq collogpb.ExportLogsServiceRequest
	if err := proto.Unmarshal(body, &pbReq); err == nil {
		return protoLogsToGeneric(&pbReq), true
	}
	var jsonReq jsonLogsRequest
	if err := json.Unmarshal(body, &jsonReq); err == nil {
		return jsonReq.toGeneric(), true
	}
	return nil, false
}

func projectMetrics(metrics []genericMetric, reg *provider.Registry) []ParsedMetric {
	var out []ParsedMetric
	for _, m := range metrics {
		prov, ok := reg.DetectFromMetric(m.Name)
		if !ok {
			continue
		}
		prefix := prov.MetricPrefix()
		for _, dp := range m.DataPoints {
			switch {
			case m.Name == prefix+".token.usage":
				tokenType := "unknown"
				if v, ok := lookupAttr(dp.Attrs, "type"); ok {
					if s, ok := v.String(); ok {
						tokenType = s
					}
				}
				asInt, _, ok := dp.numericValue()
				if !ok {
					continue
				}
				out = append(out, ParsedMetric{Kind: MetricTokenUsage, TokenType: tokenType, Count: uint64(asInt)})
			case m.Name == prefix+".cost.usage":
				_, asFloat, ok := dp.numericValue()
				if !ok {
					continue
				}
				out = append(out, ParsedMetric{Kind: MetricCostUsage, CostUSD: asFloat})
			case strings.HasPrefix(m.Name, prefix+"."):
				name := strings.TrimPrefix(m.Name, prefix+".")
				name = strings.TrimSuffix(name, ".count")
				name = strings.TrimSuffix(name, ".total")
				asInt, _, ok := dp.numericValue()
				if !ok {
					continue
				}
				out = append(out, ParsedMetric{Kind: MetricSessionMetric, Name: name, Value: asInt})
			}
		}
	}
	return out
}

func projectLogs(records []genericLogRecord) []LogEvent {
	out := make([]LogEvent, 0, len(records))
	for _, r := range records {
		attrs := flattenAttrs(r.Attrs)

		eventName := ""
		if v, ok := attrs["event.name"]; ok {
			eventName = v
		}

		body := ""
		if r.Body != nil {
			if s, ok := r.Body.String(); ok {
				body = s
			}
		}

		ts := time.Now().UTC()
		if r.TimeUnixNano != 0 {
			ts = time.Unix(0, int64(r.TimeUnixNano)).UTC()
		}

		out = append(out, LogEvent{
			Timestamp:  ts,
			EventName:  eventName,
			Body:       body,
			Attributes: attrs,
		})
	}
	return out
}
