package observability

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/rarebeats/api/internal/platform/requestctx"
)

// Header grammar: TRACE_ID/SPAN_ID;o=TRACE_TRUE where TRACE_ID is 32 hex
// chars and SPAN_ID is hex or a decimal uint64.
const cloudTraceHeader = "X-Cloud-Trace-Context"

var tracer = otel.Tracer("github.com/rarebeats/api/internal/platform/observability")

// TraceMiddleware opens a server span per request, linking it to the caller's
// trace when a Cloud Trace header is present, and echoes the resulting trace
// context back on the response.
func TraceMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if next == nil {
			next = http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			info, remote, linked := decodeTraceHeader(r.Header.Get(cloudTraceHeader))
			if linked {
				ctx = trace.ContextWithRemoteSpanContext(ctx, remote)
			}

			path := r.URL.Path
			if path == "" {
				path = "/"
			}
			ctx, span := tracer.Start(ctx, r.Method+" "+path, trace.WithSpanKind(trace.SpanKindServer))
			defer span.End()
			span.SetAttributes(requestAttributes(r)...)

			sc := span.SpanContext()
			info.TraceID = sc.TraceID().String()
			info.SpanID = sc.SpanID().String()
			info.Sampled = sc.IsSampled()

			if echo := encodeTraceHeader(info); echo != "" {
				w.Header().Set(cloudTraceHeader, echo)
			}

			next.ServeHTTP(w, r.WithContext(requestctx.WithTrace(ctx, info)))
		})
	}
}

func decodeTraceHeader(header string) (requestctx.TraceInfo, trace.SpanContext, bool) {
	traceToken, rest, found := strings.Cut(strings.TrimSpace(header), "/")
	if !found || len(traceToken) != 32 {
		return requestctx.TraceInfo{}, trace.SpanContext{}, false
	}
	traceID, err := trace.TraceIDFromHex(traceToken)
	if err != nil {
		return requestctx.TraceInfo{}, trace.SpanContext{}, false
	}

	spanToken, options, _ := strings.Cut(rest, ";")
	spanID, ok := spanIDFromToken(spanToken)
	if !ok {
		return requestctx.TraceInfo{}, trace.SpanContext{}, false
	}

	sampled := sampledFromOptions(options)
	flags := trace.TraceFlags(0)
	if sampled {
		flags = trace.FlagsSampled
	}

	remote := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: flags,
		Remote:     true,
	})
	info := requestctx.TraceInfo{
		TraceID: traceID.String(),
		SpanID:  spanID.String(),
		Sampled: sampled,
	}
	return info, remote, true
}

// spanIDFromToken accepts both encodings seen in the wild: hex (short forms
// zero-padded to 16 chars) and decimal uint64.
func spanIDFromToken(token string) (trace.SpanID, bool) {
	token = strings.TrimSpace(token)
	if token == "" {
		return trace.SpanID{}, false
	}

	if len(token) <= 16 {
		if _, err := hex.DecodeString(token); err == nil {
			padded := strings.Repeat("0", 16-len(token)) + token
			if spanID, err := trace.SpanIDFromHex(padded); err == nil {
				return spanID, true
			}
		}
	}

	num, err := strconv.ParseUint(token, 10, 64)
	if err != nil {
		return trace.SpanID{}, false
	}
	var spanID trace.SpanID
	binary.BigEndian.PutUint64(spanID[:], num)
	return spanID, spanID.IsValid()
}

func sampledFromOptions(options string) bool {
	for _, segment := range strings.Split(options, ";") {
		if strings.HasPrefix(strings.TrimSpace(segment), "o=") {
			return strings.TrimSpace(segment) == "o=1"
		}
	}
	return false
}

func encodeTraceHeader(info requestctx.TraceInfo) string {
	if info.TraceID == "" || info.SpanID == "" {
		return ""
	}
	sampled := "0"
	if info.Sampled {
		sampled = "1"
	}
	return fmt.Sprintf("%s/%s;o=%s", info.TraceID, info.SpanID, sampled)
}

func requestAttributes(r *http.Request) []attribute.KeyValue {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	attrs := []attribute.KeyValue{
		attribute.String("http.request.method", r.Method),
		attribute.String("url.scheme", scheme),
	}
	if r.URL != nil {
		if path := r.URL.Path; path != "" {
			attrs = append(attrs, attribute.String("url.path", path))
		}
		if target := r.URL.RequestURI(); target != "" {
			attrs = append(attrs, attribute.String("url.full", target))
		}
	}
	if host := r.Host; host != "" {
		attrs = append(attrs, attribute.String("server.address", host))
	}
	if ua := r.UserAgent(); ua != "" {
		attrs = append(attrs, attribute.String("user_agent.original", ua))
	}
	return attrs
}
