package observability

import (
	"bytes"
	"context"
	stderrors "errors"
	"strings"
	"testing"

	"go.opentelemetry.io/otel/attribute"
)

func TestSpansWithoutProviderAreNoops(t *testing.T) {
	_, span := StartSpan(context.Background(), "pipeline.layout")
	if span.SpanContext().IsValid() {
		t.Error("span has a valid context without an installed provider")
	}
	EndSpan(span, nil)
}

func TestInstallTracerExportsSpans(t *testing.T) {
	var buf bytes.Buffer
	shutdown, err := InstallTracer(&buf)
	if err != nil {
		t.Fatalf("InstallTracer() error = %v", err)
	}

	ctx, span := StartSpan(context.Background(), "pipeline.layout", attribute.String("mode", "teams"))
	if !span.SpanContext().IsValid() {
		t.Error("span from installed provider is not recording")
	}
	_, child := StartSpan(ctx, "pipeline.render")
	EndSpan(child, stderrors.New("bad format"))
	EndSpan(span, nil)

	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{`"Name":"pipeline.layout"`, `"Name":"pipeline.render"`, `"teams"`, "bad format"} {
		if !strings.Contains(out, want) {
			t.Errorf("exported spans lack %s", want)
		}
	}

	_, after := StartSpan(context.Background(), "pipeline.load")
	if after.SpanContext().IsValid() {
		t.Error("provider still installed after shutdown")
	}
	after.End()
}
