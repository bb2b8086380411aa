package mylog

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MarcGrol/subscriptiondemo/lib/mycontext"
)

func TestStandardLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := standardLogger{componentName: "pages", out: buf}

	logger.Log(context.TODO(), "cs_123", SeverityWarn, "mounted %d times", 2)

	assert.Equal(t, "pages - cs_123 - WARN - mounted 2 times\n", buf.String())
}

func TestStructuredEntry(t *testing.T) {
	c := context.WithValue(context.TODO(), mycontext.CtxTraceContext{}, "projects/p/traces/abc")
	logger := structuredLogger{componentName: "checkoutstripe"}

	t.Run("With label and trace", func(t *testing.T) {
		got := map[string]any{}
		err := json.Unmarshal([]byte(logger.entry(c, "123", SeverityInfo, "hello").String()), &got)
		assert.NoError(t, err)
		assert.Equal(t, "checkoutstripe:hello", got["message"])
		assert.Equal(t, "INFO", got["severity"])
		assert.Equal(t, "projects/p/traces/abc", got["logging.googleapis.com/trace"])
		assert.Equal(t, map[string]any{"aggregate": "123"}, got["logging.googleapis.com/labels"])
	})

	t.Run("Without trace does not panic", func(t *testing.T) {
		e := logger.entry(context.TODO(), "", SeverityDebug, "hello")
		assert.Empty(t, e.Trace)
		assert.Nil(t, e.Labels)
	})
}
