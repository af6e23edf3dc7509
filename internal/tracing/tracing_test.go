package tracing

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvider_ExportsSpans(t *testing.T) {
	var buf bytes.Buffer
	tp, err := Provider(&buf, "0.0.1")
	require.NoError(t, err)

	_, span := tp.Tracer("test").Start(context.Background(), "companion.submit")
	span.End()
	require.NoError(t, tp.Shutdown(context.Background()))

	out := buf.String()
	assert.Contains(t, out, "companion.submit")
	assert.Contains(t, out, ServiceName)
}

func TestSetup_Disabled(t *testing.T) {
	var buf bytes.Buffer
	shutdown, err := Setup(&buf, "0.0.1", false)
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))
	assert.Empty(t, buf.String())
}
