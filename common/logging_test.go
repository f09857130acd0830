package common

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputSplitter_WriteReturnsLength(t *testing.T) {
	splitter := &OutputSplitter{}

	tests := []struct {
		name    string
		message []byte
	}{
		{
			name:    "ErrorLevel",
			message: []byte(`time="2026-08-02T10:30:00Z" level=error msg="content store write failed"`),
		},
		{
			name:    "InfoLevel",
			message: []byte(`time="2026-08-02T10:30:00Z" level=info msg="worker started"`),
		},
		{
			name:    "ErrorWordButInfoLevel",
			message: []byte(`time="2026-08-02T10:30:00Z" level=info msg="error occurred but not error level"`),
		},
		{
			name:    "EmptyMessage",
			message: []byte(``),
		},
		{
			name:    "WithNewlines",
			message: []byte("Line 1\nLine 2\nLine 3\n"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := splitter.Write(tt.message)
			assert.NoError(t, err)
			assert.Equal(t, len(tt.message), n)
		})
	}
}

func TestOutputSplitter_ErrorPatternMatching(t *testing.T) {
	errorPatterns := [][]byte{
		[]byte("level=error"),
		[]byte("level=error msg=\"test\""),
		[]byte("prefix level=error suffix"),
	}
	for i, pattern := range errorPatterns {
		assert.True(t, bytes.Contains(pattern, []byte("level=error")), "pattern %d", i)
	}

	nonErrorPatterns := [][]byte{
		[]byte("level=info"),
		[]byte("level=warning"),
		[]byte("level=debug"),
		[]byte("error in message but level=info"),
		[]byte("LEVEL=ERROR"), // Different case
	}
	for i, pattern := range nonErrorPatterns {
		assert.False(t, bytes.Contains(pattern, []byte("level=error")), "pattern %d", i)
	}
}

func TestOutputSplitter_ConcurrentWrites(t *testing.T) {
	splitter := &OutputSplitter{}
	done := make(chan bool)

	for i := 0; i < 10; i++ {
		go func() {
			message := []byte("Concurrent message from goroutine")
			n, err := splitter.Write(message)
			assert.NoError(t, err)
			assert.Equal(t, len(message), n)
			done <- true
		}()
	}

	for i := 0; i < 10; i++ {
		<-done
	}
}

func TestLogger_OutputIsSplitter(t *testing.T) {
	require.NotNil(t, Logger)
	_, ok := Logger.Out.(*OutputSplitter)
	assert.True(t, ok, "Logger should use OutputSplitter")
}

func TestContextLogger_FieldsAreImmutable(t *testing.T) {
	base := NewContextLogger(nil, map[string]interface{}{"service": "edda"})
	scoped := base.WithField("change_set_id", "cs-1")

	assert.NotContains(t, base.fields, "change_set_id")
	assert.Equal(t, "cs-1", scoped.fields["change_set_id"])
	assert.Equal(t, "edda", scoped.fields["service"])
}

func TestContextLogger_WithErrorAddsField(t *testing.T) {
	cl := NewContextLogger(nil, nil).WithError(assert.AnError)
	assert.Equal(t, assert.AnError.Error(), cl.fields["error"])
}

func TestServiceLogger_CarriesServiceMetadata(t *testing.T) {
	cl := ServiceLogger("edda-compressor", "1.2.3")
	assert.Equal(t, "edda-compressor", cl.fields["service"])
	assert.Equal(t, "1.2.3", cl.fields["version"])
	assert.NotEmpty(t, cl.fields["module_version"])
}

func TestLogOperation_PropagatesError(t *testing.T) {
	cl := NewContextLogger(nil, nil)

	err := LogOperation(cl, "op.fails", func() error { return assert.AnError })
	assert.ErrorIs(t, err, assert.AnError)

	err = LogOperation(cl, "op.succeeds", func() error { return nil })
	assert.NoError(t, err)
}

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "<not set>", MaskSecret(""))
	assert.Equal(t, "***", MaskSecret("short"))
	assert.Equal(t, "myve...y123", MaskSecret("myverylongsecretkey123"))
}
