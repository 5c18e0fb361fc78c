package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"checkmkmcp/internal/api"
	"checkmkmcp/internal/checkmkclient"
	"checkmkmcp/internal/requestid"
	"checkmkmcp/internal/tools"
)

var requestIDRe = regexp.MustCompile(`^req_[0-9a-f]{6}$`)

func callAdapted(t *testing.T, def tools.Definition) *api.ServiceResult {
	t.Helper()
	s := &Server{callTimeout: time.Second}
	handler := s.adapt(def)

	res, err := handler(context.Background(), mcp.CallToolRequest{})
	require.NoError(t, err)
	require.NotEmpty(t, res.Content)

	text, ok := mcp.AsTextContent(res.Content[0])
	require.True(t, ok)

	var out api.ServiceResult
	require.NoError(t, json.Unmarshal([]byte(text.Text), &out))
	return &out
}

func TestAdapt_SuccessCarriesFreshRequestID(t *testing.T) {
	var seenID string
	def := tools.Definition{
		Tool: mcp.NewTool("probe"),
		Handler: func(ctx context.Context, args map[string]interface{}) (interface{}, []string, error) {
			seenID = requestid.FromContext(ctx)
			return map[string]interface{}{"ok": true}, []string{"heads up"}, nil
		},
	}

	out := callAdapted(t, def)
	require.True(t, out.Success)
	assert.Regexp(t, requestIDRe, out.RequestID)
	assert.Equal(t, seenID, out.RequestID)
	assert.Equal(t, []string{"heads up"}, out.Warnings)
}

func TestAdapt_EachCallGetsANewRequestID(t *testing.T) {
	def := tools.Definition{
		Tool: mcp.NewTool("probe"),
		Handler: func(ctx context.Context, args map[string]interface{}) (interface{}, []string, error) {
			return nil, nil, nil
		},
	}
	first := callAdapted(t, def)
	second := callAdapted(t, def)
	assert.NotEqual(t, first.RequestID, second.RequestID)
}

func TestAdapt_ErrorsAreClassifiedAndSanitized(t *testing.T) {
	def := tools.Definition{
		Tool: mcp.NewTool("probe"),
		Handler: func(ctx context.Context, args map[string]interface{}) (interface{}, []string, error) {
			return nil, nil, &checkmkclient.ServerError{
				StatusCode: 500,
				Message:    "traceback in /home/operator/omd/sites/cmk/lib/check.py",
			}
		},
	}

	out := callAdapted(t, def)
	require.False(t, out.Success)
	assert.Equal(t, api.KindUpstream, out.Error.Kind)
	assert.NotContains(t, out.Error.Message, "/home/operator")
	assert.Regexp(t, requestIDRe, out.RequestID)
}

func TestAdapt_ArgumentErrorsSurfaceWithPath(t *testing.T) {
	def := tools.Definition{
		Tool: mcp.NewTool("probe"),
		Handler: func(ctx context.Context, args map[string]interface{}) (interface{}, []string, error) {
			return nil, nil, api.NewArgumentError("host_name", "required")
		},
	}

	out := callAdapted(t, def)
	require.False(t, out.Success)
	assert.Equal(t, api.KindInvalidArguments, out.Error.Kind)
	assert.Contains(t, out.Error.Message, "host_name")
}

func TestAdapt_PanicBecomesInternalError(t *testing.T) {
	def := tools.Definition{
		Tool: mcp.NewTool("probe"),
		Handler: func(ctx context.Context, args map[string]interface{}) (interface{}, []string, error) {
			panic("boom")
		},
	}

	out := callAdapted(t, def)
	require.False(t, out.Success)
	assert.Equal(t, api.KindInternal, out.Error.Kind)
	assert.Contains(t, out.Error.Message, out.RequestID)
}

func TestAdapt_DeadlineBecomesTimeout(t *testing.T) {
	s := &Server{callTimeout: 10 * time.Millisecond}
	def := tools.Definition{
		Tool: mcp.NewTool("probe"),
		Handler: func(ctx context.Context, args map[string]interface{}) (interface{}, []string, error) {
			<-ctx.Done()
			return nil, nil, ctx.Err()
		},
	}
	handler := s.adapt(def)

	res, err := handler(context.Background(), mcp.CallToolRequest{})
	require.NoError(t, err)
	text, ok := mcp.AsTextContent(res.Content[0])
	require.True(t, ok)

	var out api.ServiceResult
	require.NoError(t, json.Unmarshal([]byte(text.Text), &out))
	require.False(t, out.Success)
	assert.Equal(t, api.KindTimeout, out.Error.Kind)
}

func TestIsClientDisconnect(t *testing.T) {
	disconnects := []error{
		io.EOF,
		io.ErrClosedPipe,
		syscall.EPIPE,
		syscall.ECONNRESET,
		fmt.Errorf("write /dev/stdout: %w", syscall.EPIPE),
		errors.New("read |0: file already closed"),
		errors.New("write: broken pipe"),
	}
	for _, err := range disconnects {
		assert.True(t, IsClientDisconnect(err), "expected disconnect: %v", err)
	}

	assert.False(t, IsClientDisconnect(nil))
	assert.False(t, IsClientDisconnect(errors.New("some real failure")))
	assert.False(t, IsClientDisconnect(context.DeadlineExceeded))
}

func TestSanitize(t *testing.T) {
	msg := `open /home/alice/.checkmk/secret: permission denied; also /Users/bob/x and /root/.config/y`
	got := Sanitize(msg)
	assert.NotContains(t, got, "/home/alice")
	assert.NotContains(t, got, "/Users/bob")
	assert.NotContains(t, got, "/root/.config")
	assert.Contains(t, got, "permission denied")
}

func TestSanitize_FlattensWhitespace(t *testing.T) {
	got := Sanitize("line one\nline two\t\tindented")
	assert.Equal(t, "line one line two indented", got)
}

func TestSanitize_TruncatesLongMessages(t *testing.T) {
	long := strings.Repeat("x", 2000)
	got := Sanitize(long)
	assert.True(t, strings.HasSuffix(got, "...(truncated)"))
	assert.Len(t, []rune(got), maxErrorLen+len("...(truncated)"))

	// Truncation counts runes, not bytes.
	multibyte := strings.Repeat("ü", 2000)
	got = Sanitize(multibyte)
	assert.True(t, strings.HasSuffix(got, "...(truncated)"))
	assert.Len(t, []rune(got), maxErrorLen+len("...(truncated)"))
}
