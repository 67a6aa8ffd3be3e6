package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/drewjocham/go-json-utils/internal/jsonutil"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/tidwall/gjson"
)

var errEmptyDocument = errors.New("json document is empty")

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "json_format",
		Description: "Reformat a JSON document using the active builder settings.",
	}, s.handleFormat)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "json_validate",
		Description: "Report whether a document is well-formed JSON.",
	}, s.handleValidate)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "json_query",
		Description: "Extract a value from a JSON document by path.",
	}, s.handleQuery)
}

func newMessageResult(text string) (*mcp.CallToolResult, messageOutput) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}, messageOutput{Message: text}
}

func (s *Server) handleFormat(
	_ context.Context, _ *mcp.CallToolRequest, args formatArgs,
) (*mcp.CallToolResult, messageOutput, error) {
	if strings.TrimSpace(args.JSON) == "" {
		return nil, messageOutput{}, errEmptyDocument
	}
	v, err := jsonutil.ReadValue[any](args.JSON)
	if err != nil {
		return nil, messageOutput{}, err
	}

	write := jsonutil.WritePrettyValue
	if args.Compact {
		write = jsonutil.WriteValue
	}
	out, err := write(v)
	if err != nil {
		return nil, messageOutput{}, err
	}
	res, msg := newMessageResult(out)
	return res, msg, nil
}

func (s *Server) handleValidate(
	_ context.Context, _ *mcp.CallToolRequest, args validateArgs,
) (*mcp.CallToolResult, validateOutput, error) {
	out := validateOutput{
		Valid: sonic.Valid([]byte(args.JSON)),
		Bytes: len(args.JSON),
	}
	text := "valid"
	if !out.Valid {
		text = "invalid"
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}, out, nil
}

func (s *Server) handleQuery(
	_ context.Context, _ *mcp.CallToolRequest, args queryArgs,
) (*mcp.CallToolResult, queryOutput, error) {
	if !gjson.Valid(args.JSON) {
		return nil, queryOutput{}, fmt.Errorf("query %q: document is not valid json", args.Path)
	}
	r := gjson.Get(args.JSON, args.Path)
	out := queryOutput{Found: r.Exists(), Value: r.Raw}
	text := r.Raw
	if !out.Found {
		text = fmt.Sprintf("no value at %q", args.Path)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}, out, nil
}
