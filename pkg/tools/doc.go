// Package tools exposes terrarium operations as named, schema-described tools.
//
// Sub-packages:
//   - [github.com/germanamz/terrarium/pkg/tools/toolbox]: the Tool type and a registry for listing and calling tools
//   - [github.com/germanamz/terrarium/pkg/tools/controltools]: tools backed by the controller API
//   - [github.com/germanamz/terrarium/pkg/tools/mcpserver]: serves a ToolBox over MCP on stdio
package tools
