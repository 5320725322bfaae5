// ABOUTME: Diagnostic HTML status page served on GET /.
// ABOUTME: Renders server identity, session state, and the tool/resource catalog.

package httpserver

import (
	"bytes"
	"html/template"

	"github.com/yuin/goldmark"

	"github.com/2389/picomcp/internal/mcp"
)

var statusTemplate = template.Must(template.New("status").Parse(`<!DOCTYPE html>
<html>
<head><title>{{.Name}}</title></head>
<body>
<h1>MCP Server: {{.Name}}</h1>
<p>Version: {{.Version}}</p>
<p>Protocol: {{.Protocol}}</p>
<p>MCP Endpoint: <code>POST /mcp</code></p>
{{if .Description}}<div>{{.Description}}</div>{{end}}
{{if .SessionID}}<p>Session ID: <code>{{.SessionID}}</code></p>{{end}}
<h2>Tools ({{len .Tools}})</h2>
{{if .Tools}}<ul>{{range .Tools}}<li><strong>{{.Name}}</strong>: {{.Description}}</li>{{end}}</ul>
{{else}}<p><em>No tools registered</em></p>{{end}}
<h2>Resources ({{len .Resources}})</h2>
{{if .Resources}}<ul>{{range .Resources}}<li><strong>{{.URI}}</strong>: {{.Description}}</li>{{end}}</ul>
{{else}}<p><em>No resources registered</em></p>{{end}}
</body>
</html>
`))

type statusTool struct {
	Name        string
	Description string
}

type statusResource struct {
	URI         string
	Description string
}

type statusData struct {
	Name        string
	Version     string
	Protocol    string
	Description template.HTML
	SessionID   string
	Tools       []statusTool
	Resources   []statusResource
}

// renderStatusPage builds the GET / diagnostics page. The configured
// description is markdown, converted to HTML here.
func (s *Server) renderStatusPage() string {
	data := statusData{
		Name:     s.serverName,
		Version:  s.version,
		Protocol: mcp.ProtocolVersion,
	}

	if s.description != "" {
		var htmlBuf bytes.Buffer
		if err := goldmark.Convert([]byte(s.description), &htmlBuf); err != nil {
			s.logger.Warn("rendering description markdown failed", "error", err)
		} else {
			data.Description = template.HTML(htmlBuf.String())
		}
	}

	if token, ok := s.sessions.Current(); ok {
		data.SessionID = token
	}

	for _, t := range s.registry.Tools() {
		data.Tools = append(data.Tools, statusTool{Name: t.Name, Description: t.Description})
	}
	for _, r := range s.registry.Resources() {
		data.Resources = append(data.Resources, statusResource{URI: r.URI, Description: r.Description})
	}

	var buf bytes.Buffer
	if err := statusTemplate.Execute(&buf, data); err != nil {
		s.logger.Error("rendering status page failed", "error", err)
		return "<!DOCTYPE html><html><body><h1>MCP Server</h1></body></html>"
	}
	return buf.String()
}
