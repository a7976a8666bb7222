package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/sweeney/line-counter/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
	"stateOrUnknown": func(s string) string {
		if s == "" {
			return "UNKNOWN"
		}
		return s
	},
	"okClass": func(ok bool) string {
		if ok {
			return "ok"
		}
		return "down"
	},
	"okText": func(ok bool) string {
		if ok {
			return "available"
		}
		return "unavailable"
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Line Counter</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.production { color: green; font-weight: bold; }
.ready { color: #08c; }
.error { color: red; font-weight: bold; }
.other { color: orange; }
.ok { color: green; }
.down { color: red; }
</style>
</head>
<body>
<h1>Line Counter</h1>

<h2>State</h2>
<table>
<tr><th>State</th><td class="{{if eq (stateOrUnknown (printf "%s" .State)) "PRODUCTION"}}production{{else if eq (stateOrUnknown (printf "%s" .State)) "READY"}}ready{{else if eq (stateOrUnknown (printf "%s" .State)) "ERROR"}}error{{else}}other{{end}}">{{stateOrUnknown (printf "%s" .State)}}</td></tr>
<tr><th>Production</th><td>{{.Production}}</td></tr>
<tr><th>Time sync</th><td>{{.Time}}</td></tr>
</table>

<h2>Counts</h2>
<table>
<tr><th>Session</th><td>{{.Counts.Session}}</td></tr>
<tr><th>Total</th><td>{{.Counts.Total}}</td></tr>
<tr><th>Hourly</th><td>{{.Counts.Hourly}}</td></tr>
<tr><th>Cumulative</th><td>{{.Counts.Cumulative}}</td></tr>
</table>

<h2>Hardware</h2>
<table>
<tr><th>Storage</th><td class="{{okClass .Avail.Storage}}">{{okText .Avail.Storage}}</td></tr>
<tr><th>Clock</th><td class="{{okClass .Avail.Clock}}">{{okText .Avail.Clock}}</td></tr>
<tr><th>Display</th><td class="{{okClass .Avail.Display}}">{{okText .Avail.Display}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Events</th><td>{{.Events}}</td></tr>
<tr><th>Transitions</th><td>{{.Transitions}}</td></tr>
<tr><th>Dropped events</th><td>{{.Dropped}}</td></tr>
<tr><th>Poll</th><td>{{.Config.PollMs}}ms</td></tr>
<tr><th>Save interval</th><td>{{.Config.SaveMs}}ms</td></tr>
<tr><th>Max count</th><td>{{.Config.MaxCount}}</td></tr>
<tr><th>Broker</th><td>{{.Config.Broker}}</td></tr>
<tr><th>Data dir</th><td>{{.Config.DataDir}}</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPAddr}}</td></tr>
</table>

<p><a href="/index.json">JSON</a></p>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	// Snapshot has Uptime() method but template needs a Duration field.
	data := struct {
		status.Snapshot
		Uptime time.Duration
	}{
		Snapshot: snap,
		Uptime:   snap.Uptime(),
	}
	indexTmpl.Execute(w, data)
}
