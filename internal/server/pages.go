package server

import (
	"html/template"
	"io"
	"net/http"

	log "github.com/sirupsen/logrus"
)

const indexPage = `<!DOCTYPE html>
<html>
<head>
<title>LED Strip Control</title>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<style>
body { font-family: sans-serif; padding: 20px; max-width: 600px; margin: 0 auto; }
label { display: block; margin-top: 10px; }
.slider { width: 100%; }
.header { display: flex; justify-content: space-between; align-items: center; }
.links a { margin-left: 10px; color: #0066cc; text-decoration: none; }
.status { background: #f0f0f0; padding: 10px; margin: 15px 0; border-radius: 5px; font-size: 0.9em; }
</style>
</head>
<body>
<div class="header">
<h1>LED Strip Control</h1>
<div class="links">
<a href="/health" target="_blank">Health</a>
<a href="/api/docs" target="_blank">API Docs</a>
</div>
</div>
<div class="status">
<strong>LEDs:</strong> {{.NumLeds}} |
<strong>Current:</strong> R={{.R}} G={{.G}} B={{.B}}
</div>
<label>White:
<input type="range" min="0" max="255" value="{{.R}}" id="w" class="slider">
<output id="w_val">{{.R}}</output>
</label>
<label>Red:
<input type="range" min="0" max="255" value="{{.R}}" id="r" class="slider">
<output id="r_val">{{.R}}</output>
</label>
<label>Green:
<input type="range" min="0" max="255" value="{{.G}}" id="g" class="slider">
<output id="g_val">{{.G}}</output>
</label>
<label>Blue:
<input type="range" min="0" max="255" value="{{.B}}" id="b" class="slider">
<output id="b_val">{{.B}}</output>
</label>
<script>
function sendUpdate(r, g, b) {
	fetch('/update?r=' + r + '&g=' + g + '&b=' + b);
}
function updateFromRGB() {
	let r = parseInt(document.getElementById("r").value);
	let g = parseInt(document.getElementById("g").value);
	let b = parseInt(document.getElementById("b").value);
	document.getElementById("r_val").textContent = r;
	document.getElementById("g_val").textContent = g;
	document.getElementById("b_val").textContent = b;
	sendUpdate(r, g, b);
}
function updateFromWhite() {
	let w = parseInt(document.getElementById("w").value);
	document.getElementById("w_val").textContent = w;
	['r', 'g', 'b'].forEach(id => {
		document.getElementById(id).value = w;
		document.getElementById(id + "_val").textContent = w;
	});
	sendUpdate(w, w, w);
}
document.getElementById("w").addEventListener("input", updateFromWhite);
document.getElementById("r").addEventListener("input", updateFromRGB);
document.getElementById("g").addEventListener("input", updateFromRGB);
document.getElementById("b").addEventListener("input", updateFromRGB);
</script>
</body>
</html>
`

var indexTemplate = template.Must(template.New("index").Parse(indexPage))

type indexData struct {
	NumLeds int
	R, G, B uint8
}

func (s *Server) indexHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	snap := s.strip.Snapshot()
	data := indexData{
		NumLeds: len(snap.Pixels),
		R:       snap.Color.R,
		G:       snap.Color.G,
		B:       snap.Color.B,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, data); err != nil {
		log.Warn("Unable to render index page: ", err)
	}
}

const docsPage = `<!DOCTYPE html>
<html>
<head>
<title>API Documentation - LED Strip Control</title>
<meta charset="utf-8">
<style>
body { font-family: monospace; padding: 20px; max-width: 800px; margin: 0 auto; }
.endpoint { background: #f4f4f4; padding: 15px; margin: 10px 0; border-radius: 5px; }
.method { color: #0066cc; font-weight: bold; }
code { background: #e8e8e8; padding: 2px 5px; border-radius: 3px; }
</style>
</head>
<body>
<h1>LED Strip Control API</h1>
<div class="endpoint">
<h2><span class="method">GET</span> /update</h2>
<p>Set the whole strip to one color. Query parameters <code>r</code>,
<code>g</code> and <code>b</code> (0-255, out of range values are clamped).
Missing parameters keep their current value. Responds with plain
<code>OK</code>.</p>
<p>Examples: <a href="/update?r=255&g=0&b=0">/update?r=255&g=0&b=0</a>,
<a href="/update?r=0&g=0&b=0">/update?r=0&g=0&b=0</a></p>
</div>
<div class="endpoint">
<h2><span class="method">GET</span> /led</h2>
<p>Set a single LED. Requires <code>index</code>; <code>r</code>,
<code>g</code> and <code>b</code> as for /update. An index outside the strip
is rejected with a 400.</p>
<p>Example: <a href="/led?index=0&r=0&g=255&b=0">/led?index=0&r=0&g=255&b=0</a></p>
</div>
<div class="endpoint">
<h2><span class="method">GET</span> /health</h2>
<p>JSON health document: server uptime, processed updates, LED count,
current color and system stats.</p>
</div>
<div class="endpoint">
<h2><span class="method">GET</span> /metrics</h2>
<p>Prometheus metrics.</p>
</div>
<p><a href="/">Back to control panel</a></p>
</body>
</html>
`

func docsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	io.WriteString(w, docsPage)
}
