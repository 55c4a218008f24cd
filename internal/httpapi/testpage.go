package httpapi

// testPageHTML is a minimal dashboard: it lists the sources reported by
// GET /sources and lets the user open a preview for each one, which opens a
// WebSocket to /ws?source=<name> and renders the incoming JPEG frames into
// an <img> via a blob URL. Functionally equivalent to, but not copied from,
// the original's test page.
const testPageHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>ndibridge</title>
<style>
  body { font-family: sans-serif; background: #151520; color: #ddd; padding: 16px; }
  button { margin: 4px; padding: 6px 12px; cursor: pointer; }
  .preview { display: inline-block; margin: 8px; border: 1px solid #444; }
  .preview img { display: block; max-width: 480px; }
  .preview div { padding: 4px 8px; font-size: 0.85em; }
</style>
</head>
<body>
<h1>ndibridge</h1>
<div id="sources"></div>
<div id="previews"></div>
<script>
async function refresh() {
  const res = await fetch('/sources');
  const names = await res.json();
  const box = document.getElementById('sources');
  box.innerHTML = '';
  names.forEach(name => {
    const btn = document.createElement('button');
    btn.textContent = name;
    btn.onclick = () => openPreview(name);
    box.appendChild(btn);
  });
}

function openPreview(name) {
  const wrap = document.createElement('div');
  wrap.className = 'preview';
  const label = document.createElement('div');
  label.textContent = name;
  const img = document.createElement('img');
  wrap.appendChild(label);
  wrap.appendChild(img);
  document.getElementById('previews').appendChild(wrap);

  const proto = location.protocol === 'https:' ? 'wss' : 'ws';
  const ws = new WebSocket(proto + '://' + location.host + '/ws?source=' + encodeURIComponent(name));
  ws.binaryType = 'blob';
  ws.onmessage = ev => {
    const url = URL.createObjectURL(ev.data);
    img.onload = () => URL.revokeObjectURL(url);
    img.src = url;
  };
  ws.onclose = () => { wrap.remove(); };
}

refresh();
setInterval(refresh, 5000);
</script>
</body>
</html>
`
