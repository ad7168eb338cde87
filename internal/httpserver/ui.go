package httpserver

const uiIndexHTML = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width,initial-scale=1" />
  <title>Agentic Interview</title>
  <style>
    body { font-family: system-ui, sans-serif; margin: 0; background: #f6f7f9; color: #1d2330; }
    header { padding: 12px 20px; background: #1d2330; color: #fff; display: flex; justify-content: space-between; align-items: center; }
    main { display: grid; grid-template-columns: 340px 1fr; gap: 16px; padding: 16px; }
    .panel { background: #fff; border-radius: 8px; padding: 12px; box-shadow: 0 1px 3px rgba(0,0,0,.08); }
    textarea, input { width: 100%; box-sizing: border-box; margin: 6px 0; padding: 6px; }
    button { margin: 4px 4px 4px 0; padding: 6px 10px; cursor: pointer; }
    button:disabled { opacity: .5; cursor: default; }
    #log { height: 62vh; overflow-y: auto; }
    .msg { padding: 8px; margin: 6px 0; border-radius: 6px; white-space: pre-wrap; }
    .system { background: #eef0f4; font-size: .85em; }
    .assistant { background: #e7f1ff; }
    .user { background: #e9f8ec; }
    .role { font-weight: 600; font-size: .75em; text-transform: uppercase; }
    pre { background: #f1f2f5; padding: 8px; white-space: pre-wrap; }
  </style>
</head>
<body>
  <header>
    <div>Agentic Interview</div>
    <div id="status">idle</div>
  </header>
  <main>
    <section class="panel">
      <label>Candidate profile</label>
      <textarea id="profile" rows="6" placeholder="e.g. backend engineer, 5 years, Go and Postgres"></textarea>
      <button id="btnStart">Start Agentic Interview</button>
      <button id="btnNext">Ask Next Question</button>
      <button id="btnClear">Clear Conversation</button>
      <hr />
      <label>Answer</label>
      <input id="answer" placeholder="Type your answer" />
      <button id="btnAnswer">Submit</button>
      <button id="btnSpeak">Speak</button>
      <hr />
      <label>Dev API Key</label>
      <input id="devKey" type="password" placeholder="only used when no key is configured" />
      <button id="btnKey">Use Key</button>
      <button id="btnDiag">Run Diagnostics</button>
      <button id="btnTest">Run Test Prompt</button>
      <pre id="diag"></pre>
    </section>
    <section class="panel">
      <div id="log"></div>
    </section>
  </main>
<script>
(function () {
  var password = new URLSearchParams(location.search).get("password") || "";
  var thinking = false;
  var socket = null;
  var Recognition = window.SpeechRecognition || window.webkitSpeechRecognition || null;
  var synthesis = "speechSynthesis" in window;

  function $(id) { return document.getElementById(id); }

  function api(method, path, body) {
    var headers = { "Content-Type": "application/json" };
    if (password) headers["X-Auth-Token"] = password;
    return fetch(path, { method: method, headers: headers, body: body ? JSON.stringify(body) : undefined })
      .then(function (r) { return r.json().then(function (j) { return { status: r.status, body: j }; }); });
  }

  function render(messages) {
    var log = $("log");
    log.innerHTML = "";
    (messages || []).forEach(function (m) {
      var div = document.createElement("div");
      div.className = "msg " + m.role;
      var role = document.createElement("div");
      role.className = "role";
      role.textContent = m.role;
      var text = document.createElement("div");
      text.textContent = m.text;
      div.appendChild(role);
      div.appendChild(text);
      log.appendChild(div);
    });
    log.scrollTop = log.scrollHeight;
  }

  function setThinking(on) {
    thinking = on;
    $("status").textContent = on ? "thinking..." : "idle";
    refreshButtons();
  }

  function refreshButtons() {
    $("btnStart").disabled = thinking || !$("profile").value.trim();
    $("btnNext").disabled = thinking;
    $("btnAnswer").disabled = thinking || !$("answer").value.trim();
    $("btnTest").disabled = thinking;
    $("btnSpeak").disabled = thinking || !Recognition;
  }

  function handle(res) {
    if (res.body && res.body.messages) render(res.body.messages);
    if (res.status === 409) {
      // the slot is still held; the websocket state frame clears it
      $("diag").textContent = "Busy: another turn is in progress.";
      return res;
    }
    if (res.body && typeof res.body.state === "string") setThinking(res.body.state === "thinking");
    else setThinking(false);
    return res;
  }

  function listen() {
    if (!Recognition) return;
    var rec = new Recognition();
    rec.continuous = false;
    rec.interimResults = false;
    rec.lang = "en-US";
    rec.onresult = function (ev) {
      var text = ev.results[0][0].transcript;
      if (socket && socket.readyState === WebSocket.OPEN) {
        socket.send(JSON.stringify({ type: "utterance", text: text }));
      } else {
        api("POST", "/api/interview/answer", { text: text }).then(handle);
      }
    };
    rec.start();
  }

  function speak(id, text) {
    if (!synthesis) { ack(id); return; }
    var u = new SpeechSynthesisUtterance(text);
    u.onend = function () { ack(id); };
    u.onerror = function () { ack(id); };
    window.speechSynthesis.speak(u);
  }

  function ack(id) {
    if (socket && socket.readyState === WebSocket.OPEN) socket.send(JSON.stringify({ type: "spoken", id: id }));
  }

  function connect() {
    var proto = location.protocol === "https:" ? "wss://" : "ws://";
    var url = proto + location.host + "/ws" + (password ? "?password=" + encodeURIComponent(password) : "");
    socket = new WebSocket(url);
    socket.onopen = function () {
      socket.send(JSON.stringify({ type: "hello", recognition: !!Recognition, synthesis: synthesis }));
    };
    socket.onmessage = function (ev) {
      var f = JSON.parse(ev.data);
      switch (f.type) {
        case "transcript": render(f.messages); break;
        case "state": setThinking(f.state === "thinking"); break;
        case "speak": speak(f.id, f.text); break;
        case "listen": listen(); break;
        case "busy": $("diag").textContent = "Busy: ignored \"" + f.text + "\""; break;
        case "error": $("diag").textContent = "Error: " + f.error; break;
      }
    };
    socket.onclose = function () { setTimeout(connect, 2000); };
  }

  $("profile").addEventListener("input", refreshButtons);
  $("answer").addEventListener("input", refreshButtons);
  $("btnStart").onclick = function () {
    setThinking(true);
    api("POST", "/api/interview/start", { profile: $("profile").value }).then(handle);
  };
  $("btnNext").onclick = function () {
    setThinking(true);
    api("POST", "/api/interview/next").then(handle);
  };
  $("btnAnswer").onclick = function () {
    var text = $("answer").value;
    if (!text.trim()) return;
    $("answer").value = "";
    setThinking(true);
    api("POST", "/api/interview/answer", { text: text }).then(handle);
  };
  $("answer").addEventListener("keydown", function (ev) {
    if (ev.key === "Enter" && !$("btnAnswer").disabled) $("btnAnswer").onclick();
  });
  $("btnClear").onclick = function () { api("POST", "/api/conversation/clear").then(handle); };
  $("btnSpeak").onclick = listen;
  $("btnKey").onclick = function () {
    api("POST", "/api/credential", { key: $("devKey").value }).then(function (res) { $("diag").textContent = res.body.text; });
  };
  $("btnDiag").onclick = function () {
    api("GET", "/api/diagnostics").then(function (res) { $("diag").textContent = res.body.text; });
  };
  $("btnTest").onclick = function () {
    setThinking(true);
    api("POST", "/api/selftest").then(function (res) {
      if (res.status === 409) { $("diag").textContent = "Busy: another turn is in progress."; return; }
      setThinking(false);
      $("diag").textContent = "Test prompt: " + res.body.status + (res.body.output ? "\n" + res.body.output : "");
    });
  };

  api("GET", "/api/transcript").then(handle);
  refreshButtons();
  connect();
})();
</script>
</body>
</html>
`
