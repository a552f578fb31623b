package pages

const cssContent = `:root {
  --bg: #0b1020;
  --panel: #141b2f;
  --panel-2: #1c2540;
  --text: #e6e9f2;
  --muted: #8f99b5;
  --accent: #5b8cff;
  --accent-2: #8c6bff;
  --ok: #3fbf7f;
  --bad: #ff6b6b;
  --radius: 10px;
}

* { box-sizing: border-box; }

body {
  margin: 0;
  font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
  background: var(--bg);
  color: var(--text);
  line-height: 1.5;
  transition: background 0.4s ease;
}

body.home {
  background: radial-gradient(circle at 50% 20%, #1b2550 0%, var(--bg) 60%);
}

body.zoom-out main { animation: zoom-out 0.5s ease; }
body.zoom-in main { animation: zoom-in 0.5s ease; }

@keyframes zoom-out { from { transform: scale(1.04); opacity: 0.3; } to { transform: none; opacity: 1; } }
@keyframes zoom-in { from { transform: scale(0.96); opacity: 0.3; } to { transform: none; opacity: 1; } }

a { color: var(--accent); text-decoration: none; }
a:hover { text-decoration: underline; }

.site-header {
  display: flex;
  align-items: center;
  justify-content: space-between;
  padding: 0.75rem 1.5rem;
  background: var(--panel);
  border-bottom: 1px solid var(--panel-2);
}

.brand { font-weight: 700; font-size: 1.2rem; color: var(--text); }

.account { display: flex; gap: 0.75rem; align-items: center; }

.avatar {
  display: inline-flex;
  align-items: center;
  justify-content: center;
  width: 2rem;
  height: 2rem;
  border-radius: 50%;
  background: var(--accent-2);
  color: #fff;
  font-weight: 600;
}
.avatar.large { width: 4rem; height: 4rem; font-size: 1.5rem; }

.primary-nav, .top-nav {
  display: flex;
  gap: 1rem;
  padding: 0.5rem 1.5rem;
  background: var(--panel);
}
.top-nav { justify-content: flex-end; font-size: 0.9rem; padding-top: 0; }
.primary-nav a, .top-nav a { color: var(--muted); }
.primary-nav a.active, .top-nav a.active { color: var(--text); border-bottom: 2px solid var(--accent); }

main { max-width: 1100px; margin: 0 auto; padding: 1.5rem; }

.button {
  display: inline-block;
  padding: 0.5rem 1rem;
  border: none;
  border-radius: var(--radius);
  background: var(--accent);
  color: #fff;
  cursor: pointer;
  font: inherit;
}
.button:hover { text-decoration: none; filter: brightness(1.1); }
.button:disabled { opacity: 0.5; cursor: not-allowed; }
.button.secondary { background: var(--panel-2); color: var(--text); }
.button.small { padding: 0.25rem 0.6rem; font-size: 0.85rem; }

.link-button { background: none; border: none; color: var(--accent); cursor: pointer; font: inherit; padding: 0; }

input, select, textarea {
  background: var(--panel-2);
  color: var(--text);
  border: 1px solid #2c3760;
  border-radius: 6px;
  padding: 0.45rem 0.6rem;
  font: inherit;
}
label { display: block; margin: 0.5rem 0; }
label input, label select, label textarea { display: block; width: 100%; margin-top: 0.25rem; }

.loading { text-align: center; padding: 3rem; color: var(--muted); }
.spinner {
  width: 2rem;
  height: 2rem;
  margin: 0 auto 0.5rem;
  border: 3px solid var(--panel-2);
  border-top-color: var(--accent);
  border-radius: 50%;
  animation: spin 0.8s linear infinite;
}
@keyframes spin { to { transform: rotate(360deg); } }

.htmx-indicator { display: none; }
.htmx-request .htmx-indicator, .htmx-request.htmx-indicator { display: block; }

.error-state, .inline-error {
  padding: 1rem;
  border-radius: var(--radius);
  background: rgba(255, 107, 107, 0.1);
  border: 1px solid var(--bad);
}
.inline-error { padding: 0.5rem 0.75rem; margin: 0.5rem 0; }
.success { color: var(--ok); }
.field-error { color: var(--bad); font-size: 0.85rem; }
.field-errors { color: var(--bad); }
.muted, .meta { color: var(--muted); font-size: 0.9rem; }
.empty { color: var(--muted); font-style: italic; }
.warning { color: #f4c152; }

.hero { text-align: center; padding: 2rem 0; }
.search-row { display: flex; gap: 0.5rem; }
.search-row input { flex: 1; font-size: 1.1rem; }
.filters { text-align: left; margin-top: 0.75rem; }
.sections label { display: inline-block; margin-right: 1rem; }

.results { display: grid; gap: 1rem; }
.publication, .topic-card, .panel, .section-result, .auth-card, .quiz-card {
  background: var(--panel);
  border-radius: var(--radius);
  padding: 1rem 1.25rem;
}
.publication h3 { margin: 0 0 0.25rem; }
.tag {
  display: inline-block;
  margin-right: 0.35rem;
  padding: 0.1rem 0.5rem;
  border-radius: 999px;
  background: var(--panel-2);
  font-size: 0.8rem;
}
.actions { display: flex; gap: 0.5rem; flex-wrap: wrap; margin-top: 0.5rem; }

.modal-backdrop {
  position: fixed;
  inset: 0;
  background: rgba(0, 0, 0, 0.6);
  display: flex;
  align-items: center;
  justify-content: center;
  z-index: 50;
}
.modal {
  position: relative;
  max-width: 700px;
  max-height: 80vh;
  overflow: auto;
  background: var(--panel);
  border-radius: var(--radius);
  padding: 1.5rem;
}
.modal-close { position: absolute; top: 0.5rem; right: 0.75rem; background: none; border: none; color: var(--text); font-size: 1.5rem; cursor: pointer; }

.graph-filter { display: flex; gap: 1rem; align-items: flex-end; flex-wrap: wrap; }
.graph-canvas { height: 600px; background: var(--panel); border-radius: var(--radius); }

.tabs { display: flex; gap: 1rem; margin-bottom: 1rem; }
.tabs a.active { color: var(--text); border-bottom: 2px solid var(--accent); }
.topics { display: grid; grid-template-columns: repeat(auto-fill, minmax(240px, 1fr)); gap: 1rem; }
.topic-card { color: var(--text); }
.levels li { margin: 0.5rem 0; }
.check { color: var(--ok); margin: 0 0.5rem; }

.progress-bar { height: 0.75rem; background: var(--panel-2); border-radius: 999px; overflow: hidden; }
.progress-bar div { height: 100%; background: linear-gradient(90deg, var(--accent), var(--accent-2)); }

.badges { display: grid; grid-template-columns: repeat(auto-fill, minmax(180px, 1fr)); gap: 1rem; }
.badge { background: var(--panel); border-radius: var(--radius); padding: 1rem; opacity: 0.4; text-align: center; }
.badge.earned { opacity: 1; border: 1px solid var(--accent-2); }
.badge .icon { display: block; font-size: 2rem; }
.badge span { display: block; }

.choices { display: grid; gap: 0.5rem; margin: 1rem 0; }
.choice { text-align: left; padding: 0.75rem; border-radius: var(--radius); border: 1px solid var(--panel-2); background: var(--panel-2); color: var(--text); cursor: pointer; font: inherit; }
.choice.selected { border-color: var(--accent); background: rgba(91, 140, 255, 0.15); }
.letter { font-weight: 700; margin-right: 0.5rem; }
.quiz-nav { display: flex; justify-content: space-between; }
.score { font-size: 2rem; font-weight: 700; }
.score.passed, .correct { color: var(--ok); }
.score.failed, .incorrect { color: var(--bad); }

.scenario { display: grid; grid-template-columns: repeat(auto-fill, minmax(220px, 1fr)); gap: 0 1rem; }
.sim-actions, .sim-compare { display: flex; gap: 0.5rem; align-items: flex-end; margin: 1rem 0; flex-wrap: wrap; }
.panel:empty { display: none; }
.panel { margin-top: 1rem; }
table { width: 100%; border-collapse: collapse; }
th, td { text-align: left; padding: 0.4rem; border-bottom: 1px solid var(--panel-2); }
td.up { color: var(--bad); }
td.down { color: var(--ok); }

.auth-card { max-width: 420px; margin: 2rem auto; }

.chat-page .chat-log { min-height: 50vh; }
.chat-log { display: flex; flex-direction: column; gap: 0.5rem; overflow-y: auto; max-height: 60vh; padding: 0.5rem; }
.msg { padding: 0.6rem 0.9rem; border-radius: var(--radius); max-width: 85%; }
.msg.user { align-self: flex-end; background: var(--accent); color: #fff; }
.msg.assistant { align-self: flex-start; background: var(--panel-2); }
.msg.error { align-self: center; background: rgba(255, 107, 107, 0.15); }
.citations { font-size: 0.85rem; margin: 0.5rem 0 0; padding-left: 1rem; }
.chat-form { display: flex; gap: 0.5rem; margin-top: 0.5rem; }
.chat-form input { flex: 1; }

.chat-fab { position: fixed; right: 1.5rem; bottom: 1.5rem; z-index: 40; display: flex; flex-direction: column; align-items: flex-end; gap: 0.5rem; }
.chat-popup { width: 360px; background: var(--panel); border-radius: var(--radius); padding: 0.75rem; box-shadow: 0 10px 30px rgba(0, 0, 0, 0.5); }
.chat-popup .chat-log { height: 320px; }
.fab-button { width: 3.5rem; height: 3.5rem; border-radius: 50%; border: none; background: var(--accent); color: #fff; font-size: 1.4rem; cursor: pointer; }

.toast { position: fixed; left: 50%; bottom: 2rem; transform: translateX(-50%); background: var(--panel-2); padding: 0.6rem 1rem; border-radius: var(--radius); }

.markdown pre { background: #0f1528; padding: 0.75rem; border-radius: 6px; overflow-x: auto; }
`

const jsContent = `(function() {
  var mount = '#mount';

  function partial(path) {
    return '/p' + (path.charAt(0) === '/' ? path : '/' + path);
  }

  function load(path) {
    htmx.ajax('GET', partial(path), { target: mount, swap: 'innerHTML' });
  }

  // aqNavigate changes the page without a full reload.
  window.aqNavigate = function(path) {
    if (path !== location.pathname + location.search) {
      history.pushState({ path: path }, '', path);
    }
    document.getElementById('modal').innerHTML = '';
    load(path);
  };

  window.addEventListener('popstate', function() {
    load(location.pathname + location.search);
  });

  document.addEventListener('click', function(e) {
    var close = e.target.closest('[data-close-modal]');
    if (close && e.target === close) {
      document.getElementById('modal').innerHTML = '';
      return;
    }
    var a = e.target.closest('a[data-nav]');
    if (!a || e.defaultPrevented || e.button !== 0 || e.metaKey || e.ctrlKey || e.shiftKey || e.altKey) {
      return;
    }
    var url = new URL(a.href, location.href);
    if (url.origin !== location.origin) {
      return;
    }
    e.preventDefault();
    aqNavigate(url.pathname + url.search);
  });

  document.addEventListener('submit', function(e) {
    var form = e.target.closest('form[data-nav]');
    if (!form) {
      return;
    }
    e.preventDefault();
    var params = new URLSearchParams();
    new FormData(form).forEach(function(value, key) {
      if (String(value).trim() !== '') {
        params.append(key, value);
      }
    });
    var action = new URL(form.getAttribute('action') || location.pathname, location.href).pathname;
    var qs = params.toString();
    aqNavigate(qs ? action + '?' + qs : action);
  });

  document.addEventListener('keydown', function(e) {
    if (e.key === 'Escape') {
      document.getElementById('modal').innerHTML = '';
    }
  });

  function replay(cls) {
    document.body.classList.remove('zoom-out', 'zoom-in');
    void document.body.offsetWidth;
    document.body.classList.add(cls);
  }

  document.body.addEventListener('aq:zoom-out', function() { replay('zoom-out'); });
  document.body.addEventListener('aq:zoom-in', function() { replay('zoom-in'); });

  document.body.addEventListener('aq:chrome', function(e) {
    document.body.classList.toggle('home', !!e.detail.home);
    var fab = document.getElementById('chat-fab');
    if (fab) {
      fab.hidden = !e.detail.fab;
    }
  });

  document.body.addEventListener('aq:navigate', function(e) {
    var path = e.detail.path;
    setTimeout(function() { aqNavigate(path); }, e.detail.delay || 0);
  });

  var toastTimer;
  document.body.addEventListener('aq:toast', function(e) {
    var el = document.getElementById('toast');
    el.textContent = e.detail.message || e.detail.value || '';
    el.hidden = false;
    clearTimeout(toastTimer);
    toastTimer = setTimeout(function() { el.hidden = true; }, 3000);
  });

  // Chat: clear the input after sending, keep the log scrolled.
  document.body.addEventListener('htmx:wsAfterSend', function(e) {
    var form = e.target.closest('form');
    if (form) {
      form.reset();
    }
  });
  document.body.addEventListener('htmx:wsAfterMessage', function() {
    document.querySelectorAll('.chat-log').forEach(function(log) {
      log.scrollTop = log.scrollHeight;
    });
  });

  // Knowledge graph.
  var cytoscapeLoading;
  function loadCytoscape() {
    if (window.cytoscape) {
      return Promise.resolve(window.cytoscape);
    }
    if (!cytoscapeLoading) {
      cytoscapeLoading = new Promise(function(resolve, reject) {
        var s = document.createElement('script');
        s.src = 'https://unpkg.com/cytoscape@3.26.0/dist/cytoscape.min.js';
        s.onload = function() { resolve(window.cytoscape); };
        s.onerror = reject;
        document.head.appendChild(s);
      });
    }
    return cytoscapeLoading;
  }

  var palette = ['#5b8cff', '#8c6bff', '#3fbf7f', '#f4c152', '#ff6b6b', '#4dd0e1', '#ff9f43', '#c56cf0'];

  function drawGraphs() {
    document.querySelectorAll('.graph-canvas:not([data-drawn])').forEach(function(el) {
      var data = el.parentElement.querySelector('script.graph-data');
      if (!data) {
        return;
      }
      el.setAttribute('data-drawn', '');
      var elements = JSON.parse(data.textContent);
      var types = {};
      elements.forEach(function(x) {
        if (x.data.type && !(x.data.type in types)) {
          types[x.data.type] = palette[Object.keys(types).length % palette.length];
        }
      });
      loadCytoscape().then(function(cytoscape) {
        cytoscape({
          container: el,
          elements: elements,
          layout: { name: 'cose', animate: false },
          style: [
            { selector: 'node', style: {
              'label': 'data(label)', 'color': '#e6e9f2', 'font-size': 8,
              'background-color': function(n) { return types[n.data('type')] || '#8f99b5'; },
              'width': 12, 'height': 12 } },
            { selector: 'edge', style: {
              'width': 1, 'line-color': '#2c3760', 'curve-style': 'bezier',
              'target-arrow-shape': 'triangle', 'target-arrow-color': '#2c3760' } }
          ]
        });
      }).catch(function() {
        el.textContent = 'The graph library could not be loaded.';
      });
    });
  }

  document.body.addEventListener('htmx:afterSettle', drawGraphs);
})();
`
