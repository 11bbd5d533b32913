package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Dashboard serves the self-contained live call monitor page. It polls
// /api/live-data and /api/call-summary every two seconds; both endpoints are
// public so the page needs no key.
func (h Handlers) Dashboard(c *gin.Context) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.String(http.StatusOK, dashboardHTML)
}

const dashboardHTML = `<!DOCTYPE html>
<html>
<head>
    <title>Live Call Monitor</title>
    <meta charset="utf-8">
    <style>
        body { font-family: system-ui; background: #0a0e27; color: #e4e4e7; padding: 20px; }
        .header { background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); padding: 30px; border-radius: 12px; margin-bottom: 30px; }
        .section { background: #1e1e2e; padding: 20px; border-radius: 8px; margin-bottom: 20px; border: 1px solid #2e2e3e; }
        .section-title { font-size: 18px; margin-bottom: 15px; color: #667eea; }
        .summary-grid { display: grid; grid-template-columns: repeat(4, 1fr); gap: 15px; }
        .summary-card { background: #2e2e3e; padding: 15px; border-radius: 8px; }
        .summary-card h3 { font-size: 12px; text-transform: uppercase; color: #a1a1aa; margin-bottom: 8px; }
        table { width: 100%; border-collapse: collapse; }
        th, td { padding: 10px; text-align: left; border-bottom: 1px solid #2e2e3e; }
        .badge { background: #667eea; padding: 4px 8px; border-radius: 4px; font-size: 12px; }
        code { background: #2e2e3e; padding: 2px 6px; border-radius: 4px; }
    </style>
</head>
<body>
    <div class="header"><h1>Live Call Monitor</h1><p>Real-time visibility into carrier calls</p></div>
    <div class="section">
        <div class="section-title">Latest Call Summary</div>
        <div class="summary-grid">
            <div class="summary-card"><h3>Carrier</h3><p id="summary-carrier">Loading...</p></div>
            <div class="summary-card"><h3>Load</h3><p id="summary-load">Loading...</p></div>
            <div class="summary-card"><h3>Outcome</h3><p id="summary-outcome">Loading...</p></div>
            <div class="summary-card"><h3>Sentiment</h3><p id="summary-sentiment">Loading...</p></div>
        </div>
        <div id="summary-call-id-hint" style="display:none; margin-top:12px; padding:10px; background:#1e3a5f; border-radius:8px; font-size:13px; color:#93c5fd;"></div>
    </div>
    <div class="section">
        <div class="section-title">Recent Events (Last 20)</div>
        <table><thead><tr><th>Event Type</th><th>Call ID</th><th>Data</th><th>Timestamp</th></tr></thead><tbody id="events-table"></tbody></table>
    </div>
    <div class="section" style="display:grid; grid-template-columns: repeat(3, 1fr); gap: 20px;">
        <div><div class="section-title">Total Events</div><div id="total-events">0</div></div>
        <div><div class="section-title">Active Calls</div><div id="total-calls">0</div></div>
        <div><div class="section-title">Last Update</div><div id="last-update">--:--:--</div></div>
    </div>
    <script>
        async function fetchData() {
            try {
                const [data, summary] = await Promise.all([fetch('/api/live-data').then(r => r.json()), fetch('/api/call-summary').then(r => r.json())]);
                document.getElementById('total-events').textContent = data.stats?.total_events ?? 0;
                document.getElementById('total-calls').textContent = data.stats?.total_calls ?? 0;
                document.getElementById('last-update').textContent = new Date().toLocaleTimeString();
                document.getElementById('events-table').innerHTML = (data.recent_events || []).map(e => '<tr><td><span class="badge">' + e.event_type + '</span></td><td><code>' + e.call_id + '</code></td><td style="font-size:12px">' + (typeof e.payload === 'string' ? e.payload.substring(0, 80) : JSON.stringify(e.payload).substring(0, 80)) + '</td><td>' + new Date(e.timestamp).toLocaleString() + '</td></tr>').join('');
                const carrier = document.getElementById('summary-carrier'), load = document.getElementById('summary-load'), outcome = document.getElementById('summary-outcome'), sentiment = document.getElementById('summary-sentiment'), hint = document.getElementById('summary-call-id-hint');
                if (summary && summary.call_id) {
                    carrier.textContent = summary.carrier_summary || 'No carrier data yet.';
                    load.textContent = summary.load_summary || 'No load data yet.';
                    outcome.textContent = summary.outcome_summary || 'No negotiation outcome yet.';
                    sentiment.textContent = summary.sentiment_summary || 'No sentiment captured yet.';
                    if (summary.call_id_hint && hint) { hint.textContent = '⚠️ ' + summary.call_id_hint; hint.style.display = 'block'; } else if (hint) hint.style.display = 'none';
                } else {
                    carrier.textContent = 'No calls yet.';
                    load.textContent = 'No load data yet.';
                    outcome.textContent = 'No negotiation outcome yet.';
                    sentiment.textContent = 'No sentiment captured yet.';
                    if (hint) hint.style.display = 'none';
                }
            } catch (e) { console.error(e); }
        }
        setInterval(fetchData, 2000);
        fetchData();
    </script>
</body>
</html>
`
