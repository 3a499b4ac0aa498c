package httpapi

import "net/http"

const indexHTML = `<!doctype html>
<html>
<head><title>Kyle's Story Archive</title></head>
<body>
<h1>&#127917; Kyle's Story Archive</h1>
<p>Features:</p>
<ul>
  <li>&#127912; Scene Comics - Visual story panels</li>
  <li>&#127942; Story Based Rewards - Tiered progress milestones</li>
  <li>&#128522; Visualized Emotions - Keyword emotion detection</li>
  <li>&#127758; Rich World Context - Dynamic environmental snapshots</li>
  <li>&#129504; Character User Memory - Limited memory system</li>
  <li>&#127994; Minted Mementos - Collectible story objects</li>
</ul>
</body>
</html>
`

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(indexHTML))
}
