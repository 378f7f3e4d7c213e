package main

import (
	"strconv"

	"github.com/brensch/gridbeam/game"
)

const episodeTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>gridbeam seed {{.Seed}}</title>
<style>
td { width: 1.4em; height: 1.4em; text-align: center; font-family: monospace; }
td.agent { background: #f5d76e; font-weight: bold; }
td.high { color: #1e8449; }
td.low { color: #2e86c1; }
td.empty { color: #bbb; }
</style>
</head>
<body>
<h1>Seed {{.Seed}}</h1>
<p class="meta">turn <span id="turn">{{.Turn}}</span>/<span id="end-turn">{{.EndTurn}}</span>, score <span id="score">{{.Score}}</span></p>
<table id="board">
{{- range .Rows}}
<tr>{{range .}}<td class="{{.Class}}">{{.Text}}</td>{{end}}</tr>
{{- end}}
</table>
{{- if .Actor}}
<h2>Played by <span id="actor">{{.Actor}}</span></h2>
<table id="steps">
<tr><th>turn</th><th>action</th><th>score</th></tr>
{{- range .Steps}}
<tr class="step"><td>{{.Turn}}</td><td>{{.Action}}</td><td>{{.Score}}</td></tr>
{{- end}}
</table>
<p>final score <span id="final-score">{{.FinalScore}}</span></p>
{{- end}}
</body>
</html>
`

type cellView struct {
	Class string
	Text  string
}

type stepView struct {
	Turn   int
	Action string
	Score  int
}

type episodeView struct {
	Seed       int64
	Turn       int
	EndTurn    int
	Score      int
	Rows       [][]cellView
	Actor      string
	Steps      []stepView
	FinalScore int
}

func cellRows(s *game.MazeState) [][]cellView {
	rows := make([][]cellView, s.Height)
	for y := range rows {
		rows[y] = make([]cellView, s.Width)
		for x := range rows[y] {
			c := game.Coord{X: x, Y: y}
			r := s.RewardAt(c)
			cell := cellView{Class: "empty", Text: strconv.Itoa(r)}
			switch {
			case c == s.Agent:
				cell = cellView{Class: "agent", Text: string(game.AgentGlyph)}
			case r >= 7:
				cell.Class = "high"
			case r > 0:
				cell.Class = "low"
			}
			rows[y][x] = cell
		}
	}
	return rows
}
