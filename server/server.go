package main

import (
	"context"
	"errors"
	"html/template"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/brensch/gridbeam/executor/actor"
	"github.com/brensch/gridbeam/executor/search"
	"github.com/brensch/gridbeam/executor/selfplay"
	"github.com/brensch/gridbeam/game"
	"github.com/brensch/gridbeam/rules"
)

// episodeTimeout bounds one played episode on the episode routes.
const episodeTimeout = 30 * time.Second

// Server answers move requests with a beam search and plays episodes for
// the HTML and websocket views.
type Server struct {
	search      search.Config
	settings    game.Settings
	moveTimeout time.Duration
	archiveDir  string
	logger      *slog.Logger
	upgrader    websocket.Upgrader
}

// NewServer builds a server. The batch routes serve parquet files from
// archiveDir; with an empty archiveDir they report no batches.
func NewServer(defaults search.Config, settings game.Settings, moveTimeout time.Duration, archiveDir string, logger *slog.Logger) *Server {
	return &Server{
		search:      defaults,
		settings:    settings,
		moveTimeout: moveTimeout,
		archiveDir:  archiveDir,
		logger:      logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
	}
}

// Router builds the gin engine with every route under /v1.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(s.logger))
	router.SetHTMLTemplate(template.Must(template.New("episode").Parse(episodeTemplate)))

	v1 := router.Group("/v1")
	{
		v1.GET("/health", s.handleHealth)
		v1.POST("/move", s.handleMove)
		v1.GET("/episodes/:seed", s.handleEpisode)
		v1.GET("/episodes/:seed/stream", s.handleStream)
		v1.GET("/batches", s.handleBatches)
		v1.GET("/batches/:name", s.handleBatch)
	}
	return router
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"elapsed", time.Since(start),
		)
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"strategies": search.Strategies,
		"actors":     actor.Names(),
	})
}

// handleMove runs one search. The search is bounded by the move timeout; a
// time-bounded search never gets a budget above it.
func (s *Server) handleMove(c *gin.Context) {
	startTime := time.Now()

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)
	var req MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	state, err := req.state(s.settings)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	cfg, err := req.searchConfig(s.search)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	if cfg.Strategy.TimeBounded() && cfg.TimeBudget > s.moveTimeout {
		cfg.TimeBudget = s.moveTimeout
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.moveTimeout)
	defer cancel()

	res, err := search.SelectAction[*game.MazeState, game.Action](ctx, rules.Maze{}, state, cfg)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, context.DeadlineExceeded) {
			status = http.StatusGatewayTimeout
		}
		s.logger.Warn("search failed", "strategy", cfg.Strategy, "err", err)
		c.JSON(status, ErrorResponse{Error: err.Error()})
		return
	}

	action := game.NoAction
	if res.Found {
		action = res.Action
	}
	elapsed := time.Since(startTime)
	s.logger.Debug("move",
		"turn", state.Turn,
		"strategy", cfg.Strategy,
		"action", action.String(),
		"rounds", res.Rounds,
		"expanded", res.Expanded,
		"elapsed", elapsed,
	)

	c.JSON(http.StatusOK, MoveResponse{
		Action:    action.String(),
		ActionID:  int(action),
		Found:     res.Found,
		Score:     res.Score,
		Rounds:    res.Rounds,
		Expanded:  res.Expanded,
		TimedOut:  res.TimedOut,
		ElapsedUS: elapsed.Microseconds(),
	})
}

// episodeRequest parses the seed path parameter and the actor query shared
// by the episode endpoints.
func (s *Server) episodeRequest(c *gin.Context) (int64, ActorQuery, *game.MazeState, error) {
	seed, err := strconv.ParseInt(c.Param("seed"), 10, 64)
	if err != nil {
		return 0, ActorQuery{}, nil, err
	}
	var q ActorQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		return 0, ActorQuery{}, nil, err
	}
	if err := q.validate(); err != nil {
		return 0, ActorQuery{}, nil, err
	}
	start, err := game.New(seed, q.settings(s.settings))
	if err != nil {
		return 0, ActorQuery{}, nil, err
	}
	return seed, q, start, nil
}

func (s *Server) newActor(q ActorQuery, seed int64) (actor.Actor, error) {
	return actor.New(q.Actor, q.searchBase(s.search), rand.New(rand.NewPCG(uint64(seed), 0)), true)
}

// handleEpisode renders the start state for a seed and, with ?actor=, the
// episode that actor plays from it.
func (s *Server) handleEpisode(c *gin.Context) {
	seed, q, start, err := s.episodeRequest(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	view := episodeView{
		Seed:    seed,
		Turn:    start.Turn,
		EndTurn: start.EndTurn,
		Score:   start.GameScore,
		Rows:    cellRows(start),
	}
	if q.Actor != "" {
		act, err := s.newActor(q, seed)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), episodeTimeout)
		defer cancel()
		res, err := selfplay.Play(ctx, "", start, act, nil)
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, context.DeadlineExceeded) {
				status = http.StatusGatewayTimeout
			}
			c.JSON(status, ErrorResponse{Error: err.Error()})
			return
		}
		view.Actor = q.Actor
		view.FinalScore = res.FinalScore
		for i, a := range res.Actions {
			view.Steps = append(view.Steps, stepView{Turn: i, Action: a.String(), Score: res.Scores[i]})
		}
	}
	c.HTML(http.StatusOK, "episode", view)
}

// handleStream plays an episode and sends one frame for the start state, one
// per turn and a final "done" frame.
func (s *Server) handleStream(c *gin.Context) {
	seed, q, start, err := s.episodeRequest(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	if q.Actor == "" {
		q.Actor = string(s.search.Strategy)
	}
	act, err := s.newActor(q, seed)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(c.Request.Context(), episodeTimeout)
	defer cancel()

	var writeErr error
	send := func(f Frame) {
		if writeErr != nil {
			return
		}
		if writeErr = conn.WriteJSON(f); writeErr != nil {
			cancel()
		}
	}

	send(Frame{Type: "state", Turn: start.Turn, Agent: start.Agent, Score: start.GameScore, Board: boardLines(start)})
	res, err := selfplay.Play(ctx, "", start, act, func(st selfplay.Step) {
		send(Frame{
			Type:   "state",
			Turn:   st.State.Turn,
			Action: st.Action.String(),
			Agent:  st.State.Agent,
			Score:  st.State.GameScore,
			Board:  boardLines(st.State),
		})
	})
	if writeErr != nil {
		s.logger.Info("stream closed by client", "seed", seed, "err", writeErr)
		return
	}
	if err != nil {
		send(Frame{Type: "error", Turn: start.Turn + res.Turns, Score: res.FinalScore, Error: err.Error()})
	} else {
		send(Frame{Type: "done", Turn: start.Turn + res.Turns, Score: res.FinalScore})
	}
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
}
