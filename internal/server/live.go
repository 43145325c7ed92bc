package server

import (
	"context"
	"log/slog"

	"github.com/bornholm/searchbar/internal/logx"
	"github.com/bornholm/searchbar/pkg/searchbar"
	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

type liveRequest struct {
	Query string `json:"query"`
}

type liveResponse struct {
	Query string `json:"query"`
	HTML  string `json:"html"`
}

func (s *Server) handleLive(c *gin.Context) {
	conn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{
		OriginPatterns: s.opts.AllowedOrigins,
	})
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "could not accept websocket connection", slog.Any("error", errors.WithStack(err)))
		return
	}

	defer conn.CloseNow()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	if err := s.serveLive(ctx, conn); err != nil {
		slog.DebugContext(ctx, "live search session ended", slog.Any("error", err))
		return
	}

	conn.Close(websocket.StatusNormalClosure, "")
}

func (s *Server) serveLive(ctx context.Context, conn *websocket.Conn) error {
	doc, err := searchbar.NewDocument()
	if err != nil {
		return errors.WithStack(err)
	}

	// Only the latest rendering matters, older pending ones are replaced
	updates := make(chan liveResponse, 1)

	observer := func(ctx context.Context, evt searchbar.Event) {
		if evt.Type != searchbar.EventRendered && evt.Type != searchbar.EventCleared {
			return
		}

		markup, err := doc.ResultsHTML()
		if err != nil {
			slog.ErrorContext(ctx, "could not serialize results", slog.Any("error", errors.WithStack(err)))
			return
		}

		res := liveResponse{Query: evt.Query, HTML: markup}

		for {
			select {
			case updates <- res:
				return
			default:
			}

			select {
			case <-updates:
			default:
			}
		}
	}

	dispatcher := s.newDispatcher(doc, searchbar.WithObserver(observer))

	errs := make(chan error, 1)

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case res := <-updates:
				if err := wsjson.Write(ctx, conn, res); err != nil {
					errs <- errors.WithStack(err)
					return
				}
			}
		}
	}()

	slog.DebugContext(ctx, "live search session started")

	for {
		var req liveRequest

		if err := wsjson.Read(ctx, conn, &req); err != nil {
			if websocket.CloseStatus(err) == websocket.StatusNormalClosure || websocket.CloseStatus(err) == websocket.StatusGoingAway {
				return nil
			}

			return errors.WithStack(err)
		}

		select {
		case err := <-errs:
			return err
		default:
		}

		doc.SetQuery(req.Query)

		// Prepared in message order, searched concurrently
		search := dispatcher.Prepare(logx.WithAttrs(ctx, slog.String("query", req.Query)))

		go search()
	}
}
