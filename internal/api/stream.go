package api

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"resort-picker/internal/models"
	"resort-picker/internal/progress"
	"resort-picker/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

// eventBuffer bounds how far the pipeline can run ahead of a slow SSE
// consumer before Emit blocks.
const eventBuffer = 64

// StreamRecommendations handles POST /api/v1/recommendations/stream.
// It runs the recommendation pipeline while relaying progress events as
// server-sent events, then ends the stream with exactly one terminal
// frame: a "result" on success or an "error" on failure.
func (h *Handler) StreamRecommendations(c *fiber.Ctx) error {
	req, err := h.parseRecommendationRequest(c)
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	// The fasthttp request context ends on connection close and server
	// shutdown; the run context derives from it below.
	reqCtx := c.Context()
	reqCtx.SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		h.streamRun(reqCtx, req, w)
	}))

	return nil
}

// streamRun drives one recommendation run over an open SSE stream. The
// run is cancelled when the parent context ends or a frame write fails;
// a cancelled run produces no terminal frame, since the client is gone.
func (h *Handler) streamRun(parent context.Context, req services.Request, w *bufio.Writer) {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	tracker := progress.NewTracker(ctx, eventBuffer)

	type outcome struct {
		response *models.RecommendationsResponse
		err      error
	}
	done := make(chan outcome, 1)

	go func() {
		response, err := h.recommender.Recommend(ctx, req, tracker)
		done <- outcome{response, err}
		tracker.Close()
	}()

	// A failed write means the client went away. Cancel the run but
	// keep draining so the producer can finish and close the channel.
	disconnected := false
	for ev := range tracker.Events() {
		if disconnected {
			continue
		}
		if err := writeSSE(w, "progress", ev); err != nil {
			h.logger.Debug("SSE client disconnected", zap.Error(err))
			disconnected = true
			cancel()
		}
	}

	out := <-done
	if disconnected {
		return
	}

	if out.err != nil {
		h.logger.Error("Streamed recommendation run failed", zap.Error(out.err))
		_ = writeSSE(w, "error", fiber.Map{"message": "failed to generate recommendations"})
		return
	}
	if err := writeSSE(w, "result", out.response); err != nil {
		h.logger.Debug("SSE client disconnected before result", zap.Error(err))
	}
}

// writeSSE writes one data-only SSE frame and flushes it so the client
// sees events as they happen.
func writeSSE(w *bufio.Writer, eventType string, data any) error {
	payload, err := json.Marshal(fiber.Map{"type": eventType, "data": data})
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
		return err
	}
	return w.Flush()
}
