// Command spectator follows a served contest over the websocket feed and
// prints each log entry as it arrives.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gorilla/websocket"

	"github.com/talgya/tribute-arena/internal/engine"
)

func main() {
	url := flag.String("url", "ws://localhost:8080/api/v1/stream", "websocket feed URL")
	deathsOnly := flag.Bool("deaths", false, "only print entries in which someone dies")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backoff := time.Second
	for {
		start := time.Now()
		err := follow(ctx, *url, *deathsOnly)
		if ctx.Err() != nil {
			fmt.Println("Spectator left.")
			return
		}
		if time.Since(start) > time.Minute {
			backoff = time.Second
		}
		slog.Warn("feed lost, reconnecting", "error", err, "backoff", backoff)
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return
		}
		backoff = min(backoff*2, 30*time.Second)
	}
}

// follow reads entries until the connection drops or ctx is cancelled.
func follow(ctx context.Context, url string, deathsOnly bool) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", url, err)
	}
	defer conn.Close()
	slog.Info("connected", "url", url)

	go func() {
		<-ctx.Done()
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
		conn.Close()
	}()

	seen := 0
	since := time.Now()
	for {
		var e engine.LogEntry
		if err := conn.ReadJSON(&e); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				return errors.New("server closed the feed")
			}
			return err
		}
		seen++
		if deathsOnly && len(e.DeathNames) == 0 {
			continue
		}
		fmt.Printf("%-14s %s\n", heading(e), e.Text)
		if len(e.DeathNames) > 0 {
			fmt.Printf("%-14s cannon fire for %s (%s watched, connected %s)\n", "",
				strings.Join(e.DeathNames, ", "), humanize.Comma(int64(seen)), humanize.Time(since))
		}
	}
}

func heading(e engine.LogEntry) string {
	if e.Day == 0 {
		return "[" + e.PhaseName + "]"
	}
	return fmt.Sprintf("[%s %d]", e.PhaseName, e.Day)
}
