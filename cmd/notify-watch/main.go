// notify-watch follows one actor's notification inbox from a terminal.
// SIGUSR1 hides the session (polling suspends), SIGUSR2 shows it again.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"devis_broker/internal/domain/entities"
	"devis_broker/internal/notifier"
)

func main() {
	baseURL := flag.String("base-url", envOrDefault("DEVIS_BASE_URL", "http://127.0.0.1:8080"), "broker API base URL")
	actorID := flag.String("actor", strings.TrimSpace(os.Getenv("DEVIS_ACTOR_ID")), "actor id sent as X-Actor-ID")
	rawRole := flag.String("role", envOrDefault("DEVIS_ACTOR_ROLE", string(entities.RoleCustomer)), "customer, forwarder or admin")
	base := flag.Duration("base-interval", durationEnv("DEVIS_POLL_BASE", 5*time.Second), "first poll interval and failure backoff start")
	steady := flag.Duration("steady-interval", durationEnv("DEVIS_POLL_STEADY", 30*time.Second), "poll interval after a successful fetch")
	ceiling := flag.Duration("max-interval", durationEnv("DEVIS_POLL_MAX", 5*time.Minute), "backoff ceiling")
	timeout := flag.Duration("timeout", durationEnv("DEVIS_POLL_TIMEOUT", 5*time.Second), "per-fetch timeout")
	limit := flag.Int("limit", intEnv("DEVIS_POLL_LIMIT", 20), "notifications fetched per list")
	flag.Parse()

	if *actorID == "" {
		log.Fatalf("actor is required (--actor or DEVIS_ACTOR_ID)")
	}
	role, ok := entities.ParseRole(*rawRole)
	if !ok {
		log.Fatalf("invalid role %q (customer, forwarder or admin)", *rawRole)
	}

	fetcher := notifier.NewHTTPFetcher(*baseURL, entities.Actor{ID: *actorID, Role: role}, &http.Client{Timeout: *timeout})
	poller := notifier.NewPoller(fetcher, notifier.Config{
		Backoff: notifier.BackoffConfig{
			Base:    *base,
			Steady:  *steady,
			Ceiling: *ceiling,
			Factor:  1.8,
		},
		FetchTimeout: *timeout,
		ListLimit:    *limit,
		Alerter: func(n notifier.Notification) {
			log.Printf("[notify] %s | %s", n.Title, n.Body)
		},
	})

	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	visibility := make(chan os.Signal, 1)
	signal.Notify(visibility, syscall.SIGUSR1, syscall.SIGUSR2)
	defer signal.Stop(visibility)

	log.Printf("watching notifications of %s %s at %s", role, *actorID, *baseURL)
	poller.Start(rootCtx)
	defer poller.Stop()

	for {
		select {
		case <-rootCtx.Done():
			log.Printf("notify-watch stopping: unread=%d", poller.UnreadCount())
			return
		case sig := <-visibility:
			poller.SetVisible(sig == syscall.SIGUSR2)
			log.Printf("session %s, unread=%d", poller.State(), poller.UnreadCount())
		}
	}
}

func envOrDefault(name, fallback string) string {
	value := strings.TrimSpace(os.Getenv(name))
	if value == "" {
		return fallback
	}
	return value
}

func durationEnv(name string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("invalid %s=%q, using fallback %s", name, raw, fallback.String())
		return fallback
	}
	return value
}

func intEnv(name string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("invalid %s=%q, using fallback %d", name, raw, fallback)
		return fallback
	}
	return value
}
