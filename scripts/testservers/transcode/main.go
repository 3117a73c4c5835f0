// Command transcode is a stand-in for the work-item service, for trying volley
// against something local.
package main

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"net/http"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
)

type serverOptions struct {
	status     int
	delay      time.Duration
	jitter     time.Duration
	failRate   float64
	failStatus int
	token      string
}

type server struct {
	opts     serverOptions
	log      *logrus.Logger
	requests atomic.Int64
}

func main() {
	var opts serverOptions
	flags := pflag.NewFlagSet("transcode", pflag.ExitOnError)
	port := flags.Int("port", 8080, "Listening port")
	flags.IntVar(&opts.status, "status", http.StatusOK, "Status returned for every request")
	flags.DurationVar(&opts.delay, "delay", 0, "Delay before answering")
	flags.DurationVar(&opts.jitter, "jitter", 0, "Random extra delay up to this amount")
	flags.Float64Var(&opts.failRate, "fail-rate", 0, "Fraction of requests answered with --fail-status")
	flags.IntVar(&opts.failStatus, "fail-status", http.StatusInternalServerError, "Status used for injected failures")
	flags.StringVar(&opts.token, "token", "", "Require this bearer token when set")
	_ = flags.Parse(os.Args[1:])

	log := logrus.New()
	s := &server{opts: opts, log: log}

	addr := fmt.Sprintf(":%d", *port)
	log.WithField("addr", addr).Info("transcode test server listening")
	if err := http.ListenAndServe(addr, s.routes()); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}

func (s *server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/{collection}/{id}/{action}", s.handleAction)
	return mux
}

func (s *server) handleAction(w http.ResponseWriter, r *http.Request) {
	n := s.requests.Add(1)
	id := r.PathValue("id")

	if s.opts.token != "" && r.Header.Get("Authorization") != "Bearer "+s.opts.token {
		respondJSON(w, http.StatusUnauthorized, map[string]any{"error": "invalid credential"})
		return
	}

	delay := s.opts.delay
	if s.opts.jitter > 0 {
		delay += rand.N(s.opts.jitter)
	}
	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return
		}
	}

	status := s.opts.status
	if s.opts.failRate > 0 && rand.Float64() < s.opts.failRate {
		status = s.opts.failStatus
	}

	s.log.WithFields(logrus.Fields{
		"n":      n,
		"id":     id,
		"action": r.PathValue("action"),
		"status": status,
	}).Debug("request")

	respondJSON(w, status, map[string]any{
		"id":         id,
		"collection": r.PathValue("collection"),
		"action":     r.PathValue("action"),
		"state":      strings.ToLower(http.StatusText(status)),
	})
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
