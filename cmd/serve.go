package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/laundrymap/enrich-cli/internal/job"
	"github.com/laundrymap/enrich-cli/internal/model"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the batch job HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		enricher, err := newEnricher()
		if err != nil {
			return err
		}
		controller := job.NewController(job.NewMemoryStore(), enricher, cfg.Enrich.ChunkSize)
		limiter := rate.NewLimiter(rate.Limit(cfg.Server.SubmitRateLimit), cfg.Server.SubmitBurst)

		mux := newServeMux(controller, limiter)

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: mux,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

// newServeMux wires the job API routes onto a fresh mux.
func newServeMux(controller *job.Controller, limiter *rate.Limiter) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	mux.HandleFunc("POST /enrich/jobs", func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			writeJSON(w, http.StatusTooManyRequests, map[string]any{
				"success": false, "message": "rate limit exceeded",
			})
			return
		}

		var req struct {
			FilePath   string `json:"filePath"`
			OutputPath string `json:"outputPath"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"success": false, "message": "invalid request body",
			})
			return
		}
		if req.FilePath == "" {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"success": false, "message": "filePath is required",
			})
			return
		}

		id, err := controller.Submit(req.FilePath, req.OutputPath)
		if err != nil {
			writeJSON(w, http.StatusNotFound, map[string]any{
				"success": false, "message": err.Error(),
			})
			return
		}

		writeJSON(w, http.StatusAccepted, map[string]any{
			"success": true,
			"message": "job accepted",
			"jobId":   id,
		})
	})

	mux.HandleFunc("GET /enrich/jobs/{id}", func(w http.ResponseWriter, r *http.Request) {
		j, err := controller.Status(r.PathValue("id"))
		if err != nil {
			writeJSON(w, http.StatusNotFound, map[string]any{
				"success": false, "message": "job not found",
			})
			return
		}
		writeJSON(w, http.StatusOK, jobStatusBody(j))
	})

	mux.HandleFunc("GET /enrich/jobs", func(w http.ResponseWriter, r *http.Request) {
		jobs := controller.List()
		out := make([]map[string]any, 0, len(jobs))
		for _, j := range jobs {
			out = append(out, jobStatusBody(j))
		}
		writeJSON(w, http.StatusOK, out)
	})

	return mux
}

// jobStatusBody shapes a job snapshot for the poll response.
func jobStatusBody(j *model.BatchJob) map[string]any {
	body := map[string]any{
		"jobId":     j.ID,
		"status":    j.Status,
		"progress":  j.Progress,
		"startTime": j.StartTime,
	}
	if j.Stats != nil {
		body["stats"] = j.Stats
	}
	if j.Error != "" {
		body["error"] = j.Error
	}
	if j.EndTime != nil {
		body["endTime"] = j.EndTime
	}
	return body
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
