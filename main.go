package main

import (
	"fmt"
	log "log/slog"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/mrlauy/alexa-ablecloud/ablecloud"
	"github.com/mrlauy/alexa-ablecloud/config"
	"github.com/mrlauy/alexa-ablecloud/mqtt"
	"github.com/mrlauy/alexa-ablecloud/skill"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.ReadConfig()
	if err != nil {
		log.Error("failed to start", "error", err)
		os.Exit(1)
	}
	config.InitLogging(cfg.Log.Level)

	bridge := ablecloud.New(cfg.Cloud)

	var reporter skill.MessageHandler
	if cfg.Mqtt.Enabled {
		client, err := mqtt.NewMqtt(cfg.Mqtt)
		if err != nil {
			log.Error("failed to start", "error", err)
			os.Exit(1)
		}
		defer client.Close()
		reporter = client
	}

	alexa, err := skill.NewSkill(cfg.Skill, cfg.Devices, bridge, reporter)
	if err != nil {
		log.Error("failed to start", "error", err)
		os.Exit(1)
	}

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Info("start server", "address", address, "cloud", bridge.Endpoint().Host)

	err = http.ListenAndServe(address, newRouter(alexa))
	log.Error("server stopped", "error", err)
}

func newRouter(alexa *skill.Skill) *mux.Router {
	router := mux.NewRouter()
	router.Use(loggingMiddleware)

	router.HandleFunc("/", HomeHandler).Methods("GET")
	router.HandleFunc("/alexa", alexa.Handler).Methods("POST")
	router.HandleFunc("/devices/{device}/state", alexa.StateHandler).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	return router
}

func HomeHandler(w http.ResponseWriter, r *http.Request) {
	fmt.Fprintf(w, "<h1>hello<h1>")
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Debug("request", "method", r.Method, "uri", r.RequestURI, "remote", r.RemoteAddr)
		next.ServeHTTP(w, r)
	})
}
