package main

import (
	"fmt"
	"os"
	"strconv"

	"utxo-lens/pkg/logger"
	"utxo-lens/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// defaultMaxBodyBytes caps the size of a posted document
const defaultMaxBodyBytes = 32 << 20

func main() {
	// Get port from environment or default to 3000
	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	log := logger.New("utxo-lens-web", logger.Options{
		Level:  os.Getenv("LOG_LEVEL"),
		Pretty: os.Getenv("PRETTY_LOGS") != "",
	})

	maxBody := int64(defaultMaxBodyBytes)
	if v := os.Getenv("MAX_BODY_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n <= 0 {
			log.Fatal().Str("MAX_BODY_BYTES", v).Msg("invalid body size limit")
		}
		maxBody = n
	}

	gin.SetMode(gin.ReleaseMode)
	r := newRouter(&server{
		log:          log,
		metrics:      metrics.New(),
		maxBodyBytes: maxBody,
	})

	// Print URL and start server
	fmt.Printf("http://127.0.0.1:%s\n", port)
	log.Info().Str("port", port).Int64("max_body_bytes", maxBody).Msg("starting server")
	if err := r.Run(":" + port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
