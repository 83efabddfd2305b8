package main

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"utxo-lens/pkg/analyzer"
	"utxo-lens/pkg/metrics"
	"utxo-lens/pkg/types"
	"utxo-lens/pkg/validator"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// server holds the dependencies shared by the HTTP handlers
type server struct {
	log          zerolog.Logger
	metrics      *metrics.Metrics
	maxBodyBytes int64
}

func newRouter(s *server) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	// Enable CORS for browser clients
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		AllowCredentials: true,
	}))

	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	r.POST("/api/validate", s.handleValidate)
	r.POST("/api/analyze", s.handleAnalyze)
	r.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	r.GET("/", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(indexHTML))
	})

	return r
}

// requestLogger logs one line per request
func (s *server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		s.log.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	}
}

func (s *server) handleValidate(c *gin.Context) {
	body, status, fail := s.readBody(c)
	if fail != nil {
		c.JSON(status, types.ValidationOutput{OK: false, Error: fail})
		return
	}

	start := time.Now()

	if all, _ := strconv.ParseBool(c.Query("all")); all {
		snap, errs := validator.CheckAll(body)
		if len(errs) > 0 {
			s.metrics.Observe("validate", string(errs[0].Code), 0, time.Since(start))

			infos := make([]types.ErrorInfo, 0, len(errs))
			for _, e := range errs {
				infos = append(infos, errorInfo(e))
			}
			c.JSON(http.StatusBadRequest, types.ValidationOutput{OK: false, Error: &infos[0], Errors: infos})
			return
		}
		s.metrics.Observe("validate", metrics.ResultOK, snap.Len(), time.Since(start))
		c.JSON(http.StatusOK, types.ValidationOutput{OK: true, UTxOCount: snap.Len()})
		return
	}

	snap, err := validator.Check(body)
	if err != nil {
		s.metrics.Observe("validate", string(validator.CodeOf(err)), 0, time.Since(start))
		info := errorInfo(err)
		c.JSON(http.StatusBadRequest, types.ValidationOutput{OK: false, Error: &info})
		return
	}

	s.metrics.Observe("validate", metrics.ResultOK, snap.Len(), time.Since(start))
	c.JSON(http.StatusOK, types.ValidationOutput{OK: true, UTxOCount: snap.Len()})
}

func (s *server) handleAnalyze(c *gin.Context) {
	body, status, fail := s.readBody(c)
	if fail != nil {
		c.JSON(status, types.AnalysisOutput{OK: false, Error: fail})
		return
	}

	start := time.Now()
	snap, err := validator.Check(body)
	if err != nil {
		s.metrics.Observe("analyze", string(validator.CodeOf(err)), 0, time.Since(start))
		info := errorInfo(err)
		c.JSON(http.StatusBadRequest, types.AnalysisOutput{OK: false, Error: &info})
		return
	}

	report := analyzer.Analyze(snap)
	s.metrics.Observe("analyze", metrics.ResultOK, snap.Len(), time.Since(start))
	c.JSON(http.StatusOK, report)
}

// readBody reads the request body within the size limit. On failure it
// returns the response status and error for the caller's envelope.
func (s *server) readBody(c *gin.Context) ([]byte, int, *types.ErrorInfo) {
	if s.maxBodyBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxBodyBytes)
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		s.log.Warn().Err(err).Msg("failed to read request body")

		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, http.StatusRequestEntityTooLarge, &types.ErrorInfo{Code: "DOCUMENT_TOO_LARGE", Message: err.Error()}
		}
		return nil, http.StatusBadRequest, &types.ErrorInfo{Code: "INVALID_REQUEST", Message: "Failed to read request body"}
	}
	return body, http.StatusOK, nil
}

func errorInfo(err error) types.ErrorInfo {
	var verr *validator.ValidationError
	if errors.As(err, &verr) {
		return types.ErrorInfo{Code: string(verr.Code), Message: verr.Message, UTxO: verr.Ref}
	}
	return types.ErrorInfo{Code: "INTERNAL_ERROR", Message: err.Error()}
}

const indexHTML = `<!DOCTYPE html>
<html>
<head>
    <title>UTxO Lens - Initial UTxO Set Validator</title>
    <style>
        body { font-family: Arial, sans-serif; max-width: 800px; margin: 50px auto; padding: 20px; }
        h1 { color: #0033ad; }
        textarea { width: 100%; height: 240px; font-family: monospace; }
        button { background: #0033ad; color: white; padding: 10px 20px; border: none; cursor: pointer; }
        pre { background: #f5f5f5; padding: 15px; overflow-x: auto; }
    </style>
</head>
<body>
    <h1>UTxO Lens</h1>
    <p>Paste an initial UTxO set below:</p>
    <textarea id="input" placeholder='{"<tx hash>#0": {"address": "addr1...", "value": {"lovelace": 1000000}}}'></textarea>
    <br><br>
    <button onclick="send('/api/validate?all=true')">Validate</button>
    <button onclick="send('/api/analyze')">Analyze</button>
    <h2>Result:</h2>
    <pre id="output">Results will appear here...</pre>

    <script>
        async function send(path) {
            const input = document.getElementById('input').value;
            const output = document.getElementById('output');

            try {
                const response = await fetch(path, {
                    method: 'POST',
                    headers: {'Content-Type': 'application/json'},
                    body: input
                });
                const result = await response.json();
                output.textContent = JSON.stringify(result, null, 2);
            } catch (err) {
                output.textContent = 'Error: ' + err.message;
            }
        }
    </script>
</body>
</html>`
