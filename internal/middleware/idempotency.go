package middleware

import (
	"bufio"
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"menuhub/internal/caching"
	"menuhub/internal/common"
	"menuhub/internal/logging"

	"github.com/labstack/echo/v4"
)

const IdempotencyKeyHeader = "Idempotency-Key"

// inFlightTTL bounds how long a crashed request can hold its key.
const inFlightTTL = 30 * time.Second

type idempotencyRecord struct {
	Status      int               `json:"status"`
	Body        string            `json:"body"`
	Headers     map[string]string `json:"headers,omitempty"`
	RequestHash string            `json:"request_hash"`
	InFlight    bool              `json:"in_flight,omitempty"`
}

// Idempotency replays the stored response when a create request is retried
// with the same Idempotency-Key and body. A reused key with a different body
// is rejected with 409, as is a retry that arrives while the first request is
// still running. Requests without the header, or arriving while the cache is
// unreachable, go straight through.
func Idempotency(store caching.CacheService, ttl time.Duration) echo.MiddlewareFunc {
	reserveTTL := inFlightTTL
	if ttl > 0 && ttl < reserveTTL {
		reserveTTL = ttl
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			idempotencyKey := strings.TrimSpace(c.Request().Header.Get(IdempotencyKeyHeader))
			if store == nil || idempotencyKey == "" {
				return next(c)
			}

			req := c.Request()
			ctx := req.Context()
			logger := logging.FromContext(ctx)

			body, err := io.ReadAll(req.Body)
			if err != nil {
				return common.SendClientError(c, "Invalid request body")
			}
			req.Body = io.NopCloser(bytes.NewReader(body))

			requestHash := hashBody(body)
			key := store.IdempotencyKey(buildScope(c, body), idempotencyKey)

			stored, err := store.GetIdempotencyRecord(ctx, key)
			if err != nil {
				logger.Warn().Err(err).Msg("idempotency lookup failed, processing request normally")
				return next(c)
			}
			if stored != "" {
				return answerFromRecord(c, stored, requestHash, next)
			}

			placeholder, err := json.Marshal(idempotencyRecord{RequestHash: requestHash, InFlight: true})
			if err != nil {
				logger.Error().Err(err).Msg("marshal idempotency placeholder")
				return next(c)
			}
			reserved, err := store.ReserveIdempotencyKey(ctx, key, string(placeholder), reserveTTL)
			if err != nil {
				logger.Warn().Err(err).Msg("idempotency reservation failed, processing request normally")
				return next(c)
			}
			if !reserved {
				// Lost the race to a concurrent request with the same key.
				stored, err = store.GetIdempotencyRecord(ctx, key)
				if err != nil || stored == "" {
					return next(c)
				}
				return answerFromRecord(c, stored, requestHash, next)
			}

			capture := &responseCapture{ResponseWriter: c.Response().Writer}
			c.Response().Writer = capture
			handlerErr := next(c)

			status := c.Response().Status
			if handlerErr != nil || status >= http.StatusInternalServerError {
				if err := store.DeleteIdempotencyRecord(ctx, key); err != nil {
					logger.Warn().Err(err).Msg("release idempotency key")
				}
				return handlerErr
			}

			record := idempotencyRecord{
				Status:      status,
				Body:        base64.StdEncoding.EncodeToString(capture.body.Bytes()),
				RequestHash: requestHash,
			}
			if ct := c.Response().Header().Get(echo.HeaderContentType); ct != "" {
				record.Headers = map[string]string{echo.HeaderContentType: ct}
			}

			payload, err := json.Marshal(record)
			if err != nil {
				logger.Error().Err(err).Msg("marshal idempotency record")
				_ = store.DeleteIdempotencyRecord(ctx, key)
				return nil
			}
			if err := store.PutIdempotencyRecord(ctx, key, string(payload), ttl); err != nil {
				logger.Warn().Err(err).Msg("persist idempotency record")
			}
			return nil
		}
	}
}

func answerFromRecord(c echo.Context, stored, requestHash string, next echo.HandlerFunc) error {
	record, err := decodeRecord(stored)
	if err != nil {
		logging.FromContext(c.Request().Context()).Warn().Err(err).Msg("discarding unreadable idempotency record")
		return next(c)
	}
	if record.RequestHash != requestHash {
		return common.SendFailure(c, http.StatusConflict, "Idempotency key reused with a different request body", "")
	}
	if record.InFlight {
		return common.SendFailure(c, http.StatusConflict, "A request with this idempotency key is still in progress", "")
	}
	c.Response().Header().Set("Idempotent-Replayed", "true")
	return writeStoredResponse(c, record)
}

// buildScope keys records by tenant, method and path. Routes that carry the
// tenant in the body instead of the token fall back to its company_id.
func buildScope(c echo.Context, body []byte) string {
	tenantID, _ := common.GetTenantIDFromContext(c.Request().Context())
	if tenantID == "" {
		var peek struct {
			CompanyID string `json:"company_id"`
		}
		if json.Unmarshal(body, &peek) == nil {
			tenantID = peek.CompanyID
		}
	}
	return strings.Join([]string{tenantID, c.Request().Method, c.Request().URL.Path}, "|")
}

func decodeRecord(payload string) (*idempotencyRecord, error) {
	var record idempotencyRecord
	if err := json.Unmarshal([]byte(payload), &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func writeStoredResponse(c echo.Context, record *idempotencyRecord) error {
	body, err := base64.StdEncoding.DecodeString(record.Body)
	if err != nil {
		return err
	}
	contentType := record.Headers[echo.HeaderContentType]
	if contentType == "" {
		contentType = echo.MIMEApplicationJSON
	}
	return c.Blob(record.Status, contentType, body)
}

func hashBody(payload []byte) string {
	sum := sha256.Sum256(payload)
	return base64.StdEncoding.EncodeToString(sum[:])
}

type responseCapture struct {
	http.ResponseWriter
	body bytes.Buffer
}

func (r *responseCapture) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

func (r *responseCapture) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (r *responseCapture) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	return http.NewResponseController(r.ResponseWriter).Hijack()
}
