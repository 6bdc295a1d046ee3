package samgov

import (
	"fmt"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/openprocure/samsync/src/utils/build_info"
	"github.com/openprocure/samsync/src/utils/config"
	"github.com/openprocure/samsync/src/utils/logger"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

type BaseClient struct {
	client *resty.Client
	config *config.Config
	log    *logrus.Entry

	// State
	mtx      sync.RWMutex
	limiters map[string]*rate.Limiter
}

func newBaseClient(config *config.Config) (self *BaseClient) {
	self = new(BaseClient)
	self.config = config
	self.log = logger.NewSublogger("samgov-client")

	self.limiters = make(map[string]*rate.Limiter)

	self.client =
		resty.New().
			SetBaseURL(self.config.Samgov.Url).
			SetTimeout(self.config.Samgov.RequestTimeout).
			SetHeader("User-Agent", "samsync/"+build_info.Version).
			SetHeader("Content-Type", "application/json").
			SetRetryCount(1).
			SetLogger(NewLogger()).
			SetTransport(self.createTransport()).
			AddRetryCondition(self.onRetryCondition).
			AddRetryAfterErrorCondition().
			OnBeforeRequest(self.onRateLimit).
			OnAfterResponse(self.onStatusToError)

	return
}

func (self *BaseClient) createTransport() *http.Transport {
	dialer := &net.Dialer{
		Timeout:   self.config.Samgov.DialerTimeout,
		KeepAlive: self.config.Samgov.DialerKeepAlive,
		DualStack: true,
	}

	return &http.Transport{
		ForceAttemptHTTP2: true,

		DialContext:           dialer.DialContext,
		TLSHandshakeTimeout:   self.config.Samgov.TLSHandshakeTimeout,
		ExpectContinueTimeout: 1 * time.Second,

		// sam.gov drops idle connections without closing them,
		// resulting in: context deadline exceeded while awaiting headers
		IdleConnTimeout:     self.config.Samgov.IdleConnTimeout,
		MaxIdleConns:        1,
		MaxIdleConnsPerHost: 1,
	}
}

// Maps a non-success status code to an error.
// Access-restricted opportunities answer 401 or 403, those get their own
// sentinel so callers can treat them as an expected outcome.
func (self *BaseClient) onStatusToError(c *resty.Client, resp *resty.Response) error {
	if resp.IsSuccess() {
		return nil
	}
	if resp.StatusCode() > 399 && resp.StatusCode() < 500 {
		self.log.WithField("status", resp.StatusCode()).
			WithField("resp", string(resp.Body())).
			WithField("url", resp.Request.URL).
			Debug("Bad request")
	}

	switch resp.StatusCode() {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrPermissionDenied, resp.Status())
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, resp.Status())
	default:
		return fmt.Errorf("%w: unexpected status %s", ErrBadResponse, resp.Status())
	}
}

// Returns true if request should be retried
func (self *BaseClient) onRetryCondition(resp *resty.Response, err error) bool {
	if err != nil {
		// Transport errors are handled by the after-error condition
		return false
	}

	if resp.IsSuccess() || !resp.IsError() {
		// OK response or redirect, skip retrying
		return false
	}

	// Error status code
	if resp.StatusCode() == http.StatusTooManyRequests {
		// Remote host receives too much requests, adjust rate limit
		url, err := url.ParseRequestURI(resp.Request.URL)
		if err == nil {
			self.decrementLimit(url.Host)
		}
		return false
	}

	// Server side errors may be retried
	return resp.StatusCode() >= 500
}

func (self *BaseClient) decrementLimit(peer string) {
	var (
		limiter *rate.Limiter
		ok      bool
	)

	self.mtx.Lock()
	defer self.mtx.Unlock()
	limiter, ok = self.limiters[peer]
	if !ok {
		return
	}

	self.log.WithField("peer", peer).Debug("Decreasing limit")

	limiter.SetLimit(limiter.Limit() * 0.999)
}

func (self *BaseClient) onRateLimit(c *resty.Client, req *resty.Request) (err error) {
	// Get the limiter, create it if needed
	var (
		limiter *rate.Limiter
		ok      bool
	)

	reqUrl, err := url.ParseRequestURI(c.BaseURL)
	if err != nil {
		return
	}

	self.mtx.Lock()
	limiter, ok = self.limiters[reqUrl.Host]
	if !ok {
		limiter = rate.NewLimiter(rate.Every(self.config.Samgov.LimiterInterval), self.config.Samgov.LimiterBurstSize)
		self.limiters[reqUrl.Host] = limiter
	}
	self.mtx.Unlock()

	// Blocks till the request is possible
	// Or ctx gets canceled
	err = limiter.Wait(req.Context())
	if err != nil {
		self.log.WithField("peer", reqUrl.Host).WithError(err).Error("Rate limiting failed")
	}
	return
}
