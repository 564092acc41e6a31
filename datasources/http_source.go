/*
SPDX-License-Identifier: Apache-2.0

Copyright 2024 The Taxinomia Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    https://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package datasources

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/tabula/core/logger"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

var remoteRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "tabula_remote_requests_total",
	Help: "Requests sent to remote collections by operation and status",
}, []string{"op", "status"})

// HTTPSource is a Source backed by a JSON collection endpoint.
type HTTPSource struct {
	apiURL  string
	client  *http.Client
	limiter *rate.Limiter
}

// Option configures an HTTPSource.
type Option func(*HTTPSource)

// WithHTTPClient replaces the default client.
func WithHTTPClient(c *http.Client) Option {
	return func(s *HTTPSource) {
		s.client = c
	}
}

// WithRateLimit caps the request rate to the collection. A zero limit
// disables limiting.
func WithRateLimit(limit float64, burst int) Option {
	return func(s *HTTPSource) {
		if limit <= 0 {
			s.limiter = nil
			return
		}
		if burst <= 0 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(limit), burst)
	}
}

// NewHTTPSource returns a source for apiURL.
func NewHTTPSource(apiURL string, opts ...Option) *HTTPSource {
	s := &HTTPSource{
		apiURL: strings.TrimSuffix(apiURL, "/"),
		client: &http.Client{Timeout: 5 * time.Second,
			Transport: &http.Transport{MaxIdleConns: 20, MaxConnsPerHost: 10, IdleConnTimeout: 20 * time.Second}},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Fetch implements Source.
func (s *HTTPSource) Fetch(ctx context.Context) (*Collection, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.apiURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build fetch request")
	}
	resp, err := s.do(req, "fetch")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	collection, err := DecodeCollection(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "fetch %s", s.apiURL)
	}
	return collection, nil
}

// Delete implements Source.
func (s *HTTPSource) Delete(ctx context.Context, key string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, s.apiURL+"/"+url.PathEscape(key), nil)
	if err != nil {
		return errors.Wrap(err, "failed to build delete request")
	}
	resp, err := s.do(req, "delete")
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

// Create implements Source. The response body must be JSON; an empty body is
// an error.
func (s *HTTPSource) Create(ctx context.Context, payload map[string]any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, "failed to encode payload")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "failed to build create request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.do(req, "create")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "failed to read create response")
	}
	if !json.Valid(respBody) {
		return errors.New("create response is not valid JSON")
	}
	return nil
}

// do sends req and turns non-2xx answers into *StatusError. The caller owns
// the returned body.
func (s *HTTPSource) do(req *http.Request, op string) (*http.Response, error) {
	log := logger.Log.WithFields(logrus.Fields{"op": op, "url": req.URL.String()})

	if s.limiter != nil {
		if err := s.limiter.Wait(req.Context()); err != nil {
			return nil, errors.Wrap(err, "rate limit wait")
		}
	}

	resp, err := s.client.Do(req)
	if err != nil {
		remoteRequests.WithLabelValues(op, "network_error").Inc()
		log.WithError(err).Error("request failed")
		return nil, errors.Wrapf(err, "%s %s", req.Method, req.URL)
	}
	remoteRequests.WithLabelValues(op, strconv.Itoa(resp.StatusCode)).Inc()

	if !IsSuccess(resp.StatusCode) {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		log.WithField("status", resp.StatusCode).Error("unexpected status")
		return nil, &StatusError{Op: op, Status: resp.StatusCode}
	}
	log.WithField("status", resp.StatusCode).Debug("request done")
	return resp, nil
}
