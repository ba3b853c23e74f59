package signature

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"resty.dev/v3"
)

// nolint:gochecknoglobals
var log = logrus.WithField("layer", "signature").WithField("package", "signature")

const verifyPath = "/v1/verify"

type verifyRequest struct {
	Wallet    string `json:"wallet"`
	Hash      string `json:"hash"`
	Signature string `json:"signature"`
}

type verifyResponse struct {
	Valid bool `json:"valid"`
}

// Remote asks an external verifier whether the signature is valid.
type Remote struct {
	client *resty.Client
}

// NewRemote returns Validator backed by the verifier located at baseURL.
func NewRemote(baseURL string, timeout time.Duration) *Remote {
	client := resty.NewWithTransportSettings(&resty.TransportSettings{
		DialerTimeout:         timeout,
		IdleConnTimeout:       time.Minute,
		TLSHandshakeTimeout:   timeout,
		ResponseHeaderTimeout: timeout,
	})
	client.SetBaseURL(baseURL)
	client.SetTimeout(timeout)

	return &Remote{
		client: client,
	}
}

// Close releases idle connections.
func (r *Remote) Close() error {
	return r.client.Close()
}

// Validate ...
func (r *Remote) Validate(ctx context.Context, wallet string, payload interface{}, signature string, excluded []string) (bool, error) {
	if signature == "" {
		return false, nil
	}

	hash, err := Digest(payload, excluded)
	if err != nil {
		return false, err
	}

	res, err := r.client.R().
		WithContext(ctx).
		SetBody(verifyRequest{Wallet: wallet, Hash: hash, Signature: signature}).
		SetResult(&verifyResponse{}).
		Post(verifyPath)
	if err != nil {
		return false, fmt.Errorf("failed to request verifier: %w", err)
	}

	if res.StatusCode() != http.StatusOK {
		log.WithField("status", res.StatusCode()).WithField("body", res.String()).Error("verifier responded with error")
		return false, fmt.Errorf("verifier responded with %d", res.StatusCode())
	}

	return res.Result().(*verifyResponse).Valid, nil // nolint:forcetypeassert
}

// Digest ...
func (r *Remote) Digest(payload interface{}, excluded []string) (string, error) {
	return Digest(payload, excluded)
}

// Trusting accepts every non-empty signature. It is used in test mode only.
type Trusting struct{}

// Validate ...
func (Trusting) Validate(_ context.Context, _ string, _ interface{}, signature string, _ []string) (bool, error) {
	return signature != "", nil
}

// Digest ...
func (Trusting) Digest(payload interface{}, excluded []string) (string, error) {
	return Digest(payload, excluded)
}
