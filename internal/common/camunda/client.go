// internal/common/camunda/client.go
package camunda

import (
	"context"
	"fmt"
	"strings"
	"time"

	"member-registration/internal/common/errors"

	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
)

// Client wraps the Zeebe gRPC client used to start registration processes.
type Client struct {
	client zbc.Client
	config *ClientConfig
}

// ClientConfig holds configuration for the Camunda/Zeebe client.
type ClientConfig struct {
	GatewayAddress         string
	UsePlaintextConnection bool
	ConnectionTimeout      time.Duration
	RequestTimeout         time.Duration
}

// NewClient creates a new Camunda client with default configuration.
func NewClient(address string) (*Client, error) {
	return NewClientWithConfig(&ClientConfig{
		GatewayAddress:         address,
		UsePlaintextConnection: true,
		ConnectionTimeout:      10 * time.Second,
		RequestTimeout:         30 * time.Second,
	})
}

// NewClientWithConfig creates a Camunda client and verifies the broker answers
// a topology request before returning.
func NewClientWithConfig(config *ClientConfig) (*Client, error) {
	zeebeClient, err := zbc.NewClient(&zbc.ClientConfig{
		GatewayAddress:         config.GatewayAddress,
		UsePlaintextConnection: config.UsePlaintextConnection,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Zeebe client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.ConnectionTimeout)
	defer cancel()

	if _, err := zeebeClient.NewTopologyCommand().Send(ctx); err != nil {
		zeebeClient.Close()
		return nil, fmt.Errorf("failed to connect to Zeebe broker at %s: %w", config.GatewayAddress, err)
	}

	return &Client{
		client: zeebeClient,
		config: config,
	}, nil
}

// Close releases the underlying gRPC connection.
func (c *Client) Close() error {
	return c.client.Close()
}

// StartProcess creates an instance of the latest deployed version of
// processID with variables and returns its key. It is attempted exactly once.
func (c *Client) StartProcess(ctx context.Context, processID string, variables interface{}) (int64, error) {
	if c.config.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.RequestTimeout)
		defer cancel()
	}

	cmd, err := c.client.NewCreateInstanceCommand().
		BPMNProcessId(processID).
		LatestVersion().
		VariablesFromObject(variables)
	if err != nil {
		return 0, errors.NewInternalError(fmt.Errorf("encode process variables: %w", err))
	}

	resp, err := cmd.Send(ctx)
	if err != nil {
		return 0, mapZeebeError(err, "create-instance:"+processID)
	}
	return resp.GetProcessInstanceKey(), nil
}

// HealthCheck performs a basic health check against the Zeebe broker.
func (c *Client) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.config.ConnectionTimeout)
	defer cancel()

	if _, err := c.client.NewTopologyCommand().Send(ctx); err != nil {
		return fmt.Errorf("zeebe health check failed: %w", err)
	}
	return nil
}

// isTransientZeebeError checks if the error looks like lost connectivity.
func isTransientZeebeError(err error) bool {
	msg := strings.ToLower(err.Error())
	transientPhrases := []string{
		"connection refused",
		"connection reset",
		"timeout",
		"deadline exceeded",
		"unavailable",
		"unreachable",
		"broken pipe",
	}
	for _, phrase := range transientPhrases {
		if strings.Contains(msg, phrase) {
			return true
		}
	}
	return false
}

// mapZeebeError converts Zeebe errors into submission errors.
func mapZeebeError(err error, operation string) error {
	wrapped := fmt.Errorf("zeebe operation '%s' failed: %w", operation, err)
	if isTransientZeebeError(err) {
		return errors.NewSubmissionNetworkFailedError(wrapped)
	}

	rejected := errors.NewSubmissionRejectedError(0, "")
	rejected.Details = wrapped.Error()
	if strings.Contains(strings.ToLower(err.Error()), "not found") {
		rejected.WithMetadata("reason", "process_not_deployed")
	}
	return rejected
}
