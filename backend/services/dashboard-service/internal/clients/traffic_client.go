package clients

import "context"

// TrafficClient calls the traffic analysis workflow.
type TrafficClient struct {
	base *WebhookClient
}

// NewTrafficClient returns client instance.
func NewTrafficClient(url string, httpClient HTTPDoer) *TrafficClient {
	return &TrafficClient{base: NewWebhookClient(url, httpClient)}
}

// Analyze posts {"location": location} and returns the raw reply.
func (c *TrafficClient) Analyze(ctx context.Context, location string) ([]byte, error) {
	return c.base.PostJSON(ctx, map[string]string{"location": location})
}
