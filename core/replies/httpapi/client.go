package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/jinzhu/copier"
	"github.com/koscakluka/tonechat/core/replies"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const processSpeechPath = "/process-speech"

// StatusError is returned when the endpoint answers with a non-success
// status. The body is not inspected.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server responded with status %d", e.StatusCode)
}

// Client talks to the speech processing endpoint. The request is not bounded
// by a timeout, only by the context passed to ProcessSpeech.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

type ClientOption func(*Client)

func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// NewClient creates a client for the endpoint served under baseURL.
func NewClient(baseURL string, opts ...ClientOption) (*Client, error) {
	endpoint, err := url.JoinPath(baseURL, processSpeechPath)
	if err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", baseURL, err)
	}

	c := &Client{
		endpoint: endpoint,
		httpClient: &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport,
			otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
				return r.Method + " " + r.URL.Path
			}),
		)},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type requestBody struct {
	Text string `json:"text" jsonschema:"title=Text,description=Finalized transcript of one utterance"`
}

type responseBody struct {
	Tone     string `json:"tone" jsonschema:"title=Tone,description=Detected tone of the utterance; surrounding whitespace is ignored"`
	Response string `json:"response" jsonschema:"title=Response,description=Reply to display and speak"`
}

// ProcessSpeech sends a finalized transcript and returns the endpoint's reply.
func (c *Client) ProcessSpeech(ctx context.Context, text string) (replies.Reply, error) {
	ctx, span := tracer.Start(ctx, "process speech")
	defer span.End()
	span.SetAttributes(attribute.Int("speech.text_length", len(text)))

	reply, err := c.processSpeech(ctx, text)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return replies.Reply{}, err
	}

	span.SetAttributes(attribute.String("speech.tone", reply.DisplayTone()))
	return reply, nil
}

func (c *Client) processSpeech(ctx context.Context, text string) (replies.Reply, error) {
	requestBodyBytes, err := json.Marshal(requestBody{Text: text})
	if err != nil {
		return replies.Reply{}, fmt.Errorf("error marshalling JSON: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(requestBodyBytes))
	if err != nil {
		return replies.Reply{}, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return replies.Reply{}, fmt.Errorf("error sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return replies.Reply{}, &StatusError{StatusCode: resp.StatusCode}
	}

	var body responseBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return replies.Reply{}, fmt.Errorf("error decoding response: %w", err)
	}

	var reply replies.Reply
	if err := copier.Copy(&reply, &body); err != nil {
		return replies.Reply{}, fmt.Errorf("error converting response: %w", err)
	}
	logger.DebugContext(ctx, "speech processed", "tone", reply.DisplayTone())
	return reply, nil
}
