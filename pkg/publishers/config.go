package publishers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Sink types.
const (
	TypeSQS    = "sqs"
	TypeSNS    = "sns"
	TypePubSub = "pubsub"
	TypeHTTP   = "http"
)

const defaultHTTPTimeout = 5 * time.Second

// sinksFile is the layout of the favourite sinks file.
type sinksFile struct {
	Sinks []SinkConfig `json:"sinks" yaml:"sinks"`
}

// SinkConfig declares one downstream that receives favourite events.
type SinkConfig struct {
	ID      string `json:"id" yaml:"id"`
	Type    string `json:"type" yaml:"type"`
	Enabled *bool  `json:"enabled" yaml:"enabled"`
	// Actions restricts delivery to these favourite actions. Empty means all.
	Actions []string `json:"actions" yaml:"actions"`

	SQS    *SQSConfig    `json:"sqs" yaml:"sqs"`
	SNS    *SNSConfig    `json:"sns" yaml:"sns"`
	PubSub *PubSubConfig `json:"pubsub" yaml:"pubsub"`
	HTTP   *HTTPConfig   `json:"http" yaml:"http"`
}

// SQSConfig targets a queue. Queues whose URL ends in ".fifo" get a message
// group and deduplication id per event.
type SQSConfig struct {
	QueueURL     string          `json:"queue_url" yaml:"queue_url"`
	Region       string          `json:"region" yaml:"region"`
	MessageGroup string          `json:"message_group" yaml:"message_group"`
	Credentials  *AWSCredentials `json:"credentials" yaml:"credentials"`
}

func (c *SQSConfig) fifo() bool {
	return strings.HasSuffix(c.QueueURL, ".fifo")
}

// SNSConfig targets a topic.
type SNSConfig struct {
	TopicARN    string          `json:"topic_arn" yaml:"topic_arn"`
	Region      string          `json:"region" yaml:"region"`
	Subject     string          `json:"subject" yaml:"subject"`
	Credentials *AWSCredentials `json:"credentials" yaml:"credentials"`
}

// PubSubConfig targets a Google Cloud Pub/Sub topic.
type PubSubConfig struct {
	ProjectID       string `json:"project_id" yaml:"project_id"`
	Topic           string `json:"topic" yaml:"topic"`
	CredentialsFile string `json:"credentials_file" yaml:"credentials_file"`
	Endpoint        string `json:"endpoint" yaml:"endpoint"`
}

// HTTPConfig targets a webhook.
type HTTPConfig struct {
	URL            string            `json:"url" yaml:"url"`
	Method         string            `json:"method" yaml:"method"`
	Headers        map[string]string `json:"headers" yaml:"headers"`
	TimeoutSeconds int               `json:"timeout_seconds" yaml:"timeout_seconds"`
}

func (c *HTTPConfig) timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return defaultHTTPTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// LoadSinks reads the favourite sinks file at path and returns the enabled
// sinks in declaration order. The extension picks the decoder; YAML is used
// when there is none.
func LoadSinks(path string) ([]SinkConfig, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("favourite sinks file path is empty")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read favourite sinks file: %w", err)
	}

	var file sinksFile
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		err = json.Unmarshal(raw, &file)
	case ".yaml", ".yml", "":
		err = yaml.Unmarshal(raw, &file)
	default:
		return nil, fmt.Errorf("favourite sinks file %q: unsupported extension %q", path, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("decode favourite sinks file: %w", err)
	}
	if len(file.Sinks) == 0 {
		return nil, errors.New("favourite sinks file declares no sinks")
	}

	seen := make(map[string]struct{}, len(file.Sinks))
	enabled := make([]SinkConfig, 0, len(file.Sinks))
	for i, cfg := range file.Sinks {
		cfg = cfg.normalize()
		if err := cfg.validate(); err != nil {
			return nil, fmt.Errorf("sinks[%d]: %w", i, err)
		}
		if _, dup := seen[cfg.ID]; dup {
			return nil, fmt.Errorf("duplicate sink id %q", cfg.ID)
		}
		seen[cfg.ID] = struct{}{}
		if cfg.enabled() {
			enabled = append(enabled, cfg)
		}
	}
	return enabled, nil
}

func (cfg SinkConfig) enabled() bool {
	return cfg.Enabled == nil || *cfg.Enabled
}

// normalize trims fields and lowercases identifiers. Nested blocks are copied
// so the caller's config is left untouched.
func (cfg SinkConfig) normalize() SinkConfig {
	cfg.ID = strings.TrimSpace(cfg.ID)
	cfg.Type = strings.ToLower(strings.TrimSpace(cfg.Type))

	if len(cfg.Actions) > 0 {
		actions := make([]string, 0, len(cfg.Actions))
		for _, a := range cfg.Actions {
			if a = strings.ToLower(strings.TrimSpace(a)); a != "" {
				actions = append(actions, a)
			}
		}
		cfg.Actions = actions
	}

	if cfg.SQS != nil {
		c := *cfg.SQS
		c.QueueURL = strings.TrimSpace(c.QueueURL)
		c.Region = strings.TrimSpace(c.Region)
		c.MessageGroup = strings.TrimSpace(c.MessageGroup)
		cfg.SQS = &c
	}
	if cfg.SNS != nil {
		c := *cfg.SNS
		c.TopicARN = strings.TrimSpace(c.TopicARN)
		c.Region = strings.TrimSpace(c.Region)
		c.Subject = strings.TrimSpace(c.Subject)
		cfg.SNS = &c
	}
	if cfg.PubSub != nil {
		c := *cfg.PubSub
		c.ProjectID = strings.TrimSpace(c.ProjectID)
		c.Topic = strings.TrimSpace(c.Topic)
		c.CredentialsFile = strings.TrimSpace(c.CredentialsFile)
		c.Endpoint = strings.TrimSpace(c.Endpoint)
		cfg.PubSub = &c
	}
	if cfg.HTTP != nil {
		c := *cfg.HTTP
		c.URL = strings.TrimSpace(c.URL)
		c.Method = strings.ToUpper(strings.TrimSpace(c.Method))
		if c.Method == "" {
			c.Method = http.MethodPost
		}
		headers := make(map[string]string, len(c.Headers))
		for k, v := range c.Headers {
			if k, v = strings.TrimSpace(k), strings.TrimSpace(v); k != "" && v != "" {
				headers[k] = v
			}
		}
		c.Headers = headers
		cfg.HTTP = &c
	}
	return cfg
}

func (cfg SinkConfig) validate() error {
	if cfg.ID == "" {
		return errors.New("id is required")
	}
	for _, a := range cfg.Actions {
		if !knownAction(a) {
			return fmt.Errorf("sink %q: unknown action %q (want %s or %s)",
				cfg.ID, a, ActionFavouriteAdded, ActionFavouriteRemoved)
		}
	}

	var err error
	switch cfg.Type {
	case TypeSQS:
		err = cfg.SQS.validate()
	case TypeSNS:
		err = cfg.SNS.validate()
	case TypePubSub:
		err = cfg.PubSub.validate()
	case TypeHTTP:
		err = cfg.HTTP.validate()
	case "":
		err = errors.New("type is required")
	default:
		err = fmt.Errorf("unsupported type %q", cfg.Type)
	}
	if err != nil {
		return fmt.Errorf("sink %q: %w", cfg.ID, err)
	}
	return nil
}

func (c *SQSConfig) validate() error {
	switch {
	case c == nil:
		return errors.New("sqs block is required")
	case c.QueueURL == "":
		return errors.New("sqs.queue_url is required")
	case c.Region == "":
		return errors.New("sqs.region is required")
	case c.MessageGroup != "" && !c.fifo():
		return errors.New("sqs.message_group only applies to .fifo queues")
	}
	return nil
}

func (c *SNSConfig) validate() error {
	switch {
	case c == nil:
		return errors.New("sns block is required")
	case !strings.HasPrefix(c.TopicARN, "arn:"):
		return fmt.Errorf("sns.topic_arn %q is not an ARN", c.TopicARN)
	case c.Region == "":
		return errors.New("sns.region is required")
	}
	return nil
}

func (c *PubSubConfig) validate() error {
	switch {
	case c == nil:
		return errors.New("pubsub block is required")
	case c.ProjectID == "" || c.Topic == "":
		return errors.New("pubsub.project_id and pubsub.topic are required")
	}
	return nil
}

func (c *HTTPConfig) validate() error {
	if c == nil {
		return errors.New("http block is required")
	}
	u, err := url.Parse(c.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("http.url %q must be an absolute http(s) URL", c.URL)
	}
	if c.Method != http.MethodPost && c.Method != http.MethodPut {
		return fmt.Errorf("http.method %q not supported (want POST or PUT)", c.Method)
	}
	if c.TimeoutSeconds < 0 {
		return errors.New("http.timeout_seconds must not be negative")
	}
	return nil
}
