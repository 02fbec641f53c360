package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"

	"github.com/comitanigiacomo/kanso-nutrition/internal/core/domain"
)

var _ domain.Notifier = (*SNSNotifier)(nil)

// Publisher is the slice of the SNS client the notifier needs.
type Publisher interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SNSNotifier publishes every notification to one topic. Subscribers filter
// on the user_id and kind message attributes.
type SNSNotifier struct {
	client   Publisher
	topicArn string
}

func NewSNSNotifier(client Publisher, topicArn string) *SNSNotifier {
	return &SNSNotifier{
		client:   client,
		topicArn: topicArn,
	}
}

// NewSNSClient builds a client from the default AWS credential chain.
func NewSNSClient(ctx context.Context, region string) (*sns.Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("notify: failed to load aws config: %w", err)
	}
	return sns.NewFromConfig(cfg), nil
}

type snsMessage struct {
	Title    string                `json:"title"`
	Messages []string              `json:"messages"`
	Analysis *domain.DailyAnalysis `json:"analysis,omitempty"`
}

func (s *SNSNotifier) Notify(ctx context.Context, n domain.Notification) error {
	body, err := json.Marshal(snsMessage{Title: n.Title, Messages: n.Messages, Analysis: n.Analysis})
	if err != nil {
		return fmt.Errorf("notify: failed to encode sns message: %w", err)
	}

	_, err = s.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(s.topicArn),
		Subject:  aws.String(n.Title),
		Message:  aws.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"user_id": {DataType: aws.String("String"), StringValue: aws.String(n.UserID)},
			"kind":    {DataType: aws.String("String"), StringValue: aws.String(string(n.Kind))},
		},
	})
	if err != nil {
		return fmt.Errorf("notify: sns publish failed: %w", err)
	}
	return nil
}
